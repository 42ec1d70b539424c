package flags

import (
	"time"

	"gopkg.in/urfave/cli.v1"
)

// NodeFlags holds knobs specific to the local node instance: network preset
// selection, fakenet genesis size, and the simulated block driver.

func NodeFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "preset",
			Usage: "Network preset to run (main|test|fake)",
			Value: "fake",
		},
		cli.IntFlag{
			Name:  "fake.validators",
			Usage: "Number of deterministic fakenet validators at genesis",
			Value: 3,
		},
		cli.DurationFlag{
			Name:  "block.interval",
			Usage: "Cadence of the simulated block driver",
			Value: 200 * time.Millisecond,
		},
		cli.Uint64Flag{
			Name:  "blocks",
			Usage: "Stop after this many blocks (0 runs until interrupted)",
		},
	}
}

// AuditFlags isolates the audit-policy overrides. Unset flags leave the
// preset's values in place.
func AuditFlags() []cli.Flag {
	return []cli.Flag{
		cli.DurationFlag{
			Name:  "epoch.duration",
			Usage: "Override the epoch duration trigger (0 disables it)",
		},
		cli.Uint64Flag{
			Name:  "epoch.rounds",
			Usage: "Override the epoch round-count trigger (0 disables it)",
		},
		cli.Uint64Flag{
			Name:  "audit.minproofs",
			Usage: "Override the minimum participation proofs per epoch",
		},
		cli.IntFlag{
			Name:  "audit.quorum",
			Usage: "Override the smallest validator set a seal may commit",
		},
	}
}
