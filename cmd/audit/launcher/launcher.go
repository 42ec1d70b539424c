// Package launcher assembles and runs the audit node: it parses flags into a
// config, sets up logging, builds a deterministic genesis, and drives the
// reconfiguration engine with locally produced blocks. The local driver
// stands in for a consensus layer: every known validator votes on every
// block, and compliant validators submit their participation proofs and
// autopay enrollment through the engine's self-service interface.
package launcher

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-epoch-audit/audit/genesis"
	"github.com/rony4d/go-epoch-audit/engine"
	"github.com/rony4d/go-epoch-audit/flags"
	"github.com/rony4d/go-epoch-audit/inter"
	"github.com/rony4d/go-epoch-audit/inter/iepoch"
)

var app = flags.NewApp()

func init() {
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.NodeFlags()...)
	app.Flags = append(app.Flags, flags.AuditFlags()...)
	app.Action = run
}

// Launch parses the command line and runs the node until it is interrupted
// or the configured block limit is reached.
func Launch(args []string) error {
	return app.Run(args)
}

func run(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Logging); err != nil {
		return err
	}

	log := logrus.WithField("module", "launcher")
	log.WithFields(logrus.Fields{
		"preset":     cfg.Network.Preset,
		"network":    cfg.Network.Rules.Name,
		"validators": cfg.Network.Validators,
		"datadir":    cfg.Node.DataDir,
	}).Info("starting audit node")

	g := genesis.FakeGenesis(cfg.Network.Validators, cfg.Network.Rules, inter.FromUnix(time.Now()))
	eng, err := engine.New(g, engine.DefaultSystemCaller)
	if err != nil {
		return err
	}

	seals := make(chan iepoch.SealRecord, 16)
	sub := eng.SubscribeSeals(seals)
	defer sub.Unsubscribe()
	go func() {
		for rec := range seals {
			log.WithFields(logrus.Fields{
				"epoch":   rec.Epoch,
				"oldSize": rec.OldSize,
				"newSize": rec.NewSize,
				"jailed":  rec.Jailed,
				"hash":    rec.EpochStateHash.Hex(),
			}).Info("observed epoch seal")
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	return driveBlocks(eng, g, cfg.Driver, interrupt, log)
}

// driveBlocks produces blocks at the configured cadence. Validators still in
// the active set vote on every block, keep their autopay enrollment, and
// spread their proof submissions across the epoch.
func driveBlocks(eng *engine.Engine, g genesis.Genesis, cfg DriverConfig, interrupt <-chan os.Signal, log *logrus.Entry) error {
	byID := make(map[idx.ValidatorID]genesis.Validator, len(g.Validators))
	for _, v := range g.Validators {
		byID[v.ID] = v
		if err := eng.EnableAutoPay(v.Address, v.ID); err != nil {
			return err
		}
	}
	seq := make(map[idx.ValidatorID]uint64)

	ticker := time.NewTicker(cfg.BlockInterval)
	defer ticker.Stop()

	var n idx.Block
	for {
		select {
		case <-interrupt:
			log.WithField("lastBlock", n).Info("interrupted, shutting down")
			return nil
		case <-ticker.C:
		}
		n++

		// honest validators ship their proofs as wire submissions
		voters := eng.Validators().IDs()
		for _, id := range voters {
			seq[id]++
			raw, err := inter.ProofSubmission{
				Epoch:     eng.Epoch(),
				Validator: byID[id].Address,
				Seq:       seq[id],
			}.MarshalBinary()
			if err != nil {
				return err
			}
			if err := eng.ApplySubmission(byID[id].Address, raw); err != nil {
				return err
			}
		}

		rec, err := eng.ApplyBlock(engine.DefaultSystemCaller, inter.Block{
			Idx:    n,
			Round:  uint64(n),
			Time:   inter.FromUnix(time.Now()),
			Voters: voters,
		})
		if err != nil {
			log.WithError(err).WithField("block", n).Error("block prologue failed")
			return err
		}
		if rec == nil {
			log.WithFields(logrus.Fields{
				"block": n,
				"epoch": eng.Epoch(),
				"votes": len(voters),
			}).Debug("applied block")
		} else {
			// submission sequence numbers restart with the new epoch
			seq = make(map[idx.ValidatorID]uint64)
		}
		if cfg.MaxBlocks > 0 && uint64(n) >= cfg.MaxBlocks {
			log.WithField("blocks", n).Info("block limit reached, shutting down")
			return nil
		}
	}
}
