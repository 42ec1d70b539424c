package test

import (
	"testing"
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-epoch-audit/cmd/audit/launcher"
	"github.com/rony4d/go-epoch-audit/flags"
	"github.com/rony4d/go-epoch-audit/inter"
)

// helper to run MakeAllConfigs with a synthetic CLI context.

func runConfigFromArgs(t *testing.T, args []string) launcher.Config {
	t.Helper()

	app := cli.NewApp()
	app.HideHelp = true
	app.HideVersion = true

	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.NodeFlags()...)
	app.Flags = append(app.Flags, flags.AuditFlags()...)

	var got launcher.Config
	app.Action = func(c *cli.Context) error {
		cfg, err := launcher.MakeAllConfigs(c)
		if err != nil {
			return err
		}
		got = cfg
		return nil
	}

	if err := app.Run(append([]string{"epoch-audit"}, args...)); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
	return got
}

// TestMakeAllConfigs_flagOverrides verifies that the command-line flags we
// declare correctly override the corresponding fields in the aggregated
// Config struct. Each sub-test feeds custom CLI arguments into a synthetic
// app, invokes launcher.MakeAllConfigs, and checks the bits of the resulting
// struct that should have changed.
func TestMakeAllConfigs_flagOverrides(t *testing.T) {
	tmp := t.TempDir()

	tests := []struct {
		name string
		args []string
		want func(t *testing.T, cfg launcher.Config)
	}{
		{
			name: "datadir",
			args: []string{"--datadir", tmp},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Node.DataDir != tmp {
					t.Fatalf("DataDir = %q, want %q", cfg.Node.DataDir, tmp)
				}
			},
		},
		{
			name: "preset selection",
			args: []string{"--datadir", tmp, "--preset", "test"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Network.Preset != "test" {
					t.Fatalf("Preset = %q, want test", cfg.Network.Preset)
				}
				if cfg.Network.Rules.Name != "test" {
					t.Fatalf("Rules.Name = %q, want test", cfg.Network.Rules.Name)
				}
				if cfg.Network.Rules.Epochs.MaxEpochDuration != inter.Timestamp(4*time.Hour) {
					t.Fatalf("MaxEpochDuration = %d, want 4h", cfg.Network.Rules.Epochs.MaxEpochDuration)
				}
			},
		},
		{
			name: "audit overrides on top of preset",
			args: []string{
				"--datadir", tmp,
				"--preset", "fake",
				"--audit.minproofs", "9",
				"--audit.quorum", "2",
				"--epoch.rounds", "50",
			},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Network.Rules.Audit.MinSealProofs != 9 {
					t.Fatalf("MinSealProofs = %d, want 9", cfg.Network.Rules.Audit.MinSealProofs)
				}
				if cfg.Network.Rules.Audit.MinQuorumSize != 2 {
					t.Fatalf("MinQuorumSize = %d, want 2", cfg.Network.Rules.Audit.MinQuorumSize)
				}
				if cfg.Network.Rules.Epochs.MaxEpochRounds != 50 {
					t.Fatalf("MaxEpochRounds = %d, want 50", cfg.Network.Rules.Epochs.MaxEpochRounds)
				}
			},
		},
		{
			name: "driver knobs",
			args: []string{"--datadir", tmp, "--fake.validators", "7", "--block.interval", "50ms", "--blocks", "500"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Network.Validators != 7 {
					t.Fatalf("Validators = %d, want 7", cfg.Network.Validators)
				}
				if cfg.Driver.BlockInterval != 50*time.Millisecond {
					t.Fatalf("BlockInterval = %v, want 50ms", cfg.Driver.BlockInterval)
				}
				if cfg.Driver.MaxBlocks != 500 {
					t.Fatalf("MaxBlocks = %d, want 500", cfg.Driver.MaxBlocks)
				}
			},
		},
		{
			name: "logging",
			args: []string{"--datadir", tmp, "--log.format", "json", "--log.verbosity", "4"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Logging.Format != "json" {
					t.Fatalf("Format = %q, want json", cfg.Logging.Format)
				}
				if cfg.Logging.Verbosity != 4 {
					t.Fatalf("Verbosity = %d, want 4", cfg.Logging.Verbosity)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := runConfigFromArgs(t, test.args)
			test.want(t, cfg)
		})
	}
}

// TestMakeAllConfigs_unknownPreset verifies that an unrecognized preset name
// is surfaced as an error rather than silently falling back to defaults.
func TestMakeAllConfigs_unknownPreset(t *testing.T) {
	app := cli.NewApp()
	app.HideHelp = true
	app.HideVersion = true
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.NodeFlags()...)

	var gotErr error
	app.Action = func(c *cli.Context) error {
		_, gotErr = launcher.MakeAllConfigs(c)
		return nil
	}
	if err := app.Run([]string{"epoch-audit", "--datadir", t.TempDir(), "--preset", "bogus"}); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
	if gotErr == nil {
		t.Fatal("expected error for unknown preset")
	}
}
