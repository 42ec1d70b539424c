package launcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-epoch-audit/audit"
	"github.com/rony4d/go-epoch-audit/integration"
	"github.com/rony4d/go-epoch-audit/inter"
)

// Config aggregates everything the launcher needs to assemble a node: the
// network policy, the simulated block driver, and logging.
type Config struct {
	Node    NodeConfig
	Network NetworkConfig
	Driver  DriverConfig
	Logging LoggingConfig
}

type NodeConfig struct {
	DataDir string
	Name    string
}

// NetworkConfig selects the policy the engine is built with.
type NetworkConfig struct {
	Preset     string      // preset name the rules were taken from
	Rules      audit.Rules // epoch and audit policy applied at genesis
	Validators int         // fakenet genesis set size
}

// DriverConfig tunes the local block driver that feeds the engine.
type DriverConfig struct {
	BlockInterval time.Duration
	MaxBlocks     uint64 // 0 runs until interrupted
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

// fileConfig is the JSON shape accepted by --config. Only the fields an
// operator plausibly overrides are exposed; rules tweaks go through the
// dedicated CLI flags.
type fileConfig struct {
	DataDir       string `json:"dataDir"`
	Name          string `json:"name"`
	Preset        string `json:"preset"`
	Validators    int    `json:"validators"`
	BlockInterval string `json:"blockInterval"`
	MaxBlocks     uint64 `json:"maxBlocks"`
	LogVerbosity  *int   `json:"logVerbosity"`
	LogFormat     string `json:"logFormat"`
	SentryDSN     string `json:"sentryDSN"`
}

func defaultConfig() Config {
	preset := integration.FakePreset()
	return Config{
		Node: NodeConfig{
			DataDir: filepath.Join(GuessHomeDir(), ".epoch-audit"),
			Name:    "epoch-audit",
		},
		Network: NetworkConfig{
			Preset:     preset.Name,
			Rules:      preset.Rules,
			Validators: preset.Validators,
		},
		Driver: DriverConfig{
			BlockInterval: preset.BlockInterval,
		},
		Logging: LoggingConfig{
			Verbosity: 3,
			Format:    "text",
			Color:     true,
		},
	}
}

// MakeAllConfigs merges defaults, the optional config file, and CLI flag
// overrides into a single config struct. Precedence is CLI over file over
// defaults.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", file, err)
		}
	}
	if err := applyCLIOverrides(ctx, &cfg); err != nil {
		return Config{}, err
	}

	if err := ensureDir(cfg.Node.DataDir); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(resolvePath(path))
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return err
	}

	if fc.Preset != "" {
		if err := applyPresetName(fc.Preset, cfg); err != nil {
			return err
		}
	}
	if fc.DataDir != "" {
		cfg.Node.DataDir = resolvePath(fc.DataDir)
	}
	if fc.Name != "" {
		cfg.Node.Name = fc.Name
	}
	if fc.Validators > 0 {
		cfg.Network.Validators = fc.Validators
	}
	if fc.BlockInterval != "" {
		d, err := time.ParseDuration(fc.BlockInterval)
		if err != nil {
			return fmt.Errorf("blockInterval: %w", err)
		}
		cfg.Driver.BlockInterval = d
	}
	if fc.MaxBlocks > 0 {
		cfg.Driver.MaxBlocks = fc.MaxBlocks
	}
	if fc.LogVerbosity != nil {
		cfg.Logging.Verbosity = *fc.LogVerbosity
	}
	if fc.LogFormat != "" {
		cfg.Logging.Format = fc.LogFormat
	}
	if fc.SentryDSN != "" {
		cfg.Logging.SentryDSN = fc.SentryDSN
	}
	return nil
}

func applyPresetName(name string, cfg *Config) error {
	preset, err := integration.GetPresetByName(name)
	if err != nil {
		return err
	}
	cfg.Network.Preset = preset.Name
	cfg.Network.Rules = preset.Rules
	cfg.Network.Validators = preset.Validators
	cfg.Driver.BlockInterval = preset.BlockInterval
	return nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) error {
	if ctx.IsSet("preset") {
		if err := applyPresetName(ctx.String("preset"), cfg); err != nil {
			return err
		}
	}
	if ctx.IsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.String("datadir"))
	}
	if ctx.IsSet("fake.validators") {
		cfg.Network.Validators = ctx.Int("fake.validators")
	}
	if ctx.IsSet("block.interval") {
		cfg.Driver.BlockInterval = ctx.Duration("block.interval")
	}
	if ctx.IsSet("blocks") {
		cfg.Driver.MaxBlocks = ctx.Uint64("blocks")
	}

	if ctx.IsSet("epoch.duration") {
		cfg.Network.Rules.Epochs.MaxEpochDuration = inter.Timestamp(ctx.Duration("epoch.duration"))
	}
	if ctx.IsSet("epoch.rounds") {
		cfg.Network.Rules.Epochs.MaxEpochRounds = ctx.Uint64("epoch.rounds")
	}
	if ctx.IsSet("audit.minproofs") {
		cfg.Network.Rules.Audit.MinSealProofs = ctx.Uint64("audit.minproofs")
	}
	if ctx.IsSet("audit.quorum") {
		cfg.Network.Rules.Audit.MinQuorumSize = ctx.Int("audit.quorum")
	}

	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Logging.SentryDSN = ctx.String("sentry.dsn")
	}
	return nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create datadir %s: %w", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
