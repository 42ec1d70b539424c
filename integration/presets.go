// Package integration provides configuration presets and assembly helpers for
// building the audit node runtime. Presets bundle a network's rule set with
// the runtime knobs operators usually tune together (block cadence, fakenet
// set size, logging defaults) into named profiles so a node can be spun up
// without tweaking dozens of flags.
//
// Usage:
//
//	cfg := integration.FakePreset() // local development network
//	cfg := integration.MainPreset() // mainnet policy
//
// Each preset returns a PresetConfig struct that the launcher merges into its
// main config during node initialization.
package integration

import (
	"fmt"
	"time"

	"github.com/rony4d/go-epoch-audit/audit"
)

// PresetConfig captures the tunable parameters that vary across preset
// profiles. It intentionally excludes fields that are always operator-chosen
// (data directory, sentry DSN) so presets focus on network policy and
// simulation behavior.
type PresetConfig struct {
	Name          string        // human-readable identifier ("main", "test", "fake")
	Rules         audit.Rules   // epoch and audit policy applied at genesis
	Validators    int           // fakenet genesis set size (ignored on main/test)
	BlockInterval time.Duration // simulated block cadence for the local driver
	LogLevel      string        // default logrus level for this profile
}

// MainPreset returns the mainnet policy profile. The simulation knobs are
// still populated so a mainnet-policy network can be exercised locally.
func MainPreset() PresetConfig {
	return PresetConfig{
		Name:          "main",
		Rules:         audit.MainNetRules(),
		Validators:    5,
		BlockInterval: time.Second,
		LogLevel:      "info",
	}
}

// TestPreset returns the testnet policy profile. Same audit thresholds as
// mainnet with shorter epochs, so boundary behavior surfaces sooner.
func TestPreset() PresetConfig {
	return PresetConfig{
		Name:          "test",
		Rules:         audit.TestNetRules(),
		Validators:    5,
		BlockInterval: time.Second,
		LogLevel:      "info",
	}
}

// FakePreset returns the local development profile: one-minute epochs, a
// small genesis set, a fast block cadence, and debug logging. Keys are
// derived deterministically, so never use this profile with real funds.
func FakePreset() PresetConfig {
	return PresetConfig{
		Name:          "fake",
		Rules:         audit.FakeNetRules(),
		Validators:    3,
		BlockInterval: 200 * time.Millisecond,
		LogLevel:      "debug",
	}
}

// GetPresetByName looks up a preset by its string identifier. This helper
// backs CLI flags like --preset=fake.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "main":
		return MainPreset(), nil
	case "test":
		return TestPreset(), nil
	case "fake":
		return FakePreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: main, test, fake)", name)
	}
}

// ApplyPreset merges a preset into an existing config. Fields set in the
// preset override the corresponding values in the target, so presets can be
// applied on top of config-file values without clobbering unrelated settings.
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.Name != "" {
		target.Name = preset.Name
	}
	if preset.Rules.Name != "" {
		target.Rules = preset.Rules.Copy()
	}
	if preset.Validators > 0 {
		target.Validators = preset.Validators
	}
	if preset.BlockInterval > 0 {
		target.BlockInterval = preset.BlockInterval
	}
	if preset.LogLevel != "" {
		target.LogLevel = preset.LogLevel
	}
}
