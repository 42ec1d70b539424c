package test

import (
	"testing"
	"time"

	"github.com/rony4d/go-epoch-audit/integration"
)

// These tests verify that configuration presets behave correctly:
// - Each preset produces a distinct, internally consistent configuration
// - Helper functions (GetPresetByName, ApplyPreset) work correctly
// - Invalid inputs are handled gracefully

func TestPresets_haveDistinctPolicies(t *testing.T) {
	main := integration.MainPreset()
	test := integration.TestPreset()
	fake := integration.FakePreset()

	names := map[string]bool{main.Name: true, test.Name: true, fake.Name: true}
	if len(names) != 3 {
		t.Fatalf("presets should have unique names, got: %v", names)
	}

	// epoch durations should be ordered: fake < test < main
	if fake.Rules.Epochs.MaxEpochDuration >= test.Rules.Epochs.MaxEpochDuration {
		t.Fatal("fake epochs should be shorter than test epochs")
	}
	if test.Rules.Epochs.MaxEpochDuration >= main.Rules.Epochs.MaxEpochDuration {
		t.Fatal("test epochs should be shorter than main epochs")
	}

	// main and test share the audit thresholds
	if main.Rules.Audit.MinSealProofs != test.Rules.Audit.MinSealProofs {
		t.Fatal("main and test should share the proof threshold")
	}
}

func TestPresets_areInternallyConsistent(t *testing.T) {
	for _, p := range []integration.PresetConfig{
		integration.MainPreset(),
		integration.TestPreset(),
		integration.FakePreset(),
	} {
		if p.Validators < p.Rules.Audit.MinQuorumSize {
			t.Fatalf("preset %q: %d validators under its own quorum floor %d",
				p.Name, p.Validators, p.Rules.Audit.MinQuorumSize)
		}
		if p.BlockInterval <= 0 {
			t.Fatalf("preset %q: non-positive block interval", p.Name)
		}
		if p.Rules.Epochs.MaxEpochDuration == 0 && p.Rules.Epochs.MaxEpochRounds == 0 {
			t.Fatalf("preset %q: no epoch trigger configured", p.Name)
		}
	}
}

func TestGetPresetByName(t *testing.T) {
	for _, name := range []string{"main", "test", "fake"} {
		cfg, err := integration.GetPresetByName(name)
		if err != nil {
			t.Fatalf("GetPresetByName(%q) returned error: %v", name, err)
		}
		if cfg.Name != name {
			t.Fatalf("preset name = %q, want %q", cfg.Name, name)
		}
	}

	for _, name := range []string{"unknown", "", "FAKE", "Main"} {
		if _, err := integration.GetPresetByName(name); err == nil {
			t.Fatalf("GetPresetByName(%q) should return an error", name)
		}
	}
}

func TestApplyPreset_partialOverride(t *testing.T) {
	target := integration.FakePreset()
	originalRules := target.Rules

	partial := integration.PresetConfig{
		BlockInterval: 42 * time.Millisecond,
	}
	integration.ApplyPreset(&target, partial)

	if target.BlockInterval != 42*time.Millisecond {
		t.Fatalf("BlockInterval should be overridden, got %v", target.BlockInterval)
	}
	// zero-valued fields must not clobber the target
	if target.Name != "fake" {
		t.Fatalf("Name should remain fake, got %q", target.Name)
	}
	if target.Rules.Name != originalRules.Name {
		t.Fatal("Rules should remain untouched by an empty preset")
	}
	if target.Validators != integration.FakePreset().Validators {
		t.Fatal("Validators should remain untouched by an empty preset")
	}
}

func TestApplyPreset_fullOverride(t *testing.T) {
	target := integration.FakePreset()
	integration.ApplyPreset(&target, integration.MainPreset())

	if target.Name != "main" {
		t.Fatalf("Name = %q, want main", target.Name)
	}
	if target.Rules.Name != "main" {
		t.Fatalf("Rules.Name = %q, want main", target.Rules.Name)
	}
	if target.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", target.LogLevel)
	}
}
