package audit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rony4d/go-epoch-audit/inter"
)

// TestNetworkConstants verifies that network ID constants are correctly
// defined. These constants identify which network a node is running on.
func TestNetworkConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant uint64
		want     uint64
	}{
		{"MainNetworkID", MainNetworkID, 0xab},
		{"TestNetworkID", TestNetworkID, 0xab2},
		{"FakeNetworkID", FakeNetworkID, 0xab3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, tt.constant, tt.want)
			}
		})
	}
}

// TestMainNetRules verifies the production preset: day-long epochs, no round
// trigger, conservative audit thresholds.
func TestMainNetRules(t *testing.T) {
	rules := MainNetRules()

	if rules.Name != "main" {
		t.Errorf("Name = %q, want 'main'", rules.Name)
	}
	if rules.NetworkID != MainNetworkID {
		t.Errorf("NetworkID = %d, want %d", rules.NetworkID, MainNetworkID)
	}
	if rules.Epochs.MaxEpochDuration != inter.Timestamp(24*time.Hour) {
		t.Errorf("MaxEpochDuration = %d, want 24h", rules.Epochs.MaxEpochDuration)
	}
	if rules.Epochs.MaxEpochRounds != 0 {
		t.Errorf("MaxEpochRounds = %d, want 0 (disabled)", rules.Epochs.MaxEpochRounds)
	}
	if rules.Audit.MinSealProofs != 7 {
		t.Errorf("MinSealProofs = %d, want 7", rules.Audit.MinSealProofs)
	}
	if rules.Audit.MinQuorumSize != 4 {
		t.Errorf("MinQuorumSize = %d, want 4", rules.Audit.MinQuorumSize)
	}
	if !rules.Audit.RetainJailedHistory {
		t.Error("RetainJailedHistory should default to true on mainnet")
	}
}

// TestFakeNetRules verifies the accelerated local-network preset.
func TestFakeNetRules(t *testing.T) {
	rules := FakeNetRules()

	if rules.Name != "fake" {
		t.Errorf("Name = %q, want 'fake'", rules.Name)
	}
	if rules.Epochs.MaxEpochDuration != inter.Timestamp(60*time.Second) {
		t.Errorf("MaxEpochDuration = %d, want 60s", rules.Epochs.MaxEpochDuration)
	}
	if rules.Epochs.MaxEpochRounds == 0 {
		t.Error("fakenet should configure a round trigger as a backstop")
	}
	if rules.Audit.MinSealProofs != 5 {
		t.Errorf("MinSealProofs = %d, want 5", rules.Audit.MinSealProofs)
	}
	if rules.Audit.MinQuorumSize != 3 {
		t.Errorf("MinQuorumSize = %d, want 3", rules.Audit.MinQuorumSize)
	}
}

// TestTestNetRules verifies the testnet preset carries the mainnet audit
// policy with a shorter epoch.
func TestTestNetRules(t *testing.T) {
	rules := TestNetRules()
	main := MainNetRules()

	if rules.Name != "test" {
		t.Errorf("Name = %q, want 'test'", rules.Name)
	}
	if rules.Audit != main.Audit {
		t.Errorf("testnet audit policy %+v should equal mainnet %+v", rules.Audit, main.Audit)
	}
	if rules.Epochs.MaxEpochDuration >= main.Epochs.MaxEpochDuration {
		t.Error("testnet epochs should be shorter than mainnet epochs")
	}
}

// TestRulesCopy verifies that a copy is independent of the original.
func TestRulesCopy(t *testing.T) {
	original := MainNetRules()
	cp := original.Copy()

	cp.Audit.MinSealProofs = 99
	cp.Epochs.MaxEpochRounds = 1

	if original.Audit.MinSealProofs != 7 {
		t.Error("modifying the copy changed the original audit rules")
	}
	if original.Epochs.MaxEpochRounds != 0 {
		t.Error("modifying the copy changed the original epoch rules")
	}
}

// TestRulesString verifies the JSON dump round-trips through RulesJSON.
func TestRulesString(t *testing.T) {
	rules := FakeNetRules()

	var decoded RulesJSON
	if err := json.Unmarshal([]byte(rules.String()), &decoded); err != nil {
		t.Fatalf("String() is not valid JSON: %v", err)
	}
	if Rules(decoded) != rules {
		t.Errorf("decoded rules %+v != original %+v", decoded, rules)
	}
}
