package autoplay

import (
	"testing"

	"github.com/avelaine/epochs/internal/engine"
	"github.com/avelaine/epochs/internal/models"
)

func newRunner() (*Runner, *engine.GameState) {
	state, _, _ := engine.NewTestSession()
	catalog := engine.NewTestCatalog()
	events := engine.NewEventSystem(catalog.Events, state, models.DefaultConfig().Game)
	return NewRunner(state, events, 0.1), state
}

func TestRunReachesTargetYear(t *testing.T) {
	runner, state := newRunner()

	result := runner.Run(1810)

	if result.FinalYear != 1810 {
		t.Errorf("Expected final year 1810, got %d", result.FinalYear)
	}
	if state.CurrentYear() != 1810 {
		t.Errorf("Engine year should match, got %d", state.CurrentYear())
	}
	if len(result.Purchases) == 0 {
		t.Error("Ten years of income should afford purchases")
	}
}

func TestGreedyBuysCheapestFirst(t *testing.T) {
	runner, _ := newRunner()

	result := runner.Run(1801)
	if len(result.Purchases) < 2 {
		t.Fatalf("Expected several purchases in the first year, got %v", result.Purchases)
	}

	// With money=100 the cheapest available node is a guild (10)
	first := result.Purchases[0]
	if first.UpgradeID != "guild_a" {
		t.Errorf("Expected guild_a first (cheapest, id tiebreak), got %s", first.UpgradeID)
	}
}

func TestGreedyRespectsExclusiveGroups(t *testing.T) {
	runner, state := newRunner()

	runner.Run(1820)

	if state.Owns("guild_a") && state.Owns("guild_b") {
		t.Error("Runner must never own both members of an exclusive group")
	}
}

func TestRunDeterminism(t *testing.T) {
	baselineRunner, baselineState := newRunner()
	baseline := baselineRunner.Run(1830)
	baselineMoney := baselineState.Resources().Value("money")

	if len(baseline.Purchases) == 0 {
		t.Fatal("Baseline run has no purchases")
	}

	const iterations = 100
	for i := 1; i < iterations; i++ {
		runner, state := newRunner()
		result := runner.Run(1830)

		if len(result.Purchases) != len(baseline.Purchases) {
			t.Fatalf("Iteration %d: purchase count mismatch: got %d, want %d",
				i, len(result.Purchases), len(baseline.Purchases))
		}
		for j, p := range result.Purchases {
			want := baseline.Purchases[j]
			if p.UpgradeID != want.UpgradeID || p.Year != want.Year {
				t.Fatalf("Iteration %d: purchase %d mismatch: got %s@%d, want %s@%d",
					i, j, p.UpgradeID, p.Year, want.UpgradeID, want.Year)
			}
		}

		// Floating-point state must be bit-identical across runs
		if got := state.Resources().Value("money"); got != baselineMoney {
			t.Fatalf("Iteration %d: money mismatch: got %v, want %v", i, got, baselineMoney)
		}
		if result.Statistics.OwnedUpgrades != baseline.Statistics.OwnedUpgrades {
			t.Fatalf("Iteration %d: owned count mismatch: got %d, want %d",
				i, result.Statistics.OwnedUpgrades, baseline.Statistics.OwnedUpgrades)
		}
	}
}
