package engine

import (
	"testing"

	"github.com/avelaine/epochs/internal/models"
)

func TestProductionRateComposition(t *testing.T) {
	def := &models.ResourceDefinition{ID: "money", Name: "Money", BaseProduction: 10}
	res := NewResourceState(def)

	if got := res.ProductionPerSecond(); got != 10 {
		t.Errorf("Expected base rate 10, got %v", got)
	}

	res.ApplyEffect(models.ResourceEffect{Resource: "money", Kind: models.EffectAdd, Value: 5})
	if got := res.ProductionPerSecond(); got != 15 {
		t.Errorf("Expected rate 15 after add, got %v", got)
	}

	// Mult applies to base plus additions, and composes multiplicatively
	res.ApplyEffect(models.ResourceEffect{Resource: "money", Kind: models.EffectMult, Value: 2})
	res.ApplyEffect(models.ResourceEffect{Resource: "money", Kind: models.EffectMult, Value: 1.5})
	if got := res.ProductionPerSecond(); got != 45 {
		t.Errorf("Expected rate 45 after two mults, got %v", got)
	}
	if res.TotalMultiplier != 3 {
		t.Errorf("Expected multiplier 3, got %v", res.TotalMultiplier)
	}
}

func TestUpdateClampsToFloor(t *testing.T) {
	def := &models.ResourceDefinition{ID: "food", Name: "Food", BaseProduction: -10, MinValue: 2}
	res := NewResourceState(def)
	res.CurrentValue = 5

	res.Update(10.0)
	if res.CurrentValue != 2 {
		t.Errorf("Expected clamp to floor 2, got %v", res.CurrentValue)
	}

	// Floor is one-sided: there is no ceiling
	res.BaseAdditions = 100
	res.Update(10.0)
	if res.CurrentValue <= 2 {
		t.Errorf("Expected value to grow past the floor, got %v", res.CurrentValue)
	}
}

func TestSpendScenario(t *testing.T) {
	_, rm, _ := NewTestSession()

	if rm.Value("money") != 100 {
		t.Fatalf("Expected starting money 100, got %v", rm.Value("money"))
	}

	if rm.Spend("money", 150) {
		t.Error("Spend of 150 with 100 available should fail")
	}
	if rm.Value("money") != 100 {
		t.Errorf("Failed spend must not mutate, got %v", rm.Value("money"))
	}

	if !rm.Spend("money", 60) {
		t.Error("Spend of 60 with 100 available should succeed")
	}
	if rm.Value("money") != 40 {
		t.Errorf("Expected 40 after spending 60, got %v", rm.Value("money"))
	}

	rm.Update(1.0)
	if rm.Value("money") != 50 {
		t.Errorf("Expected 50 after one second at rate 10, got %v", rm.Value("money"))
	}
}

func TestSpendUnknownResource(t *testing.T) {
	_, rm, _ := NewTestSession()

	if rm.Spend("gold", 1) {
		t.Error("Spend on unknown resource should fail")
	}
	if rm.Value("gold") != 0.0 {
		t.Errorf("Unknown resource value should be 0.0, got %v", rm.Value("gold"))
	}
	if rm.Get("gold") != nil {
		t.Error("Get on unknown resource should return nil")
	}
}

func TestPayCostsAllOrNothing(t *testing.T) {
	_, rm, _ := NewTestSession()

	// Money (100) is affordable, science (20) is not
	costs := []models.ResourceCost{
		{Resource: "money", Amount: 50},
		{Resource: "science", Amount: 500},
	}

	if rm.CanAfford(costs) {
		t.Error("CanAfford should fail when any cost is uncovered")
	}
	if rm.PayCosts(costs) {
		t.Error("PayCosts should fail when any cost is uncovered")
	}
	if rm.Value("money") != 100 {
		t.Errorf("Partial deduction detected: money = %v, want 100", rm.Value("money"))
	}
	if rm.Value("science") != 20 {
		t.Errorf("Partial deduction detected: science = %v, want 20", rm.Value("science"))
	}

	costs[1].Amount = 5
	if !rm.PayCosts(costs) {
		t.Fatal("PayCosts should succeed when every cost is covered")
	}
	if rm.Value("money") != 50 || rm.Value("science") != 15 {
		t.Errorf("Expected money=50 science=15, got money=%v science=%v",
			rm.Value("money"), rm.Value("science"))
	}
}

func TestRecalculationIsIdempotent(t *testing.T) {
	state, rm, _ := NewTestSession()

	if !state.PurchaseUpgrade("mint") {
		t.Fatal("mint purchase should succeed")
	}
	if !state.PurchaseUpgrade("bank") {
		t.Fatal("bank purchase should succeed")
	}

	money := rm.Get("money")
	additions, multiplier := money.BaseAdditions, money.TotalMultiplier

	// Re-running recalculation with the same owned set must not drift
	for i := 0; i < 10; i++ {
		rm.RecalculateProduction(state.OwnedUpgrades(), NewTestCatalog().Upgrades, nil)
	}

	if money.BaseAdditions != additions {
		t.Errorf("Additions drifted: %v -> %v", additions, money.BaseAdditions)
	}
	if money.TotalMultiplier != multiplier {
		t.Errorf("Multiplier drifted: %v -> %v", multiplier, money.TotalMultiplier)
	}
}

func TestCheckAndUnlockResources(t *testing.T) {
	state, rm, ts := NewTestSession()

	electricity := rm.Get("electricity")
	if electricity.IsUnlocked {
		t.Fatal("Dynamic resource should start locked")
	}

	// Year not reached, upgrade not owned
	if rm.CheckAndUnlockResources(ts.CurrentYear(), state.Owns) {
		t.Error("Nothing should unlock at the start year")
	}

	// Year reached but required upgrade still missing
	if rm.CheckAndUnlockResources(1805, state.Owns) {
		t.Error("Resource should stay locked without its required upgrade")
	}

	ts.SetYear(1805)
	if !state.PurchaseUpgrade("power_plant") {
		t.Fatal("power_plant purchase should succeed")
	}

	if !rm.CheckAndUnlockResources(ts.CurrentYear(), state.Owns) {
		t.Error("Expected an unlock transition")
	}
	if !electricity.IsUnlocked {
		t.Error("electricity should be unlocked")
	}

	// Idempotent: a second call reports no transition
	if rm.CheckAndUnlockResources(ts.CurrentYear(), state.Owns) {
		t.Error("Second call should report no transition")
	}
}

func TestProductionPercentOfBaseGuardsZeroBase(t *testing.T) {
	def := &models.ResourceDefinition{ID: "relic", Name: "Relic", BaseProduction: 0}
	res := NewResourceState(def)
	res.BaseAdditions = 5

	if got := res.ProductionPercentOfBase(); got != 0.0 {
		t.Errorf("Zero base must not divide, got %v", got)
	}
}

func TestNonNegativityAcrossOperations(t *testing.T) {
	state, rm, ts := NewTestSession()

	for i := 0; i < 100; i++ {
		ts.Update(0.3)
		state.Update(0.3, ts.EffectiveTimeScale())
		rm.Spend("money", 37)
		rm.ApplyEffect(models.ResourceEffect{Resource: "money", Kind: models.EffectMult, Value: 0.5})

		for _, res := range rm.All() {
			if res.CurrentValue < res.Definition.MinValue {
				t.Fatalf("Resource %s fell below floor: %v < %v",
					res.Definition.ID, res.CurrentValue, res.Definition.MinValue)
			}
		}
	}
}
