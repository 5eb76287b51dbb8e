package engine

import (
	"testing"

	"github.com/avelaine/epochs/internal/models"
)

func newTestEvent(id string, oneTime bool, cooldown float64) *models.Event {
	return &models.Event{
		ID:      id,
		Title:   "Windfall",
		OneTime: oneTime,
		Triggers: []models.EventTrigger{
			{Resource: "money", Threshold: 150, Comparison: models.CompareGTE},
		},
		Choices: []models.EventChoice{
			{
				ID:    "invest",
				Text:  "Invest it",
				Costs: []models.ResourceCost{{Resource: "money", Amount: 100}},
				Effects: []models.ResourceEffect{
					{Resource: "money", Kind: models.EffectMult, Value: 2},
				},
			},
			{ID: "ignore", Text: "Ignore it"},
		},
		Cooldown: cooldown,
	}
}

func newTestEventSystem(events ...*models.Event) (*EventSystem, *GameState, *ResourceManager) {
	state, rm, _ := NewTestSession()
	catalog := map[string]*models.Event{}
	for _, e := range events {
		catalog[e.ID] = e
	}
	es := NewEventSystem(catalog, state, models.DefaultConfig().Game)
	return es, state, rm
}

func TestEventTriggersWhenAllThresholdsMet(t *testing.T) {
	event := newTestEvent("windfall", true, 0)
	event.Triggers = append(event.Triggers, models.EventTrigger{
		Resource: "science", Threshold: 10, Comparison: models.CompareGTE,
	})
	es, _, rm := newTestEventSystem(event)

	// money=100 < 150: no trigger yet
	es.Update(0.1)
	if es.ActiveEvent() != nil {
		t.Fatal("Event should not trigger below threshold")
	}

	rm.Get("money").CurrentValue = 200
	rm.Get("science").CurrentValue = 5

	// One of two AND conditions holds: still no trigger
	es.Update(0.1)
	if es.ActiveEvent() != nil {
		t.Fatal("Event requires all triggers to hold")
	}

	rm.Get("science").CurrentValue = 15
	es.Update(0.1)
	if es.ActiveEvent() == nil {
		t.Fatal("Event should trigger once all thresholds hold")
	}
}

func TestNoTriggerChecksWhileEventActive(t *testing.T) {
	first := newTestEvent("first", true, 0)
	second := newTestEvent("second", true, 0)
	es, _, rm := newTestEventSystem(first, second)

	rm.Get("money").CurrentValue = 200
	es.Update(0.1)

	active := es.ActiveEvent()
	if active == nil {
		t.Fatal("An event should be active")
	}

	// Conditions for the other event hold, but nothing may fire
	es.Update(0.1)
	if es.ActiveEvent() != active {
		t.Error("Active event must not be replaced")
	}
}

func TestOneTimeEventNeverRefires(t *testing.T) {
	es, _, rm := newTestEventSystem(newTestEvent("windfall", true, 0))

	rm.Get("money").CurrentValue = 200
	es.Update(0.1)
	if es.ActiveEvent() == nil {
		t.Fatal("Event should trigger")
	}

	if !es.MakeChoice(es.ActiveEvent().Choices[1]) {
		t.Fatal("Free choice should succeed")
	}

	// Conditions still hold, but the event is spent
	es.Update(0.1)
	if es.ActiveEvent() != nil {
		t.Error("One-time event must never refire")
	}
}

func TestCooldownSuppressesRepeatableEvent(t *testing.T) {
	es, _, rm := newTestEventSystem(newTestEvent("windfall", false, 30))

	rm.Get("money").CurrentValue = 200
	es.Update(0.1)
	if es.ActiveEvent() == nil {
		t.Fatal("Event should trigger")
	}
	es.MakeChoice(es.ActiveEvent().Choices[1])

	// Still cooling down
	es.Update(10)
	if es.ActiveEvent() != nil {
		t.Error("Event must not refire during cooldown")
	}

	// Cooldown elapsed, repeatable event fires again
	es.Update(25)
	if es.ActiveEvent() == nil {
		t.Error("Repeatable event should refire after cooldown")
	}
}

func TestMakeChoicePaysAndAppliesPermanentEffects(t *testing.T) {
	es, state, rm := newTestEventSystem(newTestEvent("windfall", true, 0))

	rm.Get("money").CurrentValue = 200
	es.Update(0.1)
	if es.ActiveEvent() == nil {
		t.Fatal("Event should trigger")
	}

	if !es.MakeChoice(es.ActiveEvent().Choices[0]) {
		t.Fatal("Affordable choice should succeed")
	}
	if es.ActiveEvent() != nil {
		t.Error("Choice should clear the active event")
	}
	if rm.Value("money") != 100 {
		t.Errorf("Expected money 100 after paying 100, got %v", rm.Value("money"))
	}
	if got := rm.Get("money").ProductionPerSecond(); got != 20 {
		t.Errorf("Expected production 20 after x2 reward, got %v", got)
	}

	// The reward is permanent: it survives the recalculation a purchase runs
	if !state.PurchaseUpgrade("mint") {
		t.Fatal("mint purchase should succeed")
	}
	if got := rm.Get("money").ProductionPerSecond(); got != 30 {
		t.Errorf("Expected production (10+5)*2=30 after mint, got %v", got)
	}
}

func TestMakeChoiceRequirements(t *testing.T) {
	event := newTestEvent("windfall", true, 0)
	event.Choices[0].Requires = []string{"bank"}
	es, state, rm := newTestEventSystem(event)

	rm.Get("money").CurrentValue = 200
	es.Update(0.1)
	if es.ActiveEvent() == nil {
		t.Fatal("Event should trigger")
	}

	if es.MakeChoice(event.Choices[0]) {
		t.Error("Choice requiring an unowned upgrade must fail")
	}
	if es.ActiveEvent() == nil {
		t.Error("Failed choice must leave the event active")
	}

	if !state.PurchaseUpgrade("bank") {
		t.Fatal("bank purchase should succeed")
	}
	if !es.MakeChoice(event.Choices[0]) {
		t.Error("Choice should succeed once the requirement is owned")
	}
}

func TestMakeChoiceWithNoActiveEvent(t *testing.T) {
	es, _, _ := newTestEventSystem(newTestEvent("windfall", true, 0))

	if es.MakeChoice(models.EventChoice{ID: "invest"}) {
		t.Error("MakeChoice without an active event must fail")
	}
}

func TestPauseOnEventPolicy(t *testing.T) {
	state, _, ts := NewTestSession()
	cfg := models.DefaultConfig().Game
	cfg.PauseOnEvent = true

	event := newTestEvent("windfall", true, 0)
	es := NewEventSystem(map[string]*models.Event{event.ID: event}, state, cfg)

	state.Resources().Get("money").CurrentValue = 200
	es.Update(0.1)

	if es.ActiveEvent() == nil {
		t.Fatal("Event should trigger")
	}
	if !ts.Paused() {
		t.Error("Pause-on-event policy should pause the clock")
	}

	es.MakeChoice(event.Choices[1])
	if ts.Paused() {
		t.Error("Resolving the event should resume the clock")
	}
}

func TestEqualityComparisonEpsilon(t *testing.T) {
	cmp := models.CompareEQ
	if !cmp.Check(100.005, 100) {
		t.Error("Values within epsilon should compare equal")
	}
	if cmp.Check(100.02, 100) {
		t.Error("Values outside epsilon should not compare equal")
	}
}
