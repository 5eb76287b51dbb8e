package engine

import (
	"sort"

	"github.com/avelaine/epochs/internal/models"
)

// EventSystem evaluates threshold triggers against resource state and holds
// at most one active event awaiting a player choice. While an event is
// active no further triggers are checked.
//
// Pausing the clock while an event is shown is a policy decision, not a
// contract: it is controlled by GameConfig.PauseOnEvent.
type EventSystem struct {
	state  *GameState
	events map[string]*models.Event
	order  []string // Sorted event ids, fixed trigger-check order

	triggered map[string]struct{} // One-time events that already fired
	cooldowns map[string]float64  // Event id -> seconds remaining

	active       *models.Event
	pauseOnEvent bool
	pausedByUs   bool

	onTriggered func(*models.Event)
}

// NewEventSystem builds the event layer over a game state
func NewEventSystem(events map[string]*models.Event, state *GameState, cfg models.GameConfig) *EventSystem {
	es := &EventSystem{
		state:        state,
		events:       events,
		triggered:    make(map[string]struct{}),
		cooldowns:    make(map[string]float64),
		pauseOnEvent: cfg.PauseOnEvent,
	}
	for id := range events {
		es.order = append(es.order, id)
	}
	sort.Strings(es.order)
	return es
}

// SetTriggerCallback registers a callback fired when an event activates
func (es *EventSystem) SetTriggerCallback(fn func(*models.Event)) {
	es.onTriggered = fn
}

// ActiveEvent returns the event awaiting a choice, or nil
func (es *EventSystem) ActiveEvent() *models.Event {
	return es.active
}

// Update ticks cooldowns and, when no event is active, checks triggers in
// fixed id order. At most one event activates per call.
func (es *EventSystem) Update(dt float64) {
	for id, remaining := range es.cooldowns {
		remaining -= dt
		if remaining <= 0 {
			delete(es.cooldowns, id)
		} else {
			es.cooldowns[id] = remaining
		}
	}

	if es.active != nil {
		return
	}

	for _, id := range es.order {
		event := es.events[id]

		if event.OneTime {
			if _, done := es.triggered[id]; done {
				continue
			}
		}
		if _, cooling := es.cooldowns[id]; cooling {
			continue
		}

		if es.checkTriggers(event) {
			es.trigger(event)
			break
		}
	}
}

// checkTriggers reports whether every trigger condition holds. An event with
// no triggers never fires.
func (es *EventSystem) checkTriggers(event *models.Event) bool {
	if len(event.Triggers) == 0 {
		return false
	}
	for _, trigger := range event.Triggers {
		res := es.state.Resources().Get(trigger.Resource)
		if res == nil {
			return false
		}
		if !trigger.Comparison.Check(res.CurrentValue, trigger.Threshold) {
			return false
		}
	}
	return true
}

func (es *EventSystem) trigger(event *models.Event) {
	es.active = event

	if event.OneTime {
		es.triggered[event.ID] = struct{}{}
	}
	if event.Cooldown > 0 {
		es.cooldowns[event.ID] = event.Cooldown
	}

	if es.pauseOnEvent && !es.state.Time().Paused() {
		es.state.Time().SetPaused(true)
		es.pausedByUs = true
	}

	if es.onTriggered != nil {
		es.onTriggered(event)
	}
}

// CanMakeChoice reports whether a choice's upgrade requirements are owned
// and its costs affordable.
func (es *EventSystem) CanMakeChoice(choice models.EventChoice) bool {
	for _, req := range choice.Requires {
		if !es.state.Owns(req) {
			return false
		}
	}
	return es.state.Resources().CanAfford(choice.Costs)
}

// MakeChoice resolves the active event with the given choice: pays the
// costs, applies the effects as permanent production modifiers and clears
// the active event. Returns false, mutating nothing, if no event is active
// or the choice's requirements or costs are not met.
func (es *EventSystem) MakeChoice(choice models.EventChoice) bool {
	if es.active == nil {
		return false
	}
	if !es.CanMakeChoice(choice) {
		return false
	}
	if !es.state.Resources().PayCosts(choice.Costs) {
		return false
	}

	if len(choice.Effects) > 0 {
		es.state.AddPermanentEffects(choice.Effects)
	}

	es.active = nil

	if es.pausedByUs {
		es.state.Time().SetPaused(false)
		es.pausedByUs = false
	}
	return true
}

// DismissActive clears the active event without applying any choice
func (es *EventSystem) DismissActive() {
	es.active = nil
	if es.pausedByUs {
		es.state.Time().SetPaused(false)
		es.pausedByUs = false
	}
}
