// Package autoplay drives a game session without a player: each simulated
// year it buys whatever is available and affordable, cheapest first. It is
// the workload behind the headless CLI and the determinism tests.
package autoplay

import (
	"sort"

	"github.com/avelaine/epochs/internal/engine"
	"github.com/avelaine/epochs/internal/models"
)

// Purchase records one upgrade bought during a run
type Purchase struct {
	Year      int
	UpgradeID string
	Name      string
	Tree      string
	TotalCost float64
}

// Result summarizes a completed run
type Result struct {
	Purchases  []Purchase
	FinalYear  int
	TicksRun   int
	Statistics engine.Statistics
}

// Runner steps a session toward a target year with a greedy buy policy
type Runner struct {
	state  *engine.GameState
	events *engine.EventSystem
	tick   float64
}

// NewRunner creates a runner. events may be nil for event-free runs; tick is
// the fixed frame delta in real seconds.
func NewRunner(state *engine.GameState, events *engine.EventSystem, tick float64) *Runner {
	if tick <= 0 {
		tick = 0.1
	}
	return &Runner{state: state, events: events, tick: tick}
}

// Run advances the simulation until the target year is reached, buying
// greedily after every tick. Purchases within a tick are ordered cheapest
// first with the upgrade id as tiebreaker, so runs are fully deterministic.
func (r *Runner) Run(targetYear int) Result {
	var result Result
	ts := r.state.Time()

	for ts.CurrentYear() < targetYear {
		ts.Update(r.tick)
		r.state.Update(r.tick, ts.EffectiveTimeScale())
		r.state.CheckUnlocks()

		if r.events != nil {
			r.events.Update(r.tick)
			r.resolveActiveEvent()
		}

		result.Purchases = append(result.Purchases, r.buyGreedy()...)
		result.TicksRun++
	}

	result.FinalYear = ts.CurrentYear()
	result.Statistics = r.state.Statistics()
	return result
}

// buyGreedy buys affordable available upgrades until none remain, cheapest
// first. Every purchase can unlock new candidates, so the scan restarts
// after each buy.
func (r *Runner) buyGreedy() []Purchase {
	var purchases []Purchase

	for {
		candidates := r.affordableCandidates()
		if len(candidates) == 0 {
			return purchases
		}

		pick := candidates[0]
		if !r.state.PurchaseUpgrade(pick.ID) {
			// Availability and affordability were just checked; a failed
			// buy here means the state changed underneath us. Bail out
			// rather than loop.
			return purchases
		}

		purchases = append(purchases, Purchase{
			Year:      r.state.CurrentYear(),
			UpgradeID: pick.ID,
			Name:      pick.Name,
			Tree:      pick.Tree,
			TotalCost: totalCost(pick),
		})
	}
}

func (r *Runner) affordableCandidates() []*models.Upgrade {
	var candidates []*models.Upgrade
	for _, id := range r.state.AvailableUpgradeIDs() {
		if !r.state.CanAffordUpgrade(id) {
			continue
		}
		candidates = append(candidates, r.state.Upgrade(id))
	}

	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := totalCost(candidates[i]), totalCost(candidates[j])
		if ci != cj {
			return ci < cj
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates
}

// resolveActiveEvent answers a pending event with the first feasible choice
func (r *Runner) resolveActiveEvent() {
	event := r.events.ActiveEvent()
	if event == nil {
		return
	}
	for _, choice := range event.Choices {
		if r.events.MakeChoice(choice) {
			return
		}
	}
	r.events.DismissActive()
}

// totalCost is the greedy ranking heuristic: the plain sum of cost amounts.
// Good enough for a tiebreak-stable cheapest-first policy; it makes no
// attempt to weight resources against each other.
func totalCost(u *models.Upgrade) float64 {
	var total float64
	for _, cost := range u.Cost {
		total += cost.Amount
	}
	return total
}
