package engine

import (
	"fmt"
	"sort"

	"github.com/avelaine/epochs/internal/models"
)

// Upgrade status taxonomy returned by UpgradeStatus
const (
	StatusOwned             = "owned"
	StatusUnknown           = "unknown"
	StatusExclusiveBlocked  = "exclusive_blocked"
	StatusRequirementsUnmet = "requirements_not_met"
	StatusCannotAfford      = "cannot_afford"
	StatusAvailable         = "available"
)

// GameState is the progression orchestrator: it decides whether upgrades are
// purchasable, executes purchases and keeps production in sync.
//
// Owned upgrades are stored as an insertion-ordered sequence with a parallel
// membership set. Effect application during recalculation follows that
// order, so the multiplier product is reproducible across runs and saves.
type GameState struct {
	resources *ResourceManager
	time      *TimeSystem
	trees     map[string]*models.UpgradeTree
	upgrades  map[string]*models.Upgrade
	config    models.Config

	ownedOrder        []string
	ownedSet          map[string]struct{}
	selectedExclusive map[string]string // group -> upgrade id, at most one per group

	// Permanent modifiers granted outside the upgrade tree (event rewards).
	// Reapplied after upgrade effects on every recalculation.
	permanentEffects []models.ResourceEffect
}

// NewGameState wires the orchestrator to its collaborators
func NewGameState(catalog *models.Catalog, resources *ResourceManager, time *TimeSystem, config models.Config) *GameState {
	return &GameState{
		resources:         resources,
		time:              time,
		trees:             catalog.Trees,
		upgrades:          catalog.Upgrades,
		config:            config,
		ownedSet:          make(map[string]struct{}),
		selectedExclusive: make(map[string]string),
	}
}

// Resources returns the resource manager
func (g *GameState) Resources() *ResourceManager {
	return g.resources
}

// Time returns the time system
func (g *GameState) Time() *TimeSystem {
	return g.time
}

// CurrentYear returns the current simulated year
func (g *GameState) CurrentYear() int {
	return g.time.CurrentYear()
}

// Upgrade returns an upgrade definition by id, or nil if unknown
func (g *GameState) Upgrade(id string) *models.Upgrade {
	return g.upgrades[id]
}

// Owns reports whether an upgrade is owned
func (g *GameState) Owns(id string) bool {
	_, ok := g.ownedSet[id]
	return ok
}

// OwnedUpgrades returns the owned upgrade ids in purchase order
func (g *GameState) OwnedUpgrades() []string {
	out := make([]string, len(g.ownedOrder))
	copy(out, g.ownedOrder)
	return out
}

// SelectedExclusive returns a copy of the group -> selected upgrade mapping
func (g *GameState) SelectedExclusive() map[string]string {
	out := make(map[string]string, len(g.selectedExclusive))
	for group, id := range g.selectedExclusive {
		out[group] = id
	}
	return out
}

// CheckRequirementsMet reports whether every prerequisite entry holds and
// the upgrade's year has arrived. Entries combine with AND; an any-of entry
// is satisfied by owning one member.
func (g *GameState) CheckRequirementsMet(upgrade *models.Upgrade) bool {
	for _, req := range upgrade.Requires {
		if !req.SatisfiedBy(g.Owns) {
			return false
		}
	}
	return upgrade.Year <= g.CurrentYear()
}

// CheckExclusiveGroupAvailable reports whether the upgrade's exclusive group
// slots are open. A group already locked to a different sibling blocks the
// upgrade; an upgrade re-checked against its own selection stays available.
func (g *GameState) CheckExclusiveGroupAvailable(upgrade *models.Upgrade) bool {
	for _, group := range upgrade.ExclusiveGroups {
		if selected, ok := g.selectedExclusive[group]; ok && selected != upgrade.ID {
			return false
		}
	}
	return true
}

// IsUpgradeAvailable reports whether an upgrade could be purchased right now,
// ignoring affordability. Affordability is a distinct state: a node can be
// available yet unaffordable.
func (g *GameState) IsUpgradeAvailable(id string) bool {
	if g.Owns(id) {
		return false
	}
	upgrade, ok := g.upgrades[id]
	if !ok {
		return false
	}
	if !g.CheckRequirementsMet(upgrade) {
		return false
	}
	return g.CheckExclusiveGroupAvailable(upgrade)
}

// AvailableUpgradeIDs returns all currently available upgrade ids in sorted
// order. O(n) over the catalog; callers polling every frame should cache.
func (g *GameState) AvailableUpgradeIDs() []string {
	var available []string
	for id := range g.upgrades {
		if g.IsUpgradeAvailable(id) {
			available = append(available, id)
		}
	}
	sort.Strings(available)
	return available
}

// CanAffordUpgrade reports whether the upgrade's full cost is covered
func (g *GameState) CanAffordUpgrade(id string) bool {
	upgrade, ok := g.upgrades[id]
	if !ok {
		return false
	}
	return g.resources.CanAfford(upgrade.Cost)
}

// PurchaseUpgrade attempts to buy an upgrade. Either every mutation happens
// (payment, ownership, exclusive selection, production recalculation) or
// none does. Invalid commands are rejected silently with false.
func (g *GameState) PurchaseUpgrade(id string) bool {
	if !g.IsUpgradeAvailable(id) {
		return false
	}

	upgrade := g.upgrades[id]
	if !g.resources.PayCosts(upgrade.Cost) {
		return false
	}

	g.ownedOrder = append(g.ownedOrder, id)
	g.ownedSet[id] = struct{}{}

	// First purchase in a group locks the group for the session
	for _, group := range upgrade.ExclusiveGroups {
		g.selectedExclusive[group] = id
	}

	g.recalculate()
	return true
}

// AddPermanentEffects registers modifiers that outlive recalculation, such
// as event choice rewards, and folds them into production immediately.
func (g *GameState) AddPermanentEffects(effects []models.ResourceEffect) {
	g.permanentEffects = append(g.permanentEffects, effects...)
	g.recalculate()
}

func (g *GameState) recalculate() {
	g.resources.RecalculateProduction(g.ownedOrder, g.upgrades, g.permanentEffects)
}

// UpgradeStatus classifies an upgrade for display purposes
func (g *GameState) UpgradeStatus(id string) string {
	if g.Owns(id) {
		return StatusOwned
	}

	upgrade, ok := g.upgrades[id]
	if !ok {
		return StatusUnknown
	}

	if upgrade.Year > g.CurrentYear() {
		return fmt.Sprintf("locked_year_%d", upgrade.Year)
	}
	if !g.CheckExclusiveGroupAvailable(upgrade) {
		return StatusExclusiveBlocked
	}
	if !g.CheckRequirementsMet(upgrade) {
		return StatusRequirementsUnmet
	}
	if !g.resources.CanAfford(upgrade.Cost) {
		return StatusCannotAfford
	}
	return StatusAvailable
}

// Update advances the simulation by dt scaled by timeScale. Production
// integrates at the pre-update rate for the whole delta.
func (g *GameState) Update(dt, timeScale float64) {
	g.resources.Update(dt * timeScale)
}

// CheckUnlocks runs the dynamic resource unlock pass. Returns true if any
// resource unlocked this call.
func (g *GameState) CheckUnlocks() bool {
	return g.resources.CheckAndUnlockResources(g.CurrentYear(), g.Owns)
}

// CanTimeSkipToYear reports whether a forward skip is safe: every resource's
// projected value must stay at or above its floor.
func (g *GameState) CanTimeSkipToYear(targetYear int) bool {
	if targetYear <= g.CurrentYear() {
		return false
	}

	years := float64(targetYear - g.CurrentYear())
	secondsPerYear := g.config.Time.SecondsPerYear

	for _, res := range g.resources.All() {
		projected := res.CurrentValue + res.ProductionPerSecond()*years*secondsPerYear
		if projected < res.Definition.MinValue {
			return false
		}
	}
	return true
}

// TimeSkipToYear advances directly to a future year, crediting every
// resource with the projected production and firing year listeners once per
// skipped year in ascending order.
func (g *GameState) TimeSkipToYear(targetYear int) bool {
	if !g.CanTimeSkipToYear(targetYear) {
		return false
	}

	years := float64(targetYear - g.CurrentYear())
	secondsPerYear := g.config.Time.SecondsPerYear

	for _, res := range g.resources.All() {
		res.CurrentValue += res.ProductionPerSecond() * years * secondsPerYear
		if res.CurrentValue < res.Definition.MinValue {
			res.CurrentValue = res.Definition.MinValue
		}
	}

	from := g.CurrentYear()
	g.time.Restore(targetYear)
	for year := from + 1; year <= targetYear; year++ {
		g.time.notify(year)
	}
	return true
}

// Restore replaces the session state from a saved payload: ownership in its
// saved order, exclusive selections and the year. Production is recalculated
// from scratch; rates are never restored directly.
func (g *GameState) Restore(owned []string, selectedExclusive map[string]string, year int) {
	g.ownedOrder = make([]string, 0, len(owned))
	g.ownedSet = make(map[string]struct{}, len(owned))
	for _, id := range owned {
		if _, dup := g.ownedSet[id]; dup {
			continue
		}
		g.ownedOrder = append(g.ownedOrder, id)
		g.ownedSet[id] = struct{}{}
	}

	g.selectedExclusive = make(map[string]string, len(selectedExclusive))
	for group, id := range selectedExclusive {
		g.selectedExclusive[group] = id
	}

	g.permanentEffects = nil
	g.time.Restore(year)
	g.recalculate()
}

// Reset restores the initial session: nothing owned, no exclusive
// selections, seeded resource values, start-year clock.
func (g *GameState) Reset() {
	g.ownedOrder = nil
	g.ownedSet = make(map[string]struct{})
	g.selectedExclusive = make(map[string]string)
	g.permanentEffects = nil

	for _, res := range g.resources.All() {
		res.CurrentValue = res.Definition.InitialValue()
		res.IsUnlocked = !res.Definition.IsDynamic()
		res.ResetModifiers()
	}

	g.time.Restore(g.config.Time.StartYear)
	g.time.SetPaused(false)
	g.time.SetSpeed(g.config.Time.DefaultSpeed)
}
