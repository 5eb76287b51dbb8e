package engine

import (
	"sort"

	"github.com/avelaine/epochs/internal/models"
)

// ResourceManager owns all resource states. Iteration over resources always
// follows a fixed sorted-id order so every observable walk is reproducible.
type ResourceManager struct {
	resources map[string]*ResourceState
	order     []string
}

// NewResourceManager initializes runtime state for every definition
func NewResourceManager(definitions map[string]*models.ResourceDefinition) *ResourceManager {
	m := &ResourceManager{
		resources: make(map[string]*ResourceState, len(definitions)),
		order:     make([]string, 0, len(definitions)),
	}
	for id, def := range definitions {
		m.resources[id] = NewResourceState(def)
		m.order = append(m.order, id)
	}
	sort.Strings(m.order)
	return m
}

// Get returns the state for a resource, or nil if unknown
func (m *ResourceManager) Get(id string) *ResourceState {
	return m.resources[id]
}

// Value returns the current value of a resource, 0.0 if unknown
func (m *ResourceManager) Value(id string) float64 {
	if res, ok := m.resources[id]; ok {
		return res.CurrentValue
	}
	return 0.0
}

// All returns every resource state in fixed id order
func (m *ResourceManager) All() []*ResourceState {
	states := make([]*ResourceState, 0, len(m.order))
	for _, id := range m.order {
		states = append(states, m.resources[id])
	}
	return states
}

// Unlocked returns the unlocked resource states in fixed id order
func (m *ResourceManager) Unlocked() []*ResourceState {
	var states []*ResourceState
	for _, id := range m.order {
		if res := m.resources[id]; res.IsUnlocked {
			states = append(states, res)
		}
	}
	return states
}

// Locked returns the still-locked resource states in fixed id order
func (m *ResourceManager) Locked() []*ResourceState {
	var states []*ResourceState
	for _, id := range m.order {
		if res := m.resources[id]; !res.IsUnlocked {
			states = append(states, res)
		}
	}
	return states
}

// Spend subtracts amount from a single resource. Succeeds only with
// sufficient funds; on failure nothing is mutated.
func (m *ResourceManager) Spend(id string, amount float64) bool {
	res, ok := m.resources[id]
	if !ok || res.CurrentValue < amount {
		return false
	}
	res.CurrentValue -= amount
	return true
}

// CanAfford reports whether every cost is covered. Pure query.
func (m *ResourceManager) CanAfford(costs []models.ResourceCost) bool {
	for _, cost := range costs {
		res, ok := m.resources[cost.Resource]
		if !ok || res.CurrentValue < cost.Amount {
			return false
		}
	}
	return true
}

// PayCosts pays all costs or none. Affordability is pre-checked against the
// current snapshot, then each cost is spent in list order.
func (m *ResourceManager) PayCosts(costs []models.ResourceCost) bool {
	if !m.CanAfford(costs) {
		return false
	}
	for _, cost := range costs {
		m.Spend(cost.Resource, cost.Amount)
	}
	return true
}

// ApplyEffect routes a single effect to its target resource. Unknown targets
// are ignored.
func (m *ResourceManager) ApplyEffect(effect models.ResourceEffect) {
	if res, ok := m.resources[effect.Resource]; ok {
		res.ApplyEffect(effect)
	}
}

// RecalculateProduction resets every modifier and reapplies all effects of
// the owned upgrades in the given order, then the extra effects (event
// rewards) in theirs. Idempotent for a fixed input sequence. Must run after
// every purchase and after restoring a save.
func (m *ResourceManager) RecalculateProduction(owned []string, upgrades map[string]*models.Upgrade, extra []models.ResourceEffect) {
	for _, id := range m.order {
		m.resources[id].ResetModifiers()
	}

	for _, upgradeID := range owned {
		upgrade, ok := upgrades[upgradeID]
		if !ok {
			continue
		}
		for _, effect := range upgrade.Effects {
			m.ApplyEffect(effect)
		}
	}

	for _, effect := range extra {
		m.ApplyEffect(effect)
	}
}

// Update advances every resource by dt at its pre-update production rate
func (m *ResourceManager) Update(dt float64) {
	for _, id := range m.order {
		m.resources[id].Update(dt)
	}
}

// CheckAndUnlockResources unlocks any locked dynamic resource whose year has
// arrived and whose required upgrades are all owned. Unlocking is one-way and
// idempotent. Returns true if any resource transitioned this call.
func (m *ResourceManager) CheckAndUnlockResources(currentYear int, owned func(id string) bool) bool {
	anyUnlocked := false

	for _, id := range m.order {
		res := m.resources[id]
		if res.IsUnlocked {
			continue
		}

		def := res.Definition
		if def.UnlockYear > currentYear {
			continue
		}

		met := true
		for _, upgradeID := range def.Requires {
			if !owned(upgradeID) {
				met = false
				break
			}
		}
		if !met {
			continue
		}

		res.IsUnlocked = true
		anyUnlocked = true
	}

	return anyUnlocked
}
