package engine

import (
	"math"

	"github.com/avelaine/epochs/internal/models"
)

// ResourceState tracks the current value and production modifiers for a
// single resource. Modifiers are transient: they are derived from the owned
// upgrade set on every recalculation, never accumulated across calls.
type ResourceState struct {
	Definition *models.ResourceDefinition

	CurrentValue float64
	IsUnlocked   bool

	BaseAdditions   float64 // Sum of active add effects
	TotalMultiplier float64 // Product of active mult effects
}

// NewResourceState creates the runtime state for a resource definition.
// Dynamic resources start locked; everything else starts unlocked.
func NewResourceState(def *models.ResourceDefinition) *ResourceState {
	return &ResourceState{
		Definition:      def,
		CurrentValue:    def.InitialValue(),
		IsUnlocked:      !def.IsDynamic(),
		TotalMultiplier: 1.0,
	}
}

// ProductionPerSecond returns the net production rate
func (s *ResourceState) ProductionPerSecond() float64 {
	base := s.Definition.BaseProduction + s.BaseAdditions
	return base * s.TotalMultiplier
}

// Update integrates production over dt using the current rate, then clamps
// to the floor. There is no ceiling.
func (s *ResourceState) Update(dt float64) {
	s.CurrentValue += s.ProductionPerSecond() * dt
	if s.CurrentValue < s.Definition.MinValue {
		s.CurrentValue = s.Definition.MinValue
	}
}

// ResetModifiers restores modifiers to their neutral values. Called before
// every recalculation so repeated application never drifts.
func (s *ResourceState) ResetModifiers() {
	s.BaseAdditions = 0.0
	s.TotalMultiplier = 1.0
}

// ApplyEffect folds one effect into the modifiers. Mult effects compose
// multiplicatively, so application order matters under floating point; the
// manager applies them in owned-upgrade insertion order.
func (s *ResourceState) ApplyEffect(effect models.ResourceEffect) {
	switch effect.Kind {
	case models.EffectAdd:
		s.BaseAdditions += effect.Value
	case models.EffectMult:
		s.TotalMultiplier *= effect.Value
	}
}

// ProductionPercentOfBase returns production relative to the base rate as a
// percentage, guarding against a near-zero base.
func (s *ResourceState) ProductionPercentOfBase() float64 {
	base := s.Definition.BaseProduction
	if math.Abs(base) < 1e-9 {
		return 0.0
	}
	return s.ProductionPerSecond() / base * 100.0
}
