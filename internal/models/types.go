package models

// EffectKind discriminates how a ResourceEffect modifies production
type EffectKind string

const (
	EffectAdd  EffectKind = "add"  // Adds to base production
	EffectMult EffectKind = "mult" // Multiplies total production
)

// Valid returns true for a known effect kind
func (k EffectKind) Valid() bool {
	return k == EffectAdd || k == EffectMult
}

// ResourceDefinition describes a resource type available in the game.
// Definitions are loaded once at startup and never mutated.
type ResourceDefinition struct {
	ID             string
	Name           string
	Description    string
	Icon           string
	Color          [3]int
	BaseProduction float64 // Production per second before modifiers
	MinValue       float64 // Floor; values below are clamped, never an error
	StartValue     *float64

	// Dynamic unlock conditions (zero values = unlocked from the start)
	UnlockYear int
	Requires   []string // Upgrade IDs that must all be owned
}

// IsDynamic returns true if the resource starts locked and unlocks at runtime
func (d *ResourceDefinition) IsDynamic() bool {
	return d.UnlockYear > 0 || len(d.Requires) > 0
}

// InitialValue returns the value a fresh game session seeds this resource with
func (d *ResourceDefinition) InitialValue() float64 {
	if d.StartValue != nil {
		return *d.StartValue
	}
	return d.BaseProduction * 10
}

// ResourceCost is a single resource cost of an upgrade or event choice
type ResourceCost struct {
	Resource string
	Amount   float64
}

// ResourceEffect is a single production modifier an owned upgrade applies
type ResourceEffect struct {
	Resource string
	Kind     EffectKind
	Value    float64
}

// Requirement is one entry of an upgrade's prerequisite list.
// Entries combine with AND; an entry is either a direct upgrade ID or an
// any-of set where owning one member satisfies the entry.
type Requirement struct {
	Direct string
	AnyOf  []string
}

// Req builds a direct requirement
func Req(id string) Requirement {
	return Requirement{Direct: id}
}

// ReqAnyOf builds an any-of requirement
func ReqAnyOf(ids ...string) Requirement {
	return Requirement{AnyOf: ids}
}

// IsAnyOf returns true if the requirement is an any-of set
func (r Requirement) IsAnyOf() bool {
	return len(r.AnyOf) > 0
}

// SatisfiedBy reports whether the requirement holds against an ownership test
func (r Requirement) SatisfiedBy(owned func(id string) bool) bool {
	if r.IsAnyOf() {
		for _, id := range r.AnyOf {
			if owned(id) {
				return true
			}
		}
		return false
	}
	return owned(r.Direct)
}

// Upgrade is a purchasable node in a tech tree
type Upgrade struct {
	ID          string
	Tree        string
	Name        string
	Description string
	Tier        int // Layout/sort hint only, never a gameplay gate
	Year        int // Earliest year the upgrade may be purchased
	Cost        []ResourceCost
	Effects     []ResourceEffect

	// ExclusiveGroups lists the mutually-exclusive groups this upgrade
	// competes in. A sibling owned in any of them blocks this upgrade.
	ExclusiveGroups []string

	Requires []Requirement
}

// UpgradeTree is a collection of related upgrades
type UpgradeTree struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Upgrades    map[string]*Upgrade
}

// Catalog bundles everything the loader produces for engine construction
type Catalog struct {
	Resources map[string]*ResourceDefinition
	Trees     map[string]*UpgradeTree
	Upgrades  map[string]*Upgrade
	Events    map[string]*Event
}
