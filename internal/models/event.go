package models

// Comparison is the operator of an event trigger threshold check
type Comparison string

const (
	CompareGTE Comparison = ">="
	CompareLTE Comparison = "<="
	CompareGT  Comparison = ">"
	CompareLT  Comparison = "<"
	CompareEQ  Comparison = "==" // Equality within EqualityEpsilon
)

// EqualityEpsilon is the tolerance used by the == comparison on float values
const EqualityEpsilon = 0.01

// Valid returns true for a known comparison operator
func (c Comparison) Valid() bool {
	switch c {
	case CompareGTE, CompareLTE, CompareGT, CompareLT, CompareEQ:
		return true
	}
	return false
}

// Check evaluates the comparison of a value against a threshold
func (c Comparison) Check(value, threshold float64) bool {
	switch c {
	case CompareGTE:
		return value >= threshold
	case CompareLTE:
		return value <= threshold
	case CompareGT:
		return value > threshold
	case CompareLT:
		return value < threshold
	case CompareEQ:
		diff := value - threshold
		if diff < 0 {
			diff = -diff
		}
		return diff < EqualityEpsilon
	}
	return false
}

// EventTrigger is one threshold condition of an event. All triggers of an
// event must hold for the event to fire.
type EventTrigger struct {
	Resource   string
	Threshold  float64
	Comparison Comparison
}

// EventChoice is one option the player can pick in response to an event
type EventChoice struct {
	ID          string
	Text        string
	Description string
	Costs       []ResourceCost
	Effects     []ResourceEffect
	Requires    []string // Upgrade IDs that must be owned to pick this choice
}

// Event is a game event awaiting a player decision once triggered
type Event struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Triggers    []EventTrigger
	Choices     []EventChoice
	OneTime     bool    // Never re-evaluated after the first trigger
	Cooldown    float64 // Seconds before a repeatable event may fire again
}
