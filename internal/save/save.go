package save

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/avelaine/epochs/internal/engine"
)

// Version is the current snapshot format version
const Version = 1

// Snapshot is the persisted session payload. Only raw accumulated values and
// ownership are stored; production rates are always rederived on load so
// catalog changes between versions never leave stale modifiers behind.
type Snapshot struct {
	Version           int                `json:"version"`
	Timestamp         string             `json:"timestamp"`
	Resources         map[string]float64 `json:"resources"`
	OwnedUpgrades     []string           `json:"owned_upgrades"`
	SelectedExclusive map[string]string  `json:"selected_exclusive"`
	CurrentYear       int                `json:"current_year"`
}

// Capture builds a snapshot of the current session
func Capture(state *engine.GameState) Snapshot {
	snap := Snapshot{
		Version:           Version,
		Timestamp:         time.Now().Format(time.RFC3339),
		Resources:         make(map[string]float64),
		OwnedUpgrades:     state.OwnedUpgrades(),
		SelectedExclusive: state.SelectedExclusive(),
		CurrentYear:       state.CurrentYear(),
	}
	for _, res := range state.Resources().All() {
		snap.Resources[res.Definition.ID] = res.CurrentValue
	}
	return snap
}

// Write saves a snapshot as indented JSON
func Write(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode save: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

// Read loads and version-checks a snapshot
func Read(path string) (Snapshot, error) {
	var snap Snapshot

	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("failed to read save: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("failed to parse save: %w", err)
	}
	if snap.Version != Version {
		return snap, fmt.Errorf("unsupported save version %d (expected %d)", snap.Version, Version)
	}
	return snap, nil
}

// Apply restores a snapshot into a session. Ownership is restored in its
// saved order and production recalculated from scratch; unknown resource or
// upgrade ids (catalog drift) are ignored by the engine.
func Apply(snap Snapshot, state *engine.GameState) {
	for id, value := range snap.Resources {
		if res := state.Resources().Get(id); res != nil {
			res.CurrentValue = value
			if res.CurrentValue < res.Definition.MinValue {
				res.CurrentValue = res.Definition.MinValue
			}
		}
	}

	state.Restore(snap.OwnedUpgrades, snap.SelectedExclusive, snap.CurrentYear)

	// Dynamic resources may already be due at the restored year
	state.CheckUnlocks()
}
