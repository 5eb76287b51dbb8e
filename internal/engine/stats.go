package engine

import (
	"sort"

	"github.com/avelaine/epochs/internal/models"
)

// TreeStats summarizes progress within one upgrade tree
type TreeStats struct {
	Total      int
	Owned      int
	Percentage float64
}

// Statistics is a read-only snapshot of overall progression
type Statistics struct {
	CurrentYear          int
	TotalUpgrades        int
	OwnedUpgrades        int
	AvailableUpgrades    int
	CompletionPercentage float64
	TreeStats            map[string]TreeStats

	// NextUnlockYear is the next year with upgrades becoming purchasable;
	// HasNextUnlock is false when no future upgrades remain.
	NextUnlockYear       int
	HasNextUnlock        bool
	YearsUntilNextUnlock int
}

// Statistics computes the current progression summary
func (g *GameState) Statistics() Statistics {
	stats := Statistics{
		CurrentYear:       g.CurrentYear(),
		TotalUpgrades:     len(g.upgrades),
		OwnedUpgrades:     len(g.ownedOrder),
		AvailableUpgrades: len(g.AvailableUpgradeIDs()),
		TreeStats:         make(map[string]TreeStats, len(g.trees)),
	}

	if stats.TotalUpgrades > 0 {
		stats.CompletionPercentage = float64(stats.OwnedUpgrades) / float64(stats.TotalUpgrades) * 100.0
	}

	for treeID, tree := range g.trees {
		ts := TreeStats{Total: len(tree.Upgrades)}
		for id := range tree.Upgrades {
			if g.Owns(id) {
				ts.Owned++
			}
		}
		if ts.Total > 0 {
			ts.Percentage = float64(ts.Owned) / float64(ts.Total) * 100.0
		}
		stats.TreeStats[treeID] = ts
	}

	if next, ok := g.NextYearWithUpgrades(); ok {
		stats.NextUnlockYear = next
		stats.HasNextUnlock = true
		stats.YearsUntilNextUnlock = next - stats.CurrentYear
	}

	return stats
}

// UpgradesByYear returns the upgrades unlocking in a specific year, sorted
// by tier then id.
func (g *GameState) UpgradesByYear(year int) []*models.Upgrade {
	var out []*models.Upgrade
	for _, upgrade := range g.upgrades {
		if upgrade.Year == year {
			out = append(out, upgrade)
		}
	}
	sortUpgrades(out)
	return out
}

// NextYearWithUpgrades returns the earliest future year with unowned
// upgrades unlocking, and false when there is none.
func (g *GameState) NextYearWithUpgrades() (int, bool) {
	next := 0
	found := false
	for id, upgrade := range g.upgrades {
		if upgrade.Year <= g.CurrentYear() || g.Owns(id) {
			continue
		}
		if !found || upgrade.Year < next {
			next = upgrade.Year
			found = true
		}
	}
	return next, found
}

// UpgradesLockedByYear groups still-locked future upgrades by unlock year
func (g *GameState) UpgradesLockedByYear() map[int][]*models.Upgrade {
	locked := make(map[int][]*models.Upgrade)
	for id, upgrade := range g.upgrades {
		if upgrade.Year > g.CurrentYear() && !g.Owns(id) {
			locked[upgrade.Year] = append(locked[upgrade.Year], upgrade)
		}
	}
	for year := range locked {
		sortUpgrades(locked[year])
	}
	return locked
}

// BlockingRequirements lists the unowned upgrade ids blocking an upgrade.
// For an unsatisfied any-of entry every unowned member is reported.
func (g *GameState) BlockingRequirements(id string) []string {
	upgrade, ok := g.upgrades[id]
	if !ok {
		return nil
	}

	var blocking []string
	for _, req := range upgrade.Requires {
		if req.SatisfiedBy(g.Owns) {
			continue
		}
		if req.IsAnyOf() {
			for _, rid := range req.AnyOf {
				if !g.Owns(rid) {
					blocking = append(blocking, rid)
				}
			}
		} else {
			blocking = append(blocking, req.Direct)
		}
	}
	return blocking
}

// ExclusiveGroupOption describes one competitor within an exclusive group
type ExclusiveGroupOption struct {
	ID    string
	Name  string
	Owned bool
}

// ExclusiveGroupInfo describes the state of one exclusive group
type ExclusiveGroupInfo struct {
	Group        string
	TotalOptions int
	SelectedID   string // Empty until the group is locked by a purchase
	SelectedName string
	Options      []ExclusiveGroupOption
}

// ExclusiveGroupInfo reports the members and selection state of a group
func (g *GameState) ExclusiveGroupInfo(group string) ExclusiveGroupInfo {
	info := ExclusiveGroupInfo{Group: group}

	var members []*models.Upgrade
	for _, upgrade := range g.upgrades {
		for _, name := range upgrade.ExclusiveGroups {
			if name == group {
				members = append(members, upgrade)
				break
			}
		}
	}
	sortUpgrades(members)

	info.TotalOptions = len(members)
	for _, upgrade := range members {
		info.Options = append(info.Options, ExclusiveGroupOption{
			ID:    upgrade.ID,
			Name:  upgrade.Name,
			Owned: g.Owns(upgrade.ID),
		})
	}

	if selected, ok := g.selectedExclusive[group]; ok {
		info.SelectedID = selected
		if upgrade := g.upgrades[selected]; upgrade != nil {
			info.SelectedName = upgrade.Name
		}
	}
	return info
}

func sortUpgrades(upgrades []*models.Upgrade) {
	sort.Slice(upgrades, func(i, j int) bool {
		if upgrades[i].Tier != upgrades[j].Tier {
			return upgrades[i].Tier < upgrades[j].Tier
		}
		return upgrades[i].ID < upgrades[j].ID
	})
}
