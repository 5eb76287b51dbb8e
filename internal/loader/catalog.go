package loader

import (
	"fmt"
	"sort"

	"github.com/avelaine/epochs/internal/models"
)

// LoadCatalog loads every catalog from the data directory and cross-validates
// references between them. Any structural problem is a startup error.
func LoadCatalog(dataDir string) (*models.Catalog, error) {
	resources, err := LoadResources(dataDir)
	if err != nil {
		return nil, err
	}

	trees, upgrades, err := LoadUpgrades(dataDir)
	if err != nil {
		return nil, err
	}

	events, err := LoadEvents(dataDir)
	if err != nil {
		return nil, err
	}

	catalog := &models.Catalog{
		Resources: resources,
		Trees:     trees,
		Upgrades:  upgrades,
		Events:    events,
	}

	if err := ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// ValidateCatalog checks cross-references: costs and effects must target
// known resources, requirements must name known upgrades.
func ValidateCatalog(c *models.Catalog) error {
	// Deterministic error reporting: walk upgrades in sorted id order.
	ids := make([]string, 0, len(c.Upgrades))
	for id := range c.Upgrades {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		u := c.Upgrades[id]
		for _, cost := range u.Cost {
			if _, ok := c.Resources[cost.Resource]; !ok {
				return fmt.Errorf("upgrade %q: cost references unknown resource %q", id, cost.Resource)
			}
		}
		for _, effect := range u.Effects {
			if _, ok := c.Resources[effect.Resource]; !ok {
				return fmt.Errorf("upgrade %q: effect references unknown resource %q", id, effect.Resource)
			}
		}
		for _, req := range u.Requires {
			if req.IsAnyOf() {
				for _, rid := range req.AnyOf {
					if _, ok := c.Upgrades[rid]; !ok {
						return fmt.Errorf("upgrade %q: requires unknown upgrade %q", id, rid)
					}
				}
			} else if _, ok := c.Upgrades[req.Direct]; !ok {
				return fmt.Errorf("upgrade %q: requires unknown upgrade %q", id, req.Direct)
			}
		}
	}

	resourceIDs := make([]string, 0, len(c.Resources))
	for id := range c.Resources {
		resourceIDs = append(resourceIDs, id)
	}
	sort.Strings(resourceIDs)
	for _, id := range resourceIDs {
		for _, rid := range c.Resources[id].Requires {
			if _, ok := c.Upgrades[rid]; !ok {
				return fmt.Errorf("resource %q: requires unknown upgrade %q", id, rid)
			}
		}
	}

	eventIDs := make([]string, 0, len(c.Events))
	for id := range c.Events {
		eventIDs = append(eventIDs, id)
	}
	sort.Strings(eventIDs)
	for _, id := range eventIDs {
		e := c.Events[id]
		for _, t := range e.Triggers {
			if _, ok := c.Resources[t.Resource]; !ok {
				return fmt.Errorf("event %q: trigger references unknown resource %q", id, t.Resource)
			}
		}
		for _, choice := range e.Choices {
			for _, cost := range choice.Costs {
				if _, ok := c.Resources[cost.Resource]; !ok {
					return fmt.Errorf("event %q: choice %q: cost references unknown resource %q", id, choice.ID, cost.Resource)
				}
			}
			for _, effect := range choice.Effects {
				if _, ok := c.Resources[effect.Resource]; !ok {
					return fmt.Errorf("event %q: choice %q: effect references unknown resource %q", id, choice.ID, effect.Resource)
				}
			}
			for _, rid := range choice.Requires {
				if _, ok := c.Upgrades[rid]; !ok {
					return fmt.Errorf("event %q: choice %q: requires unknown upgrade %q", id, choice.ID, rid)
				}
			}
		}
	}

	return nil
}
