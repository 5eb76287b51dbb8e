package engine

import "github.com/avelaine/epochs/internal/models"

// NewTestCatalog returns a small fixed catalog used by the engine, save and
// autoplay tests. Money starts at 100 (base production 10), science at 20.
func NewTestCatalog() *models.Catalog {
	resources := map[string]*models.ResourceDefinition{
		"money": {
			ID:             "money",
			Name:           "Money",
			BaseProduction: 10,
			MinValue:       0,
		},
		"science": {
			ID:             "science",
			Name:           "Science",
			BaseProduction: 2,
			MinValue:       0,
		},
		"electricity": {
			ID:             "electricity",
			Name:           "Electricity",
			BaseProduction: 5,
			MinValue:       0,
			UnlockYear:     1805,
			Requires:       []string{"power_plant"},
		},
	}

	upgrades := map[string]*models.Upgrade{
		"bank": {
			ID: "bank", Tree: "economy", Name: "Bank", Tier: 1, Year: 0,
			Cost:    []models.ResourceCost{{Resource: "money", Amount: 50}},
			Effects: []models.ResourceEffect{{Resource: "money", Kind: models.EffectMult, Value: 1.5}},
		},
		"mint": {
			ID: "mint", Tree: "economy", Name: "Mint", Tier: 1, Year: 0,
			Cost:    []models.ResourceCost{{Resource: "money", Amount: 30}},
			Effects: []models.ResourceEffect{{Resource: "money", Kind: models.EffectAdd, Value: 5}},
		},
		"trade": {
			ID: "trade", Tree: "economy", Name: "Trade Routes", Tier: 2, Year: 0,
			Cost:     []models.ResourceCost{{Resource: "money", Amount: 100}},
			Requires: []models.Requirement{models.Req("bank")},
		},
		"guild_a": {
			ID: "guild_a", Tree: "economy", Name: "Merchant Guild", Tier: 2, Year: 0,
			Cost:            []models.ResourceCost{{Resource: "money", Amount: 10}},
			ExclusiveGroups: []string{"guild"},
		},
		"guild_b": {
			ID: "guild_b", Tree: "economy", Name: "Craftsman Guild", Tier: 2, Year: 0,
			Cost:            []models.ResourceCost{{Resource: "money", Amount: 10}},
			ExclusiveGroups: []string{"guild"},
		},
		"automation": {
			ID: "automation", Tree: "industry", Name: "Automation", Tier: 3, Year: 0,
			Cost:     []models.ResourceCost{{Resource: "money", Amount: 20}},
			Requires: []models.Requirement{models.ReqAnyOf("guild_a", "guild_b")},
		},
		"power_plant": {
			ID: "power_plant", Tree: "industry", Name: "Power Plant", Tier: 3, Year: 1805,
			Cost:    []models.ResourceCost{{Resource: "science", Amount: 10}},
			Effects: []models.ResourceEffect{{Resource: "electricity", Kind: models.EffectAdd, Value: 2}},
		},
		"future_tech": {
			ID: "future_tech", Tree: "industry", Name: "Future Tech", Tier: 9, Year: 1900,
			Cost: []models.ResourceCost{{Resource: "science", Amount: 1}},
		},
	}

	trees := map[string]*models.UpgradeTree{
		"economy":  {ID: "economy", Name: "Economy", Upgrades: map[string]*models.Upgrade{}},
		"industry": {ID: "industry", Name: "Industry", Upgrades: map[string]*models.Upgrade{}},
	}
	for id, u := range upgrades {
		trees[u.Tree].Upgrades[id] = u
	}

	return &models.Catalog{
		Resources: resources,
		Trees:     trees,
		Upgrades:  upgrades,
		Events:    map[string]*models.Event{},
	}
}

// NewTestSession wires a fresh session over NewTestCatalog with default
// configuration (start year 1800).
func NewTestSession() (*GameState, *ResourceManager, *TimeSystem) {
	return NewTestSessionWithConfig(models.DefaultConfig())
}

// NewTestSessionWithConfig wires a fresh session with a specific config
func NewTestSessionWithConfig(cfg models.Config) (*GameState, *ResourceManager, *TimeSystem) {
	catalog := NewTestCatalog()
	resources := NewResourceManager(catalog.Resources)
	timeSystem := NewTimeSystem(cfg.Time)
	state := NewGameState(catalog, resources, timeSystem, cfg)
	return state, resources, timeSystem
}
