package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/avelaine/epochs/internal/models"
)

// costYAML is the YAML structure for a resource cost
type costYAML struct {
	Resource string  `yaml:"resource"`
	Amount   float64 `yaml:"amount"`
}

// effectYAML is the YAML structure for a resource effect
type effectYAML struct {
	Resource string  `yaml:"resource"`
	Effect   string  `yaml:"effect"`
	Value    float64 `yaml:"value"`
}

// resourceYAML is the YAML structure for a resource definition
type resourceYAML struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	Icon           string   `yaml:"icon"`
	Color          []int    `yaml:"color"`
	BaseProduction float64  `yaml:"base_production"`
	MinValue       float64  `yaml:"min_value"`
	StartValue     *float64 `yaml:"start_value"`
	UnlockYear     int      `yaml:"unlock_year"`
	Requires       []string `yaml:"requires"`
}

// upgradeYAML is the YAML structure for an upgrade.
// ExclusiveGroup and Requires entries are shape-polymorphic in the catalog
// format (scalar or list), so they decode through yaml.Node.
type upgradeYAML struct {
	ID             string       `yaml:"id"`
	Tree           string       `yaml:"tree"`
	Name           string       `yaml:"name"`
	Description    string       `yaml:"description"`
	Tier           int          `yaml:"tier"`
	Year           int          `yaml:"year"`
	Cost           []costYAML   `yaml:"cost"`
	Effects        []effectYAML `yaml:"effects"`
	ExclusiveGroup yaml.Node    `yaml:"exclusive_group"`
	Requires       []yaml.Node  `yaml:"requires"`
}

// treeYAML is the YAML structure for an upgrade tree header
type treeYAML struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Filepath    string `yaml:"filepath"`
}

// LoadResources loads resource definitions from resources.yaml
func LoadResources(dataDir string) (map[string]*models.ResourceDefinition, error) {
	path := filepath.Join(dataDir, "resources.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resources.yaml: %w", err)
	}

	var doc struct {
		Resources []resourceYAML `yaml:"resources"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse resources.yaml: %w", err)
	}

	resources := make(map[string]*models.ResourceDefinition)
	for i, raw := range doc.Resources {
		if raw.ID == "" {
			return nil, fmt.Errorf("resources[%d]: missing id", i)
		}
		if raw.Name == "" {
			return nil, fmt.Errorf("resource %q: missing name", raw.ID)
		}
		if _, dup := resources[raw.ID]; dup {
			return nil, fmt.Errorf("duplicate resource id %q", raw.ID)
		}

		def := &models.ResourceDefinition{
			ID:             raw.ID,
			Name:           raw.Name,
			Description:    raw.Description,
			Icon:           raw.Icon,
			BaseProduction: raw.BaseProduction,
			MinValue:       raw.MinValue,
			StartValue:     raw.StartValue,
			UnlockYear:     raw.UnlockYear,
			Requires:       raw.Requires,
		}
		for c := 0; c < len(raw.Color) && c < 3; c++ {
			def.Color[c] = raw.Color[c]
		}
		resources[def.ID] = def
	}

	return resources, nil
}

// LoadUpgrades loads upgrade trees from upgrades.yaml plus any per-tree files
// it references. Tree filepaths are resolved relative to the data directory.
func LoadUpgrades(dataDir string) (map[string]*models.UpgradeTree, map[string]*models.Upgrade, error) {
	path := filepath.Join(dataDir, "upgrades.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upgrades.yaml: %w", err)
	}

	var doc struct {
		Trees    []treeYAML    `yaml:"trees"`
		Upgrades []upgradeYAML `yaml:"upgrades"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse upgrades.yaml: %w", err)
	}

	trees := make(map[string]*models.UpgradeTree)
	for i, raw := range doc.Trees {
		if raw.ID == "" {
			return nil, nil, fmt.Errorf("trees[%d]: missing id", i)
		}
		if _, dup := trees[raw.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate tree id %q", raw.ID)
		}
		trees[raw.ID] = &models.UpgradeTree{
			ID:          raw.ID,
			Name:        raw.Name,
			Description: raw.Description,
			Icon:        raw.Icon,
			Upgrades:    make(map[string]*models.Upgrade),
		}
	}

	allUpgrades := make(map[string]*models.Upgrade)

	addUpgrade := func(raw upgradeYAML) error {
		upgrade, err := parseUpgrade(raw)
		if err != nil {
			return err
		}
		if _, dup := allUpgrades[upgrade.ID]; dup {
			return fmt.Errorf("duplicate upgrade id %q", upgrade.ID)
		}
		tree, ok := trees[upgrade.Tree]
		if !ok {
			return fmt.Errorf("upgrade %q: unknown tree %q", upgrade.ID, upgrade.Tree)
		}
		allUpgrades[upgrade.ID] = upgrade
		tree.Upgrades[upgrade.ID] = upgrade
		return nil
	}

	// Upgrades declared inline in the main file
	for _, raw := range doc.Upgrades {
		if err := addUpgrade(raw); err != nil {
			return nil, nil, err
		}
	}

	// Upgrades declared in per-tree files
	for _, rawTree := range doc.Trees {
		if rawTree.Filepath == "" {
			continue
		}
		treePath := filepath.Join(dataDir, rawTree.Filepath)
		treeData, err := os.ReadFile(treePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read tree file %s: %w", rawTree.Filepath, err)
		}

		var treeDoc struct {
			Upgrades []upgradeYAML `yaml:"upgrades"`
		}
		if err := yaml.Unmarshal(treeData, &treeDoc); err != nil {
			return nil, nil, fmt.Errorf("failed to parse tree file %s: %w", rawTree.Filepath, err)
		}

		for _, raw := range treeDoc.Upgrades {
			if raw.Tree == "" {
				raw.Tree = rawTree.ID
			}
			if err := addUpgrade(raw); err != nil {
				return nil, nil, fmt.Errorf("tree file %s: %w", rawTree.Filepath, err)
			}
		}
	}

	return trees, allUpgrades, nil
}

func parseUpgrade(raw upgradeYAML) (*models.Upgrade, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("upgrade: missing id")
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("upgrade %q: missing name", raw.ID)
	}

	upgrade := &models.Upgrade{
		ID:          raw.ID,
		Tree:        raw.Tree,
		Name:        raw.Name,
		Description: raw.Description,
		Tier:        raw.Tier,
		Year:        raw.Year,
	}

	for _, c := range raw.Cost {
		if c.Amount < 0 {
			return nil, fmt.Errorf("upgrade %q: negative cost for %q", raw.ID, c.Resource)
		}
		upgrade.Cost = append(upgrade.Cost, models.ResourceCost{
			Resource: c.Resource,
			Amount:   c.Amount,
		})
	}

	for _, e := range raw.Effects {
		kind := models.EffectKind(e.Effect)
		if !kind.Valid() {
			return nil, fmt.Errorf("upgrade %q: unknown effect kind %q", raw.ID, e.Effect)
		}
		upgrade.Effects = append(upgrade.Effects, models.ResourceEffect{
			Resource: e.Resource,
			Kind:     kind,
			Value:    e.Value,
		})
	}

	groups, err := parseStringOrList(raw.ExclusiveGroup)
	if err != nil {
		return nil, fmt.Errorf("upgrade %q: exclusive_group: %w", raw.ID, err)
	}
	upgrade.ExclusiveGroups = groups

	for i, node := range raw.Requires {
		req, err := parseRequirement(node)
		if err != nil {
			return nil, fmt.Errorf("upgrade %q: requires[%d]: %w", raw.ID, i, err)
		}
		upgrade.Requires = append(upgrade.Requires, req)
	}

	return upgrade, nil
}

// parseRequirement decodes one requirement entry: a scalar upgrade ID is a
// direct requirement, a sequence is an any-of set.
func parseRequirement(node yaml.Node) (models.Requirement, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var id string
		if err := node.Decode(&id); err != nil {
			return models.Requirement{}, err
		}
		if id == "" {
			return models.Requirement{}, fmt.Errorf("empty requirement id")
		}
		return models.Req(id), nil
	case yaml.SequenceNode:
		var ids []string
		if err := node.Decode(&ids); err != nil {
			return models.Requirement{}, err
		}
		if len(ids) == 0 {
			return models.Requirement{}, fmt.Errorf("empty any-of requirement")
		}
		return models.ReqAnyOf(ids...), nil
	}
	return models.Requirement{}, fmt.Errorf("requirement must be an id or a list of ids")
}

// parseStringOrList decodes a field that may be absent, a scalar or a list
func parseStringOrList(node yaml.Node) ([]string, error) {
	switch node.Kind {
	case 0: // Absent
		return nil, nil
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		return []string{s}, nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("expected a string or list of strings")
}
