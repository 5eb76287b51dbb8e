package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/avelaine/epochs/internal/models"
)

// triggerYAML is the YAML structure for an event trigger
type triggerYAML struct {
	Resource   string  `yaml:"resource"`
	Threshold  float64 `yaml:"threshold"`
	Comparison string  `yaml:"comparison"`
}

// choiceYAML is the YAML structure for an event choice
type choiceYAML struct {
	ID           string       `yaml:"id"`
	Text         string       `yaml:"text"`
	Description  string       `yaml:"description"`
	Costs        []costYAML   `yaml:"costs"`
	Effects      []effectYAML `yaml:"effects"`
	Requirements []string     `yaml:"requirements"`
}

// eventYAML is the YAML structure for an event
type eventYAML struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Icon        string        `yaml:"icon"`
	Triggers    []triggerYAML `yaml:"triggers"`
	Choices     []choiceYAML  `yaml:"choices"`
	OneTime     *bool         `yaml:"one_time"`
	Cooldown    float64       `yaml:"cooldown"`
}

// LoadEvents loads the event catalog from events.yaml. A missing events file
// is not an error: events are an optional catalog.
func LoadEvents(dataDir string) (map[string]*models.Event, error) {
	path := filepath.Join(dataDir, "events.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*models.Event{}, nil
		}
		return nil, fmt.Errorf("failed to read events.yaml: %w", err)
	}

	var doc struct {
		Events []eventYAML `yaml:"events"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse events.yaml: %w", err)
	}

	events := make(map[string]*models.Event)
	for i, raw := range doc.Events {
		event, err := parseEvent(raw)
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		if _, dup := events[event.ID]; dup {
			return nil, fmt.Errorf("duplicate event id %q", event.ID)
		}
		events[event.ID] = event
	}

	return events, nil
}

func parseEvent(raw eventYAML) (*models.Event, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	if raw.Title == "" {
		return nil, fmt.Errorf("event %q: missing title", raw.ID)
	}

	event := &models.Event{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		Icon:        raw.Icon,
		OneTime:     true,
		Cooldown:    raw.Cooldown,
	}
	if raw.Icon == "" {
		event.Icon = "❗"
	}
	if raw.OneTime != nil {
		event.OneTime = *raw.OneTime
	}

	for i, t := range raw.Triggers {
		cmp := models.Comparison(t.Comparison)
		if t.Comparison == "" {
			cmp = models.CompareGTE
		}
		if !cmp.Valid() {
			return nil, fmt.Errorf("event %q: triggers[%d]: unknown comparison %q", raw.ID, i, t.Comparison)
		}
		event.Triggers = append(event.Triggers, models.EventTrigger{
			Resource:   t.Resource,
			Threshold:  t.Threshold,
			Comparison: cmp,
		})
	}

	for i, c := range raw.Choices {
		if c.ID == "" {
			return nil, fmt.Errorf("event %q: choices[%d]: missing id", raw.ID, i)
		}
		choice := models.EventChoice{
			ID:          c.ID,
			Text:        c.Text,
			Description: c.Description,
			Requires:    c.Requirements,
		}
		for _, cost := range c.Costs {
			choice.Costs = append(choice.Costs, models.ResourceCost{
				Resource: cost.Resource,
				Amount:   cost.Amount,
			})
		}
		for _, e := range c.Effects {
			kind := models.EffectKind(e.Effect)
			if !kind.Valid() {
				return nil, fmt.Errorf("event %q: choice %q: unknown effect kind %q", raw.ID, c.ID, e.Effect)
			}
			choice.Effects = append(choice.Effects, models.ResourceEffect{
				Resource: e.Resource,
				Kind:     kind,
				Value:    e.Value,
			})
		}
		event.Choices = append(event.Choices, choice)
	}

	return event, nil
}
