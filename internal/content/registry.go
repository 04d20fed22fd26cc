package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/validation"
)

// Sentinel errors for content loading
var (
	ErrDuplicateKey  = errors.New("duplicate content key")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Configuration file paths, relative to the project root.
const (
	ActionsConfigPath  = "configs/actions.json"
	ActionsSchemaPath  = "configs/schemas/actions.schema.json"
	MonstersConfigPath = "configs/monsters.json"
	MonstersSchemaPath = "configs/schemas/monsters.schema.json"
)

// ActionsConfig is the JSON shape of the actions config file
type ActionsConfig struct {
	Version string                    `json:"version"`
	Actions []domain.ActionDefinition `json:"actions"`
}

// MonstersConfig is the JSON shape of the monsters config file
type MonstersConfig struct {
	Version  string                   `json:"version"`
	Monsters []domain.MonsterTemplate `json:"monsters"`
}

// Registry holds authored action definitions and monster templates in memory.
// Content is loaded once at boot; lookups are read-only afterwards, so a
// plain RWMutex covers the reload path.
type Registry struct {
	mu       sync.RWMutex
	actions  map[string]*domain.ActionDefinition
	monsters map[string]*domain.MonsterTemplate

	schemaValidator validation.SchemaValidator
}

// NewRegistry creates an empty content registry
func NewRegistry() *Registry {
	return &Registry{
		actions:         make(map[string]*domain.ActionDefinition),
		monsters:        make(map[string]*domain.MonsterTemplate),
		schemaValidator: validation.NewSchemaValidator(),
	}
}

// LoadActions reads, validates and installs the action definitions.
func (r *Registry) LoadActions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read actions config file: %w", err)
	}

	if err := r.schemaValidator.ValidateBytes(data, ActionsSchemaPath); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config ActionsConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse actions config: %w", err)
	}

	actions := make(map[string]*domain.ActionDefinition, len(config.Actions))
	for i := range config.Actions {
		def := &config.Actions[i]
		if err := validateActionDef(def); err != nil {
			return err
		}
		if _, ok := actions[def.Key]; ok {
			return fmt.Errorf("%w: action '%s'", ErrDuplicateKey, def.Key)
		}
		actions[def.Key] = def
	}

	r.mu.Lock()
	r.actions = actions
	r.mu.Unlock()
	return nil
}

// LoadMonsters reads, validates and installs the monster templates.
func (r *Registry) LoadMonsters(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read monsters config file: %w", err)
	}

	if err := r.schemaValidator.ValidateBytes(data, MonstersSchemaPath); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config MonstersConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse monsters config: %w", err)
	}

	monsters := make(map[string]*domain.MonsterTemplate, len(config.Monsters))
	for i := range config.Monsters {
		tpl := &config.Monsters[i]
		if err := validateMonsterTemplate(tpl); err != nil {
			return err
		}
		if _, ok := monsters[tpl.Key]; ok {
			return fmt.Errorf("%w: monster '%s'", ErrDuplicateKey, tpl.Key)
		}
		monsters[tpl.Key] = tpl
	}

	r.mu.Lock()
	r.monsters = monsters
	r.mu.Unlock()
	return nil
}

// GetAction resolves an action definition by key. A key that exists but is
// switched off gets a distinct error so callers can tell players apart from
// content that never existed.
func (r *Registry) GetAction(key string) (*domain.ActionDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.actions[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrActionNotFound, key)
	}
	if !def.Active {
		return nil, fmt.Errorf("%w: %s", domain.ErrActionInactive, key)
	}
	return def, nil
}

// GetMonster resolves a monster template by key. Inactive monsters are
// hidden, indistinguishable from missing ones.
func (r *Registry) GetMonster(key string) (*domain.MonsterTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.monsters[key]
	if !ok || !tpl.Active {
		return nil, fmt.Errorf("%w: %s", domain.ErrMonsterNotFound, key)
	}
	return tpl, nil
}

// ActiveActions lists the active action definitions, for listing endpoints.
func (r *Registry) ActiveActions() []domain.ActionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ActionDefinition, 0, len(r.actions))
	for _, def := range r.actions {
		if def.Active {
			out = append(out, *def)
		}
	}
	return out
}

// ActiveMonsters lists the active monster templates, for bestiary endpoints.
func (r *Registry) ActiveMonsters() []domain.MonsterTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.MonsterTemplate, 0, len(r.monsters))
	for _, tpl := range r.monsters {
		if tpl.Active {
			out = append(out, *tpl)
		}
	}
	return out
}

func validateActionDef(def *domain.ActionDefinition) error {
	if def.Key == "" {
		return fmt.Errorf("%w: action with empty key", ErrInvalidConfig)
	}
	if def.TrackKey == "" {
		return fmt.Errorf("%w: action '%s' has empty track_key", ErrInvalidConfig, def.Key)
	}
	if def.Tier < 0 {
		return fmt.Errorf("%w: action '%s' has negative tier", ErrInvalidConfig, def.Key)
	}

	switch def.Family {
	case domain.FamilyCraft:
		if len(def.Inputs) == 0 {
			return fmt.Errorf("%w: craft action '%s' has no inputs", ErrInvalidConfig, def.Key)
		}
		if len(def.Outputs) == 0 {
			return fmt.Errorf("%w: craft action '%s' has no outputs", ErrInvalidConfig, def.Key)
		}
		for _, in := range def.Inputs {
			if in.ItemKey == "" || in.Quantity < 1 {
				return fmt.Errorf("%w: craft action '%s' has invalid input", ErrInvalidConfig, def.Key)
			}
		}
		for _, out := range def.Outputs {
			if out.ItemKey == "" || out.Quantity < 1 {
				return fmt.Errorf("%w: craft action '%s' has invalid output", ErrInvalidConfig, def.Key)
			}
		}
	case domain.FamilyGather:
		if len(def.Yield) == 0 {
			return fmt.Errorf("%w: gather action '%s' has no yield table", ErrInvalidConfig, def.Key)
		}
		for _, entry := range def.Yield {
			if entry.ItemKey == "" {
				return fmt.Errorf("%w: gather action '%s' has yield entry with empty item_key", ErrInvalidConfig, def.Key)
			}
			if entry.Chance < 0 || entry.Chance > 1 {
				return fmt.Errorf("%w: gather action '%s' has yield chance outside [0,1]", ErrInvalidConfig, def.Key)
			}
			if entry.MinQuantity < 1 || entry.MaxQuantity < entry.MinQuantity {
				return fmt.Errorf("%w: gather action '%s' has invalid yield quantity range", ErrInvalidConfig, def.Key)
			}
		}
	default:
		return fmt.Errorf("%w: action '%s' has unknown family '%s'", ErrInvalidConfig, def.Key, def.Family)
	}

	return nil
}

func validateMonsterTemplate(tpl *domain.MonsterTemplate) error {
	if tpl.Key == "" {
		return fmt.Errorf("%w: monster with empty key", ErrInvalidConfig)
	}
	if tpl.Name == "" {
		return fmt.Errorf("%w: monster '%s' has empty name", ErrInvalidConfig, tpl.Key)
	}
	if tpl.MaxHP < 1 {
		return fmt.Errorf("%w: monster '%s' has max_hp < 1", ErrInvalidConfig, tpl.Key)
	}
	if tpl.Strength < 0 || tpl.Vitality < 0 {
		return fmt.Errorf("%w: monster '%s' has negative stats", ErrInvalidConfig, tpl.Key)
	}
	if tpl.DangerTier < 0 {
		return fmt.Errorf("%w: monster '%s' has negative danger_tier", ErrInvalidConfig, tpl.Key)
	}
	return nil
}
