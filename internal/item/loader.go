package item

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/logger"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
	"github.com/ravenholt/Emberfell_Go/internal/validation"
)

// Sentinel errors for the item loader
var (
	ErrDuplicateKey  = errors.New("duplicate item key")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents the JSON configuration for items
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Items []Def `json:"items"`
}

// Def represents a single item definition in the JSON
type Def struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Stackable   bool   `json:"stackable"`
	MaxStack    int    `json:"max_stack"`
	Tier        int    `json:"tier,omitempty"`
	BaseValue   int    `json:"base_value"`
}

// Loader handles loading, validating and syncing item configuration
type Loader interface {
	Load(path string) (*Config, error)
	Validate(config *Config) error
	SyncToDatabase(ctx context.Context, config *Config, repo repository.Item) (*SyncResult, error)
}

// SyncResult contains the result of syncing items to the database
type SyncResult struct {
	ItemsInserted int
	ItemsUpdated  int
	ItemsSkipped  int
}

type itemLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &itemLoader{
		schemaValidator: validation.NewSchemaValidator(),
	}
}

// Load reads and parses an items JSON file
func (l *itemLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items config file: %w", err)
	}

	// Validate against schema first
	if err := l.schemaValidator.ValidateBytes(data, SchemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse items config: %w", err)
	}

	return &config, nil
}

// Validate checks the item configuration for errors the schema cannot express
func (l *itemLoader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgConfigNil)
	}
	if len(config.Items) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgNoItemsDefined)
	}

	keys := make(map[string]bool, len(config.Items))
	for i := range config.Items {
		def := &config.Items[i]

		if def.Key == "" {
			return fmt.Errorf("%w: item at index %d has empty key", ErrInvalidConfig, i)
		}
		if keys[def.Key] {
			return fmt.Errorf("%w: '%s'", ErrDuplicateKey, def.Key)
		}
		keys[def.Key] = true

		if def.DisplayName == "" {
			return fmt.Errorf("%w: item '%s' has empty display_name", ErrInvalidConfig, def.Key)
		}
		if def.Stackable && def.MaxStack < 1 {
			return fmt.Errorf("%w: stackable item '%s' has max_stack %d", ErrInvalidConfig, def.Key, def.MaxStack)
		}
		if def.BaseValue < 0 {
			return fmt.Errorf("%w: item '%s' has negative base_value", ErrInvalidConfig, def.Key)
		}
	}

	return nil
}

// SyncToDatabase syncs the item configuration to the database idempotently
func (l *itemLoader) SyncToDatabase(ctx context.Context, config *Config, repo repository.Item) (*SyncResult, error) {
	log := logger.FromContext(ctx)

	existing, err := repo.GetAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing items: %w", err)
	}
	existingByKey := make(map[string]*domain.Item, len(existing))
	for i := range existing {
		existingByKey[existing[i].Key] = &existing[i]
	}

	result := &SyncResult{}
	for _, def := range config.Items {
		if cur, ok := existingByKey[def.Key]; ok && itemMatchesDef(cur, def) {
			result.ItemsSkipped++
			continue
		}

		inserted, err := repo.UpsertItem(ctx, &domain.Item{
			Key:         def.Key,
			DisplayName: def.DisplayName,
			Stackable:   def.Stackable,
			MaxStack:    def.MaxStack,
			Tier:        def.Tier,
			BaseValue:   def.BaseValue,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upsert item '%s': %w", def.Key, err)
		}

		if inserted {
			result.ItemsInserted++
			log.Info(LogMsgInsertedItem, "key", def.Key)
		} else {
			result.ItemsUpdated++
			log.Info(LogMsgUpdatedItem, "key", def.Key)
		}
	}

	log.Info(LogMsgSyncCompleted,
		"inserted", result.ItemsInserted,
		"updated", result.ItemsUpdated,
		"skipped", result.ItemsSkipped)

	return result, nil
}

func itemMatchesDef(item *domain.Item, def Def) bool {
	return item.DisplayName == def.DisplayName &&
		item.Stackable == def.Stackable &&
		item.MaxStack == def.MaxStack &&
		item.Tier == def.Tier &&
		item.BaseValue == def.BaseValue
}
