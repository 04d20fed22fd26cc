package item

import "time"

// Configuration file paths, relative to the project root.
const (
	ConfigPath = "configs/items.json"
	SchemaPath = "configs/schemas/items.schema.json"
)

// Cache sizing
const (
	DefaultCacheSize = 512
	DefaultCacheTTL  = 5 * time.Minute
)

// Validation error messages (fragments used with error wrapping)
const (
	ErrMsgConfigNil      = "config is nil"
	ErrMsgNoItemsDefined = "no items defined"
)

// Log messages
const (
	LogMsgSyncCompleted = "Items sync completed"
	LogMsgInsertedItem  = "Inserted item"
	LogMsgUpdatedItem   = "Updated item"
)
