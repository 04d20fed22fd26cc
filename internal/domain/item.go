package domain

import "time"

// Item is an authored item definition, synced from configs into the database.
type Item struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Stackable   bool   `json:"stackable"`
	MaxStack    int    `json:"max_stack"`
	Tier        int    `json:"tier"`
	BaseValue   int    `json:"base_value"`
}

// ItemStack is one inventory row. Stackable items hold 1..MaxStack per row
// and may span multiple rows (overflow stacks); non-stackable items always
// hold exactly 1. Rows are consumed oldest-first.
type ItemStack struct {
	ID        int64     `json:"id"`
	HolderID  string    `json:"holder_id"`
	ItemID    int       `json:"item_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}
