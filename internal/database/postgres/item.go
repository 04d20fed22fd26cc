package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
)

const itemColumns = `item_id, item_key, display_name, stackable, max_stack, tier, base_value`

type itemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates a new PostgreSQL item repository
func NewItemRepository(db *pgxpool.Pool) repository.Item {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetItemByKey(ctx context.Context, key string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_key = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, key)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetItemByKey, err)
	}
	return item, nil
}

func (r *itemRepository) GetItemByID(ctx context.Context, id int) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrItemNotFound, id)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetItemByID, err)
	}
	return item, nil
}

func (r *itemRepository) GetAllItems(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY item_key`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAllItems, err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAllItems, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAllItems, err)
	}
	return items, nil
}

// UpsertItem inserts or updates an item definition by key and reports whether
// a new row was created. (xmax = 0) is true only for freshly inserted rows.
func (r *itemRepository) UpsertItem(ctx context.Context, item *domain.Item) (bool, error) {
	query := `
		INSERT INTO items (item_key, display_name, stackable, max_stack, tier, base_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (item_key) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			stackable = EXCLUDED.stackable,
			max_stack = EXCLUDED.max_stack,
			tier = EXCLUDED.tier,
			base_value = EXCLUDED.base_value
		RETURNING item_id, (xmax = 0)
	`

	var inserted bool
	err := r.db.QueryRow(ctx, query,
		item.Key, item.DisplayName, item.Stackable, item.MaxStack, item.Tier, item.BaseValue).
		Scan(&item.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToUpsertItem, err)
	}
	return inserted, nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	err := row.Scan(&item.ID, &item.Key, &item.DisplayName,
		&item.Stackable, &item.MaxStack, &item.Tier, &item.BaseValue)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
