package item

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
)

// CachedRepository fronts an item repository with an in-memory LRU cache.
// Item definitions only change on config sync, so a short TTL is enough to
// pick up a re-sync without an explicit invalidation channel.
type CachedRepository struct {
	repo  repository.Item
	byKey *expirable.LRU[string, *domain.Item]
	byID  *expirable.LRU[int, *domain.Item]
}

// NewCachedRepository creates a caching wrapper around repo.
// size: maximum number of cached definitions per index
// ttl: time-to-live for cached entries
func NewCachedRepository(repo repository.Item, size int, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		repo:  repo,
		byKey: expirable.NewLRU[string, *domain.Item](size, nil, ttl),
		byID:  expirable.NewLRU[int, *domain.Item](size, nil, ttl),
	}
}

func (c *CachedRepository) GetItemByKey(ctx context.Context, key string) (*domain.Item, error) {
	if item, ok := c.byKey.Get(key); ok {
		return item, nil
	}

	item, err := c.repo.GetItemByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	c.byKey.Add(item.Key, item)
	c.byID.Add(item.ID, item)
	return item, nil
}

func (c *CachedRepository) GetItemByID(ctx context.Context, id int) (*domain.Item, error) {
	if item, ok := c.byID.Get(id); ok {
		return item, nil
	}

	item, err := c.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.byKey.Add(item.Key, item)
	c.byID.Add(item.ID, item)
	return item, nil
}

// GetAllItems always hits the backing repository; it only runs during sync.
func (c *CachedRepository) GetAllItems(ctx context.Context) ([]domain.Item, error) {
	return c.repo.GetAllItems(ctx)
}

// UpsertItem writes through and drops any cached copy of the definition.
func (c *CachedRepository) UpsertItem(ctx context.Context, item *domain.Item) (bool, error) {
	inserted, err := c.repo.UpsertItem(ctx, item)
	if err != nil {
		return false, err
	}
	c.byKey.Remove(item.Key)
	c.byID.Remove(item.ID)
	return inserted, nil
}

// Clear removes all cached entries.
func (c *CachedRepository) Clear() {
	c.byKey.Purge()
	c.byID.Purge()
}
