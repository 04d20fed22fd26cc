package item

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
)

func TestCachedRepositoryServesFromCache(t *testing.T) {
	ctx := context.Background()
	repo := newMockItemRepo()
	_, err := repo.UpsertItem(ctx, &domain.Item{Key: "iron_ore", DisplayName: "iron ore", Stackable: true, MaxStack: 10})
	require.NoError(t, err)

	cached := NewCachedRepository(repo, DefaultCacheSize, time.Minute)

	item, err := cached.GetItemByKey(ctx, "iron_ore")
	require.NoError(t, err)
	first := repo.gets

	again, err := cached.GetItemByKey(ctx, "iron_ore")
	require.NoError(t, err)
	assert.Equal(t, item, again)
	assert.Equal(t, first, repo.gets, "second lookup must not hit the repository")

	// The key lookup also primes the ID index
	byID, err := cached.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Key, byID.Key)
	assert.Equal(t, first, repo.gets)
}

func TestCachedRepositoryMissPassesThrough(t *testing.T) {
	ctx := context.Background()
	cached := NewCachedRepository(newMockItemRepo(), DefaultCacheSize, time.Minute)

	_, err := cached.GetItemByKey(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestCachedRepositoryUpsertInvalidates(t *testing.T) {
	ctx := context.Background()
	repo := newMockItemRepo()
	cached := NewCachedRepository(repo, DefaultCacheSize, time.Minute)

	_, err := cached.UpsertItem(ctx, &domain.Item{Key: "iron_ore", DisplayName: "iron ore", Stackable: true, MaxStack: 10, BaseValue: 5})
	require.NoError(t, err)

	item, err := cached.GetItemByKey(ctx, "iron_ore")
	require.NoError(t, err)
	assert.Equal(t, 5, item.BaseValue)

	_, err = cached.UpsertItem(ctx, &domain.Item{ID: item.ID, Key: "iron_ore", DisplayName: "iron ore", Stackable: true, MaxStack: 10, BaseValue: 9})
	require.NoError(t, err)

	item, err = cached.GetItemByKey(ctx, "iron_ore")
	require.NoError(t, err)
	assert.Equal(t, 9, item.BaseValue, "upsert must drop the stale cached definition")
}
