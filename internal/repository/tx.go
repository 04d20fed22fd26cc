package repository

import (
	"context"
	"time"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
)

// Tx defines the interface for transactional operations. Every mutation in an
// action attempt or battle exchange goes through one Tx; either the whole
// sequence commits or none of it is visible.
type Tx interface {
	// Inventory stacks, ordered oldest-first
	GetStacksForUpdate(ctx context.Context, holderID string, itemID int) ([]domain.ItemStack, error)
	InsertStack(ctx context.Context, holderID string, itemID, quantity int) error
	UpdateStackQuantity(ctx context.Context, stackID int64, quantity int) error
	DeleteStack(ctx context.Context, stackID int64) error

	// Progression tracks
	GetTrackForUpdate(ctx context.Context, actorID, trackKey string) (*domain.ProgressionTrack, error)
	UpdateTrack(ctx context.Context, track domain.ProgressionTrack) error

	// Attempt audit records
	InsertAttempt(ctx context.Context, attempt domain.ActionAttempt) error

	// Actor aggregate
	GetActorForUpdate(ctx context.Context, actorID string) (*domain.Actor, error)
	UpdateActorPool(ctx context.Context, actorID string, pool domain.ResourcePool) error
	UpdateActorLoadout(ctx context.Context, actorID string, loadout domain.SkillSlots) error
	MarkActorDead(ctx context.Context, actorID string, diedAt time.Time) error

	// Battle sessions. The update applies only when the stored version equals
	// expectedVersion; otherwise it returns domain.ErrStaleBattle.
	UpdateBattleSession(ctx context.Context, session *domain.BattleSession, expectedVersion int) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
