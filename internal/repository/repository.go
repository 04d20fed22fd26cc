package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
)

// Actor is the actor storage interface.
type Actor interface {
	CreateActor(ctx context.Context, actor *domain.Actor) error
	GetActor(ctx context.Context, actorID string) (*domain.Actor, error)
	GetActorByName(ctx context.Context, name string) (*domain.Actor, error)
	BeginTx(ctx context.Context) (Tx, error)
}

// Progression is the read side of progression tracks; mutations go through Tx.
type Progression interface {
	GetTrack(ctx context.Context, actorID, trackKey string) (*domain.ProgressionTrack, error)
	CreateTrack(ctx context.Context, track domain.ProgressionTrack) error
	GetTracks(ctx context.Context, actorID string) ([]domain.ProgressionTrack, error)
}

// Item is the item definition storage interface.
type Item interface {
	GetItemByKey(ctx context.Context, key string) (*domain.Item, error)
	GetItemByID(ctx context.Context, id int) (*domain.Item, error)
	GetAllItems(ctx context.Context) ([]domain.Item, error)
	UpsertItem(ctx context.Context, item *domain.Item) (inserted bool, err error)
}

// Action covers per-actor action unlock state and attempt history.
type Action interface {
	IsActionUnlocked(ctx context.Context, actorID, actionKey string) (bool, error)
	UnlockAction(ctx context.Context, actorID, actionKey string) error
	GetAttempts(ctx context.Context, actorID string, limit int) ([]domain.ActionAttempt, error)
	BeginTx(ctx context.Context) (Tx, error)
}

// Battle is the battle session storage interface.
type Battle interface {
	CreateSession(ctx context.Context, session *domain.BattleSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*domain.BattleSession, error)
	// ExpireStaleSessions moves ACTIVE sessions untouched since cutoff to FLED
	// and returns how many were expired.
	ExpireStaleSessions(ctx context.Context, cutoff time.Time) (int64, error)
	BeginTx(ctx context.Context) (Tx, error)
}
