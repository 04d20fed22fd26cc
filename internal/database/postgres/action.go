package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
)

type actionRepository struct {
	db *pgxpool.Pool
}

// NewActionRepository creates a new PostgreSQL action repository
func NewActionRepository(db *pgxpool.Pool) repository.Action {
	return &actionRepository{db: db}
}

func (r *actionRepository) IsActionUnlocked(ctx context.Context, actorID, actionKey string) (bool, error) {
	id, err := parseActorUUID(actorID)
	if err != nil {
		return false, err
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM actor_unlocked_actions
			WHERE actor_id = $1 AND action_key = $2
		)
	`

	var unlocked bool
	if err := r.db.QueryRow(ctx, query, id, actionKey).Scan(&unlocked); err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCheckUnlock, err)
	}
	return unlocked, nil
}

// UnlockAction is idempotent; unlocking an already unlocked action is a no-op.
func (r *actionRepository) UnlockAction(ctx context.Context, actorID, actionKey string) error {
	id, err := parseActorUUID(actorID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO actor_unlocked_actions (actor_id, action_key)
		VALUES ($1, $2)
		ON CONFLICT (actor_id, action_key) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, id, actionKey); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUnlockAction, err)
	}
	return nil
}

func (r *actionRepository) GetAttempts(ctx context.Context, actorID string, limit int) ([]domain.ActionAttempt, error) {
	id, err := parseActorUUID(actorID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT attempt_id, actor_id, action_key, success, xp_gained, created_at
		FROM action_attempts
		WHERE actor_id = $1
		ORDER BY created_at DESC, attempt_id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, id, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAttempts, err)
	}
	defer rows.Close()

	var attempts []domain.ActionAttempt
	for rows.Next() {
		var (
			attempt domain.ActionAttempt
			actor   uuid.UUID
		)
		err := rows.Scan(&attempt.ID, &actor, &attempt.ActionKey,
			&attempt.Success, &attempt.XPGained, &attempt.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAttempts, err)
		}
		attempt.ActorID = actor.String()
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAttempts, err)
	}
	return attempts, nil
}

func (r *actionRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	return beginTx(ctx, r.db)
}
