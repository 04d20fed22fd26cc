package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
)

// transaction implements repository.Tx over a single pgx transaction.
// All row locks taken via the ForUpdate methods are held until Commit
// or Rollback.
type transaction struct {
	tx pgx.Tx
}

// beginTx starts a new transaction wrapping the shared pool
func beginTx(ctx context.Context, db *pgxpool.Pool) (repository.Tx, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &transaction{tx: tx}, nil
}

func (t *transaction) GetStacksForUpdate(ctx context.Context, holderID string, itemID int) ([]domain.ItemStack, error) {
	holder, err := parseActorUUID(holderID)
	if err != nil {
		return nil, err
	}

	// Oldest-first so removal consumes stacks in acquisition order
	query := `
		SELECT stack_id, holder_id, item_id, quantity, created_at
		FROM item_stacks
		WHERE holder_id = $1 AND item_id = $2
		ORDER BY created_at, stack_id
		FOR UPDATE
	`

	rows, err := t.tx.Query(ctx, query, holder, itemID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetStacks, err)
	}
	defer rows.Close()

	var stacks []domain.ItemStack
	for rows.Next() {
		var (
			stack domain.ItemStack
			hid   uuid.UUID
		)
		if err := rows.Scan(&stack.ID, &hid, &stack.ItemID, &stack.Quantity, &stack.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetStacks, err)
		}
		stack.HolderID = hid.String()
		stacks = append(stacks, stack)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetStacks, err)
	}
	return stacks, nil
}

func (t *transaction) InsertStack(ctx context.Context, holderID string, itemID, quantity int) error {
	holder, err := parseActorUUID(holderID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO item_stacks (holder_id, item_id, quantity)
		VALUES ($1, $2, $3)
	`

	if _, err := t.tx.Exec(ctx, query, holder, itemID, quantity); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertStack, err)
	}
	return nil
}

func (t *transaction) UpdateStackQuantity(ctx context.Context, stackID int64, quantity int) error {
	query := `UPDATE item_stacks SET quantity = $1 WHERE stack_id = $2`

	if _, err := t.tx.Exec(ctx, query, quantity, stackID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateStack, err)
	}
	return nil
}

func (t *transaction) DeleteStack(ctx context.Context, stackID int64) error {
	query := `DELETE FROM item_stacks WHERE stack_id = $1`

	if _, err := t.tx.Exec(ctx, query, stackID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteStack, err)
	}
	return nil
}

func (t *transaction) GetTrackForUpdate(ctx context.Context, actorID, trackKey string) (*domain.ProgressionTrack, error) {
	id, err := parseActorUUID(actorID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT actor_id, track_key, curve_kind, level, total_xp
		FROM progression_tracks
		WHERE actor_id = $1 AND track_key = $2
		FOR UPDATE
	`

	track, err := scanTrack(t.tx.QueryRow(ctx, query, id, trackKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrTrackNotFound, actorID, trackKey)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTrackForUpdate, err)
	}
	return track, nil
}

func (t *transaction) UpdateTrack(ctx context.Context, track domain.ProgressionTrack) error {
	id, err := parseActorUUID(track.ActorID)
	if err != nil {
		return err
	}

	query := `
		UPDATE progression_tracks
		SET level = $1, total_xp = $2
		WHERE actor_id = $3 AND track_key = $4
	`

	tag, err := t.tx.Exec(ctx, query, track.Level, track.TotalXP, id, track.TrackKey)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateTrack, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", domain.ErrTrackNotFound, track.ActorID, track.TrackKey)
	}
	return nil
}

func (t *transaction) InsertAttempt(ctx context.Context, attempt domain.ActionAttempt) error {
	id, err := parseActorUUID(attempt.ActorID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO action_attempts (attempt_id, actor_id, action_key, success, xp_gained, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = t.tx.Exec(ctx, query,
		attempt.ID, id, attempt.ActionKey, attempt.Success, attempt.XPGained, attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertAttempt, err)
	}
	return nil
}

func (t *transaction) GetActorForUpdate(ctx context.Context, actorID string) (*domain.Actor, error) {
	id, err := parseActorUUID(actorID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + actorColumns + ` FROM actors WHERE actor_id = $1 FOR UPDATE`

	actor, err := scanActor(t.tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrActorNotFound, actorID)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetActorForUpdate, err)
	}
	return actor, nil
}

func (t *transaction) UpdateActorPool(ctx context.Context, actorID string, pool domain.ResourcePool) error {
	id, err := parseActorUUID(actorID)
	if err != nil {
		return err
	}

	query := `
		UPDATE actors
		SET hp = $1, max_hp = $2, sp = $3, max_sp = $4,
			hp_regen_per_minute = $5, sp_regen_per_minute = $6, last_regen_at = $7
		WHERE actor_id = $8
	`

	tag, err := t.tx.Exec(ctx, query,
		pool.HP, pool.MaxHP, pool.SP, pool.MaxSP,
		pool.HPRegenPerMinute, pool.SPRegenPerMinute, pool.LastRegenAt, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateActorPool, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrActorNotFound, actorID)
	}
	return nil
}

func (t *transaction) UpdateActorLoadout(ctx context.Context, actorID string, loadout domain.SkillSlots) error {
	id, err := parseActorUUID(actorID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(loadout)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalLoadout, err)
	}

	query := `UPDATE actors SET loadout = $1 WHERE actor_id = $2`

	tag, err := t.tx.Exec(ctx, query, data, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateLoadout, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrActorNotFound, actorID)
	}
	return nil
}

func (t *transaction) MarkActorDead(ctx context.Context, actorID string, diedAt time.Time) error {
	id, err := parseActorUUID(actorID)
	if err != nil {
		return err
	}

	// died_at is written once; a dead actor stays dead
	query := `UPDATE actors SET died_at = $1, hp = 0 WHERE actor_id = $2 AND died_at IS NULL`

	if _, err := t.tx.Exec(ctx, query, diedAt, id); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkActorDead, err)
	}
	return nil
}

// UpdateBattleSession applies the session state only if the stored version
// still matches expectedVersion. A mismatch means a concurrent exchange won
// the race; the caller gets domain.ErrStaleBattle and must re-read.
func (t *transaction) UpdateBattleSession(ctx context.Context, session *domain.BattleSession, expectedVersion int) error {
	battleLog, err := json.Marshal(session.Log)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalLog, err)
	}

	query := `
		UPDATE battle_sessions
		SET player_hp = $1, player_sp = $2, monster_hp = $3,
			turn_number = $4, status = $5, version = version + 1,
			battle_log = $6, updated_at = $7
		WHERE session_id = $8 AND version = $9
	`

	tag, err := t.tx.Exec(ctx, query,
		session.PlayerHP, session.PlayerSP, session.MonsterHP,
		session.TurnNumber, session.Status, battleLog, session.UpdatedAt,
		session.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateSession, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		checkErr := t.tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM battle_sessions WHERE session_id = $1)`,
			session.ID).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateSession, checkErr)
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrBattleNotFound, session.ID)
		}
		return fmt.Errorf("%w: session %s expected version %d", domain.ErrStaleBattle, session.ID, expectedVersion)
	}

	session.Version = expectedVersion + 1
	return nil
}

func (t *transaction) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

func (t *transaction) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return errors.New(domain.ErrMsgTxClosed)
		}
		return err
	}
	return nil
}
