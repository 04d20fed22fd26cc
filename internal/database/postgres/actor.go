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

const actorColumns = `actor_id, actor_name, strength, vitality,
		hp, max_hp, sp, max_sp, hp_regen_per_minute, sp_regen_per_minute,
		last_regen_at, loadout, died_at, created_at`

type actorRepository struct {
	db *pgxpool.Pool
}

// NewActorRepository creates a new PostgreSQL actor repository
func NewActorRepository(db *pgxpool.Pool) repository.Actor {
	return &actorRepository{db: db}
}

func (r *actorRepository) CreateActor(ctx context.Context, actor *domain.Actor) error {
	id, err := parseActorUUID(actor.ID)
	if err != nil {
		return err
	}

	loadout, err := json.Marshal(actor.Loadout)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalLoadout, err)
	}

	query := `
		INSERT INTO actors (actor_id, actor_name, strength, vitality,
			hp, max_hp, sp, max_sp, hp_regen_per_minute, sp_regen_per_minute,
			last_regen_at, loadout, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.Exec(ctx, query,
		id, actor.Name, actor.Strength, actor.Vitality,
		actor.Pool.HP, actor.Pool.MaxHP, actor.Pool.SP, actor.Pool.MaxSP,
		actor.Pool.HPRegenPerMinute, actor.Pool.SPRegenPerMinute,
		actor.Pool.LastRegenAt, loadout, actor.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrNameTaken, actor.Name)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertActor, err)
	}
	return nil
}

func (r *actorRepository) GetActor(ctx context.Context, actorID string) (*domain.Actor, error) {
	id, err := parseActorUUID(actorID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + actorColumns + ` FROM actors WHERE actor_id = $1`

	actor, err := scanActor(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrActorNotFound, actorID)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetActor, err)
	}
	return actor, nil
}

func (r *actorRepository) GetActorByName(ctx context.Context, name string) (*domain.Actor, error) {
	query := `SELECT ` + actorColumns + ` FROM actors WHERE actor_name = $1`

	actor, err := scanActor(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrActorNotFound, name)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetActorByName, err)
	}
	return actor, nil
}

func (r *actorRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	return beginTx(ctx, r.db)
}

// scanActor reads one actor row into the domain shape
func scanActor(row pgx.Row) (*domain.Actor, error) {
	var (
		actor   domain.Actor
		id      uuid.UUID
		loadout []byte
		diedAt  *time.Time
	)

	err := row.Scan(&id, &actor.Name, &actor.Strength, &actor.Vitality,
		&actor.Pool.HP, &actor.Pool.MaxHP, &actor.Pool.SP, &actor.Pool.MaxSP,
		&actor.Pool.HPRegenPerMinute, &actor.Pool.SPRegenPerMinute,
		&actor.Pool.LastRegenAt, &loadout, &diedAt, &actor.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(loadout, &actor.Loadout); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUnmarshalLoadout, err)
	}

	actor.ID = id.String()
	actor.DiedAt = diedAt
	return &actor, nil
}
