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

type battleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a new PostgreSQL battle repository
func NewBattleRepository(db *pgxpool.Pool) repository.Battle {
	return &battleRepository{db: db}
}

func (r *battleRepository) CreateSession(ctx context.Context, session *domain.BattleSession) error {
	actorID, err := parseActorUUID(session.ActorID)
	if err != nil {
		return err
	}

	battleLog, err := json.Marshal(session.Log)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalLog, err)
	}

	query := `
		INSERT INTO battle_sessions (session_id, actor_id, monster_key,
			player_hp, player_sp, monster_hp, turn_number, status, version,
			battle_log, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.Exec(ctx, query,
		session.ID, actorID, session.MonsterKey,
		session.PlayerHP, session.PlayerSP, session.MonsterHP,
		session.TurnNumber, session.Status, session.Version,
		battleLog, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateSession, err)
	}
	return nil
}

func (r *battleRepository) GetSession(ctx context.Context, id uuid.UUID) (*domain.BattleSession, error) {
	query := `
		SELECT session_id, actor_id, monster_key, player_hp, player_sp,
			monster_hp, turn_number, status, version, battle_log,
			created_at, updated_at
		FROM battle_sessions
		WHERE session_id = $1
	`

	var (
		session   domain.BattleSession
		actorID   uuid.UUID
		battleLog []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID, &actorID, &session.MonsterKey,
		&session.PlayerHP, &session.PlayerSP, &session.MonsterHP,
		&session.TurnNumber, &session.Status, &session.Version,
		&battleLog, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBattleNotFound, id)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSession, err)
	}

	if err := json.Unmarshal(battleLog, &session.Log); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUnmarshalLog, err)
	}
	session.ActorID = actorID.String()
	return &session, nil
}

// ExpireStaleSessions force-ends abandoned fights. The monster loses
// interest; the actor keeps whatever HP the snapshot held.
func (r *battleRepository) ExpireStaleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE battle_sessions
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE status = $2 AND updated_at < $3
	`

	tag, err := r.db.Exec(ctx, query, domain.BattleFled, domain.BattleActive, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToExpireSessions, err)
	}
	return tag.RowsAffected(), nil
}

func (r *battleRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	return beginTx(ctx, r.db)
}
