package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
)

type progressionRepository struct {
	db *pgxpool.Pool
}

// NewProgressionRepository creates a new PostgreSQL progression repository
func NewProgressionRepository(db *pgxpool.Pool) repository.Progression {
	return &progressionRepository{db: db}
}

func (r *progressionRepository) GetTrack(ctx context.Context, actorID, trackKey string) (*domain.ProgressionTrack, error) {
	id, err := parseActorUUID(actorID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT actor_id, track_key, curve_kind, level, total_xp
		FROM progression_tracks
		WHERE actor_id = $1 AND track_key = $2
	`

	track, err := scanTrack(r.db.QueryRow(ctx, query, id, trackKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrTrackNotFound, actorID, trackKey)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTrack, err)
	}
	return track, nil
}

func (r *progressionRepository) CreateTrack(ctx context.Context, track domain.ProgressionTrack) error {
	id, err := parseActorUUID(track.ActorID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO progression_tracks (actor_id, track_key, curve_kind, level, total_xp)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.Exec(ctx, query, id, track.TrackKey, track.CurveKind, track.Level, track.TotalXP)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateTrack, err)
	}
	return nil
}

func (r *progressionRepository) GetTracks(ctx context.Context, actorID string) ([]domain.ProgressionTrack, error) {
	id, err := parseActorUUID(actorID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT actor_id, track_key, curve_kind, level, total_xp
		FROM progression_tracks
		WHERE actor_id = $1
		ORDER BY track_key
	`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTracks, err)
	}
	defer rows.Close()

	var tracks []domain.ProgressionTrack
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTracks, err)
		}
		tracks = append(tracks, *track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTracks, err)
	}
	return tracks, nil
}

func scanTrack(row pgx.Row) (*domain.ProgressionTrack, error) {
	var (
		track domain.ProgressionTrack
		id    uuid.UUID
	)
	if err := row.Scan(&id, &track.TrackKey, &track.CurveKind, &track.Level, &track.TotalXP); err != nil {
		return nil, err
	}
	track.ActorID = id.String()
	return &track, nil
}
