package actor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ravenholt/Emberfell_Go/internal/concurrency"
	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/logger"
	"github.com/ravenholt/Emberfell_Go/internal/progression"
	"github.com/ravenholt/Emberfell_Go/internal/regen"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
)

// TrackProgress pairs a progression track with its position in the current
// level, for status endpoints.
type TrackProgress struct {
	Track    domain.ProgressionTrack `json:"track"`
	Progress progression.Progress    `json:"progress"`
}

// Service manages the actor aggregate: registration, resource regeneration
// and the skill loadout.
type Service interface {
	// Register creates a new actor with starting stats, pools and the
	// default progression tracks.
	Register(ctx context.Context, name string) (*domain.Actor, error)

	// Get returns the actor by id.
	Get(ctx context.Context, actorID string) (*domain.Actor, error)

	// Regen applies pending whole-minute regeneration ticks and persists the
	// advanced watermark. Dead actors do not regenerate.
	Regen(ctx context.Context, actorID string) (*domain.ResourcePool, error)

	// EquipSkill places a skill into one of the numbered loadout slots.
	EquipSkill(ctx context.Context, actorID string, slot int, skillKey string) (*domain.SkillSlots, error)

	// ClearSkill empties one loadout slot.
	ClearSkill(ctx context.Context, actorID string, slot int) (*domain.SkillSlots, error)

	// Tracks returns the actor's progression tracks with level progress.
	Tracks(ctx context.Context, actorID string) ([]TrackProgress, error)
}

type service struct {
	actorRepo       repository.Actor
	progressionRepo repository.Progression
	lockMgr         *concurrency.LockManager
	now             func() time.Time
}

// NewService creates a new actor service.
func NewService(actorRepo repository.Actor, progressionRepo repository.Progression, lockMgr *concurrency.LockManager) Service {
	return &service{
		actorRepo:       actorRepo,
		progressionRepo: progressionRepo,
		lockMgr:         lockMgr,
		now:             time.Now,
	}
}

func (s *service) Register(ctx context.Context, name string) (*domain.Actor, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return nil, fmt.Errorf("%w: length must be %d-%d", domain.ErrInvalidName, MinNameLength, MaxNameLength)
	}

	if _, err := s.actorRepo.GetActorByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNameTaken, name)
	} else if !errors.Is(err, domain.ErrActorNotFound) {
		return nil, fmt.Errorf("failed to check actor name: %w", err)
	}

	now := s.now().UTC()
	actor := &domain.Actor{
		ID:       uuid.NewString(),
		Name:     name,
		Strength: StartingStrength,
		Vitality: StartingVitality,
		Pool: domain.ResourcePool{
			HP:               StartingMaxHP,
			MaxHP:            StartingMaxHP,
			SP:               StartingMaxSP,
			MaxSP:            StartingMaxSP,
			HPRegenPerMinute: StartingHPRegen,
			SPRegenPerMinute: StartingSPRegen,
			LastRegenAt:      now,
		},
		CreatedAt: now,
	}

	if err := s.actorRepo.CreateActor(ctx, actor); err != nil {
		return nil, fmt.Errorf("failed to create actor: %w", err)
	}

	for _, def := range defaultTracks {
		track := domain.ProgressionTrack{
			ActorID:   actor.ID,
			TrackKey:  def.Key,
			CurveKind: def.Kind,
			Level:     1,
			TotalXP:   0,
		}
		if err := s.progressionRepo.CreateTrack(ctx, track); err != nil {
			return nil, fmt.Errorf("failed to create track '%s': %w", def.Key, err)
		}
	}

	log.Info("Actor registered", "actor_id", actor.ID, "name", name)
	return actor, nil
}

func (s *service) Get(ctx context.Context, actorID string) (*domain.Actor, error) {
	actor, err := s.actorRepo.GetActor(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	return actor, nil
}

func (s *service) Regen(ctx context.Context, actorID string) (*domain.ResourcePool, error) {
	log := logger.FromContext(ctx)

	var pool domain.ResourcePool
	err := s.lockMgr.WithLock(concurrency.ActorKey(actorID), func() error {
		tx, err := s.actorRepo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer repository.SafeRollback(ctx, tx)

		actor, err := tx.GetActorForUpdate(ctx, actorID)
		if err != nil {
			return fmt.Errorf("failed to get actor: %w", err)
		}
		if !actor.Alive() {
			return fmt.Errorf("%w: actor %s", domain.ErrActorDead, actorID)
		}

		result := regen.Apply(s.now(), actor.Pool)
		pool = actor.Pool
		if !result.DidUpdate {
			return nil
		}

		pool.HP = result.HP
		pool.SP = result.SP
		pool.LastRegenAt = result.LastRegenAt

		if err := tx.UpdateActorPool(ctx, actorID, pool); err != nil {
			return fmt.Errorf("failed to update actor pool: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}

		log.Debug("Regen applied", "actor_id", actorID, "hp", pool.HP, "sp", pool.SP)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

func (s *service) EquipSkill(ctx context.Context, actorID string, slot int, skillKey string) (*domain.SkillSlots, error) {
	return s.updateLoadout(ctx, actorID, func(loadout *domain.SkillSlots) error {
		return loadout.Equip(slot, skillKey)
	})
}

func (s *service) ClearSkill(ctx context.Context, actorID string, slot int) (*domain.SkillSlots, error) {
	return s.updateLoadout(ctx, actorID, func(loadout *domain.SkillSlots) error {
		return loadout.Clear(slot)
	})
}

func (s *service) updateLoadout(ctx context.Context, actorID string, mutate func(*domain.SkillSlots) error) (*domain.SkillSlots, error) {
	log := logger.FromContext(ctx)

	var loadout domain.SkillSlots
	err := s.lockMgr.WithLock(concurrency.ActorKey(actorID), func() error {
		tx, err := s.actorRepo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer repository.SafeRollback(ctx, tx)

		actor, err := tx.GetActorForUpdate(ctx, actorID)
		if err != nil {
			return fmt.Errorf("failed to get actor: %w", err)
		}
		if !actor.Alive() {
			return fmt.Errorf("%w: actor %s", domain.ErrActorDead, actorID)
		}

		loadout = actor.Loadout
		if err := mutate(&loadout); err != nil {
			return err
		}

		if err := tx.UpdateActorLoadout(ctx, actorID, loadout); err != nil {
			return fmt.Errorf("failed to update loadout: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Loadout updated", "actor_id", actorID)
	return &loadout, nil
}

func (s *service) Tracks(ctx context.Context, actorID string) ([]TrackProgress, error) {
	if _, err := s.actorRepo.GetActor(ctx, actorID); err != nil {
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}

	tracks, err := s.progressionRepo.GetTracks(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracks: %w", err)
	}

	out := make([]TrackProgress, 0, len(tracks))
	for _, track := range tracks {
		curve := progression.ForKind(track.CurveKind)
		out = append(out, TrackProgress{
			Track:    track,
			Progress: progression.ProgressFor(curve, track.TotalXP),
		})
	}
	return out, nil
}
