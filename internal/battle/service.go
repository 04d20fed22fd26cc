package battle

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ravenholt/Emberfell_Go/internal/concurrency"
	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/logger"
	"github.com/ravenholt/Emberfell_Go/internal/metrics"
	"github.com/ravenholt/Emberfell_Go/internal/ratelimit"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
)

// MonsterSource resolves monster templates by key.
type MonsterSource interface {
	GetMonster(key string) (*domain.MonsterTemplate, error)
}

// Service manages battle sessions.
type Service interface {
	// Start opens a new ACTIVE session between the actor and the monster.
	Start(ctx context.Context, actorID, monsterKey string) (*domain.BattleSession, error)

	// Exchange resolves one attack exchange. A concurrent exchange on the
	// same session surfaces domain.ErrStaleBattle and can be retried.
	Exchange(ctx context.Context, sessionID uuid.UUID) (*domain.BattleSession, error)

	// Flee ends the session with FLED.
	Flee(ctx context.Context, sessionID uuid.UUID) (*domain.BattleSession, error)

	// Get returns the session with its full event log.
	Get(ctx context.Context, sessionID uuid.UUID) (*domain.BattleSession, error)
}

type service struct {
	battleRepo repository.Battle
	actorRepo  repository.Actor
	monsters   MonsterSource
	lockMgr    *concurrency.LockManager
	limiter    ratelimit.Limiter

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates a new battle service. The rng is the single source of
// randomness for damage rolls; inject a seeded one in tests.
func NewService(battleRepo repository.Battle, actorRepo repository.Actor, monsters MonsterSource, lockMgr *concurrency.LockManager, limiter ratelimit.Limiter, rng *rand.Rand) Service {
	return &service{
		battleRepo: battleRepo,
		actorRepo:  actorRepo,
		monsters:   monsters,
		lockMgr:    lockMgr,
		limiter:    limiter,
		rng:        rng,
	}
}

func (s *service) Start(ctx context.Context, actorID, monsterKey string) (*domain.BattleSession, error) {
	log := logger.FromContext(ctx)

	actor, err := s.actorRepo.GetActor(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	if !actor.Alive() {
		return nil, fmt.Errorf("%w: actor %s", domain.ErrActorDead, actorID)
	}

	if !s.limiter.Allow(actorID) {
		metrics.RateLimited.WithLabelValues("battle").Inc()
		return nil, fmt.Errorf("%w: actor %s", domain.ErrRateLimited, actorID)
	}

	monster, err := s.monsters.GetMonster(monsterKey)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.BattleSession{
		ID:         uuid.New(),
		ActorID:    actorID,
		MonsterKey: monster.Key,
		PlayerHP:   actor.Pool.HP,
		PlayerSP:   actor.Pool.SP,
		MonsterHP:  monster.MaxHP,
		TurnNumber: 0,
		Status:     domain.BattleActive,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.battleRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create battle session: %w", err)
	}

	metrics.BattlesStarted.WithLabelValues(monster.Key).Inc()
	log.Info("Battle started", "session_id", session.ID, "actor_id", actorID, "monster", monster.Key)
	return session, nil
}

func (s *service) Exchange(ctx context.Context, sessionID uuid.UUID) (*domain.BattleSession, error) {
	return s.resolve(ctx, sessionID, false)
}

func (s *service) Flee(ctx context.Context, sessionID uuid.UUID) (*domain.BattleSession, error) {
	return s.resolve(ctx, sessionID, true)
}

func (s *service) Get(ctx context.Context, sessionID uuid.UUID) (*domain.BattleSession, error) {
	session, err := s.battleRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get battle session: %w", err)
	}
	return session, nil
}

// resolve serializes in-process exchanges per session with a named lock; the
// optimistic version check on write catches everything the lock cannot see.
func (s *service) resolve(ctx context.Context, sessionID uuid.UUID, flee bool) (*domain.BattleSession, error) {
	log := logger.FromContext(ctx)

	var session *domain.BattleSession
	err := s.lockMgr.WithLock(concurrency.SessionKey(sessionID.String()), func() error {
		var err error
		session, err = s.battleRepo.GetSession(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to get battle session: %w", err)
		}
		if session.Status.Terminal() {
			return fmt.Errorf("%w: session is %s", domain.ErrBattleOver, session.Status)
		}

		if !flee && !s.limiter.Allow(session.ActorID) {
			metrics.RateLimited.WithLabelValues("battle").Inc()
			return fmt.Errorf("%w: actor %s", domain.ErrRateLimited, session.ActorID)
		}

		monster, err := s.monsters.GetMonster(session.MonsterKey)
		if err != nil {
			return err
		}

		tx, err := s.battleRepo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer repository.SafeRollback(ctx, tx)

		// The actor row lock serializes this exchange against a loss on any
		// other session committing died_at for the same actor.
		actor, err := tx.GetActorForUpdate(ctx, session.ActorID)
		if err != nil {
			return fmt.Errorf("failed to lock actor row: %w", err)
		}
		if !actor.Alive() {
			return fmt.Errorf("%w: actor %s", domain.ErrActorDead, session.ActorID)
		}

		player := PlayerStats{Name: actor.Name, Strength: actor.Strength, Vitality: actor.Vitality}
		expectedVersion := session.Version

		if flee {
			_, err = ResolveFlee(session, player, monster)
		} else {
			s.rngMu.Lock()
			_, err = ResolveExchange(session, player, monster, s.rng)
			s.rngMu.Unlock()
		}
		if err != nil {
			return err
		}
		session.UpdatedAt = time.Now().UTC()

		if err := tx.UpdateBattleSession(ctx, session, expectedVersion); err != nil {
			return fmt.Errorf("failed to update battle session: %w", err)
		}

		if session.Status == domain.BattleLost {
			if err := tx.MarkActorDead(ctx, session.ActorID, session.UpdatedAt); err != nil {
				return fmt.Errorf("failed to mark actor dead: %w", err)
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BattleExchanges.WithLabelValues(strings.ToLower(string(session.Status))).Inc()
	if session.Status == domain.BattleLost {
		metrics.ActorDeaths.Inc()
		log.Info("Actor died in battle", "session_id", session.ID, "actor_id", session.ActorID)
	}

	log.Info("Battle exchange resolved",
		"session_id", session.ID,
		"turn", session.TurnNumber,
		"status", session.Status,
		"player_hp", session.PlayerHP,
		"monster_hp", session.MonsterHP)
	return session, nil
}
