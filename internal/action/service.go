package action

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ravenholt/Emberfell_Go/internal/concurrency"
	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/inventory"
	"github.com/ravenholt/Emberfell_Go/internal/logger"
	"github.com/ravenholt/Emberfell_Go/internal/metrics"
	"github.com/ravenholt/Emberfell_Go/internal/progression"
	"github.com/ravenholt/Emberfell_Go/internal/ratelimit"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
)

// DefinitionSource resolves action definitions by key.
type DefinitionSource interface {
	GetAction(key string) (*domain.ActionDefinition, error)
}

// Service runs craft and gather attempts.
type Service interface {
	// Attempt runs one craft or gather attempt end to end: eligibility,
	// material consumption, the success roll, grants, XP and the audit
	// record, all in a single transaction serialized per actor.
	Attempt(ctx context.Context, actorID, actionKey string) (*domain.ActionOutcome, error)

	// Unlock grants the actor permanent access to an action.
	Unlock(ctx context.Context, actorID, actionKey string) error

	// History returns the actor's most recent attempts, newest first.
	History(ctx context.Context, actorID string, limit int) ([]domain.ActionAttempt, error)
}

type service struct {
	actionRepo repository.Action
	actorRepo  repository.Actor
	itemRepo   repository.Item
	defs       DefinitionSource
	ledger     inventory.Ledger
	lockMgr    *concurrency.LockManager
	limiter    ratelimit.Limiter

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates a new action service. The rng drives success and yield
// rolls; inject a seeded one in tests.
func NewService(actionRepo repository.Action, actorRepo repository.Actor, itemRepo repository.Item, defs DefinitionSource, ledger inventory.Ledger, lockMgr *concurrency.LockManager, limiter ratelimit.Limiter, rng *rand.Rand) Service {
	return &service{
		actionRepo: actionRepo,
		actorRepo:  actorRepo,
		itemRepo:   itemRepo,
		defs:       defs,
		ledger:     ledger,
		lockMgr:    lockMgr,
		limiter:    limiter,
		rng:        rng,
	}
}

func (s *service) Attempt(ctx context.Context, actorID, actionKey string) (*domain.ActionOutcome, error) {
	log := logger.FromContext(ctx)

	actor, err := s.actorRepo.GetActor(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	if !actor.Alive() {
		return nil, fmt.Errorf("%w: actor %s", domain.ErrActorDead, actorID)
	}

	def, err := s.defs.GetAction(actionKey)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.actionRepo.IsActionUnlocked(ctx, actorID, actionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check action unlock: %w", err)
	}
	if !unlocked {
		return nil, fmt.Errorf("%w: %s", domain.ErrActionLocked, actionKey)
	}

	if !s.limiter.Allow(actorID) {
		metrics.RateLimited.WithLabelValues("action").Inc()
		return nil, fmt.Errorf("%w: actor %s", domain.ErrRateLimited, actorID)
	}

	var outcome *domain.ActionOutcome
	err = s.lockMgr.WithLock(concurrency.ActorKey(actorID), func() error {
		var err error
		outcome, err = s.attemptLocked(ctx, actorID, def)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := metrics.ResultFailure
	if outcome.Success {
		result = metrics.ResultSuccess
	}
	metrics.ActionAttempts.WithLabelValues(string(def.Family), result).Inc()
	metrics.XPAwarded.WithLabelValues(def.TrackKey).Add(float64(outcome.XPGained))
	if outcome.LeveledUp {
		metrics.LevelUps.WithLabelValues(def.TrackKey).Inc()
	}

	log.Info("Action attempt resolved",
		"actor_id", actorID,
		"action", def.Key,
		"success", outcome.Success,
		"xp_gained", outcome.XPGained,
		"leveled_up", outcome.LeveledUp)
	return outcome, nil
}

// attemptLocked runs the transactional body of an attempt. The caller holds
// the actor's named lock.
func (s *service) attemptLocked(ctx context.Context, actorID string, def *domain.ActionDefinition) (*domain.ActionOutcome, error) {
	tx, err := s.actionRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Alive is re-checked under the actor row lock: a battle loss can commit
	// died_at between the eligibility read and this transaction.
	actor, err := tx.GetActorForUpdate(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock actor row: %w", err)
	}
	if !actor.Alive() {
		return nil, fmt.Errorf("%w: actor %s", domain.ErrActorDead, actorID)
	}

	track, err := tx.GetTrackForUpdate(ctx, actorID, def.TrackKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get progression track: %w", err)
	}

	chance := SuccessChance(def.Family, track.Level, def.Tier)

	var success bool
	outputs := make(map[string]int)

	switch def.Family {
	case domain.FamilyCraft:
		success, err = s.resolveCraft(ctx, tx, actorID, def, chance, outputs)
	case domain.FamilyGather:
		success, err = s.resolveGather(ctx, tx, actorID, def, chance, outputs)
	default:
		err = fmt.Errorf("%w: unknown family %s", domain.ErrActionNotFound, def.Family)
	}
	if err != nil {
		return nil, err
	}

	xp := XPReward(def.Family, def.Tier, success)
	curve := progression.ForKind(track.CurveKind)
	applied, err := progression.ApplyXP(curve, track.Level, track.TotalXP, int64(xp))
	if err != nil {
		return nil, fmt.Errorf("failed to apply XP: %w", err)
	}

	track.Level = applied.NewLevel
	track.TotalXP = applied.NewXP
	if err := tx.UpdateTrack(ctx, *track); err != nil {
		return nil, fmt.Errorf("failed to update track: %w", err)
	}

	if err := tx.InsertAttempt(ctx, domain.ActionAttempt{
		ID:        uuid.New(),
		ActorID:   actorID,
		ActionKey: def.Key,
		Success:   success,
		XPGained:  xp,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to insert attempt record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &domain.ActionOutcome{
		Success:   success,
		Chance:    chance,
		XPGained:  xp,
		Outputs:   outputs,
		LeveledUp: applied.LeveledUp,
		NewLevel:  applied.NewLevel,
	}, nil
}

// resolveCraft consumes the inputs before the roll. A failed craft still
// costs its materials; only the outputs are gated on success.
func (s *service) resolveCraft(ctx context.Context, tx repository.Tx, actorID string, def *domain.ActionDefinition, chance float64, outputs map[string]int) (bool, error) {
	type resolvedInput struct {
		item *domain.Item
		qty  int
	}

	// Verify sufficiency across all inputs before consuming anything
	inputs := make([]resolvedInput, 0, len(def.Inputs))
	for _, in := range def.Inputs {
		item, err := s.itemRepo.GetItemByKey(ctx, in.ItemKey)
		if err != nil {
			return false, fmt.Errorf("failed to resolve input item '%s': %w", in.ItemKey, err)
		}
		has, err := s.ledger.Has(ctx, tx, actorID, item, in.Quantity)
		if err != nil {
			return false, err
		}
		if !has {
			return false, fmt.Errorf("%w: need %dx %s", domain.ErrInsufficientMaterials, in.Quantity, in.ItemKey)
		}
		inputs = append(inputs, resolvedInput{item: item, qty: in.Quantity})
	}

	for _, in := range inputs {
		removed, err := s.ledger.Remove(ctx, tx, actorID, in.item, in.qty)
		if err != nil {
			return false, err
		}
		if !removed {
			// The sufficiency check above ran in this same transaction
			return false, fmt.Errorf("%w: %s", domain.ErrInsufficientMaterials, in.item.Key)
		}
	}

	success := s.roll() < chance
	if !success {
		return false, nil
	}

	for _, out := range def.Outputs {
		item, err := s.itemRepo.GetItemByKey(ctx, out.ItemKey)
		if err != nil {
			return false, fmt.Errorf("failed to resolve output item '%s': %w", out.ItemKey, err)
		}
		if err := s.ledger.Add(ctx, tx, actorID, item, out.Quantity); err != nil {
			return false, err
		}
		outputs[out.ItemKey] += out.Quantity
	}
	return true, nil
}

// resolveGather consumes nothing. On success every yield entry is rolled
// independently; a successful gather can still come up empty-handed.
func (s *service) resolveGather(ctx context.Context, tx repository.Tx, actorID string, def *domain.ActionDefinition, chance float64, outputs map[string]int) (bool, error) {
	success := s.roll() < chance
	if !success {
		return false, nil
	}

	for _, entry := range def.Yield {
		if s.roll() >= entry.Chance {
			continue
		}
		qty := entry.MinQuantity
		if span := entry.MaxQuantity - entry.MinQuantity; span > 0 {
			qty += s.intn(span + 1)
		}

		item, err := s.itemRepo.GetItemByKey(ctx, entry.ItemKey)
		if err != nil {
			return false, fmt.Errorf("failed to resolve yield item '%s': %w", entry.ItemKey, err)
		}
		if err := s.ledger.Add(ctx, tx, actorID, item, qty); err != nil {
			return false, err
		}
		outputs[entry.ItemKey] += qty
	}
	return true, nil
}

func (s *service) Unlock(ctx context.Context, actorID, actionKey string) error {
	log := logger.FromContext(ctx)

	actor, err := s.actorRepo.GetActor(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to get actor: %w", err)
	}
	if !actor.Alive() {
		return fmt.Errorf("%w: actor %s", domain.ErrActorDead, actorID)
	}

	if _, err := s.defs.GetAction(actionKey); err != nil {
		return err
	}

	if err := s.actionRepo.UnlockAction(ctx, actorID, actionKey); err != nil {
		return fmt.Errorf("failed to unlock action: %w", err)
	}

	log.Info("Action unlocked", "actor_id", actorID, "action", actionKey)
	return nil
}

func (s *service) History(ctx context.Context, actorID string, limit int) ([]domain.ActionAttempt, error) {
	attempts, err := s.actionRepo.GetAttempts(ctx, actorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}
	return attempts, nil
}

func (s *service) roll() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

func (s *service) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}
