package battle

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravenholt/Emberfell_Go/internal/concurrency"
	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/ratelimit"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
)

type mockBattleRepo struct {
	sessions map[uuid.UUID]*domain.BattleSession
	// storedVersion overrides the version the tx compares against, to
	// simulate a concurrent writer
	versionSkew int
	deadActors  map[string]bool
	actors      *mockActorRepo
}

func newMockBattleRepo() *mockBattleRepo {
	return &mockBattleRepo{
		sessions:   make(map[uuid.UUID]*domain.BattleSession),
		deadActors: make(map[string]bool),
	}
}

func (m *mockBattleRepo) CreateSession(_ context.Context, session *domain.BattleSession) error {
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *mockBattleRepo) GetSession(_ context.Context, id uuid.UUID) (*domain.BattleSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrBattleNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockBattleRepo) ExpireStaleSessions(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, s := range m.sessions {
		if s.Status == domain.BattleActive && s.UpdatedAt.Before(cutoff) {
			s.Status = domain.BattleFled
			n++
		}
	}
	return n, nil
}

func (m *mockBattleRepo) BeginTx(context.Context) (repository.Tx, error) {
	return &mockBattleTx{repo: m}, nil
}

type mockBattleTx struct {
	repo *mockBattleRepo
}

func (t *mockBattleTx) UpdateBattleSession(_ context.Context, session *domain.BattleSession, expectedVersion int) error {
	stored, ok := t.repo.sessions[session.ID]
	if !ok {
		return domain.ErrBattleNotFound
	}
	if stored.Version+t.repo.versionSkew != expectedVersion {
		return domain.ErrStaleBattle
	}
	cp := *session
	cp.Version = expectedVersion + 1
	t.repo.sessions[session.ID] = &cp
	session.Version = cp.Version
	return nil
}

func (t *mockBattleTx) MarkActorDead(_ context.Context, actorID string, _ time.Time) error {
	t.repo.deadActors[actorID] = true
	return nil
}

func (t *mockBattleTx) GetStacksForUpdate(context.Context, string, int) ([]domain.ItemStack, error) {
	return nil, nil
}
func (t *mockBattleTx) InsertStack(context.Context, string, int, int) error  { return nil }
func (t *mockBattleTx) UpdateStackQuantity(context.Context, int64, int) error { return nil }
func (t *mockBattleTx) DeleteStack(context.Context, int64) error             { return nil }
func (t *mockBattleTx) GetTrackForUpdate(context.Context, string, string) (*domain.ProgressionTrack, error) {
	return nil, nil
}
func (t *mockBattleTx) UpdateTrack(context.Context, domain.ProgressionTrack) error { return nil }
func (t *mockBattleTx) InsertAttempt(context.Context, domain.ActionAttempt) error  { return nil }
func (t *mockBattleTx) GetActorForUpdate(ctx context.Context, actorID string) (*domain.Actor, error) {
	a, err := t.repo.actors.GetActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if t.repo.deadActors[actorID] && a.DiedAt == nil {
		died := time.Now()
		a.DiedAt = &died
	}
	return a, nil
}
func (t *mockBattleTx) UpdateActorPool(context.Context, string, domain.ResourcePool) error  { return nil }
func (t *mockBattleTx) UpdateActorLoadout(context.Context, string, domain.SkillSlots) error { return nil }
func (t *mockBattleTx) Commit(context.Context) error                                        { return nil }
func (t *mockBattleTx) Rollback(context.Context) error                                      { return nil }

type mockActorRepo struct {
	actors map[string]*domain.Actor
}

func (m *mockActorRepo) CreateActor(context.Context, *domain.Actor) error { return nil }

func (m *mockActorRepo) GetActor(_ context.Context, actorID string) (*domain.Actor, error) {
	a, ok := m.actors[actorID]
	if !ok {
		return nil, domain.ErrActorNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockActorRepo) GetActorByName(context.Context, string) (*domain.Actor, error) {
	return nil, domain.ErrActorNotFound
}

func (m *mockActorRepo) BeginTx(context.Context) (repository.Tx, error) { return nil, nil }

type mockMonsters struct {
	templates map[string]*domain.MonsterTemplate
}

func (m *mockMonsters) GetMonster(key string) (*domain.MonsterTemplate, error) {
	t, ok := m.templates[key]
	if !ok {
		return nil, domain.ErrMonsterNotFound
	}
	return t, nil
}

func newTestService(battleRepo *mockBattleRepo, limiter ratelimit.Limiter) (Service, *mockActorRepo, *mockMonsters) {
	actors := &mockActorRepo{actors: map[string]*domain.Actor{
		"actor1": {
			ID:       "actor1",
			Name:     "Aldric",
			Strength: 10,
			Vitality: 4,
			Pool:     domain.ResourcePool{HP: 50, MaxHP: 50, SP: 20, MaxSP: 20},
		},
	}}
	monsters := &mockMonsters{templates: map[string]*domain.MonsterTemplate{
		"cave_rat": {Key: "cave_rat", Name: "Cave Rat", MaxHP: 1000, Strength: 5, Vitality: 4, DangerTier: 1, Active: true},
		"wisp":     {Key: "wisp", Name: "Wisp", MaxHP: 1, Strength: 1, Vitality: 0, DangerTier: 1, Active: true},
	}}
	battleRepo.actors = actors
	svc := NewService(battleRepo, actors, monsters, concurrency.NewLockManager(), limiter, rand.New(rand.NewSource(7)))
	return svc, actors, monsters
}

func TestStartCreatesActiveSession(t *testing.T) {
	ctx := context.Background()
	repo := newMockBattleRepo()
	svc, _, _ := newTestService(repo, ratelimit.Unlimited{})

	session, err := svc.Start(ctx, "actor1", "cave_rat")
	require.NoError(t, err)

	assert.Equal(t, domain.BattleActive, session.Status)
	assert.Equal(t, "actor1", session.ActorID)
	assert.Equal(t, "cave_rat", session.MonsterKey)
	assert.Equal(t, 50, session.PlayerHP, "player HP snapshots the pool")
	assert.Equal(t, 20, session.PlayerSP)
	assert.Equal(t, 1000, session.MonsterHP)
	assert.Equal(t, 0, session.TurnNumber)
	assert.Equal(t, 1, session.Version)
	assert.Contains(t, repo.sessions, session.ID)
}

func TestStartUnknownActorOrMonster(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(newMockBattleRepo(), ratelimit.Unlimited{})

	_, err := svc.Start(ctx, "ghost", "cave_rat")
	assert.ErrorIs(t, err, domain.ErrActorNotFound)

	_, err = svc.Start(ctx, "actor1", "unicorn")
	assert.ErrorIs(t, err, domain.ErrMonsterNotFound)
}

func TestStartDeadActorRejected(t *testing.T) {
	ctx := context.Background()
	svc, actors, _ := newTestService(newMockBattleRepo(), ratelimit.Unlimited{})
	died := time.Now()
	actors.actors["actor1"].DiedAt = &died

	_, err := svc.Start(ctx, "actor1", "cave_rat")
	assert.ErrorIs(t, err, domain.ErrActorDead)
}

func TestStartRateLimited(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(newMockBattleRepo(), ratelimit.NewSlidingWindow(1, time.Minute))

	_, err := svc.Start(ctx, "actor1", "cave_rat")
	require.NoError(t, err)

	_, err = svc.Start(ctx, "actor1", "cave_rat")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestExchangePersistsResolvedState(t *testing.T) {
	ctx := context.Background()
	repo := newMockBattleRepo()
	svc, _, _ := newTestService(repo, ratelimit.Unlimited{})

	started, err := svc.Start(ctx, "actor1", "cave_rat")
	require.NoError(t, err)

	session, err := svc.Exchange(ctx, started.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, session.TurnNumber)
	assert.Equal(t, 2, session.Version, "write bumps the optimistic version")
	assert.Less(t, session.MonsterHP, 1000)

	stored := repo.sessions[started.ID]
	assert.Equal(t, session.TurnNumber, stored.TurnNumber)
	assert.Equal(t, session.Version, stored.Version)
	assert.Len(t, stored.Log, 2)
}

func TestExchangeStaleVersionRetryable(t *testing.T) {
	ctx := context.Background()
	repo := newMockBattleRepo()
	svc, _, _ := newTestService(repo, ratelimit.Unlimited{})

	started, err := svc.Start(ctx, "actor1", "cave_rat")
	require.NoError(t, err)

	repo.versionSkew = 1 // a concurrent writer bumped the row under us

	_, err = svc.Exchange(ctx, started.ID)
	assert.ErrorIs(t, err, domain.ErrStaleBattle)
	assert.True(t, domain.Retryable(err))
}

func TestExchangeVictory(t *testing.T) {
	ctx := context.Background()
	repo := newMockBattleRepo()
	svc, _, _ := newTestService(repo, ratelimit.Unlimited{})

	started, err := svc.Start(ctx, "actor1", "wisp")
	require.NoError(t, err)

	session, err := svc.Exchange(ctx, started.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.BattleWon, session.Status)
	require.Len(t, session.Log, 1)
	assert.False(t, repo.deadActors["actor1"])

	// Terminal sessions reject further exchanges
	_, err = svc.Exchange(ctx, started.ID)
	assert.ErrorIs(t, err, domain.ErrBattleOver)
	_, err = svc.Flee(ctx, started.ID)
	assert.ErrorIs(t, err, domain.ErrBattleOver)
}

func TestExchangeDefeatMarksActorDead(t *testing.T) {
	ctx := context.Background()
	repo := newMockBattleRepo()
	svc, actors, _ := newTestService(repo, ratelimit.Unlimited{})
	actors.actors["actor1"].Pool.HP = 1
	actors.actors["actor1"].Vitality = 0

	started, err := svc.Start(ctx, "actor1", "cave_rat")
	require.NoError(t, err)

	session, err := svc.Exchange(ctx, started.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.BattleLost, session.Status)
	assert.Equal(t, 0, session.PlayerHP)
	assert.True(t, repo.deadActors["actor1"], "a lost battle is permanent death")
}

func TestExchangeRejectsActorKilledOnAnotherSession(t *testing.T) {
	ctx := context.Background()
	repo := newMockBattleRepo()
	svc, _, _ := newTestService(repo, ratelimit.Unlimited{})

	started, err := svc.Start(ctx, "actor1", "cave_rat")
	require.NoError(t, err)

	// A loss elsewhere commits died_at before this exchange takes the actor
	// row lock.
	repo.deadActors["actor1"] = true

	_, err = svc.Exchange(ctx, started.ID)
	assert.ErrorIs(t, err, domain.ErrActorDead)

	stored := repo.sessions[started.ID]
	assert.Equal(t, domain.BattleActive, stored.Status, "session untouched")
	assert.Equal(t, 0, stored.TurnNumber)
}

func TestFleeEndsSession(t *testing.T) {
	ctx := context.Background()
	repo := newMockBattleRepo()
	svc, _, _ := newTestService(repo, ratelimit.Unlimited{})

	started, err := svc.Start(ctx, "actor1", "cave_rat")
	require.NoError(t, err)

	session, err := svc.Flee(ctx, started.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.BattleFled, session.Status)
	assert.Equal(t, domain.BattleFled, repo.sessions[started.ID].Status)
}

func TestGetUnknownSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(newMockBattleRepo(), ratelimit.Unlimited{})

	_, err := svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrBattleNotFound)
}
