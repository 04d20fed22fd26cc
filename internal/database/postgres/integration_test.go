package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
)

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()

	if !testing.Short() {
		ctx := context.Background()
		testDBConnString, terminate = setupContainer(ctx)
		if testDBConnString != "" {
			pool, err := pgxpool.New(ctx, testDBConnString)
			if err != nil {
				fmt.Printf("WARNING: Failed to create pool: %v\n", err)
			} else {
				testPool = pool
			}
		}
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	if terminate != nil {
		terminate()
	}

	os.Exit(code)
}

func setupContainer(ctx context.Context) (string, func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		pgContainer.Terminate(ctx)
		return "", func() {}
	}

	return connStr, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

// requireDB skips the test when no database is available
func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}
	ensureMigrations(t)
}

// seedActor creates and persists a fresh actor for test use
func seedActor(t *testing.T, name string) *domain.Actor {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	actor := &domain.Actor{
		ID:       uuid.NewString(),
		Name:     name,
		Strength: 5,
		Vitality: 7,
		Pool: domain.ResourcePool{
			HP:               70,
			MaxHP:            70,
			SP:               50,
			MaxSP:            50,
			HPRegenPerMinute: 7,
			SPRegenPerMinute: 5,
			LastRegenAt:      now,
		},
		CreatedAt: now,
	}
	require.NoError(t, actor.Loadout.Equip(0, "power_strike"))

	repo := NewActorRepository(testPool)
	require.NoError(t, repo.CreateActor(context.Background(), actor))
	return actor
}

func TestActorRepository_RoundTrip(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewActorRepository(testPool)

	actor := seedActor(t, "Thorvald")

	got, err := repo.GetActor(ctx, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, got.ID)
	assert.Equal(t, "Thorvald", got.Name)
	assert.Equal(t, 5, got.Strength)
	assert.Equal(t, 7, got.Vitality)
	assert.Equal(t, 70, got.Pool.HP)
	assert.Equal(t, "power_strike", got.Loadout[0].SkillKey)
	assert.Nil(t, got.DiedAt)
	assert.True(t, got.Alive())
	assert.WithinDuration(t, actor.Pool.LastRegenAt, got.Pool.LastRegenAt, time.Millisecond)

	byName, err := repo.GetActorByName(ctx, "Thorvald")
	require.NoError(t, err)
	assert.Equal(t, actor.ID, byName.ID)
}

func TestActorRepository_NameTaken(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewActorRepository(testPool)

	first := seedActor(t, "Brunhild")

	dup := *first
	dup.ID = uuid.NewString()
	err := repo.CreateActor(ctx, &dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNameTaken)
}

func TestActorRepository_NotFound(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewActorRepository(testPool)

	_, err := repo.GetActor(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrActorNotFound)

	_, err = repo.GetActor(ctx, "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgInvalidActorID)
}

func TestActorTx_MarkActorDead(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewActorRepository(testPool)

	actor := seedActor(t, "Ragnar")
	diedAt := time.Now().UTC().Truncate(time.Microsecond)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.MarkActorDead(ctx, actor.ID, diedAt))
	require.NoError(t, tx.Commit(ctx))

	got, err := repo.GetActor(ctx, actor.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DiedAt)
	assert.WithinDuration(t, diedAt, *got.DiedAt, time.Millisecond)
	assert.Equal(t, 0, got.Pool.HP)
	assert.False(t, got.Alive())

	// A second death must not move the timestamp
	tx2, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx2.MarkActorDead(ctx, actor.ID, diedAt.Add(time.Hour)))
	require.NoError(t, tx2.Commit(ctx))

	again, err := repo.GetActor(ctx, actor.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, diedAt, *again.DiedAt, time.Millisecond)
}

func TestProgressionRepository_Tracks(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewProgressionRepository(testPool)

	actor := seedActor(t, "Sigrun")

	_, err := repo.GetTrack(ctx, actor.ID, "smithing")
	assert.ErrorIs(t, err, domain.ErrTrackNotFound)

	require.NoError(t, repo.CreateTrack(ctx, domain.ProgressionTrack{
		ActorID:   actor.ID,
		TrackKey:  "smithing",
		CurveKind: domain.CurveExponential,
		Level:     1,
		TotalXP:   0,
	}))
	require.NoError(t, repo.CreateTrack(ctx, domain.ProgressionTrack{
		ActorID:   actor.ID,
		TrackKey:  "mining",
		CurveKind: domain.CurveExponential,
		Level:     1,
		TotalXP:   0,
	}))

	track, err := repo.GetTrack(ctx, actor.ID, "smithing")
	require.NoError(t, err)
	assert.Equal(t, domain.CurveExponential, track.CurveKind)
	assert.Equal(t, 1, track.Level)

	tracks, err := repo.GetTracks(ctx, actor.ID)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "mining", tracks[0].TrackKey)
	assert.Equal(t, "smithing", tracks[1].TrackKey)
}

func TestProgressionTx_UpdateTrack(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewProgressionRepository(testPool)
	actionRepo := NewActionRepository(testPool)

	actor := seedActor(t, "Eirik")
	require.NoError(t, repo.CreateTrack(ctx, domain.ProgressionTrack{
		ActorID:   actor.ID,
		TrackKey:  "smithing",
		CurveKind: domain.CurveExponential,
		Level:     1,
	}))

	tx, err := actionRepo.BeginTx(ctx)
	require.NoError(t, err)

	track, err := tx.GetTrackForUpdate(ctx, actor.ID, "smithing")
	require.NoError(t, err)

	track.TotalXP += 600
	track.Level = 3
	require.NoError(t, tx.UpdateTrack(ctx, *track))
	require.NoError(t, tx.Commit(ctx))

	got, err := repo.GetTrack(ctx, actor.ID, "smithing")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Level)
	assert.Equal(t, int64(600), got.TotalXP)
}

func TestItemRepository_Upsert(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewItemRepository(testPool)

	item := &domain.Item{
		Key:         "iron_ore",
		DisplayName: "Iron Ore",
		Stackable:   true,
		MaxStack:    50,
		Tier:        1,
		BaseValue:   3,
	}

	inserted, err := repo.UpsertItem(ctx, item)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, item.ID)

	item.BaseValue = 5
	inserted, err = repo.UpsertItem(ctx, item)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := repo.GetItemByKey(ctx, "iron_ore")
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, 5, got.BaseValue)

	byID, err := repo.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "iron_ore", byID.Key)

	_, err = repo.GetItemByKey(ctx, "no_such_item")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestInventoryTx_StackLifecycle(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	itemRepo := NewItemRepository(testPool)
	actorRepo := NewActorRepository(testPool)

	actor := seedActor(t, "Astrid")
	item := &domain.Item{Key: "oak_log", DisplayName: "Oak Log", Stackable: true, MaxStack: 20, Tier: 1, BaseValue: 1}
	_, err := itemRepo.UpsertItem(ctx, item)
	require.NoError(t, err)

	tx, err := actorRepo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertStack(ctx, actor.ID, item.ID, 20))
	require.NoError(t, tx.InsertStack(ctx, actor.ID, item.ID, 7))
	require.NoError(t, tx.Commit(ctx))

	tx2, err := actorRepo.BeginTx(ctx)
	require.NoError(t, err)

	stacks, err := tx2.GetStacksForUpdate(ctx, actor.ID, item.ID)
	require.NoError(t, err)
	require.Len(t, stacks, 2)
	// Oldest row first, tie broken by stack_id
	assert.Less(t, stacks[0].ID, stacks[1].ID)
	assert.Equal(t, 20, stacks[0].Quantity)
	assert.Equal(t, 7, stacks[1].Quantity)

	require.NoError(t, tx2.UpdateStackQuantity(ctx, stacks[1].ID, 3))
	require.NoError(t, tx2.DeleteStack(ctx, stacks[0].ID))
	require.NoError(t, tx2.Commit(ctx))

	tx3, err := actorRepo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx3.Rollback(ctx)

	remaining, err := tx3.GetStacksForUpdate(ctx, actor.ID, item.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, 3, remaining[0].Quantity)
}

func TestActionRepository_Unlocks(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewActionRepository(testPool)

	actor := seedActor(t, "Leif")

	unlocked, err := repo.IsActionUnlocked(ctx, actor.ID, "smelt_iron")
	require.NoError(t, err)
	assert.False(t, unlocked)

	require.NoError(t, repo.UnlockAction(ctx, actor.ID, "smelt_iron"))
	require.NoError(t, repo.UnlockAction(ctx, actor.ID, "smelt_iron"))

	unlocked, err = repo.IsActionUnlocked(ctx, actor.ID, "smelt_iron")
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestActionRepository_Attempts(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewActionRepository(testPool)

	actor := seedActor(t, "Freydis")
	base := time.Now().UTC().Truncate(time.Microsecond)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, tx.InsertAttempt(ctx, domain.ActionAttempt{
			ID:        uuid.New(),
			ActorID:   actor.ID,
			ActionKey: "mine_copper",
			Success:   i != 1,
			XPGained:  10 * i,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, tx.Commit(ctx))

	attempts, err := repo.GetAttempts(ctx, actor.ID, 2)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	// Newest first
	assert.Equal(t, 20, attempts[0].XPGained)
	assert.Equal(t, 10, attempts[1].XPGained)
	assert.False(t, attempts[1].Success)
}

func seedBattle(t *testing.T, actorID string) *domain.BattleSession {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	session := &domain.BattleSession{
		ID:         uuid.New(),
		ActorID:    actorID,
		MonsterKey: "ember_wolf",
		PlayerHP:   70,
		PlayerSP:   50,
		MonsterHP:  40,
		TurnNumber: 0,
		Status:     domain.BattleActive,
		Version:    1,
		Log:        []domain.BattleEvent{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	repo := NewBattleRepository(testPool)
	require.NoError(t, repo.CreateSession(context.Background(), session))
	return session
}

func TestBattleRepository_RoundTrip(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewBattleRepository(testPool)

	actor := seedActor(t, "Gunnar")
	session := seedBattle(t, actor.ID)

	got, err := repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, got.ActorID)
	assert.Equal(t, "ember_wolf", got.MonsterKey)
	assert.Equal(t, domain.BattleActive, got.Status)
	assert.Equal(t, 1, got.Version)
	assert.Empty(t, got.Log)

	_, err = repo.GetSession(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrBattleNotFound)
}

func TestBattleTx_VersionConflict(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewBattleRepository(testPool)

	actor := seedActor(t, "Hilda")
	session := seedBattle(t, actor.ID)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	session.TurnNumber = 1
	session.MonsterHP = 28
	session.Log = append(session.Log, domain.BattleEvent{
		Turn:      1,
		Kind:      domain.EventPlayerAttack,
		Damage:    12,
		Narrative: "Hilda strikes the ember wolf for 12 damage",
	})
	session.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, tx.UpdateBattleSession(ctx, session, 1))
	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, 2, session.Version)

	// A second writer still holding version 1 must be rejected
	stale := *session
	stale.TurnNumber = 99

	tx2, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx2.Rollback(ctx)

	err = tx2.UpdateBattleSession(ctx, &stale, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStaleBattle)
	assert.True(t, domain.Retryable(err))

	got, err := repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TurnNumber)
	assert.Equal(t, 2, got.Version)
	require.Len(t, got.Log, 1)
	assert.Equal(t, domain.EventPlayerAttack, got.Log[0].Kind)
}

func TestBattleTx_UpdateMissingSession(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewBattleRepository(testPool)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	ghost := &domain.BattleSession{ID: uuid.New(), Status: domain.BattleActive, Log: []domain.BattleEvent{}}
	err = tx.UpdateBattleSession(ctx, ghost, 1)
	assert.ErrorIs(t, err, domain.ErrBattleNotFound)
}

func TestBattleRepository_ExpireStaleSessions(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewBattleRepository(testPool)

	actor := seedActor(t, "Ingrid")
	stale := seedBattle(t, actor.ID)
	fresh := seedBattle(t, actor.ID)

	_, err := testPool.Exec(ctx,
		`UPDATE battle_sessions SET updated_at = NOW() - INTERVAL '1 hour' WHERE session_id = $1`,
		stale.ID)
	require.NoError(t, err)

	count, err := repo.ExpireStaleSessions(ctx, time.Now().Add(-30*time.Minute))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, int64(1))

	expired, err := repo.GetSession(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BattleFled, expired.Status)
	assert.Equal(t, 2, expired.Version)

	active, err := repo.GetSession(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BattleActive, active.Status)
}
