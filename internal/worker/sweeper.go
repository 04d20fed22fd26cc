package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ravenholt/Emberfell_Go/internal/logger"
	"github.com/ravenholt/Emberfell_Go/internal/metrics"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
)

// Log messages for the battle sweeper
const (
	LogMsgSweeperStarted  = "Battle sweeper started"
	LogMsgSweeperStopped  = "Battle sweeper stopped"
	LogMsgSessionsExpired = "Expired abandoned battle sessions"
	LogMsgSweepFailed     = "Battle sweep failed"
	LogMsgSweeperShutdown = "Shutting down battle sweeper"
)

// BattleSweeper periodically expires ACTIVE battle sessions nobody has
// touched within the TTL, transitioning them to FLED so abandoned fights
// don't pin their actors forever.
type BattleSweeper struct {
	repo     repository.Battle
	interval time.Duration
	ttl      time.Duration

	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewBattleSweeper creates a new sweeper. interval is how often to sweep,
// ttl how long an untouched ACTIVE session survives.
func NewBattleSweeper(repo repository.Battle, interval, ttl time.Duration) *BattleSweeper {
	return &BattleSweeper{
		repo:     repo,
		interval: interval,
		ttl:      ttl,
		shutdown: make(chan struct{}),
	}
}

// Start launches the sweep loop in a background goroutine.
func (w *BattleSweeper) Start(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSweeperStarted, "interval", w.interval, "ttl", w.ttl)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.sweep(ctx)
			case <-w.shutdown:
				return
			}
		}
	}()
}

// sweep runs one expiry pass.
func (w *BattleSweeper) sweep(ctx context.Context) {
	log := logger.FromContext(ctx)

	cutoff := time.Now().UTC().Add(-w.ttl)
	expired, err := w.repo.ExpireStaleSessions(ctx, cutoff)
	if err != nil {
		log.Error(LogMsgSweepFailed, "error", err)
		return
	}

	if expired > 0 {
		metrics.SessionsExpired.Add(float64(expired))
		log.Info(LogMsgSessionsExpired, "count", expired, "cutoff", cutoff)
	}
}

// Shutdown stops the loop and waits for an in-flight sweep to finish, or for
// ctx to expire.
func (w *BattleSweeper) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSweeperShutdown)

	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgSweeperStopped)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
