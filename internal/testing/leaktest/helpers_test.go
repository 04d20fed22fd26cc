package leaktest

import (
	"sync"
	"testing"
	"time"
)

func TestCheckPassesWhenWorkersFinish(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(2 * time.Millisecond)
			}()
		}
		wg.Wait()
	})
}

func TestCheckToleratesDeclaredWorkers(t *testing.T) {
	checker := NewGoroutineChecker(t)

	// One long-lived worker, the kind a pool keeps around
	done := make(chan struct{})
	go func() {
		<-done
	}()
	time.Sleep(20 * time.Millisecond)

	checker.Check(1)

	close(done)
}
