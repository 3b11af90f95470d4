package sched

import (
	"context"
	"sync"
	"time"
)

// Handle cancels a scheduled task. Stop is idempotent; for deferred
// tasks it is a no-op once the task has fired.
type Handle interface {
	Stop()
}

// Runner schedules background tasks. Implementations must guarantee
// that after Stop returns the task function will not start again.
type Runner interface {
	// Every runs fn on a fixed interval until the handle is stopped.
	Every(interval time.Duration, fn func(ctx context.Context)) Handle
	// After runs fn exactly once after the delay. There is no way to
	// observe completion; fire-once semantics only.
	After(delay time.Duration, fn func(ctx context.Context)) Handle
}

// TimerRunner is the production Runner backed by time.Ticker and
// time.Timer. The parent context is handed to every task invocation;
// cancelling it stops all live tasks.
type TimerRunner struct {
	ctx context.Context
}

var _ Runner = (*TimerRunner)(nil)

func NewTimerRunner(ctx context.Context) *TimerRunner {
	if ctx == nil {
		ctx = context.Background()
	}
	return &TimerRunner{ctx: ctx}
}

type tickerHandle struct {
	once sync.Once
	quit chan struct{}
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() { close(h.quit) })
}

func (r *TimerRunner) Every(interval time.Duration, fn func(ctx context.Context)) Handle {
	if interval <= 0 {
		interval = time.Minute
	}
	h := &tickerHandle{quit: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-h.quit:
				return
			case <-ticker.C:
				fn(r.ctx)
			}
		}
	}()
	return h
}

func (r *TimerRunner) After(delay time.Duration, fn func(ctx context.Context)) Handle {
	h := &tickerHandle{quit: make(chan struct{})}
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-r.ctx.Done():
			return
		case <-h.quit:
			return
		case <-timer.C:
			fn(r.ctx)
		}
	}()
	return h
}
