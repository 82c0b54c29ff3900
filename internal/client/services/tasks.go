package services

import (
	"context"
	"sync"
	"time"

	"github.com/WAVY91/front-project/internal/logging"
)

const defaultTaskTimeout = 15 * time.Second

// Tasks runs non-blocking, non-critical side effects such as notification
// requests. A failed task is logged and otherwise ignored.
type Tasks struct {
	log     logging.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewTasks(log logging.Logger, timeout time.Duration) *Tasks {
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}
	return &Tasks{log: log, timeout: timeout}
}

// Go starts fn detached from the caller's context.
func (t *Tasks) Go(name string, fn func(ctx context.Context) error) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			t.log.Warn(ctx, "background task failed", "task", name, "error", err)
			return
		}
		t.log.Debug(ctx, "background task done", "task", name)
	}()
}

// Wait blocks until every started task has returned.
func (t *Tasks) Wait() {
	t.wg.Wait()
}
