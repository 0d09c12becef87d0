// AngelaMos | 2026
// dispatch.go

package core

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultDispatchTimeout = 3 * time.Second

// Dispatcher runs fire-and-forget side effects (audit rows, notification
// rows) off the request path. A failing task is logged and dropped; it can
// never fail or roll back the operation that scheduled it.
type Dispatcher struct {
	wg      sync.WaitGroup
	timeout time.Duration
	logger  *slog.Logger
}

func NewDispatcher(timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{timeout: timeout, logger: logger}
}

// Go schedules fn with a context detached from the caller's cancellation
// but still carrying its values (request id, trace).
func (d *Dispatcher) Go(
	ctx context.Context,
	name string,
	fn func(ctx context.Context) error,
) {
	taskCtx := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				d.logger.Error("dispatch task panicked",
					"task", name,
					"panic", p,
				)
			}
		}()

		runCtx, cancel := context.WithTimeout(taskCtx, d.timeout)
		defer cancel()

		if err := fn(runCtx); err != nil {
			d.logger.WarnContext(runCtx, "dispatch task failed",
				"task", name,
				"error", err,
			)
		}
	}()
}

// Wait blocks until every scheduled task has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
