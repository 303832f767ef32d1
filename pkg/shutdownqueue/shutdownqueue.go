// Package shutdownqueue collects cleanup tasks and drains them in LIFO
// order at process exit.
//
// Components register their teardown via Add as they start up; main
// drains the queue once everything else has stopped:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	defer shutdownqueue.Shutdown(ctx)
//
// Every task runs exactly once. A panicking task is recovered and
// reported alongside ordinary task errors through errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a cleanup function. It should honor ctx and report failure
// instead of blocking past cancellation.
type Task func(ctx context.Context) error

var (
	mu      sync.Mutex
	pending []Task
	drained bool
)

// Add registers a task to run on Shutdown. Tasks run in reverse
// registration order. Nil tasks, and tasks added once shutdown has
// begun, are ignored.
func Add(t Task) {
	if t == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if drained {
		return
	}

	pending = append(pending, t)
}

// Shutdown runs every registered task in LIFO order and returns their
// errors joined. It is idempotent. If ctx ends mid-drain the remaining
// tasks are skipped and the context error is included in the result.
func Shutdown(ctx context.Context) error {
	mu.Lock()

	tasks := pending
	pending = nil
	drained = true

	mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown interrupted: %w", ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		err := runTask(ctx, tasks[i])
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func runTask(ctx context.Context, t Task) (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic in shutdown task: %v", r)
		}
	}()

	return t(ctx)
}
