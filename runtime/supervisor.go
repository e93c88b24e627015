// Package runtime supervises the long-running pieces of the relay.
// It knows nothing about rooms or stanzas; it just keeps workers
// alive.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"translate-muc/errors"
)

//go:generate go run go.uber.org/mock/mockgen -source=supervisor.go -destination=../mocks/mock_runtime.go -package=mocks

// Worker is a long-running unit run under supervision. It does not
// protect itself; the supervisor handles panics and restarts.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerName resolves a worker's type name through reflection, for
// logging and supervision without a manual naming method.
func WorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Supervisor owns a cancellation scope over its workers: each runs in
// a goroutine, panics are recovered, failed workers are restarted
// after a delay, and Stop waits for everything through the WaitGroup.
type Supervisor struct {
	Cancel          context.CancelFunc
	wg              *sync.WaitGroup
	log             *slog.Logger
	restartInterval time.Duration
	workers         []Worker
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	return &Supervisor{
		wg:              &sync.WaitGroup{},
		log:             log,
		restartInterval: restartInterval,
	}
}

func (s *Supervisor) Add(worker ...Worker) *Supervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Run starts every registered worker and blocks until all of them are
// done. The supervised context is a child of ctx: the parent stopping
// stops the workers, and Stop only cancels our own children.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.Cancel = cancel
	defer s.Cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

// Start runs one worker under supervision. A panic or error in the
// worker never takes the supervisor down: the worker is restarted
// after the restart interval for as long as the context lives. A nil
// return means the worker finished its job and is never restarted.
func (s *Supervisor) Start(ctx context.Context, worker Worker) {
	s.wg.Add(1)
	name := WorkerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info(fmt.Sprintf("Stopping : %s", name))
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				s.log.Info(fmt.Sprintf("Worker finished : %s", name))
				return
			}

			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", name)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", name, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.restartInterval):
			}
		}
	}()
}

// Stop cancels the supervised context; Run returns once every worker
// has wound down.
func (s *Supervisor) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
}
