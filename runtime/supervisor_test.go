package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const restartInterval = 5 * time.Millisecond

type countingWorker struct {
	runs    atomic.Int32
	outcome func(run int32) error
}

func (w *countingWorker) Run(ctx context.Context) error {
	return w.outcome(w.runs.Add(1))
}

func TestSupervisor_Restarts_Failing_Worker(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	sup := NewSupervisor(log, restartInterval)

	// Given a worker that fails twice before finishing cleanly
	worker := &countingWorker{outcome: func(run int32) error {
		if run < 3 {
			return fmt.Errorf("boom %d", run)
		}
		return nil
	}}
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	// Then the supervisor retries until the clean finish
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not settle")
	}
	req.Equal(int32(3), worker.runs.Load())
}

func TestSupervisor_Recovers_From_Panic(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	sup := NewSupervisor(log, restartInterval)

	worker := &countingWorker{outcome: func(run int32) error {
		if run == 1 {
			panic("first run explodes")
		}
		return nil
	}}
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not recover from the panic")
	}
	req.Equal(int32(2), worker.runs.Load())
}

func TestSupervisor_Stop_Cancels_Workers(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	sup := NewSupervisor(log, restartInterval)

	started := make(chan struct{})
	var once atomic.Bool
	worker := &blockingWorker{started: started, once: &once}
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	// When the supervisor is stopped while the worker blocks
	<-started
	sup.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop")
	}
	req.True(once.Load())
}

type blockingWorker struct {
	started chan struct{}
	once    *atomic.Bool
}

func (w *blockingWorker) Run(ctx context.Context) error {
	if w.once.CompareAndSwap(false, true) {
		close(w.started)
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestWorkerName(t *testing.T) {
	req := require.New(t)
	req.Equal("countingWorker", WorkerName(&countingWorker{}))
	req.Equal("NilWorker", WorkerName(nil))
}
