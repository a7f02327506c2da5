package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type crashingWorker struct {
	runs   atomic.Int32
	crash  int32
	booted chan struct{}
}

func (w *crashingWorker) Run(ctx context.Context) error {
	run := w.runs.Add(1)
	if run <= w.crash {
		panic("boom")
	}
	close(w.booted)
	<-ctx.Done()
	return nil
}

func TestSupervisor_Restarts_Panicking_Worker(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	supervisor := NewSupervisor(log, 5*time.Millisecond)
	worker := &crashingWorker{crash: 2, booted: make(chan struct{})}
	supervisor.Add(worker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(done)
	}()

	// Given the worker panicked twice, it eventually boots
	select {
	case <-worker.booted:
	case <-time.After(time.Second):
		req.Fail("Worker was not restarted in time")
	}
	req.Equal(int32(3), worker.runs.Load())

	// When the supervisor stops, Run drains and returns
	supervisor.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Supervisor did not stop in time")
	}
}

func TestSupervisor_Worker_Finishing_Cleanly_Is_Not_Restarted(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	supervisor := NewSupervisor(log, 5*time.Millisecond)
	worker := &crashingWorker{crash: 0, booted: make(chan struct{})}
	supervisor.Add(worker)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(done)
	}()

	<-worker.booted
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Supervisor did not stop in time")
	}
	req.Equal(int32(1), worker.runs.Load())
}
