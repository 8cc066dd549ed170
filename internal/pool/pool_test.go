package pool_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/pool"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository/mock"
	"github.com/NeroTheWero/Roblox-Proxy/internal/usecase"
)

func newTestPool(t *testing.T, poolSize, queueSize int, exec *mock.MockExecutor) (*mock.MockJobRegistry, *pool.WorkerPool, context.CancelFunc) {
	t.Helper()

	logger := zap.NewNop()
	registry := mock.NewMockJobRegistry()
	uc := usecase.NewExecuteJobUsecase(registry, exec, logger)

	ctx, cancel := context.WithCancel(context.Background())
	wp := pool.NewWorkerPool(poolSize, queueSize, uc, logger)
	wp.Start(ctx)

	return registry, wp, cancel
}

func putJob(t *testing.T, registry *mock.MockJobRegistry, id string) domain.Task {
	t.Helper()

	req := domain.RelayRequest{Target: "echo", Body: id}
	gen, err := registry.Put(context.Background(), &domain.Job{ID: id, State: domain.StatePending, Request: req})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	return domain.Task{ID: id, Generation: gen, Request: req}
}

func submitJob(t *testing.T, registry *mock.MockJobRegistry, wp *pool.WorkerPool, id string) {
	t.Helper()
	wp.Submit(putJob(t, registry, id))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// Test: pool executes jobs and completes them.
func TestPool_ProcessAndComplete(t *testing.T) {
	exec := mock.NewMockExecutor()
	registry, wp, cancel := newTestPool(t, 2, 16, exec)

	for i := 0; i < 5; i++ {
		submitJob(t, registry, wp, fmt.Sprintf("job-%d", i))
	}

	waitFor(t, func() bool {
		completed, _ := registry.Calls()
		return len(completed) == 5
	})

	cancel()
	wp.Stop()

	job, err := registry.Get(context.Background(), "job-3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.State != domain.StateComplete || string(job.Result) != `"job-3"` {
		t.Errorf("unexpected job: %s %s", job.State, job.Result)
	}
}

// Test: pool stores failures as error state.
func TestPool_FailureStored(t *testing.T) {
	exec := mock.NewMockExecutor()
	exec.ExecuteFn = func(ctx context.Context, req *domain.RelayRequest) (json.RawMessage, error) {
		return nil, context.DeadlineExceeded
	}
	registry, wp, cancel := newTestPool(t, 1, 4, exec)

	submitJob(t, registry, wp, "fail-1")

	waitFor(t, func() bool {
		_, failed := registry.Calls()
		return len(failed) == 1
	})

	cancel()
	wp.Stop()

	job, err := registry.Get(context.Background(), "fail-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.State != domain.StateError {
		t.Errorf("expected error state, got %s", job.State)
	}
}

// Test: a full queue never blocks Submit and the task still runs.
func TestPool_OverflowRunsTask(t *testing.T) {
	release := make(chan struct{})
	var started atomic.Int32
	exec := mock.NewMockExecutor()
	exec.ExecuteFn = func(ctx context.Context, req *domain.RelayRequest) (json.RawMessage, error) {
		started.Add(1)
		<-release
		return json.Marshal(req.Body)
	}
	registry, wp, cancel := newTestPool(t, 1, 0, exec)

	tasks := make([]domain.Task, 3)
	for i := range tasks {
		tasks[i] = putJob(t, registry, fmt.Sprintf("ov-%d", i))
	}

	submitted := make(chan struct{})
	go func() {
		for _, task := range tasks {
			wp.Submit(task)
		}
		close(submitted)
	}()

	select {
	case <-submitted:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}

	waitFor(t, func() bool { return started.Load() == 3 })
	close(release)

	waitFor(t, func() bool {
		completed, _ := registry.Calls()
		return len(completed) == 3
	})

	cancel()
	wp.Stop()
}

// Test: a panicking task does not take a worker down.
func TestPool_SurvivesPanic(t *testing.T) {
	exec := mock.NewMockExecutor()
	exec.ExecuteFn = func(ctx context.Context, req *domain.RelayRequest) (json.RawMessage, error) {
		if req.Body == "panic" {
			panic("boom")
		}
		return json.Marshal(req.Body)
	}
	registry, wp, cancel := newTestPool(t, 1, 4, exec)

	submitJob(t, registry, wp, "panic")
	submitJob(t, registry, wp, "after")

	waitFor(t, func() bool {
		completed, failed := registry.Calls()
		return len(completed) == 1 && len(failed) == 1
	})

	cancel()
	wp.Stop()
}

// Test: pool shuts down gracefully (context cancellation).
func TestPool_GracefulShutdown(t *testing.T) {
	exec := mock.NewMockExecutor()
	registry, wp, cancel := newTestPool(t, 4, 8, exec)

	submitJob(t, registry, wp, "a")
	submitJob(t, registry, wp, "b")

	waitFor(t, func() bool { return exec.Calls() >= 1 })
	cancel()

	done := make(chan struct{})
	go func() {
		wp.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after cancellation")
	}
}

// Test: a replaced job is skipped without calling the collaborator.
func TestPool_ReplacedJobSkipped(t *testing.T) {
	exec := mock.NewMockExecutor()
	logger := zap.NewNop()
	registry := mock.NewMockJobRegistry()
	var marked atomic.Bool
	registry.MarkProcessingFunc = func(ctx context.Context, id string, generation uint64) error {
		marked.Store(true)
		return domain.ErrNotFound
	}
	uc := usecase.NewExecuteJobUsecase(registry, exec, logger)

	ctx, cancel := context.WithCancel(context.Background())
	wp := pool.NewWorkerPool(1, 4, uc, logger)
	wp.Start(ctx)

	submitJob(t, registry, wp, "gone")

	waitFor(t, marked.Load)
	cancel()
	wp.Stop()

	if exec.Calls() != 0 {
		t.Errorf("expected collaborator not to run, got %d calls", exec.Calls())
	}
	if _, err := registry.Get(context.Background(), "gone"); errors.Is(err, domain.ErrNotFound) {
		t.Error("skipped job should still be pending in the registry")
	}
}
