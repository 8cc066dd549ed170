package pool

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/metrics"
	"github.com/NeroTheWero/Roblox-Proxy/internal/usecase"
)

// Ensure WorkerPool implements usecase.Submitter.
var _ usecase.Submitter = (*WorkerPool)(nil)

// WorkerPool manages a fixed-size pool of goroutines that execute relay tasks.
type WorkerPool struct {
	size      int
	tasks     chan domain.Task
	executeUC *usecase.ExecuteJobUsecase
	logger    *zap.Logger
	wg        sync.WaitGroup

	mu  sync.RWMutex
	ctx context.Context
}

// NewWorkerPool creates a new fixed-size worker pool with a task buffer of queueSize.
func NewWorkerPool(size, queueSize int, executeUC *usecase.ExecuteJobUsecase, logger *zap.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &WorkerPool{
		size:      size,
		tasks:     make(chan domain.Task, queueSize),
		executeUC: executeUC,
		logger:    logger,
		ctx:       context.Background(),
	}
}

// Start launches all worker goroutines. Call Stop to wait for them to finish.
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()

	p.logger.Info("Starting worker pool", zap.Int("pool_size", p.size), zap.Int("queue_size", cap(p.tasks)))

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Submit hands a task to the pool without blocking. When the queue is full
// the task runs on its own goroutine instead of being dropped.
func (p *WorkerPool) Submit(task domain.Task) {
	select {
	case p.tasks <- task:
		return
	default:
	}

	metrics.QueueOverflow.Inc()
	p.logger.Warn("Worker queue full, running task on a dedicated goroutine", zap.String("job_id", task.ID))

	p.mu.RLock()
	ctx := p.ctx
	p.mu.RUnlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx, -1, task)
	}()
}

// Stop waits for all workers to finish their current tasks and exit.
// The context passed to Start must be cancelled first.
func (p *WorkerPool) Stop() {
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Debug("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Worker shutting down", zap.Int("worker_id", id))
			return
		case task := <-p.tasks:
			p.run(ctx, id, task)
		}
	}
}

// run executes one task. A panic is logged and contained so the worker keeps
// serving the queue.
func (p *WorkerPool) run(ctx context.Context, workerID int, task domain.Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Worker panic recovered",
				zap.Int("worker_id", workerID),
				zap.String("job_id", task.ID),
				zap.Any("panic", r),
			)
		}
	}()

	p.logger.Debug("Worker processing job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", task.ID),
		zap.String("target", task.Request.Target),
	)

	// Track active workers gauge.
	metrics.WorkersActive.Inc()
	defer metrics.WorkersActive.Dec()
	startTime := time.Now()

	outcome, err := p.executeUC.Execute(ctx, task)
	elapsed := time.Since(startTime).Seconds()

	if err != nil {
		p.logger.Error("Job execution failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", task.ID),
			zap.Error(err),
		)
	}

	metrics.JobsFinished.WithLabelValues(string(outcome)).Inc()
	if outcome != usecase.OutcomeDiscarded {
		metrics.JobDuration.Observe(elapsed)
	}
}
