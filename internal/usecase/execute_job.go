package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
)

// Outcome is the result of one background execution as seen by the pool.
type Outcome string

const (
	OutcomeComplete  Outcome = "complete"
	OutcomeError     Outcome = "error"
	OutcomeDiscarded Outcome = "discarded"
)

// ExecuteJobUsecase runs a registered job once and records its terminal state.
type ExecuteJobUsecase struct {
	registry repository.JobRegistry
	executor repository.Executor
	logger   *zap.Logger
}

// NewExecuteJobUsecase creates a new ExecuteJobUsecase.
func NewExecuteJobUsecase(registry repository.JobRegistry, exec repository.Executor, logger *zap.Logger) *ExecuteJobUsecase {
	return &ExecuteJobUsecase{
		registry: registry,
		executor: exec,
		logger:   logger,
	}
}

// Execute processes a single task: claim → call collaborator → store result.
// Collaborator failures, panics included, end in the error state and are
// never returned. The returned error is only set when the registry itself
// misbehaves.
func (uc *ExecuteJobUsecase) Execute(ctx context.Context, task domain.Task) (Outcome, error) {
	log := uc.logger.With(zap.String("job_id", task.ID), zap.Uint64("generation", task.Generation))

	// Step 1: claim the record. A replaced or expired record is not ours any more.
	if err := uc.registry.MarkProcessing(ctx, task.ID, task.Generation); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
			log.Debug("Job no longer pending, skipping", zap.Error(err))
			return OutcomeDiscarded, nil
		}
		log.Error("Failed to mark job processing", zap.Error(err))
		return OutcomeDiscarded, err
	}

	// Step 2: call the collaborator, exactly once.
	result, err := uc.call(ctx, &task.Request)

	// Step 3: store the terminal state.
	if err != nil {
		failure := fmt.Errorf("%w: %v", domain.ErrJobFailed, err)
		log.Warn("Job execution failed", zap.Error(failure), zap.String("target", task.Request.Target))
		return uc.settle(log, OutcomeError, uc.registry.Fail(ctx, task.ID, task.Generation, err.Error()))
	}

	log.Info("Job executed successfully", zap.Int("result_bytes", len(result)))
	return uc.settle(log, OutcomeComplete, uc.registry.Complete(ctx, task.ID, task.Generation, result))
}

func (uc *ExecuteJobUsecase) call(ctx context.Context, req *domain.RelayRequest) (result json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collaborator panic: %v", r)
		}
	}()

	result, err = uc.executor.Execute(ctx, req)
	if err == nil && !json.Valid(result) {
		err = errors.New("collaborator returned invalid JSON")
	}
	return result, err
}

// settle maps the registry's answer to the final outcome. A record deleted or
// replaced while the collaborator ran drops the result.
func (uc *ExecuteJobUsecase) settle(log *zap.Logger, outcome Outcome, err error) (Outcome, error) {
	switch {
	case err == nil:
		return outcome, nil
	case errors.Is(err, domain.ErrNotFound):
		log.Debug("Job removed or replaced during execution, result dropped")
		return OutcomeDiscarded, nil
	default:
		log.Error("Failed to store job outcome", zap.Error(err))
		return OutcomeDiscarded, err
	}
}
