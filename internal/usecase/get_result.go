package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/metrics"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
)

// GetResultUsecase handles polling for job results.
type GetResultUsecase struct {
	registry repository.JobRegistry
	logger   *zap.Logger
}

// NewGetResultUsecase creates a new GetResultUsecase.
func NewGetResultUsecase(registry repository.JobRegistry, logger *zap.Logger) *GetResultUsecase {
	return &GetResultUsecase{
		registry: registry,
		logger:   logger,
	}
}

// Execute returns the current state of the job. A terminal result is handed
// out exactly once; later polls for the same id get ErrNotFound.
func (uc *GetResultUsecase) Execute(ctx context.Context, id string) (*domain.PollResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}

	job, err := uc.registry.Consume(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Error("Failed to read job", zap.Error(err), zap.String("job_id", id))
		}
		return nil, domain.ErrNotFound
	}

	if job.State.IsTerminal() {
		metrics.JobsConsumed.WithLabelValues(string(job.State)).Inc()
		uc.logger.Debug("Job result delivered", zap.String("job_id", id), zap.String("state", string(job.State)))
	}

	return &domain.PollResult{
		State:         job.State,
		Result:        job.Result,
		FailureReason: job.FailureReason,
	}, nil
}
