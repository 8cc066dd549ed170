package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/metrics"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
)

// Submitter schedules a task for background execution. Submit must not block.
type Submitter interface {
	Submit(task domain.Task)
}

// RegisterJobUsecase handles the business logic for registering poll jobs.
type RegisterJobUsecase struct {
	registry  repository.JobRegistry
	submitter Submitter
	logger    *zap.Logger
}

// NewRegisterJobUsecase creates a new RegisterJobUsecase.
func NewRegisterJobUsecase(registry repository.JobRegistry, submitter Submitter, logger *zap.Logger) *RegisterJobUsecase {
	return &RegisterJobUsecase{
		registry:  registry,
		submitter: submitter,
		logger:    logger,
	}
}

// Execute validates the registration, stores a pending job replacing any
// previous one under the same id, and schedules exactly one execution.
func (uc *RegisterJobUsecase) Execute(ctx context.Context, req *domain.RegisterRequest) (*domain.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(req.ID)
	job := &domain.Job{
		ID:      id,
		State:   domain.StatePending,
		Request: req.RelayRequest(),
	}

	gen, err := uc.registry.Put(ctx, job)
	if err != nil {
		uc.logger.Error("Failed to store job", zap.Error(err), zap.String("job_id", id))
		return nil, fmt.Errorf("store job: %w", err)
	}

	uc.submitter.Submit(domain.Task{ID: id, Generation: gen, Request: job.Request})
	metrics.JobsRegistered.Inc()

	uc.logger.Info("Job registered",
		zap.String("job_id", id),
		zap.String("target", job.Request.Target),
		zap.Uint64("generation", gen),
	)

	return &domain.RegisterResponse{
		Status: domain.StatusRegistered,
		ID:     id,
	}, nil
}
