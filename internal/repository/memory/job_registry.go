package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
)

// Ensure memJobRegistry implements repository.JobRegistry.
var _ repository.JobRegistry = (*memJobRegistry)(nil)

type memJobRegistry struct {
	mu        sync.Mutex
	jobs      map[string]*domain.Job
	nextGen   uint64
	retention time.Duration
	now       func() time.Time
}

// NewMemoryJobRegistry creates an in-process job registry guarded by a single mutex.
// Records older than retention are treated as absent on access; a zero
// retention disables the lazy check and leaves eviction to Sweep.
// A nil now defaults to time.Now.
func NewMemoryJobRegistry(retention time.Duration, now func() time.Time) repository.JobRegistry {
	if now == nil {
		now = time.Now
	}
	return &memJobRegistry{
		jobs:      make(map[string]*domain.Job),
		retention: retention,
		now:       now,
	}
}

func (r *memJobRegistry) Put(_ context.Context, job *domain.Job) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextGen++
	stored := job.Clone()
	stored.Generation = r.nextGen
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	r.jobs[stored.ID] = stored
	return stored.Generation, nil
}

func (r *memJobRegistry) Get(_ context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return job.Clone(), nil
}

func (r *memJobRegistry) Consume(_ context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if job.State.IsTerminal() {
		delete(r.jobs, id)
		return job, nil
	}
	return job.Clone(), nil
}

func (r *memJobRegistry) MarkProcessing(_ context.Context, id string, generation uint64) error {
	return r.transition(id, generation, domain.StatePending, func(job *domain.Job) {
		job.State = domain.StateProcessing
	})
}

func (r *memJobRegistry) Complete(_ context.Context, id string, generation uint64, result json.RawMessage) error {
	return r.transition(id, generation, domain.StateProcessing, func(job *domain.Job) {
		job.State = domain.StateComplete
		job.Result = append(json.RawMessage(nil), result...)
		job.FailureReason = ""
	})
}

func (r *memJobRegistry) Fail(_ context.Context, id string, generation uint64, reason string) error {
	return r.transition(id, generation, domain.StateProcessing, func(job *domain.Job) {
		job.State = domain.StateError
		job.FailureReason = reason
		job.Result = nil
	})
}

func (r *memJobRegistry) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, job := range r.jobs {
		if job.CreatedAt.Before(cutoff) {
			delete(r.jobs, id)
			removed++
		}
	}
	return removed, nil
}

func (r *memJobRegistry) Len(_ context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// lookup returns the live record for id, evicting it if it outlived the
// retention window. Callers must hold r.mu.
func (r *memJobRegistry) lookup(id string) (*domain.Job, bool) {
	if id == "" {
		return nil, false
	}
	job, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	if r.retention > 0 && r.now().Sub(job.CreatedAt) > r.retention {
		delete(r.jobs, id)
		return nil, false
	}
	return job, true
}

func (r *memJobRegistry) transition(id string, generation uint64, from domain.JobState, apply func(*domain.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.lookup(id)
	if !ok || job.Generation != generation {
		return domain.ErrNotFound
	}
	if job.State != from {
		return domain.ErrInvalidTransition
	}
	apply(job)
	return nil
}
