package mock

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository/memory"
)

// Ensure MockJobRegistry implements repository.JobRegistry.
var _ repository.JobRegistry = (*MockJobRegistry)(nil)

// MockJobRegistry wraps the in-memory registry for testing.
// Hook functions, when set, replace the real behaviour so tests can inject errors.
type MockJobRegistry struct {
	inner repository.JobRegistry

	mu            sync.Mutex
	PutCalls      []*domain.Job
	SweepCutoffs  []time.Time
	CompleteCalls []string
	FailCalls     []string

	PutFunc            func(ctx context.Context, job *domain.Job) (uint64, error)
	ConsumeFunc        func(ctx context.Context, id string) (*domain.Job, error)
	MarkProcessingFunc func(ctx context.Context, id string, generation uint64) error
	CompleteFunc       func(ctx context.Context, id string, generation uint64, result json.RawMessage) error
	FailFunc           func(ctx context.Context, id string, generation uint64, reason string) error
	SweepFunc          func(ctx context.Context, cutoff time.Time) (int, error)
}

// NewMockJobRegistry creates a new mock registry with no lazy expiry.
func NewMockJobRegistry() *MockJobRegistry {
	return &MockJobRegistry{
		inner: memory.NewMemoryJobRegistry(0, nil),
	}
}

func (m *MockJobRegistry) Put(ctx context.Context, job *domain.Job) (uint64, error) {
	m.mu.Lock()
	m.PutCalls = append(m.PutCalls, job.Clone())
	m.mu.Unlock()
	if m.PutFunc != nil {
		return m.PutFunc(ctx, job)
	}
	return m.inner.Put(ctx, job)
}

func (m *MockJobRegistry) Get(ctx context.Context, id string) (*domain.Job, error) {
	return m.inner.Get(ctx, id)
}

func (m *MockJobRegistry) Consume(ctx context.Context, id string) (*domain.Job, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, id)
	}
	return m.inner.Consume(ctx, id)
}

func (m *MockJobRegistry) MarkProcessing(ctx context.Context, id string, generation uint64) error {
	if m.MarkProcessingFunc != nil {
		return m.MarkProcessingFunc(ctx, id, generation)
	}
	return m.inner.MarkProcessing(ctx, id, generation)
}

func (m *MockJobRegistry) Complete(ctx context.Context, id string, generation uint64, result json.RawMessage) error {
	m.mu.Lock()
	m.CompleteCalls = append(m.CompleteCalls, id)
	m.mu.Unlock()
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, id, generation, result)
	}
	return m.inner.Complete(ctx, id, generation, result)
}

func (m *MockJobRegistry) Fail(ctx context.Context, id string, generation uint64, reason string) error {
	m.mu.Lock()
	m.FailCalls = append(m.FailCalls, id)
	m.mu.Unlock()
	if m.FailFunc != nil {
		return m.FailFunc(ctx, id, generation, reason)
	}
	return m.inner.Fail(ctx, id, generation, reason)
}

func (m *MockJobRegistry) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	m.SweepCutoffs = append(m.SweepCutoffs, cutoff)
	m.mu.Unlock()
	if m.SweepFunc != nil {
		return m.SweepFunc(ctx, cutoff)
	}
	return m.inner.Sweep(ctx, cutoff)
}

func (m *MockJobRegistry) Len(ctx context.Context) int {
	return m.inner.Len(ctx)
}

// Calls returns snapshots of the recorded Complete and Fail ids (for test assertions).
func (m *MockJobRegistry) Calls() (completed, failed []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.CompleteCalls...), append([]string(nil), m.FailCalls...)
}

// Sweeps returns how many times Sweep was called.
func (m *MockJobRegistry) Sweeps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SweepCutoffs)
}
