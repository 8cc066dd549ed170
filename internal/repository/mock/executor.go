package mock

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
)

// Ensure MockExecutor implements repository.Executor.
var _ repository.Executor = (*MockExecutor)(nil)

// MockExecutor records executed requests. Without ExecuteFn it echoes the
// request body back as a JSON string.
type MockExecutor struct {
	mu           sync.Mutex
	ExecuteCalls []domain.RelayRequest
	ExecuteFn    func(ctx context.Context, req *domain.RelayRequest) (json.RawMessage, error)
}

// NewMockExecutor creates a new echoing executor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

func (m *MockExecutor) Execute(ctx context.Context, req *domain.RelayRequest) (json.RawMessage, error) {
	m.mu.Lock()
	m.ExecuteCalls = append(m.ExecuteCalls, *req)
	m.mu.Unlock()

	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, req)
	}
	return json.Marshal(req.Body)
}

// Calls returns how many times Execute was invoked.
func (m *MockExecutor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ExecuteCalls)
}
