package repository

import (
	"context"
	"encoding/json"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
)

// Executor performs the work behind a relay job. It may block for as long as
// the upstream takes and may fail in any way; the caller converts every
// failure into the job's error state.
type Executor interface {
	Execute(ctx context.Context, req *domain.RelayRequest) (json.RawMessage, error)
}
