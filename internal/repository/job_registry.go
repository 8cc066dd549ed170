package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
)

// JobRegistry defines the operations on the live job set.
// Implementations must be safe for concurrent use and must return copies,
// never pointers into their own storage.
type JobRegistry interface {
	// Put inserts or replaces the record for job.ID and returns the
	// generation assigned to it.
	Put(ctx context.Context, job *domain.Job) (uint64, error)

	// Get returns a copy of the live record for id without consuming it.
	Get(ctx context.Context, id string) (*domain.Job, error)

	// Consume returns the record for id and, if it is terminal, removes it in
	// the same critical section. Non-terminal records are left in place.
	Consume(ctx context.Context, id string) (*domain.Job, error)

	// MarkProcessing moves a pending record of the given generation to processing.
	MarkProcessing(ctx context.Context, id string, generation uint64) error

	// Complete stores the result of a processing record of the given generation.
	Complete(ctx context.Context, id string, generation uint64, result json.RawMessage) error

	// Fail stores the failure reason of a processing record of the given generation.
	Fail(ctx context.Context, id string, generation uint64, reason string) error

	// Sweep removes every record created before cutoff and returns how many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)

	// Len returns the number of live records.
	Len(ctx context.Context) int
}
