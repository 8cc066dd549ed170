package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newJob(id string) *domain.Job {
	return &domain.Job{
		ID:      id,
		State:   domain.StatePending,
		Request: domain.RelayRequest{Target: "echo", Body: "hi"},
	}
}

func TestRegistry_PutAndGet(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	reg := NewMemoryJobRegistry(5*time.Minute, clock.Now)
	ctx := context.Background()

	gen, err := reg.Put(ctx, newJob("A1"))
	require.NoError(t, err)
	assert.NotZero(t, gen)

	job, err := reg.Get(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, job.State)
	assert.Equal(t, clock.Now(), job.CreatedAt)
	assert.Equal(t, gen, job.Generation)
	assert.Equal(t, 1, reg.Len(ctx))
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	reg := NewMemoryJobRegistry(0, nil)
	ctx := context.Background()

	job := newJob("A1")
	job.Request.Headers = map[string]string{"X-Test": "1"}
	_, err := reg.Put(ctx, job)
	require.NoError(t, err)

	job.Request.Headers["X-Test"] = "mutated"
	got, err := reg.Get(ctx, "A1")
	require.NoError(t, err)
	got.State = domain.StateComplete
	got.Request.Headers["X-Test"] = "also mutated"

	again, err := reg.Get(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, again.State)
	assert.Equal(t, "1", again.Request.Headers["X-Test"])
}

func TestRegistry_PutReplacesAndBumpsGeneration(t *testing.T) {
	reg := NewMemoryJobRegistry(0, nil)
	ctx := context.Background()

	first, err := reg.Put(ctx, newJob("A1"))
	require.NoError(t, err)
	second, err := reg.Put(ctx, newJob("A1"))
	require.NoError(t, err)
	assert.Greater(t, second, first)
	assert.Equal(t, 1, reg.Len(ctx))

	// The first execution no longer owns the id.
	assert.ErrorIs(t, reg.MarkProcessing(ctx, "A1", first), domain.ErrNotFound)
	require.NoError(t, reg.MarkProcessing(ctx, "A1", second))
}

func TestRegistry_ForwardOnlyTransitions(t *testing.T) {
	reg := NewMemoryJobRegistry(0, nil)
	ctx := context.Background()

	gen, err := reg.Put(ctx, newJob("A1"))
	require.NoError(t, err)

	// Cannot complete before processing.
	assert.ErrorIs(t, reg.Complete(ctx, "A1", gen, json.RawMessage(`"hi"`)), domain.ErrInvalidTransition)

	require.NoError(t, reg.MarkProcessing(ctx, "A1", gen))
	assert.ErrorIs(t, reg.MarkProcessing(ctx, "A1", gen), domain.ErrInvalidTransition)

	require.NoError(t, reg.Complete(ctx, "A1", gen, json.RawMessage(`"hi"`)))
	assert.ErrorIs(t, reg.Fail(ctx, "A1", gen, "late"), domain.ErrInvalidTransition)

	job, err := reg.Get(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateComplete, job.State)
	assert.JSONEq(t, `"hi"`, string(job.Result))
	assert.Empty(t, job.FailureReason)
}

func TestRegistry_ConsumeTerminalOnce(t *testing.T) {
	reg := NewMemoryJobRegistry(0, nil)
	ctx := context.Background()

	gen, _ := reg.Put(ctx, newJob("B2"))

	job, err := reg.Consume(ctx, "B2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, job.State)
	assert.Equal(t, 1, reg.Len(ctx), "pending record must stay")

	require.NoError(t, reg.MarkProcessing(ctx, "B2", gen))
	require.NoError(t, reg.Fail(ctx, "B2", gen, "upstream exploded"))

	job, err = reg.Consume(ctx, "B2")
	require.NoError(t, err)
	assert.Equal(t, domain.StateError, job.State)
	assert.Equal(t, "upstream exploded", job.FailureReason)
	assert.Nil(t, job.Result)

	_, err = reg.Consume(ctx, "B2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, reg.Len(ctx))
}

func TestRegistry_ConsumeRaceDeliversOnce(t *testing.T) {
	reg := NewMemoryJobRegistry(0, nil)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("job-%d", i)
		gen, _ := reg.Put(ctx, newJob(id))
		require.NoError(t, reg.MarkProcessing(ctx, id, gen))
		require.NoError(t, reg.Complete(ctx, id, gen, json.RawMessage(`"done"`)))

		var delivered atomic.Int32
		var wg sync.WaitGroup
		for r := 0; r < 8; r++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				job, err := reg.Consume(ctx, id)
				if err == nil && job.State == domain.StateComplete {
					delivered.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 1, delivered.Load(), "id %s", id)
	}
}

func TestRegistry_EmptyIDIsNotFound(t *testing.T) {
	reg := NewMemoryJobRegistry(0, nil)
	ctx := context.Background()

	_, err := reg.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = reg.Consume(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_LazyExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	reg := NewMemoryJobRegistry(5*time.Minute, clock.Now)
	ctx := context.Background()

	gen, _ := reg.Put(ctx, newJob("old"))
	require.NoError(t, reg.MarkProcessing(ctx, "old", gen))

	clock.Advance(5*time.Minute + time.Second)

	assert.ErrorIs(t, reg.Complete(ctx, "old", gen, json.RawMessage(`"late"`)), domain.ErrNotFound)
	_, err := reg.Consume(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, reg.Len(ctx))
}

func TestRegistry_Sweep(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	reg := NewMemoryJobRegistry(0, clock.Now)
	ctx := context.Background()

	oldGen, _ := reg.Put(ctx, newJob("pending-old"))
	doneGen, _ := reg.Put(ctx, newJob("complete-old"))
	require.NoError(t, reg.MarkProcessing(ctx, "complete-old", doneGen))
	require.NoError(t, reg.Complete(ctx, "complete-old", doneGen, json.RawMessage(`1`)))

	clock.Advance(4 * time.Minute)
	_, _ = reg.Put(ctx, newJob("fresh"))

	removed, err := reg.Sweep(ctx, clock.Now().Add(-3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, reg.Len(ctx))

	assert.ErrorIs(t, reg.MarkProcessing(ctx, "pending-old", oldGen), domain.ErrNotFound)
	_, err = reg.Get(ctx, "fresh")
	assert.NoError(t, err)
}
