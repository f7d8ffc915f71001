package jobstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"job-tracker/internal/common/logger"
	"job-tracker/internal/events"
	"job-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.JobEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, evt events.JobEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func TestPublishedStore_EmitsLifecycle(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	store := NewPublishedStore(newTestMemoryStore(), pub, logger.NewTestLogger(t))

	id, err := store.Create(ctx, sampleJob())
	require.NoError(t, err)
	_, err = store.Update(ctx, id, models.JobPatch{Status: ptr("rejected")})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, id))

	assert.Equal(t, []string{events.TypeCreated, events.TypeUpdated, events.TypeDeleted}, pub.types())

	created := pub.events[0]
	require.NotNil(t, created.Job)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, "Acme", created.Job.Company)
	assert.False(t, created.At.IsZero())

	assert.Equal(t, "rejected", pub.events[1].Job.Status)
	assert.Nil(t, pub.events[2].Job)
}

func TestPublishedStore_SkipsFailedWrites(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	store := NewPublishedStore(NewMemoryStore(), pub, logger.NewTestLogger(t))

	bad := sampleJob()
	bad.Company = ""
	_, err := store.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = store.Update(ctx, "missing", models.JobPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), ErrNotFound)

	assert.Empty(t, pub.types())
}

func TestPublishedStore_PublishFailureKeepsWrite(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("nats down")}
	inner := NewMemoryStore()
	store := NewPublishedStore(inner, pub, logger.NewTestLogger(t))

	_, err := store.Create(ctx, sampleJob())
	require.NoError(t, err)
	assert.Equal(t, 1, inner.Len())
}
