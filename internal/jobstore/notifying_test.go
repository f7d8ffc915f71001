package jobstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"job-tracker/internal/common/logger"
	"job-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatusNotifier struct {
	mock.Mock
}

func (m *MockStatusNotifier) StatusChanged(ctx context.Context, job models.Job, previous string) error {
	args := m.Called(ctx, job, previous)
	return args.Error(0)
}

func jobWithStatus(status string) interface{} {
	return mock.MatchedBy(func(j models.Job) bool { return j.Status == status })
}

func TestNotifyingStore_CreateInWatchedStatus(t *testing.T) {
	ctx := context.Background()
	notifier := new(MockStatusNotifier)
	store := NewNotifyingStore(NewMemoryStore(), notifier, []string{"interviewing", "offer"}, logger.NewTestLogger(t))

	notifier.On("StatusChanged", mock.Anything, jobWithStatus("interviewing"), "").Return(nil).Once()

	_, err := store.Create(ctx, sampleJob())
	require.NoError(t, err)

	job := sampleJob()
	job.Status = "interviewing"
	_, err = store.Create(ctx, job)
	require.NoError(t, err)

	notifier.AssertExpectations(t)
}

func TestNotifyingStore_UpdateTransitions(t *testing.T) {
	ctx := context.Background()
	notifier := new(MockStatusNotifier)
	store := NewNotifyingStore(NewMemoryStore(), notifier, []string{"interviewing", "offer"}, logger.NewTestLogger(t))

	id, err := store.Create(ctx, sampleJob())
	require.NoError(t, err)

	notifier.On("StatusChanged", mock.Anything, jobWithStatus("interviewing"), "applied").Return(nil).Once()
	notifier.On("StatusChanged", mock.Anything, jobWithStatus("offer"), "interviewing").Return(errors.New("ses throttled")).Once()

	_, err = store.Update(ctx, id, models.JobPatch{Interviewed: ptr(true), NumInterviews: ptr(1), Status: ptr("interviewing")})
	require.NoError(t, err)

	// Same status again and an unwatched field change stay quiet.
	_, err = store.Update(ctx, id, models.JobPatch{Status: ptr("interviewing"), NumInterviews: ptr(2)})
	require.NoError(t, err)
	_, err = store.Update(ctx, id, models.JobPatch{Role: ptr("Staff Engineer")})
	require.NoError(t, err)

	// A notifier error is logged, not returned.
	job, err := store.Update(ctx, id, models.JobPatch{Status: ptr("offer")})
	require.NoError(t, err)
	assert.Equal(t, "offer", job.Status)

	_, err = store.Update(ctx, id, models.JobPatch{Status: ptr("rejected")})
	require.NoError(t, err)

	notifier.AssertExpectations(t)
}

func TestNotifyingStore_FailedUpdateIsSilent(t *testing.T) {
	ctx := context.Background()
	notifier := new(MockStatusNotifier)
	store := NewNotifyingStore(NewMemoryStore(), notifier, []string{"offer"}, logger.NewTestLogger(t))

	_, err := store.Update(ctx, "missing", models.JobPatch{Status: ptr("offer")})
	assert.ErrorIs(t, err, ErrNotFound)

	notifier.AssertNotCalled(t, "StatusChanged", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyingStore_ConcurrentUpdatesNotifyOnce(t *testing.T) {
	ctx := context.Background()
	notifier := new(MockStatusNotifier)
	store := NewNotifyingStore(NewMemoryStore(), notifier, []string{"offer"}, logger.NewTestLogger(t))

	id, err := store.Create(ctx, sampleJob())
	require.NoError(t, err)

	notifier.On("StatusChanged", mock.Anything, jobWithStatus("offer"), "applied").Return(nil).Once()

	const writers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := store.Update(ctx, id, models.JobPatch{Status: ptr("offer")})
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()

	notifier.AssertExpectations(t)
	notifier.AssertNumberOfCalls(t, "StatusChanged", 1)
	assert.Empty(t, store.locks.locks)
}
