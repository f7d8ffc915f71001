package jobstore

import (
	"context"
	"sync"

	"job-tracker/internal/common/logger"
	"job-tracker/internal/models"
)

// StatusNotifier is told when a record enters a watched status.
// *notify.Notifier implements it.
type StatusNotifier interface {
	StatusChanged(ctx context.Context, job models.Job, previous string) error
}

// NotifyingStore calls the notifier when a create or update leaves a record
// in one of the watched statuses it was not already in. Status updates to the
// same id are serialized so each transition is seen by exactly one caller.
type NotifyingStore struct {
	Store
	notifier StatusNotifier
	statuses map[string]bool
	logger   logger.Logger
	locks    idLocks
}

func NewNotifyingStore(inner Store, notifier StatusNotifier, statuses []string, log logger.Logger) *NotifyingStore {
	watched := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		watched[s] = true
	}
	return &NotifyingStore{
		Store:    inner,
		notifier: notifier,
		statuses: watched,
		logger:   log.WithFields(map[string]interface{}{"layer": "notify"}),
	}
}

func (s *NotifyingStore) Create(ctx context.Context, job models.Job) (string, error) {
	id, err := s.Store.Create(ctx, job)
	if err != nil {
		return "", err
	}
	if s.statuses[job.Status] {
		if created, gerr := s.Store.Get(ctx, id); gerr == nil {
			s.notify(ctx, created, "")
		}
	}
	return id, nil
}

func (s *NotifyingStore) Update(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	// Without a status in the patch the status cannot change.
	if patch.Status == nil {
		return s.Store.Update(ctx, id, patch)
	}

	job, previous, err := s.updateStatus(ctx, id, patch)
	if err != nil {
		return models.Job{}, err
	}
	if s.statuses[job.Status] && job.Status != previous {
		s.notify(ctx, job, previous)
	}
	return job, nil
}

// updateStatus applies patch and reports the status it replaced.
func (s *NotifyingStore) updateStatus(ctx context.Context, id string, patch models.JobPatch) (models.Job, string, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	previous := ""
	if before, err := s.Store.Get(ctx, id); err == nil {
		previous = before.Status
	}
	job, err := s.Store.Update(ctx, id, patch)
	return job, previous, err
}

func (s *NotifyingStore) notify(ctx context.Context, job models.Job, previous string) {
	if err := s.notifier.StatusChanged(ctx, job, previous); err != nil {
		s.logger.Warn("status notification failed", map[string]interface{}{
			"jobId":  job.ID,
			"status": job.Status,
			"error":  err,
		})
	}
}

// idLocks hands out one mutex per id, dropped once nobody holds it.
type idLocks struct {
	mu    sync.Mutex
	locks map[string]*idLock
}

type idLock struct {
	sync.Mutex
	refs int
}

func (l *idLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*idLock)
	}
	lk, ok := l.locks[id]
	if !ok {
		lk = &idLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()
		l.mu.Lock()
		if lk.refs--; lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
