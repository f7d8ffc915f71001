package jobstore

import (
	"context"
	"time"

	"job-tracker/internal/common/logger"
	"job-tracker/internal/events"
	"job-tracker/internal/models"
)

// EventPublisher delivers lifecycle events. *events.Publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, evt events.JobEvent) error
}

// PublishedStore emits an event after every successful write. A failed
// publish is logged; the write stands.
type PublishedStore struct {
	Store
	publisher EventPublisher
	logger    logger.Logger
	now       func() time.Time
}

func NewPublishedStore(inner Store, publisher EventPublisher, log logger.Logger) *PublishedStore {
	return &PublishedStore{
		Store:     inner,
		publisher: publisher,
		logger:    log.WithFields(map[string]interface{}{"layer": "events"}),
		now:       time.Now,
	}
}

func (s *PublishedStore) Create(ctx context.Context, job models.Job) (string, error) {
	id, err := s.Store.Create(ctx, job)
	if err != nil {
		return "", err
	}
	if created, gerr := s.Store.Get(ctx, id); gerr == nil {
		s.emit(ctx, events.TypeCreated, id, &created)
	}
	return id, nil
}

func (s *PublishedStore) Update(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	job, err := s.Store.Update(ctx, id, patch)
	if err != nil {
		return models.Job{}, err
	}
	s.emit(ctx, events.TypeUpdated, id, &job)
	return job, nil
}

func (s *PublishedStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, events.TypeDeleted, id, nil)
	return nil
}

func (s *PublishedStore) emit(ctx context.Context, eventType, id string, job *models.Job) {
	evt := events.JobEvent{Type: eventType, ID: id, Job: job, At: s.now().UTC()}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("event publish failed", map[string]interface{}{
			"jobId": id,
			"type":  eventType,
			"error": err,
		})
	}
}
