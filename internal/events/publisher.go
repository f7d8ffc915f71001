// Package events publishes job record lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/metrics"
	"job-tracker/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	TypeCreated = "created"
	TypeUpdated = "updated"
	TypeDeleted = "deleted"
)

var ErrPublishFailed = errors.New("EVENT_PUBLISH_FAILED")

var tracer = otel.Tracer("job-tracker/events")

// JobEvent is the message body. Job is absent for deletions.
type JobEvent struct {
	Type string      `json:"type"`
	ID   string      `json:"id"`
	Job  *models.Job `json:"job,omitempty"`
	At   time.Time   `json:"at"`
}

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

type Publisher struct {
	conn   Conn
	prefix string
	logger logger.Logger
}

func NewPublisher(conn Conn, subjectPrefix string, log logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		prefix: subjectPrefix,
		logger: log.WithFields(map[string]interface{}{"component": "events"}),
	}
}

// Subject returns <prefix>.<type>.
func (p *Publisher) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

func (p *Publisher) Publish(ctx context.Context, evt JobEvent) error {
	_, span := tracer.Start(ctx, "events.Publish")
	defer span.End()

	subject := p.Subject(evt.Type)
	data, err := json.Marshal(evt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal")
		return fmt.Errorf("%w: marshal %s event: %v", ErrPublishFailed, evt.Type, err)
	}

	span.SetAttributes(
		attribute.String("nats.subject", subject),
		attribute.String("job.id", evt.ID),
		attribute.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish")
		metrics.EventsPublished.WithLabelValues(evt.Type, metrics.ResultError).Inc()
		return fmt.Errorf("%w: %s: %v", ErrPublishFailed, subject, err)
	}

	metrics.EventsPublished.WithLabelValues(evt.Type, metrics.ResultSuccess).Inc()
	p.logger.Debug("published job event", map[string]interface{}{
		"subject": subject,
		"jobId":   evt.ID,
	})
	return nil
}
