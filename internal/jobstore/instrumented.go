package jobstore

import (
	"context"
	"errors"
	"iter"
	"time"

	"job-tracker/internal/common/metrics"
	"job-tracker/internal/common/observability"
	"job-tracker/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedStore records a span, Prometheus counters and OTel metrics for
// every operation.
type InstrumentedStore struct {
	inner Store
	obs   *observability.Observability
}

func NewInstrumentedStore(inner Store, obs *observability.Observability) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, obs: obs}
}

// resultLabel keeps user errors apart from backend failures on dashboards.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "invalid"
	default:
		return metrics.ResultError
	}
}

func (s *InstrumentedStore) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	ctx, span := s.obs.Tracer().Start(ctx, "jobstore."+op, trace.WithAttributes(attrs...))
	return ctx, span, time.Now()
}

func (s *InstrumentedStore) finish(ctx context.Context, span trace.Span, op string, began time.Time, err error) {
	elapsed := time.Since(began)
	result := resultLabel(err)

	metrics.StoreOperations.WithLabelValues(op, result).Inc()
	metrics.StoreOperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	s.obs.RecordStoreOperation(ctx, op, result, elapsed)

	if err != nil {
		span.RecordError(err)
		if result == metrics.ResultError {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

func (s *InstrumentedStore) Create(ctx context.Context, job models.Job) (string, error) {
	ctx, span, began := s.start(ctx, "create")
	id, err := s.inner.Create(ctx, job)
	span.SetAttributes(attribute.String("job.id", id))
	s.finish(ctx, span, "create", began, err)
	return id, err
}

func (s *InstrumentedStore) Get(ctx context.Context, id string) (models.Job, error) {
	ctx, span, began := s.start(ctx, "get", attribute.String("job.id", id))
	job, err := s.inner.Get(ctx, id)
	s.finish(ctx, span, "get", began, err)
	return job, err
}

func (s *InstrumentedStore) List(ctx context.Context, filter models.JobFilter) iter.Seq2[models.Job, error] {
	inner := s.inner.List(ctx, filter)
	return func(yield func(models.Job, error) bool) {
		ctx, span, began := s.start(ctx, "list",
			attribute.String("filter.status", filter.Status),
			attribute.String("filter.platform", filter.Platform),
		)
		var (
			count  int
			seqErr error
		)
		for job, err := range inner {
			if err != nil {
				seqErr = err
			} else {
				count++
			}
			if !yield(job, err) {
				break
			}
		}
		span.SetAttributes(attribute.Int("jobs.count", count))
		s.finish(ctx, span, "list", began, seqErr)
	}
}

func (s *InstrumentedStore) Update(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	ctx, span, began := s.start(ctx, "update", attribute.String("job.id", id))
	job, err := s.inner.Update(ctx, id, patch)
	s.finish(ctx, span, "update", began, err)
	return job, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, id string) error {
	ctx, span, began := s.start(ctx, "delete", attribute.String("job.id", id))
	err := s.inner.Delete(ctx, id)
	s.finish(ctx, span, "delete", began, err)
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}
