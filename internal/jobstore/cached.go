package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/metrics"
	"job-tracker/internal/models"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL bounds how long a cached record may lag a change made
// outside this process.
const DefaultCacheTTL = 5 * time.Minute

// CachedStore reads records through Redis. Cache trouble is logged and never
// fails an operation; the inner store stays authoritative.
//
// Writes evict rather than refresh. A fill started by Get is dropped when a
// write to the same id lands while the inner read is in flight, so a slow
// reader cannot re-cache a record that was updated or deleted after it read.
type CachedStore struct {
	Store
	client redis.Cmdable
	ttl    time.Duration
	prefix string
	logger logger.Logger

	mu    sync.Mutex
	fills map[string]*pendingFill
}

// pendingFill tracks the Get misses reading one id.
type pendingFill struct {
	readers    int
	generation uint64
}

func NewCachedStore(inner Store, client redis.Cmdable, ttl time.Duration, prefix string, log logger.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if prefix == "" {
		prefix = "job:"
	}
	return &CachedStore{
		Store:  inner,
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"layer": "cache"}),
		fills:  make(map[string]*pendingFill),
	}
}

func (s *CachedStore) key(id string) string {
	return s.prefix + id
}

func (s *CachedStore) Get(ctx context.Context, id string) (models.Job, error) {
	cached, err := s.client.Get(ctx, s.key(id)).Result()
	switch {
	case err == nil:
		var job models.Job
		uerr := json.Unmarshal([]byte(cached), &job)
		if uerr == nil {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return job, nil
		}
		metrics.CacheRequests.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"jobId": id, "error": uerr})
	case errors.Is(err, redis.Nil):
		metrics.CacheRequests.WithLabelValues("miss").Inc()
	default:
		metrics.CacheRequests.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Warn("cache read failed", map[string]interface{}{"jobId": id, "error": err})
	}

	generation := s.beginFill(id)
	job, err := s.Store.Get(ctx, id)
	if err != nil {
		s.endFill(ctx, id, generation, nil)
		return models.Job{}, err
	}
	s.endFill(ctx, id, generation, &job)
	return job, nil
}

func (s *CachedStore) Update(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	job, err := s.Store.Update(ctx, id, patch)
	if err != nil {
		// A rejected patch changed nothing.
		if !errors.Is(err, ErrValidation) {
			s.invalidate(ctx, id)
		}
		return models.Job{}, err
	}
	s.invalidate(ctx, id)
	return job, nil
}

func (s *CachedStore) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	s.invalidate(ctx, id)
	return err
}

func (s *CachedStore) beginFill(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fills[id]
	if !ok {
		f = &pendingFill{}
		s.fills[id] = f
	}
	f.readers++
	return f.generation
}

// endFill caches job unless a write to id landed since beginFill. The check
// and the SET happen under the same lock invalidate holds for its DEL.
func (s *CachedStore) endFill(ctx context.Context, id string, generation uint64, job *models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.fills[id]
	if job != nil && f.generation == generation {
		s.put(ctx, *job)
	}
	if f.readers--; f.readers == 0 {
		delete(s.fills, id)
	}
}

func (s *CachedStore) invalidate(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fills[id]; ok {
		f.generation++
	}
	s.evict(ctx, id)
}

func (s *CachedStore) put(ctx context.Context, job models.Job) {
	data, err := json.Marshal(job)
	if err != nil {
		s.logger.Warn("cache encode failed", map[string]interface{}{"jobId": job.ID, "error": err})
		return
	}
	if err := s.client.Set(ctx, s.key(job.ID), string(data), s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{"jobId": job.ID, "error": err})
	}
}

func (s *CachedStore) evict(ctx context.Context, id string) {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		s.logger.Warn("cache evict failed", map[string]interface{}{"jobId": id, "error": err})
	}
}
