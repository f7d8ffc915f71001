package jobstore

import (
	"context"
	"iter"
	"maps"
	"slices"
	"sync"

	"job-tracker/internal/models"
)

// MemoryStore keeps records in a map. Reads share the lock; writes are
// serialized. The zero value is not usable; call NewMemoryStore.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]models.Job
	opts options

	// persist, when set, runs under the write lock after each change with the
	// full record set. A failure rolls the change back.
	persist func(map[string]models.Job) error
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]models.Job),
		opts: buildOptions(opts),
	}
}

func (s *MemoryStore) Create(ctx context.Context, job models.Job) (string, error) {
	if err := Validate(job); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job.ID = s.opts.newID()
	for {
		if _, taken := s.jobs[job.ID]; !taken {
			break
		}
		job.ID = s.opts.newID()
	}
	now := s.opts.timestamp()
	job.CreatedAt = now
	job.UpdatedAt = now

	s.jobs[job.ID] = job
	if err := s.save(); err != nil {
		delete(s.jobs, job.ID)
		return "", storeFailure("create", err)
	}
	return job.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return models.Job{}, notFound(id)
	}
	return job, nil
}

func (s *MemoryStore) List(ctx context.Context, filter models.JobFilter) iter.Seq2[models.Job, error] {
	return func(yield func(models.Job, error) bool) {
		if err := ValidateFilter(filter); err != nil {
			errSeq(err)(yield)
			return
		}
		sliceSeq(ctx, s.snapshot(filter))(yield)
	}
}

// snapshot copies matching records in list order.
func (s *MemoryStore) snapshot(filter models.JobFilter) []models.Job {
	s.mu.RLock()
	matched := make([]models.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if filter.Matches(job) {
			matched = append(matched, job)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b models.Job) int {
		switch {
		case models.Less(a, b):
			return -1
		case models.Less(b, a):
			return 1
		default:
			return 0
		}
	})
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched
}

func (s *MemoryStore) Update(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[id]
	if !ok {
		return models.Job{}, notFound(id)
	}

	merged := patch.Apply(existing)
	if err := Validate(merged); err != nil {
		return models.Job{}, err
	}
	merged.UpdatedAt = s.opts.timestamp()
	if merged.UpdatedAt.Before(existing.UpdatedAt) {
		merged.UpdatedAt = existing.UpdatedAt
	}

	s.jobs[id] = merged
	if err := s.save(); err != nil {
		s.jobs[id] = existing
		return models.Job{}, storeFailure("update", err)
	}
	return merged, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[id]
	if !ok {
		return notFound(id)
	}

	delete(s.jobs, id)
	if err := s.save(); err != nil {
		s.jobs[id] = existing
		return storeFailure("delete", err)
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *MemoryStore) save() error {
	if s.persist == nil {
		return nil
	}
	return s.persist(maps.Clone(s.jobs))
}
