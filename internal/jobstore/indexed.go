package jobstore

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/metrics"
	"job-tracker/internal/models"
	"job-tracker/internal/search"

	"github.com/elastic/go-elasticsearch/v8"
)

// IndexedStore mirrors records into an Elasticsearch index. Index writes are
// best effort; ids whose write failed stay pending until a later write or
// List repairs them. With serveList set, List takes matching ids from the
// index and loads each record from the inner store, but only while the index
// is known to be complete: on the first List it reindexes every record, and
// it falls back to the inner store whenever repairs fail or the search hits
// the result window.
type IndexedStore struct {
	Store
	es        *elasticsearch.Client
	index     string
	serveList bool
	logger    logger.Logger

	syncMu sync.Mutex
	synced bool

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewIndexedStore(inner Store, es *elasticsearch.Client, index string, serveList bool, log logger.Logger) *IndexedStore {
	return &IndexedStore{
		Store:     inner,
		es:        es,
		index:     index,
		serveList: serveList,
		logger:    log.WithFields(map[string]interface{}{"layer": "index", "index": index}),
		pending:   make(map[string]struct{}),
	}
}

func (s *IndexedStore) Create(ctx context.Context, job models.Job) (string, error) {
	id, err := s.Store.Create(ctx, job)
	if err != nil {
		return "", err
	}
	created, gerr := s.Store.Get(ctx, id)
	if gerr != nil {
		s.markPending(id)
		return id, nil
	}
	s.put(ctx, created)
	return id, nil
}

func (s *IndexedStore) Update(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	job, err := s.Store.Update(ctx, id, patch)
	if err != nil {
		return models.Job{}, err
	}
	s.put(ctx, job)
	return job, nil
}

func (s *IndexedStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.remove(ctx, id)
	return nil
}

func (s *IndexedStore) List(ctx context.Context, filter models.JobFilter) iter.Seq2[models.Job, error] {
	if !s.serveList {
		return s.Store.List(ctx, filter)
	}
	return func(yield func(models.Job, error) bool) {
		if err := ValidateFilter(filter); err != nil {
			yield(models.Job{}, err)
			return
		}

		if err := s.reconcile(ctx); err != nil {
			s.logger.Warn("index incomplete, listing from store", map[string]interface{}{"error": err})
			s.Store.List(ctx, filter)(yield)
			return
		}

		ids, err := s.search(ctx, filter)
		if err != nil {
			metrics.IndexOperations.WithLabelValues("search", metrics.ResultError).Inc()
			s.logger.Warn("index search failed, listing from store", map[string]interface{}{"error": err})
			s.Store.List(ctx, filter)(yield)
			return
		}
		metrics.IndexOperations.WithLabelValues("search", metrics.ResultSuccess).Inc()

		for _, id := range ids {
			job, err := s.Store.Get(ctx, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				yield(models.Job{}, err)
				return
			}
			// The index may trail the store; trust the record.
			if !filter.Matches(job) {
				continue
			}
			if !yield(job, nil) {
				return
			}
		}
	}
}

// reconcile reindexes every record on first use, then retries pending ids.
// It returns an error while any id is still missing from the index.
func (s *IndexedStore) reconcile(ctx context.Context) error {
	if err := s.reindexOnce(ctx); err != nil {
		return err
	}

	for _, id := range s.pendingIDs() {
		job, err := s.Store.Get(ctx, id)
		switch {
		case errors.Is(err, ErrNotFound):
			s.remove(ctx, id)
		case err != nil:
			return err
		default:
			s.put(ctx, job)
		}
	}
	if n := len(s.pendingIDs()); n > 0 {
		return fmt.Errorf("%d records not indexed", n)
	}
	return nil
}

func (s *IndexedStore) reindexOnce(ctx context.Context) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	if s.synced {
		return nil
	}

	count := 0
	for job, err := range s.Store.List(ctx, models.JobFilter{}) {
		if err != nil {
			return fmt.Errorf("reindex: %w", err)
		}
		s.put(ctx, job)
		count++
	}
	s.synced = true
	s.logger.Info("index rebuilt from store", map[string]interface{}{"records": count})
	return nil
}

func (s *IndexedStore) search(ctx context.Context, filter models.JobFilter) ([]string, error) {
	req, err := search.BuildSearchRequest(s.index, filter)
	if err != nil {
		return nil, err
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", s.index, res.Status())
	}
	hits, err := search.ParseHits(res.Body)
	if err != nil {
		return nil, err
	}
	if hits.Truncated(filter.Limit) {
		return nil, fmt.Errorf("search %s: %d of %d matches: %w", s.index, len(hits.IDs), hits.Total, search.ErrResultWindowExceeded)
	}
	return hits.IDs, nil
}

func (s *IndexedStore) markPending(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[id] = struct{}{}
}

func (s *IndexedStore) clearPending(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

func (s *IndexedStore) pendingIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	return ids
}

func (s *IndexedStore) put(ctx context.Context, job models.Job) {
	err := s.indexDocument(ctx, job)
	metrics.IndexOperations.WithLabelValues("index", metrics.ResultOf(err)).Inc()
	if err != nil {
		s.markPending(job.ID)
		s.logger.Warn("index write failed", map[string]interface{}{"jobId": job.ID, "error": err})
		return
	}
	s.clearPending(job.ID)
}

func (s *IndexedStore) indexDocument(ctx context.Context, job models.Job) error {
	body, err := search.Document(job)
	if err != nil {
		return err
	}
	res, err := s.es.Index(s.index, body,
		s.es.Index.WithDocumentID(job.ID),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index %s: %s", job.ID, res.Status())
	}
	return nil
}

func (s *IndexedStore) remove(ctx context.Context, id string) {
	res, err := s.es.Delete(s.index, id,
		s.es.Delete.WithContext(ctx),
		s.es.Delete.WithRefresh("wait_for"),
	)
	if err == nil {
		defer res.Body.Close()
		if res.IsError() && res.StatusCode != 404 {
			err = fmt.Errorf("delete %s: %s", id, res.Status())
		}
	}
	metrics.IndexOperations.WithLabelValues("delete", metrics.ResultOf(err)).Inc()
	if err != nil {
		s.markPending(id)
		s.logger.Warn("index delete failed", map[string]interface{}{"jobId": id, "error": err})
		return
	}
	s.clearPending(id)
}
