package jobstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"job-tracker/internal/common/config"
	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/observability"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
)

// Open builds the backend named by cfg.Backend. db is required for postgres
// and ignored otherwise.
func Open(ctx context.Context, cfg config.StoreConfig, db *sql.DB, opts ...Option) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryStore(opts...), nil
	case config.BackendFile:
		return OpenFileStore(cfg.FilePath, opts...)
	case config.BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("%w: postgres backend needs a database handle", ErrStoreFailure)
		}
		store := NewPostgresStore(db, opts...)
		if cfg.Migrate {
			if err := store.Migrate(ctx); err != nil {
				return nil, err
			}
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrStoreFailure, cfg.Backend)
	}
}

// Layers selects the optional decorators. A nil dependency leaves its layer
// out.
type Layers struct {
	Redis       redis.Cmdable
	CacheTTL    time.Duration
	CachePrefix string

	Elasticsearch *elasticsearch.Client
	IndexName     string
	ServeList     bool

	Events EventPublisher

	Notifier       StatusNotifier
	NotifyStatuses []string

	Observability *observability.Observability
}

// Wrap stacks the configured layers around inner. The cache sits closest to
// the backend so the other layers' reads hit it; instrumentation is outermost
// so it measures everything.
func Wrap(inner Store, layers Layers, log logger.Logger) Store {
	store := inner
	if layers.Redis != nil {
		store = NewCachedStore(store, layers.Redis, layers.CacheTTL, layers.CachePrefix, log)
	}
	if layers.Elasticsearch != nil {
		store = NewIndexedStore(store, layers.Elasticsearch, layers.IndexName, layers.ServeList, log)
	}
	if layers.Events != nil {
		store = NewPublishedStore(store, layers.Events, log)
	}
	if layers.Notifier != nil && len(layers.NotifyStatuses) > 0 {
		store = NewNotifyingStore(store, layers.Notifier, layers.NotifyStatuses, log)
	}
	if layers.Observability != nil {
		store = NewInstrumentedStore(store, layers.Observability)
	}
	return store
}
