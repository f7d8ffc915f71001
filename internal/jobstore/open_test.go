package jobstore

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"job-tracker/internal/common/config"
	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/observability"
	"job-tracker/internal/events"
	"job-tracker/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, config.StoreConfig{Backend: config.BackendMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	path := filepath.Join(t.TempDir(), "jobs.jsonl")
	store, err = Open(ctx, config.StoreConfig{Backend: config.BackendFile, FilePath: path}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	_, err = Open(ctx, config.StoreConfig{Backend: config.BackendPostgres}, nil)
	assert.ErrorIs(t, err, ErrStoreFailure)

	_, err = Open(ctx, config.StoreConfig{Backend: "sqlite"}, nil)
	assert.ErrorIs(t, err, ErrStoreFailure)
}

func TestOpen_PostgresMigrates(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbMock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS jobs")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := Open(context.Background(), config.StoreConfig{Backend: config.BackendPostgres, Migrate: true}, db)
	require.NoError(t, err)
	assert.IsType(t, &PostgresStore{}, store)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestWrap_NoLayers(t *testing.T) {
	inner := NewMemoryStore()
	assert.Same(t, inner, Wrap(inner, Layers{}, logger.NewNoOpLogger()))
}

func TestWrap_FullStack(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	pub := &recordingPublisher{}
	notifier := new(MockStatusNotifier)
	notifier.On("StatusChanged", mock.Anything, jobWithStatus("offer"), "applied").Return(nil).Once()

	store := Wrap(NewMemoryStore(), Layers{
		Redis:          rdb,
		Events:         pub,
		Notifier:       notifier,
		NotifyStatuses: []string{"offer"},
		Observability:  observability.NewNoop(),
	}, logger.NewTestLogger(t))
	require.IsType(t, &InstrumentedStore{}, store)

	id, err := store.Create(ctx, sampleJob())
	require.NoError(t, err)
	assert.True(t, mr.Exists("job:"+id), "the events layer reads through the cache")

	_, err = store.Update(ctx, id, models.JobPatch{Status: ptr("offer")})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, id))

	assert.Equal(t, []string{events.TypeCreated, events.TypeUpdated, events.TypeDeleted}, pub.types())
	assert.False(t, mr.Exists("job:"+id))
	notifier.AssertExpectations(t)
}
