//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"job-tracker/internal/common/config"
	"job-tracker/internal/common/database"
	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/observability"
	"job-tracker/internal/jobstore"
	"job-tracker/internal/search"
	createjob "job-tracker/internal/workers/jobs/create-job"
	deletejob "job-tracker/internal/workers/jobs/delete-job"
	getjob "job-tracker/internal/workers/jobs/get-job"
	listjobs "job-tracker/internal/workers/jobs/list-jobs"
	updatejob "job-tracker/internal/workers/jobs/update-job"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// e2eConfig points at the docker-compose services on localhost.
func e2eConfig() *config.Config {
	return &config.Config{
		Store: config.StoreConfig{
			Backend: config.BackendPostgres,
			Migrate: true,
			Cache:   config.CacheConfig{Enabled: true, TTL: 60000, KeyPrefix: "e2e:job:"},
			Index:   config.IndexConfig{Enabled: true, Name: "jobs-e2e", ServeList: true},
		},
		Database: config.DatabaseConfig{
			Postgres: config.PostgresConfig{
				Host:     envOr("DB_HOST", "localhost"),
				Port:     5432,
				Database: envOr("DB_NAME", "job_tracker"),
				User:     envOr("DB_USER", "postgres"),
				Password: envOr("DB_PASSWORD", "postgres"),
				SSLMode:  "disable",
			},
			Redis:         config.RedisConfig{Address: envOr("REDIS_ADDRESS", "localhost:6379")},
			Elasticsearch: config.ElasticsearchConfig{URL: envOr("ELASTICSEARCH_URL", "http://localhost:9200")},
		},
	}
}

// openStack connects every backing service and returns the fully layered store.
func openStack(t *testing.T, ctx context.Context, cfg *config.Config) jobstore.Store {
	t.Helper()
	log := logger.NewTestLogger(t)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	require.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")
	t.Cleanup(func() { pg.Close() })

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "Redis client creation failed")
	require.NoError(t, rdb.Ping(ctx), "Redis ping failed")
	t.Cleanup(func() { rdb.Close() })

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err, "Elasticsearch client creation failed")
	require.NoError(t, es.Ping(ctx), "Elasticsearch ping failed")
	require.NoError(t, es.EnsureIndex(ctx, cfg.Store.Index.Name, search.IndexMapping))

	backend, err := jobstore.Open(ctx, cfg.Store, pg.DB)
	require.NoError(t, err)

	return jobstore.Wrap(backend, jobstore.Layers{
		Redis:         rdb.Client,
		CacheTTL:      config.GetDuration(cfg.Store.Cache.TTL),
		CachePrefix:   cfg.Store.Cache.KeyPrefix,
		Elasticsearch: es.Client,
		IndexName:     cfg.Store.Index.Name,
		ServeList:     cfg.Store.Index.ServeList,
		Observability: observability.NewNoop(),
	}, log)
}

func TestFullE2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := e2eConfig()
	store := openStack(t, ctx, cfg)
	log := logger.NewTestLogger(t)
	obs := observability.NewNoop()

	create := createjob.NewHandler(createjob.LoadConfig(config.WorkerConfig{Timeout: 10000}), store, obs, log)
	get := getjob.NewHandler(getjob.LoadConfig(config.WorkerConfig{Timeout: 10000}), store, obs, log)
	list := listjobs.NewHandler(listjobs.LoadConfig(config.WorkerConfig{Timeout: 10000}), store, obs, log)
	update := updatejob.NewHandler(updatejob.LoadConfig(config.WorkerConfig{Timeout: 10000}), store, obs, log)
	remove := deletejob.NewHandler(deletejob.LoadConfig(config.WorkerConfig{Timeout: 10000}), store, obs, log)

	platform := "e2e-" + time.Now().UTC().Format("20060102150405")

	created, err := create.Execute(ctx, &createjob.Input{Job: map[string]interface{}{
		"company":        "Acme",
		"role":           "Engineer",
		"date_applied":   "2024-01-10",
		"platform":       platform,
		"interviewed":    false,
		"num_interviews": 0,
		"status":         "applied",
	}})
	require.NoError(t, err)
	require.NotEmpty(t, created.JobID)

	got, err := get.Execute(ctx, &getjob.Input{JobID: created.JobID})
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Job.Company)
	assert.Equal(t, "2024-01-10", got.Job.DateApplied.String())

	updated, err := update.Execute(ctx, &updatejob.Input{JobID: created.JobID, Patch: map[string]interface{}{
		"status":         "interviewing",
		"interviewed":    true,
		"num_interviews": 1,
	}})
	require.NoError(t, err)
	assert.Equal(t, "interviewing", updated.Job.Status)
	assert.Equal(t, 1, updated.Job.NumInterviews)

	listed, err := list.Execute(ctx, &listjobs.Input{Filter: map[string]interface{}{
		"platform": platform,
		"status":   "interviewing",
	}})
	require.NoError(t, err)
	require.Equal(t, 1, listed.Count)
	assert.Equal(t, created.JobID, listed.Jobs[0].ID)

	deleted, err := remove.Execute(ctx, &deletejob.Input{JobID: created.JobID})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	_, err = get.Execute(ctx, &getjob.Input{JobID: created.JobID})
	assert.ErrorIs(t, err, jobstore.ErrNotFound)
}
