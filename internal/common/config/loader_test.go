package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
workers:
  create-job:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "job-tracker", cfg.App.Name)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 300000, cfg.Store.Cache.TTL)
	assert.Equal(t, "job:", cfg.Store.Cache.KeyPrefix)
	assert.Equal(t, "jobs", cfg.Store.Index.Name)
	assert.Equal(t, "jobs", cfg.Events.NATS.SubjectPrefix)
	assert.Equal(t, []string{"interviewing", "offer"}, cfg.Notifications.Statuses)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Metrics.Address)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Tracing.CollectorURL)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)

	w := cfg.Workers["create-job"]
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("TRACKER_DATA_DIR", "/var/lib/tracker")
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
store:
  backend: FILE
  file_path: ${TRACKER_DATA_DIR}/jobs.jsonl
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "/var/lib/tracker/jobs.jsonl", cfg.Store.FilePath)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("STORE_FILE_PATH", "/tmp/jobs.jsonl")
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
store:
  backend: memory
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "/tmp/jobs.jsonl", cfg.Store.FilePath)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "store:\n  backend: memory\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "unknown backend",
			body:    "camunda:\n  broker_address: x:1\nstore:\n  backend: sqlite\n",
			wantErr: "store.backend",
		},
		{
			name:    "file without path",
			body:    "camunda:\n  broker_address: x:1\nstore:\n  backend: file\n",
			wantErr: "store.file_path",
		},
		{
			name:    "postgres without host",
			body:    "camunda:\n  broker_address: x:1\nstore:\n  backend: postgres\n",
			wantErr: "database.postgres.host",
		},
		{
			name:    "cache without redis",
			body:    "camunda:\n  broker_address: x:1\nstore:\n  backend: file\n  file_path: /tmp/jobs.json\n  cache:\n    enabled: true\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "cache over memory backend",
			body:    "camunda:\n  broker_address: x:1\nstore:\n  backend: memory\n  cache:\n    enabled: true\ndatabase:\n  redis:\n    address: localhost:6379\n",
			wantErr: "store.cache requires a durable backend",
		},
		{
			name:    "serve_list without index",
			body:    "camunda:\n  broker_address: x:1\nstore:\n  index:\n    serve_list: true\ndatabase:\n  elasticsearch:\n    url: http://es:9200\n",
			wantErr: "serve_list",
		},
		{
			name:    "bad sender address",
			body:    "camunda:\n  broker_address: x:1\nnotifications:\n  email:\n    enabled: true\n    from_email: nope\n    to_email: me@example.com\n",
			wantErr: "from_email",
		},
		{
			name:    "sample ratio out of range",
			body:    "camunda:\n  broker_address: x:1\ntracing:\n  sample_ratio: 1.5\n",
			wantErr: "tracing.sample_ratio",
		},
		{
			name:    "sms without destination",
			body:    "camunda:\n  broker_address: x:1\nnotifications:\n  sms:\n    enabled: true\n",
			wantErr: "notifications.sms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestElasticsearchConfig_GetAddresses(t *testing.T) {
	assert.Equal(t, []string{"http://a:9200"}, ElasticsearchConfig{URL: "http://a:9200"}.GetAddresses())
	assert.Equal(t, []string{"http://b:9200"}, ElasticsearchConfig{Addresses: []string{"http://b:9200"}, URL: "http://a:9200"}.GetAddresses())
	assert.Nil(t, ElasticsearchConfig{}.GetAddresses())
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{"get-job": {Enabled: false}}}

	assert.False(t, IsWorkerEnabled(cfg, "get-job"))
	assert.True(t, IsWorkerEnabled(cfg, "list-jobs"))
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "list-jobs").Timeout)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "jobs", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=jobs sslmode=disable", p.GetDSN())
}
