package database

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"job-tracker/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{Address: "cache:6379", Password: "secret", DB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = redisOptions(config.RedisConfig{Address: "redis://:pw@cache:6380/4", Password: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 4, opts.DB)

	_, err = redisOptions(config.RedisConfig{})
	assert.Error(t, err)
}

func TestNewRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.ErrorContains(t, client.Ping(context.Background()), "redis ping failed")
}

func TestNewPostgres_RejectsBadDSN(t *testing.T) {
	// unquoted space splits the value into a bare key
	_, err := NewPostgres(config.PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "two words", Database: "jobs", SSLMode: "disable"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid postgres dsn")
}

func TestNewPostgres_DoesNotDial(t *testing.T) {
	client, err := NewPostgres(config.PostgresConfig{Host: "127.0.0.1", Port: 1, User: "u", Database: "jobs", SSLMode: "disable", MaxConnections: 2})
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, 2, client.DB.Stats().MaxOpenConnections)
}

// fakeIndexServer answers HEAD/PUT on one index and records created bodies.
type fakeIndexServer struct {
	mu      sync.Mutex
	exists  bool
	created []string
}

func (f *fakeIndexServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodHead && r.URL.Path == "/jobs":
		if f.exists {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && r.URL.Path == "/jobs":
		body, _ := io.ReadAll(r.Body)
		f.created = append(f.created, string(body))
		f.exists = true
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"acknowledged":true,"index":"jobs"}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func TestElasticsearch_PingAndEnsureIndex(t *testing.T) {
	fake := &fakeIndexServer{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, es.Ping(ctx))

	mapping := `{"mappings":{"properties":{"status":{"type":"keyword"}}}}`
	require.NoError(t, es.EnsureIndex(ctx, "jobs", mapping))
	require.NoError(t, es.EnsureIndex(ctx, "jobs", mapping))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{mapping}, fake.created, "index is created once")
}
