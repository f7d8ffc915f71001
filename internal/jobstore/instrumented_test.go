package jobstore

import (
	"context"
	"testing"

	"job-tracker/internal/common/metrics"
	"job-tracker/internal/common/observability"
	"job-tracker/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultLabel(t *testing.T) {
	assert.Equal(t, metrics.ResultSuccess, resultLabel(nil))
	assert.Equal(t, "not_found", resultLabel(notFound("x")))
	assert.Equal(t, "invalid", resultLabel(NewValidationError()))
	assert.Equal(t, metrics.ResultError, resultLabel(storeFailure("get", assert.AnError)))
}

func TestInstrumentedStore_PassesThroughAndCounts(t *testing.T) {
	ctx := context.Background()
	store := NewInstrumentedStore(NewMemoryStore(), observability.NewNoop())

	createdBefore := testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("create", metrics.ResultSuccess))
	missingBefore := testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("get", "not_found"))
	listBefore := testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("list", metrics.ResultSuccess))

	id, err := store.Create(ctx, sampleJob())
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	jobs, err := Collect(store.List(ctx, models.JobFilter{}))
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	_, err = store.Update(ctx, id, models.JobPatch{Status: ptr("offer")})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, id))
	require.NoError(t, store.Close())

	assert.Equal(t, createdBefore+1, testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("create", metrics.ResultSuccess)))
	assert.Equal(t, missingBefore+1, testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("get", "not_found")))
	assert.Equal(t, listBefore+1, testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("list", metrics.ResultSuccess)))
}

func TestInstrumentedStore_ListRecordsOnlyWhenIterated(t *testing.T) {
	ctx := context.Background()
	store := NewInstrumentedStore(NewMemoryStore(), observability.NewNoop())
	counter := metrics.StoreOperations.WithLabelValues("list", "invalid")
	before := testutil.ToFloat64(counter)

	seq := store.List(ctx, models.JobFilter{Limit: -1})
	assert.Equal(t, before, testutil.ToFloat64(counter))

	_, err := Collect(seq)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
