// internal/workers/jobs/create-job/handler_test.go
package createjob

import (
	"context"
	"testing"
	"time"

	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/observability"
	"job-tracker/internal/jobstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestInput() *Input {
	return &Input{
		Job: map[string]interface{}{
			"company":        "Acme",
			"role":           "Engineer",
			"date_applied":   "2024-01-10",
			"platform":       "LinkedIn",
			"interviewed":    false,
			"num_interviews": 0,
			"status":         "applied",
		},
	}
}

func newTestHandler(t *testing.T) (*Handler, *jobstore.MemoryStore) {
	store := jobstore.NewMemoryStore()
	cfg := &Config{Timeout: 5 * time.Second}
	return NewHandler(cfg, store, observability.NewNoop(), logger.NewTestLogger(t)), store
}

func TestHandler_Execute_Success(t *testing.T) {
	handler, store := newTestHandler(t)

	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.NotEmpty(t, output.JobID)

	_, err = time.Parse(time.RFC3339, output.CreatedAt)
	assert.NoError(t, err)

	job, err := store.Get(context.Background(), output.JobID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "2024-01-10", job.DateApplied.String())
}

func TestHandler_Execute_IgnoresSuppliedID(t *testing.T) {
	handler, _ := newTestHandler(t)
	input := createTestInput()
	input.Job["id"] = "mine"

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.NotEqual(t, "mine", output.JobID)
}

func TestHandler_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]interface{})
		field  string
	}{
		{
			name:   "interviews without interviewed",
			mutate: func(doc map[string]interface{}) { doc["num_interviews"] = 2 },
			field:  "num_interviews",
		},
		{
			name:   "missing company",
			mutate: func(doc map[string]interface{}) { delete(doc, "company") },
			field:  "company",
		},
		{
			name:   "blank role",
			mutate: func(doc map[string]interface{}) { doc["role"] = "   " },
			field:  "role",
		},
		{
			name:   "negative count",
			mutate: func(doc map[string]interface{}) { doc["num_interviews"] = -1 },
			field:  "num_interviews",
		},
		{
			name:   "unknown field",
			mutate: func(doc map[string]interface{}) { doc["salary"] = 100 },
			field:  "salary",
		},
		{
			name:   "impossible date",
			mutate: func(doc map[string]interface{}) { doc["date_applied"] = "2024-02-30" },
			field:  "document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, store := newTestHandler(t)
			input := createTestInput()
			tt.mutate(input.Job)

			output, err := handler.Execute(context.Background(), input)
			assert.Nil(t, output)
			require.ErrorIs(t, err, jobstore.ErrValidation)

			var verr *jobstore.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.HasField(tt.field), "violations: %v", verr.Violations)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestHandler_Execute_MissingDocument(t *testing.T) {
	handler, _ := newTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, jobstore.ErrValidation)
}
