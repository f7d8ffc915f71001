// internal/workers/jobs/list-jobs/handler_test.go
package listjobs

import (
	"context"
	"testing"
	"time"

	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/observability"
	"job-tracker/internal/jobstore"
	"job-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) *jobstore.MemoryStore {
	store := jobstore.NewMemoryStore()
	for _, j := range []struct{ company, date, platform, status string }{
		{"Acme", "2024-01-10", "LinkedIn", "applied"},
		{"Globex", "2024-03-01", "Indeed", "interviewing"},
		{"Initech", "2023-11-20", "LinkedIn", "rejected"},
	} {
		interviewed := j.status == "interviewing"
		_, err := store.Create(context.Background(), models.Job{
			Company:     j.company,
			Role:        "Engineer",
			DateApplied: models.MustParseDate(j.date),
			Platform:    j.platform,
			Interviewed: interviewed,
			Status:      j.status,
		})
		require.NoError(t, err)
	}
	return store
}

func names(jobs []models.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Company
	}
	return out
}

func TestHandler_Execute(t *testing.T) {
	handler := NewHandler(&Config{Timeout: time.Second}, seedStore(t), observability.NewNoop(), logger.NewTestLogger(t))

	tests := []struct {
		name   string
		filter map[string]interface{}
		want   []string
	}{
		{name: "no filter", filter: nil, want: []string{"Globex", "Acme", "Initech"}},
		{name: "platform", filter: map[string]interface{}{"platform": "LinkedIn"}, want: []string{"Acme", "Initech"}},
		{name: "date range", filter: map[string]interface{}{"applied_from": "2024-01-01", "applied_to": "2024-01-10"}, want: []string{"Acme"}},
		{name: "limit", filter: map[string]interface{}{"limit": 1}, want: []string{"Globex"}},
		{name: "nothing matches", filter: map[string]interface{}{"status": "offer"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Filter: tt.filter})
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(output.Jobs))
			assert.Equal(t, len(tt.want), output.Count)
			assert.NotNil(t, output.Jobs)
		})
	}
}

func TestHandler_Execute_CapsResults(t *testing.T) {
	handler := NewHandler(&Config{MaxResults: 2}, seedStore(t), nil, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{Filter: map[string]interface{}{"limit": 10}})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Count)
}

func TestHandler_Execute_InvalidFilter(t *testing.T) {
	handler := NewHandler(&Config{}, seedStore(t), nil, logger.NewNoOpLogger())

	tests := []map[string]interface{}{
		{"applied_from": "2024-02-01", "applied_to": "2024-01-01"},
		{"limit": -1},
		{"applied_from": "yesterday"},
		{"company": "Acme"},
	}
	for _, filter := range tests {
		_, err := handler.Execute(context.Background(), &Input{Filter: filter})
		assert.ErrorIs(t, err, jobstore.ErrValidation, "filter %v", filter)
	}
}
