// internal/workers/jobs/list-jobs/handler.go
package listjobs

import (
	"context"

	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/observability"
	"job-tracker/internal/common/validation"
	"job-tracker/internal/jobstore"
	"job-tracker/internal/models"
	"job-tracker/internal/workers/jobs"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "list-jobs"
)

type Handler struct {
	store      jobstore.Store
	maxResults int
	runner     jobs.Runner
	logger     logger.Logger
}

func NewHandler(config *Config, store jobstore.Store, obs *observability.Observability, log logger.Logger) *Handler {
	runner := jobs.NewRunner(TaskType, "list", config.Timeout, obs, log)
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Handler{
		store:      store,
		maxResults: maxResults,
		runner:     runner,
		logger:     runner.Logger,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	jobs.Run(h.runner, client, job, h.execute)
}

// execute caps the listing at maxResults; a filter limit above the cap is
// lowered to it.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var filter models.JobFilter
	if err := jobs.Decode(validation.JobFilter, input.Filter, &filter); err != nil {
		return nil, err
	}
	if filter.Limit == 0 || filter.Limit > h.maxResults {
		filter.Limit = h.maxResults
	}

	records, err := jobstore.Collect(h.store.List(ctx, filter))
	if err != nil {
		return nil, err
	}

	h.logger.Debug("job records listed", map[string]interface{}{
		"count":    len(records),
		"status":   filter.Status,
		"platform": filter.Platform,
	})
	return &Output{Jobs: records, Count: len(records)}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
