// internal/workers/jobs/get-job/handler.go
package getjob

import (
	"context"

	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/observability"
	"job-tracker/internal/jobstore"
	"job-tracker/internal/workers/jobs"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "get-job"
)

type Handler struct {
	store  jobstore.Store
	runner jobs.Runner
	logger logger.Logger
}

func NewHandler(config *Config, store jobstore.Store, obs *observability.Observability, log logger.Logger) *Handler {
	runner := jobs.NewRunner(TaskType, "get", config.Timeout, obs, log)
	return &Handler{
		store:  store,
		runner: runner,
		logger: runner.Logger,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	jobs.Run(h.runner, client, job, h.execute)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := jobs.RequireID("jobId", input.JobID); err != nil {
		return nil, err
	}

	record, err := h.store.Get(ctx, input.JobID)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("job record loaded", map[string]interface{}{"jobId": record.ID})
	return &Output{Job: record}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
