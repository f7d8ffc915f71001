// internal/workers/jobs/delete-job/handler.go
package deletejob

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
	TaskType = "delete-job"
)

type Handler struct {
	store  jobstore.Store
	runner jobs.Runner
	logger logger.Logger
}

func NewHandler(config *Config, store jobstore.Store, obs *observability.Observability, log logger.Logger) *Handler {
	runner := jobs.NewRunner(TaskType, "delete", config.Timeout, obs, log)
	return &Handler{
		store:  store,
		runner: runner,
		logger: runner.Logger,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	jobs.Run(h.runner, client, job, h.execute)
}

// execute fails with JOB_NOT_FOUND for an unknown id, including one this
// worker already deleted.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := jobs.RequireID("jobId", input.JobID); err != nil {
		return nil, err
	}

	if err := h.store.Delete(ctx, input.JobID); err != nil {
		return nil, err
	}

	h.logger.Info("job record deleted", map[string]interface{}{"jobId": input.JobID})
	return &Output{JobID: input.JobID, Deleted: true}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
