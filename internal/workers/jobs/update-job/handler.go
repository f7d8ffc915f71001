// internal/workers/jobs/update-job/handler.go
package updatejob

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
	TaskType = "update-job"
)

type Handler struct {
	store  jobstore.Store
	runner jobs.Runner
	logger logger.Logger
}

func NewHandler(config *Config, store jobstore.Store, obs *observability.Observability, log logger.Logger) *Handler {
	runner := jobs.NewRunner(TaskType, "update", config.Timeout, obs, log)
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

	var patch models.JobPatch
	if err := jobs.Decode(validation.JobPatch, input.Patch, &patch); err != nil {
		return nil, err
	}

	record, err := h.store.Update(ctx, input.JobID, patch)
	if err != nil {
		return nil, err
	}

	h.logger.Info("job record updated", map[string]interface{}{
		"jobId":         record.ID,
		"status":        record.Status,
		"numInterviews": record.NumInterviews,
		"emptyPatch":    patch.IsEmpty(),
	})
	return &Output{Job: record}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
