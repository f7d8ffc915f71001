// internal/workers/jobs/create-job/handler.go
package createjob

import (
	"context"
	"time"

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
	TaskType = "create-job"
)

type Handler struct {
	store  jobstore.Store
	runner jobs.Runner
	logger logger.Logger
}

func NewHandler(config *Config, store jobstore.Store, obs *observability.Observability, log logger.Logger) *Handler {
	runner := jobs.NewRunner(TaskType, "create", config.Timeout, obs, log)
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
	var record models.Job
	if err := jobs.Decode(validation.JobDocument, input.Job, &record); err != nil {
		return nil, err
	}

	id, err := h.store.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	// The record exists from here on; a failed read-back must not make the
	// engine retry the create.
	createdAt := time.Now().UTC()
	if created, err := h.store.Get(ctx, id); err == nil {
		createdAt = created.CreatedAt
	} else {
		h.logger.Warn("read-back after create failed", map[string]interface{}{
			"jobId": id,
			"error": err,
		})
	}

	h.logger.Info("job record created", map[string]interface{}{
		"jobId":    id,
		"company":  record.Company,
		"platform": record.Platform,
		"status":   record.Status,
	})

	return &Output{
		JobID:     id,
		CreatedAt: createdAt.Format(time.RFC3339),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
