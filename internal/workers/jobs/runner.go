// Package jobs holds what the job-record workers share: variable decoding
// against the job schemas and the Handle loop around each worker's execute.
package jobs

import (
	"context"
	"encoding/json"
	"time"

	"job-tracker/internal/common/errors"
	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/metrics"
	"job-tracker/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const DefaultTimeout = 30 * time.Second

// Runner carries what every worker needs to process one activated job.
type Runner struct {
	TaskType      string
	Operation     string
	Timeout       time.Duration
	Logger        logger.Logger
	Errors        *errors.ErrorHandler
	Observability *observability.Observability
}

func NewRunner(taskType, operation string, timeout time.Duration, obs *observability.Observability, log logger.Logger) Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if obs == nil {
		obs = observability.NewNoop()
	}
	log = log.WithFields(map[string]interface{}{"taskType": taskType})
	return Runner{
		TaskType:      taskType,
		Operation:     operation,
		Timeout:       timeout,
		Logger:        log,
		Errors:        errors.NewErrorHandler(log),
		Observability: obs,
	}
}

// Run decodes the job variables into I, calls execute under the runner's
// timeout and completes the job with its output, or hands the error to the
// ErrorHandler.
func Run[I any, O any](r Runner, client worker.JobClient, job entities.Job, execute func(context.Context, *I) (*O, error)) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()

	r.Logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	var input I
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		r.fail(ctx, client, job, start, errors.NewParseError(err))
		return
	}

	output, err := execute(ctx, &input)
	if err != nil {
		r.fail(ctx, client, job, start, errors.FromStoreError(r.Operation, err))
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.Logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		r.fail(ctx, client, job, start, errors.NewParseError(err))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		r.Logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(r.TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.TaskType).Observe(time.Since(start).Seconds())
	r.Observability.RecordJobProcessed(ctx, r.TaskType, "completed")
	r.Observability.RecordJobDuration(ctx, r.TaskType, time.Since(start))

	r.Logger.Info("job completed successfully", map[string]interface{}{"jobKey": job.Key})
}

func (r Runner) fail(ctx context.Context, client worker.JobClient, job entities.Job, start time.Time, stdErr *errors.StandardError) {
	metrics.WorkerJobsFailed.WithLabelValues(r.TaskType, string(stdErr.Code)).Inc()
	r.Observability.RecordJobProcessed(ctx, r.TaskType, "failed")
	r.Observability.RecordJobDuration(ctx, r.TaskType, time.Since(start))
	r.Errors.HandleJobError(ctx, client, job, stdErr)
}
