// internal/workers/jobs/get-job/models.go
package getjob

import "job-tracker/internal/models"

type Input struct {
	JobID string `json:"jobId"`
}

type Output struct {
	Job models.Job `json:"job"`
}
