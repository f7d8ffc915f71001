// internal/workers/jobs/update-job/models.go
package updatejob

import "job-tracker/internal/models"

type Input struct {
	JobID string                 `json:"jobId"`
	Patch map[string]interface{} `json:"patch"`
}

type Output struct {
	Job models.Job `json:"job"`
}
