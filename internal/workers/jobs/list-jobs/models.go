// internal/workers/jobs/list-jobs/models.go
package listjobs

import "job-tracker/internal/models"

type Input struct {
	Filter map[string]interface{} `json:"filter"`
}

type Output struct {
	Jobs  []models.Job `json:"jobs"`
	Count int          `json:"count"`
}
