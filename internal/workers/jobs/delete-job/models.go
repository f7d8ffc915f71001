// internal/workers/jobs/delete-job/models.go
package deletejob

type Input struct {
	JobID string `json:"jobId"`
}

type Output struct {
	JobID   string `json:"jobId"`
	Deleted bool   `json:"deleted"`
}
