// internal/workers/jobs/create-job/models.go
package createjob

type Input struct {
	Job map[string]interface{} `json:"job"`
}

type Output struct {
	JobID     string `json:"jobId"`
	CreatedAt string `json:"createdAt"` // ISO 8601
}
