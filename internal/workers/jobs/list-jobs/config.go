// internal/workers/jobs/list-jobs/config.go
package listjobs

import (
	"time"

	"job-tracker/internal/common/config"
)

// DefaultMaxResults keeps the completed job's variables well under the
// broker's message size limit.
const DefaultMaxResults = 500

type Config struct {
	Timeout    time.Duration
	MaxResults int
}

func LoadConfig(wc config.WorkerConfig) *Config {
	return &Config{
		Timeout:    config.GetDuration(wc.Timeout),
		MaxResults: DefaultMaxResults,
	}
}
