package jobstore

import (
	"fmt"
	"sync"
	"time"

	"job-tracker/internal/models"
)

func sampleJob() models.Job {
	return models.Job{
		Company:     "Acme",
		Role:        "Engineer",
		DateApplied: models.MustParseDate("2024-01-10"),
		Platform:    "LinkedIn",
		Status:      "applied",
	}
}

func ptr[T any](v T) *T { return &v }

// stepClock returns start, start+step, start+2*step, ...
type stepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{next: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), step: time.Second}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// sequentialIDs yields job-1, job-2, ...
func sequentialIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("job-%d", n)
	}
}
