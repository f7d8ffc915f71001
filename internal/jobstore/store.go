// Package jobstore owns job-application records: it validates them, assigns
// identifiers and answers create/get/list/update/delete against one of
// several backends.
package jobstore

import (
	"context"
	"iter"

	"job-tracker/internal/models"
)

// Store is the record boundary. Records handed out are copies; mutating them
// does not affect stored state.
type Store interface {
	// Create validates job, assigns a fresh id and timestamps, and persists it.
	// Any id on the input is ignored.
	Create(ctx context.Context, job models.Job) (string, error)

	Get(ctx context.Context, id string) (models.Job, error)

	// List yields matching records newest application first. Nothing is read
	// until iteration starts, and every range re-reads current state.
	List(ctx context.Context, filter models.JobFilter) iter.Seq2[models.Job, error]

	// Update merges patch into the stored record, re-validates the result
	// and persists it.
	Update(ctx context.Context, id string, patch models.JobPatch) (models.Job, error)

	Delete(ctx context.Context, id string) error

	Close() error
}

// Collect drains a List sequence, stopping at the first error.
func Collect(seq iter.Seq2[models.Job, error]) ([]models.Job, error) {
	jobs := []models.Job{}
	for job, err := range seq {
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// errSeq yields a single error.
func errSeq(err error) iter.Seq2[models.Job, error] {
	return func(yield func(models.Job, error) bool) {
		yield(models.Job{}, err)
	}
}

// sliceSeq yields jobs in order, honouring ctx between items.
func sliceSeq(ctx context.Context, jobs []models.Job) iter.Seq2[models.Job, error] {
	return func(yield func(models.Job, error) bool) {
		for _, job := range jobs {
			if err := ctx.Err(); err != nil {
				yield(models.Job{}, err)
				return
			}
			if !yield(job, nil) {
				return
			}
		}
	}
}
