package jobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"job-tracker/internal/common/validation"
	"job-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const jobsSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id             UUID PRIMARY KEY,
	company        TEXT NOT NULL CHECK (btrim(company) <> ''),
	role           TEXT NOT NULL CHECK (btrim(role) <> ''),
	date_applied   DATE NOT NULL,
	platform       TEXT NOT NULL CHECK (btrim(platform) <> ''),
	interviewed    BOOLEAN NOT NULL DEFAULT FALSE,
	num_interviews INTEGER NOT NULL DEFAULT 0 CHECK (num_interviews >= 0),
	status         TEXT NOT NULL CHECK (btrim(status) <> ''),
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL,
	CONSTRAINT jobs_interviews_consistent CHECK (interviewed OR num_interviews = 0)
);
CREATE INDEX IF NOT EXISTS jobs_listing_idx ON jobs (date_applied DESC, created_at DESC, id);
CREATE INDEX IF NOT EXISTS jobs_status_idx ON jobs (status);
`

const jobColumns = `id, company, role, date_applied, platform, interviewed, num_interviews, status, created_at, updated_at`

// PostgresStore keeps one row per record in the jobs table.
type PostgresStore struct {
	db   *sql.DB
	opts options
}

func NewPostgresStore(db *sql.DB, opts ...Option) *PostgresStore {
	return &PostgresStore{db: db, opts: buildOptions(opts)}
}

// Migrate creates the jobs table and its indexes if missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, jobsSchema); err != nil {
		return storeFailure("migrate", err)
	}
	return nil
}

// now truncates to the column precision so returned records equal what a
// later read yields.
func (s *PostgresStore) now() time.Time {
	return s.opts.timestamp().Truncate(time.Microsecond)
}

func (s *PostgresStore) Create(ctx context.Context, job models.Job) (string, error) {
	if err := Validate(job); err != nil {
		return "", err
	}

	job.ID = s.opts.newID()
	now := s.now()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		job.ID,
		job.Company,
		job.Role,
		job.DateApplied,
		job.Platform,
		job.Interviewed,
		job.NumInterviews,
		job.Status,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return "", mapPostgresError("create", err)
	}
	return job.ID, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (models.Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Job{}, notFound(id)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Job{}, notFound(id)
	}
	if err != nil {
		return models.Job{}, storeFailure("get", err)
	}
	return job, nil
}

// listQuery builds the filtered, ordered SELECT for List.
func listQuery(filter models.JobFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Platform != "" {
		add("platform = $%d", filter.Platform)
	}
	if !filter.AppliedFrom.IsZero() {
		add("date_applied >= $%d", filter.AppliedFrom)
	}
	if !filter.AppliedTo.IsZero() {
		add("date_applied <= $%d", filter.AppliedTo)
	}

	var b strings.Builder
	b.WriteString("SELECT " + jobColumns + " FROM jobs")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY date_applied DESC, created_at DESC, id ASC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

func (s *PostgresStore) List(ctx context.Context, filter models.JobFilter) iter.Seq2[models.Job, error] {
	return func(yield func(models.Job, error) bool) {
		if err := ValidateFilter(filter); err != nil {
			yield(models.Job{}, err)
			return
		}

		query, args := listQuery(filter)
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(models.Job{}, storeFailure("list", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			job, err := scanJob(rows)
			if err != nil {
				yield(models.Job{}, storeFailure("list", err))
				return
			}
			if !yield(job, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Job{}, storeFailure("list", err))
		}
	}
}

func (s *PostgresStore) Update(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Job{}, notFound(id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Job{}, storeFailure("update", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, id)
	existing, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Job{}, notFound(id)
	}
	if err != nil {
		return models.Job{}, storeFailure("update", err)
	}

	merged := patch.Apply(existing)
	if err := Validate(merged); err != nil {
		return models.Job{}, err
	}
	merged.UpdatedAt = s.now()
	if merged.UpdatedAt.Before(existing.UpdatedAt) {
		merged.UpdatedAt = existing.UpdatedAt
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE jobs SET
			company = $2, role = $3, date_applied = $4, platform = $5,
			interviewed = $6, num_interviews = $7, status = $8, updated_at = $9
		WHERE id = $1`,
		id,
		merged.Company,
		merged.Role,
		merged.DateApplied,
		merged.Platform,
		merged.Interviewed,
		merged.NumInterviews,
		merged.Status,
		merged.UpdatedAt,
	)
	if err != nil {
		return models.Job{}, mapPostgresError("update", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Job{}, storeFailure("update", err)
	}
	return merged, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound(id)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return storeFailure("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeFailure("delete", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// Close is a no-op; the *sql.DB belongs to the caller.
func (s *PostgresStore) Close() error { return nil }

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (models.Job, error) {
	var job models.Job
	err := row.Scan(
		&job.ID,
		&job.Company,
		&job.Role,
		&job.DateApplied,
		&job.Platform,
		&job.Interviewed,
		&job.NumInterviews,
		&job.Status,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return models.Job{}, err
	}
	job.CreatedAt = job.CreatedAt.UTC()
	job.UpdatedAt = job.UpdatedAt.UTC()
	return job, nil
}

// mapPostgresError turns CHECK violations into validation errors so a row the
// database rejects reads the same as one Validate rejects.
func mapPostgresError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23514" {
		return NewValidationError(validation.ValidationError{
			Field:   pqErr.Constraint,
			Message: pqErr.Message,
			Code:    validation.CodeInconsistent,
		})
	}
	return storeFailure(op, err)
}
