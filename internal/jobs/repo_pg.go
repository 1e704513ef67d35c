package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jobs-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, title, description, requirements, location, salary, is_active, created_at`

func (r *PGRepo) Create(ctx context.Context, job Job) (Job, error) {
	const query = `
INSERT INTO jobs (title, description, requirements, location, salary, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		job.Title,
		nullableString(job.Description),
		nullableString(job.Requirements),
		nullableString(job.Location),
		nullableString(job.Salary),
		job.Active,
	).Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) Update(ctx context.Context, job Job) (Job, error) {
	const query = `
UPDATE jobs
SET title = $1, description = $2, requirements = $3, location = $4, salary = $5, is_active = $6
WHERE id = $7
RETURNING created_at`
	err := r.DB.QueryRowContext(ctx, query,
		job.Title,
		nullableString(job.Description),
		nullableString(job.Requirements),
		nullableString(job.Location),
		nullableString(job.Salary),
		job.Active,
		job.ID,
	).Scan(&job.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) GetMany(ctx context.Context, ids []int64) (map[int64]Job, error) {
	out := make(map[int64]Job, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out[job.ID] = job
	}
	return out, rows.Err()
}

func (r *PGRepo) List(ctx context.Context, filter Filter) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	var args []any
	switch filter.Status {
	case StatusActive:
		query += ` AND is_active = TRUE`
	case StatusInactive:
		query += ` AND is_active = FALSE`
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		query += ` AND (title ILIKE $1 OR description ILIKE $1 OR location ILIKE $1)`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM jobs`,
	).Scan(&c.Total, &c.Active)
	return c, err
}

// DeleteOrDeactivate locks the job row, so a concurrent apply (which takes FOR SHARE on it)
// either commits before the count or waits until the decision is made.
func (r *PGRepo) DeleteOrDeactivate(ctx context.Context, id int64) (Outcome, error) {
	var outcome Outcome
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var locked int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM jobs WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications WHERE job_id = $1`, id).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			if _, err := tx.ExecContext(ctx, `UPDATE jobs SET is_active = FALSE WHERE id = $1`, id); err != nil {
				return err
			}
			outcome = OutcomeDeactivated
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id); err != nil {
			return err
		}
		outcome = OutcomeDeleted
		return nil
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var description, requirements, location, salary sql.NullString
	if err := row.Scan(
		&job.ID,
		&job.Title,
		&description,
		&requirements,
		&location,
		&salary,
		&job.Active,
		&job.CreatedAt,
	); err != nil {
		return Job{}, err
	}
	job.Description = description.String
	job.Requirements = requirements.String
	job.Location = location.String
	job.Salary = salary.String
	return job, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
