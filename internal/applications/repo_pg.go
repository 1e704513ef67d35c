package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"jobs-backend/internal/shared/storage/db"
)

const (
	uniqueViolation       = "23505"
	publicIDConstraint    = "applications_public_id_key"
	userJobUniqConstraint = "applications_user_job_key"
)

type PGRepo struct {
	DB *sql.DB
}

// Create locks the applicant row (serializing one user's concurrent applies) and share-locks
// the job row (blocking a concurrent delete-or-deactivate) before the dedup check and insert. An existing
// application is reported even when the job has since been deactivated.
func (r *PGRepo) Create(ctx context.Context, app Application) (Application, error) {
	if app.Status == "" {
		app.Status = StatusPending
	}
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var userID int64
		err := tx.QueryRowContext(ctx, `SELECT user_id FROM users WHERE user_id = $1 FOR UPDATE`, app.UserID).Scan(&userID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProfileRequired
		}
		if err != nil {
			return err
		}

		var active bool
		err = tx.QueryRowContext(ctx, `SELECT is_active FROM jobs WHERE id = $1 FOR SHARE`, app.JobID).Scan(&active)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrJobNotFound
		}
		if err != nil {
			return err
		}

		var existing int64
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM applications WHERE user_id = $1 AND job_id = $2`,
			app.UserID, app.JobID,
		).Scan(&existing)
		if err == nil {
			return ErrAlreadyApplied
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if !active {
			return ErrJobInactive
		}

		const insert = `
INSERT INTO applications (public_id, user_id, job_id, status)
VALUES ($1, $2, $3, $4)
RETURNING id, applied_at`
		err = tx.QueryRowContext(ctx, insert, app.PublicID, app.UserID, app.JobID, string(app.Status)).
			Scan(&app.ID, &app.AppliedAt)
		return mapUniqueViolation(err)
	})
	if err != nil {
		return Application{}, err
	}
	return app, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case publicIDConstraint:
			return ErrPublicIDTaken
		case userJobUniqConstraint:
			return ErrAlreadyApplied
		}
	}
	return err
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE applications SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

const applicationColumns = `id, public_id, user_id, job_id, status, applied_at`

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Application, error) {
	var app Application
	var status string
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id,
	).Scan(&app.ID, &app.PublicID, &app.UserID, &app.JobID, &status, &app.AppliedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrApplicationNotFound
		}
		return Application{}, err
	}
	app.Status = Status(status)
	return app, nil
}

func (r *PGRepo) List(ctx context.Context, filter Filter) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	if filter.JobID != 0 {
		query += ` AND job_id = ` + arg(filter.JobID)
	}
	if filter.UserID != 0 {
		query += ` AND user_id = ` + arg(filter.UserID)
	}
	query += ` ORDER BY applied_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Application
	for rows.Next() {
		var app Application
		var status string
		if err := rows.Scan(&app.ID, &app.PublicID, &app.UserID, &app.JobID, &status, &app.AppliedAt); err != nil {
			return nil, err
		}
		app.Status = Status(status)
		out = append(out, app)
	}
	return out, rows.Err()
}

func (r *PGRepo) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'pending') FROM applications`,
	).Scan(&c.Total, &c.Pending)
	return c, err
}

func (r *PGRepo) CountByJob(ctx context.Context) (map[int64]int, error) {
	return r.countGrouped(ctx, `SELECT job_id, COUNT(*) FROM applications GROUP BY job_id`)
}

func (r *PGRepo) CountByUser(ctx context.Context) (map[int64]int, error) {
	return r.countGrouped(ctx, `SELECT user_id, COUNT(*) FROM applications GROUP BY user_id`)
}

func (r *PGRepo) CountForJob(ctx context.Context, jobID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications WHERE job_id = $1`, jobID).Scan(&n)
	return n, err
}

func (r *PGRepo) countGrouped(ctx context.Context, query string) (map[int64]int, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]int)
	for rows.Next() {
		var key int64
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}
