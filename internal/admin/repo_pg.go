package admin

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, admin Admin) (Admin, error) {
	const query = `
INSERT INTO admins (username, password_hash)
VALUES ($1, $2)
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, admin.Username, admin.PasswordHash).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Admin{}, ErrUsernameTaken
		}
		return Admin{}, err
	}
	return admin, nil
}

func (r *PGRepo) GetByUsername(ctx context.Context, username string) (Admin, error) {
	const query = `
SELECT id, username, password_hash, created_at
FROM admins
WHERE username = $1
LIMIT 1`
	var admin Admin
	err := r.DB.QueryRowContext(ctx, query, username).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Admin{}, ErrNotFound
		}
		return Admin{}, err
	}
	return admin, nil
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
