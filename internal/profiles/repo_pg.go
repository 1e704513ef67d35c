package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type PGRepo struct {
	DB *sql.DB
}

const profileColumns = `user_id, username, full_name, email, phone, experience, skills,
       resume_kind, resume_text, resume_file_ref, created_at, updated_at`

func (r *PGRepo) Upsert(ctx context.Context, profile Profile) (Profile, error) {
	const query = `
INSERT INTO users (user_id, username, full_name, email, phone, experience, skills,
                   resume_kind, resume_text, resume_file_ref, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  username = EXCLUDED.username,
  full_name = EXCLUDED.full_name,
  email = EXCLUDED.email,
  phone = EXCLUDED.phone,
  experience = EXCLUDED.experience,
  skills = EXCLUDED.skills,
  resume_kind = EXCLUDED.resume_kind,
  resume_text = EXCLUDED.resume_text,
  resume_file_ref = EXCLUDED.resume_file_ref,
  updated_at = now()
RETURNING created_at, updated_at`
	var fileRef any
	if ref, ok := profile.Resume.FileRef(); ok {
		fileRef = ref
	}
	err := r.DB.QueryRowContext(ctx, query,
		profile.UserID,
		nullableString(profile.Username),
		profile.FullName,
		profile.Email,
		profile.Phone,
		profile.Experience,
		profile.Skills,
		string(profile.Resume.Kind()),
		profile.Resume.Text(),
		fileRef,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID int64) (Profile, error) {
	query := `SELECT ` + profileColumns + `
FROM users
WHERE user_id = $1
LIMIT 1`
	profile, err := scanProfile(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return profile, nil
}

func (r *PGRepo) GetMany(ctx context.Context, userIDs []int64) (map[int64]Profile, error) {
	out := make(map[int64]Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(userIDs))
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT ` + profileColumns + `
FROM users
WHERE user_id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out[profile.UserID] = profile
	}
	return out, rows.Err()
}

func (r *PGRepo) List(ctx context.Context, search string) ([]Profile, error) {
	query := `SELECT ` + profileColumns + `
FROM users
WHERE ($1 = '' OR full_name ILIKE $2 OR username ILIKE $2 OR email ILIKE $2)
ORDER BY created_at DESC`
	search = strings.TrimSpace(search)
	rows, err := r.DB.QueryContext(ctx, query, search, "%"+search+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, profile)
	}
	return out, rows.Err()
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	var username sql.NullString
	var kind string
	var text string
	var fileRef sql.NullString
	if err := row.Scan(
		&p.UserID,
		&username,
		&p.FullName,
		&p.Email,
		&p.Phone,
		&p.Experience,
		&p.Skills,
		&kind,
		&text,
		&fileRef,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return Profile{}, err
	}
	if username.Valid {
		p.Username = username.String
	}
	switch ResumeKind(kind) {
	case ResumeKindFile:
		if !fileRef.Valid {
			return Profile{}, fmt.Errorf("%w: user %d has file resume without reference", ErrInvalidProfile, p.UserID)
		}
		p.Resume = FileResume(fileRef.String, text)
	default:
		p.Resume = TextResume(text)
	}
	return p, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
