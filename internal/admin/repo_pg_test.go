package admin

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO admins (username, password_hash)")).
		WithArgs("root", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "admins_username_key"})

	repo := &PGRepo{DB: db}
	_, err = repo.Create(context.Background(), Admin{Username: "root", PasswordHash: "hash"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("SELECT id, username, password_hash, created_at")
	mock.ExpectQuery(query).WithArgs("root").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(int64(1), "root", "hash", created))
	mock.ExpectQuery(query).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	got, err := repo.GetByUsername(context.Background(), "root")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != 1 || got.PasswordHash != "hash" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected admin %+v", got)
	}
	if _, err := repo.GetByUsername(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM admins")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := (&PGRepo{DB: db}).Count(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("expected 2, got %d (%v)", n, err)
	}
}
