package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func expectLocks(mock sqlmock.Sqlmock, userID, jobID int64, active bool) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT user_id FROM users WHERE user_id = \$1 FOR UPDATE`).WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(userID))
	mock.ExpectQuery(`SELECT is_active FROM jobs WHERE id = \$1 FOR SHARE`).WithArgs(jobID).
		WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(active))
}

func TestPGRepoCreateInsertsInsideTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	appliedAt := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	expectLocks(mock, 42, 1, true)
	mock.ExpectQuery(`SELECT id FROM applications WHERE user_id = \$1 AND job_id = \$2`).WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO applications`).WithArgs("ABCD1234", int64(42), int64(1), "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "applied_at"}).AddRow(int64(7), appliedAt))
	mock.ExpectCommit()

	app, err := repo.Create(context.Background(), Application{PublicID: "ABCD1234", UserID: 42, JobID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if app.ID != 7 || !app.AppliedAt.Equal(appliedAt) || app.Status != StatusPending {
		t.Fatalf("unexpected application: %+v", app)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateWithoutProfile(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users`).WithArgs(int64(42)).WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), Application{PublicID: "X", UserID: 42, JobID: 1})
	if !errors.Is(err, ErrProfileRequired) {
		t.Fatalf("expected ErrProfileRequired, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateInactiveJob(t *testing.T) {
	repo, mock := newMockRepo(t)
	expectLocks(mock, 42, 1, false)
	mock.ExpectQuery(`SELECT id FROM applications`).WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), Application{PublicID: "X", UserID: 42, JobID: 1})
	if !errors.Is(err, ErrJobInactive) {
		t.Fatalf("expected ErrJobInactive, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateExistingRowOnInactiveJob(t *testing.T) {
	repo, mock := newMockRepo(t)
	expectLocks(mock, 42, 1, false)
	mock.ExpectQuery(`SELECT id FROM applications`).WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), Application{PublicID: "X", UserID: 42, JobID: 1})
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateDetectsExistingRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	expectLocks(mock, 42, 1, true)
	mock.ExpectQuery(`SELECT id FROM applications`).WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), Application{PublicID: "X", UserID: 42, JobID: 1})
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolations(t *testing.T) {
	cases := []struct {
		constraint string
		want       error
	}{
		{publicIDConstraint, ErrPublicIDTaken},
		{userJobUniqConstraint, ErrAlreadyApplied},
	}
	for _, tc := range cases {
		repo, mock := newMockRepo(t)
		expectLocks(mock, 42, 1, true)
		mock.ExpectQuery(`SELECT id FROM applications`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`INSERT INTO applications`).
			WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: tc.constraint})
		mock.ExpectRollback()

		_, err := repo.Create(context.Background(), Application{PublicID: "X", UserID: 42, JobID: 1})
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.constraint, tc.want, err)
		}
	}
}

func TestPGRepoUpdateStatusMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`UPDATE applications SET status`).WithArgs("accepted", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(context.Background(), 9, StatusAccepted); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestPGRepoListBuildsFilters(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	mock.ExpectQuery(`status = \$1 AND job_id = \$2 ORDER BY applied_at DESC, id DESC LIMIT \$3`).
		WithArgs("pending", int64(3), 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "public_id", "user_id", "job_id", "status", "applied_at"}).
			AddRow(int64(1), "ABCD1234", int64(42), int64(3), "pending", now))

	list, err := repo.List(context.Background(), Filter{Status: StatusPending, JobID: 3, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Status != StatusPending {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestPGRepoCountByJob(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`GROUP BY job_id`).
		WillReturnRows(sqlmock.NewRows([]string{"job_id", "count"}).AddRow(int64(1), 3).AddRow(int64(2), 1))

	counts, err := repo.CountByJob(context.Background())
	if err != nil {
		t.Fatalf("CountByJob: %v", err)
	}
	if counts[1] != 3 || counts[2] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
