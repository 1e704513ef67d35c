package applications

import "context"

type Repo interface {
	// Create checks the profile, the posting and the (user, job) pair and inserts
	// the row as one atomic step. It returns ErrProfileRequired, ErrJobNotFound,
	// ErrJobInactive, ErrAlreadyApplied or ErrPublicIDTaken without writing anything.
	Create(ctx context.Context, app Application) (Application, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	GetByID(ctx context.Context, id int64) (Application, error)
	List(ctx context.Context, filter Filter) ([]Application, error)
	Counts(ctx context.Context) (Counts, error)
	CountByJob(ctx context.Context) (map[int64]int, error)
	CountByUser(ctx context.Context) (map[int64]int, error)
	CountForJob(ctx context.Context, jobID int64) (int, error)
}
