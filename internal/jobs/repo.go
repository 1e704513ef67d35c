package jobs

import "context"

type Repo interface {
	Create(ctx context.Context, job Job) (Job, error)
	Update(ctx context.Context, job Job) (Job, error)
	GetByID(ctx context.Context, id int64) (Job, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]Job, error)
	List(ctx context.Context, filter Filter) ([]Job, error)
	Counts(ctx context.Context) (Counts, error)
	// DeleteOrDeactivate counts applications and decides the destructive path atomically.
	DeleteOrDeactivate(ctx context.Context, id int64) (Outcome, error)
}

// ApplicationCounter lets the in-memory catalog see the ledger when deciding delete vs deactivate.
type ApplicationCounter interface {
	CountForJob(ctx context.Context, jobID int64) (int, error)
}
