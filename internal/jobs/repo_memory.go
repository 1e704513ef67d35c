package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	jobs    map[int64]Job
	nextID  int64
	now     func() time.Time
	counter ApplicationCounter
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[int64]Job), now: time.Now}
}

// SetCounter wires the application ledger. Without one every job counts as unreferenced.
func (r *MemoryRepo) SetCounter(counter ApplicationCounter) {
	r.mu.Lock()
	r.counter = counter
	r.mu.Unlock()
}

// WithJob runs fn while holding the catalog read lock, so the job cannot be deleted
// or deactivated until fn returns. fn must not call back into the repo.
func (r *MemoryRepo) WithJob(ctx context.Context, id int64, fn func(Job) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	return fn(job)
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	job.ID = r.nextID
	job.CreatedAt = r.now().UTC()
	r.jobs[job.ID] = job
	return job, nil
}

func (r *MemoryRepo) Update(ctx context.Context, job Job) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.jobs[job.ID]
	if !ok {
		return Job{}, ErrNotFound
	}
	job.CreatedAt = existing.CreatedAt
	r.jobs[job.ID] = job
	return job, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (r *MemoryRepo) GetMany(ctx context.Context, ids []int64) (map[int64]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]Job, len(ids))
	for _, id := range ids {
		if job, ok := r.jobs[id]; ok {
			out[id] = job
		}
	}
	return out, nil
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		if filter.matches(job) {
			out = append(out, job)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Counts(ctx context.Context) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := Counts{Total: len(r.jobs)}
	for _, job := range r.jobs {
		if job.Active {
			counts.Active++
		}
	}
	return counts, nil
}

// DeleteOrDeactivate holds the catalog write lock across the count and the mutation.
// Applications are created under WithJob, so none can slip in between.
func (r *MemoryRepo) DeleteOrDeactivate(ctx context.Context, id int64) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return "", ErrNotFound
	}
	n := 0
	if r.counter != nil {
		var err error
		n, err = r.counter.CountForJob(ctx, id)
		if err != nil {
			return "", err
		}
	}
	if n > 0 {
		job.Active = false
		r.jobs[id] = job
		return OutcomeDeactivated, nil
	}
	delete(r.jobs, id)
	return OutcomeDeleted, nil
}
