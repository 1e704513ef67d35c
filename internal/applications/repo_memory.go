package applications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"jobs-backend/internal/jobs"
	"jobs-backend/internal/profiles"
)

// MemoryRepo keeps the ledger in process. Creates run inside the catalog's WithJob so the
// posting cannot be deleted between the checks and the insert; lock order is catalog then ledger.
type MemoryRepo struct {
	mu       sync.RWMutex
	apps     map[int64]Application
	nextID   int64
	now      func() time.Time
	profiles profiles.Repo
	catalog  *jobs.MemoryRepo
}

func NewMemoryRepo(profileRepo profiles.Repo, catalog *jobs.MemoryRepo) *MemoryRepo {
	return &MemoryRepo{
		apps:     make(map[int64]Application),
		now:      time.Now,
		profiles: profileRepo,
		catalog:  catalog,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) (Application, error) {
	if _, err := r.profiles.GetByID(ctx, app.UserID); err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return Application{}, ErrProfileRequired
		}
		return Application{}, err
	}
	var created Application
	err := r.catalog.WithJob(ctx, app.JobID, func(job jobs.Job) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		// An existing application wins over the job's current state.
		for _, existing := range r.apps {
			if existing.UserID == app.UserID && existing.JobID == app.JobID {
				return ErrAlreadyApplied
			}
		}
		if !job.Active {
			return ErrJobInactive
		}
		for _, existing := range r.apps {
			if existing.PublicID == app.PublicID {
				return ErrPublicIDTaken
			}
		}
		r.nextID++
		app.ID = r.nextID
		if app.Status == "" {
			app.Status = StatusPending
		}
		app.AppliedAt = r.now().UTC()
		r.apps[app.ID] = app
		created = app
		return nil
	})
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return Application{}, ErrJobNotFound
		}
		return Application{}, err
	}
	return created, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return ErrApplicationNotFound
	}
	app.Status = status
	r.apps[id] = app
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[id]
	if !ok {
		return Application{}, ErrApplicationNotFound
	}
	return app, nil
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Application, 0, len(r.apps))
	for _, app := range r.apps {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.JobID != 0 && app.JobID != filter.JobID {
			continue
		}
		if filter.UserID != 0 && app.UserID != filter.UserID {
			continue
		}
		out = append(out, app)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppliedAt.Equal(out[j].AppliedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MemoryRepo) Counts(ctx context.Context) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := Counts{Total: len(r.apps)}
	for _, app := range r.apps {
		if app.Status == StatusPending {
			c.Pending++
		}
	}
	return c, nil
}

func (r *MemoryRepo) CountByJob(ctx context.Context) (map[int64]int, error) {
	return r.countBy(ctx, func(app Application) int64 { return app.JobID })
}

func (r *MemoryRepo) CountByUser(ctx context.Context) (map[int64]int, error) {
	return r.countBy(ctx, func(app Application) int64 { return app.UserID })
}

// CountForJob is called by the catalog while it holds its write lock.
func (r *MemoryRepo) CountForJob(ctx context.Context, jobID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, app := range r.apps {
		if app.JobID == jobID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) countBy(ctx context.Context, key func(Application) int64) (map[int64]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]int)
	for _, app := range r.apps {
		out[key(app)]++
	}
	return out, nil
}
