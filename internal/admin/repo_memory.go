package admin

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	admins map[string]Admin
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{admins: make(map[string]Admin)}
}

func (r *MemoryRepo) Create(ctx context.Context, admin Admin) (Admin, error) {
	if err := ctx.Err(); err != nil {
		return Admin{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[admin.Username]; ok {
		return Admin{}, ErrUsernameTaken
	}
	r.nextID++
	admin.ID = r.nextID
	admin.CreatedAt = time.Now().UTC()
	r.admins[admin.Username] = admin
	return admin, nil
}

func (r *MemoryRepo) GetByUsername(ctx context.Context, username string) (Admin, error) {
	if err := ctx.Err(); err != nil {
		return Admin{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.admins[username]
	if !ok {
		return Admin{}, ErrNotFound
	}
	return admin, nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.admins), nil
}
