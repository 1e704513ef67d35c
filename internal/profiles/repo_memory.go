package profiles

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[int64]Profile
	now      func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[int64]Profile), now: time.Now}
}

func (r *MemoryRepo) Upsert(ctx context.Context, profile Profile) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	if existing, ok := r.profiles[profile.UserID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	r.profiles[profile.UserID] = profile
	return profile, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID int64) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return profile, nil
}

func (r *MemoryRepo) GetMany(ctx context.Context, userIDs []int64) (map[int64]Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]Profile, len(userIDs))
	for _, id := range userIDs {
		if profile, ok := r.profiles[id]; ok {
			out[id] = profile
		}
	}
	return out, nil
}

func (r *MemoryRepo) List(ctx context.Context, search string) ([]Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(search))
	r.mu.RLock()
	out := make([]Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		if needle != "" && !matchesSearch(profile, needle) {
			continue
		}
		out = append(out, profile)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].UserID > out[j].UserID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles), nil
}

// MatchesSearch reports whether the lower-cased needle occurs in the profile's name, username or email.
func MatchesSearch(profile Profile, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	return matchesSearch(profile, needle)
}

func matchesSearch(profile Profile, needle string) bool {
	return strings.Contains(strings.ToLower(profile.FullName), needle) ||
		strings.Contains(strings.ToLower(profile.Username), needle) ||
		strings.Contains(strings.ToLower(profile.Email), needle)
}
