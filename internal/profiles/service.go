package profiles

import (
	"context"
	"errors"
	"strings"

	"jobs-backend/internal/shared/telemetry"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Save validates a complete profile and commits it as a single upsert.
func (s *Service) Save(ctx context.Context, profile Profile) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	profile.FullName = strings.TrimSpace(profile.FullName)
	profile.Email = strings.TrimSpace(profile.Email)
	profile.Username = strings.TrimSpace(profile.Username)
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	saved, err := s.Repo.Upsert(ctx, profile)
	if err != nil {
		return Profile{}, err
	}
	telemetry.Info("profile.saved", map[string]any{
		"user_id":     saved.UserID,
		"resume_kind": string(saved.Resume.Kind()),
	})
	return saved, nil
}

func (s *Service) Get(ctx context.Context, userID int64) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	return s.Repo.GetByID(ctx, userID)
}

// Exists reports whether a profile has been committed for the user.
func (s *Service) Exists(ctx context.Context, userID int64) (bool, error) {
	_, err := s.Get(ctx, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (s *Service) GetMany(ctx context.Context, userIDs []int64) (map[int64]Profile, error) {
	return s.Repo.GetMany(ctx, userIDs)
}

func (s *Service) List(ctx context.Context, search string) ([]Profile, error) {
	return s.Repo.List(ctx, search)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.Repo.Count(ctx)
}
