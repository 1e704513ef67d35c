package applications

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"jobs-backend/internal/jobs"
	"jobs-backend/internal/profiles"
	"jobs-backend/internal/shared/metrics"
	"jobs-backend/internal/shared/telemetry"
)

const (
	publicIDLength      = 8
	maxPublicIDAttempts = 5
)

type ProfileReader interface {
	GetMany(ctx context.Context, userIDs []int64) (map[int64]profiles.Profile, error)
}

type JobReader interface {
	GetMany(ctx context.Context, ids []int64) (map[int64]jobs.Job, error)
}

type Service struct {
	Repo     Repo
	Profiles ProfileReader
	Jobs     JobReader
	// NewPublicID is overridable for tests; it defaults to NewPublicID.
	NewPublicID func() string
}

func NewService(repo Repo, profileReader ProfileReader, jobReader JobReader) *Service {
	return &Service{Repo: repo, Profiles: profileReader, Jobs: jobReader, NewPublicID: NewPublicID}
}

// NewPublicID returns the first 8 hex digits of a random UUID, upper-cased.
func NewPublicID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:publicIDLength]
}

// Apply records userID's application to jobID with status pending. A public id collision
// is retried with a fresh id; every other failure is returned as-is with nothing written.
func (s *Service) Apply(ctx context.Context, userID, jobID int64) (Application, error) {
	if s == nil || s.Repo == nil {
		return Application{}, errors.New("applications service not configured")
	}
	gen := s.NewPublicID
	if gen == nil {
		gen = NewPublicID
	}
	fields := map[string]any{"user_id": userID, "job_id": jobID}

	for attempt := 1; attempt <= maxPublicIDAttempts; attempt++ {
		app, err := s.Repo.Create(ctx, Application{
			PublicID: gen(),
			UserID:   userID,
			JobID:    jobID,
			Status:   StatusPending,
		})
		if err == nil {
			fields["application_id"] = app.ID
			fields["public_id"] = app.PublicID
			telemetry.Info("application.submitted", fields)
			metrics.IncApplication("submitted")
			return app, nil
		}
		if errors.Is(err, ErrPublicIDTaken) {
			telemetry.Warn("application.public_id_collision", map[string]any{"user_id": userID, "attempt": attempt})
			continue
		}
		metrics.IncApplication(outcomeLabel(err))
		if errors.Is(err, ErrAlreadyApplied) {
			telemetry.Info("application.duplicate", fields)
		}
		return Application{}, err
	}
	metrics.IncApplication("error")
	return Application{}, ErrPublicIDTaken
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyApplied):
		return "duplicate"
	case errors.Is(err, ErrProfileRequired):
		return "profile_required"
	case errors.Is(err, ErrJobNotFound):
		return "job_not_found"
	case errors.Is(err, ErrJobInactive):
		return "job_inactive"
	default:
		return "error"
	}
}

// SetStatus validates raw before touching the ledger. Any status may follow any other.
func (s *Service) SetStatus(ctx context.Context, id int64, raw string) (Application, error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return Application{}, err
	}
	previous, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if err := s.Repo.UpdateStatus(ctx, id, status); err != nil {
		return Application{}, err
	}
	telemetry.Info("application.status_changed", map[string]any{
		"application_id": id,
		"from":           string(previous.Status),
		"to":             string(status),
	})
	metrics.IncStatusChange(string(status))
	previous.Status = status
	return previous, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Detail, error) {
	app, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	details, err := s.enrich(ctx, []Application{app})
	if err != nil {
		return Detail{}, err
	}
	return details[0], nil
}

// List returns newest-first details. The applicant search runs after enrichment,
// so Limit is applied last.
func (s *Service) List(ctx context.Context, filter Filter) ([]Detail, error) {
	search := strings.TrimSpace(filter.Search)
	limit := filter.Limit
	if search != "" {
		filter.Limit = 0
	}
	apps, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	details, err := s.enrich(ctx, apps)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return details, nil
	}
	out := make([]Detail, 0, len(details))
	for _, d := range details {
		if d.Applicant == nil || !profiles.MatchesSearch(*d.Applicant, search) {
			continue
		}
		out = append(out, d)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Detail, error) {
	return s.List(ctx, Filter{UserID: userID})
}

func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.Repo.Counts(ctx)
}

func (s *Service) CountByJob(ctx context.Context) (map[int64]int, error) {
	return s.Repo.CountByJob(ctx)
}

func (s *Service) CountByUser(ctx context.Context) (map[int64]int, error) {
	return s.Repo.CountByUser(ctx)
}

func (s *Service) enrich(ctx context.Context, apps []Application) ([]Detail, error) {
	out := make([]Detail, len(apps))
	if len(apps) == 0 {
		return out, nil
	}
	userIDs := make([]int64, 0, len(apps))
	jobIDs := make([]int64, 0, len(apps))
	seenUsers := map[int64]bool{}
	seenJobs := map[int64]bool{}
	for _, app := range apps {
		if !seenUsers[app.UserID] {
			seenUsers[app.UserID] = true
			userIDs = append(userIDs, app.UserID)
		}
		if !seenJobs[app.JobID] {
			seenJobs[app.JobID] = true
			jobIDs = append(jobIDs, app.JobID)
		}
	}

	var applicants map[int64]profiles.Profile
	if s.Profiles != nil {
		var err error
		if applicants, err = s.Profiles.GetMany(ctx, userIDs); err != nil {
			return nil, err
		}
	}
	var postings map[int64]jobs.Job
	if s.Jobs != nil {
		var err error
		if postings, err = s.Jobs.GetMany(ctx, jobIDs); err != nil {
			return nil, err
		}
	}

	for i, app := range apps {
		out[i] = Detail{Application: app}
		if p, ok := applicants[app.UserID]; ok {
			p := p
			out[i].Applicant = &p
		}
		if j, ok := postings[app.JobID]; ok {
			j := j
			out[i].Job = &j
		}
	}
	return out, nil
}
