package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobs-backend/internal/shared/telemetry"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Input carries the editable fields of a posting. Active nil keeps the current flag (true on create).
type Input struct {
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	Requirements string `json:"requirements" yaml:"requirements"`
	Location     string `json:"location" yaml:"location"`
	Salary       string `json:"salary" yaml:"salary"`
	Active       *bool  `json:"isActive,omitempty" yaml:"active,omitempty"`
}

func (in Input) normalize() (Input, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Requirements = strings.TrimSpace(in.Requirements)
	in.Location = strings.TrimSpace(in.Location)
	in.Salary = strings.TrimSpace(in.Salary)
	if in.Title == "" || in.Description == "" {
		return Input{}, fmt.Errorf("%w: title and description are required", ErrInvalidJob)
	}
	return in, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Job, error) {
	if s == nil || s.Repo == nil {
		return Job{}, errors.New("jobs service not configured")
	}
	in, err := in.normalize()
	if err != nil {
		return Job{}, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	job, err := s.Repo.Create(ctx, Job{
		Title:        in.Title,
		Description:  in.Description,
		Requirements: in.Requirements,
		Location:     in.Location,
		Salary:       in.Salary,
		Active:       active,
	})
	if err != nil {
		return Job{}, err
	}
	telemetry.Info("job.created", map[string]any{"job_id": job.ID, "active": job.Active})
	return job, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Job, error) {
	if s == nil || s.Repo == nil {
		return Job{}, errors.New("jobs service not configured")
	}
	in, err := in.normalize()
	if err != nil {
		return Job{}, err
	}
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Job{}, err
	}
	current.Title = in.Title
	current.Description = in.Description
	current.Requirements = in.Requirements
	current.Location = in.Location
	current.Salary = in.Salary
	if in.Active != nil {
		current.Active = *in.Active
	}
	job, err := s.Repo.Update(ctx, current)
	if err != nil {
		return Job{}, err
	}
	telemetry.Info("job.updated", map[string]any{"job_id": job.ID, "active": job.Active})
	return job, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Job, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) GetMany(ctx context.Context, ids []int64) (map[int64]Job, error) {
	return s.Repo.GetMany(ctx, ids)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Job, error) {
	if filter.Status == "" {
		filter.Status = StatusAll
	}
	return s.Repo.List(ctx, filter)
}

// ListActive returns the postings users may browse and apply to.
func (s *Service) ListActive(ctx context.Context) ([]Job, error) {
	return s.Repo.List(ctx, Filter{Status: StatusActive})
}

func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.Repo.Counts(ctx)
}

// DeleteOrDeactivate removes a posting nobody applied to, and only hides one that has applications.
func (s *Service) DeleteOrDeactivate(ctx context.Context, id int64) (Outcome, error) {
	if s == nil || s.Repo == nil {
		return "", errors.New("jobs service not configured")
	}
	outcome, err := s.Repo.DeleteOrDeactivate(ctx, id)
	if err != nil {
		return "", err
	}
	telemetry.Info("job."+string(outcome), map[string]any{"job_id": id})
	return outcome, nil
}
