package admin

import (
	"context"
	"errors"
	"io"
	"sort"

	"jobs-backend/internal/applications"
	"jobs-backend/internal/jobs"
	"jobs-backend/internal/profiles"
)

const (
	recentApplications = 10
	topJobs            = 5
)

type JobCatalog interface {
	Counts(ctx context.Context) (jobs.Counts, error)
	List(ctx context.Context, filter jobs.Filter) ([]jobs.Job, error)
}

type ApplicationLedger interface {
	Counts(ctx context.Context) (applications.Counts, error)
	CountByJob(ctx context.Context) (map[int64]int, error)
	CountByUser(ctx context.Context) (map[int64]int, error)
	List(ctx context.Context, filter applications.Filter) ([]applications.Detail, error)
	ListForUser(ctx context.Context, userID int64) ([]applications.Detail, error)
}

type ProfileDirectory interface {
	Get(ctx context.Context, userID int64) (profiles.Profile, error)
	List(ctx context.Context, search string) ([]profiles.Profile, error)
	Count(ctx context.Context) (int, error)
}

// ResumeFiles opens an uploaded resume by its stored reference.
type ResumeFiles interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, string, error)
}

// Panel aggregates read models across the catalog, ledger and profile store.
type Panel struct {
	Jobs         JobCatalog
	Applications ApplicationLedger
	Profiles     ProfileDirectory
	Resumes      ResumeFiles
}

func NewPanel(catalog JobCatalog, ledger ApplicationLedger, directory ProfileDirectory, resumes ResumeFiles) *Panel {
	return &Panel{Jobs: catalog, Applications: ledger, Profiles: directory, Resumes: resumes}
}

func (p *Panel) Stats(ctx context.Context) (Stats, error) {
	jobCounts, err := p.Jobs.Counts(ctx)
	if err != nil {
		return Stats{}, err
	}
	users, err := p.Profiles.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	appCounts, err := p.Applications.Counts(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalJobs:           jobCounts.Total,
		ActiveJobs:          jobCounts.Active,
		TotalUsers:          users,
		TotalApplications:   appCounts.Total,
		PendingApplications: appCounts.Pending,
	}, nil
}

func (p *Panel) Dashboard(ctx context.Context) (Dashboard, error) {
	stats, err := p.Stats(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := p.Applications.List(ctx, applications.Filter{Limit: recentApplications})
	if err != nil {
		return Dashboard{}, err
	}
	active, err := p.Jobs.List(ctx, jobs.Filter{Status: jobs.StatusActive})
	if err != nil {
		return Dashboard{}, err
	}
	counts, err := p.Applications.CountByJob(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	top := make([]JobWithCount, 0, len(active))
	for _, job := range active {
		top = append(top, JobWithCount{Job: job, ApplicationCount: counts[job.ID]})
	}
	// Ties keep the catalog's newest-first order.
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].ApplicationCount > top[j].ApplicationCount
	})
	if len(top) > topJobs {
		top = top[:topJobs]
	}
	if recent == nil {
		recent = []applications.Detail{}
	}
	return Dashboard{Stats: stats, RecentApplications: recent, TopJobs: top}, nil
}

func (p *Panel) Users(ctx context.Context, search string) ([]UserSummary, error) {
	list, err := p.Profiles.List(ctx, search)
	if err != nil {
		return nil, err
	}
	counts, err := p.Applications.CountByUser(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserSummary, 0, len(list))
	for _, profile := range list {
		out = append(out, UserSummary{Profile: profile, ApplicationCount: counts[profile.UserID]})
	}
	return out, nil
}

func (p *Panel) User(ctx context.Context, userID int64) (UserDetail, error) {
	profile, err := p.Profiles.Get(ctx, userID)
	if err != nil {
		return UserDetail{}, err
	}
	apps, err := p.Applications.ListForUser(ctx, userID)
	if err != nil {
		return UserDetail{}, err
	}
	if apps == nil {
		apps = []applications.Detail{}
	}
	return UserDetail{Profile: profile, Applications: apps}, nil
}

// Resume opens the uploaded resume of a user. Text resumes have nothing to download.
func (p *Panel) Resume(ctx context.Context, userID int64) (io.ReadCloser, string, error) {
	profile, err := p.Profiles.Get(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	ref, ok := profile.Resume.FileRef()
	if !ok {
		return nil, "", ErrNoResume
	}
	if p.Resumes == nil {
		return nil, "", errors.New("resume storage not configured")
	}
	return p.Resumes.Open(ctx, ref)
}
