package admin

import (
	"time"

	"jobs-backend/internal/applications"
	"jobs-backend/internal/jobs"
	"jobs-backend/internal/profiles"
)

// Admin is a panel operator. PasswordHash is a bcrypt hash and never leaves the package.
type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Stats struct {
	TotalJobs           int `json:"total_jobs"`
	ActiveJobs          int `json:"active_jobs"`
	TotalUsers          int `json:"total_users"`
	TotalApplications   int `json:"total_applications"`
	PendingApplications int `json:"pending_applications"`
}

type JobWithCount struct {
	jobs.Job
	ApplicationCount int `json:"applicationCount"`
}

type Dashboard struct {
	Stats              Stats                 `json:"stats"`
	RecentApplications []applications.Detail `json:"recentApplications"`
	TopJobs            []JobWithCount        `json:"topJobs"`
}

type UserSummary struct {
	profiles.Profile
	ApplicationCount int `json:"applicationCount"`
}

type UserDetail struct {
	Profile      profiles.Profile      `json:"profile"`
	Applications []applications.Detail `json:"applications"`
}
