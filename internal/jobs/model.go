package jobs

import (
	"strings"
	"time"
)

// Job is a posting users can browse and apply to while it is active.
type Job struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Location     string    `json:"location"`
	Salary       string    `json:"salary"`
	Active       bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// ParseStatusFilter maps unknown values to StatusAll.
func ParseStatusFilter(raw string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive
	case StatusInactive:
		return StatusInactive
	default:
		return StatusAll
	}
}

type Filter struct {
	Status StatusFilter
	Search string
}

func (f Filter) matches(job Job) bool {
	switch f.Status {
	case StatusActive:
		if !job.Active {
			return false
		}
	case StatusInactive:
		if job.Active {
			return false
		}
	}
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(job.Title), needle) ||
		strings.Contains(strings.ToLower(job.Description), needle) ||
		strings.Contains(strings.ToLower(job.Location), needle)
}

// Outcome reports what DeleteOrDeactivate did to a posting.
type Outcome string

const (
	OutcomeDeleted     Outcome = "deleted"
	OutcomeDeactivated Outcome = "deactivated"
)

// Counts summarizes the catalog for the dashboard.
type Counts struct {
	Total  int `json:"totalJobs"`
	Active int `json:"activeJobs"`
}
