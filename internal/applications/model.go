package applications

import (
	"fmt"
	"strings"
	"time"

	"jobs-backend/internal/jobs"
	"jobs-backend/internal/profiles"
	"jobs-backend/internal/telegram"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
	StatusInterviewed Status = "interviewed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusAccepted, StatusRejected, StatusInterviewed}

// ParseStatus accepts the status names case-insensitively.
func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range Statuses {
		if candidate == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Title renders the status for messages, e.g. "Interviewed".
func (s Status) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

type Application struct {
	ID        int64     `json:"id"`
	PublicID  string    `json:"publicId"`
	UserID    int64     `json:"userId"`
	JobID     int64     `json:"jobId"`
	Status    Status    `json:"status"`
	AppliedAt time.Time `json:"appliedAt"`
}

// Filter narrows ledger reads. Zero values mean "any"; Search matches applicant name or email.
type Filter struct {
	Status Status
	JobID  int64
	UserID int64
	Search string
	Limit  int
}

type Counts struct {
	Total   int `json:"totalApplications"`
	Pending int `json:"pendingApplications"`
}

// Detail is an application joined with its applicant and posting. Either may be nil
// if the row was removed out of band.
type Detail struct {
	Application
	Applicant *profiles.Profile `json:"applicant,omitempty"`
	Job       *jobs.Job         `json:"job,omitempty"`
}

func (s Status) Emoji() string {
	switch s {
	case StatusPending:
		return "⏳"
	case StatusAccepted:
		return "✅"
	case StatusRejected:
		return "❌"
	case StatusInterviewed:
		return "🤝"
	default:
		return "❓"
	}
}

// StatusMessage is the default text sent to an applicant when an admin notifies them.
func StatusMessage(d Detail) string {
	title := "your application"
	if d.Job != nil {
		title = "*" + telegram.EscapeMarkdown(d.Job.Title) + "*"
	}
	return fmt.Sprintf("%s Update on %s (ID: `%s`): your status is now *%s*.",
		d.Status.Emoji(), title, d.PublicID, d.Status.Title())
}
