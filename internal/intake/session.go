package intake

import (
	"context"
	"errors"
	"time"
)

// State is the intake step a user is on.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitName       State = "await_name"
	StateAwaitEmail      State = "await_email"
	StateAwaitPhone      State = "await_phone"
	StateAwaitExperience State = "await_experience"
	StateAwaitSkills     State = "await_skills"
	StateAwaitResume     State = "await_resume"
)

// Draft buffers the answers collected so far. It is never persisted as a profile.
type Draft struct {
	FullName   string `json:"fullName,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Experience string `json:"experience,omitempty"`
	Skills     string `json:"skills,omitempty"`
}

type Session struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username,omitempty"`
	State     State     `json:"state"`
	Draft     Draft     `json:"draft"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var ErrNoSession = errors.New("no intake in progress")

// SessionStore holds one session per user. Put overwrites, so a second Start wins.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (Session, bool, error)
	Put(ctx context.Context, session Session) error
	Delete(ctx context.Context, userID int64) error
}
