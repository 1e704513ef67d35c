package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobs-backend/internal/profiles"
	"jobs-backend/internal/shared/metrics"
	"jobs-backend/internal/shared/telemetry"
)

// Upload describes a file the user sent in place of a text answer.
type Upload struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// Input is one inbound user message. Upload is nil for plain text.
type Input struct {
	Text   string
	Upload *Upload
}

// Reply is what the machine wants sent back, plus where the session ended up.
type Reply struct {
	Text      string
	State     State
	Done      bool
	Cancelled bool
	Profile   *profiles.Profile
}

// ProfileStore reads the current profile and commits a finished intake.
type ProfileStore interface {
	Get(ctx context.Context, userID int64) (profiles.Profile, error)
	Save(ctx context.Context, profile profiles.Profile) (profiles.Profile, error)
}

// ResumeSink stores an uploaded resume and returns an opaque reference to it.
type ResumeSink interface {
	Accept(ctx context.Context, userID int64, upload Upload) (string, error)
}

// Machine drives the six-question profile dialogue. It holds no per-user state of its own;
// callers must deliver one user's messages in order.
type Machine struct {
	Profiles ProfileStore
	Sessions SessionStore
	Sink     ResumeSink
	Now      func() time.Time
}

func NewMachine(store ProfileStore, sessions SessionStore, sink ResumeSink) *Machine {
	return &Machine{Profiles: store, Sessions: sessions, Sink: sink, Now: time.Now}
}

func (m *Machine) now() time.Time {
	if m.Now == nil {
		return time.Now().UTC()
	}
	return m.Now().UTC()
}

// Start opens a fresh session, replacing any in progress. An existing profile is shown
// for reference only; every field is asked again.
func (m *Machine) Start(ctx context.Context, userID int64, username string) (Reply, error) {
	var existing *profiles.Profile
	current, err := m.Profiles.Get(ctx, userID)
	switch {
	case err == nil:
		existing = &current
	case errors.Is(err, profiles.ErrNotFound):
	default:
		return Reply{}, fmt.Errorf("load profile: %w", err)
	}

	session := Session{
		UserID:    userID,
		Username:  username,
		State:     StateAwaitName,
		UpdatedAt: m.now(),
	}
	if err := m.Sessions.Put(ctx, session); err != nil {
		return Reply{}, err
	}
	telemetry.Info("intake.started", map[string]any{"user_id": userID, "existing_profile": existing != nil})
	return Reply{Text: startText(existing), State: StateAwaitName}, nil
}

// Active reports whether the user is mid-intake.
func (m *Machine) Active(ctx context.Context, userID int64) (bool, error) {
	_, ok, err := m.Sessions.Get(ctx, userID)
	return ok, err
}

// Cancel discards the buffer without committing anything.
func (m *Machine) Cancel(ctx context.Context, userID int64) (Reply, error) {
	_, ok, err := m.Sessions.Get(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if err := m.Sessions.Delete(ctx, userID); err != nil {
		return Reply{}, err
	}
	if ok {
		telemetry.Info("intake.cancelled", map[string]any{"user_id": userID})
		metrics.IncIntake("cancelled")
	}
	return Reply{Text: msgCancelled, State: StateIdle, Cancelled: true}, nil
}

// OnUserMessage feeds one message into the user's session. It returns ErrNoSession when
// the user has not started an intake.
func (m *Machine) OnUserMessage(ctx context.Context, userID int64, in Input) (Reply, error) {
	text := strings.TrimSpace(in.Text)
	if in.Upload == nil && strings.EqualFold(text, CancelCommand) {
		return m.Cancel(ctx, userID)
	}

	session, ok, err := m.Sessions.Get(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if !ok || session.State == StateIdle {
		return Reply{State: StateIdle}, ErrNoSession
	}

	if session.State == StateAwaitResume {
		return m.onResume(ctx, session, in, text)
	}

	if in.Upload != nil || text == "" || strings.HasPrefix(text, "/") {
		return m.stay(session, msgTextRequired+"\n\n"+Prompt(session.State)), nil
	}

	switch session.State {
	case StateAwaitName:
		session.Draft.FullName = text
		session.State = StateAwaitEmail
	case StateAwaitEmail:
		if !profiles.ValidEmail(text) {
			return m.stay(session, msgInvalidEmail), nil
		}
		session.Draft.Email = text
		session.State = StateAwaitPhone
	case StateAwaitPhone:
		session.Draft.Phone = text
		session.State = StateAwaitExperience
	case StateAwaitExperience:
		session.Draft.Experience = text
		session.State = StateAwaitSkills
	case StateAwaitSkills:
		session.Draft.Skills = text
		session.State = StateAwaitResume
	default:
		return Reply{}, fmt.Errorf("intake: unknown state %q", session.State)
	}
	return m.advance(ctx, session)
}

func (m *Machine) onResume(ctx context.Context, session Session, in Input, text string) (Reply, error) {
	var resume profiles.Resume
	switch {
	case in.Upload != nil:
		ref := in.Upload.FileID
		if m.Sink != nil {
			stored, err := m.Sink.Accept(ctx, session.UserID, *in.Upload)
			if err != nil {
				telemetry.Warn("intake.resume_upload_failed", map[string]any{
					"user_id": session.UserID,
					"error":   err.Error(),
				})
				return m.stay(session, msgUploadFailed), nil
			}
			ref = stored
		}
		if strings.TrimSpace(ref) == "" {
			return m.stay(session, msgUploadFailed), nil
		}
		resume = profiles.FileResume(ref, ResumeLabel(in.Upload.FileName))
	case text != "" && !strings.HasPrefix(text, "/"):
		resume = profiles.TextResume(text)
	default:
		return m.stay(session, msgResumeMissing), nil
	}
	return m.commit(ctx, session, resume)
}

// commit is the only write to the profile store. On failure the session stays on the
// resume step so the user can resend.
func (m *Machine) commit(ctx context.Context, session Session, resume profiles.Resume) (Reply, error) {
	saved, err := m.Profiles.Save(ctx, profiles.Profile{
		UserID:     session.UserID,
		Username:   session.Username,
		FullName:   session.Draft.FullName,
		Email:      session.Draft.Email,
		Phone:      session.Draft.Phone,
		Experience: session.Draft.Experience,
		Skills:     session.Draft.Skills,
		Resume:     resume,
	})
	if err != nil {
		metrics.IncIntake("failed")
		return Reply{}, fmt.Errorf("save profile: %w", err)
	}
	if err := m.Sessions.Delete(ctx, session.UserID); err != nil {
		telemetry.Warn("intake.session_discard_failed", map[string]any{"user_id": session.UserID, "error": err.Error()})
	}
	telemetry.Info("intake.completed", map[string]any{
		"user_id":     session.UserID,
		"resume_kind": string(resume.Kind()),
	})
	metrics.IncIntake("completed")
	return Reply{Text: msgSaved, State: StateIdle, Done: true, Profile: &saved}, nil
}

func (m *Machine) advance(ctx context.Context, session Session) (Reply, error) {
	session.UpdatedAt = m.now()
	if err := m.Sessions.Put(ctx, session); err != nil {
		return Reply{}, err
	}
	return Reply{Text: Prompt(session.State), State: session.State}, nil
}

func (m *Machine) stay(session Session, text string) Reply {
	return Reply{Text: text, State: session.State}
}
