package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobs-backend/internal/shared/auth"
	"jobs-backend/internal/shared/telemetry"
)

const (
	defaultUsername = "admin"
	defaultPassword = "admin123"
)

// TokenSigner issues admin session tokens.
type TokenSigner interface {
	Sign(adminID int64, username string) (string, error)
	TTL() time.Duration
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     Admin     `json:"admin"`
}

type Service struct {
	Repo   Repo
	Signer TokenSigner
	now    func() time.Time
}

func NewService(repo Repo, signer TokenSigner) *Service {
	return &Service{Repo: repo, Signer: signer, now: time.Now}
}

// EnsureSeed creates the first admin account when none exists. It reports whether
// an account was created.
func (s *Service) EnsureSeed(ctx context.Context, username, password string) (bool, error) {
	n, err := s.Repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = defaultUsername
	}
	if password == "" {
		password = defaultPassword
	}
	if username == defaultUsername && password == defaultPassword {
		telemetry.Warn("admin.default_credentials", map[string]any{"username": username})
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	created, err := s.Repo.Create(ctx, Admin{Username: username, PasswordHash: hash})
	if errors.Is(err, ErrUsernameTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	telemetry.Info("admin.seeded", map[string]any{"admin_id": created.ID, "username": created.Username})
	return true, nil
}

// Login checks the credentials and issues a signed session token.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	admin, err := s.Repo.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	token, err := s.Signer.Sign(admin.ID, admin.Username)
	if err != nil {
		return Session{}, err
	}
	telemetry.Info("admin.login", map[string]any{"admin_id": admin.ID, "username": admin.Username})
	return Session{
		Token:     token,
		ExpiresAt: s.now().UTC().Add(s.Signer.TTL()),
		Admin:     admin,
	}, nil
}
