package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobs-backend/internal/shared/auth"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	signer, err := auth.NewSigner("test-secret", "dev")
	require.NoError(t, err)
	return NewService(NewMemoryRepo(), signer)
}

func TestEnsureSeedCreatesOnlyOnce(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.EnsureSeed(ctx, "root", "s3cret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureSeed(ctx, "other", "other")
	require.NoError(t, err)
	assert.False(t, created)

	n, err := svc.Repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := svc.Repo.GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
}

func TestEnsureSeedFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.EnsureSeed(ctx, "", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	ctx := context.Background()
	signer, err := auth.NewSigner("test-secret", "dev")
	require.NoError(t, err)
	svc := NewService(NewMemoryRepo(), signer)
	_, err = svc.EnsureSeed(ctx, "root", "s3cret")
	require.NoError(t, err)

	session, err := svc.Login(ctx, "  root ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "root", session.Admin.Username)
	assert.False(t, session.ExpiresAt.IsZero())

	claims, err := signer.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Admin.ID, claims.AdminID)
	assert.Equal(t, "root", claims.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.EnsureSeed(ctx, "root", "s3cret")
	require.NoError(t, err)

	for _, tc := range []struct{ user, pass string }{
		{"root", "wrong"},
		{"nobody", "s3cret"},
		{"", "s3cret"},
		{"root", ""},
	} {
		_, err := svc.Login(ctx, tc.user, tc.pass)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "%s/%s", tc.user, tc.pass)
	}
}

func TestMemoryRepoRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	_, err := repo.Create(ctx, Admin{Username: "root", PasswordHash: "x"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, Admin{Username: "root", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}
