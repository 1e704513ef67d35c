package profiles

import (
	"context"
	"errors"
	"testing"
)

func TestServiceSaveRejectsInvalidWithoutWriting(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	profile := validProfile()
	profile.Email = "broken"
	if _, err := svc.Save(context.Background(), profile); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Fatalf("expected no stored profiles, got %d", n)
	}
}

func TestServiceSaveAndExists(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	ok, err := svc.Exists(ctx, 42)
	if err != nil || ok {
		t.Fatalf("expected no profile, got ok=%v err=%v", ok, err)
	}

	profile := validProfile()
	profile.FullName = "  Jane Doe  "
	saved, err := svc.Save(ctx, profile)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.FullName != "Jane Doe" {
		t.Fatalf("expected trimmed name, got %q", saved.FullName)
	}

	ok, err = svc.Exists(ctx, 42)
	if err != nil || !ok {
		t.Fatalf("expected profile to exist, got ok=%v err=%v", ok, err)
	}
}
