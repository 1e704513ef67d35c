package profiles

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// ValidEmail reports whether s has the shape local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validate checks that every collected field is present and the resume is set.
func (p Profile) Validate() error {
	if p.UserID == 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidProfile)
	}
	fields := []struct {
		name  string
		value string
	}{
		{"full name", p.FullName},
		{"email", p.Email},
		{"phone", p.Phone},
		{"experience", p.Experience},
		{"skills", p.Skills},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidProfile, f.name)
		}
	}
	if !ValidEmail(p.Email) {
		return fmt.Errorf("%w: email %q is malformed", ErrInvalidProfile, p.Email)
	}
	if p.Resume.IsZero() {
		return fmt.Errorf("%w: resume is required", ErrInvalidProfile)
	}
	if ref, ok := p.Resume.FileRef(); ok && strings.TrimSpace(ref) == "" {
		return fmt.Errorf("%w: resume file reference is empty", ErrInvalidProfile)
	}
	return nil
}
