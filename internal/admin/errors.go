package admin

import "errors"

var (
	ErrNotFound           = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("admin username already exists")
	ErrNoResume           = errors.New("user has no uploaded resume")
)
