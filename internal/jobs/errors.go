package jobs

import "errors"

var (
	ErrNotFound   = errors.New("job not found")
	ErrInvalidJob = errors.New("invalid job")
)
