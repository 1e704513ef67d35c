package applications

import "errors"

var (
	ErrProfileRequired     = errors.New("profile required before applying")
	ErrJobNotFound         = errors.New("job not found")
	ErrJobInactive         = errors.New("job is not accepting applications")
	ErrAlreadyApplied      = errors.New("already applied to this job")
	ErrPublicIDTaken       = errors.New("public application id already in use")
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrApplicationNotFound = errors.New("application not found")
)
