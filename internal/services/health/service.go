package health

import (
	"context"
	"time"
)

const checkTimeout = 2 * time.Second

// Pinger is a dependency whose reachability is part of the health report.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	checks map[string]Pinger
}

// NewService constructs a health service. Nil pingers are skipped, so in-memory
// deployments report only the process itself.
func NewService(checks map[string]Pinger) *Service {
	s := &Service{checks: make(map[string]Pinger)}
	for name, p := range checks {
		if p != nil {
			s.checks[name] = p
		}
	}
	return s
}

// Status pings every dependency and reports whether all of them answered.
func (s *Service) Status(ctx context.Context) (bool, map[string]string) {
	ok := true
	out := map[string]string{}
	for name, p := range s.checks {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := p.PingContext(checkCtx)
		cancel()
		if err != nil {
			ok = false
			out[name] = err.Error()
			continue
		}
		out[name] = "ok"
	}
	return ok, out
}
