package jobs

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"jobs-backend/internal/shared/telemetry"
)

type seedFile struct {
	Jobs []Input `yaml:"jobs"`
}

// LoadSeed reads postings from a YAML file of the form `jobs: [{title, description, ...}]`.
func LoadSeed(path string) ([]Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return file.Jobs, nil
}

// SeedIfEmpty inserts the given postings only when the catalog has none.
func (s *Service) SeedIfEmpty(ctx context.Context, inputs []Input) (int, error) {
	counts, err := s.Repo.Counts(ctx)
	if err != nil {
		return 0, err
	}
	if counts.Total > 0 {
		return 0, nil
	}
	inserted := 0
	for i, in := range inputs {
		if _, err := s.Create(ctx, in); err != nil {
			return inserted, fmt.Errorf("seed job %d: %w", i, err)
		}
		inserted++
	}
	telemetry.Info("jobs.seeded", map[string]any{"count": inserted})
	return inserted, nil
}
