package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nutrisnap/backend/internal/domain/providers"
)

// RunSummary reports the outcome of one weekly batch.
type RunSummary struct {
	Total   int
	Success int
	Failure int
}

// WeeklyRunService iterates all known users and generates each one's
// summary. Users are processed strictly sequentially to cap concurrent
// model-call volume.
type WeeklyRunService struct {
	directory providers.UserDirectory
	summaries *SummaryService
}

// NewWeeklyRunService creates a new weekly run driver.
func NewWeeklyRunService(directory providers.UserDirectory, summaries *SummaryService) *WeeklyRunService {
	return &WeeklyRunService{
		directory: directory,
		summaries: summaries,
	}
}

// Run generates summaries for the last seven days for every user. Per-user
// failures are logged and counted; one user's failure never aborts the
// batch.
func (s *WeeklyRunService) Run(ctx context.Context) (*RunSummary, error) {
	lastPeriodStart := time.Now().UTC().Add(-7 * 24 * time.Hour)

	users, err := s.directory.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().Int("users", len(users)).Msg("Starting weekly analysis")

	summary := &RunSummary{Total: len(users)}
	for _, user := range users {
		if err := s.summaries.Generate(ctx, user.UID, lastPeriodStart); err != nil {
			log.Error().Err(err).Str("userID", user.UID).Msg("Failed to generate weekly summary")
			summary.Failure++
			continue
		}
		summary.Success++
	}

	return summary, nil
}
