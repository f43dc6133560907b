package audit

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Service records and lists audit events and prunes old ones on a daily
// cron cadence.
type Service struct {
	repo          *Repository
	retentionDays int
	cron          *cron.Cron
}

// NewService creates a new audit Service.
func NewService(repo *Repository, retentionDays int) *Service {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &Service{
		repo:          repo,
		retentionDays: retentionDays,
	}
}

// Record appends an INFO event. Audit failures are logged, never propagated;
// the trail is advisory.
func (s *Service) Record(userID string, eventType EventType, message string, details map[string]any) {
	s.RecordLevel(userID, EventLevelInfo, eventType, message, details)
}

// RecordLevel appends an event with an explicit severity.
func (s *Service) RecordLevel(userID string, level EventLevel, eventType EventType, message string, details map[string]any) {
	if err := s.repo.Insert(userID, level, eventType, message, details); err != nil {
		log.Printf("audit: failed to record %s: %v", eventType, err)
	}
}

// List returns events for the user, newest first.
func (s *Service) List(userID string, limit, offset int) ([]Event, int, error) {
	return s.repo.List(userID, limit, offset)
}

// StartPruneJob schedules a daily prune of expired events.
func (s *Service) StartPruneJob() {
	s.cron = cron.New()
	_, err := s.cron.AddFunc("17 3 * * *", s.prune)
	if err != nil {
		log.Printf("audit: failed to schedule prune job: %v", err)
		return
	}
	s.cron.Start()
}

// StopPruneJob stops the prune cadence.
func (s *Service) StopPruneJob() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Service) prune() {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	removed, err := s.repo.Prune(cutoff)
	if err != nil {
		log.Printf("audit: prune failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("audit: pruned %d event(s) older than %s", removed, cutoff.Format(time.RFC3339))
	}
}
