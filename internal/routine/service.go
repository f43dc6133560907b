package routine

import (
	"fmt"

	"github.com/daksh151005/homesync-hub-go/internal/audit"
	"github.com/daksh151005/homesync-hub-go/internal/device"
	"github.com/daksh151005/homesync-hub-go/internal/events"
	"github.com/daksh151005/homesync-hub-go/internal/metrics"
)

// NotFoundError reports a routine id that does not exist.
type NotFoundError struct {
	RoutineID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("routine not found: %s", e.RoutineID)
}

// Service owns routine CRUD and execution.
type Service struct {
	repo    *Repository
	devices *device.Service
	audit   *audit.Service
	hub     *events.Hub
	metrics *metrics.Metrics
}

// NewService creates a new routine Service.
func NewService(repo *Repository, devices *device.Service, auditService *audit.Service, hub *events.Hub, m *metrics.Metrics) *Service {
	return &Service{repo: repo, devices: devices, audit: auditService, hub: hub, metrics: m}
}

// Create creates a routine.
func (s *Service) Create(userID string, input CreateInput) (*Routine, error) {
	created, err := s.repo.Create(userID, input)
	if err != nil {
		return nil, err
	}
	s.audit.Record(userID, audit.EventRoutineCreated, fmt.Sprintf("Routine %q created", created.Name), map[string]any{
		"routine_id": created.ID,
	})
	return created, nil
}

// Get returns a routine by id.
func (s *Service) Get(userID, routineID string) (*Routine, error) {
	return s.repo.GetByID(userID, routineID)
}

// List returns routines with pagination.
func (s *Service) List(userID string, limit, offset int) ([]Routine, int, error) {
	return s.repo.List(userID, limit, offset)
}

// Update updates a routine.
func (s *Service) Update(userID, routineID string, input UpdateInput) (*Routine, error) {
	updated, err := s.repo.Update(userID, routineID, input)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}
	s.audit.Record(userID, audit.EventRoutineUpdated, fmt.Sprintf("Routine %q updated", updated.Name), map[string]any{
		"routine_id": updated.ID,
	})
	return updated, nil
}

// Delete removes a routine.
func (s *Service) Delete(userID, routineID string) error {
	deleted, err := s.repo.Delete(userID, routineID)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{RoutineID: routineID}
	}
	s.audit.Record(userID, audit.EventRoutineDeleted, "Routine deleted", map[string]any{
		"routine_id": routineID,
	})
	return nil
}

// RunResult summarizes one routine execution.
type RunResult struct {
	Routine *Routine
	Applied int
	Skipped int
	Devices []device.Device
}

// Run executes a routine against the user's current registry and persists
// the resulting snapshot. Actions referencing absent devices are counted as
// skipped, never failed.
func (s *Service) Run(userID, routineID string) (*RunResult, error) {
	routine, err := s.repo.GetByID(userID, routineID)
	if err != nil {
		return nil, err
	}
	if routine == nil {
		return nil, &NotFoundError{RoutineID: routineID}
	}

	registry, err := s.devices.Registry(userID)
	if err != nil {
		return nil, err
	}

	applied, skipped := 0, 0
	for _, action := range routine.Actions {
		if _, ok := registry.Lookup(action.DeviceID); ok {
			applied++
		} else {
			skipped++
		}
	}

	updated := Execute(*routine, registry)
	if err := s.devices.SaveRegistry(userID, updated); err != nil {
		return nil, err
	}

	s.metrics.RoutineExecutions.Inc()
	s.audit.Record(userID, audit.EventRoutineExecuted, fmt.Sprintf("Routine %q executed", routine.Name), map[string]any{
		"routine_id": routine.ID,
		"applied":    applied,
		"skipped":    skipped,
	})
	s.hub.Broadcast(userID, events.TypeRoutineExecuted, map[string]any{
		"routine_id": routine.ID,
		"name":       routine.Name,
	})

	return &RunResult{
		Routine: routine,
		Applied: applied,
		Skipped: skipped,
		Devices: updated.Devices(),
	}, nil
}
