package schedule

import (
	"errors"
	"fmt"

	"github.com/daksh151005/homesync-hub-go/internal/audit"
	"github.com/daksh151005/homesync-hub-go/internal/device"
	"github.com/daksh151005/homesync-hub-go/internal/events"
	"github.com/daksh151005/homesync-hub-go/internal/metrics"
)

// NotFoundError signals that a schedule does not exist for the user.
type NotFoundError struct {
	ScheduleID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schedule not found: %s", e.ScheduleID)
}

// ValidationError signals an invalid schedule definition.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid schedule %s: %s", e.Field, e.Message)
}

// Service implements schedule business logic.
type Service struct {
	repo    *Repository
	devices *device.Service
	audit   *audit.Service
	hub     *events.Hub
	metrics *metrics.Metrics
}

// NewService creates a new schedule Service.
func NewService(repo *Repository, devices *device.Service, auditService *audit.Service, hub *events.Hub, m *metrics.Metrics) *Service {
	return &Service{repo: repo, devices: devices, audit: auditService, hub: hub, metrics: m}
}

// Create validates and stores a new schedule. The device reference is
// weak: the target is re-resolved against the registry at fire time,
// so a currently unknown device id is accepted.
func (s *Service) Create(userID string, input CreateInput) (*Schedule, error) {
	if err := validateDefinition(input.Name, input.DeviceID, input.Time, input.Action, input.Days); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(userID, input)
	if err != nil {
		return nil, err
	}
	s.audit.Record(userID, audit.EventScheduleCreated, fmt.Sprintf("Schedule %q created", created.Name), map[string]any{
		"schedule_id": created.ID,
		"device_id":   created.DeviceID,
		"time":        created.Time,
	})
	return created, nil
}

// Get retrieves a schedule by id. Returns nil when absent.
func (s *Service) Get(userID, scheduleID string) (*Schedule, error) {
	return s.repo.GetByID(userID, scheduleID)
}

// List retrieves schedules with pagination.
func (s *Service) List(userID string, limit, offset int) ([]Schedule, int, error) {
	return s.repo.List(userID, limit, offset)
}

// Update validates and applies a partial update.
func (s *Service) Update(userID, scheduleID string, input UpdateInput) (*Schedule, error) {
	existing, err := s.repo.GetByID(userID, scheduleID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	name := existing.Name
	if input.Name != nil {
		name = *input.Name
	}
	deviceID := existing.DeviceID
	if input.DeviceID != nil {
		deviceID = *input.DeviceID
	}
	timeStr := existing.Time
	if input.Time != nil {
		timeStr = *input.Time
	}
	action := existing.Action
	if input.Action != nil {
		action = *input.Action
	}
	days := existing.Days
	if input.Days != nil {
		days = input.Days
	}
	if err := validateDefinition(name, deviceID, timeStr, action, days); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(userID, scheduleID, input)
	if err != nil {
		return nil, err
	}
	if updated != nil {
		s.audit.Record(userID, audit.EventScheduleUpdated, fmt.Sprintf("Schedule %q updated", updated.Name), map[string]any{
			"schedule_id": updated.ID,
		})
	}
	return updated, nil
}

// SetEnabled flips a schedule's enabled flag.
func (s *Service) SetEnabled(userID, scheduleID string, enabled bool) (*Schedule, error) {
	return s.Update(userID, scheduleID, UpdateInput{Enabled: &enabled})
}

// Delete removes a schedule.
func (s *Service) Delete(userID, scheduleID string) error {
	deleted, err := s.repo.Delete(userID, scheduleID)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{ScheduleID: scheduleID}
	}
	s.audit.Record(userID, audit.EventScheduleDeleted, "Schedule deleted", map[string]any{
		"schedule_id": scheduleID,
	})
	return nil
}

// DeviceName resolves the target device's current name, or "" when the
// device is no longer in the registry. Names are never cached on the
// schedule row.
func (s *Service) DeviceName(userID, deviceID string) string {
	d, err := s.devices.Get(userID, deviceID)
	if err != nil || d == nil {
		return ""
	}
	return d.Name
}

// Tick evaluates every enabled schedule against the given moment and
// fires the due ones. Each schedule fires at most once per matching
// minute; a missing target device is recorded and skipped.
func (s *Service) Tick(now Moment) {
	entries, err := s.repo.ListEnabled()
	if err != nil {
		return
	}

	minuteKey := now.MinuteKey()
	for _, entry := range entries {
		if !ShouldFire(entry.Schedule, now) {
			continue
		}
		if entry.LastFiredMinute == minuteKey {
			continue
		}
		s.fire(entry.UserID, entry.Schedule, minuteKey)
	}
}

func (s *Service) fire(userID string, sched Schedule, minuteKey string) {
	registry, err := s.devices.Registry(userID)
	if err != nil {
		return
	}

	updated, err := Fire(sched, registry)
	if err != nil {
		var notFound *TargetNotFoundError
		if errors.As(err, &notFound) {
			s.metrics.ScheduleMisses.Inc()
			s.audit.RecordLevel(userID, audit.EventLevelWarn, audit.EventScheduleSkipped,
				fmt.Sprintf("Schedule %q skipped: device %s not found", sched.Name, sched.DeviceID),
				map[string]any{"schedule_id": sched.ID, "device_id": sched.DeviceID})
			// Mark anyway so the same missing target is reported once
			// per matching minute, not once per tick.
			_ = s.repo.MarkFired(userID, sched.ID, minuteKey)
		}
		return
	}

	if err := s.devices.SaveRegistry(userID, updated); err != nil {
		return
	}
	if err := s.repo.MarkFired(userID, sched.ID, minuteKey); err != nil {
		return
	}

	s.metrics.ScheduleFires.Inc()
	s.audit.Record(userID, audit.EventScheduleFired, fmt.Sprintf("Schedule %q fired", sched.Name), map[string]any{
		"schedule_id": sched.ID,
		"device_id":   sched.DeviceID,
		"action":      string(sched.Action),
	})
	s.hub.Broadcast(userID, events.TypeScheduleFired, map[string]any{
		"schedule_id": sched.ID,
		"device_id":   sched.DeviceID,
		"action":      string(sched.Action),
	})
}

func validateDefinition(name, deviceID, timeStr string, action Action, days []string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if deviceID == "" {
		return &ValidationError{Field: "device_id", Message: "device_id is required"}
	}
	if !ValidTime(timeStr) {
		return &ValidationError{Field: "time", Message: "time must be HH:MM 24-hour"}
	}
	if !ValidAction(action) {
		return &ValidationError{Field: "action", Message: "action must be on or off"}
	}
	if !ValidDays(days) {
		return &ValidationError{Field: "days", Message: "days must be a non-empty set of weekday tokens"}
	}
	return nil
}
