package device

import (
	"fmt"

	"github.com/daksh151005/homesync-hub-go/internal/audit"
	"github.com/daksh151005/homesync-hub-go/internal/events"
	"github.com/daksh151005/homesync-hub-go/internal/metrics"
)

// NotFoundError reports a device id absent from the registry.
type NotFoundError struct {
	DeviceID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("device not found: %s", e.DeviceID)
}

// Service exposes registry reads and single-device transitions. All writes
// go through the transition policy; the service is the layer that clamps
// values to the per-type range before the policy sees them.
type Service struct {
	repo    *Repository
	audit   *audit.Service
	hub     *events.Hub
	metrics *metrics.Metrics
}

// NewService creates a new device Service.
func NewService(repo *Repository, auditService *audit.Service, hub *events.Hub, m *metrics.Metrics) *Service {
	return &Service{repo: repo, audit: auditService, hub: hub, metrics: m}
}

// Registry returns the user's current registry snapshot.
func (s *Service) Registry(userID string) (Registry, error) {
	devices, err := s.repo.List(userID)
	if err != nil {
		return Registry{}, err
	}
	return NewRegistry(devices), nil
}

// Get returns a single device.
func (s *Service) Get(userID, deviceID string) (*Device, error) {
	return s.repo.GetByID(userID, deviceID)
}

// Toggle turns a device on or off through the transition policy.
func (s *Service) Toggle(userID, deviceID string, on bool) (*Device, error) {
	existing, err := s.repo.GetByID(userID, deviceID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &NotFoundError{DeviceID: deviceID}
	}

	updated := Apply(*existing, TurnOnRequest(on))
	if err := s.repo.SaveState(userID, updated); err != nil {
		return nil, err
	}

	s.metrics.DeviceTransitions.WithLabelValues(string(updated.Type)).Inc()
	s.audit.Record(userID, audit.EventDeviceToggled, fmt.Sprintf("%s turned %s", updated.Name, powerWord(on)), map[string]any{
		"device_id": updated.ID,
		"status":    string(updated.Status),
	})
	s.hub.Broadcast(userID, events.TypeDeviceChanged, updated)

	return &updated, nil
}

// SetValue writes a device value through the transition policy. The value is
// clamped to the type's valid range here; the policy itself stays permissive.
func (s *Service) SetValue(userID, deviceID string, value int) (*Device, error) {
	existing, err := s.repo.GetByID(userID, deviceID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &NotFoundError{DeviceID: deviceID}
	}

	clamped := ClampValue(existing.Type, value)
	updated := Apply(*existing, SetValueRequest(clamped))
	if err := s.repo.SaveState(userID, updated); err != nil {
		return nil, err
	}

	s.metrics.DeviceTransitions.WithLabelValues(string(updated.Type)).Inc()
	s.audit.Record(userID, audit.EventDeviceValueSet, fmt.Sprintf("%s set to %d", updated.Name, clamped), map[string]any{
		"device_id": updated.ID,
		"value":     clamped,
	})
	s.hub.Broadcast(userID, events.TypeDeviceChanged, updated)

	return &updated, nil
}

// SaveRegistry persists a full registry snapshot. Routine execution and
// schedule fires call this with their transformed snapshots.
func (s *Service) SaveRegistry(userID string, reg Registry) error {
	return s.repo.SaveRegistry(userID, reg)
}

func powerWord(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
