package command

import (
	"github.com/daksh151005/homesync-hub-go/internal/audit"
	"github.com/daksh151005/homesync-hub-go/internal/device"
	"github.com/daksh151005/homesync-hub-go/internal/metrics"
)

// Service interprets commands against the user's registry and applies
// the resolved action through the device service.
type Service struct {
	devices *device.Service
	audit   *audit.Service
	metrics *metrics.Metrics
}

// NewService creates a new command Service.
func NewService(devices *device.Service, auditService *audit.Service, m *metrics.Metrics) *Service {
	return &Service{devices: devices, audit: auditService, metrics: m}
}

// Outcome is an interpreted command plus the device state after the
// action was applied. Applied is false for failed interpretations and
// for dry runs.
type Outcome struct {
	Result  Result
	Applied bool
	Device  *device.Device
}

// Run interprets the command and, unless dryRun is set, applies the
// resolved action. Interpretation failures are reported as feedback,
// never as errors.
func (s *Service) Run(userID, command string, dryRun bool) (*Outcome, error) {
	registry, err := s.devices.Registry(userID)
	if err != nil {
		return nil, err
	}

	result := Interpret(command, registry.Devices())
	if !result.Success {
		s.metrics.CommandsInterpreted.WithLabelValues("rejected").Inc()
		s.audit.RecordLevel(userID, audit.EventLevelWarn, audit.EventCommandRejected, result.Feedback, map[string]any{
			"command": command,
		})
		return &Outcome{Result: result}, nil
	}

	s.metrics.CommandsInterpreted.WithLabelValues("matched").Inc()
	s.audit.Record(userID, audit.EventCommandInterpreted, result.Feedback, map[string]any{
		"command":   command,
		"device_id": result.Device.ID,
		"intent":    string(result.Intent),
	})

	if dryRun {
		return &Outcome{Result: result, Device: result.Device}, nil
	}

	updated, err := s.apply(userID, result)
	if err != nil {
		return nil, err
	}
	return &Outcome{Result: result, Applied: true, Device: updated}, nil
}

func (s *Service) apply(userID string, result Result) (*device.Device, error) {
	switch result.Intent {
	case IntentOn:
		return s.devices.Toggle(userID, result.Device.ID, true)
	case IntentOff:
		return s.devices.Toggle(userID, result.Device.ID, false)
	default:
		if result.Value != nil {
			return s.devices.SetValue(userID, result.Device.ID, *result.Value)
		}
		// "set" with no value behaves as a no-op apply; the match
		// itself is still reported.
		return result.Device, nil
	}
}
