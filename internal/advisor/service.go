package advisor

import (
	"github.com/daksh151005/homesync-hub-go/internal/audit"
	"github.com/daksh151005/homesync-hub-go/internal/device"
	"github.com/daksh151005/homesync-hub-go/internal/events"
	"github.com/daksh151005/homesync-hub-go/internal/metrics"
)

// Service exposes energy reporting and the anomaly advisors.
type Service struct {
	repo    *Repository
	devices *device.Service
	audit   *audit.Service
	hub     *events.Hub
	metrics *metrics.Metrics
}

// NewService creates a new advisor Service.
func NewService(repo *Repository, devices *device.Service, auditService *audit.Service, hub *events.Hub, m *metrics.Metrics) *Service {
	return &Service{repo: repo, devices: devices, audit: auditService, hub: hub, metrics: m}
}

// WeeklyUsage returns the user's samples plus the summed total.
func (s *Service) WeeklyUsage(userID string) ([]Sample, float64, error) {
	samples, err := s.repo.ListUsage(userID)
	if err != nil {
		return nil, 0, err
	}
	var total float64
	for _, sample := range samples {
		total += sample.Usage
	}
	return samples, total, nil
}

// CheckUsage runs the weekly threshold check against the user's stored
// samples. A high reading raises an energy alert event.
func (s *Service) CheckUsage(userID string) (UsageReport, float64, error) {
	total, err := s.repo.TotalUsage(userID)
	if err != nil {
		return UsageReport{}, 0, err
	}

	report := CheckHighUsage(total)
	if report.IsHigh {
		s.metrics.EnergyAlerts.Inc()
		s.audit.RecordLevel(userID, audit.EventLevelWarn, audit.EventEnergyAlert, report.Notification, map[string]any{
			"total_kwh": total,
		})
		s.hub.Broadcast(userID, events.TypeEnergyAlert, map[string]any{
			"total_kwh":    total,
			"notification": report.Notification,
		})
	}
	return report, total, nil
}

// Forgotten runs the forgotten-appliance detector against the user's
// current registry.
func (s *Service) Forgotten(userID, routineDescription string) ([]ForgottenReport, error) {
	registry, err := s.devices.Registry(userID)
	if err != nil {
		return nil, err
	}
	reports := DetectForgotten(registry.Devices(), routineDescription)
	s.metrics.ForgottenReports.Inc()
	return reports, nil
}

// Suggestions returns the fixed routine suggestion list.
func (s *Service) Suggestions(deviceList, usagePatterns string) []string {
	return SuggestRoutines(deviceList, usagePatterns)
}
