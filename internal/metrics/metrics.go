package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the hub.
type Metrics struct {
	registry *prometheus.Registry

	DeviceTransitions   *prometheus.CounterVec
	RoutineExecutions   prometheus.Counter
	ScheduleFires       prometheus.Counter
	ScheduleMisses      prometheus.Counter
	CommandsInterpreted *prometheus.CounterVec
	ForgottenReports    prometheus.Counter
	EnergyAlerts        prometheus.Counter
}

// New creates the metric set on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		DeviceTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "homesync",
			Name:      "device_transitions_total",
			Help:      "Device state transitions applied, by device type.",
		}, []string{"type"}),
		RoutineExecutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "homesync",
			Name:      "routine_executions_total",
			Help:      "Routines executed.",
		}),
		ScheduleFires: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "homesync",
			Name:      "schedule_fires_total",
			Help:      "Schedules fired by the minute ticker.",
		}),
		ScheduleMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "homesync",
			Name:      "schedule_target_misses_total",
			Help:      "Schedule fires whose target device was absent from the registry.",
		}),
		CommandsInterpreted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "homesync",
			Name:      "commands_interpreted_total",
			Help:      "Free-text commands interpreted, by outcome.",
		}, []string{"outcome"}),
		ForgottenReports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "homesync",
			Name:      "forgotten_device_reports_total",
			Help:      "Forgotten-device reports emitted by the advisor.",
		}),
		EnergyAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "homesync",
			Name:      "energy_alerts_total",
			Help:      "High weekly energy usage alerts raised.",
		}),
	}

	registry.MustRegister(
		m.DeviceTransitions,
		m.RoutineExecutions,
		m.ScheduleFires,
		m.ScheduleMisses,
		m.CommandsInterpreted,
		m.ForgottenReports,
		m.EnergyAlerts,
	)

	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
