package audit

import "time"

// EventType represents the type of audit event.
type EventType string

const (
	EventDeviceToggled      EventType = "DEVICE_TOGGLED"
	EventDeviceValueSet     EventType = "DEVICE_VALUE_SET"
	EventRoutineCreated     EventType = "ROUTINE_CREATED"
	EventRoutineUpdated     EventType = "ROUTINE_UPDATED"
	EventRoutineDeleted     EventType = "ROUTINE_DELETED"
	EventRoutineExecuted    EventType = "ROUTINE_EXECUTED"
	EventScheduleCreated    EventType = "SCHEDULE_CREATED"
	EventScheduleUpdated    EventType = "SCHEDULE_UPDATED"
	EventScheduleDeleted    EventType = "SCHEDULE_DELETED"
	EventScheduleFired      EventType = "SCHEDULE_FIRED"
	EventScheduleSkipped    EventType = "SCHEDULE_SKIPPED"
	EventCommandInterpreted EventType = "COMMAND_INTERPRETED"
	EventCommandRejected    EventType = "COMMAND_REJECTED"
	EventEnergyAlert        EventType = "ENERGY_ALERT"
	EventSystemStartup      EventType = "SYSTEM_STARTUP"
)

// EventLevel is the severity of an audit event.
type EventLevel string

const (
	EventLevelDebug EventLevel = "DEBUG"
	EventLevelInfo  EventLevel = "INFO"
	EventLevelWarn  EventLevel = "WARN"
	EventLevelError EventLevel = "ERROR"
)

// Event is a single audit trail entry.
type Event struct {
	EventID   int64          `json:"event_id"`
	UserID    string         `json:"user_id"`
	Level     EventLevel     `json:"level"`
	Type      EventType      `json:"type"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
