package schedule

import (
	"regexp"
	"time"
)

// Action is the single device action a schedule applies when it fires.
type Action string

const (
	ActionOn  Action = "on"
	ActionOff Action = "off"
)

// WeekdayTokens lists the accepted day tokens, Sunday first.
var WeekdayTokens = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Schedule is a recurring, time-and-day-gated single device action.
// The target device is referenced by id only; its name is resolved
// against the registry when the schedule is rendered or fired.
type Schedule struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DeviceID  string    `json:"device_id"`
	Time      string    `json:"time"`
	Action    Action    `json:"action"`
	Days      []string  `json:"days"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput is the payload for creating a schedule.
type CreateInput struct {
	Name     string   `json:"name"`
	DeviceID string   `json:"device_id"`
	Time     string   `json:"time"`
	Action   Action   `json:"action"`
	Days     []string `json:"days"`
	Enabled  *bool    `json:"enabled"`
}

// UpdateInput is the payload for updating a schedule. Nil fields are
// left unchanged.
type UpdateInput struct {
	Name     *string  `json:"name"`
	DeviceID *string  `json:"device_id"`
	Time     *string  `json:"time"`
	Action   *Action  `json:"action"`
	Days     []string `json:"days"`
	Enabled  *bool    `json:"enabled"`
}

func ValidAction(a Action) bool {
	return a == ActionOn || a == ActionOff
}

// ValidTime reports whether t is an HH:MM 24-hour clock string.
func ValidTime(t string) bool {
	return timePattern.MatchString(t)
}

// ValidDays reports whether days is a non-empty subset of the seven
// weekday tokens.
func ValidDays(days []string) bool {
	if len(days) == 0 {
		return false
	}
	for _, d := range days {
		if !validDayToken(d) {
			return false
		}
	}
	return true
}

func validDayToken(d string) bool {
	for _, token := range WeekdayTokens {
		if d == token {
			return true
		}
	}
	return false
}
