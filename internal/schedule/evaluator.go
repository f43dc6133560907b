package schedule

import (
	"fmt"
	"time"

	"github.com/daksh151005/homesync-hub-go/internal/device"
)

// Moment is a clock reading at minute granularity: a weekday token, an
// "HH:MM" 24-hour time string, and the calendar date the minute falls
// on.
type Moment struct {
	Weekday string
	Time    string
	Date    string
}

// MomentFromTime converts a wall-clock time to a Moment in the given
// location.
func MomentFromTime(t time.Time, loc *time.Location) Moment {
	local := t.In(loc)
	return Moment{
		Weekday: local.Weekday().String()[:3],
		Time:    local.Format("15:04"),
		Date:    local.Format("2006-01-02"),
	}
}

// MinuteKey identifies the calendar minute, used to guarantee
// at-most-once firing per matching minute. The date keeps a marker
// from one week suppressing the same weekday minute a week later.
func (m Moment) MinuteKey() string {
	return m.Date + " " + m.Time
}

// TargetNotFoundError signals that a schedule's device id did not
// resolve against the registry. The registry is left unchanged.
type TargetNotFoundError struct {
	ScheduleID string
	DeviceID   string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("schedule %s: device %s not in registry", e.ScheduleID, e.DeviceID)
}

// ShouldFire reports whether the schedule fires at the given moment:
// enabled, weekday in the schedule's day set, and an exact minute match
// on the time string.
func ShouldFire(s Schedule, now Moment) bool {
	if !s.Enabled {
		return false
	}
	if !dayMatches(s.Days, now.Weekday) {
		return false
	}
	return timeEqual(s.Time, now.Time)
}

// Fire applies the schedule's action to its target device and returns
// the updated registry. A missing target is reported, not fatal.
func Fire(s Schedule, reg device.Registry) (device.Registry, error) {
	d, ok := reg.Lookup(s.DeviceID)
	if !ok {
		return reg, &TargetNotFoundError{ScheduleID: s.ID, DeviceID: s.DeviceID}
	}
	updated := device.Apply(d, device.TurnOnRequest(s.Action == ActionOn))
	return reg.Replace(updated), nil
}

func dayMatches(days []string, weekday string) bool {
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}

// timeEqual compares two HH:MM strings, tolerating a missing leading
// zero on the hour ("7:00" matches "07:00").
func timeEqual(a, b string) bool {
	return normalizeTime(a) == normalizeTime(b)
}

func normalizeTime(t string) string {
	if len(t) == 4 {
		return "0" + t
	}
	return t
}
