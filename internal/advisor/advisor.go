package advisor

import (
	"strconv"

	"github.com/daksh151005/homesync-hub-go/internal/device"
)

const forgottenReason = "This device is currently on but based on your routine, it should be off."

// UsageReport is the result of the weekly usage threshold check.
type UsageReport struct {
	IsHigh       bool
	Notification string
}

// ForgottenReport flags a device left energized. Ephemeral output, not
// persisted.
type ForgottenReport struct {
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	Reason     string `json:"reason"`
}

// CheckHighUsage flags weekly usage strictly above 100 kWh. At exactly
// 100 the usage is not high and the notification is empty.
func CheckHighUsage(totalWeeklyUsage float64) UsageReport {
	if totalWeeklyUsage > 100 {
		return UsageReport{
			IsHigh: true,
			Notification: "Your weekly energy usage is " + formatUsage(totalWeeklyUsage) +
				" kWh, which is higher than average. Consider turning off unused devices.",
		}
	}
	return UsageReport{}
}

// DetectForgotten reports every energized device with a fixed reason.
// The routine description is accepted for interface compatibility but
// carries no semantics.
func DetectForgotten(devices []device.Device, routineDescription string) []ForgottenReport {
	reports := []ForgottenReport{}
	for _, d := range devices {
		if device.IsOn(d) {
			reports = append(reports, ForgottenReport{
				DeviceID:   d.ID,
				DeviceName: d.Name,
				Reason:     forgottenReason,
			})
		}
	}
	return reports
}

// SuggestRoutines returns the fixed routine suggestion list. The device
// list and usage patterns are accepted for interface compatibility but
// do not influence the output.
func SuggestRoutines(deviceList, usagePatterns string) []string {
	return []string{
		"Turn off all lights when leaving home",
		"Set thermostat to 19°C at night",
		"Turn on porch light at sunset",
		"Coffee maker on at 7 AM weekdays",
	}
}

// formatUsage renders the total the shortest way that round-trips, so
// whole-number totals print without a decimal point.
func formatUsage(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
