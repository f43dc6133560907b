package command

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/daksh151005/homesync-hub-go/internal/device"
)

// Intent is the action a free-text command resolves to.
type Intent string

const (
	IntentOn  Intent = "on"
	IntentOff Intent = "off"
	IntentSet Intent = "set"
)

const (
	feedbackUnrecognized = "I didn't understand that command. Try saying 'turn on living room light' or 'turn off thermostat'."
	feedbackNotMatched   = "I couldn't find that device. Try saying 'turn on living room lamp' or 'turn off thermostat'."
)

var (
	actionKeywords = regexp.MustCompile(`turn on|turn off|turnon|turnoff|set`)
	toValue        = regexp.MustCompile(`to (\d+)`)
)

// Result is the outcome of interpreting one command. On success, Device
// holds the matched device and Intent the resolved action; Value is
// non-nil when the command carried a "to <n>" fragment. On failure,
// Feedback carries the user-facing explanation.
type Result struct {
	Success  bool
	Intent   Intent
	Device   *device.Device
	Value    *int
	Feedback string
}

// Interpret parses a free-text command against the device list using
// keyword extraction plus fuzzy name scoring. The scoring formula is
// fixed: one point per residual word contained in the device name, ten
// for an exact name match, five when the residual contains the full
// name. The first device with a strictly higher score wins; a best
// score of zero is a failed match.
func Interpret(command string, devices []device.Device) Result {
	lower := strings.ToLower(command)

	var intent Intent
	switch {
	case strings.Contains(lower, "turn on") || strings.Contains(lower, "turnon"):
		intent = IntentOn
	case strings.Contains(lower, "turn off") || strings.Contains(lower, "turnoff"):
		intent = IntentOff
	case strings.Contains(lower, "set"):
		intent = IntentSet
	default:
		return Result{Success: false, Feedback: feedbackUnrecognized}
	}

	var value *int
	if m := toValue.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			value = &v
		}
	}

	residual := actionKeywords.ReplaceAllString(lower, "")
	residual = toValue.ReplaceAllString(residual, "")
	residual = strings.TrimSpace(residual)

	var bestMatch *device.Device
	bestScore := 0

	for i := range devices {
		name := strings.ToLower(devices[i].Name)
		score := 0

		for _, word := range strings.Split(residual, " ") {
			if word != "" && strings.Contains(name, word) {
				score++
			}
		}

		if name == residual {
			score += 10
		} else if strings.Contains(residual, name) {
			score += 5
		}

		if score > bestScore {
			bestScore = score
			bestMatch = &devices[i]
		}
	}

	if bestMatch == nil || bestScore == 0 {
		return Result{Success: false, Feedback: feedbackNotMatched}
	}

	return Result{
		Success:  true,
		Intent:   intent,
		Device:   bestMatch,
		Value:    value,
		Feedback: feedbackFor(intent, bestMatch.Name),
	}
}

func feedbackFor(intent Intent, deviceName string) string {
	switch intent {
	case IntentOn:
		return "Turning on " + deviceName
	case IntentOff:
		return "Turning off " + deviceName
	default:
		return "Setting " + deviceName
	}
}
