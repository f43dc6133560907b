package device

// Request describes a single transition. TurnOn and SetValue may both be set;
// the power transition applies first, then the value write.
type Request struct {
	TurnOn   *bool
	SetValue *int
}

// TurnOnRequest builds a power transition request.
func TurnOnRequest(on bool) Request {
	return Request{TurnOn: &on}
}

// SetValueRequest builds a value write request.
func SetValueRequest(v int) Request {
	return Request{SetValue: &v}
}

// Apply returns the device after the requested transition. The operation is
// total: it never fails for well-typed input, and out-of-range values are
// written as-is (callers clamp where they want range enforcement).
func Apply(d Device, req Request) Device {
	if req.TurnOn != nil {
		d.Status = statusFor(d.Type, *req.TurnOn)
	}
	if req.SetValue != nil {
		v := *req.SetValue
		d.Value = &v
	}
	return d
}

// IsOn is the single energized predicate shared by every component.
func IsOn(d Device) bool {
	return d.Status == StatusOn || d.Status == StatusActive
}

// ClampValue clamps v to the valid range of type t. Types without a value
// range return v unchanged.
func ClampValue(t Type, v int) int {
	min, max, ok := ValueRange(t)
	if !ok {
		return v
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func statusFor(t Type, on bool) Status {
	if t == TypeFan {
		if on {
			return StatusActive
		}
		return StatusIdle
	}
	if on {
		return StatusOn
	}
	return StatusOff
}
