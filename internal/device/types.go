package device

// Type classifies a device and determines its status vocabulary.
type Type string

const (
	TypeLight      Type = "light"
	TypeThermostat Type = "thermostat"
	TypeSwitch     Type = "switch"
	TypeFan        Type = "fan"
	TypeSocket     Type = "socket"
)

// Status is the current power state of a device. Fans report active/idle,
// every other type reports on/off. The transition policy is the only writer,
// so the vocabularies never mix for one type.
type Status string

const (
	StatusOn     Status = "on"
	StatusOff    Status = "off"
	StatusActive Status = "active"
	StatusIdle   Status = "idle"
)

// Device is a single entry in the registry.
// Value carries brightness (0-100) for lights and °C (15-30) for thermostats;
// it is absent for other types.
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Room   string `json:"room"`
	Type   Type   `json:"type"`
	Status Status `json:"status"`
	Value  *int   `json:"value,omitempty"`
}

// ValidType reports whether t is a known device type.
func ValidType(t Type) bool {
	switch t {
	case TypeLight, TypeThermostat, TypeSwitch, TypeFan, TypeSocket:
		return true
	}
	return false
}

// ValidStatus reports whether status belongs to the vocabulary of type t.
func ValidStatus(t Type, status Status) bool {
	if t == TypeFan {
		return status == StatusActive || status == StatusIdle
	}
	return status == StatusOn || status == StatusOff
}

// HasValue reports whether type t carries a meaningful value.
func HasValue(t Type) bool {
	return t == TypeLight || t == TypeThermostat
}

// ValueRange returns the valid value range for type t. ok is false for types
// that carry no value.
func ValueRange(t Type) (min, max int, ok bool) {
	switch t {
	case TypeLight:
		return 0, 100, true
	case TypeThermostat:
		return 15, 30, true
	}
	return 0, 0, false
}
