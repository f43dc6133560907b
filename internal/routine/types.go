package routine

import "time"

// ActionKind is the power action a routine step requests.
type ActionKind string

const (
	ActionOn  ActionKind = "on"
	ActionOff ActionKind = "off"
)

// Action is one step of a routine: a power transition for a target device,
// optionally followed by a value write.
type Action struct {
	DeviceID string     `json:"deviceId"`
	Action   ActionKind `json:"action"`
	Value    *int       `json:"value,omitempty"`
}

// Routine is a named, user-triggered ordered batch of device actions.
// Actions apply in sequence order; later actions for the same device
// override earlier ones within one run.
type Routine struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Actions   []Action  `json:"actions"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput contains the input for creating a routine.
type CreateInput struct {
	Name    string   `json:"name"`
	Icon    string   `json:"icon"`
	Actions []Action `json:"actions"`
}

// UpdateInput contains the input for updating a routine.
type UpdateInput struct {
	Name    *string  `json:"name,omitempty"`
	Icon    *string  `json:"icon,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

// ValidAction reports whether kind is a known power action.
func ValidAction(kind ActionKind) bool {
	return kind == ActionOn || kind == ActionOff
}
