package routine

import (
	"github.com/daksh151005/homesync-hub-go/internal/device"
)

// Execute applies a routine's actions, in order, against a registry snapshot
// and returns the transformed snapshot. Actions whose device id is absent
// are skipped silently: a routine may reference a stale device, and partial
// application is the expected, non-error outcome. Device order is preserved
// and the last write per device wins.
func Execute(r Routine, reg device.Registry) device.Registry {
	for _, action := range r.Actions {
		target, ok := reg.Lookup(action.DeviceID)
		if !ok {
			continue
		}

		updated := device.Apply(target, device.TurnOnRequest(action.Action == ActionOn))
		if action.Value != nil {
			updated = device.Apply(updated, device.SetValueRequest(*action.Value))
		}

		reg = reg.Replace(updated)
	}
	return reg
}
