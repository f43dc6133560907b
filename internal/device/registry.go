package device

// Registry is an immutable snapshot of the authoritative device set.
// Transformations return a new Registry; device order is preserved across
// every operation.
type Registry struct {
	devices []Device
}

// NewRegistry builds a registry from seed or persisted devices. The input
// slice is copied; later mutations of it do not affect the registry.
func NewRegistry(devices []Device) Registry {
	copied := make([]Device, len(devices))
	copy(copied, devices)
	return Registry{devices: copied}
}

// Devices returns the devices in registry order.
func (r Registry) Devices() []Device {
	copied := make([]Device, len(r.devices))
	copy(copied, r.devices)
	return copied
}

// Len returns the number of devices.
func (r Registry) Len() int {
	return len(r.devices)
}

// Lookup finds a device by id.
func (r Registry) Lookup(id string) (Device, bool) {
	for _, d := range r.devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// Replace returns a registry with the device of the same id swapped for d,
// keeping its position. If no device has that id the registry is returned
// unchanged.
func (r Registry) Replace(d Device) Registry {
	for i, existing := range r.devices {
		if existing.ID == d.ID {
			copied := make([]Device, len(r.devices))
			copy(copied, r.devices)
			copied[i] = d
			return Registry{devices: copied}
		}
	}
	return r
}
