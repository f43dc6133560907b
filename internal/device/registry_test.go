package device

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testDevices() []Device {
	return []Device{
		{ID: "1", Name: "Living Room Lamp", Type: TypeLight, Status: StatusOn, Value: intPtr(80)},
		{ID: "2", Name: "Main Thermostat", Type: TypeThermostat, Status: StatusOn, Value: intPtr(21)},
		{ID: "3", Name: "Office Fan", Type: TypeFan, Status: StatusIdle},
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry(testDevices())

	d, ok := reg.Lookup("2")
	require.True(t, ok)
	require.Equal(t, "Main Thermostat", d.Name)

	_, ok = reg.Lookup("missing")
	require.False(t, ok)
}

func TestRegistry_ReplacePreservesOrder(t *testing.T) {
	reg := NewRegistry(testDevices())

	d, _ := reg.Lookup("2")
	updated := reg.Replace(Apply(d, TurnOnRequest(false)))

	devices := updated.Devices()
	require.Len(t, devices, 3)
	require.Equal(t, []string{"1", "2", "3"}, []string{devices[0].ID, devices[1].ID, devices[2].ID})
	require.Equal(t, StatusOff, devices[1].Status)

	// The original snapshot is untouched.
	original, _ := reg.Lookup("2")
	require.Equal(t, StatusOn, original.Status)
}

func TestRegistry_ReplaceUnknownIDIsNoop(t *testing.T) {
	reg := NewRegistry(testDevices())
	updated := reg.Replace(Device{ID: "99", Name: "Ghost", Type: TypeLight, Status: StatusOn})

	require.Equal(t, reg.Len(), updated.Len())
	_, ok := updated.Lookup("99")
	require.False(t, ok)
}

func TestRegistry_DevicesReturnsCopy(t *testing.T) {
	reg := NewRegistry(testDevices())

	devices := reg.Devices()
	devices[0].Status = StatusOff

	d, _ := reg.Lookup("1")
	require.Equal(t, StatusOn, d.Status)
}
