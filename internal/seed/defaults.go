package seed

func intPtr(v int) *int { return &v }

// Defaults returns the built-in first-run dataset: a seven-device home
// with three routines, three schedules, and a week of energy samples.
// The thermostat seeds as "on" rather than the legacy "active"; only
// fans use the active/idle vocabulary.
func Defaults() Data {
	return Data{
		Devices: []DeviceSeed{
			{ID: "1", Name: "Living Room Lamp", Room: "Living Room", Type: "light", Status: "on", Value: intPtr(80)},
			{ID: "2", Name: "Main Thermostat", Room: "Home", Type: "thermostat", Status: "on", Value: intPtr(21)},
			{ID: "3", Name: "Bedroom Light", Room: "Bedroom", Type: "light", Status: "off", Value: intPtr(100)},
			{ID: "4", Name: "Kitchen Outlet", Room: "Kitchen", Type: "socket", Status: "on"},
			{ID: "5", Name: "Office Fan", Room: "Office", Type: "fan", Status: "idle"},
			{ID: "6", Name: "Porch Light", Room: "Exterior", Type: "light", Status: "off", Value: intPtr(60)},
			{ID: "7", Name: "TV Socket", Room: "Living Room", Type: "socket", Status: "off"},
		},
		Routines: []RoutineSeed{
			{
				ID: "r1", Name: "Good Morning", Icon: "sunrise",
				Actions: []ActionSeed{
					{DeviceID: "3", Action: "on", Value: intPtr(50)},
					{DeviceID: "2", Action: "on", Value: intPtr(22)},
				},
			},
			{
				ID: "r2", Name: "Good Night", Icon: "bed",
				Actions: []ActionSeed{
					{DeviceID: "1", Action: "off"},
					{DeviceID: "3", Action: "off"},
					{DeviceID: "4", Action: "off"},
					{DeviceID: "6", Action: "off"},
					{DeviceID: "7", Action: "off"},
					{DeviceID: "2", Action: "on", Value: intPtr(19)},
				},
			},
			{
				ID: "r3", Name: "Movie Time", Icon: "sparkles",
				Actions: []ActionSeed{
					{DeviceID: "1", Action: "on", Value: intPtr(20)},
					{DeviceID: "3", Action: "off"},
					{DeviceID: "7", Action: "on"},
				},
			},
		},
		Schedules: []ScheduleSeed{
			{
				ID: "s1", Name: "Weekday Wake-up", DeviceID: "3", Time: "07:00", Action: "on",
				Days: []string{"Mon", "Tue", "Wed", "Thu", "Fri"}, Enabled: true,
			},
			{
				ID: "s2", Name: "Evening Porch Light", DeviceID: "6", Time: "18:30", Action: "on",
				Days: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, Enabled: true,
			},
			{
				ID: "s3", Name: "Nighttime Thermostat", DeviceID: "2", Time: "23:00", Action: "on",
				Days: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, Enabled: false,
			},
		},
		Energy: []EnergySeed{
			{Day: "Mon", Usage: 12},
			{Day: "Tue", Usage: 15},
			{Day: "Wed", Usage: 11},
			{Day: "Thu", Usage: 17},
			{Day: "Fri", Usage: 18},
			{Day: "Sat", Usage: 22},
			{Day: "Sun", Usage: 20},
		},
	}
}
