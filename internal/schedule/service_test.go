package schedule

import (
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/daksh151005/homesync-hub-go/internal/audit"
	"github.com/daksh151005/homesync-hub-go/internal/db"
	"github.com/daksh151005/homesync-hub-go/internal/device"
	"github.com/daksh151005/homesync-hub-go/internal/events"
	"github.com/daksh151005/homesync-hub-go/internal/metrics"
)

type serviceFixture struct {
	service *Service
	devices *device.Repository
}

func setupService(t *testing.T) serviceFixture {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	dbPair, err := db.Init(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { dbPair.Close() })

	hub := events.NewHub()
	t.Cleanup(hub.Close)

	m := metrics.New()
	auditService := audit.NewService(audit.NewRepository(dbPair), 30)
	deviceRepo := device.NewRepository(dbPair, db.NowISO)
	deviceService := device.NewService(deviceRepo, auditService, hub, m)

	return serviceFixture{
		service: NewService(NewRepository(dbPair), deviceService, auditService, hub, m),
		devices: deviceRepo,
	}
}

func intPtr(v int) *int { return &v }

func TestService_CreateValidates(t *testing.T) {
	f := setupService(t)

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"empty name", CreateInput{DeviceID: "3", Time: "07:00", Action: ActionOn, Days: []string{"Mon"}}},
		{"empty device", CreateInput{Name: "X", Time: "07:00", Action: ActionOn, Days: []string{"Mon"}}},
		{"bad time", CreateInput{Name: "X", DeviceID: "3", Time: "25:00", Action: ActionOn, Days: []string{"Mon"}}},
		{"bad action", CreateInput{Name: "X", DeviceID: "3", Time: "07:00", Action: "toggle", Days: []string{"Mon"}}},
		{"empty days", CreateInput{Name: "X", DeviceID: "3", Time: "07:00", Action: ActionOn}},
		{"bad day token", CreateInput{Name: "X", DeviceID: "3", Time: "07:00", Action: ActionOn, Days: []string{"Monday"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create("local", tc.input)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
		})
	}
}

func TestService_CreateAcceptsUnknownDevice(t *testing.T) {
	f := setupService(t)

	// Device references are weak; the target is resolved at fire time.
	created, err := f.service.Create("local", CreateInput{
		Name: "Future Device", DeviceID: "not-yet", Time: "07:00",
		Action: ActionOn, Days: []string{"Mon"},
	})
	require.NoError(t, err)
	require.NotNil(t, created)
}

func TestService_Tick_FiresDueSchedule(t *testing.T) {
	f := setupService(t)

	require.NoError(t, f.devices.Insert("local", device.Device{
		ID: "3", Name: "Bedroom Light", Type: device.TypeLight, Status: device.StatusOff, Value: intPtr(100),
	}))

	_, err := f.service.Create("local", CreateInput{
		Name: "Weekday Wake-up", DeviceID: "3", Time: "07:00",
		Action: ActionOn, Days: []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
	})
	require.NoError(t, err)

	f.service.Tick(Moment{Weekday: "Mon", Time: "07:00", Date: "2026-08-24"})

	d, err := f.devices.GetByID("local", "3")
	require.NoError(t, err)
	require.Equal(t, device.StatusOn, d.Status)
}

func TestService_Tick_AtMostOncePerMinute(t *testing.T) {
	f := setupService(t)

	require.NoError(t, f.devices.Insert("local", device.Device{
		ID: "3", Name: "Bedroom Light", Type: device.TypeLight, Status: device.StatusOff,
	}))

	_, err := f.service.Create("local", CreateInput{
		Name: "Wake-up", DeviceID: "3", Time: "07:00",
		Action: ActionOn, Days: []string{"Mon"},
	})
	require.NoError(t, err)

	moment := Moment{Weekday: "Mon", Time: "07:00", Date: "2026-08-24"}
	f.service.Tick(moment)

	// Flip the device back off by hand; a second tick in the same
	// minute must not re-fire.
	require.NoError(t, f.devices.SaveState("local", device.Device{
		ID: "3", Type: device.TypeLight, Status: device.StatusOff,
	}))
	f.service.Tick(moment)

	d, err := f.devices.GetByID("local", "3")
	require.NoError(t, err)
	require.Equal(t, device.StatusOff, d.Status)

	// The same weekday minute one week later is a new calendar minute
	// and fires again.
	f.service.Tick(Moment{Weekday: "Mon", Time: "07:00", Date: "2026-08-31"})
	d, err = f.devices.GetByID("local", "3")
	require.NoError(t, err)
	require.Equal(t, device.StatusOn, d.Status)
}

func TestService_Tick_SkipsNonMatching(t *testing.T) {
	f := setupService(t)

	require.NoError(t, f.devices.Insert("local", device.Device{
		ID: "3", Name: "Bedroom Light", Type: device.TypeLight, Status: device.StatusOff,
	}))

	_, err := f.service.Create("local", CreateInput{
		Name: "Wake-up", DeviceID: "3", Time: "07:00",
		Action: ActionOn, Days: []string{"Mon"},
	})
	require.NoError(t, err)

	f.service.Tick(Moment{Weekday: "Tue", Time: "07:00", Date: "2026-08-25"})
	f.service.Tick(Moment{Weekday: "Mon", Time: "07:01", Date: "2026-08-24"})

	d, err := f.devices.GetByID("local", "3")
	require.NoError(t, err)
	require.Equal(t, device.StatusOff, d.Status)
}

func TestService_Tick_MissingTargetIsNotFatal(t *testing.T) {
	f := setupService(t)

	require.NoError(t, f.devices.Insert("local", device.Device{
		ID: "1", Name: "Living Room Lamp", Type: device.TypeLight, Status: device.StatusOff,
	}))

	_, err := f.service.Create("local", CreateInput{
		Name: "Ghost", DeviceID: "gone", Time: "07:00",
		Action: ActionOn, Days: []string{"Mon"},
	})
	require.NoError(t, err)

	f.service.Tick(Moment{Weekday: "Mon", Time: "07:00", Date: "2026-08-24"})

	// The rest of the registry is untouched.
	d, err := f.devices.GetByID("local", "1")
	require.NoError(t, err)
	require.Equal(t, device.StatusOff, d.Status)
}

func TestService_SetEnabled(t *testing.T) {
	f := setupService(t)

	created, err := f.service.Create("local", CreateInput{
		Name: "Wake-up", DeviceID: "3", Time: "07:00",
		Action: ActionOn, Days: []string{"Mon"},
	})
	require.NoError(t, err)
	require.True(t, created.Enabled)

	updated, err := f.service.SetEnabled("local", created.ID, false)
	require.NoError(t, err)
	require.False(t, updated.Enabled)

	// Disabled schedules are retained but never fire.
	f.service.Tick(Moment{Weekday: "Mon", Time: "07:00", Date: "2026-08-24"})
	fetched, err := f.service.Get("local", created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
}
