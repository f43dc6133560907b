package seed

import (
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/daksh151005/homesync-hub-go/internal/advisor"
	"github.com/daksh151005/homesync-hub-go/internal/db"
	"github.com/daksh151005/homesync-hub-go/internal/device"
	"github.com/daksh151005/homesync-hub-go/internal/routine"
	"github.com/daksh151005/homesync-hub-go/internal/schedule"
)

type testRepos struct {
	devices   *device.Repository
	routines  *routine.Repository
	schedules *schedule.Repository
	energy    *advisor.Repository
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	dbPair, err := db.Init(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { dbPair.Close() })

	return testRepos{
		devices:   device.NewRepository(dbPair, db.NowISO),
		routines:  routine.NewRepository(dbPair),
		schedules: schedule.NewRepository(dbPair),
		energy:    advisor.NewRepository(dbPair),
	}
}

func newSeeder(t *testing.T, repos testRepos, seedPath string) *Seeder {
	t.Helper()
	seeder, err := New(repos.devices, repos.routines, repos.schedules, repos.energy, seedPath)
	require.NoError(t, err)
	return seeder
}

func TestDefaults_PassValidation(t *testing.T) {
	data := Defaults()
	require.Len(t, data.Devices, 7)
	require.Len(t, data.Routines, 3)
	require.Len(t, data.Schedules, 3)
	require.Len(t, data.Energy, 7)
	require.NoError(t, validate(data))
}

func TestEnsureUser_SeedsEmptyUser(t *testing.T) {
	repos := setupRepos(t)
	seeder := newSeeder(t, repos, "")

	require.NoError(t, seeder.EnsureUser("local"))

	devices, err := repos.devices.List("local")
	require.NoError(t, err)
	require.Len(t, devices, 7)
	require.Equal(t, "Living Room Lamp", devices[0].Name)
	// Thermostat seeds with the on/off vocabulary.
	require.Equal(t, device.StatusOn, devices[1].Status)
	require.Equal(t, device.StatusIdle, devices[4].Status)

	routines, total, err := repos.routines.List("local", 100, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Equal(t, "Good Morning", routines[0].Name)
	require.Len(t, routines[1].Actions, 6)

	schedules, _, err := repos.schedules.List("local", 100, 0)
	require.NoError(t, err)
	require.Len(t, schedules, 3)

	total2, err := repos.energy.TotalUsage("local")
	require.NoError(t, err)
	require.InDelta(t, 115, total2, 0.001)
}

func TestEnsureUser_Idempotent(t *testing.T) {
	repos := setupRepos(t)
	seeder := newSeeder(t, repos, "")

	require.NoError(t, seeder.EnsureUser("local"))
	require.NoError(t, seeder.EnsureUser("local"))

	count, err := repos.devices.Count("local")
	require.NoError(t, err)
	require.Equal(t, 7, count)
}

func TestEnsureUser_SkipsNonEmptyRegistry(t *testing.T) {
	repos := setupRepos(t)
	require.NoError(t, repos.devices.Insert("local", device.Device{
		ID: "custom", Name: "My Lamp", Type: device.TypeLight, Status: device.StatusOff,
	}))

	seeder := newSeeder(t, repos, "")
	require.NoError(t, seeder.EnsureUser("local"))

	count, err := repos.devices.Count("local")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestEnsureUser_PerUserIsolation(t *testing.T) {
	repos := setupRepos(t)
	seeder := newSeeder(t, repos, "")

	require.NoError(t, seeder.EnsureUser("alice"))

	count, err := repos.devices.Count("bob")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestLoadFile_YAMLOverride(t *testing.T) {
	seedYAML := `
devices:
  - id: "d1"
    name: Desk Lamp
    room: Office
    type: light
    status: "off"
    value: 40
schedules:
  - id: "s1"
    name: Morning
    device_id: "d1"
    time: "06:45"
    action: "on"
    days: [Mon, Wed, Fri]
    enabled: true
energy:
  - day: Mon
    usage: 9.5
`
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	repos := setupRepos(t)
	seeder := newSeeder(t, repos, path)

	require.NoError(t, seeder.EnsureUser("local"))

	devices, err := repos.devices.List("local")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	require.Equal(t, "Desk Lamp", devices[0].Name)
	require.Equal(t, 40, *devices[0].Value)

	schedules, _, err := repos.schedules.List("local", 100, 0)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	require.Equal(t, []string{"Mon", "Wed", "Fri"}, schedules[0].Days)
}

func TestNew_RejectsInvalidSeed(t *testing.T) {
	seedYAML := `
devices:
  - id: "d1"
    name: Broken Fan
    room: Office
    type: fan
    status: "on"
`
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	repos := setupRepos(t)
	_, err := New(repos.devices, repos.routines, repos.schedules, repos.energy, path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status")
}
