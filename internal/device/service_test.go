package device

import (
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/daksh151005/homesync-hub-go/internal/audit"
	"github.com/daksh151005/homesync-hub-go/internal/db"
	"github.com/daksh151005/homesync-hub-go/internal/events"
	"github.com/daksh151005/homesync-hub-go/internal/metrics"
)

func setupService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	dbPair, err := db.Init(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { dbPair.Close() })

	hub := events.NewHub()
	t.Cleanup(hub.Close)

	m := metrics.New()
	auditService := audit.NewService(audit.NewRepository(dbPair), 30)
	repo := NewRepository(dbPair, db.NowISO)

	return NewService(repo, auditService, hub, m), repo
}

func TestService_Toggle(t *testing.T) {
	service, repo := setupService(t)
	require.NoError(t, repo.Insert("local", Device{
		ID: "5", Name: "Office Fan", Type: TypeFan, Status: StatusIdle,
	}))

	d, err := service.Toggle("local", "5", true)
	require.NoError(t, err)
	require.Equal(t, StatusActive, d.Status)

	d, err = service.Toggle("local", "5", false)
	require.NoError(t, err)
	require.Equal(t, StatusIdle, d.Status)
}

func TestService_Toggle_UnknownDevice(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.Toggle("local", "nope", true)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "nope", notFound.DeviceID)
}

func TestService_SetValue_Clamps(t *testing.T) {
	service, repo := setupService(t)
	require.NoError(t, repo.Insert("local", Device{
		ID: "1", Name: "Living Room Lamp", Type: TypeLight, Status: StatusOn, Value: intPtr(80),
	}))
	require.NoError(t, repo.Insert("local", Device{
		ID: "2", Name: "Main Thermostat", Type: TypeThermostat, Status: StatusOn, Value: intPtr(21),
	}))

	d, err := service.SetValue("local", "1", 150)
	require.NoError(t, err)
	require.Equal(t, 100, *d.Value)

	d, err = service.SetValue("local", "2", 5)
	require.NoError(t, err)
	require.Equal(t, 15, *d.Value)

	d, err = service.SetValue("local", "2", 22)
	require.NoError(t, err)
	require.Equal(t, 22, *d.Value)
	// Status untouched by a value write.
	require.Equal(t, StatusOn, d.Status)
}

func TestService_Registry(t *testing.T) {
	service, repo := setupService(t)
	require.NoError(t, repo.Insert("local", Device{
		ID: "1", Name: "Living Room Lamp", Type: TypeLight, Status: StatusOn,
	}))

	reg, err := service.Registry("local")
	require.NoError(t, err)
	require.Equal(t, 1, reg.Len())

	reg, err = service.Registry("someone-else")
	require.NoError(t, err)
	require.Zero(t, reg.Len())
}
