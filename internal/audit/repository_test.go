package audit

import (
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/daksh151005/homesync-hub-go/internal/db"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	dbPair, err := db.Init(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { dbPair.Close() })

	return NewRepository(dbPair)
}

func TestRepository_InsertAndList(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.Insert("local", EventLevelInfo, EventDeviceToggled, "Device Living Room Lamp turned on", map[string]any{
		"device_id": "1",
	})
	require.NoError(t, err)

	events, total, err := repo.List("local", 100, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, events, 1)

	e := events[0]
	require.NotZero(t, e.EventID)
	require.Equal(t, EventLevelInfo, e.Level)
	require.Equal(t, EventDeviceToggled, e.Type)
	require.Equal(t, "Device Living Room Lamp turned on", e.Message)
	require.Equal(t, "1", e.Details["device_id"])
	require.False(t, e.CreatedAt.IsZero())
}

func TestRepository_ListNewestFirst(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Insert("local", EventLevelInfo, EventRoutineCreated, "first", nil))
	require.NoError(t, repo.Insert("local", EventLevelInfo, EventRoutineExecuted, "second", nil))

	events, _, err := repo.List("local", 100, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "second", events[0].Message)
	require.Equal(t, "first", events[1].Message)
}

func TestRepository_ListScopedToUser(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Insert("alice", EventLevelInfo, EventScheduleFired, "alice event", nil))

	events, total, err := repo.List("bob", 100, 0)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, events)
}

func TestRepository_Prune(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Insert("local", EventLevelInfo, EventSystemStartup, "old enough", nil))

	pruned, err := repo.Prune(time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, pruned)

	_, total, err := repo.List("local", 100, 0)
	require.NoError(t, err)
	require.Zero(t, total)

	pruned, err = repo.Prune(time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, pruned)
}
