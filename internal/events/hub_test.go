package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/daksh151005/homesync-hub-go/internal/auth"
)

func setupHub(t *testing.T, userID string) (*Hub, *websocket.Conn) {
	t.Helper()

	hub := NewHub()
	t.Cleanup(hub.Close)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.User{Sub: userID, UserName: "Test User", Type: auth.TokenTypeAccess}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	})
	RegisterRoutes(router, hub)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/events/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return hub, conn
}

func TestHub_BroadcastReachesOwnUser(t *testing.T) {
	hub, conn := setupHub(t, "alice")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast("alice", TypeDeviceChanged, map[string]any{"id": "1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, "event", event.Object)
	require.Equal(t, TypeDeviceChanged, event.Type)
	require.NotEmpty(t, event.At)
}

func TestHub_BroadcastIsUserScoped(t *testing.T) {
	hub, conn := setupHub(t, "alice")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast("bob", TypeScheduleFired, nil)
	hub.Broadcast("alice", TypeRoutineExecuted, nil)

	// The first frame alice sees is her own event; bob's never arrives.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, TypeRoutineExecuted, event.Type)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub, conn := setupHub(t, "alice")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	require.Zero(t, hub.ClientCount())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}
