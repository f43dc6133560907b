package events

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/daksh151005/homesync-hub-go/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard is served from arbitrary origins in development;
	// bearer auth already gates the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes wires the websocket event stream to the router.
func RegisterRoutes(router chi.Router, hub *Hub) {
	router.Get("/v1/events/ws", func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("events: upgrade failed: %v", err)
			return
		}

		hub.add(conn, userID)
	})
}
