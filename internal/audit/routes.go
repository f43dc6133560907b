package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/daksh151005/homesync-hub-go/internal/api"
	"github.com/daksh151005/homesync-hub-go/internal/apperrors"
	"github.com/daksh151005/homesync-hub-go/internal/auth"
)

// RegisterRoutes wires audit routes to the router.
func RegisterRoutes(router chi.Router, service *Service) {
	router.Method(http.MethodGet, "/v1/audit/events", api.Handler(listEvents(service)))
}

func listEvents(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		limit, offset := paginationParams(r, 100)

		events, total, err := service.List(userID, limit, offset)
		if err != nil {
			return apperrors.NewInternalError("Failed to list audit events")
		}

		formatted := make([]map[string]any, 0, len(events))
		for _, e := range events {
			entry := map[string]any{
				"object":     api.ObjectAuditEvent,
				"event_id":   e.EventID,
				"level":      string(e.Level),
				"type":       string(e.Type),
				"message":    e.Message,
				"created_at": api.RFC3339Millis(e.CreatedAt),
			}
			if e.Details != nil {
				entry["details"] = e.Details
			}
			formatted = append(formatted, entry)
		}

		hasMore := offset+len(events) < total
		return api.WriteList(w, "/v1/audit/events", formatted, hasMore)
	}
}

func paginationParams(r *http.Request, maxLimit int) (limit, offset int) {
	limit = maxLimit
	offset = 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxLimit {
			limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
