package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/daksh151005/homesync-hub-go/internal/apperrors"
)

// Object type identifiers embedded in serialized resources.
const (
	ObjectDevice          = "device"
	ObjectRoutine         = "routine"
	ObjectSchedule        = "schedule"
	ObjectCommandResult   = "command_result"
	ObjectEnergySample    = "energy_sample"
	ObjectEnergyReport    = "energy_report"
	ObjectForgottenReport = "forgotten_device_report"
	ObjectAuditEvent      = "audit_event"
)

// ListResponse is the Stripe-style list envelope for all collection endpoints.
// Example: {"object": "list", "data": [...], "has_more": false, "url": "/v1/devices"}
type ListResponse struct {
	Object  string `json:"object"`
	Data    any    `json:"data"`
	HasMore bool   `json:"has_more"`
	URL     string `json:"url"`
}

// ErrorResponse wraps errors in Stripe format.
type ErrorResponse struct {
	Error apperrors.ErrorBody `json:"error"`
}

// WriteJSON sends a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// WriteError serializes an AppError into the error envelope.
// Response format: {"error": {"type": "...", "code": "...", "message": "..."}}
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.EnsureAppError(err)

	response := ErrorResponse{
		Error: appErr.ErrorBody(),
	}

	_ = WriteJSON(w, appErr.StatusCode, response)
}

// WriteList writes a list response.
// Example: WriteList(w, "/v1/devices", devices, false)
func WriteList(w http.ResponseWriter, url string, data any, hasMore bool) error {
	return WriteJSON(w, http.StatusOK, ListResponse{
		Object:  "list",
		Data:    data,
		HasMore: hasMore,
		URL:     url,
	})
}

// WriteResource writes a single resource directly (no wrapper).
// The resource should already have an "object" field set.
func WriteResource(w http.ResponseWriter, status int, resource any) error {
	return WriteJSON(w, status, resource)
}

// WriteAction writes an action result directly (no wrapper).
// The result should already have an "object" field set.
func WriteAction(w http.ResponseWriter, status int, result any) error {
	return WriteJSON(w, status, result)
}

// RFC3339Millis formats a timestamp with millisecond precision.
func RFC3339Millis(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
