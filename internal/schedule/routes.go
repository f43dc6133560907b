package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/daksh151005/homesync-hub-go/internal/api"
	"github.com/daksh151005/homesync-hub-go/internal/apperrors"
	"github.com/daksh151005/homesync-hub-go/internal/auth"
)

// RegisterRoutes wires schedule routes to the router.
func RegisterRoutes(router chi.Router, service *Service) {
	router.Method(http.MethodPost, "/v1/schedules", api.Handler(createSchedule(service)))
	router.Method(http.MethodGet, "/v1/schedules", api.Handler(listSchedules(service)))
	router.Method(http.MethodGet, "/v1/schedules/{schedule_id}", api.Handler(getSchedule(service)))
	router.Method(http.MethodPut, "/v1/schedules/{schedule_id}", api.Handler(updateSchedule(service)))
	router.Method(http.MethodDelete, "/v1/schedules/{schedule_id}", api.Handler(deleteSchedule(service)))
	router.Method(http.MethodPost, "/v1/schedules/{schedule_id}/enable", api.Handler(enableSchedule(service)))
}

func createSchedule(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())

		var input CreateInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}

		created, err := service.Create(userID, input)
		if err != nil {
			return scheduleError(err)
		}

		return api.WriteResource(w, http.StatusCreated, formatSchedule(service, userID, created))
	}
}

func listSchedules(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		limit, offset := paginationParams(r, 100)

		schedules, total, err := service.List(userID, limit, offset)
		if err != nil {
			return apperrors.NewInternalError("Failed to list schedules")
		}

		formatted := make([]map[string]any, 0, len(schedules))
		for i := range schedules {
			formatted = append(formatted, formatSchedule(service, userID, &schedules[i]))
		}

		hasMore := offset+len(schedules) < total
		return api.WriteList(w, "/v1/schedules", formatted, hasMore)
	}
}

func getSchedule(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		scheduleID := chi.URLParam(r, "schedule_id")

		s, err := service.Get(userID, scheduleID)
		if err != nil {
			return apperrors.NewInternalError("Failed to get schedule")
		}
		if s == nil {
			return scheduleNotFound(scheduleID)
		}

		return api.WriteResource(w, http.StatusOK, formatSchedule(service, userID, s))
	}
}

func updateSchedule(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		scheduleID := chi.URLParam(r, "schedule_id")

		var input UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}

		s, err := service.Update(userID, scheduleID, input)
		if err != nil {
			return scheduleError(err)
		}
		if s == nil {
			return scheduleNotFound(scheduleID)
		}

		return api.WriteResource(w, http.StatusOK, formatSchedule(service, userID, s))
	}
}

func deleteSchedule(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		scheduleID := chi.URLParam(r, "schedule_id")

		if err := service.Delete(userID, scheduleID); err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return scheduleNotFound(scheduleID)
			}
			return apperrors.NewInternalError("Failed to delete schedule")
		}

		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}

func enableSchedule(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		scheduleID := chi.URLParam(r, "schedule_id")

		var body struct {
			Enabled *bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if body.Enabled == nil {
			return apperrors.NewValidationError("enabled is required", nil)
		}

		s, err := service.SetEnabled(userID, scheduleID, *body.Enabled)
		if err != nil {
			return scheduleError(err)
		}
		if s == nil {
			return scheduleNotFound(scheduleID)
		}

		return api.WriteResource(w, http.StatusOK, formatSchedule(service, userID, s))
	}
}

func scheduleError(err error) error {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return apperrors.NewAppError(apperrors.ErrorCodeInvalidSchedule, validation.Message, 400, map[string]any{
			"field": validation.Field,
		})
	}
	return apperrors.NewInternalError("Failed to save schedule")
}

func scheduleNotFound(scheduleID string) *apperrors.AppError {
	return apperrors.NewAppError(apperrors.ErrorCodeScheduleNotFound, "Schedule not found", 404, map[string]any{"schedule_id": scheduleID})
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

func formatSchedule(service *Service, userID string, s *Schedule) map[string]any {
	return map[string]any{
		"object":      api.ObjectSchedule,
		"id":          s.ID,
		"name":        s.Name,
		"device_id":   s.DeviceID,
		"device_name": service.DeviceName(userID, s.DeviceID),
		"time":        s.Time,
		"action":      string(s.Action),
		"days":        s.Days,
		"enabled":     s.Enabled,
		"created_at":  api.RFC3339Millis(s.CreatedAt),
		"updated_at":  api.RFC3339Millis(s.UpdatedAt),
	}
}
