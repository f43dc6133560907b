package routine

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/daksh151005/homesync-hub-go/internal/api"
	"github.com/daksh151005/homesync-hub-go/internal/apperrors"
	"github.com/daksh151005/homesync-hub-go/internal/auth"
	"github.com/daksh151005/homesync-hub-go/internal/device"
)

// RegisterRoutes wires routine routes to the router.
func RegisterRoutes(router chi.Router, service *Service) {
	router.Method(http.MethodPost, "/v1/routines", api.Handler(createRoutine(service)))
	router.Method(http.MethodGet, "/v1/routines", api.Handler(listRoutines(service)))
	router.Method(http.MethodGet, "/v1/routines/{routine_id}", api.Handler(getRoutine(service)))
	router.Method(http.MethodPut, "/v1/routines/{routine_id}", api.Handler(updateRoutine(service)))
	router.Method(http.MethodDelete, "/v1/routines/{routine_id}", api.Handler(deleteRoutine(service)))
	router.Method(http.MethodPost, "/v1/routines/{routine_id}/run", api.Handler(runRoutine(service)))
}

func createRoutine(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())

		var input CreateInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Name == "" {
			return apperrors.NewValidationError("name is required", nil)
		}
		for _, action := range input.Actions {
			if action.DeviceID == "" {
				return apperrors.NewValidationError("action deviceId is required", nil)
			}
			if !ValidAction(action.Action) {
				return apperrors.NewValidationError("action must be on or off", map[string]any{"action": string(action.Action)})
			}
		}

		created, err := service.Create(userID, input)
		if err != nil {
			return apperrors.NewInternalError("Failed to create routine")
		}

		return api.WriteResource(w, http.StatusCreated, formatRoutine(created))
	}
}

func listRoutines(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		limit, offset := paginationParams(r, 100)

		routines, total, err := service.List(userID, limit, offset)
		if err != nil {
			return apperrors.NewInternalError("Failed to list routines")
		}

		formatted := make([]map[string]any, 0, len(routines))
		for i := range routines {
			formatted = append(formatted, formatRoutine(&routines[i]))
		}

		hasMore := offset+len(routines) < total
		return api.WriteList(w, "/v1/routines", formatted, hasMore)
	}
}

func getRoutine(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		routineID := chi.URLParam(r, "routine_id")

		routine, err := service.Get(userID, routineID)
		if err != nil {
			return apperrors.NewInternalError("Failed to get routine")
		}
		if routine == nil {
			return routineNotFound(routineID)
		}

		return api.WriteResource(w, http.StatusOK, formatRoutine(routine))
	}
}

func updateRoutine(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		routineID := chi.URLParam(r, "routine_id")

		var input UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		for _, action := range input.Actions {
			if action.DeviceID == "" {
				return apperrors.NewValidationError("action deviceId is required", nil)
			}
			if !ValidAction(action.Action) {
				return apperrors.NewValidationError("action must be on or off", map[string]any{"action": string(action.Action)})
			}
		}

		routine, err := service.Update(userID, routineID, input)
		if err != nil {
			return apperrors.NewInternalError("Failed to update routine")
		}
		if routine == nil {
			return routineNotFound(routineID)
		}

		return api.WriteResource(w, http.StatusOK, formatRoutine(routine))
	}
}

func deleteRoutine(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		routineID := chi.URLParam(r, "routine_id")

		if err := service.Delete(userID, routineID); err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return routineNotFound(routineID)
			}
			return apperrors.NewInternalError("Failed to delete routine")
		}

		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}

func runRoutine(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		routineID := chi.URLParam(r, "routine_id")

		result, err := service.Run(userID, routineID)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return routineNotFound(routineID)
			}
			return apperrors.NewInternalError("Failed to run routine")
		}

		devices := make([]map[string]any, 0, len(result.Devices))
		for _, d := range result.Devices {
			devices = append(devices, device.FormatDevice(d))
		}

		return api.WriteAction(w, http.StatusOK, map[string]any{
			"object":     "routine_run",
			"routine_id": result.Routine.ID,
			"applied":    result.Applied,
			"skipped":    result.Skipped,
			"devices":    devices,
		})
	}
}

func routineNotFound(routineID string) *apperrors.AppError {
	return apperrors.NewAppError(apperrors.ErrorCodeRoutineNotFound, "Routine not found", 404, map[string]any{"routine_id": routineID})
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

func formatRoutine(routine *Routine) map[string]any {
	actions := make([]map[string]any, 0, len(routine.Actions))
	for _, a := range routine.Actions {
		action := map[string]any{
			"device_id": a.DeviceID,
			"action":    string(a.Action),
		}
		if a.Value != nil {
			action["value"] = *a.Value
		}
		actions = append(actions, action)
	}

	return map[string]any{
		"object":     api.ObjectRoutine,
		"id":         routine.ID,
		"name":       routine.Name,
		"icon":       routine.Icon,
		"actions":    actions,
		"created_at": api.RFC3339Millis(routine.CreatedAt),
		"updated_at": api.RFC3339Millis(routine.UpdatedAt),
	}
}
