package device

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daksh151005/homesync-hub-go/internal/api"
	"github.com/daksh151005/homesync-hub-go/internal/apperrors"
	"github.com/daksh151005/homesync-hub-go/internal/auth"
)

// RegisterRoutes wires device routes to the router.
func RegisterRoutes(router chi.Router, service *Service) {
	router.Method(http.MethodGet, "/v1/devices", api.Handler(listDevices(service)))
	router.Method(http.MethodGet, "/v1/devices/{device_id}", api.Handler(getDevice(service)))
	router.Method(http.MethodPost, "/v1/devices/{device_id}/toggle", api.Handler(toggleDevice(service)))
	router.Method(http.MethodPost, "/v1/devices/{device_id}/value", api.Handler(setDeviceValue(service)))
}

func listDevices(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())

		registry, err := service.Registry(userID)
		if err != nil {
			return apperrors.NewInternalError("Failed to list devices")
		}

		devices := registry.Devices()
		formatted := make([]map[string]any, 0, len(devices))
		for _, d := range devices {
			formatted = append(formatted, FormatDevice(d))
		}

		return api.WriteList(w, "/v1/devices", formatted, false)
	}
}

func getDevice(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		deviceID := chi.URLParam(r, "device_id")

		d, err := service.Get(userID, deviceID)
		if err != nil {
			return apperrors.NewInternalError("Failed to get device")
		}
		if d == nil {
			return deviceNotFound(deviceID)
		}

		return api.WriteResource(w, http.StatusOK, FormatDevice(*d))
	}
}

func toggleDevice(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		deviceID := chi.URLParam(r, "device_id")

		var body struct {
			On *bool `json:"on"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if body.On == nil {
			return apperrors.NewValidationError("on is required", nil)
		}

		d, err := service.Toggle(userID, deviceID, *body.On)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return deviceNotFound(deviceID)
			}
			return apperrors.NewInternalError("Failed to toggle device")
		}

		return api.WriteResource(w, http.StatusOK, FormatDevice(*d))
	}
}

func setDeviceValue(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())
		deviceID := chi.URLParam(r, "device_id")

		var body struct {
			Value *int `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if body.Value == nil {
			return apperrors.NewValidationError("value is required", nil)
		}

		d, err := service.SetValue(userID, deviceID, *body.Value)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return deviceNotFound(deviceID)
			}
			return apperrors.NewInternalError("Failed to set device value")
		}

		return api.WriteResource(w, http.StatusOK, FormatDevice(*d))
	}
}

func deviceNotFound(deviceID string) *apperrors.AppError {
	return apperrors.NewAppError(apperrors.ErrorCodeDeviceNotFound, "Device not found", 404, map[string]any{"device_id": deviceID})
}

// FormatDevice serializes a device for the API.
func FormatDevice(d Device) map[string]any {
	result := map[string]any{
		"object": api.ObjectDevice,
		"id":     d.ID,
		"name":   d.Name,
		"room":   d.Room,
		"type":   string(d.Type),
		"status": string(d.Status),
		"is_on":  IsOn(d),
	}
	if d.Value != nil {
		result["value"] = *d.Value
	} else {
		result["value"] = nil
	}
	return result
}
