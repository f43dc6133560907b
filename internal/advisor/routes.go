package advisor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daksh151005/homesync-hub-go/internal/api"
	"github.com/daksh151005/homesync-hub-go/internal/apperrors"
	"github.com/daksh151005/homesync-hub-go/internal/auth"
)

// RegisterRoutes wires energy and advisor routes to the router.
func RegisterRoutes(router chi.Router, service *Service) {
	router.Method(http.MethodGet, "/v1/energy", api.Handler(getEnergy(service)))
	router.Method(http.MethodGet, "/v1/energy/check", api.Handler(checkEnergy(service)))
	router.Method(http.MethodPost, "/v1/advisor/forgotten", api.Handler(forgottenDevices(service)))
	router.Method(http.MethodGet, "/v1/suggestions", api.Handler(getSuggestions(service)))
}

func getEnergy(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())

		samples, total, err := service.WeeklyUsage(userID)
		if err != nil {
			return apperrors.NewInternalError("Failed to load energy usage")
		}

		data := make([]map[string]any, 0, len(samples))
		for _, s := range samples {
			data = append(data, map[string]any{
				"object": api.ObjectEnergySample,
				"day":    s.Day,
				"usage":  s.Usage,
			})
		}

		return api.WriteAction(w, http.StatusOK, map[string]any{
			"object":    api.ObjectEnergyReport,
			"samples":   data,
			"total_kwh": total,
		})
	}
}

func checkEnergy(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())

		report, total, err := service.CheckUsage(userID)
		if err != nil {
			return apperrors.NewInternalError("Failed to check energy usage")
		}

		payload := map[string]any{
			"object":    api.ObjectEnergyReport,
			"total_kwh": total,
			"is_high":   report.IsHigh,
		}
		if report.IsHigh {
			payload["notification"] = report.Notification
		} else {
			payload["notification"] = nil
		}

		return api.WriteAction(w, http.StatusOK, payload)
	}
}

func forgottenDevices(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())

		var body struct {
			RoutineDescription string `json:"routine_description"`
		}
		if r.Body != nil {
			// An empty body means no routine context; the detector
			// ignores the description either way.
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		reports, err := service.Forgotten(userID, body.RoutineDescription)
		if err != nil {
			return apperrors.NewInternalError("Failed to detect forgotten devices")
		}

		return api.WriteAction(w, http.StatusOK, map[string]any{
			"object":            api.ObjectForgottenReport,
			"forgotten_devices": reports,
		})
	}
}

func getSuggestions(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		suggestions := service.Suggestions(q.Get("device_list"), q.Get("usage_patterns"))

		return api.WriteAction(w, http.StatusOK, map[string]any{
			"object":             "suggestion_list",
			"suggested_routines": suggestions,
		})
	}
}
