package command

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daksh151005/homesync-hub-go/internal/api"
	"github.com/daksh151005/homesync-hub-go/internal/apperrors"
	"github.com/daksh151005/homesync-hub-go/internal/auth"
	"github.com/daksh151005/homesync-hub-go/internal/device"
)

// RegisterRoutes wires command routes to the router.
func RegisterRoutes(router chi.Router, service *Service) {
	router.Method(http.MethodPost, "/v1/commands", api.Handler(runCommand(service)))
}

func runCommand(service *Service) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		userID := auth.UserID(r.Context())

		var body struct {
			Command string `json:"command"`
			DryRun  bool   `json:"dry_run"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if body.Command == "" {
			return apperrors.NewValidationError("command is required", nil)
		}

		outcome, err := service.Run(userID, body.Command, body.DryRun)
		if err != nil {
			return apperrors.NewInternalError("Failed to run command")
		}

		payload := map[string]any{
			"object":   api.ObjectCommandResult,
			"success":  outcome.Result.Success,
			"feedback": outcome.Result.Feedback,
			"applied":  outcome.Applied,
		}
		if outcome.Result.Success {
			payload["action"] = string(outcome.Result.Intent)
			if outcome.Device != nil {
				payload["device"] = device.FormatDevice(*outcome.Device)
			}
			if outcome.Result.Value != nil {
				payload["value"] = *outcome.Result.Value
			}
		}

		return api.WriteAction(w, http.StatusOK, payload)
	}
}
