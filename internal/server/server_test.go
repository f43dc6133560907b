package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/daksh151005/homesync-hub-go/internal/config"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Config{
		Host:                     "127.0.0.1",
		Port:                     "0",
		SQLiteDBPath:             filepath.Join(t.TempDir(), "test.db"),
		Env:                      "development",
		AllowTestMode:            true,
		JWTSecret:                "test-secret-key-that-is-long-enough-123",
		JWTAccessTokenExpirySec:  3600,
		JWTRefreshTokenExpirySec: 7200,
		Timezone:                 "UTC",
		TickerEnabled:            false,
		AuditRetentionDays:       30,
	}

	handler, shutdown, err := NewHandler(cfg, Options{DisableTicker: true})
	require.NoError(t, err)
	t.Cleanup(func() { shutdown(nil) })

	return handler
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("x-test-mode", "true")
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHealthIsPublic(t *testing.T) {
	handler := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "homesync-hub", body["service"])
}

func TestProtectedRouteRequiresAuth(t *testing.T) {
	handler := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/devices", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	require.Contains(t, body, "error")
}

func TestListDevices_SeededOnFirstRequest(t *testing.T) {
	handler := setupServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/v1/devices", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "list", body["object"])
	data := body["data"].([]any)
	require.Len(t, data, 7)

	first := data[0].(map[string]any)
	require.Equal(t, "device", first["object"])
	require.Equal(t, "Living Room Lamp", first["name"])
	require.Equal(t, true, first["is_on"])
}

func TestToggleDevice(t *testing.T) {
	handler := setupServer(t)

	rec := doRequest(t, handler, http.MethodPost, "/v1/devices/1/toggle", map[string]any{"on": false})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "off", body["status"])
	require.Equal(t, false, body["is_on"])

	rec = doRequest(t, handler, http.MethodPost, "/v1/devices/missing/toggle", map[string]any{"on": true})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunCommandEndpoint(t *testing.T) {
	handler := setupServer(t)

	rec := doRequest(t, handler, http.MethodPost, "/v1/commands", map[string]any{
		"command": "turn off living room lamp",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Turning off Living Room Lamp", body["feedback"])
	require.Equal(t, true, body["applied"])

	rec = doRequest(t, handler, http.MethodPost, "/v1/commands", map[string]any{
		"command": "do a barrel roll",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	require.Equal(t, false, body["success"])
}

func TestRunRoutineEndpoint(t *testing.T) {
	handler := setupServer(t)

	rec := doRequest(t, handler, http.MethodPost, "/v1/routines/r2/run", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.EqualValues(t, 6, body["applied"])
	require.EqualValues(t, 0, body["skipped"])

	// Good Night turns the thermostat on at 19 and everything else off.
	rec = doRequest(t, handler, http.MethodGet, "/v1/devices/2", nil)
	device := decodeBody(t, rec)
	require.Equal(t, "on", device["status"])
	require.EqualValues(t, 19, device["value"])
}

func TestEnergyEndpoints(t *testing.T) {
	handler := setupServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/v1/energy", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.EqualValues(t, 115, body["total_kwh"])
	require.Len(t, body["samples"].([]any), 7)

	rec = doRequest(t, handler, http.MethodGet, "/v1/energy/check", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	require.Equal(t, true, body["is_high"])
	require.Contains(t, body["notification"].(string), "115 kWh")
}

func TestForgottenAndSuggestions(t *testing.T) {
	handler := setupServer(t)

	rec := doRequest(t, handler, http.MethodPost, "/v1/advisor/forgotten", map[string]any{
		"routine_description": "Good Night routine",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	// Seed data has three energized devices: lamp, thermostat, outlet.
	require.Len(t, body["forgotten_devices"].([]any), 3)

	rec = doRequest(t, handler, http.MethodGet, "/v1/suggestions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	require.Len(t, body["suggested_routines"].([]any), 4)
}

func TestScheduleCRUDEndpoints(t *testing.T) {
	handler := setupServer(t)

	rec := doRequest(t, handler, http.MethodPost, "/v1/schedules", map[string]any{
		"name":      "Evening Lights",
		"device_id": "1",
		"time":      "19:30",
		"action":    "on",
		"days":      []string{"Fri", "Sat"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	require.Equal(t, "Living Room Lamp", created["device_name"])
	scheduleID := created["id"].(string)

	rec = doRequest(t, handler, http.MethodPost, "/v1/schedules/"+scheduleID+"/enable", map[string]any{
		"enabled": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, decodeBody(t, rec)["enabled"])

	rec = doRequest(t, handler, http.MethodPost, "/v1/schedules", map[string]any{
		"name":      "Broken",
		"device_id": "1",
		"time":      "25:00",
		"action":    "on",
		"days":      []string{"Mon"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, handler, http.MethodDelete, "/v1/schedules/"+scheduleID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMetricsIsPublic(t *testing.T) {
	handler := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAuditTrailRecordsActivity(t *testing.T) {
	handler := setupServer(t)

	doRequest(t, handler, http.MethodPost, "/v1/devices/1/toggle", map[string]any{"on": false})

	rec := doRequest(t, handler, http.MethodGet, "/v1/audit/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].([]any)
	require.NotEmpty(t, data)
	newest := data[0].(map[string]any)
	require.Equal(t, "DEVICE_TOGGLED", newest["type"])
}
