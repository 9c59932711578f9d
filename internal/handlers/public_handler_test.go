package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) publicBooking(clock string) map[string]any {
	return map[string]any{
		"slug":           "clinica",
		"date":           "2026-10-19",
		"time":           clock,
		"serviceId":      e.service.ID,
		"professionalId": e.ana.ID,
		"clientName":     "Bia",
		"clientPhone":    "11999990000",
		"clientEmail":    "Bia@Example.com",
	}
}

func TestPublicCreateAppointment(t *testing.T) {
	e := newTestEnv(t)

	w, body := e.do(t, http.MethodPost, "/api/public/clinica/appointments", e.publicBooking("10:00"), "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])
	require.IsType(t, map[string]any{}, body["appointment"])
	assert.Equal(t, "scheduled", body["appointment"].(map[string]any)["status"])

	require.Len(t, e.store.Appointments(), 1)
	clients := e.store.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, "bia@example.com", clients[0].Email)
}

func TestPublicCreateAppointmentRejections(t *testing.T) {
	cases := []struct {
		name   string
		clock  string
		mutate func(map[string]any)
		status int
		code   string
	}{
		{"overlap", "09:15", nil, http.StatusConflict, "time_conflict"},
		{"break", "12:00", nil, http.StatusUnprocessableEntity, "break_conflict"},
		{"outside hours", "18:00", nil, http.StatusUnprocessableEntity, "outside_working_hours"},
		{"missing client name", "10:00", func(b map[string]any) { delete(b, "clientName") }, http.StatusBadRequest, "missing_field"},
		{"bad time", "25:00", nil, http.StatusBadRequest, "invalid_date_or_time"},
		{"unknown service", "10:00", func(b map[string]any) { b["serviceId"] = 999 }, http.StatusNotFound, "service_not_found"},
		{"slug mismatch", "10:00", func(b map[string]any) { b["slug"] = "outra" }, http.StatusNotFound, "tenant_not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.seedBooking(t, e.ana.ID, "09:00")

			req := e.publicBooking(tc.clock)
			if tc.mutate != nil {
				tc.mutate(req)
			}

			w, body := e.do(t, http.MethodPost, "/api/public/clinica/appointments", req, "")

			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.code, body["error_code"])
			assert.NotEmpty(t, body["error"])
			assert.Len(t, e.store.Appointments(), 1)
		})
	}
}

func TestPublicCreateAppointmentUnknownTenant(t *testing.T) {
	e := newTestEnv(t)
	req := e.publicBooking("10:00")
	delete(req, "slug")

	w, body := e.do(t, http.MethodPost, "/api/public/nope/appointments", req, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "tenant_not_found", body["error_code"])
}

func TestPublicAvailability(t *testing.T) {
	e := newTestEnv(t)
	e.seedBooking(t, e.ana.ID, "09:30")

	path := fmt.Sprintf("/api/public/clinica/availability?date=2026-10-19&serviceId=%d&professionalId=%d", e.service.ID, e.ana.ID)
	w, body := e.do(t, http.MethodGet, path, nil, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2026-10-19", body["date"])
	assert.Len(t, body["slots"], 15)
}

func TestPublicAvailabilityValidation(t *testing.T) {
	e := newTestEnv(t)

	w, body := e.do(t, http.MethodGet, "/api/public/clinica/availability?date=19-10-2026&serviceId=1&professionalId=1", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date_or_time", body["error_code"])

	w, body = e.do(t, http.MethodGet, "/api/public/clinica/availability?date=2026-10-19", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_field", body["error_code"])
}
