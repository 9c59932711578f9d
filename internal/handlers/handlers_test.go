package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository/memory"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucAnalytics "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/analytics"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

const testSecret = "test-secret"

// 2026-10-19 is a Monday.
var fixedNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	store   *memory.Store
	router  *gin.Engine
	tenant  models.Tenant
	ana     models.Professional
	bruno   models.Professional
	service models.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s := memory.NewStore()
	tenant := s.AddTenant(models.Tenant{Name: "Clínica", Slug: "clinica", Timezone: "UTC"})
	ana := s.AddProfessional(models.Professional{
		TenantID: tenant.ID, Name: "Ana", Active: true, CommissionPercent: decimal.NewFromInt(40),
	})
	bruno := s.AddProfessional(models.Professional{
		TenantID: tenant.ID, Name: "Bruno", Active: true, CommissionPercent: decimal.NewFromInt(50),
	})
	service := s.AddService(models.Service{
		TenantID:        tenant.ID,
		Name:            "Consulta",
		Price:           decimal.RequireFromString("150.00"),
		DurationMinutes: 30,
		Active:          true,
	})
	for _, p := range []models.Professional{ana, bruno} {
		s.AddWorkSchedule(models.WorkSchedule{
			ProfessionalID: p.ID,
			Weekday:        int(time.Monday),
			StartTime:      "09:00",
			EndTime:        "18:00",
			BreakStart:     "12:00",
			BreakEnd:       "13:00",
		})
	}

	clock := func() time.Time { return fixedNow }
	appointments := NewAppointmentHandler(s, nil, ucAppointment.WithClock(clock))
	public := NewPublicHandler(s, nil, ucAppointment.WithClock(clock))
	dashboard := NewDashboardHandler(ucAnalytics.NewGetDashboardMetrics(s, ucAnalytics.WithClock(clock)))

	r := gin.New()
	r.GET("/api/public/:slug/availability", public.Availability)
	r.POST("/api/public/:slug/appointments", public.CreateAppointment)

	me := r.Group("/api/me", middleware.AuthMiddleware(&config.Config{JWTSecret: testSecret}))
	me.POST("/appointments", appointments.Create)
	me.GET("/appointments", appointments.ListByDate)
	me.GET("/appointments/month", appointments.ListByMonth)
	me.PATCH("/appointments/:id/cancel", appointments.Cancel)
	me.PATCH("/appointments/:id/complete", appointments.Complete)
	me.PATCH("/appointments/:id/no-show", appointments.MarkNoShow)
	me.GET("/dashboard", dashboard.Get)

	return &testEnv{store: s, router: r, tenant: tenant, ana: ana, bruno: bruno, service: service}
}

func (e *testEnv) token(t *testing.T, role string, professionalID *uint) string {
	t.Helper()
	tok, err := IssueToken(testSecret, &models.User{
		ID:             7,
		TenantID:       e.tenant.ID,
		Role:           role,
		ProfessionalID: professionalID,
	}, time.Now())
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func (e *testEnv) seedBooking(t *testing.T, professionalID uint, clock string) models.Appointment {
	t.Helper()
	start, err := time.Parse("2006-01-02 15:04", "2026-10-19 "+clock)
	require.NoError(t, err)
	return e.store.AddAppointment(models.Appointment{
		TenantID:       e.tenant.ID,
		ProfessionalID: professionalID,
		ServiceID:      e.service.ID,
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		Status:         "scheduled",
		Price:          decimal.NewNullDecimal(e.service.Price),
	})
}
