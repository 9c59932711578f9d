package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/analytics"
)

type DashboardHandler struct {
	metrics *analytics.GetDashboardMetrics
}

func NewDashboardHandler(uc *analytics.GetDashboardMetrics) *DashboardHandler {
	return &DashboardHandler{metrics: uc}
}

// periodParam reads an optional positive query number; absent means zero,
// which the use case resolves to the current period in the tenant's zone.
func periodParam(c *gin.Context, name string) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		respondError(c, analytics.ErrInvalidPeriod, "", "")
		return 0, false
	}
	return n, true
}

// Get serves the monthly dashboard. year and month default to the current
// month of the tenant.
func (h *DashboardHandler) Get(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}

	year, ok := periodParam(c, "year")
	if !ok {
		return
	}
	month, ok := periodParam(c, "month")
	if !ok {
		return
	}

	m, err := h.metrics.Execute(c.Request.Context(), analytics.DashboardInput{
		TenantID:       a.TenantID,
		Year:           year,
		Month:          month,
		Role:           a.Role,
		ProfessionalID: a.ProfessionalID,
	})
	if err != nil {
		respondError(c, err, "dashboard_failed", "Erro ao calcular indicadores.")
		return
	}

	httpresp.OK(c, m)
}
