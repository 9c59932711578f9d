package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/analytics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

// actor is the authenticated caller of a /api/me route.
type actor struct {
	UserID         uint
	TenantID       uint
	Role           string
	ProfessionalID *uint
}

func actorFrom(c *gin.Context) (actor, bool) {
	userID, ok1 := middleware.UserID(c)
	tenantID, ok2 := middleware.TenantID(c)
	if !ok1 || !ok2 {
		httperr.Unauthorized(c, "unauthenticated", "Sessão inválida.")
		return actor{}, false
	}
	return actor{
		UserID:         userID,
		TenantID:       tenantID,
		Role:           middleware.Role(c),
		ProfessionalID: middleware.ProfessionalID(c),
	}, true
}

// restricted reports whether the caller only sees its own professional.
func (a actor) restricted() bool {
	return !analytics.CapabilitiesForRole(a.Role).CanViewGlobalRevenue
}

// scope returns the professional a restricted caller is pinned to. A
// restricted caller without a link is pinned to id 0, which matches nothing.
func (a actor) scope() *uint {
	if !a.restricted() {
		return nil
	}
	if a.ProfessionalID == nil {
		none := uint(0)
		return &none
	}
	return a.ProfessionalID
}

// professionalFilter picks the professional a listing is narrowed to;
// zero means the whole tenant.
func (a actor) professionalFilter(c *gin.Context) uint {
	if scoped := a.scope(); scoped != nil {
		return *scoped
	}
	id, _ := strconv.ParseUint(c.Query("professional_id"), 10, 64)
	return uint(id)
}

// respondError writes business errors with their own status and everything
// else as a 500, attaching the cause for the error reporter.
func respondError(c *gin.Context, err error, code, message string) {
	if httperr.WriteBusiness(c, err) {
		return
	}
	_ = c.Error(err)
	httperr.Internal(c, code, message)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Identificador inválido.")
		return 0, false
	}
	return uint(v), true
}

func parseUintQuery(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Identificador inválido.")
		return 0, false
	}
	return uint(v), true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// setupChanged tells the listener, if any, that the tenant's capacity inputs
// moved. Call it only after the write committed.
func setupChanged(c *gin.Context, l analytics.SetupListener, tenantID uint) {
	if l != nil {
		l.SetupChanged(c.Request.Context(), tenantID)
	}
}
