package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// auditWindow turns the optional from/to days into [start, end) in loc.
// "to" is inclusive as a day, so end is the midnight after it.
func auditWindow(from, to string, loc *time.Location) (start, end *time.Time, err error) {
	if from != "" {
		d, err := time.ParseInLocation("2006-01-02", from, loc)
		if err != nil {
			return nil, nil, err
		}
		start = &d
	}
	if to != "" {
		d, err := time.ParseInLocation("2006-01-02", to, loc)
		if err != nil {
			return nil, nil, err
		}
		d = d.AddDate(0, 0, 1)
		end = &d
	}
	return start, end, nil
}

// List pages the tenant's audit trail, newest first. Filters: action,
// entity, entity_id, user_id, from, to.
func (h *AuditLogsHandler) List(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}
	if a.restricted() {
		httperr.Forbidden(c, "forbidden", "Acesso restrito.")
		return
	}

	ctx := c.Request.Context()

	var tenant models.Tenant
	if err := h.db.WithContext(ctx).Select("id", "timezone").First(&tenant, a.TenantID).Error; err != nil {
		respondError(c, err, "tenant_lookup_failed", "Erro ao carregar clínica.")
		return
	}

	start, end, err := auditWindow(c.Query("from"), c.Query("to"), timezone.Location(tenant.Timezone))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Use datas no formato AAAA-MM-DD.")
		return
	}

	q := h.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("tenant_id = ?", a.TenantID)

	for _, col := range []string{"action", "entity"} {
		if v := c.Query(col); v != "" {
			q = q.Where(col+" = ?", v)
		}
	}
	for _, col := range []string{"entity_id", "user_id"} {
		if c.Query(col) == "" {
			continue
		}
		id, ok := parseUintQuery(c, col)
		if !ok {
			return
		}
		q = q.Where(col+" = ?", id)
	}
	if start != nil {
		q = q.Where("created_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("created_at < ?", *end)
	}

	page, limit, offset := httpresp.Pagination(c, 50, 200)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
