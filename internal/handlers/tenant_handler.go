package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/analytics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type TenantHandler struct {
	db    *gorm.DB
	setup analytics.SetupListener
}

func NewTenantHandler(db *gorm.DB, setup analytics.SetupListener) *TenantHandler {
	return &TenantHandler{db: db, setup: setup}
}

type UpdateTenantConfigRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

func (h *TenantHandler) load(c *gin.Context, tenantID uint) (*models.Tenant, bool) {
	var tenant models.Tenant
	if err := h.db.WithContext(c.Request.Context()).First(&tenant, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "tenant_not_found", "Estabelecimento não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_tenant", "Erro ao buscar dados do estabelecimento.")
		return nil, false
	}
	return &tenant, true
}

func (h *TenantHandler) Get(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}

	tenant, ok := h.load(c, a.TenantID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) Update(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}
	if a.restricted() {
		httperr.Forbidden(c, "forbidden", "Acesso restrito.")
		return
	}

	var req UpdateTenantConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	tenant, ok := h.load(c, a.TenantID)
	if !ok {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
			return
		}
		tenant.Name = name
	}
	if req.Phone != nil {
		tenant.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		tenant.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		tenant.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(tenant).Error; err != nil {
		httperr.Internal(c, "failed_to_update_tenant", "Erro ao salvar as configurações do estabelecimento.")
		return
	}
	setupChanged(c, h.setup, a.TenantID)

	c.JSON(http.StatusOK, tenant)
}
