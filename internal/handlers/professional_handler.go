package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/analytics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var hundred = decimal.NewFromInt(100)

type ProfessionalHandler struct {
	db    *gorm.DB
	setup analytics.SetupListener
}

func NewProfessionalHandler(db *gorm.DB, setup analytics.SetupListener) *ProfessionalHandler {
	return &ProfessionalHandler{db: db, setup: setup}
}

type CreateProfessionalRequest struct {
	Name              string          `json:"name" binding:"required"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
}

type UpdateProfessionalRequest struct {
	Name              *string          `json:"name,omitempty"`
	CommissionPercent *decimal.Decimal `json:"commission_percent,omitempty"`
	Active            *bool            `json:"active,omitempty"`
}

func validCommission(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}

// List hides commission percentages from callers that may not see them.
func (h *ProfessionalHandler) List(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}

	var professionals []models.Professional
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ?", a.TenantID).
		Order("id ASC").
		Find(&professionals).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_professionals"})
		return
	}

	if a.restricted() {
		for i := range professionals {
			professionals[i].CommissionPercent = decimal.Zero
		}
	}

	c.JSON(http.StatusOK, professionals)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}
	if a.restricted() {
		httperr.Forbidden(c, "forbidden", "Acesso restrito.")
		return
	}

	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}
	if !validCommission(req.CommissionPercent) {
		httperr.BadRequest(c, "invalid_commission", "Comissão deve estar entre 0 e 100.")
		return
	}

	p := models.Professional{
		TenantID:          a.TenantID,
		Name:              strings.TrimSpace(req.Name),
		Active:            true,
		CommissionPercent: req.CommissionPercent,
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("Tenant").Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_professional"})
		return
	}
	setupChanged(c, h.setup, a.TenantID)

	c.JSON(http.StatusCreated, p)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}
	if a.restricted() {
		httperr.Forbidden(c, "forbidden", "Acesso restrito.")
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var p models.Professional
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", id, a.TenantID).
		First(&p).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "professional_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_professional"})
		return
	}

	var req UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.CommissionPercent != nil {
		if !validCommission(*req.CommissionPercent) {
			httperr.BadRequest(c, "invalid_commission", "Comissão deve estar entre 0 e 100.")
			return
		}
		p.CommissionPercent = *req.CommissionPercent
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("Tenant").Save(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_professional"})
		return
	}
	setupChanged(c, h.setup, a.TenantID)

	c.JSON(http.StatusOK, p)
}
