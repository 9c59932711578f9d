package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/analytics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.Preload("Tenant").
		Where("id = ? AND tenant_id = ?", a.UserID, a.TenantID).
		First(&user).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         userBody(&user),
		"tenant":       tenantBody(&user.Tenant),
		"capabilities": analytics.CapabilitiesForRole(user.Role),
	})
}
