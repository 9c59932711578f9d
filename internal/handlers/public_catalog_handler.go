package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// PublicCatalogHandler serves what an anonymous client needs to book:
// the tenant, its active services and its active professionals.
type PublicCatalogHandler struct {
	db *gorm.DB
}

func NewPublicCatalogHandler(db *gorm.DB) *PublicCatalogHandler {
	return &PublicCatalogHandler{db: db}
}

type publicProfessional struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func serviceOrder(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "duration_asc":
		return "duration_minutes ASC"
	case "duration_desc":
		return "duration_minutes DESC"
	default:
		return "id ASC"
	}
}

func (h *PublicCatalogHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()

	var tenant models.Tenant
	if err := h.db.WithContext(ctx).Where("slug = ?", c.Param("slug")).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "tenant_not_found", "Estabelecimento não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_tenant", "Erro ao buscar estabelecimento.")
		return
	}

	q := h.db.WithContext(ctx).Where("tenant_id = ? AND active = ?", tenant.ID, true)
	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+query+"%")
	}

	var services []models.Service
	if err := q.
		Order(serviceOrder(strings.ToLower(strings.TrimSpace(c.Query("sort"))))).
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Erro ao carregar serviços.")
		return
	}

	var professionals []publicProfessional
	if err := h.db.WithContext(ctx).
		Model(&models.Professional{}).
		Select("id", "name").
		Where("tenant_id = ? AND active = ?", tenant.ID, true).
		Order("name ASC").
		Find(&professionals).Error; err != nil {

		httperr.Internal(c, "failed_to_list_professionals", "Erro ao carregar profissionais.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant":        tenantBody(&tenant),
		"services":      services,
		"professionals": professionals,
	})
}
