package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

const clientHistoryLimit = 20

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// clientSearch splits a free-text query into a lowercase text term and the
// digits a stored phone would contain. Either may be empty.
func clientSearch(raw string) (text, digits string) {
	text = strings.ToLower(strings.TrimSpace(raw))
	digits = validators.NormalizePhone(raw)
	return text, digits
}

// List pages the tenant's clients, newest first, optionally matching ?query=
// against name, email or phone.
func (h *ClientHandler) List(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Client{}).
		Where("tenant_id = ?", a.TenantID)

	text, digits := clientSearch(c.Query("query"))
	switch {
	case text != "" && digits != "":
		like := "%" + text + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, "%"+digits+"%")
	case text != "":
		like := "%" + text + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	page, limit, offset := httpresp.Pagination(c, 50, 200)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	var clients []models.Client
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&clients).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	httpresp.Page(c, clients, page, limit, total)
}

// Show returns one client with the latest appointments. Restricted callers
// only see appointments with their own professional.
func (h *ClientHandler) Show(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var client models.Client
	err := h.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, a.TenantID).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
		return
	}
	if err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "failed_to_load_client", "Erro ao carregar cliente.")
		return
	}

	q := h.db.WithContext(ctx).
		Preload("Professional").
		Preload("Service").
		Where("tenant_id = ? AND client_id = ?", a.TenantID, client.ID)
	if scoped := a.scope(); scoped != nil {
		q = q.Where("professional_id = ?", *scoped)
	}

	var history []models.Appointment
	if err := q.Order("start_time DESC").Limit(clientHistoryLimit).Find(&history).Error; err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "failed_to_load_client", "Erro ao carregar cliente.")
		return
	}

	items := make([]dto.AppointmentListDTO, 0, len(history))
	for _, ap := range history {
		ap.Client = client
		items = append(items, dto.FromAppointment(ap))
	}

	httpresp.OK(c, gin.H{
		"client":       client,
		"appointments": items,
	})
}
