package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	repo         domain.Repository
	create       *appointment.CreateAppointment
	availability *appointment.GetAvailability
}

func NewPublicHandler(
	repo domain.Repository,
	dispatcher *audit.Dispatcher,
	opts ...appointment.Option,
) *PublicHandler {
	return &PublicHandler{
		repo:         repo,
		create:       appointment.NewCreateAppointment(repo, dispatcher, opts...),
		availability: appointment.NewGetAvailability(repo),
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	Slug           string `json:"slug"`
	Date           string `json:"date"` // YYYY-MM-DD
	Time           string `json:"time"` // HH:mm
	ServiceID      uint   `json:"serviceId"`
	ProfessionalID uint   `json:"professionalId"`
	ClientName     string `json:"clientName"`
	ClientPhone    string `json:"clientPhone"`
	ClientEmail    string `json:"clientEmail"`
	Notes          string `json:"notes"`
}

// publicError is the error body of the public booking surface.
func publicError(c *gin.Context, err error) {
	if be, ok := httperr.AsBusiness(err); ok {
		c.JSON(httperr.StatusFor(be.Kind), gin.H{
			"error":      be.Message,
			"error_code": be.Code,
		})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      "Erro interno.",
		"error_code": "internal_error",
	})
}

func (h *PublicHandler) tenant(c *gin.Context) (*models.Tenant, bool) {
	tenant, err := h.repo.GetTenantBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			publicError(c, domain.ErrTenantNotFound)
		} else {
			publicError(c, err)
		}
		return nil, false
	}
	return tenant, true
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	date, err := parseDate(dateStr)
	if err != nil {
		publicError(c, domain.ErrInvalidDateOrTime)
		return
	}

	serviceID, errS := strconv.ParseUint(c.Query("serviceId"), 10, 64)
	professionalID, errP := strconv.ParseUint(c.Query("professionalId"), 10, 64)
	if errS != nil || errP != nil {
		publicError(c, domain.ErrMissingField)
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		TenantID:       tenant.ID,
		ProfessionalID: uint(professionalID),
		ServiceID:      uint(serviceID),
		Date:           date,
	})
	if err != nil {
		publicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Dados inválidos.",
			"error_code": "invalid_request",
		})
		return
	}

	if req.Slug != "" && req.Slug != c.Param("slug") {
		publicError(c, domain.ErrTenantNotFound)
		return
	}

	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		TenantID:       tenant.ID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
	})
	if err != nil {
		publicError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"appointment": ap,
	})
}
