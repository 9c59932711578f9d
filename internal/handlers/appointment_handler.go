package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create   *appointment.CreateAppointment
	cancel   *appointment.TransitionAppointment
	complete *appointment.TransitionAppointment
	noShow   *appointment.TransitionAppointment
	byDate   *appointment.ListAppointmentsByDate
	byMonth  *appointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	repo domain.Repository,
	dispatcher *audit.Dispatcher,
	opts ...appointment.Option,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:   appointment.NewCreateAppointment(repo, dispatcher, opts...),
		cancel:   appointment.NewCancelAppointment(repo, dispatcher, opts...),
		complete: appointment.NewCompleteAppointment(repo, dispatcher, opts...),
		noShow:   appointment.NewMarkNoShow(repo, dispatcher, opts...),
		byDate:   appointment.NewListAppointmentsByDate(repo),
		byMonth:  appointment.NewListAppointmentsByMonth(repo),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProfessionalID  uint   `json:"professional_id"`
	ServiceID       uint   `json:"service_id"`
	ClientID        uint   `json:"client_id"`
	ClientName      string `json:"client_name"`
	ClientPhone     string `json:"client_phone"`
	ClientEmail     string `json:"client_email"`
	Date            string `json:"date"` // YYYY-MM-DD
	Time            string `json:"time"` // HH:mm
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	professionalID := req.ProfessionalID
	if scoped := a.scope(); scoped != nil {
		if *scoped == 0 {
			httperr.Forbidden(c, "professional_not_linked", "Usuário sem profissional vinculado.")
			return
		}
		professionalID = *scoped
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		TenantID:        a.TenantID,
		ProfessionalID:  professionalID,
		ServiceID:       req.ServiceID,
		ClientID:        req.ClientID,
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		ClientEmail:     req.ClientEmail,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		ActorID:         &a.UserID,
	})
	if err != nil {
		respondError(c, err, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	items, err := h.byDate.Execute(c.Request.Context(), a.TenantID, a.professionalFilter(c), date)
	if err != nil {
		respondError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_period", "Período inválido.")
		return
	}

	items, err := h.byMonth.Execute(c.Request.Context(), a.TenantID, a.professionalFilter(c), year, month)
	if err != nil {
		respondError(c, err, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// STATE TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cancel)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.complete)
}

func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.noShow)
}

func (h *AppointmentHandler) transition(c *gin.Context, uc *appointment.TransitionAppointment) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	ap, err := uc.Execute(c.Request.Context(), a.TenantID, &a.UserID, a.scope(), id)
	if err != nil {
		respondError(c, err, "failed_to_update_appointment", "Erro ao atualizar agendamento.")
		return
	}

	httpresp.OK(c, ap)
}
