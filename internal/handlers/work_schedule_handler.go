package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/analytics"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type WorkScheduleHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	setup analytics.SetupListener
}

func NewWorkScheduleHandler(db *gorm.DB, dispatcher *audit.Dispatcher, setup analytics.SetupListener) *WorkScheduleHandler {
	return &WorkScheduleHandler{db: db, audit: dispatcher, setup: setup}
}

type WorkDayConfig struct {
	Weekday    int    `json:"weekday"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`
}

type WorkScheduleUpdateRequest struct {
	ProfessionalID uint            `json:"professional_id"`
	Days           []WorkDayConfig `json:"days" binding:"required"`
}

var errInvalidSchedule = httperr.Validation("invalid_work_schedule", "Jornada inválida.")

// buildSchedules validates the submitted week. Inactive days produce no row.
func buildSchedules(professionalID uint, days []WorkDayConfig) ([]models.WorkSchedule, error) {
	seen := make(map[int]bool, len(days))
	out := make([]models.WorkSchedule, 0, len(days))

	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 || seen[d.Weekday] {
			return nil, fmt.Errorf("%w: weekday %d", errInvalidSchedule, d.Weekday)
		}
		seen[d.Weekday] = true
		if !d.Active {
			continue
		}

		ws := models.WorkSchedule{
			ProfessionalID: professionalID,
			Weekday:        d.Weekday,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
			BreakStart:     d.BreakStart,
			BreakEnd:       d.BreakEnd,
		}
		if _, err := domain.ParseWindow(ws); err != nil {
			return nil, fmt.Errorf("%w: weekday %d: %v", errInvalidSchedule, d.Weekday, err)
		}
		out = append(out, ws)
	}
	return out, nil
}

// professional resolves the target professional inside the caller's tenant.
func (h *WorkScheduleHandler) professional(c *gin.Context, a actor, requested uint) (uint, bool) {
	id := requested
	if scoped := a.scope(); scoped != nil {
		id = *scoped
	}
	if id == 0 {
		httperr.BadRequest(c, "missing_professional", "Profissional obrigatório.")
		return 0, false
	}

	var p models.Professional
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", id, a.TenantID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, domain.ErrProfessionalNotFound, "", "")
		} else {
			respondError(c, err, "failed_to_load_professional", "Erro ao carregar profissional.")
		}
		return 0, false
	}
	return p.ID, true
}

func (h *WorkScheduleHandler) Get(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}

	requested, _ := strconv.ParseUint(c.Query("professional_id"), 10, 64)
	professionalID, ok := h.professional(c, a, uint(requested))
	if !ok {
		return
	}

	var rows []models.WorkSchedule
	if err := h.db.WithContext(c.Request.Context()).
		Where("professional_id = ?", professionalID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {

		respondError(c, err, "failed_to_get_work_schedule", "Erro ao carregar jornada.")
		return
	}

	c.JSON(http.StatusOK, rows)
}

// Update replaces the whole week of one professional.
func (h *WorkScheduleHandler) Update(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}

	var req WorkScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	professionalID, ok := h.professional(c, a, req.ProfessionalID)
	if !ok {
		return
	}

	rows, err := buildSchedules(professionalID, req.Days)
	if err != nil {
		httperr.BadRequest(c, "invalid_work_schedule", err.Error())
		return
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("professional_id = ?", professionalID).
			Delete(&models.WorkSchedule{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		respondError(c, err, "failed_to_save_work_schedule", "Erro ao salvar jornada.")
		return
	}
	setupChanged(c, h.setup, a.TenantID)

	h.audit.Dispatch(audit.Event{
		TenantID: a.TenantID,
		UserID:   &a.UserID,
		Action:   "work_schedule_updated",
		Entity:   "professional",
		EntityID: &professionalID,
		Metadata: map[string]any{"days": len(rows)},
	})

	c.JSON(http.StatusOK, rows)
}
