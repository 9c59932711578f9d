package appointment

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type transitionFunc func(ap *models.Appointment, now time.Time) error

// TransitionAppointment moves a scheduled appointment to a final status.
type TransitionAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	opts   options
	action domain.Action
	apply  transitionFunc
}

func NewCancelAppointment(repo domain.Repository, audit *audit.Dispatcher, opts ...Option) *TransitionAppointment {
	return newTransition(repo, audit, domain.ActionCanceled, domain.Cancel, opts)
}

func NewCompleteAppointment(repo domain.Repository, audit *audit.Dispatcher, opts ...Option) *TransitionAppointment {
	return newTransition(repo, audit, domain.ActionCompleted, domain.Complete, opts)
}

func NewMarkNoShow(repo domain.Repository, audit *audit.Dispatcher, opts ...Option) *TransitionAppointment {
	return newTransition(repo, audit, domain.ActionNoShow, domain.MarkNoShow, opts)
}

func newTransition(
	repo domain.Repository,
	audit *audit.Dispatcher,
	action domain.Action,
	apply transitionFunc,
	opts []Option,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:   repo,
		audit:  audit,
		opts:   newOptions(opts),
		action: action,
		apply:  apply,
	}
}

// Execute loads the appointment inside the tenant and applies the
// transition. A restricted actor (professionalID set) may only touch its
// own appointments.
func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	actorID *uint,
	professionalID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ctx, span := tracer.Start(ctx, "appointment."+string(uc.action))
	defer span.End()
	span.SetAttributes(
		attribute.Int64("tenant.id", int64(tenantID)),
		attribute.Int64("appointment.id", int64(appointmentID)),
	)

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, lookupErr(err, domain.ErrTenantNotFound, "load tenant")
	}

	ap, err := uc.repo.GetAppointment(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, lookupErr(err, domain.ErrAppointmentNotFound, "load appointment")
	}
	if professionalID != nil && ap.ProfessionalID != *professionalID {
		return nil, domain.ErrAppointmentNotFound
	}

	now := uc.opts.now().In(timezone.Location(tenant.Timezone))
	if err := uc.apply(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	uc.opts.metrics.ObserveTransition(string(uc.action))
	uc.opts.logger.Info("appointment "+string(uc.action),
		"tenant_id", tenantID,
		"appointment_id", ap.ID,
	)

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   actorID,
		Action:   "appointment_" + string(uc.action),
		Entity:   "appointment",
		EntityID: &ap.ID,
	})
	uc.opts.listener.AppointmentChanged(ctx, ap, uc.action)

	return ap, nil
}
