package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timeofday"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

var tracer = otel.Tracer("clinic-scheduler/usecase/appointment")

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	TenantID       uint
	ProfessionalID uint
	ServiceID      uint

	// ClientID selects an existing client. When zero the client is
	// resolved by phone and created with the booking if unknown.
	ClientID    uint
	ClientName  string
	ClientPhone string
	ClientEmail string

	Date string // YYYY-MM-DD, tenant-local
	Time string // HH:MM, tenant-local

	// DurationMinutes overrides the service duration when positive.
	DurationMinutes int
	Notes           string

	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	opts  options
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	opts ...Option,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		opts:  newOptions(opts),
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute admits the booking or returns the first rule it breaks.
// Nothing is written unless the booking is admitted.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ctx, span := tracer.Start(ctx, "appointment.create")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("tenant.id", int64(in.TenantID)),
		attribute.Int64("professional.id", int64(in.ProfessionalID)),
	)

	began := time.Now()
	ap, err := uc.admit(ctx, in)
	outcome := outcomeOf(err)

	uc.opts.metrics.ObserveOutcome(outcome, time.Since(began).Seconds())
	span.SetAttributes(attribute.String("booking.outcome", outcome))

	if err != nil {
		uc.reject(ctx, in, err, outcome)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}

	uc.opts.logger.Info("appointment created",
		"tenant_id", in.TenantID,
		"appointment_id", ap.ID,
		"professional_id", ap.ProfessionalID,
		"start", ap.StartTime,
	)

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})
	uc.opts.listener.AppointmentChanged(ctx, ap, domain.ActionCreated)

	return ap, nil
}

func (uc *CreateAppointment) admit(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Campos obrigatórios
	// --------------------------------------------------
	if missingField(in) {
		return nil, domain.ErrMissingField
	}

	// --------------------------------------------------
	// 2️⃣ Estabelecimento e horário local
	// --------------------------------------------------
	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, lookupErr(err, domain.ErrTenantNotFound, "load tenant")
	}

	loc := timezone.Location(tenant.Timezone)
	start, err := ParseStart(in.Date, in.Time, loc)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Referências
	// --------------------------------------------------
	professional, err := uc.repo.GetProfessional(ctx, in.TenantID, in.ProfessionalID)
	if err != nil {
		return nil, lookupErr(err, domain.ErrProfessionalNotFound, "load professional")
	}
	if !professional.Active {
		return nil, domain.ErrProfessionalNotFound
	}

	service, err := uc.repo.GetService(ctx, in.TenantID, in.ServiceID)
	if err != nil {
		return nil, lookupErr(err, domain.ErrServiceNotFound, "load service")
	}

	client, err := uc.resolveClient(ctx, in)
	if err != nil {
		return nil, err
	}

	duration := domain.ResolveDuration(in.DurationMinutes, service.DurationMinutes)
	end := start.Add(time.Duration(duration) * time.Minute)

	// --------------------------------------------------
	// 4️⃣ Antecedência mínima
	// --------------------------------------------------
	if tenant.MinAdvanceMinutes > 0 {
		earliest := uc.opts.now().In(loc).Add(time.Duration(tenant.MinAdvanceMinutes) * time.Minute)
		if start.Before(earliest) {
			return nil, domain.ErrTooSoon
		}
	}

	// --------------------------------------------------
	// 5️⃣ 6️⃣ 7️⃣ Jornada e intervalo
	// --------------------------------------------------
	ws, err := uc.repo.GetWorkSchedule(ctx, professional.ID, int(start.Weekday()))
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("load work schedule: %w", err)
		}
		ws = nil
	}

	if err := domain.CheckWithinSchedule(ws, start, end); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 8️⃣ Conflito de horário
	// --------------------------------------------------
	conflict, err := uc.repo.HasTimeConflict(ctx, professional.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("check conflicts: %w", err)
	}
	if conflict {
		return nil, domain.ErrSlotConflict
	}

	// --------------------------------------------------
	// 9️⃣ Criação do agendamento
	// --------------------------------------------------
	ap := &models.Appointment{
		TenantID:       in.TenantID,
		ProfessionalID: professional.ID,
		ClientID:       client.ID,
		Client:         *client,
		ServiceID:      service.ID,
		StartTime:      start,
		EndTime:        end,
		Status:         string(domain.InitialStatus()),
		Price:          decimal.NewNullDecimal(service.Price),
		Notes:          strings.TrimSpace(in.Notes),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	ap.Professional = *professional
	ap.Service = *service

	return ap, nil
}

// resolveClient returns an existing client, or an unsaved one that the
// admission transaction inserts.
func (uc *CreateAppointment) resolveClient(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Client, error) {

	if in.ClientID != 0 {
		client, err := uc.repo.GetClient(ctx, in.TenantID, in.ClientID)
		if err != nil {
			return nil, lookupErr(err, domain.ErrClientNotFound, "load client")
		}
		return client, nil
	}

	phone := validators.NormalizePhone(in.ClientPhone)
	client, err := uc.repo.FindClientByPhone(ctx, in.TenantID, phone)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, fmt.Errorf("find client: %w", err)
	}

	return &models.Client{
		TenantID: in.TenantID,
		Name:     strings.TrimSpace(in.ClientName),
		Phone:    phone,
		Email:    validators.NormalizeEmail(in.ClientEmail),
	}, nil
}

func (uc *CreateAppointment) reject(
	ctx context.Context,
	in CreateAppointmentInput,
	err error,
	outcome string,
) {
	if _, ok := httperr.AsBusiness(err); !ok {
		uc.opts.logger.Error("appointment admission failed",
			"tenant_id", in.TenantID,
			"error", err,
		)
		return
	}

	uc.opts.logger.Info("appointment rejected",
		"tenant_id", in.TenantID,
		"professional_id", in.ProfessionalID,
		"reason", outcome,
	)

	if errors.Is(err, domain.ErrSlotConflict) {
		uc.audit.Dispatch(audit.Event{
			TenantID: in.TenantID,
			UserID:   in.ActorID,
			Action:   "appointment_conflict",
			Entity:   "professional",
			EntityID: &in.ProfessionalID,
			Metadata: map[string]string{
				"date": in.Date,
				"time": in.Time,
			},
		})
	}
}

// ======================================================
// HELPERS
// ======================================================

func missingField(in CreateAppointmentInput) bool {
	if in.ProfessionalID == 0 || in.ServiceID == 0 {
		return true
	}
	if strings.TrimSpace(in.Date) == "" || strings.TrimSpace(in.Time) == "" {
		return true
	}
	if in.ClientID == 0 {
		return strings.TrimSpace(in.ClientName) == "" || validators.NormalizePhone(in.ClientPhone) == ""
	}
	return false
}

// ParseStart reads a tenant-local civil date and time of day.
func ParseStart(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDateOrTime
	}

	c, err := timeofday.Parse(strings.TrimSpace(clock))
	if err != nil || c >= timeofday.MinutesPerDay {
		return time.Time{}, domain.ErrInvalidDateOrTime
	}

	return c.On(day), nil
}

func lookupErr(err error, notFound error, op string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func outcomeOf(err error) string {
	if err == nil {
		return "created"
	}
	if be, ok := httperr.AsBusiness(err); ok {
		return be.Code
	}
	return "error"
}
