package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

// Execute lists the appointments on the civil day of date. A zero
// professionalID lists the whole tenant.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	tenantID uint,
	professionalID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, lookupErr(err, domain.ErrTenantNotFound, "load tenant")
	}

	loc := timezone.Location(tenant.Timezone)
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	return listPeriod(ctx, uc.repo, tenantID, professionalID, start, start.AddDate(0, 0, 1))
}

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(repo domain.Repository) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{repo: repo}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	tenantID uint,
	professionalID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidDateOrTime
	}

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, lookupErr(err, domain.ErrTenantNotFound, "load tenant")
	}

	loc := timezone.Location(tenant.Timezone)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)

	return listPeriod(ctx, uc.repo, tenantID, professionalID, start, start.AddDate(0, 1, 0))
}

func listPeriod(
	ctx context.Context,
	repo domain.Repository,
	tenantID, professionalID uint,
	start, end time.Time,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := repo.ListAppointmentsForPeriod(ctx, tenantID, professionalID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.FromAppointment(ap))
	}
	return out, nil
}
