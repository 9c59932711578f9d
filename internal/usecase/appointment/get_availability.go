package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Execute lists the free slots of a professional on the civil day of
// in.Date, sized by the service duration.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, lookupErr(err, domain.ErrTenantNotFound, "load tenant")
	}

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

	loc := timezone.Location(tenant.Timezone)
	day := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, loc)

	ws, err := uc.repo.GetWorkSchedule(ctx, professional.ID, int(day.Weekday()))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return []domain.TimeSlot{}, nil
		}
		return nil, fmt.Errorf("load work schedule: %w", err)
	}

	booked, err := uc.repo.ListAppointmentsForDay(ctx, professional.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	duration := domain.ResolveDuration(0, service.DurationMinutes)
	return domain.FreeSlots(*ws, day, time.Duration(duration)*time.Minute, booked), nil
}
