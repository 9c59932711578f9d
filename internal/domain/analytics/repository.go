package analytics

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Repository reads everything a dashboard needs, always scoped by tenant.
type Repository interface {
	GetTenantByID(ctx context.Context, tenantID uint) (*models.Tenant, error)

	ListProfessionals(ctx context.Context, tenantID uint) ([]models.Professional, error)

	ListWorkSchedules(ctx context.Context, tenantID uint) ([]models.WorkSchedule, error)

	// ListAppointments returns every appointment starting in [start, end),
	// canceled ones included, with the Service preloaded.
	ListAppointments(ctx context.Context, tenantID uint, start, end time.Time) ([]models.Appointment, error)

	ListClientCreationTimes(ctx context.Context, tenantID uint, since, until time.Time) ([]time.Time, error)
}
