package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Repository is the Appointment and Schedule store seen by the booking
// use cases. Lookups return ErrRecordNotFound for missing rows and for rows
// of another tenant.
type Repository interface {
	// -------- Tenant --------
	GetTenantByID(
		ctx context.Context,
		id uint,
	) (*models.Tenant, error)

	GetTenantBySlug(
		ctx context.Context,
		slug string,
	) (*models.Tenant, error)

	// -------- References --------
	GetProfessional(
		ctx context.Context,
		tenantID uint,
		professionalID uint,
	) (*models.Professional, error)

	GetService(
		ctx context.Context,
		tenantID uint,
		serviceID uint,
	) (*models.Service, error)

	GetClient(
		ctx context.Context,
		tenantID uint,
		clientID uint,
	) (*models.Client, error)

	FindClientByPhone(
		ctx context.Context,
		tenantID uint,
		phone string,
	) (*models.Client, error)

	// -------- Schedule --------
	GetWorkSchedule(
		ctx context.Context,
		professionalID uint,
		weekday int,
	) (*models.WorkSchedule, error)

	// -------- Appointment (create / conflict) --------

	// HasTimeConflict reports a non-canceled appointment of the professional
	// overlapping [start, end).
	HasTimeConflict(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) (bool, error)

	// CreateAppointment inserts ap atomically with respect to other
	// bookings of the same professional and returns ErrSlotConflict when
	// the store refuses an overlap. When ap.ClientID is zero, ap.Client is
	// inserted in the same transaction.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		tenantID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listing --------
	ListAppointmentsForDay(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		tenantID uint,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
