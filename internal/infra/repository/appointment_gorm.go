package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const blockingStatus = "status <> 'canceled'"

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *AppointmentGormRepository) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tenant, nil
}

func (r *AppointmentGormRepository) GetTenantBySlug(
	ctx context.Context,
	slug string,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&tenant).Error; err != nil {
		return nil, notFound(err)
	}
	return &tenant, nil
}

// --------------------------------------------------
// References
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	tenantID uint,
	professionalID uint,
) (*models.Professional, error) {

	var p models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", professionalID, tenantID).
		First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	tenantID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", serviceID, tenantID).
		First(&svc).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	tenantID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", clientID, tenantID).
		First(&client).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

func (r *AppointmentGormRepository) FindClientByPhone(
	ctx context.Context,
	tenantID uint,
	phone string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&client).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkSchedule(
	ctx context.Context,
	professionalID uint,
	weekday int,
) (*models.WorkSchedule, error) {

	var ws models.WorkSchedule
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&ws).Error; err != nil {
		return nil, notFound(err)
	}
	return &ws, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) HasTimeConflict(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) (bool, error) {
	return countOverlaps(r.db.WithContext(ctx), professionalID, start, end)
}

func countOverlaps(db *gorm.DB, professionalID uint, start, end time.Time) (bool, error) {
	var count int64
	if err := db.
		Model(&models.Appointment{}).
		Where(
			"professional_id = ? AND "+blockingStatus+" AND start_time < ? AND end_time > ?",
			professionalID,
			end,
			start,
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateAppointment serializes bookings of one professional on its row
// lock, re-checks overlaps and inserts. The exclusion constraint on
// appointments still backs this up.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.Professional
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ? AND tenant_id = ?", ap.ProfessionalID, ap.TenantID).
			First(&locked).Error; err != nil {
			return notFound(err)
		}

		conflict, err := countOverlaps(tx, ap.ProfessionalID, ap.StartTime, ap.EndTime)
		if err != nil {
			return err
		}
		if conflict {
			return domain.ErrSlotConflict
		}

		if ap.ClientID == 0 {
			if err := tx.Create(&ap.Client).Error; err != nil {
				return err
			}
			ap.ClientID = ap.Client.ID
		}

		return tx.Omit(clause.Associations).Create(ap).Error
	})

	if httperr.IsExclusionConflict(err) {
		return domain.ErrSlotConflict
	}
	return err
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).
		Model(ap).
		Select("status", "canceled_at", "completed_at", "notes", "updated_at").
		Updates(ap).Error
	if httperr.IsExclusionConflict(err) {
		return domain.ErrSlotConflict
	}
	return err
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"professional_id = ? AND "+blockingStatus+" AND start_time >= ? AND start_time < ?",
			professionalID, start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	tenantID uint,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Professional").
		Where("tenant_id = ? AND start_time >= ? AND start_time < ?", tenantID, start, end)

	if professionalID != 0 {
		q = q.Where("professional_id = ?", professionalID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
