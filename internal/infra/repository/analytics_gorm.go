package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/analytics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AnalyticsGormRepository struct {
	db *gorm.DB
}

func NewAnalyticsGormRepository(db *gorm.DB) *AnalyticsGormRepository {
	return &AnalyticsGormRepository{db: db}
}

func (r *AnalyticsGormRepository) GetTenantByID(ctx context.Context, tenantID uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, tenantID).Error; err != nil {
		return nil, notFound(err)
	}
	return &tenant, nil
}

func (r *AnalyticsGormRepository) ListProfessionals(ctx context.Context, tenantID uint) ([]models.Professional, error) {
	var out []models.Professional
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListWorkSchedules returns the rows of the tenant's active professionals.
func (r *AnalyticsGormRepository) ListWorkSchedules(ctx context.Context, tenantID uint) ([]models.WorkSchedule, error) {
	var out []models.WorkSchedule
	if err := r.db.WithContext(ctx).
		Joins("JOIN professionals ON professionals.id = work_schedules.professional_id").
		Where("professionals.tenant_id = ? AND professionals.active = ?", tenantID, true).
		Order("work_schedules.professional_id ASC, work_schedules.weekday ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AnalyticsGormRepository) ListAppointments(ctx context.Context, tenantID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("tenant_id = ? AND start_time >= ? AND start_time < ?", tenantID, start, end).
		Order("start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AnalyticsGormRepository) ListClientCreationTimes(ctx context.Context, tenantID uint, since, until time.Time) ([]time.Time, error) {
	var out []time.Time
	if err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, since, until).
		Order("created_at ASC").
		Pluck("created_at", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var _ analytics.Repository = (*AnalyticsGormRepository)(nil)
