package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// noOverlapConstraint refuses two non-canceled appointments of one
// professional whose [start, end) ranges intersect.
const noOverlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
	) THEN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (
				professional_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			)
			WHERE (status <> 'canceled');
	END IF;
END
$$;`

func NewDB(cfg *config.Config, logger *logging.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, cfg.DefaultTimezone); err != nil {
		return nil, err
	}

	logger.Info("database ready")
	return db, nil
}

// Migrate creates the schema and the overlap constraint. It is safe to run
// on every start.
func Migrate(db *gorm.DB, defaultTimezone string) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.Professional{},
		&models.User{},
		&models.Service{},
		&models.WorkSchedule{},
		&models.Client{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(noOverlapConstraint).Error; err != nil {
		return fmt.Errorf("add overlap constraint: %w", err)
	}

	return db.Exec(`
		UPDATE tenants
		SET timezone = ?
		WHERE timezone IS NULL OR timezone = ''
	`, defaultTimezone).Error
}
