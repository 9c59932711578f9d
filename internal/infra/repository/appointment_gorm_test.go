package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func newAppointment() *models.Appointment {
	start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	return &models.Appointment{
		TenantID:       1,
		ProfessionalID: 2,
		ClientID:       3,
		ServiceID:      4,
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		Status:         string(domain.StatusScheduled),
	}
}

func TestGetProfessionalNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "professionals" WHERE id = \$1 AND tenant_id = \$2 ORDER BY "professionals"\."id" LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetProfessional(context.Background(), 1, 9)

	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasTimeConflictIgnoresCanceled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)
	ap := newAppointment()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments" WHERE professional_id = \$1 AND status <> 'canceled' AND start_time < \$2 AND end_time > \$3`).
		WithArgs(ap.ProfessionalID, ap.EndTime, ap.StartTime).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	conflict, err := repo.HasTimeConflict(context.Background(), ap.ProfessionalID, ap.StartTime, ap.EndTime)

	require.NoError(t, err)
	assert.True(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointmentLocksAndInserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)
	ap := newAppointment()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "professionals" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(ap.ProfessionalID))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	err := repo.CreateAppointment(context.Background(), ap)

	require.NoError(t, err)
	assert.Equal(t, uint(42), ap.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointmentRecheckFindsOverlap(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "professionals" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.CreateAppointment(context.Background(), newAppointment())

	assert.ErrorIs(t, err, domain.ErrSlotConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointmentMapsExclusionViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "professionals" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "appointments"`).
		WillReturnError(&pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"})
	mock.ExpectRollback()

	err := repo.CreateAppointment(context.Background(), newAppointment())

	assert.ErrorIs(t, err, domain.ErrSlotConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointmentInsertsNewClientInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	ap := newAppointment()
	ap.ClientID = 0
	ap.Client = models.Client{TenantID: 1, Name: "Bia", Phone: "11999990000"}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "professionals" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(77))
	mock.ExpectQuery(`INSERT INTO "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateAppointment(context.Background(), ap))
	assert.Equal(t, uint(77), ap.ClientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
