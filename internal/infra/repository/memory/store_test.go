package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestCreateAppointmentRejectsOverlapUnderContention(t *testing.T) {
	s := NewStore()
	tenant := s.AddTenant(models.Tenant{Slug: "clinic"})
	prof := s.AddProfessional(models.Professional{TenantID: tenant.ID, Active: true})

	start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			begin := start.Add(time.Duration(offset%3) * 10 * time.Minute)
			ap := &models.Appointment{
				TenantID:       tenant.ID,
				ProfessionalID: prof.ID,
				StartTime:      begin,
				EndTime:        begin.Add(30 * time.Minute),
				Status:         string(domain.StatusScheduled),
				Client:         models.Client{TenantID: tenant.ID, Name: "c", Phone: "1"},
			}
			err := s.CreateAppointment(context.Background(), ap)
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrSlotConflict)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, s.Appointments(), 1)
	assert.Len(t, s.Clients(), 1, "rejected bookings leave no client behind")
}

func TestCanceledAppointmentsDoNotBlock(t *testing.T) {
	s := NewStore()
	start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	s.AddAppointment(models.Appointment{
		ProfessionalID: 1,
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		Status:         string(domain.StatusCanceled),
	})

	conflict, err := s.HasTimeConflict(context.Background(), 1, start, start.Add(30*time.Minute))
	require.NoError(t, err)
	assert.False(t, conflict)

	// back-to-back is not a conflict
	s.AddAppointment(models.Appointment{
		ProfessionalID: 1,
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		Status:         string(domain.StatusScheduled),
	})
	conflict, err = s.HasTimeConflict(context.Background(), 1, start.Add(30*time.Minute), start.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestLookupsAreTenantScoped(t *testing.T) {
	s := NewStore()
	a := s.AddTenant(models.Tenant{Slug: "a"})
	b := s.AddTenant(models.Tenant{Slug: "b"})
	prof := s.AddProfessional(models.Professional{TenantID: a.ID})
	svc := s.AddService(models.Service{TenantID: a.ID})
	client := s.AddClient(models.Client{TenantID: a.ID, Phone: "55"})

	ctx := context.Background()

	_, err := s.GetProfessional(ctx, b.ID, prof.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	_, err = s.GetService(ctx, b.ID, svc.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	_, err = s.GetClient(ctx, b.ID, client.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	_, err = s.FindClientByPhone(ctx, b.ID, "55")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	got, err := s.GetTenantBySlug(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}
