// Package memory is a mutex-guarded in-process store with the same
// semantics as the gorm repositories, including the overlap guard on
// admission. It backs tests and local runs without Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/analytics"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timeofday"
)

type Store struct {
	mu     sync.Mutex
	nextID uint

	tenants       map[uint]models.Tenant
	professionals map[uint]models.Professional
	services      map[uint]models.Service
	clients       map[uint]models.Client
	schedules     []models.WorkSchedule
	appointments  map[uint]models.Appointment

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		tenants:       map[uint]models.Tenant{},
		professionals: map[uint]models.Professional{},
		services:      map[uint]models.Service{},
		clients:       map[uint]models.Client{},
		appointments:  map[uint]models.Appointment{},
		now:           time.Now,
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// -------- Seeding --------

func (s *Store) AddTenant(t models.Tenant) models.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.id()
	}
	s.tenants[t.ID] = t
	return t
}

func (s *Store) AddProfessional(p models.Professional) models.Professional {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.professionals[p.ID] = p
	return p
}

func (s *Store) AddService(svc models.Service) models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == 0 {
		svc.ID = s.id()
	}
	s.services[svc.ID] = svc
	return svc
}

func (s *Store) AddClient(c models.Client) models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertClient(&c)
	return c
}

func (s *Store) AddWorkSchedule(ws models.WorkSchedule) models.WorkSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws.ID == 0 {
		ws.ID = s.id()
	}
	for i, cur := range s.schedules {
		if cur.ProfessionalID == ws.ProfessionalID && cur.Weekday == ws.Weekday {
			s.schedules[i] = ws
			return ws
		}
	}
	s.schedules = append(s.schedules, ws)
	return ws
}

// AddAppointment stores ap as is, bypassing the overlap guard.
func (s *Store) AddAppointment(ap models.Appointment) models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ap.ID == 0 {
		ap.ID = s.id()
	}
	s.appointments[ap.ID] = ap
	return ap
}

func (s *Store) insertClient(c *models.Client) {
	if c.ID == 0 {
		c.ID = s.id()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.clients[c.ID] = *c
}

// Appointments returns a snapshot ordered by start time.
func (s *Store) Appointments() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Appointment, 0, len(s.appointments))
	for _, ap := range s.appointments {
		out = append(out, ap)
	}
	sortByStart(out)
	return out
}

func (s *Store) Clients() []models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// -------- Tenant --------

func (s *Store) GetTenantByID(_ context.Context, id uint) (*models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &t, nil
}

func (s *Store) GetTenantBySlug(_ context.Context, slug string) (*models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.Slug == slug {
			t := t
			return &t, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

// -------- References --------

func (s *Store) GetProfessional(_ context.Context, tenantID, professionalID uint) (*models.Professional, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.professionals[professionalID]
	if !ok || p.TenantID != tenantID {
		return nil, domain.ErrRecordNotFound
	}
	return &p, nil
}

func (s *Store) GetService(_ context.Context, tenantID, serviceID uint) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[serviceID]
	if !ok || svc.TenantID != tenantID {
		return nil, domain.ErrRecordNotFound
	}
	return &svc, nil
}

func (s *Store) GetClient(_ context.Context, tenantID, clientID uint) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok || c.TenantID != tenantID {
		return nil, domain.ErrRecordNotFound
	}
	return &c, nil
}

func (s *Store) FindClientByPhone(_ context.Context, tenantID uint, phone string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.TenantID == tenantID && c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

// -------- Schedule --------

func (s *Store) GetWorkSchedule(_ context.Context, professionalID uint, weekday int) (*models.WorkSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ws := range s.schedules {
		if ws.ProfessionalID == professionalID && ws.Weekday == weekday {
			ws := ws
			return &ws, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

// -------- Appointment --------

func (s *Store) HasTimeConflict(_ context.Context, professionalID uint, start, end time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlaps(professionalID, start, end, 0), nil
}

func (s *Store) overlaps(professionalID uint, start, end time.Time, skipID uint) bool {
	for _, ap := range s.appointments {
		if ap.ID == skipID || ap.ProfessionalID != professionalID {
			continue
		}
		if !domain.Status(ap.Status).BlocksTime() {
			continue
		}
		if timeofday.Overlap(start, end, ap.StartTime, ap.EndTime) {
			return true
		}
	}
	return false
}

// CreateAppointment re-checks overlaps under the store lock, the same
// guarantee the exclusion constraint gives in Postgres.
func (s *Store) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.overlaps(ap.ProfessionalID, ap.StartTime, ap.EndTime, 0) {
		return domain.ErrSlotConflict
	}

	if ap.ClientID == 0 {
		s.insertClient(&ap.Client)
		ap.ClientID = ap.Client.ID
	}

	ap.ID = s.id()
	ap.CreatedAt = s.now()
	ap.UpdatedAt = ap.CreatedAt

	row := *ap
	row.Professional = models.Professional{}
	row.Service = models.Service{}
	row.Client = models.Client{}
	s.appointments[ap.ID] = row
	return nil
}

func (s *Store) GetAppointment(_ context.Context, tenantID, appointmentID uint) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ap, ok := s.appointments[appointmentID]
	if !ok || ap.TenantID != tenantID {
		return nil, domain.ErrRecordNotFound
	}
	return &ap, nil
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[ap.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	if domain.Status(ap.Status).BlocksTime() && s.overlaps(ap.ProfessionalID, ap.StartTime, ap.EndTime, ap.ID) {
		return domain.ErrSlotConflict
	}
	ap.UpdatedAt = s.now()
	s.appointments[ap.ID] = *ap
	return nil
}

// ListAppointmentsForDay returns the blocking appointments of the
// professional starting in [start, end).
func (s *Store) ListAppointmentsForDay(_ context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, ap := range s.appointments {
		if ap.ProfessionalID != professionalID || !domain.Status(ap.Status).BlocksTime() {
			continue
		}
		if !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, ap)
		}
	}
	sortByStart(out)
	return out, nil
}

func (s *Store) ListAppointmentsForPeriod(_ context.Context, tenantID, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, ap := range s.appointments {
		if ap.TenantID != tenantID {
			continue
		}
		if professionalID != 0 && ap.ProfessionalID != professionalID {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		out = append(out, s.withRefs(ap))
	}
	sortByStart(out)
	return out, nil
}

func (s *Store) withRefs(ap models.Appointment) models.Appointment {
	ap.Professional = s.professionals[ap.ProfessionalID]
	ap.Service = s.services[ap.ServiceID]
	ap.Client = s.clients[ap.ClientID]
	return ap
}

// -------- Analytics --------

func (s *Store) ListProfessionals(_ context.Context, tenantID uint) ([]models.Professional, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Professional
	for _, p := range s.professionals {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListWorkSchedules(_ context.Context, tenantID uint) ([]models.WorkSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WorkSchedule
	for _, ws := range s.schedules {
		if p, ok := s.professionals[ws.ProfessionalID]; ok && p.TenantID == tenantID && p.Active {
			out = append(out, ws)
		}
	}
	return out, nil
}

func (s *Store) ListAppointments(ctx context.Context, tenantID uint, start, end time.Time) ([]models.Appointment, error) {
	return s.ListAppointmentsForPeriod(ctx, tenantID, 0, start, end)
}

func (s *Store) ListClientCreationTimes(_ context.Context, tenantID uint, since, until time.Time) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Time
	for _, c := range s.clients {
		if c.TenantID != tenantID {
			continue
		}
		if !c.CreatedAt.Before(since) && c.CreatedAt.Before(until) {
			out = append(out, c.CreatedAt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func sortByStart(aps []models.Appointment) {
	sort.Slice(aps, func(i, j int) bool {
		if !aps[i].StartTime.Equal(aps[j].StartTime) {
			return aps[i].StartTime.Before(aps[j].StartTime)
		}
		return aps[i].ID < aps[j].ID
	})
}

var (
	_ domain.Repository    = (*Store)(nil)
	_ analytics.Repository = (*Store)(nil)
)
