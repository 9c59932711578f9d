package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/analytics"
	apptdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

var tracer = otel.Tracer("clinic-scheduler/usecase/analytics")

var ErrInvalidPeriod = httperr.Validation("invalid_period", "Período inválido.")

// Cache is the dashboard bundle cache. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, k cache.Key) (*domain.Metrics, bool, error)
	Set(ctx context.Context, k cache.Key, m domain.Metrics) error
}

// DashboardInput selects one civil month. A zero Year or Month means the
// current one in the tenant's timezone.
type DashboardInput struct {
	TenantID       uint
	Year           int
	Month          int
	Role           string
	ProfessionalID *uint
}

type GetDashboardMetrics struct {
	repo     domain.Repository
	cache    Cache
	capacity domain.CapacityOptions
	metrics  *metrics.DashboardMetrics
	logger   *logging.Logger
	now      func() time.Time
}

type Option func(*GetDashboardMetrics)

func WithCache(c Cache) Option {
	return func(uc *GetDashboardMetrics) { uc.cache = c }
}

func WithCapacity(opts domain.CapacityOptions) Option {
	return func(uc *GetDashboardMetrics) { uc.capacity = opts }
}

func WithMetrics(m *metrics.DashboardMetrics) Option {
	return func(uc *GetDashboardMetrics) { uc.metrics = m }
}

func WithLogger(l *logging.Logger) Option {
	return func(uc *GetDashboardMetrics) {
		if l != nil {
			uc.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *GetDashboardMetrics) { uc.now = now }
}

func NewGetDashboardMetrics(repo domain.Repository, opts ...Option) *GetDashboardMetrics {
	uc := &GetDashboardMetrics{
		repo:     repo,
		capacity: domain.DefaultCapacityOptions(),
		logger:   logging.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute returns the dashboard bundle of one civil month of the tenant.
// A tenant without a row or without professionals gets the zero bundle.
func (uc *GetDashboardMetrics) Execute(ctx context.Context, in DashboardInput) (domain.Metrics, error) {
	ctx, span := tracer.Start(ctx, "analytics.dashboard")
	defer span.End()
	span.SetAttributes(attribute.Int64("tenant.id", int64(in.TenantID)))

	if in.Month < 0 || in.Month > 12 || in.Year < 0 {
		return domain.Metrics{}, ErrInvalidPeriod
	}

	began := time.Now()

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	switch {
	case errors.Is(err, apptdomain.ErrRecordNotFound):
		tenant = nil
	case err != nil:
		return domain.Metrics{}, fmt.Errorf("load tenant: %w", err)
	}

	tz := ""
	if tenant != nil {
		tz = tenant.Timezone
	}
	loc := timezone.Location(tz)
	now := uc.now().In(loc)

	year, month := in.Year, in.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	span.SetAttributes(
		attribute.Int("period.year", year),
		attribute.Int("period.month", month),
	)

	period := domain.MonthPeriod(year, time.Month(month), loc)
	viewer := domain.NewViewer(in.Role, in.ProfessionalID)

	if tenant == nil {
		return domain.Empty(period, now, viewer.Capabilities), nil
	}

	key := cache.Key{
		TenantID: in.TenantID,
		Month:    period.Start.Format("2006-01"),
		Variant:  viewer.CacheVariant(),
	}

	if m, ok := uc.fromCache(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		uc.metrics.ObserveRequest("cache", time.Since(began).Seconds())
		return *m, nil
	}

	m, err := uc.compute(ctx, in.TenantID, period, viewer, now)
	if err != nil {
		span.RecordError(err)
		return domain.Metrics{}, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, m); err != nil {
			uc.logger.Warn("dashboard cache write failed", "tenant_id", in.TenantID, "error", err)
		}
	}

	uc.metrics.ObserveRequest("store", time.Since(began).Seconds())
	return m, nil
}

func (uc *GetDashboardMetrics) fromCache(ctx context.Context, key cache.Key) (*domain.Metrics, bool) {
	if uc.cache == nil {
		return nil, false
	}
	m, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("dashboard cache read failed", "tenant_id", key.TenantID, "error", err)
		return nil, false
	}
	uc.metrics.ObserveCache(ok)
	return m, ok
}

func (uc *GetDashboardMetrics) compute(
	ctx context.Context,
	tenantID uint,
	period domain.Period,
	viewer domain.Viewer,
	now time.Time,
) (domain.Metrics, error) {

	professionals, err := uc.repo.ListProfessionals(ctx, tenantID)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("list professionals: %w", err)
	}
	if len(professionals) == 0 {
		return domain.Empty(period, now, viewer.Capabilities), nil
	}

	schedules, err := uc.repo.ListWorkSchedules(ctx, tenantID)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("list work schedules: %w", err)
	}

	appointments, err := uc.repo.ListAppointments(ctx, tenantID, period.Start, period.End)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("list appointments: %w", err)
	}

	since, until := domain.GrowthWindow(now)
	created, err := uc.repo.ListClientCreationTimes(ctx, tenantID, since, until)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("list clients: %w", err)
	}

	return domain.Aggregate(domain.Input{
		Period:          period,
		Now:             now,
		Professionals:   professionals,
		Schedules:       schedules,
		Appointments:    appointments,
		ClientCreatedAt: created,
		Capacity:        uc.capacity,
		Viewer:          viewer,
	}), nil
}
