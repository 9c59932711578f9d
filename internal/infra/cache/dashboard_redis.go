package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/analytics"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Key identifies one cached dashboard bundle.
type Key struct {
	TenantID uint
	Month    string // YYYY-MM
	Variant  string // analytics.Viewer.CacheVariant
}

// DashboardCache stores dashboard bundles in Redis. Every tenant has a
// version counter folded into its keys; bumping it invalidates all of the
// tenant's bundles at once and lets the old keys expire on their own.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewDashboardCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *DashboardCache {
	if logger == nil {
		logger = logging.Discard()
	}
	return &DashboardCache{client: client, ttl: ttl, logger: logger}
}

func versionKey(tenantID uint) string {
	return fmt.Sprintf("dashboard:v:%d", tenantID)
}

func (c *DashboardCache) key(ctx context.Context, k Key) (string, error) {
	version, err := c.client.Get(ctx, versionKey(k.TenantID)).Result()
	if errors.Is(err, redis.Nil) {
		version = "0"
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("dashboard:%d:%s:%s:%s", k.TenantID, version, k.Month, k.Variant), nil
}

// Get returns the cached bundle and whether it was found.
func (c *DashboardCache) Get(ctx context.Context, k Key) (*analytics.Metrics, bool, error) {
	key, err := c.key(ctx, k)
	if err != nil {
		return nil, false, err
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var m analytics.Metrics
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false, fmt.Errorf("decode cached dashboard: %w", err)
	}
	return &m, true, nil
}

func (c *DashboardCache) Set(ctx context.Context, k Key, m analytics.Metrics) error {
	key, err := c.key(ctx, k)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate drops every cached bundle of the tenant.
func (c *DashboardCache) Invalidate(ctx context.Context, tenantID uint) error {
	return c.client.Incr(ctx, versionKey(tenantID)).Err()
}

func (c *DashboardCache) AppointmentChanged(ctx context.Context, ap *models.Appointment, action domain.Action) {
	if err := c.Invalidate(ctx, ap.TenantID); err != nil {
		c.logger.Warn("dashboard cache invalidation failed",
			"tenant_id", ap.TenantID,
			"action", string(action),
			"error", err,
		)
	}
}

func (c *DashboardCache) SetupChanged(ctx context.Context, tenantID uint) {
	if err := c.Invalidate(ctx, tenantID); err != nil {
		c.logger.Warn("dashboard cache invalidation failed",
			"tenant_id", tenantID,
			"action", "setup_changed",
			"error", err,
		)
	}
}

var (
	_ domain.ChangeListener   = (*DashboardCache)(nil)
	_ analytics.SetupListener = (*DashboardCache)(nil)
)
