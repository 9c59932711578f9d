package analytics

import "context"

// SetupListener is told after a tenant's professionals, work schedules or
// settings change. Those move capacity and period bounds, so any derived
// dashboard is stale.
type SetupListener interface {
	SetupChanged(ctx context.Context, tenantID uint)
}
