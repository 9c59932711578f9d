package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesForRole(t *testing.T) {
	assert.Equal(t, Capabilities{CanViewGlobalRevenue: true, CanViewCommission: true}, CapabilitiesForRole(RoleOwner))
	assert.Equal(t, Capabilities{CanViewGlobalRevenue: true, CanViewCommission: true}, CapabilitiesForRole(RoleAdmin))
	assert.Equal(t, Capabilities{CanViewGlobalRevenue: true}, CapabilitiesForRole(RoleReceptionist))
	assert.Equal(t, Capabilities{}, CapabilitiesForRole(RoleProfessional))
	assert.Equal(t, Capabilities{}, CapabilitiesForRole("intruder"))
}

func TestViewerScope(t *testing.T) {
	id := uint(7)

	_, restricted := NewViewer(RoleOwner, nil).ScopedProfessional()
	assert.False(t, restricted)

	got, restricted := NewViewer(RoleProfessional, &id).ScopedProfessional()
	assert.True(t, restricted)
	assert.Equal(t, id, got)

	got, restricted = NewViewer(RoleProfessional, nil).ScopedProfessional()
	assert.True(t, restricted)
	assert.Zero(t, got)
}

func TestCacheVariant(t *testing.T) {
	id := uint(42)

	assert.Equal(t, "global+commission", NewViewer(RoleOwner, nil).CacheVariant())
	assert.Equal(t, "global", NewViewer(RoleReceptionist, nil).CacheVariant())
	assert.Equal(t, "professional:42", NewViewer(RoleProfessional, &id).CacheVariant())
}
