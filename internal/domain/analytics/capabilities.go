package analytics

import "strconv"

// Capabilities is the access policy applied to a dashboard query.
type Capabilities struct {
	CanViewGlobalRevenue bool `json:"can_view_global_revenue"`
	CanViewCommission    bool `json:"can_view_commission"`
}

const (
	RoleOwner        = "owner"
	RoleAdmin        = "admin"
	RoleReceptionist = "receptionist"
	RoleProfessional = "professional"
)

// CapabilitiesForRole is the single place roles are translated into access.
// Unknown roles get nothing.
func CapabilitiesForRole(role string) Capabilities {
	switch role {
	case RoleOwner, RoleAdmin:
		return Capabilities{CanViewGlobalRevenue: true, CanViewCommission: true}
	case RoleReceptionist:
		return Capabilities{CanViewGlobalRevenue: true}
	default:
		return Capabilities{}
	}
}

// Viewer is who is asking for the dashboard.
type Viewer struct {
	Role           string
	ProfessionalID *uint
	Capabilities   Capabilities
}

func NewViewer(role string, professionalID *uint) Viewer {
	return Viewer{
		Role:           role,
		ProfessionalID: professionalID,
		Capabilities:   CapabilitiesForRole(role),
	}
}

// ScopedProfessional returns the only professional a restricted viewer may
// see. restricted is false when the viewer sees the whole tenant.
func (v Viewer) ScopedProfessional() (id uint, restricted bool) {
	if v.Capabilities.CanViewGlobalRevenue {
		return 0, false
	}
	if v.ProfessionalID == nil {
		return 0, true
	}
	return *v.ProfessionalID, true
}

// CacheVariant distinguishes cached bundles computed under different policies.
func (v Viewer) CacheVariant() string {
	id, restricted := v.ScopedProfessional()
	switch {
	case !restricted && v.Capabilities.CanViewCommission:
		return "global+commission"
	case !restricted:
		return "global"
	default:
		return "professional:" + strconv.FormatUint(uint64(id), 10)
	}
}
