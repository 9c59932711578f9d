package analytics

import "github.com/shopspring/decimal"

type RevenuePoint struct {
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ProfessionalPerformance struct {
	ProfessionalID uint             `json:"professional_id"`
	Name           string           `json:"name"`
	Appointments   int              `json:"appointments"`
	Revenue        decimal.Decimal  `json:"revenue"`
	Ticket         decimal.Decimal  `json:"ticket"`
	Attendance     int              `json:"attendance"`
	Commission     *decimal.Decimal `json:"commission,omitempty"`
}

type GrowthPoint struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Metrics is the dashboard bundle for one tenant and period.
// OccupancyRate is an estimate: its denominator comes from EstimateMonthlySlots.
type Metrics struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`

	Revenue        decimal.Decimal `json:"revenue"`
	Sessions       int             `json:"sessions"`
	Capacity       int             `json:"capacity"`
	OccupancyRate  int             `json:"occupancy_rate"`
	AttendanceRate int             `json:"attendance_rate"`

	RevenueChart     []RevenuePoint            `json:"revenue_chart"`
	PerformanceTable []ProfessionalPerformance `json:"performance_table"`
	PatientGrowth    []GrowthPoint             `json:"patient_growth"`
	NewPatients      int                       `json:"new_patients"`

	Capabilities Capabilities `json:"capabilities"`
}
