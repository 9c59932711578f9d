package models

import "time"

// WorkSchedule is one professional's recurring window for one weekday
// (0 = Sunday). Times are "HH:MM[:SS]" strings; break fields are both set
// or both empty.
type WorkSchedule struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	ProfessionalID uint         `gorm:"uniqueIndex:ux_work_schedule_professional_weekday;not null" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Weekday int `gorm:"uniqueIndex:ux_work_schedule_professional_weekday;not null" json:"weekday"`

	StartTime  string `gorm:"size:8;not null" json:"start_time"`
	EndTime    string `gorm:"size:8;not null" json:"end_time"`
	BreakStart string `gorm:"size:8" json:"break_start"`
	BreakEnd   string `gorm:"size:8" json:"break_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ws WorkSchedule) HasBreak() bool {
	return ws.BreakStart != "" && ws.BreakEnd != ""
}
