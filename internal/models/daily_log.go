package models

import "time"

const (
	FlowLight    = "light"
	FlowMedium   = "medium"
	FlowHeavy    = "heavy"
	FlowSpotting = "spotting"
)

// DailyLog is one day's entry within a cycle. The (cycle, date) pair is
// the identity: re-submitting the same date merges into the same row.
type DailyLog struct {
	ID          uint      `gorm:"primaryKey"`
	CycleID     uint      `gorm:"not null;uniqueIndex:uidx_cycle_date"`
	UserID      uint      `gorm:"not null;index"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uidx_cycle_date"`
	Mood        string
	Symptoms    []string `gorm:"serializer:json"`
	FlowLevel   string
	WaterIntake int      `gorm:"not null;default:0"`
	SelfCare    []string `gorm:"serializer:json"`
	Note        string
	Insight     string
	Warnings    []string `gorm:"serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
