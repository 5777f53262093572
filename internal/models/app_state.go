package models

import "time"

// AppState is the per-user tracking state, one row per user. It is
// loaded at the start of a request and written back with column-level
// updates, never replaced wholesale.
type AppState struct {
	UserID         uint       `gorm:"primaryKey"`
	ActiveCycleID  *uint      `gorm:"index"`
	LastLoggedDate *time.Time `gorm:"type:date"`
	IsCycleRunning bool       `gorm:"not null;default:false"`
	UpdatedAt      time.Time
}
