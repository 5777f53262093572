package models

import "time"

// PredictionCycleLength is the fixed horizon used for next-period
// prediction. Prediction is not adaptive to observed cycle lengths.
const PredictionCycleLength = 28

type Cycle struct {
	ID                uint       `gorm:"primaryKey"`
	PublicID          string     `gorm:"uniqueIndex;not null"`
	UserID            uint       `gorm:"not null;index"`
	StartDate         time.Time  `gorm:"type:date;not null"`
	EndDate           *time.Time `gorm:"type:date"`
	CycleLength       int
	CycleHealthScore  int
	NextPredictedDate *time.Time `gorm:"type:date"`
	TopMood           string
	TopSymptom        string
	TopFlow           string
	FlowSummary       string
	SummaryText       string
	RedFlags          []string `gorm:"serializer:json"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsClosed reports whether the cycle has been finalized. EndDate is set
// exactly when the cycle stops being the active one.
func (cycle Cycle) IsClosed() bool {
	return cycle.EndDate != nil
}
