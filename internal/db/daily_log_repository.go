package db

import (
	"time"

	"github.com/cyra-app/cyra/internal/models"
	"gorm.io/gorm"
)

type DailyLogRepository struct {
	database *gorm.DB
}

func NewDailyLogRepository(database *gorm.DB) *DailyLogRepository {
	return &DailyLogRepository{database: database}
}

func (repo *DailyLogRepository) ListByCycle(cycleID uint) ([]models.DailyLog, error) {
	logs := make([]models.DailyLog, 0)
	if err := repo.database.
		Where("cycle_id = ?", cycleID).
		Order("date ASC, id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *DailyLogRepository) FindByCycleAndDate(cycleID uint, dayStart time.Time, dayEnd time.Time) (models.DailyLog, bool, error) {
	entry := models.DailyLog{}
	result := repo.database.
		Where("cycle_id = ? AND date >= ? AND date < ?", cycleID, dayStart, dayEnd).
		Order("date DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.DailyLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DailyLog{}, false, nil
	}
	return entry, true, nil
}

func (repo *DailyLogRepository) Create(entry *models.DailyLog) error {
	return repo.database.Create(entry).Error
}

// UpdateFields merges only the named columns of an existing entry.
// Re-saving a date stays idempotent: last write wins per column, no
// duplicate rows. Selecting through the model keeps the JSON
// serializer on slice columns working.
func (repo *DailyLogRepository) UpdateFields(entry *models.DailyLog, columns ...string) error {
	return repo.database.Model(entry).Select(columns).Updates(entry).Error
}
