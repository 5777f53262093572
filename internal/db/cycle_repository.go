package db

import (
	"github.com/cyra-app/cyra/internal/models"
	"gorm.io/gorm"
)

type CycleRepository struct {
	database *gorm.DB
}

func NewCycleRepository(database *gorm.DB) *CycleRepository {
	return &CycleRepository{database: database}
}

func (repo *CycleRepository) Create(cycle *models.Cycle) error {
	return repo.database.Create(cycle).Error
}

func (repo *CycleRepository) FindByID(userID uint, cycleID uint) (models.Cycle, error) {
	var cycle models.Cycle
	if err := repo.database.
		Where("user_id = ? AND id = ?", userID, cycleID).
		First(&cycle).Error; err != nil {
		return models.Cycle{}, err
	}
	return cycle, nil
}

func (repo *CycleRepository) FindByPublicID(userID uint, publicID string) (models.Cycle, error) {
	var cycle models.Cycle
	if err := repo.database.
		Where("user_id = ? AND public_id = ?", userID, publicID).
		First(&cycle).Error; err != nil {
		return models.Cycle{}, err
	}
	return cycle, nil
}

// UpdateFields applies only the named columns so concurrent writers
// cannot clobber columns they did not touch, and the JSON serializer
// on red_flags keeps working.
func (repo *CycleRepository) UpdateFields(cycle *models.Cycle, columns ...string) error {
	return repo.database.Model(cycle).Select(columns).Updates(cycle).Error
}

func (repo *CycleRepository) ListClosedByUser(userID uint) ([]models.Cycle, error) {
	cycles := make([]models.Cycle, 0)
	if err := repo.database.
		Where("user_id = ? AND end_date IS NOT NULL", userID).
		Order("start_date DESC, id DESC").
		Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

func (repo *CycleRepository) ListRecentClosed(userID uint, limit int) ([]models.Cycle, error) {
	cycles := make([]models.Cycle, 0)
	if err := repo.database.
		Where("user_id = ? AND end_date IS NOT NULL", userID).
		Order("start_date DESC, id DESC").
		Limit(limit).
		Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}
