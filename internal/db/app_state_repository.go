package db

import (
	"github.com/cyra-app/cyra/internal/models"
	"gorm.io/gorm"
)

type AppStateRepository struct {
	database *gorm.DB
}

func NewAppStateRepository(database *gorm.DB) *AppStateRepository {
	return &AppStateRepository{database: database}
}

func (repo *AppStateRepository) FindByUser(userID uint) (models.AppState, bool, error) {
	state := models.AppState{}
	result := repo.database.
		Where("user_id = ?", userID).
		Limit(1).
		Find(&state)
	if result.Error != nil {
		return models.AppState{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.AppState{}, false, nil
	}
	return state, true, nil
}

func (repo *AppStateRepository) Create(state *models.AppState) error {
	return repo.database.Create(state).Error
}

// UpdateByUser merges the given columns into the state row so a daily
// save advancing last_logged_date cannot clobber the active cycle id.
func (repo *AppStateRepository) UpdateByUser(userID uint, updates map[string]any) error {
	return repo.database.Model(&models.AppState{}).Where("user_id = ?", userID).Updates(updates).Error
}
