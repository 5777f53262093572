package db

import "gorm.io/gorm"

type Repositories struct {
	Users     *UserRepository
	Cycles    *CycleRepository
	DailyLogs *DailyLogRepository
	AppStates *AppStateRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		Cycles:    NewCycleRepository(database),
		DailyLogs: NewDailyLogRepository(database),
		AppStates: NewAppStateRepository(database),
	}
}
