package domain

import "gorm.io/gorm"

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&DriverConfig{},
		&FixedCost{},
		&Trip{},
		&Expense{},
		&DailySummary{},
		&PendingTrip{},
	)
}
