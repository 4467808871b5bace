package entity

import "gorm.io/gorm"

// AutoMigrate migrates every table owned by this service.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// master data
		&User{},
		&Client{},
		&Technician{},
		&Equipment{},
		&CompanySettings{},

		// orders
		&ServiceOrder{},
		&OrderSequence{},

		// notifications
		&NotificationLog{},
	)
}
