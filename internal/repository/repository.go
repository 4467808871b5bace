package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("record not found")

// Repositories bundles every repository over one gorm handle.
type Repositories struct {
	User         *UserRepository
	Client       *ClientRepository
	Equipment    *EquipmentRepository
	Technician   *TechnicianRepository
	Order        *OrderRepository
	Settings     *SettingsRepository
	Notification *NotificationRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Client:       NewClientRepository(db),
		Equipment:    NewEquipmentRepository(db),
		Technician:   NewTechnicianRepository(db),
		Order:        NewOrderRepository(db),
		Settings:     NewSettingsRepository(db),
		Notification: NewNotificationRepository(db),
	}
}

// translate maps gorm's sentinel onto the package-level one so callers
// never import gorm for error checks.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
