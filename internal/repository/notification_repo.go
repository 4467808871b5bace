package repository

import (
	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *entity.NotificationLog) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListByOrder(orderID uint) ([]entity.NotificationLog, error) {
	var logs []entity.NotificationLog
	err := r.db.Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
