package entity

import "time"

// Notification delivery outcomes.
const (
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// NotificationLog records the outcome of every email dispatch attempt,
// including the fire-and-forget sends issued on order creation. Failed
// rows are the dead letters: nothing retries them automatically, but
// they are visible per order and can be resent explicitly.
type NotificationLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	Recipient string    `json:"recipient" gorm:"size:200;not null"`
	Subject   string    `json:"subject" gorm:"size:300"`
	Status    string    `json:"status" gorm:"size:10;not null"`
	Attempts  int       `json:"attempts"`
	Error     string    `json:"error" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}
