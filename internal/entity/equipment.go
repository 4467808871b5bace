package entity

import "time"

// Equipment is a device registered under a client.
type Equipment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ClientID     uint      `json:"client_id" gorm:"not null;index"`
	Type         string    `json:"type" gorm:"size:100;not null"`
	Brand        string    `json:"brand" gorm:"size:100"`
	Model        string    `json:"model" gorm:"size:100"`
	SerialNumber string    `json:"serial_number" gorm:"size:100"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

func (Equipment) TableName() string {
	return "equipment"
}
