package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ServiceOrder status values. Orders move forward through the repair
// pipeline; cancelled and warranty can be entered from any non-terminal
// status. See service.OrderService for the transition rules.
const (
	StatusPending         = "pending"
	StatusWaitingApproval = "waiting_approval"
	StatusApproved        = "approved"
	StatusInProgress      = "in_progress"
	StatusCompleted       = "completed"
	StatusCancelled       = "cancelled"
	StatusWarranty        = "warranty"
)

// ValidStatuses lists every status the data model accepts.
var ValidStatuses = []string{
	StatusPending,
	StatusWaitingApproval,
	StatusApproved,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusWarranty,
}

// ServiceOrder is one repair/service engagement. OrderNumber and
// RequestDate are assigned at creation and never recomputed.
type ServiceOrder struct {
	ID              uint                        `json:"id" gorm:"primaryKey"`
	OrderNumber     string                      `json:"order_number" gorm:"size:30;not null;uniqueIndex"`
	ClientID        uint                        `json:"client_id" gorm:"not null;index"`
	EquipmentID     uint                        `json:"equipment_id" gorm:"not null;index"`
	TechnicianID    *uint                       `json:"technician_id" gorm:"index"`
	Description     string                      `json:"description" gorm:"type:text;not null"`
	Status          string                      `json:"status" gorm:"size:20;not null;default:pending"`
	RequestDate     time.Time                   `json:"request_date" gorm:"not null"`
	ExpectedDate    *time.Time                  `json:"expected_date"`
	CompletionDate  *time.Time                  `json:"completion_date"`
	Notes           string                      `json:"notes" gorm:"type:text"`
	MaterialsUsed   string                      `json:"materials_used" gorm:"type:text"`
	ClientSignature string                      `json:"client_signature" gorm:"type:text"`
	Photos          datatypes.JSONSlice[string] `json:"photos"`
	ClientApproved  *bool                       `json:"client_approved"`
	ApprovalDate    *time.Time                  `json:"approval_date"`
	Cost            *int64                      `json:"cost"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`

	Client     *Client     `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Equipment  *Equipment  `json:"equipment,omitempty" gorm:"foreignKey:EquipmentID"`
	Technician *Technician `json:"technician,omitempty" gorm:"foreignKey:TechnicianID"`
}

func (ServiceOrder) TableName() string {
	return "service_orders"
}

// IsTerminalStatus reports whether no further transition is allowed
// out of the given status.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled, StatusWarranty:
		return true
	}
	return false
}

// IsValidStatus reports whether the value is one of the known statuses.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
