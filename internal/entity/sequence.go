package entity

// OrderSequence backs the per-year order-number counter. The counter
// lives in the database, not process memory, so numbers stay unique
// across restarts and multiple instances. The row is locked and
// incremented inside the order-creation transaction.
type OrderSequence struct {
	Year    int   `json:"year" gorm:"primaryKey;autoIncrement:false"`
	Counter int64 `json:"counter" gorm:"not null;default:0"`
}

func (OrderSequence) TableName() string {
	return "order_sequences"
}
