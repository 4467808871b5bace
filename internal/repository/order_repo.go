package repository

import (
	"time"

	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// NextSequence increments and returns the order counter for a year.
// The UPDATE takes the row lock, so concurrent creations in separate
// transactions serialize on it and never see the same value.
func (r *OrderRepository) NextSequence(tx *gorm.DB, year int) (int64, error) {
	seq := entity.OrderSequence{Year: year}
	if err := tx.Where(entity.OrderSequence{Year: year}).FirstOrCreate(&seq).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&entity.OrderSequence{}).
		Where("year = ?", year).
		Update("counter", gorm.Expr("counter + 1")).Error; err != nil {
		return 0, err
	}
	var out entity.OrderSequence
	if err := tx.First(&out, "year = ?", year).Error; err != nil {
		return 0, err
	}
	return out.Counter, nil
}

// CreateInTx persists an order inside the caller's transaction.
func (r *OrderRepository) CreateInTx(tx *gorm.DB, o *entity.ServiceOrder) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) GetByID(id uint) (*entity.ServiceOrder, error) {
	var o entity.ServiceOrder
	err := r.db.Preload("Client").Preload("Equipment").Preload("Technician").
		First(&o, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *OrderRepository) Update(o *entity.ServiceOrder) error {
	return r.db.Save(o).Error
}

func (r *OrderRepository) Delete(id uint) error {
	return r.db.Delete(&entity.ServiceOrder{}, id).Error
}

func (r *OrderRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&entity.ServiceOrder{}).Count(&total).Error
	return total, err
}

type OrderListParams struct {
	Status       string
	ClientID     uint
	TechnicianID uint
	Keyword      string
	From         *time.Time
	To           *time.Time
	Page         int
	Size         int
}

func (r *OrderRepository) List(params OrderListParams) ([]entity.ServiceOrder, int64, error) {
	query := r.db.Model(&entity.ServiceOrder{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ClientID != 0 {
		query = query.Where("client_id = ?", params.ClientID)
	}
	if params.TechnicianID != 0 {
		query = query.Where("technician_id = ?", params.TechnicianID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("order_number LIKE ? OR LOWER(description) LIKE LOWER(?)", kw, kw)
	}
	if params.From != nil {
		query = query.Where("request_date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("request_date < ?", *params.To)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.ServiceOrder
	err := query.Preload("Client").Preload("Equipment").Preload("Technician").
		Order("request_date DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&orders).Error
	return orders, total, err
}

// GetByIDs loads fully-resolved orders for the bulk PDF document,
// preserving the requested order ids that exist.
func (r *OrderRepository) GetByIDs(ids []uint) ([]entity.ServiceOrder, error) {
	var orders []entity.ServiceOrder
	err := r.db.Preload("Client").Preload("Equipment").Preload("Technician").
		Where("id IN ?", ids).Find(&orders).Error
	return orders, err
}

// CompletedBetween returns completed orders whose completion date falls
// in [from, to). Used by the revenue aggregation.
func (r *OrderRepository) CompletedBetween(from, to time.Time) ([]entity.ServiceOrder, error) {
	var orders []entity.ServiceOrder
	err := r.db.Where("status = ? AND completion_date >= ? AND completion_date < ?",
		entity.StatusCompleted, from, to).
		Order("completion_date ASC").
		Find(&orders).Error
	return orders, err
}

// CountByStatus returns order counts grouped by status.
func (r *OrderRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.Model(&entity.ServiceOrder{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
