package repository

import (
	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"gorm.io/gorm"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(e *entity.Equipment) error {
	return r.db.Create(e).Error
}

func (r *EquipmentRepository) GetByID(id uint) (*entity.Equipment, error) {
	var e entity.Equipment
	if err := r.db.Preload("Client").First(&e, id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *EquipmentRepository) Update(e *entity.Equipment) error {
	return r.db.Save(e).Error
}

func (r *EquipmentRepository) Delete(id uint) error {
	return r.db.Delete(&entity.Equipment{}, id).Error
}

type EquipmentListParams struct {
	ClientID uint
	Keyword  string
	Page     int
	Size     int
}

func (r *EquipmentRepository) List(params EquipmentListParams) ([]entity.Equipment, int64, error) {
	query := r.db.Model(&entity.Equipment{})
	if params.ClientID != 0 {
		query = query.Where("client_id = ?", params.ClientID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("LOWER(type) LIKE LOWER(?) OR LOWER(brand) LIKE LOWER(?) OR serial_number LIKE ?", kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.Equipment
	err := query.Preload("Client").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&items).Error
	return items, total, err
}
