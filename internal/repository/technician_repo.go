package repository

import (
	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"gorm.io/gorm"
)

type TechnicianRepository struct {
	db *gorm.DB
}

func NewTechnicianRepository(db *gorm.DB) *TechnicianRepository {
	return &TechnicianRepository{db: db}
}

func (r *TechnicianRepository) Create(t *entity.Technician) error {
	return r.db.Create(t).Error
}

func (r *TechnicianRepository) GetByID(id uint) (*entity.Technician, error) {
	var t entity.Technician
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TechnicianRepository) Update(t *entity.Technician) error {
	return r.db.Save(t).Error
}

func (r *TechnicianRepository) Delete(id uint) error {
	return r.db.Delete(&entity.Technician{}, id).Error
}

type TechnicianListParams struct {
	ActiveOnly bool
	Keyword    string
	Page       int
	Size       int
}

func (r *TechnicianRepository) List(params TechnicianListParams) ([]entity.Technician, int64, error) {
	query := r.db.Model(&entity.Technician{})
	if params.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(specialty) LIKE LOWER(?)", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var techs []entity.Technician
	err := query.Order("name ASC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&techs).Error
	return techs, total, err
}
