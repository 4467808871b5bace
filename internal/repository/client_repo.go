package repository

import (
	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(c *entity.Client) error {
	return r.db.Create(c).Error
}

func (r *ClientRepository) GetByID(id uint) (*entity.Client, error) {
	var c entity.Client
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *ClientRepository) Update(c *entity.Client) error {
	return r.db.Save(c).Error
}

func (r *ClientRepository) Delete(id uint) error {
	return r.db.Delete(&entity.Client{}, id).Error
}

type ClientListParams struct {
	Keyword string
	Page    int
	Size    int
}

func (r *ClientRepository) List(params ClientListParams) ([]entity.Client, int64, error) {
	query := r.db.Model(&entity.Client{})
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR document LIKE ?", kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var clients []entity.Client
	err := query.Order("name ASC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&clients).Error
	return clients, total, err
}
