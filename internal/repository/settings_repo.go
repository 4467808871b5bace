package repository

import (
	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"gorm.io/gorm"
)

// SettingsRepository manages the single company_settings row.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row, creating an empty one on first access.
func (r *SettingsRepository) Get() (*entity.CompanySettings, error) {
	var s entity.CompanySettings
	if err := r.db.Where(entity.CompanySettings{ID: 1}).FirstOrCreate(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Save(s *entity.CompanySettings) error {
	s.ID = 1
	return r.db.Save(s).Error
}
