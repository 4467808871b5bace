package entity

import "time"

// CompanySettings is a single-row table holding the company identity
// printed on work orders plus the outbound mail and PDF service
// configuration. The repository always reads/writes row ID 1.
type CompanySettings struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:200"`
	Document string `json:"document" gorm:"size:50"`
	Address  string `json:"address" gorm:"size:300"`
	Phone    string `json:"phone" gorm:"size:50"`
	Email    string `json:"email" gorm:"size:200"`
	LogoURL  string `json:"logo_url" gorm:"size:500"`

	SMTPHost     string `json:"smtp_host" gorm:"size:200"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPSecure   bool   `json:"smtp_secure"`
	SMTPUser     string `json:"smtp_user" gorm:"size:200"`
	SMTPPassword string `json:"smtp_password,omitempty" gorm:"size:200"`
	SMTPFromName string `json:"smtp_from_name" gorm:"size:200"`
	SMTPFromAddr string `json:"smtp_from_addr" gorm:"size:200"`

	PDFAPIKey   string `json:"pdf_api_key,omitempty" gorm:"size:200"`
	PDFEndpoint string `json:"pdf_endpoint" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CompanySettings) TableName() string {
	return "company_settings"
}
