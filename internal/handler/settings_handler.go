package handler

import (
	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	repo *repository.SettingsRepository
}

func NewSettingsHandler(repo *repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{repo: repo}
}

// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.repo.Get()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	// never echo secrets back to the browser
	settings.SMTPPassword = ""
	settings.PDFAPIKey = ""
	Success(c, settings)
}

// PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	current, err := h.repo.Get()
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	var req entity.CompanySettings
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	// blank secrets in the payload mean "keep the stored value"
	if req.SMTPPassword == "" {
		req.SMTPPassword = current.SMTPPassword
	}
	if req.PDFAPIKey == "" {
		req.PDFAPIKey = current.PDFAPIKey
	}

	if err := h.repo.Save(&req); err != nil {
		InternalError(c, err.Error())
		return
	}
	req.SMTPPassword = ""
	req.PDFAPIKey = ""
	Success(c, &req)
}
