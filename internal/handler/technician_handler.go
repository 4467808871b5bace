package handler

import (
	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"github.com/gin-gonic/gin"
)

type TechnicianHandler struct {
	repo *repository.TechnicianRepository
}

func NewTechnicianHandler(repo *repository.TechnicianRepository) *TechnicianHandler {
	return &TechnicianHandler{repo: repo}
}

type technicianRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
	Active    *bool  `json:"active"`
}

func (h *TechnicianHandler) Create(c *gin.Context) {
	var req technicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	tech := &entity.Technician{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
		Active:    true,
	}
	if req.Active != nil {
		tech.Active = *req.Active
	}
	if err := h.repo.Create(tech); err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, tech)
}

func (h *TechnicianHandler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	tech, err := h.repo.GetByID(id)
	if err != nil {
		NotFound(c, "technician not found")
		return
	}
	Success(c, tech)
}

func (h *TechnicianHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	techs, total, err := h.repo.List(repository.TechnicianListParams{
		ActiveOnly: c.Query("active") == "true",
		Keyword:    c.Query("keyword"),
		Page:       page,
		Size:       size,
	})
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": techs, "total": total, "page": page, "size": size})
}

func (h *TechnicianHandler) Update(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	tech, err := h.repo.GetByID(id)
	if err != nil {
		NotFound(c, "technician not found")
		return
	}
	var req technicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	tech.Name = req.Name
	tech.Email = req.Email
	tech.Phone = req.Phone
	tech.Specialty = req.Specialty
	if req.Active != nil {
		tech.Active = *req.Active
	}
	if err := h.repo.Update(tech); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, tech)
}

func (h *TechnicianHandler) Delete(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if _, err := h.repo.GetByID(id); err != nil {
		NotFound(c, "technician not found")
		return
	}
	if err := h.repo.Delete(id); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}
