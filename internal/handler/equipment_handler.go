package handler

import (
	"strconv"

	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"github.com/gin-gonic/gin"
)

type EquipmentHandler struct {
	repo    *repository.EquipmentRepository
	clients *repository.ClientRepository
}

func NewEquipmentHandler(repo *repository.EquipmentRepository, clients *repository.ClientRepository) *EquipmentHandler {
	return &EquipmentHandler{repo: repo, clients: clients}
}

type equipmentRequest struct {
	ClientID     uint   `json:"client_id" binding:"required"`
	Type         string `json:"type" binding:"required"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
	Notes        string `json:"notes"`
}

func (h *EquipmentHandler) Create(c *gin.Context) {
	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if _, err := h.clients.GetByID(req.ClientID); err != nil {
		NotFound(c, "client not found")
		return
	}
	equip := &entity.Equipment{
		ClientID:     req.ClientID,
		Type:         req.Type,
		Brand:        req.Brand,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		Notes:        req.Notes,
	}
	if err := h.repo.Create(equip); err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, equip)
}

func (h *EquipmentHandler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	equip, err := h.repo.GetByID(id)
	if err != nil {
		NotFound(c, "equipment not found")
		return
	}
	Success(c, equip)
}

func (h *EquipmentHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 32)
	items, total, err := h.repo.List(repository.EquipmentListParams{
		ClientID: uint(clientID),
		Keyword:  c.Query("keyword"),
		Page:     page,
		Size:     size,
	})
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": items, "total": total, "page": page, "size": size})
}

func (h *EquipmentHandler) Update(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	equip, err := h.repo.GetByID(id)
	if err != nil {
		NotFound(c, "equipment not found")
		return
	}
	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if req.ClientID != equip.ClientID {
		if _, err := h.clients.GetByID(req.ClientID); err != nil {
			NotFound(c, "client not found")
			return
		}
		equip.ClientID = req.ClientID
	}
	equip.Type = req.Type
	equip.Brand = req.Brand
	equip.Model = req.Model
	equip.SerialNumber = req.SerialNumber
	equip.Notes = req.Notes
	if err := h.repo.Update(equip); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, equip)
}

func (h *EquipmentHandler) Delete(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if _, err := h.repo.GetByID(id); err != nil {
		NotFound(c, "equipment not found")
		return
	}
	if err := h.repo.Delete(id); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}
