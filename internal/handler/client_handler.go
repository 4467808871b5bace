package handler

import (
	"errors"

	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	repo *repository.ClientRepository
}

func NewClientHandler(repo *repository.ClientRepository) *ClientHandler {
	return &ClientHandler{repo: repo}
}

type clientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	client := &entity.Client{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
		Address:  req.Address,
		Notes:    req.Notes,
	}
	if err := h.repo.Create(client); err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	client, err := h.repo.GetByID(id)
	if err != nil {
		NotFound(c, "client not found")
		return
	}
	Success(c, client)
}

func (h *ClientHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	clients, total, err := h.repo.List(repository.ClientListParams{
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	})
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": clients, "total": total, "page": page, "size": size})
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	client, err := h.repo.GetByID(id)
	if err != nil {
		NotFound(c, "client not found")
		return
	}
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	client.Name = req.Name
	client.Email = req.Email
	client.Phone = req.Phone
	client.Document = req.Document
	client.Address = req.Address
	client.Notes = req.Notes
	if err := h.repo.Update(client); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if _, err := h.repo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "client not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	if err := h.repo.Delete(id); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}
