package handler

import (
	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	repo *repository.UserRepository
}

func NewUserHandler(repo *repository.UserRepository) *UserHandler {
	return &UserHandler{repo: repo}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.repo.List()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": users})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	user, err := h.repo.GetByID(id)
	if err != nil {
		NotFound(c, "user not found")
		return
	}
	Success(c, user)
}
