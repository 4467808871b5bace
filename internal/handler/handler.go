package handler

import (
	"strconv"

	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"github.com/NelsonAGM/AdminRST-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler.
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Client     *ClientHandler
	Equipment  *EquipmentHandler
	Technician *TechnicianHandler
	Order      *OrderHandler
	Settings   *SettingsHandler
	Dashboard  *DashboardHandler
	Upload     *UploadHandler
}

func NewHandlers(svc *service.Services, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(repos.User),
		Client:     NewClientHandler(repos.Client),
		Equipment:  NewEquipmentHandler(repos.Equipment, repos.Client),
		Technician: NewTechnicianHandler(repos.Technician),
		Order:      NewOrderHandler(svc.Order),
		Settings:   NewSettingsHandler(repos.Settings),
		Dashboard:  NewDashboardHandler(svc.Revenue),
		Upload:     NewUploadHandler(svc.Upload),
	}
}

// Response is the common JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error envelope; the HTTP status is the leading three
// digits of the code.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// GetUserID reads the authenticated user id set by the JWT middleware.
func GetUserID(c *gin.Context) uint {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(uint); ok {
		return id
	}
	return 0
}

// ParamID parses the :id path parameter.
func ParamID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// GetPagination reads page/size query params with sane bounds.
func GetPagination(c *gin.Context) (page, size int) {
	page = 1
	size = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			size = v
		}
	}
	return page, size
}
