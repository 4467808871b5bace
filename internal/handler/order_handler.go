package handler

import (
	"errors"
	"strconv"

	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"github.com/NelsonAGM/AdminRST-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// orderError maps orchestrator errors onto the envelope: dangling
// references and missing orders are 404, rejected values are 400,
// everything else is a server error.
func orderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrEquipmentNotFound),
		errors.Is(err, service.ErrTechnicianNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrClientHasNoEmail):
		BadRequest(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// Create registers a new service order and fires the notification
// email in the background.
// POST /api/v1/service-orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	order, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		orderError(c, err)
		return
	}
	Created(c, order)
}

// GET /api/v1/service-orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	order, err := h.svc.Get(id)
	if err != nil {
		orderError(c, err)
		return
	}
	Success(c, order)
}

// GET /api/v1/service-orders
func (h *OrderHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 32)
	technicianID, _ := strconv.ParseUint(c.Query("technician_id"), 10, 32)
	orders, total, err := h.svc.List(repository.OrderListParams{
		Status:       c.Query("status"),
		ClientID:     uint(clientID),
		TechnicianID: uint(technicianID),
		Keyword:      c.Query("keyword"),
		Page:         page,
		Size:         size,
	})
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": orders, "total": total, "page": page, "size": size})
}

// Update applies a partial update. No side effects fire here.
// PUT /api/v1/service-orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	order, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		orderError(c, err)
		return
	}
	Success(c, order)
}

// UpdateStatus is the explicit lifecycle transition endpoint.
// PUT /api/v1/service-orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	order, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		orderError(c, err)
		return
	}
	Success(c, order)
}

// DELETE /api/v1/service-orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(id); err != nil {
		orderError(c, err)
		return
	}
	Success(c, nil)
}

// SendEmail resends the notification with the work-order PDF attached.
// Unlike the create-time side effect this surfaces mail failures.
// POST /api/v1/service-orders/:id/send-email
func (h *OrderHandler) SendEmail(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	if err := h.svc.ResendEmail(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) || errors.Is(err, service.ErrClientHasNoEmail) {
			orderError(c, err)
			return
		}
		Error(c, 50200, "failed to send email: "+err.Error())
		return
	}
	Success(c, gin.H{"sent": true})
}

// DownloadPDF returns the printable work order.
// GET /api/v1/service-orders/:id/pdf
func (h *OrderHandler) DownloadPDF(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	pdfBytes, err := h.svc.RenderPDF(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			NotFound(c, err.Error())
			return
		}
		Error(c, 50000, "PDF generation failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="service-order.pdf"`)
	c.Data(200, "application/pdf", pdfBytes)
}

// BulkPDF renders one document covering several orders.
// POST /api/v1/service-orders/bulk-pdf
func (h *OrderHandler) BulkPDF(c *gin.Context) {
	var req struct {
		IDs []uint `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	pdfBytes, err := h.svc.RenderBulkPDF(c.Request.Context(), req.IDs)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			NotFound(c, err.Error())
			return
		}
		Error(c, 50000, "PDF generation failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="service-orders.pdf"`)
	c.Data(200, "application/pdf", pdfBytes)
}

// ListNotifications shows the delivery history for one order.
// GET /api/v1/service-orders/:id/notifications
func (h *OrderHandler) ListNotifications(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	logs, err := h.svc.ListNotifications(id)
	if err != nil {
		orderError(c, err)
		return
	}
	Success(c, gin.H{"items": logs})
}
