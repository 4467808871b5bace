package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/NelsonAGM/AdminRST-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc *service.RevenueService
}

func NewDashboardHandler(svc *service.RevenueService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func yearParam(c *gin.Context) int {
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y > 2000 {
		return y
	}
	return time.Now().Year()
}

// GET /api/v1/dashboard/revenue?year=2026
func (h *DashboardHandler) Revenue(c *gin.Context) {
	year := yearParam(c)
	months, err := h.svc.MonthlyRevenue(c.Request.Context(), year)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"year": year, "months": months})
}

// GET /api/v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	counts, err := h.svc.StatusSummary(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"statuses": counts})
}

// ExportRevenue streams the year's revenue as a spreadsheet.
// GET /api/v1/reports/revenue/export?year=2026
func (h *DashboardHandler) ExportRevenue(c *gin.Context) {
	year := yearParam(c)
	data, err := h.svc.ExportRevenueXLSX(c.Request.Context(), year)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="revenue-%d.xlsx"`, year))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
