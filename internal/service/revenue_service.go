package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NelsonAGM/AdminRST-sub000/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const revenueCacheTTL = 5 * time.Minute

// RevenueService aggregates completed-order revenue by month and the
// order-status totals for the dashboard. Aggregations are cached in
// redis for a short window; the cache is best-effort and a missing
// redis client only means every call hits the database.
type RevenueService struct {
	orders *repository.OrderRepository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRevenueService(orders *repository.OrderRepository, rdb *redis.Client, logger *zap.Logger) *RevenueService {
	return &RevenueService{orders: orders, rdb: rdb, logger: logger}
}

// MonthRevenue is the aggregated revenue of one calendar month.
type MonthRevenue struct {
	Month  string `json:"month"` // YYYY-MM
	Orders int    `json:"orders"`
	Total  int64  `json:"total"`
}

// MonthlyRevenue returns the twelve months of the given year. Months
// without completed orders are present with zero totals.
func (s *RevenueService) MonthlyRevenue(ctx context.Context, year int) ([]MonthRevenue, error) {
	cacheKey := fmt.Sprintf("revenue:monthly:%d", year)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var months []MonthRevenue
			if json.Unmarshal(cached, &months) == nil {
				return months, nil
			}
		}
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	orders, err := s.orders.CompletedBetween(from, to)
	if err != nil {
		return nil, fmt.Errorf("load completed orders: %w", err)
	}

	months := make([]MonthRevenue, 12)
	for i := range months {
		months[i].Month = fmt.Sprintf("%d-%02d", year, i+1)
	}
	for _, order := range orders {
		if order.CompletionDate == nil {
			continue
		}
		idx := int(order.CompletionDate.Month()) - 1
		months[idx].Orders++
		if order.Cost != nil {
			months[idx].Total += *order.Cost
		}
	}

	if s.rdb != nil {
		if data, err := json.Marshal(months); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, revenueCacheTTL).Err(); err != nil {
				s.logger.Warn("cache monthly revenue", zap.Error(err))
			}
		}
	}
	return months, nil
}

// StatusSummary returns the order counts per status.
func (s *RevenueService) StatusSummary(ctx context.Context) (map[string]int64, error) {
	return s.orders.CountByStatus()
}

// ExportRevenueXLSX builds a spreadsheet of the year's monthly revenue.
func (s *RevenueService) ExportRevenueXLSX(ctx context.Context, year int) ([]byte, error) {
	months, err := s.MonthlyRevenue(ctx, year)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Revenue"
	f.SetSheetName("Sheet1", sheet)
	f.SetCellValue(sheet, "A1", "Month")
	f.SetCellValue(sheet, "B1", "Completed Orders")
	f.SetCellValue(sheet, "C1", "Revenue")

	var totalOrders int
	var totalRevenue int64
	for i, m := range months {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Month)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Orders)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Total)
		totalOrders += m.Orders
		totalRevenue += m.Total
	}
	f.SetCellValue(sheet, "A14", "Total")
	f.SetCellValue(sheet, "B14", totalOrders)
	f.SetCellValue(sheet, "C14", totalRevenue)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
