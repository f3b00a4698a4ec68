package handlers

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

type AnalyticsHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, log: logger.New("AnalyticsHandler")}
}

// DashboardStats is the back-office overview panel payload.
type DashboardStats struct {
	TotalOrders     int64            `json:"totalOrders"`
	OrdersToday     int64            `json:"ordersToday"`
	Revenue         float64          `json:"revenue"`
	RevenueToday    float64          `json:"revenueToday"`
	CustomerCount   int64            `json:"customerCount"`
	PendingCatering int64            `json:"pendingCatering"`
	OrdersByStatus  map[string]int64 `json:"ordersByStatus"`
}

// Dashboard computes the overview stats. The six aggregates are independent
// queries, so they fan out concurrently and the first error wins.
// @Summary Dashboard statistics
// @Description Aggregate order, revenue and customer stats for the overview panel
// @Tags admin-analytics
// @Produce json
// @Success 200 {object} DashboardStats
// @Failure 403 {object} map[string]string "Missing analytics permission"
// @Router /admin/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	startOfDay := time.Now().Truncate(24 * time.Hour)

	// Revenue counts only orders that were actually paid for.
	paidStatuses := []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
		models.StatusReady, models.StatusDelivered,
	}

	var (
		stats    DashboardStats
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	stats.OrdersByStatus = make(map[string]int64)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	run := func(fn func(ctx context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				fail(err)
			}
		}()
	}

	run(func(ctx context.Context) error {
		return h.db.WithContext(ctx).Model(&models.Order{}).Count(&stats.TotalOrders).Error
	})
	run(func(ctx context.Context) error {
		return h.db.WithContext(ctx).Model(&models.Order{}).
			Where("created_at >= ?", startOfDay).Count(&stats.OrdersToday).Error
	})
	run(func(ctx context.Context) error {
		var total struct{ Sum float64 }
		err := h.db.WithContext(ctx).Model(&models.Order{}).
			Select("COALESCE(SUM(total), 0) AS sum").
			Where("status IN ?", paidStatuses).
			Scan(&total).Error
		mu.Lock()
		stats.Revenue = total.Sum
		mu.Unlock()
		return err
	})
	run(func(ctx context.Context) error {
		var total struct{ Sum float64 }
		err := h.db.WithContext(ctx).Model(&models.Order{}).
			Select("COALESCE(SUM(total), 0) AS sum").
			Where("status IN ? AND created_at >= ?", paidStatuses, startOfDay).
			Scan(&total).Error
		mu.Lock()
		stats.RevenueToday = total.Sum
		mu.Unlock()
		return err
	})
	run(func(ctx context.Context) error {
		return h.db.WithContext(ctx).Model(&models.Profile{}).
			Where("role = ?", models.UserRoleCustomer).Count(&stats.CustomerCount).Error
	})
	run(func(ctx context.Context) error {
		return h.db.WithContext(ctx).Model(&models.CateringBooking{}).
			Where("status = ?", models.CateringStatusPending).Count(&stats.PendingCatering).Error
	})
	run(func(ctx context.Context) error {
		var rows []struct {
			Status string
			Count  int64
		}
		err := h.db.WithContext(ctx).Model(&models.Order{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		mu.Lock()
		for _, row := range rows {
			stats.OrdersByStatus[row.Status] = row.Count
		}
		mu.Unlock()
		return nil
	})

	wg.Wait()
	if firstErr != nil {
		return h.log.Error("Dashboard aggregation failed", firstErr)
	}

	return c.JSON(http.StatusOK, stats)
}

// TopProducts ranks products by units sold over the last n days.
// @Summary Top selling products
// @Description Rank products by units sold in a trailing window
// @Tags admin-analytics
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Success 200 {array} map[string]interface{}
// @Failure 403 {object} map[string]string "Missing analytics permission"
// @Router /admin/analytics/top-products [get]
func (h *AnalyticsHandler) TopProducts(c echo.Context) error {
	days := 30
	if d := c.QueryParam("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 {
			days = parsed
		}
	}
	since := time.Now().AddDate(0, 0, -days)

	// Line items live in a JSONB column, so the ranking unnests them in SQL
	// rather than loading every order into memory.
	var rows []struct {
		ProductID string  `json:"productId"`
		Title     string  `json:"title"`
		Units     int64   `json:"units"`
		Revenue   float64 `json:"revenue"`
	}
	err := h.db.WithContext(c.Request().Context()).Raw(`
		SELECT item->>'productId' AS product_id,
		       item->>'title' AS title,
		       SUM((item->>'quantity')::int) AS units,
		       SUM((item->>'totalPrice')::numeric) AS revenue
		FROM orders, jsonb_array_elements(items) AS item
		WHERE created_at >= ? AND status NOT IN ('pending_payment', 'cancelled')
		GROUP BY 1, 2
		ORDER BY units DESC
		LIMIT 10`, since).Scan(&rows).Error
	if err != nil {
		return h.log.Error("Top products query failed", err)
	}

	return c.JSON(http.StatusOK, rows)
}
