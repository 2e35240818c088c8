package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"tradedocs/internal/caching"
	"tradedocs/internal/common"
	"tradedocs/internal/repositories"
	"tradedocs/internal/services"
)

const dashboardCacheTTL = 1 * time.Minute

// DashboardHandlers serves the status counts and the recent activity feed.
type DashboardHandlers struct {
	invoiceRepo     repositories.InvoiceRepository
	activityService services.ActivityService
	cache           caching.CacheService
	log             *logrus.Logger
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(invoiceRepo repositories.InvoiceRepository, activityService services.ActivityService, cache caching.CacheService, log *logrus.Logger) *DashboardHandlers {
	return &DashboardHandlers{
		invoiceRepo:     invoiceRepo,
		activityService: activityService,
		cache:           cache,
		log:             log,
	}
}

// GetCounts handles GET /dashboard/counts
func (h *DashboardHandlers) GetCounts(c echo.Context) error {
	ctx := c.Request().Context()

	if h.cache != nil {
		if counts, err := h.cache.GetDashboardCounts(ctx); err == nil {
			return c.JSON(http.StatusOK, counts)
		}
	}

	counts, err := h.invoiceRepo.CountByStatus(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to count invoices: "+err.Error())
	}

	if h.cache != nil {
		if err := h.cache.SetDashboardCounts(ctx, counts, dashboardCacheTTL); err != nil {
			h.log.WithError(err).Warn("failed to cache dashboard counts")
		}
	}
	return c.JSON(http.StatusOK, counts)
}

// RecentActivity handles GET /dashboard/activity
func (h *DashboardHandlers) RecentActivity(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			limit = l
		}
	}

	entries, err := h.activityService.ListRecent(ctx, limit)
	if err != nil {
		return common.SendServerError(c, "Failed to list activity: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"activity": entries,
		"count":    len(entries),
	})
}
