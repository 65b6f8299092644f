// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/analytics"
	"github.com/your-org/storefront-api/internal/domain/order"
)

// AnalyticsHandler handles the admin dashboard endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	orderService     *order.Service
	logger           *logrus.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service, orderService *order.Service, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		orderService:     orderService,
		logger:           logger,
	}
}

// GetDashboardStats handles GET /dashboard/stats
func (h *AnalyticsHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.analyticsService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// GetAnomalies handles GET /dashboard/anomalies?limit=
func (h *AnalyticsHandler) GetAnomalies(c *gin.Context) {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badQuery(c, "limit")
			return
		}
		limit = n
	}

	anomalies, err := h.orderService.ListAnomalies(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, len(anomalies), anomalies)
}
