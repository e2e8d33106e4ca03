package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"suraksha.com/preparedness/internal/service"
	"suraksha.com/preparedness/pkg/response"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Users(c *gin.Context) {
	analytics, err := h.analyticsService.Users(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

func (h *AnalyticsHandler) Modules(c *gin.Context) {
	analytics, err := h.analyticsService.Modules(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": analytics})
}

func (h *AnalyticsHandler) Activities(c *gin.Context) {
	limit := 10
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v >= 1 && v <= 100 {
		limit = v
	}

	activities, err := h.analyticsService.RecentActivities(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": activities})
}

func (h *AnalyticsHandler) Alerts(c *gin.Context) {
	summary, err := h.analyticsService.Alerts(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
