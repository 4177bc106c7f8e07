package handler

import (
	"net/http"
	"time"

	"qrcontact-platform/internal/analytics"
	"qrcontact-platform/internal/model"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler 扫描统计接口
type AnalyticsHandler struct {
	errorResponder
	aggregator *analytics.Aggregator
}

// NewAnalyticsHandler 创建处理器实例
func NewAnalyticsHandler(aggregator *analytics.Aggregator, debug bool) *AnalyticsHandler {
	return &AnalyticsHandler{
		errorResponder: errorResponder{debug: debug},
		aggregator:     aggregator,
	}
}

// Location 客户端上报的位置
type Location struct {
	Country   string   `json:"country" example:"US"`
	City      string   `json:"city" example:"New York"`
	Latitude  *float64 `json:"latitude" example:"40.7128"`
	Longitude *float64 `json:"longitude" example:"-74.006"`
}

// TrackRequest 记录联系人事件
type TrackRequest struct {
	Action   string    `json:"action" example:"scan"`
	Location *Location `json:"location"`
}

// GlobalTrackRequest 记录全局事件
type GlobalTrackRequest struct {
	Action    string     `json:"action" example:"custom_qr_downloaded"`
	Timestamp *time.Time `json:"timestamp" example:"2026-01-02T15:04:05Z"`
}

// Track godoc
// @Summary 记录联系人的扫描/下载事件
// @Tags Analytics
// @Accept  json
// @Produce  json
// @Param   vcardId  path   string        true   "vCard ID"
// @Param   event    body   TrackRequest  false  "事件属性"
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics/track/{vcardId} [post]
func (h *AnalyticsHandler) Track(c *gin.Context) {
	var req TrackRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, "Invalid request body")
			return
		}
	}

	attrs := eventFrom(c, req.Action)
	if req.Location != nil {
		attrs.Country = req.Location.Country
		attrs.City = req.Location.City
		attrs.Latitude = req.Location.Latitude
		attrs.Longitude = req.Location.Longitude
	}

	if _, err := h.aggregator.RecordEvent(c.Request.Context(), c.Param("vcardId"), attrs); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Scan tracked successfully"})
}

// TrackGlobal godoc
// @Summary 记录不属于任何联系人的事件
// @Tags Analytics
// @Accept  json
// @Produce  json
// @Param   event  body   GlobalTrackRequest  false  "事件属性"
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics/track [post]
func (h *AnalyticsHandler) TrackGlobal(c *gin.Context) {
	var req GlobalTrackRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, "Invalid request body")
			return
		}
	}

	attrs := eventFrom(c, req.Action)
	attrs.Timestamp = req.Timestamp
	if _, err := h.aggregator.RecordEvent(c.Request.Context(), model.GlobalContactID, attrs); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event tracked successfully"})
}

// Get godoc
// @Summary 单个联系人的扫描统计
// @Tags Analytics
// @Produce  json
// @Param   vcardId  path   string  true  "vCard ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /api/analytics/{vcardId} [get]
func (h *AnalyticsHandler) Get(c *gin.Context) {
	stats, err := h.aggregator.Summarize(c.Request.Context(), c.Param("vcardId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"vcardId":   stats.ContactID,
		"vcardName": stats.ContactName,
		"analytics": stats.Stats,
	})
}

// Global godoc
// @Summary 全局扫描统计
// @Tags Analytics
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics [get]
func (h *AnalyticsHandler) Global(c *gin.Context) {
	stats, err := h.aggregator.SummarizeGlobal(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analytics": stats})
}

// Export godoc
// @Summary 导出联系人的全部事件为 CSV
// @Tags Analytics
// @Produce  text/csv
// @Param   vcardId  path   string  true  "vCard ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /api/analytics/export/{vcardId} [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	export, err := h.aggregator.ExportCSV(c.Request.Context(), c.Param("vcardId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, export.Filename)
	c.Data(http.StatusOK, "text/csv", []byte(export.Content))
}
