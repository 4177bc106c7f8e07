package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"qrcontact-platform/internal/analytics"
	"qrcontact-platform/internal/contact"
	"qrcontact-platform/internal/model"
	"qrcontact-platform/internal/qrimage"
	"qrcontact-platform/internal/vcard"

	"github.com/gin-gonic/gin"
)

const (
	defaultModuleSize = 10
	maxModuleSize     = 100
	// 每个 size 单位对应的像素宽度
	pixelsPerSize = 30
)

// QRHandler 二维码相关接口
type QRHandler struct {
	errorResponder
	repo     *contact.Repository
	producer *qrimage.Producer
	tracker  *analytics.Aggregator
}

// NewQRHandler 创建处理器实例
func NewQRHandler(repo *contact.Repository, producer *qrimage.Producer, tracker *analytics.Aggregator, debug bool) *QRHandler {
	return &QRHandler{
		errorResponder: errorResponder{debug: debug},
		repo:           repo,
		producer:       producer,
		tracker:        tracker,
	}
}

// CustomQRRequest 自定义内容二维码
type CustomQRRequest struct {
	Data                 string `json:"data" example:"https://example.com"`
	Format               string `json:"format" example:"png"`
	Size                 *int   `json:"size" example:"10"`
	Border               *int   `json:"border" example:"4"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" example:"M"`
}

// sizeOptions 把 size/border 转成渲染参数，border 为 0 表示无留白。
// size 限制在 1..maxModuleSize，border 限制在 0..qrimage.MaxMargin。
func sizeOptions(size, border int, level qrimage.Level) qrimage.Options {
	size = min(max(size, 1), maxModuleSize)
	border = min(max(border, 0), qrimage.MaxMargin)
	return qrimage.Options{
		Width:    size * pixelsPerSize,
		Margin:   border,
		NoMargin: border == 0,
		Level:    level,
	}
}

// queryOptions 从 size/border 查询参数构造渲染参数
func queryOptions(c *gin.Context) qrimage.Options {
	size := queryInt(c, "size", defaultModuleSize)
	if size == 0 {
		size = defaultModuleSize
	}
	return sizeOptions(size, queryInt(c, "border", qrimage.DefaultMargin), qrimage.DefaultLevel)
}

// queryInt 读取非负整数参数，缺省或非法时返回 fallback
func queryInt(c *gin.Context, key string, fallback int) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (h *QRHandler) invalidFormat(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":        "Invalid format",
		"validFormats": qrimage.ValidFormats(),
	})
}

// Download godoc
// @Summary 下载指定格式的联系人二维码
// @Tags QR
// @Produce  image/png,image/svg+xml,application/pdf,application/postscript
// @Param   id      path   string  true   "vCard ID"
// @Param   format  path   string  true   "png | svg | eps | pdf"
// @Param   size    query  int     false  "尺寸，像素宽度为 size*30，最大 100"  default(10)
// @Param   border  query  int     false  "留白模块数，0..40，0 为无留白"   default(4)
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /api/qr/{id}/{format} [get]
func (h *QRHandler) Download(c *gin.Context) {
	enc, err := qrimage.ParseFormat(c.Param("format"))
	if err != nil {
		h.invalidFormat(c)
		return
	}

	record, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	content, err := vcard.Format(record.VCard())
	if err != nil {
		h.fail(c, err)
		return
	}

	data, err := h.producer.Produce(content, enc, queryOptions(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.tracker.TryRecord(c.Request.Context(), record.ID, eventFrom(c, model.ActionQRDownloaded))
	attachment(c, fmt.Sprintf("qr_%s.%s", underscored(record.Name), enc.Format()))
	c.Data(http.StatusOK, enc.ContentType(), data)
}

// DataURL godoc
// @Summary 以 data URL 形式获取联系人二维码（仅 png/svg）
// @Tags QR
// @Produce  json
// @Param   id      path   string  true  "vCard ID"
// @Param   format  path   string  true  "png | svg"
// @Param   size    query  int     false  "尺寸，像素宽度为 size*30，最大 100"  default(10)
// @Param   border  query  int     false  "留白模块数，0..40"  default(4)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /api/qr/{id}/{format}/data [get]
func (h *QRHandler) DataURL(c *gin.Context) {
	enc, err := qrimage.ParseFormat(c.Param("format"))
	if err != nil || (enc != qrimage.Raster && enc != qrimage.Vector) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "Data URL only supports PNG and SVG formats",
			"validFormats": []string{qrimage.Raster.Format(), qrimage.Vector.Format()},
		})
		return
	}

	record, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	content, err := vcard.Format(record.VCard())
	if err != nil {
		h.fail(c, err)
		return
	}

	data, err := h.producer.Produce(content, enc, queryOptions(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dataUrl": "data:" + enc.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(data),
		"format":  enc.Format(),
		"vcardId": record.ID,
	})
}

// Generate godoc
// @Summary 为任意文本生成二维码
// @Tags QR
// @Accept  json
// @Produce  image/png,image/svg+xml,application/pdf,application/postscript
// @Param   request  body   CustomQRRequest  true  "二维码参数"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Router /api/qr/generate [post]
func (h *QRHandler) Generate(c *gin.Context) {
	var req CustomQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	payload := strings.TrimSpace(req.Data)
	if payload == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Data is required", Field: "data"})
		return
	}

	format := req.Format
	if format == "" {
		format = qrimage.Raster.Format()
	}
	enc, err := qrimage.ParseFormat(format)
	if err != nil {
		h.invalidFormat(c)
		return
	}

	level := qrimage.DefaultLevel
	if req.ErrorCorrectionLevel != "" {
		if level, err = qrimage.ParseLevel(req.ErrorCorrectionLevel); err != nil {
			h.fail(c, err)
			return
		}
	}
	if !qrimage.ValidateLength(payload, level) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Data too long for QR code",
			"maxLength": qrimage.MaxLength(level),
		})
		return
	}

	size, border := defaultModuleSize, qrimage.DefaultMargin
	if req.Size != nil && *req.Size > 0 {
		size = *req.Size
	}
	if req.Border != nil && *req.Border >= 0 {
		border = *req.Border
	}

	data, err := h.producer.Produce(payload, enc, sizeOptions(size, border, level))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.tracker.TryRecord(c.Request.Context(), model.GlobalContactID, eventFrom(c, model.ActionCustomQRDownloaded))
	attachment(c, "qr_code."+enc.Format())
	c.Data(http.StatusOK, enc.ContentType(), data)
}

// Scan godoc
// @Summary 扫码落地：记录扫描并返回 vCard 文件
// @Tags QR
// @Produce  text/vcard
// @Param   id   path   string  true  "vCard ID"
// @Success 200 {string} string "vCard 文本"
// @Failure 404 {object} ErrorResponse
// @Router /api/qr/{id}/scan [get]
func (h *QRHandler) Scan(c *gin.Context) {
	record, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	content, err := vcard.Format(record.VCard())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.tracker.TryRecord(c.Request.Context(), record.ID, eventFrom(c, model.ActionScan))
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	attachment(c, vcard.Filename(record.Name))
	c.Data(http.StatusOK, "text/vcard", []byte(content))
}
