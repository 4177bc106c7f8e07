package handler

import (
	"encoding/base64"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"qrcontact-platform/internal/analytics"
	"qrcontact-platform/internal/apperr"
	"qrcontact-platform/internal/qrimage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error   string `json:"error" example:"vCard not found"`
	Field   string `json:"field,omitempty" example:"name"`
	Message string `json:"message,omitempty" example:"Something went wrong"`
}

// errorResponder 把业务错误映射为 HTTP 响应。debug 为 true 时返回内部错误详情。
type errorResponder struct {
	debug bool
}

func (r errorResponder) fail(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.KindValidation:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: appErr.Message, Field: appErr.Field})
			return
		case apperr.KindNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: appErr.Message})
			return
		}
	}

	zap.S().Errorw("请求处理失败", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	message := "Something went wrong"
	if r.debug {
		message = err.Error()
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Message: message})
}

func (r errorResponder) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// HealthHandler 健康检查
type HealthHandler struct {
	version string
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// HealthCheck godoc
// @Summary 健康检查
// @Tags System
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Router /api/health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC(), "version": h.version})
}

// eventFrom 从请求中提取客户端信息
func eventFrom(c *gin.Context, action string) analytics.EventAttributes {
	return analytics.EventAttributes{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
		Action:    action,
	}
}

// encodeFiles 转成 base64，生成失败的格式不出现在结果中
func encodeFiles(files map[qrimage.Encoding][]byte) map[string]string {
	out := make(map[string]string, len(files))
	for enc, data := range files {
		if data == nil {
			continue
		}
		out[enc.Format()] = base64.StdEncoding.EncodeToString(data)
	}
	return out
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
}

// underscored "John Doe" -> "John_Doe"
func underscored(name string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
}
