package handler

import (
	"net/http"

	"qrcontact-platform/internal/analytics"
	"qrcontact-platform/internal/contact"
	"qrcontact-platform/internal/model"
	"qrcontact-platform/internal/qrimage"
	"qrcontact-platform/internal/vcard"

	"github.com/gin-gonic/gin"
)

// ContactHandler 联系人相关接口
type ContactHandler struct {
	errorResponder
	repo     *contact.Repository
	producer *qrimage.Producer
	tracker  *analytics.Aggregator
}

// NewContactHandler 创建处理器实例
func NewContactHandler(repo *contact.Repository, producer *qrimage.Producer, tracker *analytics.Aggregator, debug bool) *ContactHandler {
	return &ContactHandler{
		errorResponder: errorResponder{debug: debug},
		repo:           repo,
		producer:       producer,
		tracker:        tracker,
	}
}

// ContactRequest 联系人表单
type ContactRequest struct {
	Name    string `json:"name" example:"John Doe"`
	Company string `json:"company" example:"Acme Corp"`
	Title   string `json:"title" example:"Engineer"`
	Email   string `json:"email" example:"john@example.com"`
	Phone   string `json:"phone" example:"+1 (555) 123-4567"`
	Website string `json:"website" example:"example.com"`
}

func (r ContactRequest) contact() vcard.Contact {
	return vcard.Contact{
		Name:    r.Name,
		Company: r.Company,
		Title:   r.Title,
		Email:   r.Email,
		Phone:   r.Phone,
		Website: r.Website,
	}.Normalize()
}

// GenerateResponse 生成结果
type GenerateResponse struct {
	Success       bool              `json:"success"`
	VCardID       string            `json:"vcardId"`
	VCardFilename string            `json:"vcardFilename"`
	VCardContent  string            `json:"vcardContent"`
	QRFiles       map[string]string `json:"qrFiles"`
	Contact       vcard.Contact     `json:"contact"`
}

// ContactResponse 单个联系人
type ContactResponse struct {
	Success       bool              `json:"success"`
	VCard         *model.Contact    `json:"vcard"`
	VCardContent  string            `json:"vcardContent"`
	VCardFilename string            `json:"vcardFilename"`
	QRFiles       map[string]string `json:"qrFiles"`
}

// Generate godoc
// @Summary 生成 vCard 和二维码
// @Tags VCard
// @Accept  json
// @Produce  json
// @Param   contact  body   ContactRequest  true  "联系人信息"
// @Success 200 {object} GenerateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/vcard/generate [post]
func (h *ContactHandler) Generate(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}

	input := req.contact()
	content, err := vcard.Format(input)
	if err != nil {
		h.fail(c, err)
		return
	}

	record, err := h.repo.Create(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	files := h.producer.ProduceMany(content, qrimage.AllEncodings, qrimage.Options{})
	h.tracker.TryRecord(c.Request.Context(), record.ID, eventFrom(c, model.ActionGenerated))

	c.JSON(http.StatusOK, GenerateResponse{
		Success:       true,
		VCardID:       record.ID,
		VCardFilename: vcard.Filename(input.Name),
		VCardContent:  content,
		QRFiles:       encodeFiles(files),
		Contact:       input,
	})
}

// Get godoc
// @Summary 获取 vCard
// @Tags VCard
// @Produce  json
// @Param   id   path   string  true  "vCard ID"
// @Success 200 {object} ContactResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/vcard/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
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

	files := h.producer.ProduceMany(content, qrimage.AllEncodings, qrimage.Options{Margin: 2})
	c.JSON(http.StatusOK, ContactResponse{
		Success:       true,
		VCard:         record,
		VCardContent:  content,
		VCardFilename: vcard.Filename(record.Name),
		QRFiles:       encodeFiles(files),
	})
}

// List godoc
// @Summary 列出全部 vCard
// @Tags VCard
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Router /api/vcard [get]
func (h *ContactHandler) List(c *gin.Context) {
	records, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "vcards": records})
}

// Download godoc
// @Summary 下载 vCard 文件
// @Tags VCard
// @Produce  text/vcard
// @Param   id   path   string  true  "vCard ID"
// @Success 200 {string} string "vCard 文本"
// @Failure 404 {object} ErrorResponse
// @Router /api/vcard/{id}/download [get]
func (h *ContactHandler) Download(c *gin.Context) {
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

	h.tracker.TryRecord(c.Request.Context(), record.ID, eventFrom(c, model.ActionVCardDownloaded))
	attachment(c, vcard.Filename(record.Name))
	c.Data(http.StatusOK, "text/vcard", []byte(content))
}

// Update godoc
// @Summary 更新 vCard（整体替换）
// @Tags VCard
// @Accept  json
// @Produce  json
// @Param   id       path   string          true  "vCard ID"
// @Param   contact  body   ContactRequest  true  "联系人信息"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/vcard/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}

	input := req.contact()
	content, err := vcard.Format(input)
	if err != nil {
		h.fail(c, err)
		return
	}

	id := c.Param("id")
	if _, err := h.repo.Update(c.Request.Context(), id, input); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"vcardId":      id,
		"vcardContent": content,
		"contact":      input,
	})
}

// Delete godoc
// @Summary 删除 vCard 及其扫描记录
// @Tags VCard
// @Produce  json
// @Param   id   path   string  true  "vCard ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /api/vcard/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "vCard deleted successfully"})
}
