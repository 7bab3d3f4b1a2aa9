package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/api/middleware"
	"resumeforge/internal/document"
	"resumeforge/internal/emitter"
	"resumeforge/internal/metrics"
	"resumeforge/internal/preview"
	"resumeforge/internal/render"
	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
	"resumeforge/internal/templates"
)

// RenderHandler 对未保存的模板或数据进行即时渲染，供编辑器实时预览。
type RenderHandler struct {
	templates *templates.Service
	opts      render.Options
}

func NewRenderHandler(svc *templates.Service, opts render.Options) *RenderHandler {
	return &RenderHandler{templates: svc, opts: opts}
}

// renderRequest 里 Template 优先于 TemplateID，构建器可以直接预览草稿。
type renderRequest struct {
	TemplateID string                 `json:"templateId"`
	Template   *schema.TemplateSchema `json:"template"`
	Data       resume.Data            `json:"data"`
}

type parityStatus struct {
	OK       bool              `json:"ok"`
	Mismatch *emitter.Mismatch `json:"mismatch,omitempty"`
}

type renderResponse struct {
	Preview     *preview.Node       `json:"preview"`
	Document    document.Document   `json:"document"`
	Adjustments []schema.Adjustment `json:"adjustments,omitempty"`
	Parity      parityStatus        `json:"parity"`
}

type previewResponse struct {
	Preview     *preview.Node       `json:"preview"`
	Adjustments []schema.Adjustment `json:"adjustments,omitempty"`
}

func (h *RenderHandler) resolveTemplate(c *gin.Context, req renderRequest) (schema.TemplateSchema, bool) {
	if req.Template != nil {
		return *req.Template, true
	}
	id := strings.TrimSpace(req.TemplateID)
	if id == "" {
		BadRequest(c, "template or templateId is required")
		return schema.TemplateSchema{}, false
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c)
		return schema.TemplateSchema{}, false
	}
	t, err := h.templates.Get(c.Request.Context(), userID, id)
	if err != nil {
		templateError(c, err)
		return schema.TemplateSchema{}, false
	}
	return t, true
}

// POST /v1/render
// 同时返回预览树与文档树，并附带两者的内容一致性检查结果。
func (h *RenderHandler) Render(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	t, ok := h.resolveTemplate(c, req)
	if !ok {
		return
	}

	start := time.Now()
	out := emitter.Render(t, req.Data, h.opts)
	metrics.ObserveRender(metrics.TargetPreview, time.Since(start), out.Layout.Adjustments)

	resp := renderResponse{
		Preview:     out.Preview,
		Document:    out.Document,
		Adjustments: out.Layout.Adjustments,
		Parity:      parityStatus{OK: true},
	}
	if m := out.CheckParity(); m != nil {
		middleware.LoggerFromContext(c).Error("preview and document trees diverged", "error", m)
		resp.Parity = parityStatus{OK: false, Mismatch: m}
	}
	c.JSON(http.StatusOK, resp)
}

// POST /v1/render/html
// 返回导出 PDF 时使用的打印 HTML，便于在浏览器中核对分页效果。
func (h *RenderHandler) RenderHTML(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	t, ok := h.resolveTemplate(c, req)
	if !ok {
		return
	}

	start := time.Now()
	out := emitter.Render(t, req.Data, h.opts)
	html, err := document.HTML(out.Document)
	if err != nil {
		_ = c.Error(err)
		Internal(c, "failed to render html")
		return
	}
	metrics.ObserveRender(metrics.TargetHTML, time.Since(start), out.Layout.Adjustments)

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
