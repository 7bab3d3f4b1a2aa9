package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/api/middleware"
	"resumeforge/internal/schema"
	"resumeforge/internal/templates"
)

// TemplateHandler 负责模板相关的 API。
type TemplateHandler struct {
	svc *templates.Service
}

func NewTemplateHandler(svc *templates.Service) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

type templateListItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Builtin       bool   `json:"builtin"`
	ATSCompatible bool   `json:"atsCompatible"`
}

type cloneTemplateRequest struct {
	Name string `json:"name"`
}

// templateOpRequest 描述一次模板构建器编辑操作，未用到的字段被忽略。
type templateOpRequest struct {
	Op        string               `json:"op" binding:"required"`
	Section   string               `json:"section"`
	Row       int                  `json:"row"`
	Pos       int                  `json:"pos"`
	From      int                  `json:"from"`
	To        int                  `json:"to"`
	Align     schema.Align         `json:"align"`
	Field     schema.TemplateField `json:"field"`
	Style     schema.FieldStyle    `json:"style"`
	Separator string               `json:"separator"`
	Key       string               `json:"key"`
	Visible   bool                 `json:"visible"`
}

func (r templateOpRequest) apply(t *schema.TemplateSchema) error {
	section := schema.SectionType(r.Section)
	switch r.Op {
	case "addRow":
		_, err := t.AddRow(section, r.Align)
		return err
	case "removeRow":
		return t.RemoveRow(section, r.Row)
	case "moveRow":
		return t.MoveRow(section, r.From, r.To)
	case "setRowAlign":
		return t.SetRowAlign(section, r.Row, r.Align)
	case "insertField":
		return t.InsertField(section, r.Row, r.Pos, r.Field)
	case "removeField":
		return t.RemoveField(section, r.Row, r.Pos)
	case "moveField":
		return t.MoveField(section, r.Row, r.From, r.To)
	case "updateField":
		return t.UpdateField(section, r.Row, r.Pos, r.Style, r.Separator)
	case "moveSection":
		return t.MoveSection(r.From, r.To)
	case "setSectionVisible":
		return t.SetSectionVisible(r.Key, r.Visible)
	}
	return fmt.Errorf("%w: unknown op %q", templates.ErrInvalid, r.Op)
}

// GET /v1/templates
// 列表：内置模板在前，其后是当前用户自己的模板。
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c)
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		templateError(c, err)
		return
	}

	items := make([]templateListItem, 0, len(list))
	for _, t := range list {
		items = append(items, templateListItem{
			ID:            t.ID,
			Name:          t.Name,
			Description:   t.Description,
			Builtin:       t.IsBuiltin(),
			ATSCompatible: t.ATSCompatible,
		})
	}
	c.JSON(http.StatusOK, items)
}

// GET /v1/templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c)
		return
	}

	t, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		templateError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// POST /v1/templates/:id/clone
// 克隆：新模板归当前用户所有，可以继续编辑。
func (h *TemplateHandler) CloneTemplate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c)
		return
	}

	var req cloneTemplateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, err.Error())
			return
		}
	}

	t, err := h.svc.Clone(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		templateError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// PUT /v1/templates/:id
// 整体覆盖：id 以路径为准，归属不可修改。
func (h *TemplateHandler) SaveTemplate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c)
		return
	}

	var t schema.TemplateSchema
	if err := c.ShouldBindJSON(&t); err != nil {
		BadRequest(c, err.Error())
		return
	}
	t.ID = c.Param("id")

	saved, err := h.svc.Save(c.Request.Context(), userID, t)
	if err != nil {
		templateError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// POST /v1/templates/:id/ops
// 构建器编辑操作，返回修改后的模板。
func (h *TemplateHandler) EditTemplate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c)
		return
	}

	var req templateOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	t, err := h.svc.Edit(c.Request.Context(), userID, c.Param("id"), req.apply)
	if err != nil {
		templateError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DELETE /v1/templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		templateError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
