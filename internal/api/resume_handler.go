package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"resumeforge/internal/api/middleware"
	"resumeforge/internal/config"
	"resumeforge/internal/database"
	"resumeforge/internal/document"
	"resumeforge/internal/emitter"
	"resumeforge/internal/metrics"
	"resumeforge/internal/render"
	"resumeforge/internal/resume"
	"resumeforge/internal/tasks"
	"resumeforge/internal/templates"
)

// TaskEnqueuer 是 asynq.Client 的最小接口。
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// LinkSigner 生成导出文件的预签名下载链接。storage.Client 满足该接口。
type LinkSigner interface {
	DownloadURL(ctx context.Context, key string, ttl time.Duration, filename string) (string, error)
}

// ResumeHandler 负责处理与简历相关的 API 请求。
type ResumeHandler struct {
	db        *gorm.DB
	templates *templates.Service
	queue     TaskEnqueuer
	links     LinkSigner
	limiter   redisRateCounter
	opts      render.Options
	export    config.ExportConfig
}

// NewResumeHandler 构造 ResumeHandler。limiter 为 nil 时不限制导出频率。
func NewResumeHandler(
	db *gorm.DB,
	svc *templates.Service,
	queue TaskEnqueuer,
	links LinkSigner,
	limiter redisRateCounter,
	opts render.Options,
	exportCfg config.ExportConfig,
) *ResumeHandler {
	return &ResumeHandler{
		db:        db,
		templates: svc,
		queue:     queue,
		links:     links,
		limiter:   limiter,
		opts:      opts,
		export:    exportCfg,
	}
}

var errInvalidResumeID = errors.New("invalid resume id")

type saveResumeRequest struct {
	Title      string         `json:"title" binding:"required"`
	TemplateID string         `json:"template_id" binding:"required"`
	Content    datatypes.JSON `json:"content" binding:"required"`
}

type resumeListItem struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	TemplateID string    `json:"template_id"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type resumeResponse struct {
	ID         uint           `json:"id"`
	Title      string         `json:"title"`
	TemplateID string         `json:"template_id"`
	Content    datatypes.JSON `json:"content"`
	Status     string         `json:"status"`
	HasPDF     bool           `json:"has_pdf"`
	HasDOCX    bool           `json:"has_docx"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// validate 检查内容能被解析为简历数据，且模板对当前用户可见。
func (h *ResumeHandler) validate(c *gin.Context, userID string, req saveResumeRequest) bool {
	var data resume.Data
	if err := json.Unmarshal(req.Content, &data); err != nil {
		BadRequest(c, "content is not valid resume data")
		return false
	}
	if _, err := h.templates.Get(c.Request.Context(), userID, req.TemplateID); err != nil {
		if errors.Is(err, templates.ErrNotFound) {
			BadRequest(c, "unknown template")
			return false
		}
		templateError(c, err)
		return false
	}
	return true
}

// CreateResume 保存一份新的简历。
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req saveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c)
		return
	}
	if !h.validate(c, userID, req) {
		return
	}

	rec := database.Resume{
		OwnerID:    userID,
		Title:      req.Title,
		TemplateID: req.TemplateID,
		Content:    req.Content,
		Status:     database.StatusDraft,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&rec).Error; err != nil {
		Internal(c, "failed to create resume")
		return
	}

	c.JSON(http.StatusCreated, newResumeResponse(rec))
}

// ListResumes 列出用户全部简历。
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c)
		return
	}

	var resumes []database.Resume
	if err := h.db.WithContext(c.Request.Context()).
		Where("owner_id = ?", userID).
		Order("updated_at DESC").
		Find(&resumes).Error; err != nil {
		Internal(c, "failed to list resumes")
		return
	}

	items := make([]resumeListItem, 0, len(resumes))
	for _, r := range resumes {
		items = append(items, resumeListItem{
			ID:         r.ID,
			Title:      r.Title,
			TemplateID: r.TemplateID,
			Status:     r.Status,
			UpdatedAt:  r.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, items)
}

// GetResume 返回指定 ID 的简历。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	rec, ok := h.loadResume(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newResumeResponse(*rec))
}

// UpdateResume 覆盖指定简历。
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	var req saveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	rec, ok := h.loadResume(c)
	if !ok {
		return
	}
	if !h.validate(c, rec.OwnerID, req) {
		return
	}

	updates := map[string]any{
		"title":       req.Title,
		"template_id": req.TemplateID,
		"content":     req.Content,
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Model(rec).Updates(updates).Error; err != nil {
		Internal(c, "failed to update resume")
		return
	}

	if err := h.db.WithContext(ctx).First(rec, rec.ID).Error; err != nil {
		Internal(c, "failed to reload resume")
		return
	}

	c.JSON(http.StatusOK, newResumeResponse(*rec))
}

// DeleteResume 删除指定简历。已导出的文件由存储的生命周期策略清理。
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	rec, ok := h.loadResume(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&database.Resume{}, rec.ID).Error; err != nil {
		Internal(c, "failed to delete resume")
		return
	}

	c.Status(http.StatusNoContent)
}

// PreviewResume 使用简历当前的模板渲染预览树。
func (h *ResumeHandler) PreviewResume(c *gin.Context) {
	rec, ok := h.loadResume(c)
	if !ok {
		return
	}

	var data resume.Data
	if err := json.Unmarshal(rec.Content, &data); err != nil {
		Internal(c, "failed to decode resume")
		return
	}
	t, err := h.templates.Get(c.Request.Context(), rec.OwnerID, rec.TemplateID)
	if err != nil {
		templateError(c, err)
		return
	}

	start := time.Now()
	out := emitter.Render(t, data, h.opts)
	metrics.ObserveRender(metrics.TargetPreview, time.Since(start), out.Layout.Adjustments)

	c.JSON(http.StatusOK, previewResponse{
		Preview:     out.Preview,
		Adjustments: out.Layout.Adjustments,
	})
}

// ExportResume 将导出任务入队并立即返回 202，结果通过 WebSocket 推送。
func (h *ResumeHandler) ExportResume(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", tasks.FormatPDF)))
	if !tasks.ValidFormat(format) {
		BadRequest(c, "format must be pdf or docx")
		return
	}

	rec, ok := h.loadResume(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)

	if h.limiter != nil && h.export.RateLimit > 0 {
		count, err := incrWithTTL(ctx, h.limiter, exportRateKey(rec.OwnerID), time.Minute)
		if err != nil {
			log.Warn("export rate counter unavailable", slog.Any("error", err))
		} else if count > int64(h.export.RateLimit) {
			TooManyRequests(c, "too many export requests, try again later")
			return
		}
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewExportTask(tasks.ExportPayload{
		ResumeID:      rec.ID,
		OwnerID:       rec.OwnerID,
		Format:        format,
		CorrelationID: correlationID,
	})
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	// 入队前标记 exporting，worker 写入的 exported/failed 不会被覆盖。
	prevStatus := rec.Status
	if err := h.db.WithContext(ctx).Model(rec).Update("status", database.StatusExporting).Error; err != nil {
		log.Error("mark resume exporting failed", slog.Any("error", err))
		Internal(c, "failed to update resume")
		return
	}

	info, err := h.queue.Enqueue(task, asynq.MaxRetry(h.export.MaxRetry))
	if err != nil {
		log.Error("enqueue export failed", slog.Any("error", err))
		if err := h.db.WithContext(ctx).Model(&database.Resume{}).
			Where("id = ? AND status = ?", rec.ID, database.StatusExporting).
			Update("status", prevStatus).Error; err != nil {
			log.Warn("restore resume status failed", slog.Any("error", err))
		}
		Internal(c, "failed to enqueue export")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":        "export request accepted",
		"task_id":        info.ID,
		"correlation_id": correlationID,
	})
}

// GetDownloadLink 生成已导出文件的预签名下载链接，文件名取自简历姓名。
func (h *ResumeHandler) GetDownloadLink(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", tasks.FormatPDF)))
	if !tasks.ValidFormat(format) {
		BadRequest(c, "format must be pdf or docx")
		return
	}

	rec, ok := h.loadResume(c)
	if !ok {
		return
	}

	key := rec.PdfKey
	if format == tasks.FormatDOCX {
		key = rec.DocxKey
	}
	if key == "" {
		Conflict(c, fmt.Sprintf("%s export not ready", format))
		return
	}

	var data resume.Data
	if err := json.Unmarshal(rec.Content, &data); err != nil {
		Internal(c, "failed to decode resume")
		return
	}
	filename := document.FileName(data.PersonalInfo.Name, format)

	signedURL, err := h.links.DownloadURL(c.Request.Context(), key, h.export.LinkTTL, filename)
	if err != nil {
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        signedURL,
		"filename":   filename,
		"expires_in": int(h.export.LinkTTL.Seconds()),
	})
}

// loadResume 读取路径中的简历，失败时已经写好响应。
func (h *ResumeHandler) loadResume(c *gin.Context) (*database.Resume, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		Unauthorized(c)
		return nil, false
	}

	rec, err := h.getResumeForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, errInvalidResumeID):
			BadRequest(c, "invalid resume id")
		case errors.Is(err, gorm.ErrRecordNotFound):
			NotFound(c, "resume not found")
		default:
			Internal(c, "failed to query resume")
		}
		return nil, false
	}
	return rec, true
}

func (h *ResumeHandler) getResumeForUser(ctx context.Context, idParam string, userID string) (*database.Resume, error) {
	resumeID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil || resumeID == 0 {
		return nil, errInvalidResumeID
	}

	var rec database.Resume
	if err := h.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", uint(resumeID), userID).
		First(&rec).Error; err != nil {
		return nil, err
	}

	return &rec, nil
}

func newResumeResponse(rec database.Resume) resumeResponse {
	return resumeResponse{
		ID:         rec.ID,
		Title:      rec.Title,
		TemplateID: rec.TemplateID,
		Content:    rec.Content,
		Status:     rec.Status,
		HasPDF:     rec.PdfKey != "",
		HasDOCX:    rec.DocxKey != "",
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}
