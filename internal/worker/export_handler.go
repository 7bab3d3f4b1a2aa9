package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"resumeforge/internal/database"
	"resumeforge/internal/document"
	"resumeforge/internal/emitter"
	"resumeforge/internal/errcode"
	"resumeforge/internal/metrics"
	"resumeforge/internal/pdf"
	"resumeforge/internal/render"
	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
	"resumeforge/internal/storage"
	"resumeforge/internal/tasks"
)

var contentTypes = map[string]string{
	tasks.FormatPDF:  "application/pdf",
	tasks.FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// TemplateSource 按所有者查找模板。templates.Service 满足该接口。
type TemplateSource interface {
	Get(ctx context.Context, owner, id string) (schema.TemplateSchema, error)
}

// ObjectStore 保存导出文件。storage.Client 满足该接口。
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, key string) error
}

// PDFRenderer 把 HTML 打印为 PDF。pdf.Generator 满足该接口。
type PDFRenderer interface {
	FromHTML(ctx context.Context, html string) ([]byte, error)
}

// ExportHandler 负责消费简历导出任务。
type ExportHandler struct {
	db          *gorm.DB
	templates   TemplateSource
	store       ObjectStore
	notifier    Notifier
	pdf         PDFRenderer
	opts        render.Options
	logger      *slog.Logger
	newID       func() string
	extractText func([]byte) (string, error)
}

func NewExportHandler(
	db *gorm.DB,
	templates TemplateSource,
	store ObjectStore,
	notifier Notifier,
	pdfRenderer PDFRenderer,
	opts render.Options,
	logger *slog.Logger,
) *ExportHandler {
	return &ExportHandler{
		db:          db,
		templates:   templates,
		store:       store,
		notifier:    notifier,
		pdf:         pdfRenderer,
		opts:        opts,
		logger:      logger,
		newID:       uuid.NewString,
		extractText: pdf.ExtractText,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *ExportHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.ExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Int("resume_id", int(payload.ResumeID)),
		slog.String("format", payload.Format),
	)
	log.Info("Starting document export task...")

	if !tasks.ValidFormat(payload.Format) {
		log.Warn("unsupported export format, skipping task")
		return nil
	}

	var rec database.Resume
	err := h.db.WithContext(ctx).
		Where("owner_id = ?", payload.OwnerID).
		First(&rec, payload.ResumeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("resume not found, skipping task")
			return nil
		}
		log.Error("query resume failed", slog.Any("error", err))
		return err
	}

	log = log.With(slog.String("owner_id", rec.OwnerID))

	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}

		if err := h.db.WithContext(ctx).Model(&rec).Update("status", database.StatusFailed).Error; err != nil {
			log.Error("mark resume export failed", slog.Any("error", err))
		}
		notify := ExportNotifyMessage{
			Status:        "error",
			ResumeID:      rec.ID,
			Format:        payload.Format,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.notifier.Notify(ctx, rec.OwnerID, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	var data resume.Data
	if err := json.Unmarshal(rec.Content, &data); err != nil {
		log.Error("decode resume content failed", slog.Any("error", err))
		return fmt.Errorf("decode resume content: %w", err)
	}

	tpl, err := h.templates.Get(ctx, rec.OwnerID, rec.TemplateID)
	if err != nil {
		log.Error("load template failed", slog.String("template_id", rec.TemplateID), slog.Any("error", err))
		return fmt.Errorf("load template %q: %w", rec.TemplateID, err)
	}

	start := time.Now()
	out := emitter.Render(tpl, data, h.opts)
	if m := out.CheckParity(); m != nil {
		log.Error("preview and document trees diverged", slog.Any("error", m))
		return m
	}
	if n := len(out.Layout.Adjustments); n > 0 {
		log.Warn("template degraded during render", slog.Int("adjustments", n))
	}

	file, missing, err := h.export(ctx, payload.Format, out, log)
	if err != nil {
		log.Error("export document failed", slog.Any("error", err))
		return err
	}
	metrics.ObserveRender(payload.Format, time.Since(start), out.Layout.Adjustments)

	objectName := storage.ExportKey(rec.OwnerID, h.newID(), payload.Format)
	if err := h.store.PutObject(ctx, objectName, file, contentTypes[payload.Format]); err != nil {
		log.Error("upload export to minio failed", slog.Any("error", err))
		return err
	}

	column, previous := "pdf_key", rec.PdfKey
	if payload.Format == tasks.FormatDOCX {
		column, previous = "docx_key", rec.DocxKey
	}
	update := map[string]any{
		column:   objectName,
		"status": database.StatusExported,
	}
	if err := h.db.WithContext(ctx).Model(&rec).Updates(update).Error; err != nil {
		log.Error("update resume failed", slog.Any("error", err))
		return err
	}

	if previous != "" && previous != objectName {
		if err := h.store.DeleteObject(ctx, previous); err != nil {
			log.Warn("delete previous export failed", slog.String("object", previous), slog.Any("error", err))
		}
	}

	notify := ExportNotifyMessage{
		Status:        "completed",
		ResumeID:      rec.ID,
		Format:        payload.Format,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if len(missing) > 0 {
		notify.ErrorCode = errcode.ContentMismatch
		notify.ErrorMessage = "导出文件的文本与预览不一致，请检查字体或特殊字符"
		notify.MissingSegments = missing
		log.Warn("exported pdf lost text segments",
			slog.Int("missing_count", len(missing)),
			slog.Any("missing_segments", missing),
		)
	}
	if err := h.notifier.Notify(ctx, rec.OwnerID, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("Document export task completed successfully.", slog.String("object", objectName))
	return nil
}

// export 生成目标格式的文件。PDF 会回读文本层，返回未出现在文件中的文本片段。
func (h *ExportHandler) export(ctx context.Context, format string, out emitter.Output, log *slog.Logger) ([]byte, []string, error) {
	switch format {
	case tasks.FormatDOCX:
		var buf bytes.Buffer
		if err := document.WriteDOCX(&buf, out.Document); err != nil {
			return nil, nil, fmt.Errorf("write docx: %w", err)
		}
		return buf.Bytes(), nil, nil
	case tasks.FormatPDF:
		html, err := document.HTML(out.Document)
		if err != nil {
			return nil, nil, fmt.Errorf("render html: %w", err)
		}
		data, err := h.pdf.FromHTML(ctx, html)
		if err != nil {
			return nil, nil, fmt.Errorf("print pdf: %w", err)
		}
		text, err := h.extractText(data)
		if err != nil {
			log.Warn("read back pdf text failed, skipping content check", slog.Any("error", err))
			return data, nil, nil
		}
		return data, pdf.MissingSegments(emitter.Texts(out.Layout), text), nil
	default:
		return nil, nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
