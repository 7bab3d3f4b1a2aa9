package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeDocumentExport = "document:export"
)

// 导出格式。
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

// ExportPayload 描述导出一份简历所需的最小信息。
type ExportPayload struct {
	ResumeID      uint   `json:"resume_id"`
	OwnerID       string `json:"owner_id"`
	Format        string `json:"format"`
	CorrelationID string `json:"correlation_id"`
}

// ValidFormat 判断导出格式是否受支持。
func ValidFormat(format string) bool {
	return format == FormatPDF || format == FormatDOCX
}

// NewExportTask 构造一个新的简历导出任务。
func NewExportTask(p ExportPayload) (*asynq.Task, error) {
	if !ValidFormat(p.Format) {
		return nil, fmt.Errorf("unsupported export format %q", p.Format)
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDocumentExport, payload), nil
}

// NotifyChannel 返回用户导出通知的 Redis 频道名。
func NotifyChannel(owner string) string {
	return "user_notify:" + owner
}
