package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 简历导出状态。
const (
	StatusDraft     = "draft"
	StatusExporting = "exporting"
	StatusExported  = "exported"
	StatusFailed    = "failed"
)

// Template 保存一份 TemplateSchema。系统内置模板的 CreatedBy 为 "system"。
type Template struct {
	ID          string         `gorm:"primaryKey;size:64"`
	Name        string         `gorm:"size:255"`
	Description string         `gorm:"size:1024"`
	CreatedBy   string         `gorm:"index;size:64"`
	Schema      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Resume 保存一份简历数据快照以及它使用的模板 id。
type Resume struct {
	gorm.Model
	OwnerID    string         `gorm:"index;size:64"`
	Title      string         `gorm:"size:255"`
	TemplateID string         `gorm:"index;size:64"`
	Content    datatypes.JSON `gorm:"type:jsonb"`
	PdfKey     string         `gorm:"size:512"`
	DocxKey    string         `gorm:"size:512"`
	Status     string         `gorm:"size:32"`
}

// Migrate 创建或更新所有表结构。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Template{}, &Resume{})
}
