// Package document 把渲染结果转换为定页面的文档内容树，并提供 HTML 与 DOCX 两种写出方式。
package document

import (
	"regexp"
	"strings"
)

type Kind string

const (
	KindParagraph    Kind = "paragraph"
	KindColumnSet    Kind = "column-set"
	KindBulletedList Kind = "bulleted-list"
	KindRule         Kind = "rule"
)

// 段落角色决定字号与颜色。
const (
	RoleName         = "name"
	RoleContact      = "contact"
	RoleSectionTitle = "section-title"
	RoleItemTitle    = "item-title"
	RoleBody         = "body"
)

// Run 是带样式的文本片段。
type Run struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

type Column struct {
	Align string `json:"align"`
	Runs  []Run  `json:"runs"`
}

type Rule struct {
	Weight float64 `json:"weight"`
	Color  string  `json:"color"`
}

// Block 是文档中的一个内容块。字段是否有效取决于 Kind。
type Block struct {
	Kind    Kind     `json:"kind"`
	Role    string   `json:"role"`
	Align   string   `json:"align,omitempty"`
	Runs    []Run    `json:"runs,omitempty"`
	Columns []Column `json:"columns,omitempty"`
	Items   [][]Run  `json:"items,omitempty"`
	Glyph   string   `json:"glyph,omitempty"`
	Rule    *Rule    `json:"rule,omitempty"`
	// SpaceBefore 单位为 pt。
	SpaceBefore float64 `json:"spaceBefore,omitempty"`
}

// Page 的尺寸单位均为 pt。
type Page struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	MarginTop    float64 `json:"marginTop"`
	MarginBottom float64 `json:"marginBottom"`
	MarginLeft   float64 `json:"marginLeft"`
	MarginRight  float64 `json:"marginRight"`
}

type RoleStyle struct {
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// Document 是一份可分页导出的简历文档。
type Document struct {
	Title      string               `json:"title"`
	FontFamily string               `json:"fontFamily"`
	Page       Page                 `json:"page"`
	Styles     map[string]RoleStyle `json:"styles"`
	Blocks     []Block              `json:"blocks"`
}

// Texts 按阅读顺序返回文档中所有非空文本片段。
func (d Document) Texts() []string {
	var out []string
	add := func(runs []Run) {
		for _, r := range runs {
			if r.Text != "" {
				out = append(out, r.Text)
			}
		}
	}
	for _, b := range d.Blocks {
		switch b.Kind {
		case KindParagraph:
			add(b.Runs)
		case KindColumnSet:
			for _, c := range b.Columns {
				add(c.Runs)
			}
		case KindBulletedList:
			for _, item := range b.Items {
				add(item)
			}
		}
	}
	return out
}

var fileNameUnsafe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// FileName 根据文档主体的显示名生成下载文件名，例如 Jane_Doe_Resume.pdf。
func FileName(subject, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	base := strings.Trim(fileNameUnsafe.ReplaceAllString(subject, "_"), "_")
	if base == "" {
		return "Resume." + ext
	}
	return base + "_Resume." + ext
}
