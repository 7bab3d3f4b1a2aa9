package render

import (
	"strings"

	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
)

// Engine 持有一份规范化后的模板，可以对任意简历数据重复渲染。
// Engine 不保存可变状态，可在多个 goroutine 间共享。
type Engine struct {
	tpl         schema.TemplateSchema
	opts        Options
	resolver    Resolver
	adjustments []schema.Adjustment
}

// New 规范化模板并构造渲染引擎。
func New(t schema.TemplateSchema, opts Options) *Engine {
	opts = opts.withFallbacks()
	normalized, adj := schema.Normalize(t, opts.Defaults)
	return &Engine{
		tpl:         normalized,
		opts:        opts,
		resolver:    NewResolver(normalized, opts),
		adjustments: adj,
	}
}

// Render 是 New(t, opts).Layout(data) 的简写。
func Render(t schema.TemplateSchema, data resume.Data, opts Options) Layout {
	return New(t, opts).Layout(data)
}

// Template 返回引擎使用的规范化模板。
func (e *Engine) Template() schema.TemplateSchema {
	return e.tpl.DeepCopy()
}

// Resolve 暴露字段解析器。
func (e *Engine) Resolve(section schema.SectionType, name schema.FieldName, entity any) ([]Run, bool) {
	return e.resolver.Resolve(section, name, entity)
}

// Layout 生成页眉与有序区块，供双目标输出使用。
func (e *Engine) Layout(data resume.Data) Layout {
	out := Layout{
		TemplateID: e.tpl.ID,
		Subject:    plainText(data.DisplayName()),
		Theme: Theme{
			FontFamily:    e.tpl.Typography.FontFamily,
			Sizes:         e.tpl.Typography.Sizes,
			Colors:        e.tpl.Typography.Colors,
			Page:          e.tpl.Page,
			ShowIcons:     e.tpl.Header.ShowIcons,
			ATSCompatible: e.tpl.ATSCompatible,
		},
		Sections: e.Order(data),
	}
	if h, ok := e.Header(data); ok {
		out.Header = &h
	}

	out.Adjustments = append(out.Adjustments, e.adjustments...)
	for _, key := range e.tpl.SectionOrder {
		if _, ok := schema.BuiltinSection(key); ok {
			continue
		}
		if _, ok := data.CustomSections[key]; !ok {
			out.Adjustments = append(out.Adjustments, schema.Adjustment{
				Path:   "sectionOrder",
				Reason: "unknown section " + key + " skipped",
			})
		}
	}
	return out
}

// Order 按 sectionOrder 的顺序装配区块，丢弃缺失的区块。
// 未出现在 sectionOrder 中的区块永远不会输出。
func (e *Engine) Order(data resume.Data) []Section {
	sections := make([]Section, 0, len(e.tpl.SectionOrder))
	seen := make(map[string]struct{}, len(e.tpl.SectionOrder))
	for _, key := range e.tpl.SectionOrder {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if sec, ok := e.Assemble(key, data); ok {
			sections = append(sections, sec)
		}
	}
	return sections
}

// Header 组合页眉；姓名与所有联系行都缺失时返回 false。
func (e *Engine) Header(data resume.Data) (Header, bool) {
	h := Header{Align: e.tpl.Header.Align}
	info := data.PersonalInfo

	if runs, ok := e.resolver.Resolve(schema.SectionHeader, schema.FieldFullName, info); ok {
		h.Name = nameRuns(runs, e.tpl.Header.NameStyle)
	}
	for _, tr := range e.tpl.Header.ContactRows {
		row, ok := e.Compose(schema.SectionHeader, tr, info)
		if !ok {
			continue
		}
		if e.tpl.Header.ShowIcons {
			withIcons(&row)
		}
		h.Rows = append(h.Rows, row)
	}
	if len(h.Name) == 0 && len(h.Rows) == 0 {
		return Header{}, false
	}
	return h, true
}

func withIcons(row *Row) {
	for i := range row.Left {
		row.Left[i].Icon = string(row.Left[i].Field)
	}
	for i := range row.Right {
		row.Right[i].Icon = string(row.Right[i].Field)
	}
}

func nameRuns(runs []Run, style schema.NameStyle) []Run {
	out := make([]Run, len(runs))
	copy(out, runs)
	for i := range out {
		switch style {
		case schema.NameBold:
			out[i].Bold = true
		case schema.NameUppercase:
			out[i].Text = strings.ToUpper(out[i].Text)
		case schema.NameBoldUppercase:
			out[i].Bold = true
			out[i].Text = strings.ToUpper(out[i].Text)
		}
	}
	return out
}
