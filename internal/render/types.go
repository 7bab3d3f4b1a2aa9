// Package render 将 TemplateSchema 与简历数据组合成与输出目标无关的中间结构：
// 字段解析 -> 行组合 -> 区块装配 -> 区块排序。预览树与文档树都从同一份 Layout 生成。
package render

import "resumeforge/internal/schema"

// Run 是带行内样式的一段文本。
type Run struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

// Segment 是一行中已解析（非缺失）的字段。
// Separator 在该字段之后原样输出；每组最后一个字段的 Separator 恒为空。
type Segment struct {
	Field     schema.FieldName  `json:"field"`
	Style     schema.FieldStyle `json:"style"`
	Runs      []Run             `json:"runs"`
	Separator string            `json:"separator,omitempty"`
	Icon      string            `json:"icon,omitempty"`
}

// Row 是组合后的一行。space-between 行拆成 Left/Right 两组，其余行只有 Left。
type Row struct {
	Align schema.Align `json:"align"`
	Left  []Segment    `json:"left"`
	Right []Segment    `json:"right,omitempty"`
}

// Split 报告该行是否需要左右两端对齐输出。
func (r Row) Split() bool {
	return r.Align == schema.AlignSpaceBetween && len(r.Right) > 0
}

// Segments 按输出顺序返回全部字段。
func (r Row) Segments() []Segment {
	out := make([]Segment, 0, len(r.Left)+len(r.Right))
	out = append(out, r.Left...)
	return append(out, r.Right...)
}

type BlockKind string

const (
	BlockItem      BlockKind = "item"
	BlockParagraph BlockKind = "paragraph"
	BlockSkills    BlockKind = "skills"
)

// Block 是区块中的一个条目（一段经历、一段教育、摘要段落或一组技能）。
type Block struct {
	Kind    BlockKind `json:"kind"`
	Rows    []Row     `json:"rows,omitempty"`
	Bullets [][]Run   `json:"bullets,omitempty"`
	Glyph   string    `json:"glyph,omitempty"`
	Wrap    bool      `json:"wrap,omitempty"`
}

type Divider struct {
	Weight float64 `json:"weight"`
	Color  string  `json:"color"`
}

// Section 是装配完成的区块；Blocks 为空表示“空区块仍显示标题”。
type Section struct {
	Key     string             `json:"key"`
	Type    schema.SectionType `json:"type"`
	Title   []Run              `json:"title"`
	Divider *Divider           `json:"divider,omitempty"`
	Blocks  []Block            `json:"blocks"`
}

// Header 是页眉：姓名 + 联系方式行。
type Header struct {
	Align schema.Align `json:"align"`
	Name  []Run        `json:"name,omitempty"`
	Rows  []Row        `json:"rows,omitempty"`
}

// Theme 是输出目标需要的排版参数（已规范化）。
type Theme struct {
	FontFamily    string            `json:"fontFamily"`
	Sizes         schema.FontSizes  `json:"sizes"`
	Colors        schema.Colors     `json:"colors"`
	Page          schema.PageConfig `json:"page"`
	ShowIcons     bool              `json:"showIcons"`
	ATSCompatible bool              `json:"atsCompatible"`
}

// Layout 是一次渲染的完整中间结果。
type Layout struct {
	TemplateID  string              `json:"templateId"`
	Subject     string              `json:"subject"`
	Theme       Theme               `json:"theme"`
	Header      *Header             `json:"header,omitempty"`
	Sections    []Section           `json:"sections"`
	Adjustments []schema.Adjustment `json:"adjustments,omitempty"`
}

// Options 是渲染的环境配置，显式传入以保持引擎为纯函数。
type Options struct {
	Defaults           schema.Defaults
	PresentLabel       string
	DateRangeSeparator string
	Titles             map[schema.SectionType]string
}

// DefaultOptions 返回默认渲染配置。
func DefaultOptions() Options {
	return Options{
		Defaults:           schema.StandardDefaults(),
		PresentLabel:       "Present",
		DateRangeSeparator: " – ",
		Titles: map[schema.SectionType]string{
			schema.SectionSummary:    "Summary",
			schema.SectionExperience: "Experience",
			schema.SectionEducation:  "Education",
			schema.SectionSkills:     "Skills",
			schema.SectionCustom:     "Additional",
		},
	}
}

func (o Options) withFallbacks() Options {
	def := DefaultOptions()
	if o.PresentLabel == "" {
		o.PresentLabel = def.PresentLabel
	}
	if o.DateRangeSeparator == "" {
		o.DateRangeSeparator = def.DateRangeSeparator
	}
	if o.Defaults.FontFamily == "" {
		o.Defaults = def.Defaults
	}
	titles := make(map[schema.SectionType]string, len(def.Titles))
	for k, v := range def.Titles {
		titles[k] = v
	}
	for k, v := range o.Titles {
		if v != "" {
			titles[k] = v
		}
	}
	o.Titles = titles
	return o
}
