package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Defaults 是规范化时使用的内置默认值，由调用方显式传入。
type Defaults struct {
	FontFamily      string
	Sizes           FontSizes
	Colors          Colors
	Margins         Margins
	DateFormat      DateFormat
	BulletGlyph     string
	SkillsSeparator string
	DividerWeight   float64
	DividerColor    string
}

// StandardDefaults 返回引擎内置的默认排版参数。
func StandardDefaults() Defaults {
	return Defaults{
		FontFamily: "Helvetica",
		Sizes: FontSizes{
			Name:          22,
			SectionHeader: 12,
			ItemTitle:     11,
			Body:          10,
		},
		Colors: Colors{
			Name:          "#111827",
			SectionHeader: "#111827",
			ItemTitle:     "#111827",
			Body:          "#374151",
		},
		Margins:         Margins{Top: 36, Bottom: 36, Left: 36, Right: 36},
		DateFormat:      DateShortMonth,
		BulletGlyph:     "•",
		SkillsSeparator: ", ",
		DividerWeight:   1,
		DividerColor:    "#9ca3af",
	}
}

const (
	maxFontSizePt      = 72
	maxMarginPt        = 144
	maxDividerWeightPt = 6
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Adjustment 记录规范化过程中的一次降级（替换默认值、截断、去重等）。
type Adjustment struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Normalize 返回可直接渲染的模板副本：非法数值/颜色/枚举被替换为默认值，
// sectionOrder 去重。词表外的字段名保留原样（渲染时解析为缺失），但会被记录。
// 输入模板不会被修改。
func Normalize(t TemplateSchema, d Defaults) (TemplateSchema, []Adjustment) {
	n := t.DeepCopy()
	var adj []Adjustment
	note := func(path, format string, args ...any) {
		adj = append(adj, Adjustment{Path: path, Reason: fmt.Sprintf(format, args...)})
	}

	n.SectionOrder = n.SectionOrder[:0:0]
	seen := make(map[string]struct{}, len(t.SectionOrder))
	for i, raw := range t.SectionOrder {
		key := strings.TrimSpace(raw)
		if key == "" {
			note(fmt.Sprintf("sectionOrder[%d]", i), "empty section key dropped")
			continue
		}
		if _, dup := seen[key]; dup {
			note(fmt.Sprintf("sectionOrder[%d]", i), "duplicate section %q dropped", key)
			continue
		}
		seen[key] = struct{}{}
		n.SectionOrder = append(n.SectionOrder, key)
	}

	if !validAlign(n.Header.Align) || n.Header.Align == AlignSpaceBetween {
		if n.Header.Align != "" {
			note("header.align", "unsupported align %q", n.Header.Align)
		}
		n.Header.Align = AlignLeft
	}
	switch n.Header.NameStyle {
	case NameNormal, NameBold, NameUppercase, NameBoldUppercase:
	default:
		if n.Header.NameStyle != "" {
			note("header.nameStyle", "unsupported name style %q", n.Header.NameStyle)
		}
		n.Header.NameStyle = NameBold
	}
	normalizeRows(SectionHeader, "header.contactRows", n.Header.ContactRows, note)
	normalizeRows(SectionExperience, "experience.rows", n.Experience.Rows, note)
	normalizeRows(SectionEducation, "education.rows", n.Education.Rows, note)
	normalizeRows(SectionCustom, "custom.rows", n.Custom.Rows, note)

	switch n.SectionHeaders.Style {
	case HeaderBold, HeaderUppercase, HeaderBoldUppercase, HeaderUnderline:
	default:
		if n.SectionHeaders.Style != "" {
			note("sectionHeaders.style", "unsupported header style %q", n.SectionHeaders.Style)
		}
		n.SectionHeaders.Style = HeaderBold
	}
	if w := n.SectionHeaders.DividerWeight; w <= 0 || w > maxDividerWeightPt {
		if w != 0 {
			note("sectionHeaders.dividerWeight", "out of range %v", w)
		}
		n.SectionHeaders.DividerWeight = d.DividerWeight
	}
	n.SectionHeaders.DividerColor = color(n.SectionHeaders.DividerColor, d.DividerColor, "sectionHeaders.dividerColor", note)

	if strings.TrimSpace(n.Experience.BulletGlyph) == "" {
		n.Experience.BulletGlyph = d.BulletGlyph
	}
	if strings.TrimSpace(n.Custom.BulletGlyph) == "" {
		n.Custom.BulletGlyph = n.Experience.BulletGlyph
	}

	switch n.Skills.Layout {
	case SkillsKeyValue, SkillsCategories, SkillsBullets, SkillsInline:
	default:
		if n.Skills.Layout != "" {
			note("skills.layout", "unsupported layout %q", n.Skills.Layout)
		}
		n.Skills.Layout = SkillsInline
	}
	if n.Skills.Separator == "" {
		n.Skills.Separator = d.SkillsSeparator
	}

	if strings.TrimSpace(n.Typography.FontFamily) == "" {
		n.Typography.FontFamily = d.FontFamily
	}
	n.Typography.Sizes.Name = size(n.Typography.Sizes.Name, d.Sizes.Name, "typography.sizes.name", note)
	n.Typography.Sizes.SectionHeader = size(n.Typography.Sizes.SectionHeader, d.Sizes.SectionHeader, "typography.sizes.sectionHeader", note)
	n.Typography.Sizes.ItemTitle = size(n.Typography.Sizes.ItemTitle, d.Sizes.ItemTitle, "typography.sizes.itemTitle", note)
	n.Typography.Sizes.Body = size(n.Typography.Sizes.Body, d.Sizes.Body, "typography.sizes.body", note)
	n.Typography.Colors.Name = color(n.Typography.Colors.Name, d.Colors.Name, "typography.colors.name", note)
	n.Typography.Colors.SectionHeader = color(n.Typography.Colors.SectionHeader, d.Colors.SectionHeader, "typography.colors.sectionHeader", note)
	n.Typography.Colors.ItemTitle = color(n.Typography.Colors.ItemTitle, d.Colors.ItemTitle, "typography.colors.itemTitle", note)
	n.Typography.Colors.Body = color(n.Typography.Colors.Body, d.Colors.Body, "typography.colors.body", note)

	switch n.Page.Size {
	case PageA4, PageLetter:
	default:
		if n.Page.Size != "" {
			note("page.size", "unsupported page size %q", n.Page.Size)
		}
		n.Page.Size = PageA4
	}
	n.Page.Margins.Top = margin(n.Page.Margins.Top, d.Margins.Top, "page.margins.top", note)
	n.Page.Margins.Bottom = margin(n.Page.Margins.Bottom, d.Margins.Bottom, "page.margins.bottom", note)
	n.Page.Margins.Left = margin(n.Page.Margins.Left, d.Margins.Left, "page.margins.left", note)
	n.Page.Margins.Right = margin(n.Page.Margins.Right, d.Margins.Right, "page.margins.right", note)
	if !ValidDateFormat(n.Page.DateFormat) {
		if n.Page.DateFormat != "" {
			note("page.dateFormat", "unsupported date format %q", n.Page.DateFormat)
		}
		n.Page.DateFormat = d.DateFormat
	}

	return n, adj
}

// ValidDateFormat 报告日期格式是否为已知变体。
func ValidDateFormat(f DateFormat) bool {
	switch f {
	case DateShortMonth, DateLongMonth, DateNumeric, DateYear, DateISO:
		return true
	}
	return false
}

func validAlign(a Align) bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight, AlignSpaceBetween:
		return true
	}
	return false
}

func normalizeRows(section SectionType, path string, rows []TemplateRow, note func(string, string, ...any)) {
	for i := range rows {
		rowPath := fmt.Sprintf("%s[%d]", path, i)
		if !validAlign(rows[i].Align) {
			if rows[i].Align != "" {
				note(rowPath+".align", "unsupported align %q", rows[i].Align)
			}
			rows[i].Align = AlignLeft
		}
		for j := range rows[i].Fields {
			f := &rows[i].Fields[j]
			fieldPath := fmt.Sprintf("%s.fields[%d]", rowPath, j)
			switch f.Style {
			case StyleNormal, StyleBold, StyleItalic:
			case "":
				f.Style = StyleNormal
			default:
				note(fieldPath+".style", "unsupported style %q", f.Style)
				f.Style = StyleNormal
			}
			if !InVocabulary(section, f.Name) {
				note(fieldPath+".name", "field %q is not in the %s vocabulary", f.Name, section)
			}
		}
	}
}

func size(v, def float64, path string, note func(string, string, ...any)) float64 {
	if v > 0 && v <= maxFontSizePt {
		return v
	}
	if v != 0 {
		note(path, "font size %v out of range", v)
	}
	return def
}

func margin(v, def float64, path string, note func(string, string, ...any)) float64 {
	switch {
	case v < 0:
		note(path, "negative margin %v", v)
		return def
	case v > maxMarginPt:
		note(path, "margin %v clamped to %d", v, maxMarginPt)
		return maxMarginPt
	}
	return v
}

func color(v, def, path string, note func(string, string, ...any)) string {
	v = strings.TrimSpace(v)
	if hexColorPattern.MatchString(v) {
		return v
	}
	if v != "" {
		note(path, "invalid color %q", v)
	}
	return def
}
