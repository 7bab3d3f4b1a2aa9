package render

import "resumeforge/internal/schema"

// Compose 依次解析行内字段，跳过缺失字段并按分隔符规则拼接。
// 已解析字段自身没有分隔符时，沿用其后缺失字段的第一个非空分隔符，
// 所以 email、phone(" | ")、location 在 phone 缺失时输出 "email | location"。
// 最后一个已解析字段之后从不输出分隔符。全部字段缺失时返回 false。
func (e *Engine) Compose(section schema.SectionType, row schema.TemplateRow, entity any) (Row, bool) {
	segments := make([]Segment, 0, len(row.Fields))
	for _, f := range row.Fields {
		runs, ok := e.resolver.Resolve(section, f.Name, entity)
		if !ok {
			if n := len(segments); n > 0 && segments[n-1].Separator == "" {
				segments[n-1].Separator = f.Separator
			}
			continue
		}
		segments = append(segments, Segment{
			Field:     f.Name,
			Style:     f.Style,
			Runs:      styled(runs, f.Style),
			Separator: f.Separator,
		})
	}
	if len(segments) == 0 {
		return Row{}, false
	}
	segments[len(segments)-1].Separator = ""

	align := row.Align
	if align == "" {
		align = schema.AlignLeft
	}
	if align != schema.AlignSpaceBetween {
		return Row{Align: align, Left: segments}, true
	}
	if len(segments) == 1 {
		return Row{Align: schema.AlignLeft, Left: segments}, true
	}

	// space-between：最后一个字段靠右，其余字段作为左组。两组之间由留白分隔，
	// 因此左组末尾的分隔符不输出。
	last := len(segments) - 1
	left := segments[:last:last]
	left[last-1].Separator = ""
	return Row{
		Align: schema.AlignSpaceBetween,
		Left:  left,
		Right: segments[last:],
	}, true
}

func styled(runs []Run, style schema.FieldStyle) []Run {
	out := make([]Run, len(runs))
	copy(out, runs)
	for i := range out {
		switch style {
		case schema.StyleBold:
			out[i].Bold = true
		case schema.StyleItalic:
			out[i].Italic = true
		}
	}
	return out
}
