package document

import (
	"resumeforge/internal/render"
	"resumeforge/internal/schema"
)

var pageSizes = map[schema.PageSize][2]float64{
	schema.PageA4:     {595.28, 841.89},
	schema.PageLetter: {612, 792},
}

// 区块之间与条目之间的固定间距（pt）。
const (
	sectionGap = 10
	itemGap    = 4
)

// Build 将 Layout 转换为文档树。
func Build(l render.Layout) Document {
	th := l.Theme
	size, ok := pageSizes[th.Page.Size]
	if !ok {
		size = pageSizes[schema.PageA4]
	}
	doc := Document{
		Title:      l.Subject,
		FontFamily: th.FontFamily,
		Page: Page{
			Width:        size[0],
			Height:       size[1],
			MarginTop:    th.Page.Margins.Top,
			MarginBottom: th.Page.Margins.Bottom,
			MarginLeft:   th.Page.Margins.Left,
			MarginRight:  th.Page.Margins.Right,
		},
		Styles: map[string]RoleStyle{
			RoleName:         {Size: th.Sizes.Name, Color: th.Colors.Name},
			RoleContact:      {Size: th.Sizes.Body, Color: th.Colors.Body},
			RoleSectionTitle: {Size: th.Sizes.SectionHeader, Color: th.Colors.SectionHeader},
			RoleItemTitle:    {Size: th.Sizes.ItemTitle, Color: th.Colors.ItemTitle},
			RoleBody:         {Size: th.Sizes.Body, Color: th.Colors.Body},
		},
	}

	if h := l.Header; h != nil {
		if len(h.Name) > 0 {
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  KindParagraph,
				Role:  RoleName,
				Align: string(h.Align),
				Runs:  runs(h.Name),
			})
		}
		for _, r := range h.Rows {
			doc.Blocks = append(doc.Blocks, row(r, RoleContact))
		}
	}

	for _, sec := range l.Sections {
		title := Block{Kind: KindParagraph, Role: RoleSectionTitle, Runs: runs(sec.Title), SpaceBefore: sectionGap}
		doc.Blocks = append(doc.Blocks, title)
		if sec.Divider != nil {
			doc.Blocks = append(doc.Blocks, Block{
				Kind: KindRule,
				Role: RoleSectionTitle,
				Rule: &Rule{Weight: sec.Divider.Weight, Color: sec.Divider.Color},
			})
		}
		for i, b := range sec.Blocks {
			doc.Blocks = append(doc.Blocks, block(b, i > 0)...)
		}
	}
	return doc
}

func block(b render.Block, gap bool) []Block {
	var out []Block
	for i, r := range b.Rows {
		role := RoleBody
		if i == 0 && b.Kind == render.BlockItem {
			role = RoleItemTitle
		}
		out = append(out, row(r, role))
	}
	if len(b.Bullets) > 0 {
		list := Block{Kind: KindBulletedList, Role: RoleBody, Glyph: b.Glyph}
		for _, item := range b.Bullets {
			list.Items = append(list.Items, runs(item))
		}
		out = append(out, list)
	}
	if gap && len(out) > 0 {
		out[0].SpaceBefore = itemGap
	}
	return out
}

// row 把一行映射为段落；space-between 行映射为两列的 column-set。
func row(r render.Row, role string) Block {
	if r.Split() {
		return Block{
			Kind: KindColumnSet,
			Role: role,
			Columns: []Column{
				{Align: string(schema.AlignLeft), Runs: segments(r.Left)},
				{Align: string(schema.AlignRight), Runs: segments(r.Right)},
			},
		}
	}
	return Block{
		Kind:  KindParagraph,
		Role:  role,
		Align: string(r.Align),
		Runs:  segments(r.Left),
	}
}

func segments(segs []render.Segment) []Run {
	var out []Run
	for _, s := range segs {
		out = append(out, runs(s.Runs)...)
		if s.Separator != "" {
			out = append(out, Run{Text: s.Separator})
		}
	}
	return out
}

func runs(rs []render.Run) []Run {
	out := make([]Run, 0, len(rs))
	for _, r := range rs {
		if r.Text == "" {
			continue
		}
		out = append(out, Run{Text: r.Text, Bold: r.Bold, Italic: r.Italic, Underline: r.Underline})
	}
	return out
}
