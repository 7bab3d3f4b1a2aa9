package preview

import (
	"fmt"

	"resumeforge/internal/render"
	"resumeforge/internal/schema"
)

// pageWidthPt 是预览画布的参考宽度（pt）。
var pageWidthPt = map[schema.PageSize]float64{
	schema.PageA4:     595,
	schema.PageLetter: 612,
}

// Build 将 Layout 转换为预览树。
func Build(l render.Layout) *Node {
	th := l.Theme
	m := th.Page.Margins
	root := &Node{
		Kind: KindContainer,
		Role: RolePage,
		Key:  l.TemplateID,
		Style: &Style{
			FontFamily: th.FontFamily,
			FontSize:   th.Sizes.Body,
			Color:      th.Colors.Body,
			Width:      pageWidthPt[th.Page.Size],
			Padding:    fmt.Sprintf("%gpt %gpt %gpt %gpt", m.Top, m.Right, m.Bottom, m.Left),
		},
	}

	if l.Header != nil {
		root.Children = append(root.Children, header(*l.Header, th))
	}
	for _, sec := range l.Sections {
		root.Children = append(root.Children, section(sec, th))
	}
	return root
}

func header(h render.Header, th render.Theme) *Node {
	n := &Node{
		Kind:  KindContainer,
		Role:  RoleHeader,
		Style: &Style{TextAlign: string(h.Align)},
	}
	if len(h.Name) > 0 {
		name := &Node{
			Kind:  KindContainer,
			Role:  RoleName,
			Style: &Style{FontSize: th.Sizes.Name, Color: th.Colors.Name},
		}
		name.Children = runs(h.Name)
		n.Children = append(n.Children, name)
	}
	for _, r := range h.Rows {
		rn := row(r, th.ShowIcons)
		rn.Role = RoleContactRow
		n.Children = append(n.Children, rn)
	}
	return n
}

func section(s render.Section, th render.Theme) *Node {
	n := &Node{Kind: KindContainer, Role: RoleSection, Key: s.Key}

	title := &Node{
		Kind:  KindContainer,
		Role:  RoleSectionTitle,
		Style: &Style{FontSize: th.Sizes.SectionHeader, Color: th.Colors.SectionHeader},
	}
	if s.Divider != nil {
		title.Style.Border = fmt.Sprintf("%gpt solid %s", s.Divider.Weight, s.Divider.Color)
	}
	title.Children = runs(s.Title)
	n.Children = append(n.Children, title)

	for i, b := range s.Blocks {
		n.Children = append(n.Children, block(b, th, fmt.Sprintf("%s-%d", s.Key, i)))
	}
	return n
}

func block(b render.Block, th render.Theme, key string) *Node {
	n := &Node{Kind: KindContainer, Role: RoleBlock, Key: key}
	for i, r := range b.Rows {
		rn := row(r, false)
		// 条目的第一行使用条目标题字号。
		if i == 0 && b.Kind == render.BlockItem {
			rn.Style.FontSize = th.Sizes.ItemTitle
			rn.Style.Color = th.Colors.ItemTitle
		}
		n.Children = append(n.Children, rn)
	}
	if len(b.Bullets) > 0 {
		list := &Node{
			Kind:  KindList,
			Glyph: b.Glyph,
			Style: &Style{Wrap: b.Wrap},
		}
		for _, item := range b.Bullets {
			list.Children = append(list.Children, &Node{
				Kind:     KindContainer,
				Role:     RoleBullet,
				Children: runs(item),
			})
		}
		n.Children = append(n.Children, list)
	}
	return n
}

func row(r render.Row, icons bool) *Node {
	if !r.Split() {
		return &Node{
			Kind:     KindContainer,
			Role:     RoleRow,
			Style:    &Style{TextAlign: string(r.Align)},
			Children: segments(r.Left, icons),
		}
	}
	return &Node{
		Kind:  KindTwoColumnRow,
		Role:  RoleRow,
		Style: &Style{Justify: "space-between"},
		Children: []*Node{
			{Kind: KindContainer, Role: RoleColumn, Style: &Style{TextAlign: "left"}, Children: segments(r.Left, icons)},
			{Kind: KindContainer, Role: RoleColumn, Style: &Style{TextAlign: "right"}, Children: segments(r.Right, icons)},
		},
	}
}

func segments(segs []render.Segment, icons bool) []*Node {
	var out []*Node
	for _, s := range segs {
		field := &Node{Kind: KindContainer, Role: RoleField, Key: string(s.Field)}
		if icons {
			field.Icon = s.Icon
		}
		field.Children = runs(s.Runs)
		out = append(out, field)
		if s.Separator != "" {
			out = append(out, &Node{Kind: KindText, Role: RoleSeparator, Text: s.Separator})
		}
	}
	return out
}

func runs(rs []render.Run) []*Node {
	out := make([]*Node, 0, len(rs))
	for _, r := range rs {
		if r.Text == "" {
			continue
		}
		out = append(out, &Node{
			Kind:      KindText,
			Text:      r.Text,
			Bold:      r.Bold,
			Italic:    r.Italic,
			Underline: r.Underline,
		})
	}
	return out
}
