package render

import (
	"strings"

	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
)

const skillField schema.FieldName = "skill"

type skillGroup struct {
	name  string
	items []string
}

// skillsBlocks 根据布局变体把扁平技能列表分组成块。
// 变体只影响分组方式，文本仍经过同一套清洗与拼接规则。
func (e *Engine) skillsBlocks(skills resume.Skills) []Block {
	sep := e.tpl.Skills.Separator
	groups := groupSkills(skills)
	if len(groups) == 0 {
		return nil
	}

	switch e.tpl.Skills.Layout {
	case schema.SkillsBullets:
		b := Block{Kind: BlockSkills, Glyph: e.tpl.Experience.BulletGlyph, Wrap: true}
		for _, g := range groups {
			if g.name != "" {
				b.Bullets = append(b.Bullets, []Run{
					{Text: g.name + ": ", Bold: true},
					{Text: strings.Join(g.items, sep)},
				})
				continue
			}
			for _, item := range g.items {
				b.Bullets = append(b.Bullets, []Run{{Text: item}})
			}
		}
		return []Block{b}

	case schema.SkillsKeyValue:
		b := Block{Kind: BlockSkills}
		for _, g := range groups {
			value := Segment{Field: skillField, Style: schema.StyleNormal, Runs: []Run{{Text: strings.Join(g.items, sep)}}}
			if g.name == "" {
				b.Rows = append(b.Rows, Row{Align: schema.AlignLeft, Left: []Segment{value}})
				continue
			}
			key := Segment{Field: skillField, Style: schema.StyleBold, Runs: []Run{{Text: g.name, Bold: true}}, Separator: ": "}
			b.Rows = append(b.Rows, Row{Align: schema.AlignLeft, Left: []Segment{key, value}})
		}
		return []Block{b}

	case schema.SkillsCategories:
		blocks := make([]Block, 0, len(groups))
		for _, g := range groups {
			b := Block{Kind: BlockSkills}
			if g.name != "" {
				b.Rows = append(b.Rows, Row{Align: schema.AlignLeft, Left: []Segment{{
					Field: skillField, Style: schema.StyleBold, Runs: []Run{{Text: g.name, Bold: true}},
				}}})
			}
			b.Rows = append(b.Rows, Row{Align: schema.AlignLeft, Left: joinedSegments(g.items, sep)})
			blocks = append(blocks, b)
		}
		return blocks

	default:
		var all []string
		for _, g := range groups {
			all = append(all, g.items...)
		}
		return []Block{{
			Kind: BlockSkills,
			Rows: []Row{{Align: schema.AlignLeft, Left: joinedSegments(all, sep)}},
		}}
	}
}

func joinedSegments(items []string, sep string) []Segment {
	segs := make([]Segment, len(items))
	for i, item := range items {
		segs[i] = Segment{Field: skillField, Style: schema.StyleNormal, Runs: []Run{{Text: item}}, Separator: sep}
	}
	if n := len(segs); n > 0 {
		segs[n-1].Separator = ""
	}
	return segs
}

// groupSkills 合并显式分类与 "分类: 内容" 形式的条目，保持首次出现的顺序。
// 没有分类前缀的条目归入名称为空的组。
func groupSkills(skills resume.Skills) []skillGroup {
	var groups []skillGroup
	index := make(map[string]int)
	add := func(name, item string) {
		item = plainText(item)
		if item == "" {
			return
		}
		key := strings.ToLower(name)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, skillGroup{name: name})
		}
		groups[i].items = append(groups[i].items, item)
	}

	for _, c := range skills.Categories {
		name := plainText(c.Name)
		for _, item := range c.Items {
			add(name, item)
		}
	}
	for _, raw := range skills.Technical {
		text := plainText(raw)
		name, rest, found := strings.Cut(text, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			add("", text)
			continue
		}
		for _, part := range strings.Split(rest, ",") {
			add(name, part)
		}
	}
	return groups
}
