package render

import (
	"strings"

	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
)

// Assemble 按区块键装配一个区块。键可以是内置区块类型或自定义区块 id。
// 区块没有可渲染条目且模板要求隐藏空区块时返回 false（标题也不输出）。
func (e *Engine) Assemble(key string, data resume.Data) (Section, bool) {
	var (
		sectionType schema.SectionType
		blocks      []Block
		title       string
	)

	if st, ok := schema.BuiltinSection(key); ok {
		sectionType = st
		title = e.opts.Titles[st]
		switch st {
		case schema.SectionSummary:
			blocks = e.summaryBlocks(data.Summary)
		case schema.SectionExperience:
			blocks = e.experienceBlocks(data.Experience)
		case schema.SectionEducation:
			blocks = e.educationBlocks(data.Education)
		case schema.SectionSkills:
			blocks = e.skillsBlocks(data.Skills)
		}
	} else {
		custom, ok := data.CustomSections[key]
		if !ok {
			return Section{}, false
		}
		sectionType = schema.SectionCustom
		title = e.opts.Titles[schema.SectionCustom]
		if t := plainText(custom.Title); t != "" {
			title = t
		}
		blocks = e.customBlocks(custom.Items)
	}

	if override := plainText(e.tpl.SectionHeaders.Titles[key]); override != "" {
		title = override
	}

	if len(blocks) == 0 && e.tpl.HideEmptySections {
		return Section{}, false
	}

	sec := Section{
		Key:    key,
		Type:   sectionType,
		Title:  e.titleRuns(title),
		Blocks: blocks,
	}
	if e.tpl.SectionHeaders.Divider {
		sec.Divider = &Divider{
			Weight: e.tpl.SectionHeaders.DividerWeight,
			Color:  e.tpl.SectionHeaders.DividerColor,
		}
	}
	return sec, true
}

func (e *Engine) titleRuns(title string) []Run {
	if title == "" {
		return nil
	}
	r := Run{Text: title}
	switch e.tpl.SectionHeaders.Style {
	case schema.HeaderBold:
		r.Bold = true
	case schema.HeaderUppercase:
		r.Text = strings.ToUpper(title)
	case schema.HeaderBoldUppercase:
		r.Bold = true
		r.Text = strings.ToUpper(title)
	case schema.HeaderUnderline:
		r.Underline = true
	}
	return []Run{r}
}

func (e *Engine) summaryBlocks(summary string) []Block {
	runs, ok := e.resolver.Resolve(schema.SectionSummary, schema.FieldSummary, summary)
	if !ok {
		return nil
	}
	return []Block{{
		Kind: BlockParagraph,
		Rows: []Row{{
			Align: schema.AlignLeft,
			Left: []Segment{{
				Field: schema.FieldSummary,
				Style: schema.StyleNormal,
				Runs:  runs,
			}},
		}},
	}}
}

func (e *Engine) experienceBlocks(items []resume.Experience) []Block {
	blocks := make([]Block, 0, len(items))
	for _, item := range items {
		b := Block{
			Kind:  BlockItem,
			Rows:  e.composeRows(schema.SectionExperience, e.tpl.Experience.Rows, item),
			Glyph: e.tpl.Experience.BulletGlyph,
			Wrap:  e.tpl.Experience.WrapLongText,
		}
		b.Bullets = bulletRuns(item.Bullets)
		if len(b.Rows) == 0 && len(b.Bullets) == 0 {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func (e *Engine) educationBlocks(items []resume.Education) []Block {
	blocks := make([]Block, 0, len(items))
	for _, item := range items {
		rows := e.composeRows(schema.SectionEducation, e.tpl.Education.Rows, item)
		if len(rows) == 0 {
			continue
		}
		blocks = append(blocks, Block{Kind: BlockItem, Rows: rows})
	}
	return blocks
}

func (e *Engine) customBlocks(items []resume.CustomItem) []Block {
	blocks := make([]Block, 0, len(items))
	for _, item := range items {
		b := Block{
			Kind:  BlockItem,
			Rows:  e.composeRows(schema.SectionCustom, e.tpl.Custom.Rows, item),
			Glyph: e.tpl.Custom.BulletGlyph,
			Wrap:  true,
		}
		b.Bullets = bulletRuns(item.Bullets)
		if len(b.Rows) == 0 && len(b.Bullets) == 0 {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func (e *Engine) composeRows(section schema.SectionType, rows []schema.TemplateRow, entity any) []Row {
	var out []Row
	for _, tr := range rows {
		if row, ok := e.Compose(section, tr, entity); ok {
			out = append(out, row)
		}
	}
	return out
}

func bulletRuns(bullets []string) [][]Run {
	var out [][]Run
	for _, b := range bullets {
		if runs, ok := inlineRuns(b); ok {
			out = append(out, runs)
		}
	}
	return out
}
