package schema

import "strings"

// Clone 以写时复制方式派生新模板：新 id、createdBy 为克隆者，其余内容与源模板完全一致。
func Clone(src TemplateSchema, newID, owner string) TemplateSchema {
	c := src.DeepCopy()
	c.ID = strings.TrimSpace(newID)
	c.CreatedBy = strings.TrimSpace(owner)
	return c
}

// DeepCopy 返回不与原模板共享任何切片或 map 的副本。
// nil 与空切片的区别会被保留，保证序列化结果一致。
func (t TemplateSchema) DeepCopy() TemplateSchema {
	c := t
	if t.SectionOrder != nil {
		c.SectionOrder = append(make([]string, 0, len(t.SectionOrder)), t.SectionOrder...)
	}
	if t.HiddenSections != nil {
		c.HiddenSections = make(map[string]int, len(t.HiddenSections))
		for k, v := range t.HiddenSections {
			c.HiddenSections[k] = v
		}
	}
	if t.SectionHeaders.Titles != nil {
		c.SectionHeaders.Titles = make(map[string]string, len(t.SectionHeaders.Titles))
		for k, v := range t.SectionHeaders.Titles {
			c.SectionHeaders.Titles[k] = v
		}
	}
	c.Header.ContactRows = copyRows(t.Header.ContactRows)
	c.Experience.Rows = copyRows(t.Experience.Rows)
	c.Education.Rows = copyRows(t.Education.Rows)
	c.Custom.Rows = copyRows(t.Custom.Rows)
	return c
}

func copyRows(rows []TemplateRow) []TemplateRow {
	if rows == nil {
		return nil
	}
	out := make([]TemplateRow, len(rows))
	for i, r := range rows {
		out[i] = TemplateRow{Align: r.Align}
		if r.Fields != nil {
			out[i].Fields = append(make([]TemplateField, 0, len(r.Fields)), r.Fields...)
		}
	}
	return out
}
