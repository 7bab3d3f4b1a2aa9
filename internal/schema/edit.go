package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBuiltinImmutable = errors.New("built-in template is immutable")
	ErrUnknownField     = errors.New("field is not in the section vocabulary")
	ErrNoRows           = errors.New("section has no row template")
	ErrOutOfRange       = errors.New("index out of range")
	ErrInvalidSection   = errors.New("invalid section key")
)

// 以下编辑操作服务于模板构建器。每个操作都保持 fields/rows 的相对顺序，
// 只改动被操作的元素。

func (t *TemplateSchema) writable() error {
	if t.IsBuiltin() {
		return ErrBuiltinImmutable
	}
	return nil
}

func (t *TemplateSchema) rowsRef(section SectionType) (*[]TemplateRow, error) {
	switch section {
	case SectionHeader:
		return &t.Header.ContactRows, nil
	case SectionExperience:
		return &t.Experience.Rows, nil
	case SectionEducation:
		return &t.Education.Rows, nil
	case SectionCustom:
		return &t.Custom.Rows, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoRows, section)
}

func (t *TemplateSchema) row(section SectionType, row int) (*TemplateRow, error) {
	rows, err := t.rowsRef(section)
	if err != nil {
		return nil, err
	}
	if row < 0 || row >= len(*rows) {
		return nil, fmt.Errorf("%w: row %d", ErrOutOfRange, row)
	}
	return &(*rows)[row], nil
}

// AddRow 在区块末尾追加一行空行，返回其下标。
func (t *TemplateSchema) AddRow(section SectionType, align Align) (int, error) {
	if err := t.writable(); err != nil {
		return 0, err
	}
	rows, err := t.rowsRef(section)
	if err != nil {
		return 0, err
	}
	if !validAlign(align) {
		align = AlignLeft
	}
	*rows = append(*rows, TemplateRow{Align: align, Fields: []TemplateField{}})
	return len(*rows) - 1, nil
}

// RemoveRow 删除指定行。
func (t *TemplateSchema) RemoveRow(section SectionType, row int) error {
	if err := t.writable(); err != nil {
		return err
	}
	rows, err := t.rowsRef(section)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(*rows) {
		return fmt.Errorf("%w: row %d", ErrOutOfRange, row)
	}
	*rows = append((*rows)[:row:row], (*rows)[row+1:]...)
	return nil
}

// MoveRow 将一行移动到新位置。
func (t *TemplateSchema) MoveRow(section SectionType, from, to int) error {
	if err := t.writable(); err != nil {
		return err
	}
	rows, err := t.rowsRef(section)
	if err != nil {
		return err
	}
	moved, err := move(*rows, from, to)
	if err != nil {
		return err
	}
	*rows = moved
	return nil
}

// SetRowAlign 修改行对齐方式。
func (t *TemplateSchema) SetRowAlign(section SectionType, row int, align Align) error {
	if err := t.writable(); err != nil {
		return err
	}
	if !validAlign(align) {
		return fmt.Errorf("unsupported align %q", align)
	}
	r, err := t.row(section, row)
	if err != nil {
		return err
	}
	r.Align = align
	return nil
}

// InsertField 在行内 pos 处插入字段；pos < 0 或超出末尾时追加到行尾。
func (t *TemplateSchema) InsertField(section SectionType, row, pos int, field TemplateField) error {
	if err := t.writable(); err != nil {
		return err
	}
	if !InVocabulary(section, field.Name) {
		return fmt.Errorf("%w: %q in %s", ErrUnknownField, field.Name, section)
	}
	if field.Style == "" {
		field.Style = StyleNormal
	}
	r, err := t.row(section, row)
	if err != nil {
		return err
	}
	if pos < 0 || pos > len(r.Fields) {
		pos = len(r.Fields)
	}
	fields := make([]TemplateField, 0, len(r.Fields)+1)
	fields = append(fields, r.Fields[:pos]...)
	fields = append(fields, field)
	fields = append(fields, r.Fields[pos:]...)
	r.Fields = fields
	return nil
}

// RemoveField 删除行内指定位置的字段。
func (t *TemplateSchema) RemoveField(section SectionType, row, pos int) error {
	if err := t.writable(); err != nil {
		return err
	}
	r, err := t.row(section, row)
	if err != nil {
		return err
	}
	if pos < 0 || pos >= len(r.Fields) {
		return fmt.Errorf("%w: field %d", ErrOutOfRange, pos)
	}
	r.Fields = append(r.Fields[:pos:pos], r.Fields[pos+1:]...)
	return nil
}

// MoveField 调整字段在行内的位置。
func (t *TemplateSchema) MoveField(section SectionType, row, from, to int) error {
	if err := t.writable(); err != nil {
		return err
	}
	r, err := t.row(section, row)
	if err != nil {
		return err
	}
	moved, err := move(r.Fields, from, to)
	if err != nil {
		return err
	}
	r.Fields = moved
	return nil
}

// UpdateField 修改字段的样式与分隔符，不改变其位置。
func (t *TemplateSchema) UpdateField(section SectionType, row, pos int, style FieldStyle, separator string) error {
	if err := t.writable(); err != nil {
		return err
	}
	switch style {
	case StyleNormal, StyleBold, StyleItalic:
	default:
		return fmt.Errorf("unsupported style %q", style)
	}
	r, err := t.row(section, row)
	if err != nil {
		return err
	}
	if pos < 0 || pos >= len(r.Fields) {
		return fmt.Errorf("%w: field %d", ErrOutOfRange, pos)
	}
	r.Fields[pos].Style = style
	r.Fields[pos].Separator = separator
	return nil
}

// MoveSection 调整 sectionOrder 中区块的位置。
func (t *TemplateSchema) MoveSection(from, to int) error {
	if err := t.writable(); err != nil {
		return err
	}
	moved, err := move(t.SectionOrder, from, to)
	if err != nil {
		return err
	}
	t.SectionOrder = moved
	return nil
}

// SetSectionVisible 通过 sectionOrder 成员关系控制区块可见性。
// 隐藏时记住原位置，重新显示时尽量放回原处。
func (t *TemplateSchema) SetSectionVisible(key string, visible bool) error {
	if err := t.writable(); err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" || key == string(SectionHeader) {
		return fmt.Errorf("%w: %q", ErrInvalidSection, key)
	}

	idx := -1
	for i, k := range t.SectionOrder {
		if k == key {
			idx = i
			break
		}
	}

	if !visible {
		if idx < 0 {
			return nil
		}
		if t.HiddenSections == nil {
			t.HiddenSections = make(map[string]int)
		}
		t.HiddenSections[key] = idx
		t.SectionOrder = append(t.SectionOrder[:idx:idx], t.SectionOrder[idx+1:]...)
		return nil
	}

	if idx >= 0 {
		delete(t.HiddenSections, key)
		return nil
	}
	pos, ok := t.HiddenSections[key]
	if !ok || pos < 0 || pos > len(t.SectionOrder) {
		pos = len(t.SectionOrder)
	}
	order := make([]string, 0, len(t.SectionOrder)+1)
	order = append(order, t.SectionOrder[:pos]...)
	order = append(order, key)
	order = append(order, t.SectionOrder[pos:]...)
	t.SectionOrder = order
	delete(t.HiddenSections, key)
	if len(t.HiddenSections) == 0 {
		t.HiddenSections = nil
	}
	return nil
}

func move[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, fmt.Errorf("%w: move %d -> %d", ErrOutOfRange, from, to)
	}
	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	item := items[from]
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out, nil
}
