package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func editable() TemplateSchema {
	return TemplateSchema{
		ID:           "tpl-1",
		CreatedBy:    "user-1",
		SectionOrder: []string{"summary", "experience", "education", "skills"},
		Experience: ExperienceConfig{Rows: []TemplateRow{{
			Align: AlignLeft,
			Fields: []TemplateField{
				{Name: FieldTitle, Style: StyleBold, Separator: ", "},
				{Name: FieldCompany},
			},
		}}},
	}
}

func fieldNames(r TemplateRow) []FieldName {
	var out []FieldName
	for _, f := range r.Fields {
		out = append(out, f.Name)
	}
	return out
}

func TestBuiltinIsImmutable(t *testing.T) {
	tpl := editable()
	tpl.CreatedBy = SystemOwner

	ops := map[string]func() error{
		"AddRow":      func() error { _, err := tpl.AddRow(SectionExperience, AlignLeft); return err },
		"RemoveRow":   func() error { return tpl.RemoveRow(SectionExperience, 0) },
		"InsertField": func() error { return tpl.InsertField(SectionExperience, 0, 0, TemplateField{Name: FieldDates}) },
		"MoveSection": func() error { return tpl.MoveSection(0, 1) },
		"Hide":        func() error { return tpl.SetSectionVisible("skills", false) },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrBuiltinImmutable) {
			t.Errorf("%s: err = %v, want ErrBuiltinImmutable", name, err)
		}
	}
}

func TestInsertFieldRejectsUnknownName(t *testing.T) {
	tpl := editable()
	err := tpl.InsertField(SectionExperience, 0, 0, TemplateField{Name: FieldSchool})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
}

func TestFieldEditsPreserveOrder(t *testing.T) {
	tpl := editable()

	if err := tpl.InsertField(SectionExperience, 0, 1, TemplateField{Name: FieldLocation, Separator: " | "}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tpl.InsertField(SectionExperience, 0, -1, TemplateField{Name: FieldDates}); err != nil {
		t.Fatalf("append: %v", err)
	}
	want := []FieldName{FieldTitle, FieldLocation, FieldCompany, FieldDates}
	if diff := cmp.Diff(want, fieldNames(tpl.Experience.Rows[0])); diff != "" {
		t.Fatalf("after insert (-want +got):\n%s", diff)
	}
	if got := tpl.Experience.Rows[0].Fields[3].Style; got != StyleNormal {
		t.Fatalf("inserted style = %q, want normal", got)
	}

	if err := tpl.MoveField(SectionExperience, 0, 3, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	want = []FieldName{FieldDates, FieldTitle, FieldLocation, FieldCompany}
	if diff := cmp.Diff(want, fieldNames(tpl.Experience.Rows[0])); diff != "" {
		t.Fatalf("after move (-want +got):\n%s", diff)
	}

	if err := tpl.RemoveField(SectionExperience, 0, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	want = []FieldName{FieldDates, FieldTitle, FieldCompany}
	if diff := cmp.Diff(want, fieldNames(tpl.Experience.Rows[0])); diff != "" {
		t.Fatalf("after remove (-want +got):\n%s", diff)
	}

	if err := tpl.UpdateField(SectionExperience, 0, 1, StyleItalic, " @ "); err != nil {
		t.Fatalf("update: %v", err)
	}
	if f := tpl.Experience.Rows[0].Fields[1]; f.Style != StyleItalic || f.Separator != " @ " {
		t.Fatalf("updated field = %+v", f)
	}

	if err := tpl.RemoveField(SectionExperience, 0, 9); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("remove out of range err = %v", err)
	}
}

func TestRowEdits(t *testing.T) {
	tpl := editable()

	idx, err := tpl.AddRow(SectionExperience, AlignSpaceBetween)
	if err != nil || idx != 1 {
		t.Fatalf("add row = %d, %v", idx, err)
	}
	if err := tpl.InsertField(SectionExperience, 1, 0, TemplateField{Name: FieldDates}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tpl.MoveRow(SectionExperience, 1, 0); err != nil {
		t.Fatalf("move row: %v", err)
	}
	if got := tpl.Experience.Rows[0].Align; got != AlignSpaceBetween {
		t.Fatalf("moved row align = %q", got)
	}
	if err := tpl.SetRowAlign(SectionExperience, 0, AlignCenter); err != nil {
		t.Fatalf("set align: %v", err)
	}
	if err := tpl.RemoveRow(SectionExperience, 0); err != nil {
		t.Fatalf("remove row: %v", err)
	}
	if len(tpl.Experience.Rows) != 1 || tpl.Experience.Rows[0].Fields[0].Name != FieldTitle {
		t.Fatalf("rows = %+v", tpl.Experience.Rows)
	}

	if _, err := tpl.AddRow(SectionSkills, AlignLeft); !errors.Is(err, ErrNoRows) {
		t.Fatalf("skills add row err = %v, want ErrNoRows", err)
	}
}

func TestSectionVisibilityRestoresPosition(t *testing.T) {
	tpl := editable()

	if err := tpl.SetSectionVisible("experience", false); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if diff := cmp.Diff([]string{"summary", "education", "skills"}, tpl.SectionOrder); diff != "" {
		t.Fatalf("after hide (-want +got):\n%s", diff)
	}
	if tpl.HiddenSections["experience"] != 1 {
		t.Fatalf("hidden sections = %v", tpl.HiddenSections)
	}

	if err := tpl.SetSectionVisible("experience", true); err != nil {
		t.Fatalf("show: %v", err)
	}
	if diff := cmp.Diff([]string{"summary", "experience", "education", "skills"}, tpl.SectionOrder); diff != "" {
		t.Fatalf("after show (-want +got):\n%s", diff)
	}
	if tpl.HiddenSections != nil {
		t.Fatalf("hidden sections should be cleared, got %v", tpl.HiddenSections)
	}

	if err := tpl.SetSectionVisible("projects", true); err != nil {
		t.Fatalf("show custom: %v", err)
	}
	if last := tpl.SectionOrder[len(tpl.SectionOrder)-1]; last != "projects" {
		t.Fatalf("new section should be appended, got order %v", tpl.SectionOrder)
	}

	if err := tpl.SetSectionVisible("header", false); !errors.Is(err, ErrInvalidSection) {
		t.Fatalf("header toggle err = %v", err)
	}
}

func TestMoveSection(t *testing.T) {
	tpl := editable()
	if err := tpl.MoveSection(3, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff([]string{"skills", "summary", "experience", "education"}, tpl.SectionOrder); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if err := tpl.MoveSection(0, 4); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("out of range err = %v", err)
	}
}
