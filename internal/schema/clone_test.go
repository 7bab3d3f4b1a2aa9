package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func builtinByID(t *testing.T, id string) TemplateSchema {
	t.Helper()
	templates, err := LoadBuiltins()
	if err != nil {
		t.Fatalf("load builtins: %v", err)
	}
	for _, tpl := range templates {
		if tpl.ID == id {
			return tpl
		}
	}
	t.Fatalf("builtin %q not found", id)
	return TemplateSchema{}
}

func TestCloneCopiesEverythingButIdentity(t *testing.T) {
	src := builtinByID(t, "builtin-classic")

	clone := Clone(src, "tpl-42", " user-7 ")

	if clone.ID != "tpl-42" || clone.CreatedBy != "user-7" {
		t.Fatalf("identity = %q/%q", clone.ID, clone.CreatedBy)
	}
	if clone.IsBuiltin() {
		t.Fatalf("clone must not be builtin")
	}

	clone.ID, clone.CreatedBy = src.ID, src.CreatedBy
	if diff := cmp.Diff(src, clone); diff != "" {
		t.Fatalf("clone differs from source (-src +clone):\n%s", diff)
	}
}

func TestCloneDoesNotShareState(t *testing.T) {
	src := builtinByID(t, "builtin-modern")
	before := src.DeepCopy()

	clone := Clone(src, "tpl-1", "user-1")
	if err := clone.InsertField(SectionExperience, 0, 0, TemplateField{Name: FieldLocation}); err != nil {
		t.Fatalf("insert field: %v", err)
	}
	if err := clone.MoveSection(0, 2); err != nil {
		t.Fatalf("move section: %v", err)
	}
	if err := clone.SetSectionVisible("skills", false); err != nil {
		t.Fatalf("hide section: %v", err)
	}

	if diff := cmp.Diff(before, src); diff != "" {
		t.Fatalf("source mutated through clone (-before +after):\n%s", diff)
	}
}

func TestDeepCopyPreservesNil(t *testing.T) {
	var empty TemplateSchema
	c := empty.DeepCopy()
	if c.SectionOrder != nil || c.HiddenSections != nil || c.Experience.Rows != nil {
		t.Fatalf("nil collections should stay nil: %+v", c)
	}

	withEmpty := TemplateSchema{SectionOrder: []string{}, Experience: ExperienceConfig{Rows: []TemplateRow{{Fields: []TemplateField{}}}}}
	c = withEmpty.DeepCopy()
	if c.SectionOrder == nil || c.Experience.Rows[0].Fields == nil {
		t.Fatalf("empty collections should stay empty, not nil: %+v", c)
	}
}
