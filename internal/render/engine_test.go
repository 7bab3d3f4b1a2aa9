package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
)

func TestRenderIsDeterministic(t *testing.T) {
	tpl := testTemplate()
	data := testData()

	first := Render(tpl, data, DefaultOptions())
	second := Render(tpl.DeepCopy(), data, DefaultOptions())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("layouts differ (-first +second):\n%s", diff)
	}
}

func TestHeader(t *testing.T) {
	tpl := testTemplate()
	tpl.Header.NameStyle = schema.NameBoldUppercase
	tpl.Header.ShowIcons = true
	e := New(tpl, DefaultOptions())

	h, ok := e.Header(testData())
	if !ok {
		t.Fatalf("header absent")
	}
	if diff := cmp.Diff([]Run{{Text: "JANE DOE", Bold: true}}, h.Name); diff != "" {
		t.Fatalf("name mismatch (-want +got):\n%s", diff)
	}
	if len(h.Rows) != 1 || rowText(h.Rows[0]) != "email@x.com | location" {
		t.Fatalf("contact rows = %+v", h.Rows)
	}
	if icon := h.Rows[0].Left[0].Icon; icon != "email" {
		t.Fatalf("icon = %q", icon)
	}
	if h.Align != schema.AlignCenter {
		t.Fatalf("align = %q", h.Align)
	}

	if _, ok := e.Header(resume.Data{}); ok {
		t.Fatalf("empty personal info should produce no header")
	}
}

func TestRenderReportsDegradations(t *testing.T) {
	tpl := testTemplate()
	tpl.Typography.Sizes.Body = -3
	tpl.Experience.Rows[0].Fields = append(tpl.Experience.Rows[0].Fields, schema.TemplateField{Name: "salary"})

	l := Render(tpl, testData(), DefaultOptions())

	if l.Theme.Sizes.Body != schema.StandardDefaults().Sizes.Body {
		t.Fatalf("body size = %v", l.Theme.Sizes.Body)
	}
	paths := map[string]bool{}
	for _, a := range l.Adjustments {
		paths[a.Path] = true
	}
	if !paths["typography.sizes.body"] || !paths["experience.rows[0].fields[1].name"] {
		t.Fatalf("adjustments = %+v", l.Adjustments)
	}
	// 未知字段解析为缺失，不影响同一行的其余字段。
	if got := rowText(l.Sections[0].Blocks[0].Rows[0]); got != "Senior Engineer" {
		t.Fatalf("row = %q", got)
	}
}

func TestOptionsOverrideLabels(t *testing.T) {
	opts := DefaultOptions()
	opts.PresentLabel = "Now"
	opts.DateRangeSeparator = " to "
	opts.Titles = map[schema.SectionType]string{schema.SectionExperience: "Work"}

	tpl := testTemplate()
	tpl.Experience.Rows = []schema.TemplateRow{{Fields: []schema.TemplateField{{Name: schema.FieldDates}}}}
	l := Render(tpl, testData(), opts)

	sec := l.Sections[0]
	if got := runsText(sec.Title); got != "WORK" {
		t.Fatalf("title = %q", got)
	}
	if got := rowText(sec.Blocks[0].Rows[0]); got != "Mar 2021 to Now" {
		t.Fatalf("dates = %q", got)
	}
}
