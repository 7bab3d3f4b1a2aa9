package emitter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"resumeforge/internal/render"
	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
)

func fullData() resume.Data {
	return resume.Data{
		PersonalInfo: resume.PersonalInfo{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "+1 555 0100",
			Location: "Berlin",
			GitHub:   "github.com/jane",
		},
		Summary: "Backend engineer who likes **boring** systems.",
		Experience: []resume.Experience{
			{
				Company:   "Acme Corp",
				Title:     "Senior Engineer",
				Location:  "Remote",
				StartDate: "2021-03",
				Current:   true,
				Bullets:   []string{"Cut p99 latency by 40%", "Led the **billing** migration"},
			},
			{
				Company:   "Initech",
				Title:     "Engineer",
				StartDate: "2017-06",
				EndDate:   "2021-02",
			},
		},
		Education: []resume.Education{
			{School: "TU Berlin", Degree: "MSc", Field: "Computer Science", GraduationDate: "2017-05", GPA: "1.3"},
		},
		Skills: resume.Skills{
			Technical:  []string{"Go", "PostgreSQL", "Tools: Docker, Kubernetes"},
			Categories: []resume.SkillCategory{{Name: "Languages", Items: []string{"Go", "SQL"}}},
		},
		CustomSections: map[string]resume.CustomSection{
			"talks": {Title: "Talks", Items: []resume.CustomItem{
				{Title: "Queues at scale", Subtitle: "GopherCon", Date: "2023-07", Description: "About **asynq**."},
			}},
		},
	}
}

func builtins(t *testing.T) []schema.TemplateSchema {
	t.Helper()
	templates, err := schema.LoadBuiltins()
	if err != nil {
		t.Fatalf("load builtins: %v", err)
	}
	for i := range templates {
		templates[i].SectionOrder = append(templates[i].SectionOrder, "talks")
	}
	return templates
}

func TestPreviewAndDocumentListSameContent(t *testing.T) {
	tpl := schema.TemplateSchema{
		SectionOrder: []string{"experience"},
		Experience: schema.ExperienceConfig{Rows: []schema.TemplateRow{
			{Fields: []schema.TemplateField{{Name: schema.FieldTitle}}},
			{Fields: []schema.TemplateField{{Name: schema.FieldCompany}}},
		}},
	}
	data := resume.Data{Experience: []resume.Experience{{
		Company: "Acme Corp",
		Title:   "Senior Engineer",
		Bullets: []string{"Built the export pipeline"},
	}}}

	out := Render(tpl, data, render.DefaultOptions())

	want := []string{"Experience", "Senior Engineer", "Acme Corp", "Built the export pipeline"}
	if diff := cmp.Diff(want, out.Preview.Texts()); diff != "" {
		t.Fatalf("preview texts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, out.Document.Texts()); diff != "" {
		t.Fatalf("document texts (-want +got):\n%s", diff)
	}
}

func TestParityAcrossBuiltins(t *testing.T) {
	data := fullData()
	for _, tpl := range builtins(t) {
		t.Run(tpl.ID, func(t *testing.T) {
			out := Render(tpl, data, render.DefaultOptions())
			if m := out.CheckParity(); m != nil {
				t.Fatalf("parity: %v", m)
			}
			if diff := cmp.Diff(Texts(out.Layout), out.Document.Texts()); diff != "" {
				t.Fatalf("document diverges from layout (-layout +document):\n%s", diff)
			}
			if len(out.Layout.Adjustments) != 0 {
				t.Fatalf("unexpected adjustments: %+v", out.Layout.Adjustments)
			}
		})
	}
}

func TestParityWithSparseData(t *testing.T) {
	data := resume.Data{
		PersonalInfo: resume.PersonalInfo{Email: "only@example.com"},
		Education:    []resume.Education{{GraduationDate: "2020"}},
	}
	for _, tpl := range builtins(t) {
		out := Render(tpl, data, render.DefaultOptions())
		if m := out.CheckParity(); m != nil {
			t.Fatalf("%s parity: %v", tpl.ID, m)
		}
	}
}

func TestEmitIsDeterministic(t *testing.T) {
	data := fullData()
	for _, tpl := range builtins(t) {
		first := Render(tpl, data, render.DefaultOptions())
		second := Render(tpl.DeepCopy(), data, render.DefaultOptions())
		if diff := cmp.Diff(first.Preview, second.Preview); diff != "" {
			t.Fatalf("%s preview differs:\n%s", tpl.ID, diff)
		}
		if diff := cmp.Diff(first.Document, second.Document); diff != "" {
			t.Fatalf("%s document differs:\n%s", tpl.ID, diff)
		}
	}
}

func TestAbsentRowsContributeNothing(t *testing.T) {
	tpl := schema.TemplateSchema{
		HideEmptySections: true,
		SectionOrder:      []string{"education"},
		Education: schema.EducationConfig{Rows: []schema.TemplateRow{
			{Fields: []schema.TemplateField{{Name: schema.FieldGPA}}},
			{Fields: []schema.TemplateField{{Name: schema.FieldSchool}}},
		}},
	}
	data := resume.Data{Education: []resume.Education{{School: "MIT", GPA: "4.0"}}}

	out := Render(tpl, data, render.DefaultOptions())

	want := []string{"Education", "MIT"}
	if diff := cmp.Diff(want, out.Preview.Texts()); diff != "" {
		t.Fatalf("preview (-want +got):\n%s", diff)
	}
	if n := len(out.Document.Blocks); n != 2 {
		t.Fatalf("document blocks = %d, want title + one row", n)
	}
}

func TestCompare(t *testing.T) {
	if m := Compare([]string{"a", "b"}, []string{"a", "b"}); m != nil {
		t.Fatalf("equal slices reported %v", m)
	}
	m := Compare([]string{"a", "b"}, []string{"a", "c"})
	if m == nil || m.Index != 1 || m.Preview != "b" || m.Document != "c" {
		t.Fatalf("mismatch = %+v", m)
	}
	m = Compare([]string{"a"}, []string{"a", ""})
	if m == nil || m.Index != 1 {
		t.Fatalf("length mismatch = %+v", m)
	}
}
