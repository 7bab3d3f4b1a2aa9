package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
)

func TestComposeSkipsAbsentFieldSeparators(t *testing.T) {
	e := New(testTemplate(), DefaultOptions())
	row := schema.TemplateRow{Fields: []schema.TemplateField{
		{Name: schema.FieldEmail},
		{Name: schema.FieldPhone, Separator: " | "},
		{Name: schema.FieldLocation},
	}}
	info := resume.PersonalInfo{Email: "email@x.com", Location: "location"}

	got, ok := e.Compose(schema.SectionHeader, row, info)
	if !ok {
		t.Fatalf("row absent")
	}
	if text := rowText(got); text != "email@x.com | location" {
		t.Fatalf("row text = %q", text)
	}
	if got.Align != schema.AlignLeft {
		t.Fatalf("align = %q", got.Align)
	}
}

func TestComposeSeparatorRules(t *testing.T) {
	e := New(testTemplate(), DefaultOptions())
	row := schema.TemplateRow{Fields: []schema.TemplateField{
		{Name: schema.FieldEmail, Separator: " | "},
		{Name: schema.FieldPhone, Separator: " | "},
		{Name: schema.FieldLocation, Separator: " | "},
	}}

	tests := []struct {
		info resume.PersonalInfo
		want string
	}{
		{resume.PersonalInfo{Email: "e", Phone: "p", Location: "l"}, "e | p | l"},
		{resume.PersonalInfo{Email: "e", Location: "l"}, "e | l"},
		{resume.PersonalInfo{Phone: "p", Location: "l"}, "p | l"},
		{resume.PersonalInfo{Email: "e", Phone: "p"}, "e | p"},
		{resume.PersonalInfo{Location: "l"}, "l"},
	}
	for _, tt := range tests {
		got, ok := e.Compose(schema.SectionHeader, row, tt.info)
		if !ok {
			t.Fatalf("%+v: row absent", tt.info)
		}
		if text := rowText(got); text != tt.want {
			t.Errorf("%+v: row = %q, want %q", tt.info, text, tt.want)
		}
	}

	if _, ok := e.Compose(schema.SectionHeader, row, resume.PersonalInfo{Name: "only name"}); ok {
		t.Fatalf("row with every field absent must be absent")
	}
}

func TestComposeIsIdempotent(t *testing.T) {
	e := New(testTemplate(), DefaultOptions())
	row := testTemplate().Education.Rows[0]
	edu := resume.Education{School: "MIT", Degree: "BS", GraduationDate: "2020-06"}

	first, _ := e.Compose(schema.SectionEducation, row, edu)
	second, _ := e.Compose(schema.SectionEducation, row, edu)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("compose not deterministic (-first +second):\n%s", diff)
	}
}

func TestComposeSpaceBetween(t *testing.T) {
	e := New(testTemplate(), DefaultOptions())
	row := testTemplate().Education.Rows[0]

	got, _ := e.Compose(schema.SectionEducation, row, resume.Education{School: "MIT", Degree: "BS", GraduationDate: "2020-06"})
	want := Row{
		Align: schema.AlignSpaceBetween,
		Left: []Segment{
			{Field: schema.FieldSchool, Style: schema.StyleBold, Runs: []Run{{Text: "MIT", Bold: true}}, Separator: ", "},
			{Field: schema.FieldDegree, Style: schema.StyleNormal, Runs: []Run{{Text: "BS"}}},
		},
		Right: []Segment{
			{Field: schema.FieldGraduation, Style: schema.StyleNormal, Runs: []Run{{Text: "Jun 2020"}}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}

	// 分组之间的分隔符由留白代替。
	got, _ = e.Compose(schema.SectionEducation, row, resume.Education{School: "MIT", GraduationDate: "2020-06"})
	if got.Left[0].Separator != "" || len(got.Right) != 1 {
		t.Fatalf("two-segment row = %+v", got)
	}

	got, _ = e.Compose(schema.SectionEducation, row, resume.Education{GraduationDate: "2020-06"})
	if got.Align != schema.AlignLeft || len(got.Right) != 0 || rowText(got) != "Jun 2020" {
		t.Fatalf("single-segment row = %+v", got)
	}
}

func TestComposeFieldOrderFollowsTemplate(t *testing.T) {
	e := New(testTemplate(), DefaultOptions())
	info := resume.PersonalInfo{Email: "e", Location: "l", GitHub: "g"}
	fields := []schema.TemplateField{
		{Name: schema.FieldEmail, Separator: " | "},
		{Name: schema.FieldPhone, Separator: " | "},
		{Name: schema.FieldLocation, Separator: " | "},
		{Name: schema.FieldGitHub},
	}
	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}

	for _, perm := range permutations {
		row := schema.TemplateRow{}
		var want []schema.FieldName
		for _, i := range perm {
			f := fields[i]
			row.Fields = append(row.Fields, f)
			if f.Name != schema.FieldPhone {
				want = append(want, f.Name)
			}
		}

		got, ok := e.Compose(schema.SectionHeader, row, info)
		if !ok {
			t.Fatalf("%v: row absent", perm)
		}
		var names []schema.FieldName
		for _, s := range got.Segments() {
			names = append(names, s.Field)
		}
		if diff := cmp.Diff(want, names); diff != "" {
			t.Errorf("%v: resolved fields (-want +got):\n%s", perm, diff)
		}
	}
}

func TestComposeKeepsOwnSeparatorOverAbsentOne(t *testing.T) {
	e := New(testTemplate(), DefaultOptions())
	info := resume.PersonalInfo{Email: "e", Location: "l"}

	tests := []struct {
		name   string
		fields []schema.TemplateField
		want   string
	}{
		{
			name: "own separator kept",
			fields: []schema.TemplateField{
				{Name: schema.FieldEmail, Separator: " / "},
				{Name: schema.FieldPhone, Separator: " | "},
				{Name: schema.FieldLocation},
			},
			want: "e / l",
		},
		{
			name: "empty separator inherits",
			fields: []schema.TemplateField{
				{Name: schema.FieldEmail},
				{Name: schema.FieldPhone, Separator: " | "},
				{Name: schema.FieldLocation},
			},
			want: "e | l",
		},
		{
			name: "first absent separator wins",
			fields: []schema.TemplateField{
				{Name: schema.FieldEmail},
				{Name: schema.FieldPhone, Separator: " | "},
				{Name: schema.FieldGitHub, Separator: " · "},
				{Name: schema.FieldLocation},
			},
			want: "e | l",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Compose(schema.SectionHeader, schema.TemplateRow{Fields: tt.fields}, info)
			if !ok {
				t.Fatalf("row absent")
			}
			if text := rowText(got); text != tt.want {
				t.Fatalf("row = %q, want %q", text, tt.want)
			}
		})
	}
}
