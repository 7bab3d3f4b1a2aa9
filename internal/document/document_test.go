package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nguyenthenguyen/docx"

	"resumeforge/internal/render"
	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
)

func sampleDocument(t *testing.T) Document {
	t.Helper()
	tpl := schema.TemplateSchema{
		SectionOrder: []string{"experience"},
		Header: schema.HeaderConfig{
			Align: schema.AlignCenter,
			ContactRows: []schema.TemplateRow{{
				Align:  schema.AlignCenter,
				Fields: []schema.TemplateField{{Name: schema.FieldEmail, Separator: " | "}, {Name: schema.FieldPhone}},
			}},
		},
		SectionHeaders: schema.SectionHeaderConfig{Divider: true},
		Experience: schema.ExperienceConfig{Rows: []schema.TemplateRow{{
			Align: schema.AlignSpaceBetween,
			Fields: []schema.TemplateField{
				{Name: schema.FieldTitle, Style: schema.StyleBold},
				{Name: schema.FieldDates},
			},
		}}},
		Page: schema.PageConfig{Size: schema.PageLetter},
	}
	data := resume.Data{
		PersonalInfo: resume.PersonalInfo{Name: "Jane Doe", Email: "jane@example.com", Phone: "555"},
		Experience: []resume.Experience{{
			Title:     "R&D Engineer",
			StartDate: "2020-01",
			EndDate:   "2022-01",
			Bullets:   []string{"Wrote <em>tests</em> & docs"},
		}},
	}
	return Build(render.Render(tpl, data, render.DefaultOptions()))
}

func TestBuildBlocks(t *testing.T) {
	doc := sampleDocument(t)

	var kinds []Kind
	for _, b := range doc.Blocks {
		kinds = append(kinds, b.Kind)
	}
	want := []Kind{KindParagraph, KindParagraph, KindParagraph, KindRule, KindColumnSet, KindBulletedList}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("block kinds (-want +got):\n%s", diff)
	}
	if doc.Page.Width != 612 || doc.Page.Height != 792 {
		t.Fatalf("page = %+v", doc.Page)
	}
	cols := doc.Blocks[4].Columns
	if len(cols) != 2 || cols[0].Runs[0].Text != "R&D Engineer" || !cols[0].Runs[0].Bold || cols[1].Align != "right" {
		t.Fatalf("columns = %+v", cols)
	}
	if doc.Blocks[1].Align != "center" {
		t.Fatalf("contact align = %q", doc.Blocks[1].Align)
	}
}

func TestWriteHTMLEscapesContent(t *testing.T) {
	html, err := HTML(sampleDocument(t))
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	for _, want := range []string{
		"<title>Jane Doe</title>",
		"size: 612pt 792pt",
		"<strong>R&amp;D Engineer</strong>",
		"Wrote tests &amp; docs",
		`class="columns role-item-title"`,
		"<hr ",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestWriteDOCX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDOCX(&buf, sampleDocument(t)); err != nil {
		t.Fatalf("write docx: %v", err)
	}

	r, err := docx.ReadDocxFromMemory(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("read back docx: %v", err)
	}
	defer r.Close()
	content := r.Editable().GetContent()

	if strings.Contains(content, "RESUMEFORGE_BODY") {
		t.Fatalf("body placeholder left in document")
	}
	for _, want := range []string{
		`<w:pgSz w:w="12240" w:h="15840"/>`,
		">Jane Doe</w:t>",
		">R&amp;D Engineer</w:t>",
		">Wrote tests &amp; docs</w:t>",
		"<w:tbl>",
		`<w:jc w:val="center"/>`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"Jane Doe":         "Jane_Doe_Resume.pdf",
		"  José  O'Brien ": "José_O_Brien_Resume.pdf",
		"":                 "Resume.pdf",
		"../..":            "Resume.pdf",
	}
	for subject, want := range tests {
		if got := FileName(subject, ".pdf"); got != want {
			t.Errorf("FileName(%q) = %q, want %q", subject, got, want)
		}
	}
}
