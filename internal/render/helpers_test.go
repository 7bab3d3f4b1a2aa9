package render

import (
	"strings"

	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
)

func testTemplate() schema.TemplateSchema {
	return schema.TemplateSchema{
		ID:                "tpl-test",
		CreatedBy:         "user-1",
		HideEmptySections: true,
		SectionOrder:      []string{"experience", "education"},
		Header: schema.HeaderConfig{
			Align:     schema.AlignCenter,
			NameStyle: schema.NameBold,
			ContactRows: []schema.TemplateRow{{
				Align: schema.AlignCenter,
				Fields: []schema.TemplateField{
					{Name: schema.FieldEmail},
					{Name: schema.FieldPhone, Separator: " | "},
					{Name: schema.FieldLocation},
				},
			}},
		},
		SectionHeaders: schema.SectionHeaderConfig{Style: schema.HeaderBoldUppercase},
		Experience: schema.ExperienceConfig{
			BulletGlyph: "•",
			Rows: []schema.TemplateRow{
				{Align: schema.AlignLeft, Fields: []schema.TemplateField{{Name: schema.FieldTitle, Style: schema.StyleBold}}},
				{Align: schema.AlignLeft, Fields: []schema.TemplateField{{Name: schema.FieldCompany}}},
			},
		},
		Education: schema.EducationConfig{
			Rows: []schema.TemplateRow{{
				Align: schema.AlignSpaceBetween,
				Fields: []schema.TemplateField{
					{Name: schema.FieldSchool, Style: schema.StyleBold, Separator: ", "},
					{Name: schema.FieldDegree},
					{Name: schema.FieldGraduation},
				},
			}},
		},
		Page: schema.PageConfig{DateFormat: schema.DateShortMonth},
	}
}

func testData() resume.Data {
	return resume.Data{
		PersonalInfo: resume.PersonalInfo{
			Name:     "Jane Doe",
			Email:    "email@x.com",
			Location: "location",
		},
		Experience: []resume.Experience{{
			Company:   "Acme Corp",
			Title:     "Senior Engineer",
			StartDate: "2021-03",
			Current:   true,
			Bullets:   []string{"Shipped the **billing** rewrite"},
		}},
	}
}

// rowText 按输出顺序拼接一行的文本与分隔符。
func rowText(r Row) string {
	var sb strings.Builder
	for _, s := range r.Segments() {
		for _, run := range s.Runs {
			sb.WriteString(run.Text)
		}
		sb.WriteString(s.Separator)
	}
	return sb.String()
}

func runsText(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
