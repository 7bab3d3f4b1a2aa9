package render

import (
	"strings"

	"resumeforge/internal/resume"
	"resumeforge/internal/schema"
)

// Resolver 把 (字段名, 数据实体) 解析为格式化文本或“缺失”。
// 它只依赖构造时传入的日期格式与标签配置，没有副作用。
type Resolver struct {
	dateFormat schema.DateFormat
	present    string
	rangeSep   string
	showGPA    bool
}

// NewResolver 基于（已规范化的）模板和渲染配置构造解析器。
func NewResolver(t schema.TemplateSchema, opts Options) Resolver {
	opts = opts.withFallbacks()
	format := t.Page.DateFormat
	if !schema.ValidDateFormat(format) {
		format = opts.Defaults.DateFormat
	}
	return Resolver{
		dateFormat: format,
		present:    opts.PresentLabel,
		rangeSep:   opts.DateRangeSeparator,
		showGPA:    t.Education.ShowGPA,
	}
}

// Resolve 返回字段的 run 列表；第二个返回值为 false 表示缺失。
// 词表外的字段名、类型不匹配的实体、空值都解析为缺失，从不报错。
func (r Resolver) Resolve(section schema.SectionType, name schema.FieldName, entity any) ([]Run, bool) {
	if !schema.InVocabulary(section, name) {
		return nil, false
	}

	switch section {
	case schema.SectionHeader:
		info, ok := entity.(resume.PersonalInfo)
		if !ok {
			return nil, false
		}
		return r.header(name, info)
	case schema.SectionSummary:
		text, ok := entity.(string)
		if !ok {
			return nil, false
		}
		return inlineRuns(text)
	case schema.SectionExperience:
		exp, ok := entity.(resume.Experience)
		if !ok {
			return nil, false
		}
		return r.experience(name, exp)
	case schema.SectionEducation:
		edu, ok := entity.(resume.Education)
		if !ok {
			return nil, false
		}
		return r.education(name, edu)
	case schema.SectionCustom:
		item, ok := entity.(resume.CustomItem)
		if !ok {
			return nil, false
		}
		return r.custom(name, item)
	}
	return nil, false
}

func (r Resolver) header(name schema.FieldName, info resume.PersonalInfo) ([]Run, bool) {
	switch name {
	case schema.FieldFullName:
		return plainRuns(info.Name)
	case schema.FieldEmail:
		return plainRuns(info.Email)
	case schema.FieldPhone:
		return plainRuns(info.Phone)
	case schema.FieldLocation:
		return plainRuns(info.Location)
	case schema.FieldLinkedIn:
		return plainRuns(info.LinkedIn)
	case schema.FieldGitHub:
		return plainRuns(info.GitHub)
	}
	return nil, false
}

func (r Resolver) experience(name schema.FieldName, exp resume.Experience) ([]Run, bool) {
	switch name {
	case schema.FieldCompany:
		return plainRuns(exp.Company)
	case schema.FieldTitle:
		return plainRuns(exp.Title)
	case schema.FieldLocation:
		return plainRuns(exp.Location)
	case schema.FieldStartDate:
		return plainRuns(r.date(exp.StartDate))
	case schema.FieldEndDate:
		end := r.date(exp.EndDate)
		if end == "" && exp.Current {
			end = r.present
		}
		return plainRuns(end)
	case schema.FieldDates:
		return plainRuns(dateRange(exp.StartDate, exp.EndDate, exp.Current, r.dateFormat, r.present, r.rangeSep))
	}
	return nil, false
}

func (r Resolver) education(name schema.FieldName, edu resume.Education) ([]Run, bool) {
	switch name {
	case schema.FieldSchool:
		return plainRuns(edu.School)
	case schema.FieldDegree:
		return plainRuns(edu.Degree)
	case schema.FieldStudy:
		return plainRuns(edu.Field)
	case schema.FieldLocation:
		return plainRuns(edu.Location)
	case schema.FieldGraduation:
		return plainRuns(r.date(edu.GraduationDate))
	case schema.FieldDates:
		return plainRuns(dateRange(edu.StartDate, edu.GraduationDate, false, r.dateFormat, r.present, r.rangeSep))
	case schema.FieldGPA:
		if !r.showGPA {
			return nil, false
		}
		gpa := plainText(edu.GPA)
		if gpa == "" {
			return nil, false
		}
		if !strings.HasPrefix(strings.ToLower(gpa), "gpa") {
			gpa = "GPA: " + gpa
		}
		return []Run{{Text: gpa}}, true
	}
	return nil, false
}

func (r Resolver) custom(name schema.FieldName, item resume.CustomItem) ([]Run, bool) {
	switch name {
	case schema.FieldTitle:
		return plainRuns(item.Title)
	case schema.FieldSubtitle:
		return plainRuns(item.Subtitle)
	case schema.FieldLocation:
		return plainRuns(item.Location)
	case schema.FieldDate:
		return plainRuns(r.date(item.Date))
	case schema.FieldDescription:
		return inlineRuns(item.Description)
	}
	return nil, false
}

func (r Resolver) date(raw string) string {
	return formatDate(raw, r.dateFormat, r.present)
}
