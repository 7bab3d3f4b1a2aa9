package schema

// SectionType 表示模板中一个区块的类型标签。
type SectionType string

const (
	SectionHeader     SectionType = "header"
	SectionSummary    SectionType = "summary"
	SectionExperience SectionType = "experience"
	SectionEducation  SectionType = "education"
	SectionSkills     SectionType = "skills"
	SectionCustom     SectionType = "custom"
)

// FieldName 是模板行中引用的字段标识，取值来自各区块固定的词表。
type FieldName string

const (
	FieldFullName    FieldName = "name"
	FieldEmail       FieldName = "email"
	FieldPhone       FieldName = "phone"
	FieldLocation    FieldName = "location"
	FieldLinkedIn    FieldName = "linkedin"
	FieldGitHub      FieldName = "github"
	FieldCompany     FieldName = "company"
	FieldTitle       FieldName = "title"
	FieldStartDate   FieldName = "startDate"
	FieldEndDate     FieldName = "endDate"
	FieldDates       FieldName = "dates"
	FieldSchool      FieldName = "school"
	FieldDegree      FieldName = "degree"
	FieldStudy       FieldName = "field"
	FieldGraduation  FieldName = "graduationDate"
	FieldGPA         FieldName = "gpa"
	FieldSubtitle    FieldName = "subtitle"
	FieldDate        FieldName = "date"
	FieldDescription FieldName = "description"
	FieldSummary     FieldName = "summary"
)

var vocabularies = map[SectionType][]FieldName{
	SectionHeader: {
		FieldFullName, FieldEmail, FieldPhone, FieldLocation, FieldLinkedIn, FieldGitHub,
	},
	SectionSummary: {
		FieldSummary,
	},
	SectionExperience: {
		FieldCompany, FieldTitle, FieldLocation, FieldStartDate, FieldEndDate, FieldDates,
	},
	SectionEducation: {
		FieldSchool, FieldDegree, FieldStudy, FieldLocation, FieldGraduation, FieldGPA, FieldDates,
	},
	SectionCustom: {
		FieldTitle, FieldSubtitle, FieldLocation, FieldDate, FieldDescription,
	},
}

// Vocabulary 返回区块可用的字段名（按构建器展示顺序）。
func Vocabulary(section SectionType) []FieldName {
	names := vocabularies[section]
	out := make([]FieldName, len(names))
	copy(out, names)
	return out
}

// InVocabulary 判断字段名是否属于区块词表。
func InVocabulary(section SectionType, name FieldName) bool {
	for _, n := range vocabularies[section] {
		if n == name {
			return true
		}
	}
	return false
}

var builtinSections = []SectionType{
	SectionSummary, SectionExperience, SectionEducation, SectionSkills,
}

// BuiltinSection 将 sectionOrder 中的键解析为内置区块类型。
// 非内置键（自定义区块 id）返回 false。
func BuiltinSection(key string) (SectionType, bool) {
	for _, s := range builtinSections {
		if string(s) == key {
			return s, true
		}
	}
	return "", false
}
