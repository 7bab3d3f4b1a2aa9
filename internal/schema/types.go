package schema

// SystemOwner 是内置模板 createdBy 的哨兵值，内置模板不可修改。
const SystemOwner = "system"

// Align 描述一行字段的对齐方式。
type Align string

const (
	AlignLeft         Align = "left"
	AlignCenter       Align = "center"
	AlignRight        Align = "right"
	AlignSpaceBetween Align = "space-between"
)

// FieldStyle 是字段文本的行内样式。
type FieldStyle string

const (
	StyleNormal FieldStyle = "normal"
	StyleBold   FieldStyle = "bold"
	StyleItalic FieldStyle = "italic"
)

// HeaderStyle 是区块标题的样式变体。
type HeaderStyle string

const (
	HeaderBold          HeaderStyle = "bold"
	HeaderUppercase     HeaderStyle = "uppercase"
	HeaderBoldUppercase HeaderStyle = "bold-uppercase"
	HeaderUnderline     HeaderStyle = "underline"
)

// NameStyle 是页眉姓名的样式变体。
type NameStyle string

const (
	NameNormal        NameStyle = "normal"
	NameBold          NameStyle = "bold"
	NameUppercase     NameStyle = "uppercase"
	NameBoldUppercase NameStyle = "bold-uppercase"
)

// SkillsLayout 决定技能列表如何分组成块。
type SkillsLayout string

const (
	SkillsKeyValue   SkillsLayout = "key-value"
	SkillsCategories SkillsLayout = "categories"
	SkillsBullets    SkillsLayout = "bullets"
	SkillsInline     SkillsLayout = "inline"
)

// DateFormat 是日期字段的展示格式。
type DateFormat string

const (
	DateShortMonth DateFormat = "MMM YYYY"
	DateLongMonth  DateFormat = "MMMM YYYY"
	DateNumeric    DateFormat = "MM/YYYY"
	DateYear       DateFormat = "YYYY"
	DateISO        DateFormat = "YYYY-MM"
)

// PageSize 是导出文档的纸张规格。
type PageSize string

const (
	PageA4     PageSize = "A4"
	PageLetter PageSize = "Letter"
)

// TemplateSchema 是一份命名模板：只描述“如何排版”，不含简历内容。
type TemplateSchema struct {
	ID                string              `json:"id" yaml:"id"`
	Name              string              `json:"name" yaml:"name"`
	Description       string              `json:"description" yaml:"description"`
	CreatedBy         string              `json:"createdBy" yaml:"createdBy"`
	ATSCompatible     bool                `json:"atsCompatible" yaml:"atsCompatible"`
	HideEmptySections bool                `json:"hideEmptySections" yaml:"hideEmptySections"`
	SectionOrder      []string            `json:"sectionOrder" yaml:"sectionOrder"`
	HiddenSections    map[string]int      `json:"hiddenSections,omitempty" yaml:"hiddenSections,omitempty"`
	Header            HeaderConfig        `json:"header" yaml:"header"`
	SectionHeaders    SectionHeaderConfig `json:"sectionHeaders" yaml:"sectionHeaders"`
	Experience        ExperienceConfig    `json:"experience" yaml:"experience"`
	Education         EducationConfig     `json:"education" yaml:"education"`
	Skills            SkillsConfig        `json:"skills" yaml:"skills"`
	Custom            CustomConfig        `json:"custom" yaml:"custom"`
	Typography        Typography          `json:"typography" yaml:"typography"`
	Page              PageConfig          `json:"page" yaml:"page"`
}

// TemplateRow 是一行有序字段；字段顺序即渲染顺序。
type TemplateRow struct {
	Align  Align           `json:"align" yaml:"align"`
	Fields []TemplateField `json:"fields" yaml:"fields"`
}

// TemplateField 引用词表中的一个字段，并携带样式与尾随分隔符。
type TemplateField struct {
	Name      FieldName  `json:"name" yaml:"name"`
	Style     FieldStyle `json:"style,omitempty" yaml:"style,omitempty"`
	Separator string     `json:"separator,omitempty" yaml:"separator,omitempty"`
}

type HeaderConfig struct {
	Align           Align         `json:"align" yaml:"align"`
	NameStyle       NameStyle     `json:"nameStyle" yaml:"nameStyle"`
	ShowIcons       bool          `json:"showIcons" yaml:"showIcons"`
	HideEmptyFields bool          `json:"hideEmptyFields" yaml:"hideEmptyFields"`
	ContactRows     []TemplateRow `json:"contactRows" yaml:"contactRows"`
}

type SectionHeaderConfig struct {
	Style         HeaderStyle       `json:"style" yaml:"style"`
	Divider       bool              `json:"divider" yaml:"divider"`
	DividerWeight float64           `json:"dividerWeight" yaml:"dividerWeight"`
	DividerColor  string            `json:"dividerColor" yaml:"dividerColor"`
	Titles        map[string]string `json:"titles,omitempty" yaml:"titles,omitempty"`
}

type ExperienceConfig struct {
	Rows         []TemplateRow `json:"rows" yaml:"rows"`
	BulletGlyph  string        `json:"bulletGlyph" yaml:"bulletGlyph"`
	WrapLongText bool          `json:"wrapLongText" yaml:"wrapLongText"`
}

type EducationConfig struct {
	Rows    []TemplateRow `json:"rows" yaml:"rows"`
	ShowGPA bool          `json:"showGPA" yaml:"showGPA"`
}

type SkillsConfig struct {
	Layout    SkillsLayout `json:"layout" yaml:"layout"`
	Separator string       `json:"separator" yaml:"separator"`
}

type CustomConfig struct {
	Rows        []TemplateRow `json:"rows" yaml:"rows"`
	BulletGlyph string        `json:"bulletGlyph" yaml:"bulletGlyph"`
}

type Typography struct {
	FontFamily string    `json:"fontFamily" yaml:"fontFamily"`
	Sizes      FontSizes `json:"sizes" yaml:"sizes"`
	Colors     Colors    `json:"colors" yaml:"colors"`
}

// FontSizes 单位为 pt。
type FontSizes struct {
	Name          float64 `json:"name" yaml:"name"`
	SectionHeader float64 `json:"sectionHeader" yaml:"sectionHeader"`
	ItemTitle     float64 `json:"itemTitle" yaml:"itemTitle"`
	Body          float64 `json:"body" yaml:"body"`
}

type Colors struct {
	Name          string `json:"name" yaml:"name"`
	SectionHeader string `json:"sectionHeader" yaml:"sectionHeader"`
	ItemTitle     string `json:"itemTitle" yaml:"itemTitle"`
	Body          string `json:"body" yaml:"body"`
}

type PageConfig struct {
	Size       PageSize   `json:"size" yaml:"size"`
	Margins    Margins    `json:"margins" yaml:"margins"`
	DateFormat DateFormat `json:"dateFormat" yaml:"dateFormat"`
}

// Margins 单位为 pt。
type Margins struct {
	Top    float64 `json:"top" yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
}

// IsBuiltin 报告模板是否为系统内置模板。
func (t TemplateSchema) IsBuiltin() bool {
	return t.CreatedBy == SystemOwner
}

// RowsFor 返回区块的行模板；没有行模板的区块返回 nil。
func (t TemplateSchema) RowsFor(section SectionType) []TemplateRow {
	switch section {
	case SectionHeader:
		return t.Header.ContactRows
	case SectionExperience:
		return t.Experience.Rows
	case SectionEducation:
		return t.Education.Rows
	case SectionCustom:
		return t.Custom.Rows
	}
	return nil
}
