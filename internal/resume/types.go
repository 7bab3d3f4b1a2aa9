package resume

// Data 是一份简历的结构化内容，与排版模板相互独立。
// 渲染引擎只读取它，从不修改。
type Data struct {
	PersonalInfo   PersonalInfo             `json:"personalInfo"`
	Summary        string                   `json:"summary"`
	Experience     []Experience             `json:"experience"`
	Education      []Education              `json:"education"`
	Skills         Skills                   `json:"skills"`
	CustomSections map[string]CustomSection `json:"customSections,omitempty"`
}

// PersonalInfo 对应页眉区的联系方式。
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// Experience 表示一段工作经历。
type Experience struct {
	ID        string   `json:"id,omitempty"`
	Company   string   `json:"company"`
	Title     string   `json:"title"`
	Location  string   `json:"location"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Current   bool     `json:"current"`
	Bullets   []string `json:"bullets"`
}

// Education 表示一段教育经历。
type Education struct {
	ID             string `json:"id,omitempty"`
	School         string `json:"school"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	Location       string `json:"location"`
	StartDate      string `json:"startDate,omitempty"`
	GraduationDate string `json:"graduationDate"`
	GPA            string `json:"gpa,omitempty"`
}

// Skills 保存技能列表。Technical 是扁平列表，条目可以写成 "分类: 内容"。
type Skills struct {
	Technical  []string        `json:"technical"`
	Categories []SkillCategory `json:"categories,omitempty"`
}

type SkillCategory struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// CustomSection 是用户自建的区块，以生成的 id 作为键。
type CustomSection struct {
	Title string       `json:"title"`
	Items []CustomItem `json:"items"`
}

type CustomItem struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets,omitempty"`
}

// DisplayName 返回用于导出文件名的姓名。
func (d Data) DisplayName() string {
	return d.PersonalInfo.Name
}
