package types

// SourceFormat 简历文档来源格式
type SourceFormat string

const (
	// SourcePDF PDF文档
	SourcePDF SourceFormat = "pdf"
	// SourceDOCX DOCX文档
	SourceDOCX SourceFormat = "docx"
)

// RawDocument 外部文本提取协作方产出的原始文档
// 一次解析请求构造一次，消费后即丢弃
type RawDocument struct {
	Text         string       `json:"text"`
	SourceFormat SourceFormat `json:"source_format"`
}

// Section 文档中的一个章节：识别出的标题与其后的正文
// 偏移量是清洗后文本中的字节下标，章节按文档顺序排列且互不重叠
type Section struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}

// ContactInfo 联系方式，字段均可缺失
// 缺失用空串表示，不使用占位符；Email若存在则已通过格式校验
type ContactInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
}

// IsEmpty 是否所有字段都缺失
func (c ContactInfo) IsEmpty() bool {
	return c.Name == "" && c.Email == "" && c.Phone == "" &&
		c.LinkedIn == "" && c.Location == "" && c.Website == ""
}

// ExperienceItem 一条工作经历
// Bullets保持原文顺序；没有日期是合法的（在职或未写明）
type ExperienceItem struct {
	Company   string   `json:"company,omitempty"`
	Title     string   `json:"title,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Location  string   `json:"location,omitempty"`
	Bullets   []string `json:"bullets"`
}

// EducationItem 一条教育经历
type EducationItem struct {
	Institution  string   `json:"institution,omitempty"`
	Degree       string   `json:"degree,omitempty"`
	Field        string   `json:"field,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	GPA          string   `json:"gpa,omitempty"`
	Achievements []string `json:"achievements"`
}

// SkillGroup 一组技能
// Skills非空且组内去重，保持出现顺序
type SkillGroup struct {
	Category string   `json:"category,omitempty"`
	Skills   []string `json:"skills"`
}

// ResumeContent 结构化简历内容，解析流程的聚合产物
// 构造完成后不可变；下游（评分、AI建议、导出）只读消费
type ResumeContent struct {
	ContactInfo ContactInfo      `json:"contact_info"`
	Summary     string           `json:"summary,omitempty"`
	Experience  []ExperienceItem `json:"experience"`
	Education   []EducationItem  `json:"education"`
	Skills      []SkillGroup     `json:"skills"`
	RawText     string           `json:"raw_text"`
	Sections    []Section        `json:"sections"`
}

// NewResumeContent 创建一个所有子列表非nil的空结果
// 保证"解析在结构层面总是成功"：即使什么都没提取到，返回值也是合法的
func NewResumeContent(rawText string) *ResumeContent {
	return &ResumeContent{
		RawText:    rawText,
		Experience: []ExperienceItem{},
		Education:  []EducationItem{},
		Skills:     []SkillGroup{},
		Sections:   []Section{},
	}
}

// SkillsFlat 展平所有技能组，保持顺序并全局去重
func (r *ResumeContent) SkillsFlat() []string {
	var flat []string
	seen := make(map[string]struct{})
	for _, group := range r.Skills {
		for _, s := range group.Skills {
			key := s
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			flat = append(flat, s)
		}
	}
	return flat
}
