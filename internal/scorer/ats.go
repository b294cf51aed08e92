package scorer

import (
	"fmt"

	"resume-refine-go/internal/types"
)

// ATSOptimizer ATS兼容性分析
// 机读简历系统按固定字段抽取信息，这里检查的是机读失败的常见原因
type ATSOptimizer struct{}

// NewATSOptimizer 创建ATS分析器
func NewATSOptimizer() *ATSOptimizer {
	return &ATSOptimizer{}
}

// Analyze 产出兼容性建议列表
// 章节整体缺失由评分侧单独扣分，这里只关注已有内容的质量问题
func (a *ATSOptimizer) Analyze(content *types.ResumeContent) []ATSSuggestion {
	suggestions := []ATSSuggestion{}

	contact := content.ContactInfo
	if contact.Email == "" {
		suggestions = append(suggestions, ATSSuggestion{
			Section:    "contact",
			Message:    "缺少可被机读的邮箱地址，这是ATS筛选候选人的首要字段",
			Importance: ImportanceHigh,
		})
	}
	if contact.Phone == "" {
		suggestions = append(suggestions, ATSSuggestion{
			Section:    "contact",
			Message:    "缺少电话号码",
			Importance: ImportanceMedium,
		})
	}
	if contact.LinkedIn == "" {
		suggestions = append(suggestions, ATSSuggestion{
			Section:    "contact",
			Message:    "建议补充LinkedIn主页链接",
			Importance: ImportanceLow,
		})
	}

	if content.Summary == "" {
		suggestions = append(suggestions, ATSSuggestion{
			Section:    "summary",
			Message:    "缺少个人总结段落，ATS关键词匹配高度依赖这部分内容",
			Importance: ImportanceMedium,
		})
	}

	bulletless := 0
	for _, exp := range content.Experience {
		if len(exp.Bullets) == 0 {
			bulletless++
		}
	}
	if bulletless > 0 {
		suggestions = append(suggestions, ATSSuggestion{
			Section:    "experience",
			Message:    fmt.Sprintf("%d 条工作经历没有任何职责要点，只有头部信息", bulletless),
			Importance: ImportanceMedium,
		})
	}

	if total := len(content.SkillsFlat()); total > 0 && total < minSkills {
		suggestions = append(suggestions, ATSSuggestion{
			Section:    "skills",
			Message:    fmt.Sprintf("技能只有 %d 项，建议列出至少 %d 项便于关键词匹配", total, minSkills),
			Importance: ImportanceLow,
		})
	}

	return suggestions
}

// countMissingCriticalSections 统计缺失的关键章节数
// 以提取结果为准：章节存在但什么都没提取出来，对ATS同样等于缺失
func countMissingCriticalSections(content *types.ResumeContent) int {
	missing := 0
	if len(content.Experience) == 0 {
		missing++
	}
	if len(content.Education) == 0 {
		missing++
	}
	if len(content.SkillsFlat()) == 0 {
		missing++
	}
	return missing
}
