package scorer

// Importance 建议的重要程度
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// GrammarIssue 语法问题
type GrammarIssue struct {
	Text        string   `json:"text"`                  // 问题所在的上下文片段
	Message     string   `json:"message"`               // 问题描述
	Suggestions []string `json:"suggestions,omitempty"` // 修改建议，最多三条
	Category    string   `json:"category,omitempty"`
	Offset      int      `json:"offset"` // 在全文中的rune偏移
}

// ATSSuggestion ATS兼容性建议
type ATSSuggestion struct {
	Section    string     `json:"section"`
	Message    string     `json:"message"`
	Importance Importance `json:"importance"`
}

// ScoreDetail 评分明细，随分析结果入库
type ScoreDetail struct {
	GrammarScore float64 `json:"grammar_score"`
	ATSScore     float64 `json:"ats_score"`
	ContentScore float64 `json:"content_score"`
	OverallScore float64 `json:"overall_score"`
	Rating       string  `json:"rating"`

	GrammarIssues  []GrammarIssue  `json:"grammar_issues,omitempty"`
	ATSSuggestions []ATSSuggestion `json:"ats_suggestions,omitempty"`
}
