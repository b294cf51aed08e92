package scorer

import (
	"context"
	"math"

	"resume-refine-go/internal/logger"
	"resume-refine-go/internal/types"
)

// 评分权重
const (
	GrammarWeight = 0.30
	ATSWeight     = 0.35
	ContentWeight = 0.35
)

// 语法评分参数
const (
	grammarPenaltyPerIssue = 2.0
	minGrammarScore        = 40.0
)

// 内容评分参数
const (
	minSummaryLength      = 50
	idealSummaryLength    = 200
	minExperienceEntries  = 1
	idealExperienceEntries = 3
	minEducationEntries   = 1
	minSkills             = 5
	idealSkills           = 15
)

// GrammarChecker 语法检查接口
// 注入实现便于替换：默认是内置的启发式检查器，也可接外部校对服务
type GrammarChecker interface {
	Check(ctx context.Context, text string, maxIssues int) []GrammarIssue
}

// ResumeScorer 简历评分器
type ResumeScorer struct {
	grammar GrammarChecker
	ats     *ATSOptimizer
}

// NewResumeScorer 创建评分器
func NewResumeScorer(grammar GrammarChecker) *ResumeScorer {
	if grammar == nil {
		grammar = NewHeuristicGrammarChecker()
	}
	return &ResumeScorer{grammar: grammar, ats: NewATSOptimizer()}
}

// Score 对结构化简历内容做完整评分
func (s *ResumeScorer) Score(ctx context.Context, content *types.ResumeContent) *ScoreDetail {
	issues := s.grammar.Check(ctx, content.RawText, 50)
	suggestions := s.ats.Analyze(content)

	grammarScore := CalculateGrammarScore(len([]rune(content.RawText)), issues)
	atsScore := CalculateATSScore(content, suggestions)
	contentScore := CalculateContentScore(content)
	overall := CalculateOverallScore(grammarScore, atsScore, contentScore)

	logger.Ctx(ctx).Info().
		Float64("grammar", grammarScore).
		Float64("ats", atsScore).
		Float64("content", contentScore).
		Float64("overall", overall).
		Msg("简历评分完成")

	return &ScoreDetail{
		GrammarScore:   grammarScore,
		ATSScore:       atsScore,
		ContentScore:   contentScore,
		OverallScore:   overall,
		Rating:         GetScoreRating(overall),
		GrammarIssues:  issues,
		ATSSuggestions: suggestions,
	}
}

// CalculateGrammarScore 语法得分：满分起步，每个问题扣固定分值，有下限
func CalculateGrammarScore(textLength int, issues []GrammarIssue) float64 {
	if textLength == 0 {
		return 0.0
	}

	score := 100.0 - float64(len(issues))*grammarPenaltyPerIssue
	if score < minGrammarScore {
		score = minGrammarScore
	}
	return round1(score)
}

// CalculateContentScore 内容得分：按结构完整度累加
// 联系方式20分、总结15分、经历30分、教育20分、技能15分
func CalculateContentScore(content *types.ResumeContent) float64 {
	score := 0.0

	contact := content.ContactInfo
	if contact.Name != "" {
		score += 5
	}
	if contact.Email != "" {
		score += 5
	}
	if contact.Phone != "" {
		score += 5
	}
	if contact.LinkedIn != "" {
		score += 5
	}

	if summaryLen := len([]rune(content.Summary)); summaryLen >= minSummaryLength {
		if summaryLen >= idealSummaryLength {
			score += 15
		} else {
			score += 15 * float64(summaryLen) / float64(idealSummaryLength)
		}
	}

	if n := len(content.Experience); n >= minExperienceEntries {
		if n >= idealExperienceEntries {
			score += 30
		} else {
			score += 30 * float64(n) / float64(idealExperienceEntries)
		}
	}

	if len(content.Education) >= minEducationEntries {
		score += 20
	}

	if total := len(content.SkillsFlat()); total >= minSkills {
		if total >= idealSkills {
			score += 15
		} else {
			score += 15 * float64(total) / float64(idealSkills)
		}
	}

	if score > 100 {
		score = 100
	}
	return round1(score)
}

// CalculateATSScore ATS兼容性得分
// 满分起步，按建议严重程度扣分，缺少关键章节另扣
func CalculateATSScore(content *types.ResumeContent, suggestions []ATSSuggestion) float64 {
	score := 100.0

	for _, s := range suggestions {
		switch s.Importance {
		case ImportanceHigh:
			score -= 10
		case ImportanceMedium:
			score -= 5
		case ImportanceLow:
			score -= 2
		}
	}

	score -= float64(countMissingCriticalSections(content)) * 15

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return round1(score)
}

// CalculateOverallScore 按权重汇总
func CalculateOverallScore(grammarScore, atsScore, contentScore float64) float64 {
	return round1(grammarScore*GrammarWeight + atsScore*ATSWeight + contentScore*ContentWeight)
}

// GetScoreRating 分数档位
func GetScoreRating(score float64) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 80:
		return "Very Good"
	case score >= 70:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 50:
		return "Needs Improvement"
	default:
		return "Poor"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
