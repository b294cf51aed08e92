package scorer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-refine-go/internal/types"
)

func fullResumeContent() *types.ResumeContent {
	content := types.NewResumeContent(strings.Repeat("clean text ", 50))
	content.ContactInfo = types.ContactInfo{
		Name:     "John Doe",
		Email:    "john@example.com",
		Phone:    "(555) 123-4567",
		LinkedIn: "https://linkedin.com/in/johndoe",
	}
	content.Summary = strings.Repeat("Seasoned engineer with deep expertise. ", 6)
	content.Experience = []types.ExperienceItem{
		{Company: "Acme", Title: "Engineer", Bullets: []string{"做了事"}},
		{Company: "Widget", Title: "Dev", Bullets: []string{"又做了事"}},
		{Company: "Initech", Title: "Lead", Bullets: []string{"还做了事"}},
	}
	content.Education = []types.EducationItem{{Institution: "State University", Degree: "B.S."}}
	content.Skills = []types.SkillGroup{{Category: "General", Skills: []string{
		"Go", "Python", "Kubernetes", "Docker", "Terraform", "SQL", "Redis", "Kafka",
		"AWS", "GCP", "Linux", "Git", "CI", "Grafana", "Prometheus",
	}}}
	return content
}

// TestCalculateGrammarScore 验证按问题数扣分与下限
func TestCalculateGrammarScore(t *testing.T) {
	assert.Equal(t, 100.0, CalculateGrammarScore(1000, nil), "没有问题时满分")
	assert.Equal(t, 96.0, CalculateGrammarScore(1000, make([]GrammarIssue, 2)), "每个问题扣2分")
	assert.Equal(t, 40.0, CalculateGrammarScore(1000, make([]GrammarIssue, 100)), "得分不低于下限")
	assert.Equal(t, 0.0, CalculateGrammarScore(0, nil), "空文本得0分")
}

// TestCalculateContentScoreFull 结构完整的简历内容得满分
func TestCalculateContentScoreFull(t *testing.T) {
	assert.Equal(t, 100.0, CalculateContentScore(fullResumeContent()))
}

// TestCalculateContentScorePartial 验证各部分的独立贡献
func TestCalculateContentScorePartial(t *testing.T) {
	// 1. 完全空的内容得0分
	empty := types.NewResumeContent("")
	assert.Equal(t, 0.0, CalculateContentScore(empty))

	// 2. 只有完整联系方式得20分
	contactOnly := types.NewResumeContent("")
	contactOnly.ContactInfo = fullResumeContent().ContactInfo
	assert.Equal(t, 20.0, CalculateContentScore(contactOnly))

	// 3. 经历不足理想条数时按比例给分
	oneJob := types.NewResumeContent("")
	oneJob.Experience = []types.ExperienceItem{{Company: "Acme"}}
	assert.Equal(t, 10.0, CalculateContentScore(oneJob), "1条经历应得30*(1/3)=10分")

	// 4. 过短的总结不得分
	shortSummary := types.NewResumeContent("")
	shortSummary.Summary = "too short"
	assert.Equal(t, 0.0, CalculateContentScore(shortSummary))
}

// TestCalculateATSScore 验证按建议严重程度与缺失章节扣分
func TestCalculateATSScore(t *testing.T) {
	full := fullResumeContent()

	assert.Equal(t, 100.0, CalculateATSScore(full, nil), "无建议且章节齐全时满分")

	suggestions := []ATSSuggestion{
		{Importance: ImportanceHigh},
		{Importance: ImportanceMedium},
		{Importance: ImportanceLow},
	}
	assert.Equal(t, 83.0, CalculateATSScore(full, suggestions), "按10/5/2阶梯扣分")

	// 三个关键章节全缺时额外扣45分
	empty := types.NewResumeContent("")
	assert.Equal(t, 55.0, CalculateATSScore(empty, nil))
}

// TestCalculateOverallScore 验证0.30/0.35/0.35加权
func TestCalculateOverallScore(t *testing.T) {
	assert.Equal(t, 100.0, CalculateOverallScore(100, 100, 100))
	assert.Equal(t, 0.0, CalculateOverallScore(0, 0, 0))
	// 80*0.30 + 90*0.35 + 70*0.35 = 24 + 31.5 + 24.5 = 80
	assert.Equal(t, 80.0, CalculateOverallScore(80, 90, 70))
}

// TestGetScoreRating 验证分数档位边界
func TestGetScoreRating(t *testing.T) {
	assert.Equal(t, "Excellent", GetScoreRating(95))
	assert.Equal(t, "Excellent", GetScoreRating(90))
	assert.Equal(t, "Very Good", GetScoreRating(85))
	assert.Equal(t, "Good", GetScoreRating(72))
	assert.Equal(t, "Fair", GetScoreRating(60))
	assert.Equal(t, "Needs Improvement", GetScoreRating(50))
	assert.Equal(t, "Poor", GetScoreRating(30))
}

// TestScorerEndToEnd 评分器整体流程
func TestScorerEndToEnd(t *testing.T) {
	s := NewResumeScorer(nil)
	detail := s.Score(context.Background(), fullResumeContent())

	require.NotNil(t, detail)
	assert.Equal(t, 100.0, detail.ContentScore)
	assert.GreaterOrEqual(t, detail.OverallScore, 90.0, "结构完整且文本干净的简历应接近满分")
	assert.Equal(t, detail.Rating, GetScoreRating(detail.OverallScore))
}

// TestATSOptimizerSuggestions 验证建议生成的触发条件
func TestATSOptimizerSuggestions(t *testing.T) {
	opt := NewATSOptimizer()

	// 完整内容只可能触发低优先级项
	for _, s := range opt.Analyze(fullResumeContent()) {
		assert.NotEqual(t, ImportanceHigh, s.Importance)
	}

	empty := types.NewResumeContent("")
	suggestions := opt.Analyze(empty)

	var hasEmailHigh bool
	for _, s := range suggestions {
		if s.Section == "contact" && s.Importance == ImportanceHigh {
			hasEmailHigh = true
		}
	}
	assert.True(t, hasEmailHigh, "缺少邮箱应产生高优先级建议")
}

// TestHeuristicGrammarChecker 验证启发式规则
func TestHeuristicGrammarChecker(t *testing.T) {
	checker := NewHeuristicGrammarChecker()
	ctx := context.Background()

	t.Run("干净文本无问题", func(t *testing.T) {
		issues := checker.Check(ctx, "Led the payments team. Shipped on time.", 50)
		assert.Empty(t, issues)
	})

	t.Run("重复单词", func(t *testing.T) {
		issues := checker.Check(ctx, "Responsible for for the platform.", 50)
		require.NotEmpty(t, issues)
		assert.Equal(t, "repetition", issues[0].Category)
	})

	t.Run("小写的人称代词", func(t *testing.T) {
		issues := checker.Check(ctx, "At Acme i built the core service.", 50)
		require.NotEmpty(t, issues)
		assert.Equal(t, "casing", issues[0].Category)
	})

	t.Run("问题数量上限", func(t *testing.T) {
		text := strings.Repeat("word  word. ", 100)
		issues := checker.Check(ctx, text, 5)
		assert.LessOrEqual(t, len(issues), 5)
	})

	t.Run("空文本", func(t *testing.T) {
		assert.Empty(t, checker.Check(ctx, "   ", 50))
	})
}
