package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-refine-go/internal/config"
)

// TestExtractSkillsDelimiters 验证各种分隔符都能切出技能
func TestExtractSkillsDelimiters(t *testing.T) {
	body := "Go, Python; Kubernetes • Docker · Terraform | SQL"
	seg := segWithSection("SKILLS", body)

	groups := ExtractSkills(seg, testVocab(), 20, 1)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"Go", "Python", "Kubernetes", "Docker", "Terraform", "SQL"}, groups[0].Skills)
}

// TestExtractSkillsCategorized 带冒号前缀的行按类别分组
func TestExtractSkillsCategorized(t *testing.T) {
	body := "Languages: Go, Python\nInfrastructure: Kubernetes, Terraform\nGit"
	seg := segWithSection("Technical Skills", body)

	groups := ExtractSkills(seg, testVocab(), 20, 1)

	require.Len(t, groups, 3)
	assert.Equal(t, "Languages", groups[0].Category)
	assert.Equal(t, []string{"Go", "Python"}, groups[0].Skills)
	assert.Equal(t, "Infrastructure", groups[1].Category)
	assert.Equal(t, "General", groups[2].Category, "无类别前缀的行归入默认组")
	assert.Equal(t, []string{"Git"}, groups[2].Skills)
}

// TestExtractSkillsDedupAndMinLength 去重不区分大小写，过短的碎片被丢弃
func TestExtractSkillsDedupAndMinLength(t *testing.T) {
	body := "Go, go, GO, C, Python, python"
	seg := segWithSection("SKILLS", body)

	groups := ExtractSkills(seg, testVocab(), 20, 1)

	require.Len(t, groups, 1)
	// "C"长度为1被丢弃；重复项保留首次出现的写法
	assert.Equal(t, []string{"Go", "Python"}, groups[0].Skills)
}

// TestExtractSkillsKeepsShortNames 默认配置下两字符技能名必须保留
func TestExtractSkillsKeepsShortNames(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	seg := segWithSection("SKILLS", "Python, Go, SQL, C#")
	groups := ExtractSkills(seg, testVocab(), cfg.Parser.MaxSkillsCount, cfg.Parser.MinSkillLength)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"Python", "Go", "SQL", "C#"}, groups[0].Skills)
}

// TestExtractSkillsCap 总数到达上限后按先遇先收丢弃其余
func TestExtractSkillsCap(t *testing.T) {
	var parts []string
	for i := 0; i < 30; i++ {
		parts = append(parts, "Skill"+strings.Repeat("x", i+1))
	}
	seg := segWithSection("SKILLS", strings.Join(parts, ", "))

	groups := ExtractSkills(seg, testVocab(), 20, 1)

	total := 0
	for _, g := range groups {
		total += len(g.Skills)
	}
	assert.Equal(t, 20, total, "技能总数不应超过上限")
	assert.Equal(t, "Skillx", groups[0].Skills[0], "应保留最先出现的技能")
}

// TestExtractSkillsNoSection 没有技能章节时返回空切片
func TestExtractSkillsNoSection(t *testing.T) {
	seg := segWithSection("SUMMARY", "一段总结")

	groups := ExtractSkills(seg, testVocab(), 20, 1)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
