package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractExperiencePipeHeader 验证竖线分隔的条目头与要点提取
func TestExtractExperiencePipeHeader(t *testing.T) {
	body := "Senior Engineer | Acme Corp\nJan 2020 - Present\n• 设计核心支付链路\n• 把接口延迟降低40%\n\nBackend Developer | Widget Inc\n2017 - 2020\n* 维护订单服务"
	seg := segWithSection("EXPERIENCE", body)

	items := ExtractExperience(seg, testVocab(), testBudget(), 20, 500)

	require.Len(t, items, 2, "应识别两个条目")

	assert.Equal(t, "Senior Engineer", items[0].Title)
	assert.Equal(t, "Acme Corp", items[0].Company)
	assert.Equal(t, "Jan 2020", items[0].StartDate)
	assert.Equal(t, "Present", items[0].EndDate)
	require.Len(t, items[0].Bullets, 2)
	assert.Equal(t, "设计核心支付链路", items[0].Bullets[0])

	assert.Equal(t, "Backend Developer", items[1].Title)
	assert.Equal(t, "Widget Inc", items[1].Company)
	assert.Equal(t, "2017", items[1].StartDate)
	assert.Equal(t, "2020", items[1].EndDate)
	require.Len(t, items[1].Bullets, 1)
}

// TestExtractExperienceDashHeader 两侧有文字的破折号也构成条目头
func TestExtractExperienceDashHeader(t *testing.T) {
	body := "Staff Engineer - Initech\n• 负责平台架构"
	seg := segWithSection("Work Experience", body)

	items := ExtractExperience(seg, testVocab(), testBudget(), 20, 500)

	require.Len(t, items, 1)
	assert.Equal(t, "Staff Engineer", items[0].Title)
	assert.Equal(t, "Initech", items[0].Company)
}

// TestExtractExperienceBulletNotHeader 以"-"开头的要点不应被当作破折号条目头
func TestExtractExperienceBulletNotHeader(t *testing.T) {
	body := "Engineer | Acme\n- 优化查询性能 - 将耗时减半\n- 搭建监控体系"
	seg := segWithSection("EXPERIENCE", body)

	items := ExtractExperience(seg, testVocab(), testBudget(), 20, 500)

	require.Len(t, items, 1, "要点判定应优先于条目头判定")
	assert.Len(t, items[0].Bullets, 2)
}

// TestExtractExperienceBulletless 没有任何要点的条目仍应保留
func TestExtractExperienceBulletless(t *testing.T) {
	body := "Intern | Startup LLC\n\nEngineer | Acme Corp\n• 做了一些事"
	seg := segWithSection("EXPERIENCE", body)

	items := ExtractExperience(seg, testVocab(), testBudget(), 20, 500)

	require.Len(t, items, 2)
	assert.Equal(t, "Startup LLC", items[0].Company)
	assert.Empty(t, items[0].Bullets, "无要点条目的Bullets应为空切片")
	assert.NotNil(t, items[0].Bullets)
}

// TestExtractExperienceBulletCap 单条要点超长时按上限截断
func TestExtractExperienceBulletCap(t *testing.T) {
	long := strings.Repeat("描述", 400)
	body := "Engineer | Acme\n• " + long
	seg := segWithSection("EXPERIENCE", body)

	items := ExtractExperience(seg, testVocab(), testBudget(), 20, 500)

	require.Len(t, items, 1)
	require.Len(t, items[0].Bullets, 1)
	assert.Equal(t, 500, len([]rune(items[0].Bullets[0])), "要点应截断到rune上限")
}

// TestExtractExperienceEntryCap 条目数到达上限后丢弃其余
func TestExtractExperienceEntryCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "Engineer %c | Company %c\n• 条目要点\n\n", 'A'+i%26, 'A'+i%26)
	}
	seg := segWithSection("EXPERIENCE", b.String())

	items := ExtractExperience(seg, testVocab(), testBudget(), 20, 500)
	assert.Len(t, items, 20, "条目数不应超过上限")
}

// TestExtractExperienceNoSection 没有经历章节时返回空切片
func TestExtractExperienceNoSection(t *testing.T) {
	seg := segWithSection("SKILLS", "Go, Python")

	items := ExtractExperience(seg, testVocab(), testBudget(), 20, 500)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
