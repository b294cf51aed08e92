package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-refine-go/internal/types"
)

func segWithSection(title, body string) SegmentResult {
	return SegmentResult{
		Sections: []types.Section{{Title: title, Body: body}},
	}
}

// TestExtractSummaryFromSection 验证从summary类章节提取总结
func TestExtractSummaryFromSection(t *testing.T) {
	body := "Experienced backend engineer with a decade of work on distributed systems."
	seg := segWithSection("Professional Summary", body)

	got := ExtractSummary(seg, testVocab(), 10, 1000)
	assert.Equal(t, body, got)
}

// TestExtractSummaryTruncatesLongCandidate 超长候选截断而不是丢弃
func TestExtractSummaryTruncatesLongCandidate(t *testing.T) {
	body := strings.Repeat("word ", 300)
	seg := segWithSection("Summary", body)

	got := ExtractSummary(seg, testVocab(), 10, 100)

	assert.NotEmpty(t, got, "超长总结应截断保留而不是丢弃")
	assert.LessOrEqual(t, len([]rune(got)), 100)
	assert.False(t, strings.HasSuffix(got, " "), "截断应落在词边界并去掉尾随空格")
}

// TestExtractSummaryRejectsShortCandidate 低于下限的候选视为噪声
func TestExtractSummaryRejectsShortCandidate(t *testing.T) {
	seg := segWithSection("Summary", "太短")

	got := ExtractSummary(seg, testVocab(), 50, 1000)
	assert.Empty(t, got, "低于长度下限的候选应放弃")
}

// TestExtractSummaryPreambleFallback 没有summary章节时回退到序言段落
func TestExtractSummaryPreambleFallback(t *testing.T) {
	seg := SegmentResult{
		Preamble: "John Doe\njohn@example.com\nSeasoned platform engineer who has led multiple teams building large scale infrastructure.\n",
		Sections: []types.Section{{Title: "EXPERIENCE", Body: "Dev | Acme"}},
	}

	got := ExtractSummary(seg, testVocab(), 20, 1000)

	assert.Contains(t, got, "Seasoned platform engineer", "应从序言中找到自我介绍段落")
	assert.NotContains(t, got, "john@example.com", "联系方式行不属于总结")
	assert.NotContains(t, got, "John Doe", "姓名行不属于总结")
}

// TestExtractSummaryShortSectionFallsBackToPreamble 章节正文过短时回退到序言
func TestExtractSummaryShortSectionFallsBackToPreamble(t *testing.T) {
	seg := SegmentResult{
		Preamble: "John Doe\nSeasoned platform engineer who has led multiple teams building large scale infrastructure.\n",
		Sections: []types.Section{{Title: "Summary", Body: "太短"}},
	}

	got := ExtractSummary(seg, testVocab(), 20, 1000)
	assert.Contains(t, got, "Seasoned platform engineer", "过短的章节正文应回退到序言候选")
}

// TestExtractSummaryNoCandidate 既无章节又无可用序言时返回空
func TestExtractSummaryNoCandidate(t *testing.T) {
	seg := SegmentResult{
		Preamble: "John Doe\n555-123-4567\n",
		Sections: []types.Section{{Title: "SKILLS", Body: "Go"}},
	}

	got := ExtractSummary(seg, testVocab(), 20, 1000)
	assert.Empty(t, got)
}
