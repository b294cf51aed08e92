package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractEducationStandard 验证"学位行+学校行"的典型排版
func TestExtractEducationStandard(t *testing.T) {
	body := "B.S. in Computer Science\nState University\n2014 - 2018\nGPA: 3.8"
	seg := segWithSection("EDUCATION", body)

	items := ExtractEducation(seg, testVocab(), 10)

	require.Len(t, items, 1)
	assert.Equal(t, "B.S.", items[0].Degree)
	assert.Equal(t, "Computer Science", items[0].Field)
	assert.Equal(t, "State University", items[0].Institution)
	assert.Equal(t, "2014", items[0].StartDate)
	assert.Equal(t, "2018", items[0].EndDate)
	assert.Equal(t, "3.8", items[0].GPA)
}

// TestExtractEducationMultipleEntries 多条学历按学位关键词行切分
func TestExtractEducationMultipleEntries(t *testing.T) {
	body := "Master of Science, Data Engineering\nTech Institute\n2020\n\nBachelor of Arts in Economics\nLiberal College\n2016"
	seg := segWithSection("Education", body)

	items := ExtractEducation(seg, testVocab(), 10)

	require.Len(t, items, 2)
	assert.Equal(t, "Master of Science", items[0].Degree)
	assert.Equal(t, "Data Engineering", items[0].Field)
	assert.Equal(t, "Tech Institute", items[0].Institution)
	assert.Equal(t, "2020", items[0].EndDate)

	assert.Equal(t, "Bachelor of Arts", items[1].Degree)
	assert.Equal(t, "Economics", items[1].Field)
	assert.Equal(t, "Liberal College", items[1].Institution)
}

// TestExtractEducationInlineMeta 学位行内联日期与GPA也应被提取
func TestExtractEducationInlineMeta(t *testing.T) {
	body := "MBA, Business Administration 2019 GPA: 3.5\nBusiness School"
	seg := segWithSection("EDUCATION", body)

	items := ExtractEducation(seg, testVocab(), 10)

	require.Len(t, items, 1)
	assert.Equal(t, "MBA", items[0].Degree)
	assert.Equal(t, "2019", items[0].EndDate)
	assert.Equal(t, "3.5", items[0].GPA)
	assert.Equal(t, "Business School", items[0].Institution)
}

// TestExtractEducationNoDegreeLine 章节里没有学位关键词时不产生条目
func TestExtractEducationNoDegreeLine(t *testing.T) {
	body := "一些与学历无关的文字\n另一行"
	seg := segWithSection("EDUCATION", body)

	items := ExtractEducation(seg, testVocab(), 10)
	assert.NotNil(t, items)
	assert.Empty(t, items, "学校行缺少学位行前导时应被忽略")
}

// TestExtractEducationShortAbbrevBoundary 短缩写要求词边界，普通单词不应误命中
func TestExtractEducationShortAbbrevBoundary(t *testing.T) {
	// "basketball"含"ba"但不是词边界命中
	body := "Played basketball for the university club\nSome other line"
	seg := segWithSection("EDUCATION", body)

	items := ExtractEducation(seg, testVocab(), 10)
	assert.Empty(t, items, "单词内部的缩写片段不应触发条目")
}

// TestExtractEducationEntryCap 条目数到达上限后丢弃其余
func TestExtractEducationEntryCap(t *testing.T) {
	body := ""
	for i := 0; i < 15; i++ {
		body += "Bachelor of Science in Physics\nSome University\n\n"
	}
	seg := segWithSection("EDUCATION", body)

	items := ExtractEducation(seg, testVocab(), 10)
	assert.Len(t, items, 10)
}
