package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSanitizeRemovesNonPrintable 验证不可打印字符被去除，换行和制表符保留
func TestSanitizeRemovesNonPrintable(t *testing.T) {
	input := "John\x00Doe\x07\nEngineer\tBackend\x1b[0m"
	got := Sanitize(input, 0)

	assert.NotContains(t, got, "\x00", "NUL字符应被去除")
	assert.NotContains(t, got, "\x07", "响铃字符应被去除")
	assert.NotContains(t, got, "\x1b", "转义字符应被去除")
	assert.Contains(t, got, "\n", "换行应保留")
	assert.Contains(t, got, "\t", "制表符应保留")
}

// TestSanitizeCollapsesNewlines 验证三个及以上连续换行被压缩为两个
func TestSanitizeCollapsesNewlines(t *testing.T) {
	input := "第一段\n\n\n\n\n第二段\n\n第三段"
	got := Sanitize(input, 0)

	assert.Equal(t, "第一段\n\n第二段\n\n第三段", got, "多余空行应被压缩且段落结构保留")
}

// TestSanitizeEmptyInput 验证空输入和全空白输入返回空串
func TestSanitizeEmptyInput(t *testing.T) {
	assert.Equal(t, "", Sanitize("", 1000))
	assert.Equal(t, "", Sanitize("   \n\t  \n ", 1000))
}

// TestSanitizeTruncatesAtLineBoundary 验证超长输入在行边界截断
func TestSanitizeTruncatesAtLineBoundary(t *testing.T) {
	// 1. 构造多行文本，限制落在第三行中间
	line := strings.Repeat("a", 40)
	input := line + "\n" + line + "\n" + line + "\n" + line

	got := Sanitize(input, 100)

	// 2. 截断点应是限制之前最近的换行，前两行完整保留
	require.LessOrEqual(t, len([]rune(got)), 100, "输出不应超过rune上限")
	assert.Equal(t, line+"\n"+line, got, "应在行边界截断")
}

// TestSanitizeTruncatesWithoutNewline 窗口内没有换行时退化为按rune硬截
func TestSanitizeTruncatesWithoutNewline(t *testing.T) {
	input := strings.Repeat("简", 200)
	got := Sanitize(input, 50)

	assert.Equal(t, 50, len([]rune(got)), "无行边界时按rune截断")
	assert.Equal(t, strings.Repeat("简", 50), got, "不应截在多字节字符中间")
}

// TestSanitizeIdempotent 验证幂等性：清洗两次与清洗一次结果相同
func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"John Doe\r\nEngineer\r\n\r\n\r\nSummary\x00 text",
		strings.Repeat("line\n", 1000),
		"简历\n\n\n内容\ttab\x07",
	}
	for _, input := range inputs {
		once := Sanitize(input, 2000)
		twice := Sanitize(once, 2000)
		assert.Equal(t, once, twice, "Sanitize应满足幂等性")
	}
}

// TestSanitizeNormalizesCRLF 验证Windows换行被统一，不会把相邻行粘连
func TestSanitizeNormalizesCRLF(t *testing.T) {
	got := Sanitize("第一行\r\n第二行\r第三行", 0)
	assert.Equal(t, "第一行\n第二行\n第三行", got, "CR与CRLF都应转换为LF")
}
