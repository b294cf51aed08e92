package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// 三个及以上连续换行压缩为两个，保留段落结构
var excessNewlines = regexp.MustCompile(`\n{3,}`)

// Sanitize 清洗提取出的原始文本
// 规则：去除换行和制表符之外的不可打印字符；压缩多余空行；
// 超出maxLength（按rune计）时在最近的行边界截断，绝不截在多字节字符中间。
// 纯函数，任何输入都不报错；空或全空白输入返回空串。
func Sanitize(text string, maxLength int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	// 统一换行符，\r在下面的过滤中本来就会被丢弃，先转换避免行被粘连
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}
	text = b.String()

	text = excessNewlines.ReplaceAllString(text, "\n\n")

	if maxLength > 0 {
		text = truncateAtLineBoundary(text, maxLength)
	}

	return text
}

// truncateAtLineBoundary 将文本截断到不超过maxRunes个rune
// 截断点对齐到限制之前最近的换行；窗口内没有换行时退化为按rune截断
func truncateAtLineBoundary(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	window := string(runes[:maxRunes])
	if idx := strings.LastIndexByte(window, '\n'); idx >= 0 {
		return window[:idx]
	}
	return window
}
