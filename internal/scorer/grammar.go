package scorer

import (
	"context"
	"regexp"
	"strings"
)

// 语法检查的文本长度上限
const maxGrammarCheckLength = 50000

// 启发式规则集
// 不追求全面的语法分析，只覆盖简历里高频且机器可以可靠判定的问题
var (
	doubleSpacePattern  = regexp.MustCompile(`\S(  +)\S`)
	wordTokenPattern    = regexp.MustCompile(`\b\w+\b`)
	whitespaceOnly      = regexp.MustCompile(`^\s+$`)
	lonelyLowerIPattern = regexp.MustCompile(`(^|\s)i(\s|$|,|\.)`)
	spaceBeforePunct    = regexp.MustCompile(`\s+[,.;!?]`)
	multiPunctPattern   = regexp.MustCompile(`[!?]{2,}|\.{4,}`)
)

// HeuristicGrammarChecker 内置的启发式语法检查器
// 无外部依赖，检查结果确定可重现
type HeuristicGrammarChecker struct{}

// NewHeuristicGrammarChecker 创建启发式检查器
func NewHeuristicGrammarChecker() *HeuristicGrammarChecker {
	return &HeuristicGrammarChecker{}
}

// Check 扫描文本并返回语法问题，最多maxIssues条
func (c *HeuristicGrammarChecker) Check(ctx context.Context, text string, maxIssues int) []GrammarIssue {
	if strings.TrimSpace(text) == "" {
		return []GrammarIssue{}
	}
	if runes := []rune(text); len(runes) > maxGrammarCheckLength {
		text = string(runes[:maxGrammarCheckLength])
	}

	issues := []GrammarIssue{}
	add := func(issue GrammarIssue) bool {
		issues = append(issues, issue)
		return len(issues) >= maxIssues
	}

	for _, loc := range doubleSpacePattern.FindAllStringIndex(text, maxIssues) {
		if ctx.Err() != nil {
			return issues
		}
		if add(GrammarIssue{
			Text:     snippet(text, loc[0]),
			Message:  "连续多个空格",
			Category: "whitespace",
			Offset:   runeOffset(text, loc[0]),
		}) {
			return issues
		}
	}

	// 正则不支持回溯引用，按词元逐对比较
	tokens := wordTokenPattern.FindAllStringIndex(text, -1)
	for i := 1; i < len(tokens); i++ {
		if ctx.Err() != nil {
			return issues
		}
		prev, cur := tokens[i-1], tokens[i]
		// 两个词之间只能是空白，跨标点的同词不算重复
		if !whitespaceOnly.MatchString(text[prev[1]:cur[0]]) {
			continue
		}
		w1 := strings.ToLower(text[prev[0]:prev[1]])
		w2 := strings.ToLower(text[cur[0]:cur[1]])
		if w1 != w2 || len(w1) < 2 {
			continue
		}
		if add(GrammarIssue{
			Text:        snippet(text, prev[0]),
			Message:     "重复的单词: " + w1,
			Suggestions: []string{text[prev[0]:prev[1]]},
			Category:    "repetition",
			Offset:      runeOffset(text, prev[0]),
		}) {
			return issues
		}
	}

	for _, loc := range lonelyLowerIPattern.FindAllStringIndex(text, maxIssues) {
		if add(GrammarIssue{
			Text:        snippet(text, loc[0]),
			Message:     "人称代词I应大写",
			Suggestions: []string{"I"},
			Category:    "casing",
			Offset:      runeOffset(text, loc[0]),
		}) {
			return issues
		}
	}

	for _, loc := range spaceBeforePunct.FindAllStringIndex(text, maxIssues) {
		if add(GrammarIssue{
			Text:     snippet(text, loc[0]),
			Message:  "标点前不应有空格",
			Category: "punctuation",
			Offset:   runeOffset(text, loc[0]),
		}) {
			return issues
		}
	}

	for _, loc := range multiPunctPattern.FindAllStringIndex(text, maxIssues) {
		if add(GrammarIssue{
			Text:     snippet(text, loc[0]),
			Message:  "重复的标点符号",
			Category: "punctuation",
			Offset:   runeOffset(text, loc[0]),
		}) {
			return issues
		}
	}

	return issues
}

// snippet 取问题位置附近的一小段上下文
func snippet(text string, byteOffset int) string {
	start := byteOffset - 20
	if start < 0 {
		start = 0
	}
	end := byteOffset + 20
	if end > len(text) {
		end = len(text)
	}
	// 对齐到合法的UTF-8边界
	for start > 0 && !utf8Start(text[start]) {
		start--
	}
	for end < len(text) && !utf8Start(text[end]) {
		end++
	}
	return strings.TrimSpace(strings.ReplaceAll(text[start:end], "\n", " "))
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}

// runeOffset 把字节偏移换算为rune偏移
func runeOffset(text string, byteOffset int) int {
	return len([]rune(text[:byteOffset]))
}
