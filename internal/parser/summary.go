package parser

import (
	"strings"
)

// ExtractSummary 提取个人总结
// 优先取summary类章节的正文；章节缺失或正文过短时，回退到首个标题之前的
// 序言段落（很多简历把自我介绍直接写在姓名和联系方式下方，不加标题）。
// 长度超过maxLen时截断而不是丢弃，所有候选都低于minLen时返回空。
func ExtractSummary(seg SegmentResult, vocab map[string][]string, minLen, maxLen int) string {
	var candidate string
	for _, sec := range seg.Sections {
		if sectionMatchesField(sec.Title, vocab, "summary") {
			candidate = strings.TrimSpace(sec.Body)
			break
		}
	}

	if len([]rune(candidate)) < minLen {
		candidate = preambleSummary(seg.Preamble)
	}

	runes := []rune(candidate)
	if len(runes) < minLen {
		return ""
	}
	if len(runes) > maxLen {
		return truncateAtWordBoundary(runes, maxLen)
	}
	return candidate
}

// preambleSummary 从序言中找总结候选
// 跳过姓名行和联系方式行（含@、linkedin或以数字为主的行），
// 取剩余的第一段连续文本
func preambleSummary(preamble string) string {
	var kept []string
	for _, line := range strings.Split(preamble, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(kept) > 0 {
				break
			}
			continue
		}
		if looksLikeContactLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}

func looksLikeContactLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "@") || strings.Contains(lower, "linkedin.com") || strings.Contains(lower, "http") {
		return true
	}
	// 短行（如姓名、城市）或数字占比高的行（电话）都不是总结内容
	if len(strings.Fields(line)) < 4 {
		return true
	}
	digits := 0
	for _, r := range line {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits*3 > len(line)
}

// truncateAtWordBoundary 在maxRunes内的最后一个空格处截断
// 找不到空格时硬截
func truncateAtWordBoundary(runes []rune, maxRunes int) string {
	cut := runes[:maxRunes]
	for i := maxRunes - 1; i > 0; i-- {
		if cut[i] == ' ' {
			return strings.TrimSpace(string(cut[:i]))
		}
	}
	return string(cut)
}
