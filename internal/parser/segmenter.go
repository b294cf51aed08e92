package parser

import (
	"strings"

	"resume-refine-go/internal/types"
)

// 分段器的状态机状态
type segmentState int

const (
	// 尚未遇到任何识别的章节标题
	stateOutsideSection segmentState = iota
	// 正在累积当前章节的正文
	stateInsideSection
)

// maxHeaderWords 候选标题的最大词数，超过视为普通句子
const maxHeaderWords = 4

// SegmentResult 分段结果
// Preamble是第一个识别标题之前的文本，不属于任何Section，
// 保留给联系方式提取和无标题摘要回退使用
type SegmentResult struct {
	Sections []types.Section
	Preamble string
}

// SegmentSections 将清洗后的文本切分为(标题,正文)章节序列
// 以显式状态机逐行推进：一行被判定为标题时关闭当前章节并开启新章节，
// 否则并入当前章节正文。章节互不重叠且按文档顺序排列，
// 偏移量为清洗文本中的字节位置。
// 没有识别到任何标题时返回单个隐式章节（空标题、覆盖全文），
// 保证下游提取器总有章节可以回退。
func SegmentSections(text string, vocab map[string][]string, budget *matchBudget) SegmentResult {
	if text == "" {
		return SegmentResult{Sections: []types.Section{}}
	}

	terms := flattenVocabulary(vocab)

	var sections []types.Section
	state := stateOutsideSection

	// 当前章节的标题行信息
	var curTitle string
	var curStart int  // 标题行起始偏移
	var curBodyAt int // 正文起始偏移（标题行换行符之后）

	closeCurrent := func(end int) {
		body := ""
		if curBodyAt < end {
			body = text[curBodyAt:end]
		}
		sections = append(sections, types.Section{
			Title:       curTitle,
			Body:        body,
			StartOffset: curStart,
			EndOffset:   end,
		})
	}

	offset := 0
	for offset <= len(text) {
		lineEnd := strings.IndexByte(text[offset:], '\n')
		var next int
		var line string
		if lineEnd < 0 {
			line = text[offset:]
			next = len(text) + 1 // 循环终止
		} else {
			line = text[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		}

		// 预算耗尽后剩余行一律按非标题处理，分段继续而不是中断
		if !budget.exhausted() {
			if title, ok := classifyHeaderLine(line, terms); ok {
				if state == stateInsideSection {
					closeCurrent(offset)
				}
				state = stateInsideSection
				curTitle = title
				curStart = offset
				curBodyAt = next
				if curBodyAt > len(text) {
					curBodyAt = len(text)
				}
				if lineEnd < 0 {
					break
				}
				offset = next
				continue
			}
		}

		if lineEnd < 0 {
			break
		}
		offset = next
	}

	if state == stateInsideSection {
		closeCurrent(len(text))
	}

	if len(sections) == 0 {
		// 没有任何识别的标题：整个文档作为一个隐式章节
		return SegmentResult{
			Sections: []types.Section{{
				Title:       "",
				Body:        text,
				StartOffset: 0,
				EndOffset:   len(text),
			}},
			Preamble: text,
		}
	}

	return SegmentResult{
		Sections: sections,
		Preamble: text[:sections[0].StartOffset],
	}
}

// vocabTerm 词表项，记录词条与其所属字段类型
type vocabTerm struct {
	term  string
	field string
}

// flattenVocabulary 展平词表并按词条长度降序排列
// 一行命中多个词条时最长者优先（最具体的分类胜出）
func flattenVocabulary(vocab map[string][]string) []vocabTerm {
	var terms []vocabTerm
	for field, list := range vocab {
		for _, t := range list {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			terms = append(terms, vocabTerm{term: t, field: field})
		}
	}
	// 插入排序足够：词表在配置加载时构建一次，规模很小
	for i := 1; i < len(terms); i++ {
		for j := i; j > 0 && len(terms[j].term) > len(terms[j-1].term); j-- {
			terms[j], terms[j-1] = terms[j-1], terms[j]
		}
	}
	return terms
}

// classifyHeaderLine 判定一行是否为章节标题
// 条件：小写形式包含词表词条，词数不超过maxHeaderWords，
// 且不以句号结尾（排除恰好提到词条的说明性句子）
func classifyHeaderLine(line string, terms []vocabTerm) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	if strings.HasSuffix(trimmed, ".") {
		return "", false
	}
	if len(strings.Fields(trimmed)) > maxHeaderWords {
		return "", false
	}

	lower := strings.ToLower(trimmed)
	// terms按长度降序，第一个命中即最长命中
	for _, t := range terms {
		if strings.Contains(lower, t.term) {
			return trimmed, true
		}
	}
	return "", false
}

// sectionMatchesField 章节标题是否属于某一字段类型的词表
// 同样遵循最长词条优先：标题命中的最长词条决定其归属
func sectionMatchesField(title string, vocab map[string][]string, field string) bool {
	lower := strings.ToLower(strings.TrimSpace(title))
	if lower == "" {
		return false
	}
	bestField := ""
	bestLen := 0
	for f, list := range vocab {
		for _, t := range list {
			t = strings.ToLower(t)
			if len(t) > bestLen && strings.Contains(lower, t) {
				bestField = f
				bestLen = len(t)
			}
		}
	}
	return bestField == field
}
