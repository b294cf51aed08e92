package parser

import (
	"regexp"
	"strings"

	"resume-refine-go/internal/types"
)

// 学历条目识别的模式
var (
	// 短缩写(bs/ms/ba/ma)要求词边界，避免命中普通单词；
	// 带点缩写(B.S.等)单独一支，结尾的点本身就是分隔，不能再接\b
	degreePattern = regexp.MustCompile(`(?i)(\b(?:bachelor(?:'s)?|master(?:'s)?|doctorate|associate(?:'s)?|mba|phd|bs|ms|ba|ma)\b|\b(?:b\.s\.|m\.s\.|b\.a\.|m\.a\.|ph\.d\.?))`)
	gpaPattern    = regexp.MustCompile(`(?i)\bGPA[:\s]*([0-4]\.\d{1,2})\b`)
	yearPattern   = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// ExtractEducation 提取教育经历
// 含学位关键词的行开启一个条目，紧随其后的第一个非空且非学位行视为学校名。
// 这两行的约定顺序（学位在前、学校在后）与主流简历模板一致，
// 反向排版的简历会丢失学校名，不视为错误。
func ExtractEducation(seg SegmentResult, vocab map[string][]string, maxEntries int) []types.EducationItem {
	var body string
	for _, sec := range seg.Sections {
		if sectionMatchesField(sec.Title, vocab, "education") {
			body = sec.Body
			break
		}
	}
	if body == "" {
		return []types.EducationItem{}
	}

	entries := []types.EducationItem{}
	var cur *types.EducationItem

	flush := func() {
		if cur != nil && len(entries) < maxEntries {
			entries = append(entries, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := degreePattern.FindString(line); m != "" {
			flush()
			cur = &types.EducationItem{}
			cur.Degree, cur.Field = splitDegreeLine(line, m)
			attachEducationMeta(cur, line)
			continue
		}

		if cur == nil {
			continue
		}
		if cur.Institution == "" {
			cur.Institution = stripEducationMeta(line)
			attachEducationMeta(cur, line)
			continue
		}
		// 学校名之后的行只用来补齐日期和GPA
		attachEducationMeta(cur, line)
	}
	flush()

	return entries
}

// splitDegreeLine 把学位行拆成学位与专业
// "B.S. in Computer Science" -> ("B.S.", "Computer Science")
// "Master of Science, Data Engineering" -> ("Master of Science", "Data Engineering")
func splitDegreeLine(line, keyword string) (degree, field string) {
	// 去掉日期和GPA噪声后再拆
	clean := yearPattern.ReplaceAllString(line, "")
	clean = gpaPattern.ReplaceAllString(clean, "")
	clean = strings.Trim(clean, " ,|–—-\t")

	lower := strings.ToLower(clean)
	if idx := strings.Index(lower, " in "); idx > 0 {
		return strings.TrimSpace(clean[:idx]), strings.TrimSpace(clean[idx+4:])
	}
	if idx := strings.Index(clean, ","); idx > 0 {
		return strings.TrimSpace(clean[:idx]), strings.TrimSpace(clean[idx+1:])
	}

	// "B.S. Computer Science"：关键词之后的剩余部分即专业
	kwIdx := strings.Index(lower, strings.ToLower(keyword))
	rest := strings.TrimSpace(clean[kwIdx+len(keyword):])
	head := strings.TrimSpace(clean[:kwIdx+len(keyword)])
	if rest == "" {
		return clean, ""
	}
	return head, rest
}

// attachEducationMeta 从行中补齐条目的日期与GPA，不覆盖已有值
func attachEducationMeta(item *types.EducationItem, line string) {
	if item.GPA == "" {
		if m := gpaPattern.FindStringSubmatch(line); m != nil {
			item.GPA = m[1]
		}
	}
	if item.EndDate == "" {
		if start, end, ok := matchDateRange(line); ok {
			item.StartDate, item.EndDate = start, end
		} else if y := yearPattern.FindString(line); y != "" {
			item.EndDate = y
		}
	}
}

// stripEducationMeta 去掉行内的日期与GPA，留下干净的学校名
func stripEducationMeta(line string) string {
	clean := gpaPattern.ReplaceAllString(line, "")
	clean = dateRangePattern.ReplaceAllString(clean, "")
	clean = yearPattern.ReplaceAllString(clean, "")
	return strings.Trim(clean, " ,|–—-\t")
}
