package parser

import (
	"regexp"
	"strings"

	"resume-refine-go/internal/types"
)

// 职位条目头的分隔符与日期范围模式
var (
	dateRangePattern = regexp.MustCompile(`(?i)((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{4}|\d{1,2}/\d{4}|\d{4})\s*[-–—]\s*((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{4}|\d{1,2}/\d{4}|\d{4}|Present|Current|Now)`)
	bulletPrefixes   = []string{"•", "-", "*"}
	dashDelimiters   = []string{" - ", " – ", " — "}
)

// ExtractExperience 提取工作经历
// 条目头的判定规则：含竖线分隔，或者两侧都有文字的破折号分隔；
// 以项目符号开头的行先按要点处理，避免"- 负责xx"这类要点被误认为破折号条目头。
// 没有任何要点的条目也保留：头部信息本身（公司、职位、日期）就有价值。
func ExtractExperience(seg SegmentResult, vocab map[string][]string, budget *matchBudget, maxEntries, maxDescLen int) []types.ExperienceItem {
	var body string
	for _, sec := range seg.Sections {
		if sectionMatchesField(sec.Title, vocab, "experience") {
			body = sec.Body
			break
		}
	}
	if body == "" {
		return []types.ExperienceItem{}
	}

	entries := []types.ExperienceItem{}
	var cur *types.ExperienceItem

	flush := func() {
		if cur != nil && len(entries) < maxEntries {
			entries = append(entries, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(body, "\n") {
		if budget.exhausted() {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// 要点判定优先于条目头判定
		if bullet, ok := stripBulletPrefix(line); ok {
			if cur != nil && bullet != "" {
				cur.Bullets = append(cur.Bullets, capLength(bullet, maxDescLen))
			}
			continue
		}

		if company, title, ok := splitJobHeader(line); ok {
			flush()
			cur = &types.ExperienceItem{Title: title, Company: company, Bullets: []string{}}
			if start, end, ok := matchDateRange(line); ok {
				cur.StartDate, cur.EndDate = start, end
			}
			continue
		}

		if cur != nil {
			// 独立的日期行或地点行附着到当前条目
			if start, end, ok := matchDateRange(line); ok {
				if cur.StartDate == "" {
					cur.StartDate, cur.EndDate = start, end
				}
				continue
			}
			cur.Bullets = append(cur.Bullets, capLength(line, maxDescLen))
		}
	}
	flush()

	return entries
}

// stripBulletPrefix 去掉行首的项目符号，返回要点正文
func stripBulletPrefix(line string) (string, bool) {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return strings.TrimSpace(strings.TrimPrefix(line, p)), true
		}
	}
	return "", false
}

// splitJobHeader 拆分条目头为公司与职位
// 竖线优先；其次是两侧紧邻文字的破折号。顺序约定为"职位 分隔符 公司"，
// 这是北美简历的主流写法，反序写法无法在无监督条件下区分，接受其误差。
func splitJobHeader(line string) (company, title string, ok bool) {
	// 先剥离日期部分，避免日期范围里的"-"干扰判定
	headPart := strings.TrimSpace(dateRangePattern.ReplaceAllString(line, ""))
	headPart = strings.Trim(headPart, "|–—- \t")

	if strings.Contains(headPart, "|") {
		parts := strings.SplitN(headPart, "|", 2)
		return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[0]), true
	}
	for _, d := range dashDelimiters {
		idx := strings.Index(headPart, d)
		if idx <= 0 {
			continue
		}
		left := strings.TrimSpace(headPart[:idx])
		right := strings.TrimSpace(headPart[idx+len(d):])
		if left != "" && right != "" {
			return right, left, true
		}
	}
	return "", "", false
}

func matchDateRange(line string) (start, end string, ok bool) {
	m := dateRangePattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// capLength 按rune截断到上限
func capLength(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
