package parser

import (
	"regexp"
	"strings"

	"resume-refine-go/internal/types"
)

// 技能分隔符：逗号、分号、项目符号、间隔点、竖线
var skillDelimiter = regexp.MustCompile(`[,;•·|]`)

// ExtractSkills 提取技能清单
// 行内出现"类别: 内容"时按类别分组，否则归入默认组。
// 去重不区分大小写但保留首次出现的写法；总数到达上限后
// 按先遇先收原则丢弃其余。
func ExtractSkills(seg SegmentResult, vocab map[string][]string, maxSkills, minSkillLen int) []types.SkillGroup {
	var body string
	for _, sec := range seg.Sections {
		if sectionMatchesField(sec.Title, vocab, "skills") {
			body = sec.Body
			break
		}
	}
	if body == "" {
		return []types.SkillGroup{}
	}

	groups := []types.SkillGroup{}
	groupIdx := map[string]int{}
	seen := map[string]bool{}
	total := 0

	addSkill := func(category, raw string) {
		if total >= maxSkills {
			return
		}
		s := strings.Trim(strings.TrimSpace(raw), ".-–—*")
		if len([]rune(s)) <= minSkillLen {
			return
		}
		key := strings.ToLower(s)
		if seen[key] {
			return
		}
		seen[key] = true

		idx, ok := groupIdx[category]
		if !ok {
			groups = append(groups, types.SkillGroup{Category: category, Skills: []string{}})
			idx = len(groups) - 1
			groupIdx[category] = idx
		}
		groups[idx].Skills = append(groups[idx].Skills, s)
		total++
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		category := "General"
		// "类别: a, b, c" 形式的行，冒号前不宜过长，过长说明是普通句子
		if idx := strings.Index(line, ":"); idx > 0 && idx < 40 {
			category = strings.Trim(strings.TrimSpace(line[:idx]), "•-–—* ")
			line = line[idx+1:]
		}
		for _, part := range skillDelimiter.Split(line, -1) {
			addSkill(category, part)
		}
	}

	// 过滤没收到任何技能的空组
	out := groups[:0]
	for _, g := range groups {
		if len(g.Skills) > 0 {
			out = append(out, g)
		}
	}
	return out
}
