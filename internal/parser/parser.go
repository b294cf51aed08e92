package parser

import (
	"context"
	"sync"

	"resume-refine-go/internal/config"
	"resume-refine-go/internal/logger"
	"resume-refine-go/internal/types"
)

// Parser 启发式简历结构化引擎
// 无内部可变状态，单个实例可被任意多个goroutine并发使用
type Parser struct {
	cfg   *config.ParserConfig
	vocab map[string][]string
}

// NewParser 创建解析器
// cfg在进程启动时已通过校验，这里不再重复检查
func NewParser(cfg *config.ParserConfig) *Parser {
	vocab := cfg.SectionHeaderVocabulary
	if len(vocab) == 0 {
		vocab = config.DefaultSectionHeaderVocabulary()
	}
	return &Parser{cfg: cfg, vocab: vocab}
}

// Parse 把原始文档文本结构化为简历内容
// 永不失败：提取不到的字段表现为零值，不表现为错误。
// 清洗和分段串行执行（后者依赖前者的产出），五个字段提取器并发执行，
// 各自写入结果的不同字段，互不共享可变数据。
func (p *Parser) Parse(ctx context.Context, doc types.RawDocument) *types.ResumeContent {
	sanitized := Sanitize(doc.Text, p.cfg.MaxRawTextLength)
	if sanitized == "" {
		return types.NewResumeContent("")
	}

	seg := SegmentSections(sanitized, p.vocab, newMatchBudget(ctx, p.cfg.RegexTimeout()))

	result := types.NewResumeContent(sanitized)
	result.Sections = seg.Sections

	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		result.ContactInfo = ExtractContact(sanitized, p.cfg.MaxTextForContactExtraction)
	}()
	go func() {
		defer wg.Done()
		result.Summary = ExtractSummary(seg, p.vocab, p.cfg.MinSummaryLength, p.cfg.MaxSummaryLength)
	}()
	go func() {
		defer wg.Done()
		budget := newMatchBudget(ctx, p.cfg.RegexTimeout())
		result.Experience = ExtractExperience(seg, p.vocab, budget,
			p.cfg.MaxExperienceEntries, p.cfg.MaxExperienceDescriptionLength)
	}()
	go func() {
		defer wg.Done()
		result.Education = ExtractEducation(seg, p.vocab, p.cfg.MaxEducationEntries)
	}()
	go func() {
		defer wg.Done()
		result.Skills = ExtractSkills(seg, p.vocab, p.cfg.MaxSkillsCount, p.cfg.MinSkillLength)
	}()

	wg.Wait()

	logger.Ctx(ctx).Debug().
		Str("source_format", string(doc.SourceFormat)).
		Int("sections", len(result.Sections)).
		Int("experience_entries", len(result.Experience)).
		Int("education_entries", len(result.Education)).
		Int("skill_groups", len(result.Skills)).
		Bool("has_contact", !result.ContactInfo.IsEmpty()).
		Msg("简历结构化完成")

	return result
}
