package suggester

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"

	"resume-refine-go/internal/config"
	"resume-refine-go/internal/logger"
	"resume-refine-go/internal/types"
)

// ContentSuggestion 针对某一章节的改写建议
type ContentSuggestion struct {
	Section       string `json:"section"`
	OriginalText  string `json:"original_text"`
	SuggestedText string `json:"suggested_text"`
	Explanation   string `json:"explanation"`
	Impact        string `json:"impact"` // high / medium / low
}

const systemPrompt = "你是一位专业的简历优化顾问。你会收到一份结构化的简历内容，" +
	"请针对其中表达薄弱的部分给出具体的改写建议。只输出JSON，不要输出任何其他文字。"

const userPromptTemplate = `请分析以下简历内容，对总结和工作经历中表达薄弱的部分给出改写建议。

要求：
1. 每条建议包含 section（summary/experience/skills之一）、original_text（原文）、suggested_text（改写后的文本）、explanation（改进理由）、impact（high/medium/low）
2. 最多给出 %d 条建议，按影响从高到低排序
3. 严格按以下JSON格式输出：
{"suggestions": [{"section": "...", "original_text": "...", "suggested_text": "...", "explanation": "...", "impact": "..."}]}

简历内容：
%s`

// 默认值，配置缺省时使用
const (
	defaultMaxSuggestions = 8
	defaultTimeout        = 60 * time.Second
	defaultMaxRetries     = 2
	defaultRetryWait      = 2 * time.Second
)

// Suggester 调用LLM生成内容改写建议
// llmModel为nil时建议功能整体停用，AnalyzeContent返回空列表
type Suggester struct {
	llmModel       model.ToolCallingChatModel
	maxSuggestions int
	timeout        time.Duration
	maxRetries     int
	retryWait      time.Duration
}

// Option 配置Suggester的可选项
type Option func(*Suggester)

// WithMaxSuggestions 限制单次返回的建议条数
func WithMaxSuggestions(n int) Option {
	return func(s *Suggester) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// NewSuggester 创建建议生成器
func NewSuggester(llmModel model.ToolCallingChatModel, cfg *config.LLMConfig, options ...Option) *Suggester {
	s := &Suggester{
		llmModel:       llmModel,
		maxSuggestions: defaultMaxSuggestions,
		timeout:        defaultTimeout,
		maxRetries:     defaultMaxRetries,
		retryWait:      defaultRetryWait,
	}
	if cfg != nil {
		if d, err := time.ParseDuration(cfg.SuggestionTimeout); err == nil && d > 0 {
			s.timeout = d
		}
		if cfg.MaxRetries > 0 {
			s.maxRetries = cfg.MaxRetries
		}
		if cfg.RetryWaitSeconds > 0 {
			s.retryWait = time.Duration(cfg.RetryWaitSeconds) * time.Second
		}
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Enabled 建议功能是否可用
func (s *Suggester) Enabled() bool {
	return s.llmModel != nil
}

// AnalyzeContent 对简历内容生成改写建议
// 建议是附加能力，模型未配置时返回空列表而不是错误
func (s *Suggester) AnalyzeContent(ctx context.Context, content *types.ResumeContent) ([]ContentSuggestion, error) {
	if !s.Enabled() {
		return []ContentSuggestion{}, nil
	}

	digest := buildResumeDigest(content)
	if strings.TrimSpace(digest) == "" {
		return []ContentSuggestion{}, nil
	}

	messages := []*einoschema.Message{
		einoschema.SystemMessage(systemPrompt),
		einoschema.UserMessage(fmt.Sprintf(userPromptTemplate, s.maxSuggestions, digest)),
	}

	raw, err := s.callLLM(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("生成建议失败: %w", err)
	}

	suggestions, err := parseSuggestions(raw)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("raw_prefix", truncate(raw, 200)).Msg("LLM建议响应解析失败")
		return nil, err
	}

	if len(suggestions) > s.maxSuggestions {
		suggestions = suggestions[:s.maxSuggestions]
	}
	return suggestions, nil
}

// callLLM 带超时与退避重试的模型调用
func (s *Suggester) callLLM(ctx context.Context, messages []*einoschema.Message) (string, error) {
	retryWait := s.retryWait

	var response *einoschema.Message
	var err error

	for retry := 0; retry <= s.maxRetries; retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("上下文已取消: %w", ctx.Err())
			case <-time.After(retryWait):
				retryWait *= 2
				logger.Ctx(ctx).Debug().Int("retry", retry).Msg("重试LLM建议调用")
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		response, err = s.llmModel.Generate(callCtx, messages)
		cancel()

		if err == nil {
			break
		}
		if !isRetryableError(err) || retry >= s.maxRetries {
			return "", fmt.Errorf("LLM调用失败: %w", err)
		}
	}

	if response == nil || response.Content == "" {
		return "", fmt.Errorf("LLM返回了空响应")
	}
	return response.Content, nil
}

// isRetryableError 判断错误是否值得重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host")
}

type suggestionEnvelope struct {
	Suggestions []ContentSuggestion `json:"suggestions"`
}

// parseSuggestions 从模型输出里提取并解析JSON
func parseSuggestions(raw string) ([]ContentSuggestion, error) {
	raw = strings.TrimPrefix(raw, "\uFEFF")

	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, fmt.Errorf("无法从LLM响应中提取有效的JSON")
	}
	if !utf8.ValidString(jsonStr) {
		jsonStr = strings.ToValidUTF8(jsonStr, "")
	}

	var envelope suggestionEnvelope
	if err := json.Unmarshal([]byte(jsonStr), &envelope); err != nil {
		return nil, fmt.Errorf("解析建议JSON失败: %w", err)
	}

	suggestions := make([]ContentSuggestion, 0, len(envelope.Suggestions))
	for _, sug := range envelope.Suggestions {
		if sug.SuggestedText == "" {
			continue
		}
		switch sug.Impact {
		case "high", "medium", "low":
		default:
			sug.Impact = "low"
		}
		suggestions = append(suggestions, sug)
	}
	return suggestions, nil
}

// extractJSON 按花括号配对提取第一个完整的JSON对象
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	level := 0
	inStr := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inStr:
			escaped = true
		case c == '"':
			inStr = !inStr
		case c == '{' && !inStr:
			level++
		case c == '}' && !inStr:
			level--
			if level == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// buildResumeDigest 把结构化内容摘要成发给模型的文本
func buildResumeDigest(content *types.ResumeContent) string {
	var b strings.Builder

	if content.Summary != "" {
		b.WriteString("[总结]\n")
		b.WriteString(content.Summary)
		b.WriteString("\n\n")
	}

	if len(content.Experience) > 0 {
		b.WriteString("[工作经历]\n")
		for _, exp := range content.Experience {
			fmt.Fprintf(&b, "%s @ %s (%s - %s)\n", exp.Title, exp.Company, exp.StartDate, exp.EndDate)
			for _, bullet := range exp.Bullets {
				b.WriteString("- ")
				b.WriteString(bullet)
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	if skills := content.SkillsFlat(); len(skills) > 0 {
		b.WriteString("[技能]\n")
		b.WriteString(strings.Join(skills, ", "))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
