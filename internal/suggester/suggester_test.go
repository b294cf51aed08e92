package suggester

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-refine-go/internal/config"
	"resume-refine-go/internal/types"
)

// MockLLMModel 模拟的LLM模型
type MockLLMModel struct {
	mockResponse string
	// 用于测试的错误
	Err error
	// 调用次数
	CallCount int
	// 第N次调用后开始成功，0表示始终按Err返回
	SucceedAfterNCalls int
}

// Generate 实现model.ChatModel接口
func (m *MockLLMModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	m.CallCount++
	if m.Err != nil && (m.SucceedAfterNCalls == 0 || m.CallCount <= m.SucceedAfterNCalls) {
		return nil, m.Err
	}
	return &schema.Message{
		Role:    "assistant",
		Content: m.mockResponse,
	}, nil
}

// Stream 实现model.ChatModel接口
func (m *MockLLMModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	// 测试中不需要流式响应
	return nil, nil
}

// WithTools 实现model.ToolCallingChatModel接口
func (m *MockLLMModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func testLLMConfig() *config.LLMConfig {
	return &config.LLMConfig{
		SuggestionTimeout: "5s",
		MaxRetries:        2,
		RetryWaitSeconds:  1,
	}
}

func contentWithSummary() *types.ResumeContent {
	content := types.NewResumeContent("raw")
	content.Summary = "I am responsible for many things at my job."
	content.Experience = []types.ExperienceItem{
		{Title: "Engineer", Company: "Acme", Bullets: []string{"did stuff"}},
	}
	return content
}

const validSuggestionResponse = `这是分析结果：
{"suggestions": [
  {"section": "summary", "original_text": "I am responsible for many things at my job.",
   "suggested_text": "Own end-to-end delivery of core services.", "explanation": "用主动语态", "impact": "high"},
  {"section": "experience", "original_text": "did stuff",
   "suggested_text": "Shipped the billing pipeline handling 1M events/day.", "explanation": "量化成果", "impact": "medium"}
]}`

// TestAnalyzeContent 正常的建议生成流程
func TestAnalyzeContent(t *testing.T) {
	mock := &MockLLMModel{mockResponse: validSuggestionResponse}
	s := NewSuggester(mock, testLLMConfig())

	suggestions, err := s.AnalyzeContent(context.Background(), contentWithSummary())
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	assert.Equal(t, "summary", suggestions[0].Section)
	assert.Equal(t, "high", suggestions[0].Impact)
	assert.Equal(t, "Own end-to-end delivery of core services.", suggestions[0].SuggestedText)
	assert.Equal(t, 1, mock.CallCount)
}

// TestAnalyzeContentDisabled 模型未配置时返回空列表
func TestAnalyzeContentDisabled(t *testing.T) {
	s := NewSuggester(nil, testLLMConfig())
	assert.False(t, s.Enabled())

	suggestions, err := s.AnalyzeContent(context.Background(), contentWithSummary())
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

// TestAnalyzeContentEmptyResume 没有可分析内容时不调用模型
func TestAnalyzeContentEmptyResume(t *testing.T) {
	mock := &MockLLMModel{mockResponse: validSuggestionResponse}
	s := NewSuggester(mock, testLLMConfig())

	suggestions, err := s.AnalyzeContent(context.Background(), types.NewResumeContent(""))
	require.NoError(t, err)
	assert.Empty(t, suggestions)
	assert.Equal(t, 0, mock.CallCount)
}

// TestRetryOnTransientError 瞬时错误触发重试并最终成功
func TestRetryOnTransientError(t *testing.T) {
	mock := &MockLLMModel{
		mockResponse:       validSuggestionResponse,
		Err:                errors.New("read tcp: connection reset by peer"),
		SucceedAfterNCalls: 1,
	}
	s := NewSuggester(mock, testLLMConfig())
	s.retryWait = 10 * time.Millisecond

	suggestions, err := s.AnalyzeContent(context.Background(), contentWithSummary())
	require.NoError(t, err)
	assert.Len(t, suggestions, 2)
	assert.Equal(t, 2, mock.CallCount)
}

// TestNoRetryOnPermanentError 不可重试的错误立即返回
func TestNoRetryOnPermanentError(t *testing.T) {
	mock := &MockLLMModel{Err: errors.New("invalid api key")}
	s := NewSuggester(mock, testLLMConfig())

	_, err := s.AnalyzeContent(context.Background(), contentWithSummary())
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount)
}

// TestMaxSuggestionsCap 超出上限的建议被截断
func TestMaxSuggestionsCap(t *testing.T) {
	mock := &MockLLMModel{mockResponse: validSuggestionResponse}
	s := NewSuggester(mock, testLLMConfig(), WithMaxSuggestions(1))

	suggestions, err := s.AnalyzeContent(context.Background(), contentWithSummary())
	require.NoError(t, err)
	assert.Len(t, suggestions, 1)
}

// TestParseSuggestions 响应解析的边界情况
func TestParseSuggestions(t *testing.T) {
	t.Run("非JSON响应", func(t *testing.T) {
		_, err := parseSuggestions("抱歉，我无法分析这份简历。")
		require.Error(t, err)
	})

	t.Run("字符串内的花括号不参与配对", func(t *testing.T) {
		raw := `{"suggestions": [{"section": "summary", "original_text": "a", "suggested_text": "use {x} placeholder", "explanation": "e", "impact": "low"}]}`
		suggestions, err := parseSuggestions(raw)
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "use {x} placeholder", suggestions[0].SuggestedText)
	})

	t.Run("缺少建议文本的条目被丢弃", func(t *testing.T) {
		raw := `{"suggestions": [{"section": "summary", "original_text": "a", "suggested_text": "", "impact": "high"}]}`
		suggestions, err := parseSuggestions(raw)
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})

	t.Run("非法的impact归一为low", func(t *testing.T) {
		raw := `{"suggestions": [{"section": "summary", "original_text": "a", "suggested_text": "b", "impact": "critical"}]}`
		suggestions, err := parseSuggestions(raw)
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "low", suggestions[0].Impact)
	})

	t.Run("带BOM前缀", func(t *testing.T) {
		raw := "\uFEFF" + `{"suggestions": []}`
		suggestions, err := parseSuggestions(raw)
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})
}
