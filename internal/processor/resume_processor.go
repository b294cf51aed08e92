package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rs/zerolog"

	"resume-refine-go/internal/config"
	"resume-refine-go/internal/constants"
	"resume-refine-go/internal/logger"
	"resume-refine-go/internal/parser"
	"resume-refine-go/internal/scorer"
	"resume-refine-go/internal/storage"
	"resume-refine-go/internal/storage/models"
	"resume-refine-go/internal/suggester"
	"resume-refine-go/internal/tracing"
	"resume-refine-go/internal/types"
	"resume-refine-go/pkg/utils"
)

var tracer = otel.Tracer("resume-refine-go/processor")

// ResumeProcessor 消费上传事件，执行 下载→提取→去重→结构化→评分→落库 的完整流水线
type ResumeProcessor struct {
	cfg       *config.Config
	storage   *storage.Storage
	parser    *parser.Parser
	scorer    *scorer.ResumeScorer
	suggester *suggester.Suggester
	// 按来源格式分发的文本提取器
	extractors map[string]parser.TextExtractor
}

// NewResumeProcessor 组装处理流水线
// suggester可以为nil，此时跳过AI建议环节
func NewResumeProcessor(
	cfg *config.Config,
	storageManager *storage.Storage,
	resumeParser *parser.Parser,
	resumeScorer *scorer.ResumeScorer,
	sug *suggester.Suggester,
	extractors map[string]parser.TextExtractor,
) (*ResumeProcessor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config未初始化")
	}
	if storageManager == nil || storageManager.MySQL == nil || storageManager.MinIO == nil {
		return nil, fmt.Errorf("存储组件未初始化")
	}
	if resumeParser == nil {
		return nil, fmt.Errorf("解析器未初始化")
	}
	if resumeScorer == nil {
		resumeScorer = scorer.NewResumeScorer(nil)
	}
	if len(extractors) == 0 {
		return nil, fmt.Errorf("文本提取器未初始化")
	}
	return &ResumeProcessor{
		cfg:        cfg,
		storage:    storageManager,
		parser:     resumeParser,
		scorer:     resumeScorer,
		suggester:  sug,
		extractors: extractors,
	}, nil
}

// StartConsuming 启动上传事件消费者，返回停止信号通道
func (p *ResumeProcessor) StartConsuming() (chan<- struct{}, error) {
	if p.storage.RabbitMQ == nil {
		return nil, fmt.Errorf("消息队列未初始化")
	}

	prefetch := p.cfg.RabbitMQ.PrefetchCount
	if prefetch <= 0 {
		prefetch = 1
	}

	return p.storage.RabbitMQ.StartConsumer(p.cfg.RabbitMQ.ParseQueue, prefetch, func(body []byte) bool {
		var message storage.ResumeUploadMessage
		if err := json.Unmarshal(body, &message); err != nil {
			logger.Error().Err(err).Msg("上传事件反序列化失败，消息将被丢弃")
			return true // 畸形消息重投也不会成功
		}

		ctx := context.Background()
		if err := p.ProcessUploadedResume(ctx, message); err != nil {
			logger.Error().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("简历处理失败")
			return true // 失败状态已落库，不重投
		}
		return true
	})
}

// ProcessUploadedResume 处理单条上传事件
// 结构化解析本身不会失败；只有存储层异常会使整个任务失败
func (p *ResumeProcessor) ProcessUploadedResume(ctx context.Context, message storage.ResumeUploadMessage) error {
	ctx, span := tracer.Start(ctx, "ProcessUploadedResume",
		trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	span.SetAttributes(
		attribute.String("submission_uuid", message.SubmissionUUID),
		attribute.String("source_format", message.SourceFormat),
		attribute.String("source_channel", tracing.SafeAttributeValue("source_channel", message.SourceChannel, tracing.DefaultMaxLength)),
	)

	log := logger.Ctx(ctx).With().Str("submission_uuid", message.SubmissionUUID).Logger()
	log.Debug().Msg("开始处理上传的简历")

	err := p.process(ctx, &log, message)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		span.SetStatus(codes.Error, err.Error())

		if updateErr := p.storage.MySQL.UpdateResumeProcessingStatus(ctx, message.SubmissionUUID, constants.StatusParsingFailed); updateErr != nil {
			log.Error().Err(updateErr).Msg("更新失败状态时出错")
		}
		// 回滚文件MD5，让用户可以重新上传同一文件
		p.rollbackRawFileMD5(ctx, &log, message.RawFileMD5)
		return err
	}

	span.SetStatus(codes.Ok, "处理成功")
	return nil
}

func (p *ResumeProcessor) process(ctx context.Context, log *zerolog.Logger, message storage.ResumeUploadMessage) error {
	span := trace.SpanFromContext(ctx)

	// 1. 下载原始文件
	fileBytes, err := p.storage.MinIO.GetResumeFile(ctx, message.OriginalFilePathOSS)
	if err != nil {
		return fmt.Errorf("下载简历文件失败: %w", err)
	}
	span.SetAttributes(attribute.Int("file_size_bytes", len(fileBytes)))

	// 2. 提取文本
	// 提取失败不终止任务：记录状态后用空文本继续，下游仍会产出结构合法的空结果
	extractCtx, extractSpan := tracer.Start(ctx, "ExtractResumeText")
	text, extractErr := p.extractText(extractCtx, message, fileBytes)
	extractSpan.End()

	if extractErr != nil {
		log.Warn().Err(extractErr).Msg("文本提取失败，以空文本继续")
		tracing.RecordError(span, extractErr, tracing.ErrorTypeExtraction)
		if err := p.storage.MySQL.UpdateResumeProcessingStatus(ctx, message.SubmissionUUID, constants.StatusTextExtractionFailed); err != nil {
			return fmt.Errorf("更新提取失败状态出错: %w", err)
		}
		text = ""
	}
	span.SetAttributes(attribute.Int("text_length", len(text)))

	updates := map[string]interface{}{
		"processing_status": constants.StatusParsingCompleted,
		"parser_version":    p.cfg.ActiveParserVersion,
	}

	// 3. 文本级去重
	if text != "" {
		textMD5 := utils.CalculateMD5([]byte(text))
		updates["raw_text_md5"] = textMD5

		if p.storage.Redis != nil {
			exists, dedupErr := p.storage.Redis.CheckAndAddParsedTextMD5(ctx, textMD5)
			if dedupErr != nil {
				log.Warn().Err(dedupErr).Msg("文本去重检查失败，继续处理")
			} else if exists {
				log.Info().Str("md5", textMD5).Msg("检测到重复的简历文本，跳过后续处理")
				span.SetAttributes(attribute.Bool("duplicate_content", true))
				return p.storage.MySQL.UpdateResumeSubmissionFields(ctx, message.SubmissionUUID, map[string]interface{}{
					"processing_status": constants.StatusContentDuplicateSkipped,
					"raw_text_md5":      textMD5,
				})
			}
		}

		// 4. 归档清洗后的文本
		span.AddEvent("uploading_parsed_text")
		textObjectKey, uploadErr := p.storage.MinIO.UploadParsedText(ctx, message.SubmissionUUID, text)
		if uploadErr != nil {
			log.Warn().Err(uploadErr).Msg("归档解析文本失败，继续处理")
		} else {
			updates["parsed_text_path_oss"] = textObjectKey
		}
	}

	// 5. 结构化解析
	parseCtx, parseSpan := tracer.Start(ctx, "ParseResumeContent")
	content := p.parser.Parse(parseCtx, rawDocumentFromMessage(message, text))
	parseSpan.End()

	// 6. 评分
	detail := p.scorer.Score(ctx, content)

	// 7. AI建议，可选环节，失败只降级
	suggestions := p.generateSuggestions(ctx, log, content)

	// 8. 分析结果落库
	if err := p.saveAnalysis(ctx, message.SubmissionUUID, content, detail, suggestions); err != nil {
		return err
	}

	if err := p.storage.MySQL.UpdateResumeSubmissionFields(ctx, message.SubmissionUUID, updates); err != nil {
		return fmt.Errorf("更新处理状态失败: %w", err)
	}

	log.Info().
		Float64("overall_score", detail.OverallScore).
		Int("experience_entries", len(content.Experience)).
		Int("skills", len(content.SkillsFlat())).
		Msg("简历处理完成")
	return nil
}

// rawDocumentFromMessage 把消息里的格式字符串转成解析输入
func rawDocumentFromMessage(message storage.ResumeUploadMessage, text string) types.RawDocument {
	return types.RawDocument{
		Text:         text,
		SourceFormat: types.SourceFormat(message.SourceFormat),
	}
}

// extractText 按来源格式选择提取器
func (p *ResumeProcessor) extractText(ctx context.Context, message storage.ResumeUploadMessage, fileBytes []byte) (string, error) {
	extractor, ok := p.extractors[message.SourceFormat]
	if !ok {
		return "", fmt.Errorf("不支持的来源格式: %s", message.SourceFormat)
	}
	text, _, err := extractor.ExtractText(ctx, bytes.NewReader(fileBytes), message.OriginalFilename)
	if err != nil {
		return "", fmt.Errorf("提取文本失败: %w", err)
	}
	return text, nil
}

func (p *ResumeProcessor) generateSuggestions(ctx context.Context, log *zerolog.Logger, content *types.ResumeContent) []suggester.ContentSuggestion {
	if p.suggester == nil || !p.suggester.Enabled() {
		return nil
	}
	sugCtx, sugSpan := tracer.Start(ctx, "GenerateContentSuggestions")
	defer sugSpan.End()

	suggestions, err := p.suggester.AnalyzeContent(sugCtx, content)
	if err != nil {
		log.Warn().Err(err).Msg("生成AI建议失败，分析结果不含建议")
		tracing.RecordError(sugSpan, err, tracing.ErrorTypeLLM)
		return nil
	}
	sugSpan.SetAttributes(attribute.Int("suggestion_count", len(suggestions)))
	return suggestions
}

// saveAnalysis 组装并写入分析记录
func (p *ResumeProcessor) saveAnalysis(
	ctx context.Context,
	submissionUUID string,
	content *types.ResumeContent,
	detail *scorer.ScoreDetail,
	suggestions []suggester.ContentSuggestion,
) error {
	analysis := &models.ResumeAnalysis{
		SubmissionUUID:  submissionUUID,
		ContentJSON:     utils.StructToJSON(content),
		ContactJSON:     utils.StructToJSON(content.ContactInfo),
		SkillsJSON:      utils.ConvertArrayToJSON(content.SkillsFlat()),
		OverallScore:    &detail.OverallScore,
		ScoreDetailJSON: utils.StructToJSON(detail),
		ParserVersion:   p.cfg.ActiveParserVersion,
		AnalyzedAt:      utils.TimePtr(time.Now()),
	}
	if len(suggestions) > 0 {
		analysis.SuggestionsJSON = utils.StructToJSON(suggestions)
	}

	if err := p.storage.MySQL.UpsertResumeAnalysis(ctx, analysis); err != nil {
		return fmt.Errorf("保存分析结果失败: %w", err)
	}
	return nil
}

func (p *ResumeProcessor) rollbackRawFileMD5(ctx context.Context, log *zerolog.Logger, rawFileMD5 string) {
	if rawFileMD5 == "" || p.storage.Redis == nil {
		return
	}
	if err := p.storage.Redis.RemoveRawFileMD5(ctx, rawFileMD5); err != nil {
		log.Warn().Err(err).Str("md5", rawFileMD5).Msg("回滚文件MD5去重记录失败")
	}
}
