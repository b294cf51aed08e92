package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"gorm.io/gorm"

	"resume-refine-go/internal/config"
	"resume-refine-go/internal/constants"
	"resume-refine-go/internal/formatter"
	"resume-refine-go/internal/logger"
	"resume-refine-go/internal/scorer"
	"resume-refine-go/internal/storage"
	"resume-refine-go/internal/storage/models"
	"resume-refine-go/internal/suggester"
	"resume-refine-go/internal/types"
)

// 请求校验错误，路由层据此返回4xx
var (
	ErrFileTooLarge         = errors.New("文件大小超出限制")
	ErrUnsupportedExtension = errors.New("不支持的文件类型")
	ErrSubmissionNotFound   = errors.New("简历提交记录不存在")
	ErrAnalysisNotFound     = errors.New("分析结果不存在")
	ErrAnalysisNotReady     = errors.New("简历尚未完成解析")
)

// 独立语法检查单次返回的问题数上限
const grammarCheckMaxIssues = 50

// ResumeHandler 简历接口的业务逻辑
type ResumeHandler struct {
	cfg       *config.Config
	storage   *storage.Storage
	formatter *formatter.DocumentFormatter
	grammar   scorer.GrammarChecker
	ats       *scorer.ATSOptimizer
}

// NewResumeHandler 创建简历处理器
func NewResumeHandler(cfg *config.Config, storageManager *storage.Storage) *ResumeHandler {
	return &ResumeHandler{
		cfg:       cfg,
		storage:   storageManager,
		formatter: formatter.NewDocumentFormatter(),
		grammar:   scorer.NewHeuristicGrammarChecker(),
		ats:       scorer.NewATSOptimizer(),
	}
}

// ResumeUploadResponse 上传接口响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// SubmissionResponse 提交记录查询响应
type SubmissionResponse struct {
	SubmissionUUID      string    `json:"submission_uuid"`
	SubmissionTimestamp time.Time `json:"submission_timestamp"`
	OriginalFilename    string    `json:"original_filename"`
	SourceFormat        string    `json:"source_format"`
	ProcessingStatus    string    `json:"processing_status"`
	ParserVersion       string    `json:"parser_version,omitempty"`
}

// AnalysisResponse 分析结果响应
type AnalysisResponse struct {
	SubmissionUUID string                        `json:"submission_uuid"`
	Content        *types.ResumeContent          `json:"content"`
	OverallScore   *float64                      `json:"overall_score,omitempty"`
	ScoreDetail    *scorer.ScoreDetail           `json:"score_detail,omitempty"`
	Suggestions    []suggester.ContentSuggestion `json:"suggestions,omitempty"`
	ParserVersion  string                        `json:"parser_version,omitempty"`
	AnalyzedAt     *time.Time                    `json:"analyzed_at,omitempty"`
}

// ExportResult 导出结果
type ExportResult struct {
	Body        string
	ContentType string
	Filename    string
}

// GrammarCheckRequest 独立语法检查请求
type GrammarCheckRequest struct {
	Text string `json:"text"`
}

// ATSCheckResponse 独立ATS检查响应
type ATSCheckResponse struct {
	Score       float64                `json:"score"`
	Suggestions []scorer.ATSSuggestion `json:"suggestions"`
}

// HandleResumeUpload 处理简历上传
// 文件流式写入MinIO，MD5去重命中时删除刚上传的对象
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, sourceChannel string) (*ResumeUploadResponse, error) {

	if fileSize > h.cfg.Upload.MaxFileSizeBytes {
		return nil, fmt.Errorf("%w: %d字节，上限%d字节", ErrFileTooLarge, fileSize, h.cfg.Upload.MaxFileSizeBytes)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	sourceFormat, err := h.sourceFormatForExt(ext)
	if err != nil {
		return nil, err
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	// 边上传边计算MD5，避免把文件整体读进内存
	objectKey, fileMD5, err := h.storage.MinIO.UploadResumeFileStreaming(ctx, submissionUUID, ext, reader, fileSize)
	if err != nil {
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	exists, err := h.storage.Redis.CheckAndAddRawFileMD5(ctx, fileMD5)
	if err != nil {
		logger.Warn().Err(err).Str("md5", fileMD5).Msg("文件MD5去重检查失败，继续处理")
	} else if exists {
		logger.Info().Str("md5", fileMD5).Str("filename", filename).Msg("检测到重复的文件MD5，跳过处理")
		if delErr := h.storage.MinIO.DeleteFile(ctx, objectKey); delErr != nil {
			logger.Warn().Err(delErr).Str("object_key", objectKey).Msg("删除重复文件失败")
		}
		return &ResumeUploadResponse{Status: constants.UploadStatusDuplicateFile}, nil
	}

	now := time.Now()
	submission := &models.ResumeSubmission{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		SourceChannel:       sourceChannel,
		OriginalFilename:    filename,
		SourceFormat:        sourceFormat,
		OriginalFilePathOSS: objectKey,
		RawFileMD5:          fileMD5,
		ProcessingStatus:    constants.StatusPendingParsing,
	}
	if err := h.storage.MySQL.CreateResumeSubmission(ctx, submission); err != nil {
		h.rollbackUpload(ctx, objectKey, fileMD5)
		return nil, fmt.Errorf("写入提交记录失败: %w", err)
	}

	message := &storage.ResumeUploadMessage{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		SourceChannel:       sourceChannel,
		OriginalFilename:    filename,
		SourceFormat:        sourceFormat,
		OriginalFilePathOSS: objectKey,
		RawFileMD5:          fileMD5,
	}
	if err := h.storage.RabbitMQ.PublishResumeUploaded(ctx, message); err != nil {
		// 消息没发出去，消费者永远不会处理这条记录
		if updateErr := h.storage.MySQL.UpdateResumeProcessingStatus(ctx, submissionUUID, constants.StatusParsingFailed); updateErr != nil {
			logger.Error().Err(updateErr).Str("submission_uuid", submissionUUID).Msg("标记发布失败状态出错")
		}
		h.rollbackUpload(ctx, "", fileMD5)
		return nil, fmt.Errorf("发布上传事件失败: %w", err)
	}

	logger.Info().
		Str("submission_uuid", submissionUUID).
		Str("filename", filename).
		Int64("size_bytes", fileSize).
		Msg("简历上传成功，已提交异步处理")

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         constants.UploadStatusSubmitted,
	}, nil
}

// HandleGetSubmission 查询提交记录与处理状态
func (h *ResumeHandler) HandleGetSubmission(ctx context.Context, submissionUUID string) (*SubmissionResponse, error) {
	submission, err := h.storage.MySQL.GetResumeSubmissionByUUID(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("查询提交记录失败: %w", err)
	}
	return &SubmissionResponse{
		SubmissionUUID:      submission.SubmissionUUID,
		SubmissionTimestamp: submission.SubmissionTimestamp,
		OriginalFilename:    submission.OriginalFilename,
		SourceFormat:        submission.SourceFormat,
		ProcessingStatus:    submission.ProcessingStatus,
		ParserVersion:       submission.ParserVersion,
	}, nil
}

// HandleGetAnalysis 查询分析结果
func (h *ResumeHandler) HandleGetAnalysis(ctx context.Context, submissionUUID string) (*AnalysisResponse, error) {
	analysis, err := h.loadAnalysis(ctx, submissionUUID)
	if err != nil {
		return nil, err
	}

	resp := &AnalysisResponse{
		SubmissionUUID: analysis.SubmissionUUID,
		OverallScore:   analysis.OverallScore,
		ParserVersion:  analysis.ParserVersion,
		AnalyzedAt:     analysis.AnalyzedAt,
	}

	if len(analysis.ContentJSON) > 0 {
		var content types.ResumeContent
		if err := json.Unmarshal(analysis.ContentJSON, &content); err != nil {
			return nil, fmt.Errorf("解析内容JSON失败: %w", err)
		}
		resp.Content = &content
	}
	if len(analysis.ScoreDetailJSON) > 0 {
		var detail scorer.ScoreDetail
		if err := json.Unmarshal(analysis.ScoreDetailJSON, &detail); err != nil {
			return nil, fmt.Errorf("解析评分JSON失败: %w", err)
		}
		resp.ScoreDetail = &detail
	}
	if len(analysis.SuggestionsJSON) > 0 {
		if err := json.Unmarshal(analysis.SuggestionsJSON, &resp.Suggestions); err != nil {
			return nil, fmt.Errorf("解析建议JSON失败: %w", err)
		}
	}

	return resp, nil
}

// HandleExport 导出标准化简历文档
func (h *ResumeHandler) HandleExport(ctx context.Context, submissionUUID string, format string) (*ExportResult, error) {
	analysis, err := h.loadAnalysis(ctx, submissionUUID)
	if err != nil {
		return nil, err
	}
	if len(analysis.ContentJSON) == 0 {
		return nil, ErrAnalysisNotReady
	}

	var content types.ResumeContent
	if err := json.Unmarshal(analysis.ContentJSON, &content); err != nil {
		return nil, fmt.Errorf("解析内容JSON失败: %w", err)
	}

	body, contentType, err := h.formatter.Render(&content, format)
	if err != nil {
		return nil, err
	}

	filenameExt := "txt"
	if format == formatter.FormatMarkdown {
		filenameExt = "md"
	}
	shortID := submissionUUID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	return &ExportResult{
		Body:        body,
		ContentType: contentType,
		Filename:    fmt.Sprintf("resume_refined_%s.%s", shortID, filenameExt),
	}, nil
}

// HandleGrammarCheck 对任意文本做语法检查，不依赖已入库的简历
func (h *ResumeHandler) HandleGrammarCheck(ctx context.Context, text string) []scorer.GrammarIssue {
	issues := h.grammar.Check(ctx, text, grammarCheckMaxIssues)
	if issues == nil {
		issues = []scorer.GrammarIssue{}
	}
	return issues
}

// HandleATSCheck 对已解析的简历做独立ATS兼容性检查
func (h *ResumeHandler) HandleATSCheck(ctx context.Context, submissionUUID string) (*ATSCheckResponse, error) {
	analysis, err := h.loadAnalysis(ctx, submissionUUID)
	if err != nil {
		return nil, err
	}
	if len(analysis.ContentJSON) == 0 {
		return nil, ErrAnalysisNotReady
	}

	var content types.ResumeContent
	if err := json.Unmarshal(analysis.ContentJSON, &content); err != nil {
		return nil, fmt.Errorf("解析内容JSON失败: %w", err)
	}
	return h.atsCheck(&content), nil
}

// atsCheck 对结构化内容计算ATS得分与建议
func (h *ResumeHandler) atsCheck(content *types.ResumeContent) *ATSCheckResponse {
	suggestions := h.ats.Analyze(content)
	return &ATSCheckResponse{
		Score:       scorer.CalculateATSScore(content, suggestions),
		Suggestions: suggestions,
	}
}

func (h *ResumeHandler) loadAnalysis(ctx context.Context, submissionUUID string) (*models.ResumeAnalysis, error) {
	analysis, err := h.storage.MySQL.GetResumeAnalysisByUUID(ctx, submissionUUID)
	if err == nil {
		return analysis, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询分析结果失败: %w", err)
	}

	// 分析记录还没有，区分“记录不存在”和“还在处理中”
	if _, subErr := h.storage.MySQL.GetResumeSubmissionByUUID(ctx, submissionUUID); subErr != nil {
		if errors.Is(subErr, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("查询提交记录失败: %w", subErr)
	}
	return nil, ErrAnalysisNotFound
}

// sourceFormatForExt 扩展名必须在白名单内
func (h *ResumeHandler) sourceFormatForExt(ext string) (string, error) {
	allowed := false
	for _, e := range h.cfg.Upload.AllowedExtensions {
		if strings.EqualFold(e, ext) {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
	}

	switch ext {
	case ".pdf":
		return constants.SourceFormatPDF, nil
	case ".docx":
		return constants.SourceFormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
	}
}

func (h *ResumeHandler) rollbackUpload(ctx context.Context, objectKey, fileMD5 string) {
	if objectKey != "" {
		if err := h.storage.MinIO.DeleteFile(ctx, objectKey); err != nil {
			logger.Warn().Err(err).Str("object_key", objectKey).Msg("回滚删除MinIO对象失败")
		}
	}
	if fileMD5 != "" {
		if err := h.storage.Redis.RemoveRawFileMD5(ctx, fileMD5); err != nil {
			logger.Warn().Err(err).Str("md5", fileMD5).Msg("回滚文件MD5去重记录失败")
		}
	}
}
