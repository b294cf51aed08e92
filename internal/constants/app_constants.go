package constants

// 简历处理状态机
const (
	// StatusPendingParsing 已入库，等待解析
	StatusPendingParsing = "PENDING_PARSING"
	// StatusTextExtractionFailed 文本提取失败（留空文本继续走结构化流程）
	StatusTextExtractionFailed = "TEXT_EXTRACTION_FAILED"
	// StatusContentDuplicateSkipped 文本MD5命中，跳过后续处理
	StatusContentDuplicateSkipped = "CONTENT_DUPLICATE_SKIPPED"
	// StatusParsingCompleted 结构化解析与评分完成
	StatusParsingCompleted = "PARSING_COMPLETED"
	// StatusParsingFailed 解析流程异常终止
	StatusParsingFailed = "PARSING_FAILED"
)

// 上传响应状态
const (
	// UploadStatusSubmitted 已提交异步处理
	UploadStatusSubmitted = "SUBMITTED_FOR_PROCESSING"
	// UploadStatusDuplicateFile 文件MD5重复，跳过
	UploadStatusDuplicateFile = "DUPLICATE_FILE_SKIPPED"
)

// 文档来源格式
const (
	SourceFormatPDF  = "pdf"
	SourceFormatDOCX = "docx"
)

// Redis键
const (
	// RawFileMD5SetKey 原始文件MD5去重集合
	RawFileMD5SetKey = "resume_refine:dedup:raw_file_md5_set"
	// ParsedTextMD5SetKey 清洗文本MD5去重集合
	ParsedTextMD5SetKey = "resume_refine:dedup:parsed_text_md5_set"
)
