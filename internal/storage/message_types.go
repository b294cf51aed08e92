package storage

import "time"

// ResumeUploadMessage 简历上传事件
// 上传接口入库成功后发布，解析消费者据此拉取原始文件
type ResumeUploadMessage struct {
	SubmissionUUID      string    `json:"submission_uuid"`
	SubmissionTimestamp time.Time `json:"submission_timestamp"`
	SourceChannel       string    `json:"source_channel,omitempty"`
	OriginalFilename    string    `json:"original_filename"`
	SourceFormat        string    `json:"source_format"`
	OriginalFilePathOSS string    `json:"original_file_path_oss"`
	// 原始文件MD5，处理失败时用于回滚去重记录
	RawFileMD5 string `json:"raw_file_md5,omitempty"`
}
