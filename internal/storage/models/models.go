package models

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeSubmission 简历提交/快照表
// 一次上传对应一行，记录对象存储路径与处理状态的流转
type ResumeSubmission struct {
	SubmissionUUID      string    `gorm:"type:char(36);primaryKey"`
	SubmissionTimestamp time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	SourceChannel       string    `gorm:"type:varchar(100)"`
	OriginalFilename    string    `gorm:"type:varchar(255)"`
	SourceFormat        string    `gorm:"type:varchar(10)"`
	OriginalFilePathOSS string    `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string    `gorm:"type:varchar(1024)"`
	RawFileMD5          string    `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	RawTextMD5          string    `gorm:"type:char(32);index:idx_rs_raw_text_md5"`
	ProcessingStatus    string    `gorm:"type:varchar(50);default:'PENDING_PARSING';index:idx_rs_processing_status"`
	ParserVersion       string    `gorm:"type:varchar(50)"`
	CreatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// ResumeAnalysis 结构化解析与评分结果表
// 与提交表一对一，结构化内容以JSON列整体存储，读取端不做关系查询
type ResumeAnalysis struct {
	SubmissionUUID  string         `gorm:"type:char(36);primaryKey"`
	ContentJSON     datatypes.JSON `gorm:"type:json"` // 结构化简历内容
	ContactJSON     datatypes.JSON `gorm:"type:json"` // 联系方式，单独一列便于检索
	SkillsJSON      datatypes.JSON `gorm:"type:json"` // 展平后的技能列表
	OverallScore    *float64       `gorm:"type:float;index:idx_ra_overall_score"`
	ScoreDetailJSON datatypes.JSON `gorm:"type:json"` // 各维度得分明细
	SuggestionsJSON datatypes.JSON `gorm:"type:json"` // AI改进建议，可为空
	ParserVersion   string         `gorm:"type:varchar(50)"`
	AnalyzedAt      *time.Time     `gorm:"type:datetime(6)"`
	CreatedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	ResumeSubmission *ResumeSubmission `gorm:"foreignKey:SubmissionUUID;references:SubmissionUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ResumeAnalysis) TableName() string {
	return "resume_analyses"
}
