package parser

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fumiama/go-docx"
)

// DocxTextExtractor 使用 go-docx 提取DOCX文本
// 段落按顺序拼接，表格逐行展开为制表符分隔的文本行
type DocxTextExtractor struct {
	logger *log.Logger
}

// NewDocxTextExtractor 创建DOCX文本提取器
func NewDocxTextExtractor(logger *log.Logger) *DocxTextExtractor {
	if logger == nil {
		logger = log.New(os.Stderr, "[DOCX解析器] ", log.LstdFlags)
	}
	return &DocxTextExtractor{logger: logger}
}

// ExtractText 从 io.Reader 中提取DOCX文本
// go-docx 需要 ReadSeeker 和大小，先落到临时文件
func (e *DocxTextExtractor) ExtractText(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	startTime := time.Now()

	tmp, err := os.CreateTemp("", "resume-docx-*.docx")
	if err != nil {
		return "", nil, fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, reader)
	if err != nil {
		tmp.Close()
		return "", nil, fmt.Errorf("写入临时文件失败: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return "", nil, fmt.Errorf("定位临时文件失败: %w", err)
	}

	if err := ctx.Err(); err != nil {
		tmp.Close()
		return "", nil, err
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return "", nil, fmt.Errorf("解析DOCX %s 失败: %w", uri, err)
	}

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			text := paragraphText(v)
			if text != "" {
				b.WriteString(text)
				b.WriteString("\n")
			}
		case *docx.Table:
			writeTableText(&b, v)
		}
	}

	content := b.String()
	duration := time.Since(startTime)
	metadata := map[string]interface{}{
		"source_uri":             uri,
		"processing_duration_ms": duration.Milliseconds(),
		"text_length":            len(content),
	}

	e.logger.Printf("DOCX提取完成: %d 个字符 (用时 %.2f秒)", len(content), duration.Seconds())
	return content, metadata, nil
}

// paragraphText 拼接段落内所有文本run
func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// writeTableText 把表格每行展开为制表符分隔的一行文本
// 简历里的技能矩阵、时间线常用表格排版，丢掉表格会丢掉整段内容
func writeTableText(b *strings.Builder, table *docx.Table) {
	for _, row := range table.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var cellBuf strings.Builder
			for _, para := range cell.Paragraphs {
				text := paragraphText(para)
				if text != "" {
					if cellBuf.Len() > 0 {
						cellBuf.WriteString(" ")
					}
					cellBuf.WriteString(text)
				}
			}
			cells = append(cells, cellBuf.String())
		}
		line := strings.TrimSpace(strings.Join(cells, "\t"))
		if line != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
}
