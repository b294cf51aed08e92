package handler

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-refine-go/internal/config"
	"resume-refine-go/internal/constants"
	"resume-refine-go/internal/storage"
	"resume-refine-go/internal/types"
)

func newTestHandler(t *testing.T) *ResumeHandler {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	return NewResumeHandler(cfg, &storage.Storage{})
}

// TestSourceFormatForExt 扩展名白名单与格式映射
func TestSourceFormatForExt(t *testing.T) {
	h := newTestHandler(t)

	format, err := h.sourceFormatForExt(".pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.SourceFormatPDF, format)

	format, err = h.sourceFormatForExt(".docx")
	require.NoError(t, err)
	assert.Equal(t, constants.SourceFormatDOCX, format)

	for _, ext := range []string{".doc", ".txt", ".exe", ""} {
		_, err := h.sourceFormatForExt(ext)
		assert.ErrorIs(t, err, ErrUnsupportedExtension, "扩展名%q应被拒绝", ext)
	}
}

// TestUploadRejectsOversizedFile 超出大小限制的文件在任何IO之前被拒绝
func TestUploadRejectsOversizedFile(t *testing.T) {
	h := newTestHandler(t)

	tooBig := h.cfg.Upload.MaxFileSizeBytes + 1
	_, err := h.HandleResumeUpload(context.Background(), neverRead{}, tooBig, "resume.pdf", "web_upload")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

// TestUploadRejectsBadExtension 非法扩展名在任何IO之前被拒绝
func TestUploadRejectsBadExtension(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.HandleResumeUpload(context.Background(), neverRead{}, 1024, "resume.exe", "web_upload")
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

// TestHandleGrammarCheck 独立语法检查：命中问题返回列表，空文本返回空列表而不是nil
func TestHandleGrammarCheck(t *testing.T) {
	h := newTestHandler(t)

	issues := h.HandleGrammarCheck(context.Background(), "Responsible for for the payments team.")
	require.NotEmpty(t, issues)
	assert.Equal(t, "repetition", issues[0].Category)

	issues = h.HandleGrammarCheck(context.Background(), "")
	require.NotNil(t, issues)
	assert.Empty(t, issues)
}

// TestATSCheckComputation 独立ATS检查：缺失联系方式产出建议并扣分
func TestATSCheckComputation(t *testing.T) {
	h := newTestHandler(t)

	resp := h.atsCheck(types.NewResumeContent("只有正文没有结构的简历"))

	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.Suggestions)
	assert.Less(t, resp.Score, 100.0)
	assert.GreaterOrEqual(t, resp.Score, 0.0)
}

// neverRead 一旦被读取就让测试失败的reader
// 用于验证请求校验发生在消费文件流之前
type neverRead struct{}

func (neverRead) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
