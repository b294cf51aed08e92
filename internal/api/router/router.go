package router

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-refine-go/internal/api/handler"
	"resume-refine-go/internal/formatter"
)

// RegisterRoutes 注册API路由
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler) {
	api := h.Group("/api/v1")

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		sourceChannel := ctx.PostForm("source_channel")
		if sourceChannel == "" {
			sourceChannel = "web_upload"
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := resumeHandler.HandleResumeUpload(c, file, fileHeader.Size, fileHeader.Filename, sourceChannel)
		if err != nil {
			ctx.JSON(statusForError(err), utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/resume/:uuid", func(c context.Context, ctx *app.RequestContext) {
		resp, err := resumeHandler.HandleGetSubmission(c, ctx.Param("uuid"))
		if err != nil {
			ctx.JSON(statusForError(err), utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/resume/:uuid/analysis", func(c context.Context, ctx *app.RequestContext) {
		resp, err := resumeHandler.HandleGetAnalysis(c, ctx.Param("uuid"))
		if err != nil {
			ctx.JSON(statusForError(err), utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/resume/:uuid/export", func(c context.Context, ctx *app.RequestContext) {
		format := ctx.Query("format")
		result, err := resumeHandler.HandleExport(c, ctx.Param("uuid"), format)
		if err != nil {
			ctx.JSON(statusForError(err), utils.H{"error": err.Error()})
			return
		}
		ctx.Response.Header.Set("Content-Disposition", "attachment; filename="+result.Filename)
		ctx.Data(consts.StatusOK, result.ContentType, []byte(result.Body))
	})

	api.POST("/resume/grammar", func(c context.Context, ctx *app.RequestContext) {
		var req handler.GrammarCheckRequest
		if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
			return
		}
		ctx.JSON(consts.StatusOK, resumeHandler.HandleGrammarCheck(c, req.Text))
	})

	api.POST("/resume/:uuid/ats", func(c context.Context, ctx *app.RequestContext) {
		resp, err := resumeHandler.HandleATSCheck(c, ctx.Param("uuid"))
		if err != nil {
			ctx.JSON(statusForError(err), utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}

// statusForError 业务错误映射到HTTP状态码
func statusForError(err error) int {
	var unsupportedFormat *formatter.ErrUnsupportedFormat
	switch {
	case errors.Is(err, handler.ErrSubmissionNotFound),
		errors.Is(err, handler.ErrAnalysisNotFound):
		return consts.StatusNotFound
	case errors.Is(err, handler.ErrFileTooLarge),
		errors.Is(err, handler.ErrUnsupportedExtension),
		errors.Is(err, handler.ErrAnalysisNotReady),
		errors.As(err, &unsupportedFormat):
		return consts.StatusBadRequest
	default:
		return consts.StatusInternalServerError
	}
}
