package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"

	"resume-refine-go/internal/api/handler"
	"resume-refine-go/internal/api/router"
	"resume-refine-go/internal/config"
	"resume-refine-go/internal/constants"
	appLogger "resume-refine-go/internal/logger"
	"resume-refine-go/internal/parser"
	"resume-refine-go/internal/processor"
	"resume-refine-go/internal/scorer"
	"resume-refine-go/internal/storage"
	"resume-refine-go/internal/suggester"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	initLogger(cfg)
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	if storageManager.RabbitMQ != nil {
		if err := storageManager.RabbitMQ.SetupResumeTopology(); err != nil {
			glog.Fatalf("初始化消息队列拓扑失败: %v", err)
		}
		glog.Info("消息队列拓扑初始化成功")
	}

	// 文本提取器，按来源格式分发
	pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx,
		parser.WithEinoLogger(log.New(os.Stderr, "[EinoPDF] ", log.LstdFlags)))
	if err != nil {
		glog.Fatalf("创建PDF提取器失败: %v", err)
	}
	docxExtractor := parser.NewDocxTextExtractor(log.New(os.Stderr, "[Docx] ", log.LstdFlags))
	extractors := map[string]parser.TextExtractor{
		constants.SourceFormatPDF:  pdfExtractor,
		constants.SourceFormatDOCX: docxExtractor,
	}

	resumeParser := parser.NewParser(&cfg.Parser)
	resumeScorer := scorer.NewResumeScorer(nil)

	// AI建议依赖外部LLM，未配置时该环节整体停用
	contentSuggester := suggester.NewSuggester(nil, &cfg.LLM)
	if cfg.LLM.APIKey != "" {
		glog.Warn("LLM聊天模型尚未接入，AI建议环节停用")
	}

	resumeProcessor, err := processor.NewResumeProcessor(cfg, storageManager, resumeParser, resumeScorer, contentSuggester, extractors)
	if err != nil {
		glog.Fatalf("初始化ResumeProcessor失败: %v", err)
	}
	glog.Info("ResumeProcessor初始化成功")

	var stopConsumer chan<- struct{}
	if storageManager.RabbitMQ != nil {
		stopConsumer, err = resumeProcessor.StartConsuming()
		if err != nil {
			glog.Fatalf("启动解析消费者失败: %v", err)
		}
		glog.Infof("解析消费者已启动，队列: %s", cfg.RabbitMQ.ParseQueue)
	} else {
		glog.Warn("消息队列不可用，解析消费者未启动")
	}

	resumeHandler := handler.NewResumeHandler(cfg, storageManager)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		ctx.Next(c)
		glog.CtxInfof(c, "%s %s -> %d", string(ctx.Method()), string(ctx.Path()), ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, resumeHandler)
	glog.Info("HTTP路由注册成功")

	go func() {
		glog.Infof("HTTP服务器启动，监听地址: %s", cfg.Server.Address)
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	if stopConsumer != nil {
		close(stopConsumer)
		glog.Info("解析消费者已停止")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initLogger 初始化应用日志并把Hertz的日志接到同一个zerolog实例上
func initLogger(cfg *config.Config) {
	appLogger.Init(appLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	glog.SetLogger(hertzadapter.From(appLogger.Logger))
	switch cfg.Logger.Level {
	case "debug":
		glog.SetLevel(glog.LevelDebug)
	case "warn":
		glog.SetLevel(glog.LevelWarn)
	case "error":
		glog.SetLevel(glog.LevelError)
	default:
		glog.SetLevel(glog.LevelInfo)
	}
}
