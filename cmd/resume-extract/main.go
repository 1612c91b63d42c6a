package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/pflag"

	"resume-extract-go/internal/api/handler"
	"resume-extract-go/internal/api/router"
	"resume-extract-go/internal/config"
	appCoreLogger "resume-extract-go/internal/logger"
	"resume-extract-go/internal/parser"
	"resume-extract-go/internal/pipeline"
	"resume-extract-go/internal/storage"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
)

func main() {
	initLogger()

	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}
	configureLogger(cfg.Logger)
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PDF解析器：优先Tika服务器，未配置时回退到Eino本地解析
	var pdfExtractor parser.TextExtractor
	if cfg.Tika.Type == "tika" && cfg.Tika.ServerURL != "" {
		tikaOptions := []parser.TikaOption{
			parser.WithTikaLogger(log.New(os.Stderr, "[TikaMain] ", log.LstdFlags)),
		}
		if cfg.Tika.Timeout > 0 {
			tikaOptions = append(tikaOptions, parser.WithTikaTimeout(time.Duration(cfg.Tika.Timeout)*time.Second))
		}
		pdfExtractor = parser.NewTikaTextExtractor(cfg.Tika.ServerURL, tikaOptions...)
		glog.Info("使用Tika文本解析器")
	} else {
		pdfExtractor, err = parser.NewEinoPDFTextExtractor(ctx, parser.WithEinoLogger(log.New(os.Stderr, "[EinoPDFMain] ", log.LstdFlags)))
		if err != nil {
			glog.Fatalf("创建Eino PDF提取器失败: %v", err)
		}
		glog.Info("使用Eino PDF解析器")
	}

	var extractorLogger *log.Logger
	if cfg.Logger.Level == "debug" {
		extractorLogger = log.New(os.Stderr, "[ExtractorMain] ", log.LstdFlags|log.Lshortfile)
	} else {
		extractorLogger = log.New(io.Discard, "", 0)
	}

	docExtractor := parser.NewDocumentExtractor(pdfExtractor, extractorLogger)
	glog.Info("文档提取分发器初始化成功")

	repo := storage.NewInMemoryCandidateStore()

	pipelineOptions := []pipeline.PipelineOption{
		pipeline.WithReferenceYear(cfg.Extractor.ReferenceYear),
		pipeline.WithBatchConcurrency(cfg.Extractor.BatchConcurrency),
		pipeline.WithBatchPause(config.GetDuration(cfg.Extractor.BatchPause, time.Second)),
		pipeline.WithPipelineLogger(appCoreLogger.Logger),
	}

	// 模型辅助抽取：未配置API Key时退化为纯规则抽取
	if cfg.Model.APIKey != "" {
		modelName := cfg.GetModelForTask("candidate_extract")
		chatModel, err := parser.NewOpenAICompatChatModel(cfg.Model.APIKey, modelName, cfg.Model.APIURL, cfg.Model.Temperature, cfg.Model.MaxTokens)
		if err != nil {
			glog.Fatalf("初始化聊天模型失败: %v", err)
		}

		extractorOptions := []parser.LLMExtractorOption{
			parser.WithExtractorLogger(extractorLogger),
			parser.WithTruncateChars(cfg.Extractor.TruncateChars),
			parser.WithCallTimeout(config.GetDuration(cfg.Model.CallTimeout, 60*time.Second)),
			parser.WithRetryPolicy(cfg.Model.MaxRetries, time.Duration(cfg.Model.RetryWaitSecs)*time.Second),
		}
		if cfg.Model.FallbackName != "" && cfg.Model.FallbackName != modelName {
			fallbackModel, err := parser.NewOpenAICompatChatModel(cfg.Model.APIKey, cfg.Model.FallbackName, cfg.Model.APIURL, cfg.Model.Temperature, cfg.Model.MaxTokens)
			if err != nil {
				glog.Fatalf("初始化备用聊天模型失败: %v", err)
			}
			extractorOptions = append(extractorOptions, parser.WithFallbackModel(fallbackModel))
			glog.Infof("备用模型已配置: %s", cfg.Model.FallbackName)
		}

		llmExtractor := parser.NewLLMCandidateExtractor(chatModel, extractorOptions...)
		pipelineOptions = append(pipelineOptions, pipeline.WithModelExtractor(llmExtractor))
		glog.Infof("模型辅助抽取已启用: %s", modelName)
	} else {
		glog.Warn("未配置模型API Key，仅使用规则抽取")
	}

	pipe := pipeline.NewPipeline(docExtractor, repo, pipelineOptions...)
	glog.Info("抽取流水线初始化成功")

	candidateHandler := handler.NewCandidateHandler(pipe, repo)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, candidateHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initLogger 配置加载前的引导日志，级别和格式稍后由configureLogger按配置覆盖
func initLogger() {
	bootstrap := config.LoggerConfig{
		Level:        "info",
		Format:       "pretty",
		TimeFormat:   "15:04:05",
		ReportCaller: true,
	}
	configureLogger(bootstrap)
}

// configureLogger 按配置初始化日志系统：控制台与文件双写，
// 并把Hertz的hlog桥接到同一个zerolog实例
func configureLogger(cfg config.LoggerConfig) {
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = "15:04:05"
	}

	var writer io.Writer = os.Stderr
	if cfg.Format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: timeFormat,
		}
	}
	if err := os.MkdirAll("logs", 0755); err == nil {
		fileWriter, err := os.OpenFile("logs/app.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			writer = zerolog.MultiLevelWriter(writer, fileWriter)
		}
	}

	appCoreLogger.InitWithWriter(appCoreLogger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		TimeFormat:   timeFormat,
		ReportCaller: cfg.ReportCaller,
	}, writer)
	zlog.Logger = appCoreLogger.Logger

	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
	glog.SetLevel(hlogLevel(cfg.Level))
}

// hlogLevel 把配置中的日志级别映射到Hertz的hlog级别
func hlogLevel(level string) glog.Level {
	switch level {
	case "trace":
		return glog.LevelTrace
	case "debug":
		return glog.LevelDebug
	case "warn":
		return glog.LevelWarn
	case "error":
		return glog.LevelError
	case "fatal":
		return glog.LevelFatal
	default:
		return glog.LevelInfo
	}
}
