package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 应用程序配置
type Config struct {
	// Model OpenAI兼容的生成模型接入配置
	Model ModelConfig `yaml:"model"`

	// Tika 文本提取服务器配置
	Tika TikaConfig `yaml:"tika"`

	// Server HTTP服务器配置
	Server ServerConfig `yaml:"server"`

	// Extractor 抽取管线配置
	Extractor ExtractorConfig `yaml:"extractor"`

	// Logger 日志配置
	Logger LoggerConfig `yaml:"logger"`
}

// ModelConfig 生成模型配置
type ModelConfig struct {
	APIKey        string            `yaml:"api_key"`
	APIURL        string            `yaml:"api_url"`
	Name          string            `yaml:"name"`           // 首选模型
	FallbackName  string            `yaml:"fallback_name"`  // 首选模型失败后重试一次的备用模型
	TaskModels    map[string]string `yaml:"task_models"`    // 任务专用模型
	Temperature   float64           `yaml:"temperature"`    // 为保证可复现应接近0
	MaxTokens     int               `yaml:"max_tokens"`     // 最大输出token数
	CallTimeout   string            `yaml:"call_timeout"`   // 单次调用超时，例如 "60s"
	MaxRetries    int               `yaml:"max_retries"`    // 可重试错误的最大重试次数
	RetryWaitSecs int               `yaml:"retry_wait_secs"` // 首次重试等待时间(秒)
}

// TikaConfig Tika服务器配置
type TikaConfig struct {
	ServerURL string `yaml:"server_url"`      // Tika服务器URL
	Timeout   int    `yaml:"timeout_seconds"` // 超时时间(秒)
	Type      string `yaml:"type"`            // 解析器类型，"tika" 或 "eino"
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8080"
}

// ExtractorConfig 抽取管线配置
type ExtractorConfig struct {
	// ReferenceYear 开放日期区间("present")锚定的年份，0表示使用当前系统年份
	ReferenceYear int `yaml:"reference_year"`
	// BatchConcurrency 批处理时模型调用的并发上限
	BatchConcurrency int `yaml:"batch_concurrency"`
	// BatchPause 批次之间的停顿，例如 "1s"
	BatchPause string `yaml:"batch_pause"`
	// TruncateChars 提交给模型前的文本截断长度
	TruncateChars int `yaml:"truncate_chars"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// LoadConfig 从文件加载配置，并用环境变量覆盖敏感项
func LoadConfig(configPath string) (*Config, error) {
	// 允许通过 .env 提供环境变量，文件不存在时静默忽略
	_ = godotenv.Load()

	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".resume-extract", "config.yaml"),
		}

		execPath, err := os.Executable()
		if err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		// 测试环境下找不到配置文件时回退到默认配置
		if configPath == "" {
			if inTestEnv() {
				return createDefaultConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	if _, err := os.Stat(configPath); err != nil {
		if inTestEnv() {
			return createDefaultConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖
	if envKey := os.Getenv("MODEL_API_KEY"); envKey != "" {
		config.Model.APIKey = envKey
	}
	if envURL := os.Getenv("MODEL_API_URL"); envURL != "" {
		config.Model.APIURL = envURL
	}
	if envModel := os.Getenv("MODEL_NAME"); envModel != "" {
		config.Model.Name = envModel
	}

	applyDefaults(&config)
	return &config, nil
}

// inTestEnv 判断是否在 go test 进程中运行
func inTestEnv() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// applyDefaults 填充未设置的默认值
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if config.Model.APIURL == "" {
		config.Model.APIURL = "https://api.openai.com/v1/chat/completions"
	}
	if config.Model.Name == "" {
		config.Model.Name = "gpt-4o-mini"
	}
	if config.Model.MaxTokens == 0 {
		config.Model.MaxTokens = 2048
	}
	if config.Model.CallTimeout == "" {
		config.Model.CallTimeout = "60s"
	}
	if config.Model.MaxRetries == 0 {
		config.Model.MaxRetries = 2
	}
	if config.Model.RetryWaitSecs == 0 {
		config.Model.RetryWaitSecs = 2
	}
	if config.Extractor.BatchConcurrency == 0 {
		config.Extractor.BatchConcurrency = 5
	}
	if config.Extractor.BatchPause == "" {
		config.Extractor.BatchPause = "1s"
	}
	if config.Extractor.TruncateChars == 0 {
		config.Extractor.TruncateChars = 8000
	}
	if config.Tika.Timeout == 0 {
		config.Tika.Timeout = 60
	}
}

// 创建一个默认配置，用于测试环境
func createDefaultConfig() *Config {
	config := &Config{}

	if envKey := os.Getenv("MODEL_API_KEY"); envKey != "" {
		config.Model.APIKey = envKey
	} else {
		config.Model.APIKey = "test_api_key"
	}
	config.Model.Temperature = 0

	config.Tika.ServerURL = "http://localhost:9998"
	config.Tika.Type = "eino"

	config.Logger.Level = "info"
	config.Logger.Format = "pretty"
	config.Logger.TimeFormat = "2006-01-02 15:04:05"
	config.Logger.ReportCaller = true

	applyDefaults(config)
	return config
}

// GetModelForTask 根据任务名称获取模型，任务专用模型优先于默认模型
func (c *Config) GetModelForTask(taskName string) string {
	if c.Model.TaskModels != nil {
		if model, ok := c.Model.TaskModels[taskName]; ok && model != "" {
			return model
		}
	}
	return c.Model.Name
}

// GetDuration 解析配置中的时长字符串，失败时使用默认值
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}
