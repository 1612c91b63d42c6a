package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TikaTextExtractor 基于Apache Tika服务器的文本提取器，
// 支持PDF之外的更多格式，按扩展名设置Content-Type
type TikaTextExtractor struct {
	// Tika服务器地址，例如 http://localhost:9998
	ServerURL string
	// HTTP客户端，可配置超时
	Client *http.Client
	logger *log.Logger
}

// TikaOption Tika提取器的配置选项
type TikaOption func(*TikaTextExtractor)

// WithTikaLogger 配置自定义日志记录器
func WithTikaLogger(logger *log.Logger) TikaOption {
	return func(e *TikaTextExtractor) {
		e.logger = logger
	}
}

// WithTikaTimeout 配置HTTP客户端超时时间
func WithTikaTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaTextExtractor) {
		e.Client.Timeout = timeout
	}
}

var _ TextExtractor = (*TikaTextExtractor)(nil)

// NewTikaTextExtractor 创建一个新的Tika文本提取器
func NewTikaTextExtractor(serverURL string, options ...TikaOption) *TikaTextExtractor {
	extractor := &TikaTextExtractor{
		ServerURL: serverURL,
		Client:    &http.Client{Timeout: 60 * time.Second},
		logger:    log.New(os.Stderr, "[Tika] ", log.LstdFlags),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

// ExtractFromFile 从文件提取文本和元数据
func (e *TikaTextExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("读取文件失败 %s: %w", filePath, err)
	}
	return e.ExtractTextFromBytes(ctx, data, filePath, nil)
}

// ExtractTextFromReader 从io.Reader提取文本内容
func (e *TikaTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", nil, fmt.Errorf("读取文档内容失败: %w", err)
	}
	return e.ExtractTextFromBytes(ctx, data, uri, options)
}

// ExtractTextFromBytes 通过 PUT /tika 将字节流交给Tika服务器做纯文本提取
func (e *TikaTextExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error) {
	startTime := time.Now()

	metadata := map[string]interface{}{
		"extraction_time":  time.Now().Format(time.RFC3339),
		"source_file_path": uri,
	}

	url := fmt.Sprintf("%s/tika", e.ServerURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", metadata, fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	req.Header.Set("Content-Type", contentTypeFor(uri))
	req.Header.Set("Accept", "text/plain")
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", metadata, fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", metadata, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", metadata, fmt.Errorf("读取Tika响应失败: %w", err)
	}

	duration := time.Since(startTime)
	metadata["processing_duration_ms"] = duration.Milliseconds()
	metadata["text_length"] = len(body)

	e.logger.Printf("Tika提取完成 (URI: %s): %d 个字符 (用时 %.2f秒)", uri, len(body), duration.Seconds())
	return string(body), metadata, nil
}

// contentTypeFor 按扩展名推断请求的Content-Type
func contentTypeFor(uri string) string {
	switch strings.ToLower(filepath.Ext(uri)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".eml":
		return "message/rfc822"
	default:
		return "application/octet-stream"
	}
}
