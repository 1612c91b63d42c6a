package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// EinoPDFTextExtractor 使用 Eino PDF Parser 提取文本，
// 不依赖外部服务，适合本地部署
type EinoPDFTextExtractor struct {
	parser *pdf.PDFParser
	logger *log.Logger
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithEinoLogger 配置自定义日志记录器
func WithEinoLogger(logger *log.Logger) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		e.logger = logger
	}
}

var _ TextExtractor = (*EinoPDFTextExtractor)(nil)

// NewEinoPDFTextExtractor 初始化 Eino PDF 文本提取器。
// 不按页面分割，整份文档作为单个连续文本返回。
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("创建Eino PDF解析器失败: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser: p,
		logger: log.New(os.Stderr, "[PDF解析器] ", log.LstdFlags),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor, nil
}

// ExtractFromFile 从PDF文件提取文本和元数据
func (e *EinoPDFTextExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("打开PDF文件失败 %s: %w", filePath, err)
	}
	defer file.Close()

	extraMeta := map[string]interface{}{
		"source_file_path": filePath,
		"extraction_time":  time.Now().Format(time.RFC3339),
	}
	return e.ExtractTextFromReader(ctx, file, filePath, extraMeta)
}

// ExtractTextFromReader 从 io.Reader 中提取文本
func (e *EinoPDFTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error) {
	extraMeta, ok := options.(map[string]interface{})
	if !ok {
		extraMeta = make(map[string]interface{})
	}

	startTime := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(extraMeta),
	)

	duration := time.Since(startTime)
	if err != nil {
		e.logger.Printf("PDF提取失败 (URI: %s): %v (用时 %.2f秒)", uri, err, duration.Seconds())
		return "", extraMeta, fmt.Errorf("eino PDF解析失败 (URI %s): %w", uri, err)
	}
	if len(docs) == 0 {
		return "", extraMeta, fmt.Errorf("eino PDF解析无结果 (URI %s)", uri)
	}

	var fullContent bytes.Buffer
	for i, doc := range docs {
		fullContent.WriteString(doc.Content)
		if i < len(docs)-1 {
			fullContent.WriteString("\n\n")
		}
	}

	finalMetadata := make(map[string]interface{})
	if docs[0].MetaData != nil {
		finalMetadata = docs[0].MetaData
	}
	for k, v := range extraMeta {
		finalMetadata[k] = v
	}
	finalMetadata["processing_duration_ms"] = duration.Milliseconds()
	finalMetadata["text_length"] = fullContent.Len()

	e.logger.Printf("PDF提取完成: %d 个字符 (用时 %.2f秒)", fullContent.Len(), duration.Seconds())
	return fullContent.String(), finalMetadata, nil
}

// ExtractTextFromBytes 从字节数组提取文本内容
func (e *EinoPDFTextExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error) {
	return e.ExtractTextFromReader(ctx, bytes.NewReader(data), uri, options)
}
