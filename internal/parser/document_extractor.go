package parser

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// TextExtractor 文本提取器接口，将文档字节流转为纯文本
type TextExtractor interface {
	// ExtractFromFile 从文件提取文本和元数据
	ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error)

	// ExtractTextFromReader 从io.Reader提取文本和元数据
	ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error)

	// ExtractTextFromBytes 从字节数组提取文本和元数据
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error)
}

// DocumentExtractor 按扩展名分发的文档文本提取入口。
// PDF交给配置的TextExtractor（Tika或Eino），DOCX和EML本地解析，
// EML中的附件会被递归提取并拼接。
type DocumentExtractor struct {
	pdfExtractor TextExtractor
	logger       *log.Logger
}

// NewDocumentExtractor 创建文档提取分发器
func NewDocumentExtractor(pdfExtractor TextExtractor, logger *log.Logger) *DocumentExtractor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &DocumentExtractor{
		pdfExtractor: pdfExtractor,
		logger:       logger,
	}
}

// SupportedExtension 判断扩展名是否受支持
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx", ".eml", ".txt":
		return true
	}
	return false
}

// ExtractText 从字节流提取纯文本，空结果视为提取失败
func (d *DocumentExtractor) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var text string
	var err error
	switch ext {
	case ".pdf":
		if d.pdfExtractor == nil {
			return "", fmt.Errorf("未配置PDF解析器: %s", filename)
		}
		text, _, err = d.pdfExtractor.ExtractTextFromBytes(ctx, data, filename, nil)
	case ".docx":
		text, err = ExtractDOCXText(data)
	case ".eml":
		text, err = d.extractEML(ctx, data, filename)
	case ".txt":
		text = string(data)
	default:
		return "", fmt.Errorf("不支持的文件类型: %s", ext)
	}

	if err != nil {
		return "", fmt.Errorf("提取文档文本失败 (%s): %w", filename, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("文档内容为空: %s", filename)
	}
	return text, nil
}

// ExtractTextFromFile 从磁盘文件提取纯文本
func (d *DocumentExtractor) ExtractTextFromFile(ctx context.Context, filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("读取文件失败 %s: %w", filePath, err)
	}
	return d.ExtractText(ctx, data, filePath)
}

// extractEML 解析邮件正文并递归提取所有受支持的附件
func (d *DocumentExtractor) extractEML(ctx context.Context, data []byte, filename string) (string, error) {
	msg, err := ParseEML(data)
	if err != nil {
		return "", err
	}

	var parts []string
	if strings.TrimSpace(msg.Body) != "" {
		parts = append(parts, msg.Body)
	}

	for _, att := range msg.Attachments {
		if !SupportedExtension(att.Filename) {
			d.logger.Printf("[DocumentExtractor] 跳过不支持的附件: %s", att.Filename)
			continue
		}
		text, err := d.ExtractText(ctx, att.Data, att.Filename)
		if err != nil {
			d.logger.Printf("[DocumentExtractor] 附件提取失败 %s: %v", att.Filename, err)
			continue
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("邮件中没有可提取的内容: %s", filename)
	}
	return strings.Join(parts, "\n\n"), nil
}
