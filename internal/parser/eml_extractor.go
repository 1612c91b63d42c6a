package parser

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

// EMLMessage 解析后的邮件：正文文本加附件字节流列表
type EMLMessage struct {
	Subject     string
	Body        string
	Attachments []EMLAttachment
}

// EMLAttachment 邮件附件
type EMLAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ParseEML 解析EML字节流，展开MIME multipart结构，
// 收集纯文本正文和全部附件
func ParseEML(data []byte) (*EMLMessage, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解析邮件失败: %w", err)
	}

	result := &EMLMessage{Subject: msg.Header.Get("Subject")}

	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		if err := walkMultipart(msg.Body, params["boundary"], result); err != nil {
			return nil, err
		}
		return result, nil
	}

	body, err := decodePart(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	if err != nil {
		return nil, err
	}
	result.Body = string(body)
	return result, nil
}

// walkMultipart 递归遍历multipart结构
func walkMultipart(r io.Reader, boundary string, result *EMLMessage) error {
	if boundary == "" {
		return fmt.Errorf("multipart邮件缺少boundary")
	}

	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("读取MIME part失败: %w", err)
		}

		partType := part.Header.Get("Content-Type")
		mediaType, params, mtErr := mime.ParseMediaType(partType)
		if mtErr != nil {
			mediaType = "text/plain"
		}

		if strings.HasPrefix(mediaType, "multipart/") {
			if err := walkMultipart(part, params["boundary"], result); err != nil {
				return err
			}
			continue
		}

		filename := part.FileName()
		encoding := part.Header.Get("Content-Transfer-Encoding")

		if filename != "" {
			payload, err := decodePart(part, encoding)
			if err != nil {
				continue
			}
			result.Attachments = append(result.Attachments, EMLAttachment{
				Filename:    filename,
				ContentType: mediaType,
				Data:        payload,
			})
			continue
		}

		// 正文只取第一个text/plain part
		if mediaType == "text/plain" && result.Body == "" {
			payload, err := decodePart(part, encoding)
			if err != nil {
				continue
			}
			result.Body = string(payload)
		}
	}
}

// decodePart 按Content-Transfer-Encoding解码part内容
func decodePart(r io.Reader, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("解码邮件内容失败: %w", err)
	}
	return data, nil
}
