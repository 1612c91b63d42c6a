package pipeline

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrEmptyExtractedText  = errors.New("提取的文档文本为空")
	ErrParseDocumentFailed = errors.New("提取文档文本失败")
	ErrModelCallFailed     = errors.New("模型辅助抽取失败")
	ErrStoreRecordFailed   = errors.New("保存候选人记录失败")
)

// ExtractProcessError 包含详细错误信息的自定义错误
type ExtractProcessError struct {
	RecordID string
	Op       string
	BaseErr  error
	Detail   string
}

func (e *ExtractProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, ID:%s): %s", e.BaseErr, e.Op, e.RecordID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, ID:%s)", e.BaseErr, e.Op, e.RecordID)
}

func (e *ExtractProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ExtractProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewEmptyTextError(id, detail string) error {
	return &ExtractProcessError{
		RecordID: id,
		Op:       "extract",
		BaseErr:  ErrEmptyExtractedText,
		Detail:   detail,
	}
}

func NewParseError(id, detail string) error {
	return &ExtractProcessError{
		RecordID: id,
		Op:       "parse",
		BaseErr:  ErrParseDocumentFailed,
		Detail:   detail,
	}
}

func NewModelError(id, detail string) error {
	return &ExtractProcessError{
		RecordID: id,
		Op:       "model",
		BaseErr:  ErrModelCallFailed,
		Detail:   detail,
	}
}

func NewStoreError(id, detail string) error {
	return &ExtractProcessError{
		RecordID: id,
		Op:       "store",
		BaseErr:  ErrStoreRecordFailed,
		Detail:   detail,
	}
}
