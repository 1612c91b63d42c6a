package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"resume-extract-go/internal/logger"
	"resume-extract-go/internal/parser"
	"resume-extract-go/internal/pipeline"
	"resume-extract-go/internal/report"
	"resume-extract-go/internal/storage"
	"resume-extract-go/internal/types"
)

// ErrUnsupportedFileType 上传了不支持的文件类型
var ErrUnsupportedFileType = errors.New("不支持的文件类型")

// CandidateHandler 候选人接口处理器，协调流水线与仓储
type CandidateHandler struct {
	pipe *pipeline.Pipeline
	repo storage.CandidateRepository
}

// NewCandidateHandler 创建候选人接口处理器
func NewCandidateHandler(pipe *pipeline.Pipeline, repo storage.CandidateRepository) *CandidateHandler {
	return &CandidateHandler{
		pipe: pipe,
		repo: repo,
	}
}

// CandidateUploadResponse 单文件上传响应
type CandidateUploadResponse struct {
	Candidate *types.CandidateRecord `json:"candidate"`
}

// BatchItemResult 批量上传中单个文件的结果
type BatchItemResult struct {
	Filename  string                 `json:"filename"`
	Candidate *types.CandidateRecord `json:"candidate,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// BatchUploadResponse 批量上传响应
type BatchUploadResponse struct {
	Total   int               `json:"total"`
	Failed  int               `json:"failed"`
	Results []BatchItemResult `json:"results"`
}

// HandleUpload 处理单份简历上传
func (h *CandidateHandler) HandleUpload(ctx context.Context, fileHeader *multipart.FileHeader, extractAdditionalFields bool) (*CandidateUploadResponse, error) {
	if !parser.SupportedExtension(fileHeader.Filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, fileHeader.Filename)
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		return nil, err
	}

	record, err := h.pipe.ProcessDocument(ctx, data, fileHeader.Filename, extractAdditionalFields)
	if err != nil {
		logger.Error().
			Err(err).
			Str("filename", fileHeader.Filename).
			Msg("处理上传简历失败")
		return nil, err
	}

	return &CandidateUploadResponse{Candidate: record}, nil
}

// HandleBatchUpload 处理批量简历上传，单个文件失败不影响其余文件
func (h *CandidateHandler) HandleBatchUpload(ctx context.Context, fileHeaders []*multipart.FileHeader, extractAdditionalFields bool) (*BatchUploadResponse, error) {
	if len(fileHeaders) == 0 {
		return nil, errors.New("批量上传文件列表为空")
	}

	resp := &BatchUploadResponse{
		Total:   len(fileHeaders),
		Results: make([]BatchItemResult, len(fileHeaders)),
	}

	// 读取失败或不支持的文件在提交流水线前先行出结果，
	// docIndexes 记录每个提交文档对应的原始位置，文件名可以重复
	docs := make([]pipeline.BatchDocument, 0, len(fileHeaders))
	docIndexes := make([]int, 0, len(fileHeaders))
	for i, fh := range fileHeaders {
		if !parser.SupportedExtension(fh.Filename) {
			resp.Failed++
			resp.Results[i] = BatchItemResult{Filename: fh.Filename, Error: ErrUnsupportedFileType.Error()}
			continue
		}
		data, err := readMultipartFile(fh)
		if err != nil {
			resp.Failed++
			resp.Results[i] = BatchItemResult{Filename: fh.Filename, Error: err.Error()}
			continue
		}
		docs = append(docs, pipeline.BatchDocument{Filename: fh.Filename, Data: data})
		docIndexes = append(docIndexes, i)
	}

	batchResults := h.pipe.ProcessBatch(ctx, docs, extractAdditionalFields)

	for j, r := range batchResults {
		item := BatchItemResult{Filename: r.Filename, Candidate: r.Record}
		if r.Err != nil {
			resp.Failed++
			item.Error = r.Err.Error()
			item.Candidate = nil
		}
		resp.Results[docIndexes[j]] = item
	}
	return resp, nil
}

// HandleList 返回全部候选人记录
func (h *CandidateHandler) HandleList(ctx context.Context) ([]*types.CandidateRecord, error) {
	return h.repo.List(ctx)
}

// HandleGetByID 按ID查询候选人记录
func (h *CandidateHandler) HandleGetByID(ctx context.Context, id string) (*types.CandidateRecord, error) {
	return h.repo.GetByID(ctx, id)
}

// HandleExport 导出全部候选人记录为xlsx字节流
func (h *CandidateHandler) HandleExport(ctx context.Context) ([]byte, error) {
	records, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.WriteWorkbook(records)
}

// HandleDeleteAll 清空候选人记录，返回删除条数
func (h *CandidateHandler) HandleDeleteAll(ctx context.Context) (int, error) {
	deleted, err := h.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	logger.Info().Int("deleted", deleted).Msg("已清空候选人记录")
	return deleted, nil
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	return data, nil
}
