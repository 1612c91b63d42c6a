package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"resume-extract-go/internal/constants"
	"resume-extract-go/internal/extractor"
	"resume-extract-go/internal/parser"
	"resume-extract-go/internal/storage"
	"resume-extract-go/internal/tracing"
	"resume-extract-go/internal/types"
)

// 定义tracer
var tracer = otel.Tracer("pipeline")

// Pipeline 候选人信息抽取流水线。
// 规则抽取始终执行，模型抽取可选，模型失败时降级为纯规则结果。
type Pipeline struct {
	docExtractor     *parser.DocumentExtractor
	llmExtractor     *parser.LLMCandidateExtractor
	repo             storage.CandidateRepository
	logger           zerolog.Logger
	referenceYear    int
	batchConcurrency int
	batchPause       time.Duration
}

// PipelineOption 流水线配置选项
type PipelineOption func(*Pipeline)

// WithModelExtractor 启用模型辅助抽取
func WithModelExtractor(e *parser.LLMCandidateExtractor) PipelineOption {
	return func(p *Pipeline) {
		p.llmExtractor = e
	}
}

// WithReferenceYear 固定经验年限计算的基准年份，零值表示使用当前年份
func WithReferenceYear(year int) PipelineOption {
	return func(p *Pipeline) {
		p.referenceYear = year
	}
}

// WithBatchConcurrency 设置批量处理的并发上限
func WithBatchConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchConcurrency = n
		}
	}
}

// WithBatchPause 设置批量处理分组之间的停顿时长
func WithBatchPause(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d >= 0 {
			p.batchPause = d
		}
	}
}

// WithPipelineLogger 设置流水线日志器
func WithPipelineLogger(logger zerolog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline 创建抽取流水线
func NewPipeline(docExtractor *parser.DocumentExtractor, repo storage.CandidateRepository, options ...PipelineOption) *Pipeline {
	p := &Pipeline{
		docExtractor:     docExtractor,
		repo:             repo,
		logger:           zerolog.Nop(),
		batchConcurrency: constants.BatchModelConcurrency,
		batchPause:       constants.BatchPauseInterval,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *Pipeline) currentReferenceYear() int {
	if p.referenceYear > 0 {
		return p.referenceYear
	}
	return time.Now().Year()
}

// ExtractCandidateInfo 对文本执行纯规则抽取并分配记录ID
func (p *Pipeline) ExtractCandidateInfo(ctx context.Context, text string, extractAdditionalFields bool) (*types.CandidateRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewEmptyTextError("", "输入文本为空")
	}

	record := extractor.ExtractCandidateInfoAt(text, extractAdditionalFields, p.currentReferenceYear())
	record.Identity = uuid.New().String()
	return record, nil
}

// ExtractCandidateInfoWithModel 执行规则加模型的双路抽取。
// 模型抽取失败只记录日志和span事件，最终结果降级为规则记录，
// 不向调用方返回模型错误。
func (p *Pipeline) ExtractCandidateInfoWithModel(ctx context.Context, text string, extractAdditionalFields bool) (*types.CandidateRecord, error) {
	ctx, span := tracer.Start(ctx, "ExtractCandidateInfoWithModel")
	defer span.End()

	ruleRecord, err := p.ExtractCandidateInfo(ctx, text, extractAdditionalFields)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	span.SetAttributes(attribute.String("record.id", ruleRecord.Identity))

	if p.llmExtractor == nil {
		return ruleRecord, nil
	}

	modelRecord, err := p.llmExtractor.ExtractCandidate(ctx, text, extractAdditionalFields)
	if err != nil {
		modelErr := NewModelError(ruleRecord.Identity, err.Error())
		span.RecordError(modelErr)
		span.AddEvent("model_extraction_degraded")
		p.logger.Warn().
			Str("record_id", ruleRecord.Identity).
			Err(err).
			Msg("模型辅助抽取失败，降级为规则抽取结果")
		return ruleRecord, nil
	}

	merged := MergeRecords(ruleRecord, modelRecord)
	span.SetStatus(codes.Ok, "双路抽取完成")
	return merged, nil
}

// ProcessDocument 处理单份文档：提取文本、抽取字段、附加来源信息并入库
func (p *Pipeline) ProcessDocument(ctx context.Context, data []byte, filename string, extractAdditionalFields bool) (*types.CandidateRecord, error) {
	ctx, span := tracer.Start(ctx, "ProcessDocument")
	defer span.End()
	span.SetAttributes(
		attribute.String("document.filename", tracing.SafeAttributeValue("document.filename", filename, tracing.DefaultMaxLength)),
		attribute.Int("document.size_bytes", len(data)),
	)

	text, err := p.docExtractor.ExtractText(ctx, data, filename)
	if err != nil {
		parseErr := NewParseError("", err.Error())
		tracing.RecordError(span, parseErr, tracing.ErrorTypeParse)
		return nil, parseErr
	}

	record, err := p.ExtractCandidateInfoWithModel(ctx, text, extractAdditionalFields)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	record.OriginalFilename = filename
	record.FileSize = int64(len(data))
	record.ProcessedAt = time.Now()
	record.RawText = text

	if p.repo != nil {
		if err := p.repo.Create(ctx, record); err != nil {
			storeErr := NewStoreError(record.Identity, err.Error())
			tracing.RecordError(span, storeErr, tracing.ErrorTypeStorage)
			return nil, storeErr
		}
	}

	p.logger.Info().
		Str("record_id", record.Identity).
		Str("filename", filename).
		Str("name", tracing.MaskPII(record.Name)).
		Msg("文档处理完成")
	span.SetStatus(codes.Ok, "处理成功")
	return record, nil
}

// BatchDocument 批量处理的单个输入文档
type BatchDocument struct {
	Filename string
	Data     []byte
}

// BatchResult 批量处理的单个结果，Err非空时Record为nil
type BatchResult struct {
	Filename string
	Record   *types.CandidateRecord
	Err      error
}

// ProcessBatch 批量处理文档。按并发上限分组并行处理，
// 组与组之间停顿以缓解模型侧限流。单个文档失败不影响其他文档，
// 结果顺序与输入顺序一致。
func (p *Pipeline) ProcessBatch(ctx context.Context, docs []BatchDocument, extractAdditionalFields bool) []BatchResult {
	ctx, span := tracer.Start(ctx, "ProcessBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(docs)))

	results := make([]BatchResult, len(docs))

	for start := 0; start < len(docs); start += p.batchConcurrency {
		end := start + p.batchConcurrency
		if end > len(docs) {
			end = len(docs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				doc := docs[idx]
				record, err := p.ProcessDocument(ctx, doc.Data, doc.Filename, extractAdditionalFields)
				results[idx] = BatchResult{
					Filename: doc.Filename,
					Record:   record,
					Err:      err,
				}
			}(i)
		}
		wg.Wait()

		// 还有下一组时停顿，避免触发模型侧限流
		if end < len(docs) && p.batchPause > 0 {
			select {
			case <-time.After(p.batchPause):
			case <-ctx.Done():
				for i := end; i < len(docs); i++ {
					results[i] = BatchResult{Filename: docs[i].Filename, Err: ctx.Err()}
				}
				return results
			}
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("batch.failed", failed))
	p.logger.Info().
		Int("total", len(docs)).
		Int("failed", failed).
		Msg("批量处理完成")
	return results
}
