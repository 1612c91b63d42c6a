package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-extract-go/internal/constants"
	"resume-extract-go/internal/parser"
	"resume-extract-go/internal/storage"
	"resume-extract-go/internal/types"
)

// stubChatModel 固定响应或固定错误的模型桩
type stubChatModel struct {
	response  string
	err       error
	callCount int
}

func (m *stubChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return &schema.Message{Role: schema.Assistant, Content: m.response}, nil
}

func (m *stubChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stub不支持流式调用")
}

func (m *stubChatModel) BindTools(tools []*schema.ToolInfo) error { return nil }

func (m *stubChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

const sampleText = `JOHN MICHAEL SMITH
john.smith@example.com
Phone: +1 415 555 0100
linkedin.com/in/johnsmith

PROFESSIONAL SUMMARY
Software engineer with 5 years of experience building web services.

SKILLS
Python, React, AWS, Git
`

const stubModelJSON = `{
	"name": "John Michael Smith",
	"email": "john.smith@example.com",
	"experienceYears": "6 years",
	"primarySkills": ["Python", "Go"],
	"secondarySkills": ["Git", "Jira"]
}`

func newRulePipeline() *Pipeline {
	return NewPipeline(parser.NewDocumentExtractor(nil, nil), storage.NewInMemoryCandidateStore(),
		WithReferenceYear(2025))
}

func TestPipelineExtractCandidateInfo(t *testing.T) {
	p := newRulePipeline()

	record, err := p.ExtractCandidateInfo(context.Background(), sampleText, false)
	require.NoError(t, err, "规则抽取不应失败")

	assert.NotEmpty(t, record.Identity, "记录应分配ID")
	assert.Equal(t, "John Michael Smith", record.Name, "姓名应被抽取")
	require.NotNil(t, record.Email)
	assert.Equal(t, "john.smith@example.com", *record.Email, "邮箱应被抽取")

	other, err := p.ExtractCandidateInfo(context.Background(), sampleText, false)
	require.NoError(t, err)
	assert.NotEqual(t, record.Identity, other.Identity, "每次抽取应分配不同的ID")
}

func TestPipelineExtractCandidateInfoEmptyText(t *testing.T) {
	p := newRulePipeline()

	_, err := p.ExtractCandidateInfo(context.Background(), "   \n\t  ", false)
	require.Error(t, err, "空文本应返回错误")
	assert.ErrorIs(t, err, ErrEmptyExtractedText, "应是空文本哨兵错误")
}

func TestPipelineModelMergeWins(t *testing.T) {
	stub := &stubChatModel{response: stubModelJSON}
	p := NewPipeline(parser.NewDocumentExtractor(nil, nil), storage.NewInMemoryCandidateStore(),
		WithReferenceYear(2025),
		WithModelExtractor(parser.NewLLMCandidateExtractor(stub)))

	record, err := p.ExtractCandidateInfoWithModel(context.Background(), sampleText, false)
	require.NoError(t, err, "双路抽取不应失败")

	assert.Equal(t, 1, stub.callCount, "模型应被调用一次")
	assert.Equal(t, "6 years", record.ExperienceYears, "合法的模型经验年限应胜出")
	assert.Contains(t, record.PrimarySkills, "Go", "技能应合并模型结果")
	assert.Contains(t, record.PrimarySkills, "Python", "技能应保留规则结果")
	require.NotNil(t, record.Phone, "模型缺失电话时应保留规则结果")
}

func TestPipelineModelFailureDegrades(t *testing.T) {
	stub := &stubChatModel{err: errors.New("model unavailable: 503")}
	p := NewPipeline(parser.NewDocumentExtractor(nil, nil), storage.NewInMemoryCandidateStore(),
		WithReferenceYear(2025),
		WithModelExtractor(parser.NewLLMCandidateExtractor(stub)))

	record, err := p.ExtractCandidateInfoWithModel(context.Background(), sampleText, false)
	require.NoError(t, err, "模型失败不应向调用方传播错误")

	ruleOnly, err := newRulePipeline().ExtractCandidateInfo(context.Background(), sampleText, false)
	require.NoError(t, err)

	// ID由uuid生成，比较前对齐
	ruleOnly.Identity = record.Identity
	assert.Equal(t, ruleOnly, record, "降级结果应与纯规则抽取一致")
}

func TestPipelineProcessDocument(t *testing.T) {
	store := storage.NewInMemoryCandidateStore()
	p := NewPipeline(parser.NewDocumentExtractor(nil, nil), store, WithReferenceYear(2025))

	record, err := p.ProcessDocument(context.Background(), []byte(sampleText), "john_smith.txt", true)
	require.NoError(t, err, "处理文档不应失败")

	assert.Equal(t, "john_smith.txt", record.OriginalFilename, "应记录原始文件名")
	assert.Equal(t, int64(len(sampleText)), record.FileSize, "应记录文件大小")
	assert.False(t, record.ProcessedAt.IsZero(), "应记录处理时间")

	stored, err := store.GetByID(context.Background(), record.Identity)
	require.NoError(t, err, "记录应已入库")
	assert.Equal(t, record.Name, stored.Name)
}

func TestPipelineProcessDocumentLogMasksName(t *testing.T) {
	var buf bytes.Buffer
	store := storage.NewInMemoryCandidateStore()
	p := NewPipeline(parser.NewDocumentExtractor(nil, nil), store,
		WithReferenceYear(2025),
		WithPipelineLogger(zerolog.New(&buf)))

	record, err := p.ProcessDocument(context.Background(), []byte(sampleText), "john_smith.txt", false)
	require.NoError(t, err, "处理文档不应失败")
	require.Equal(t, "John Michael Smith", record.Name)

	logged := buf.String()
	assert.NotContains(t, logged, "John Michael Smith", "日志中不应出现完整姓名")
	assert.Contains(t, logged, "Jo**************th", "日志中的姓名应被掩码")
}

func TestPipelineProcessDocumentUnsupported(t *testing.T) {
	p := newRulePipeline()

	_, err := p.ProcessDocument(context.Background(), []byte("data"), "resume.xls", false)
	require.Error(t, err, "不支持的扩展名应失败")
	assert.ErrorIs(t, err, ErrParseDocumentFailed, "应是文档解析错误")
}

func TestPipelineProcessBatch(t *testing.T) {
	store := storage.NewInMemoryCandidateStore()
	p := NewPipeline(parser.NewDocumentExtractor(nil, nil), store,
		WithReferenceYear(2025),
		WithBatchConcurrency(2),
		WithBatchPause(time.Millisecond))

	docs := make([]BatchDocument, 0, 5)
	for i := 0; i < 4; i++ {
		docs = append(docs, BatchDocument{
			Filename: fmt.Sprintf("resume_%d.txt", i),
			Data:     []byte(sampleText),
		})
	}
	// 混入一个会失败的文档
	docs = append(docs, BatchDocument{Filename: "broken.xls", Data: []byte("x")})

	results := p.ProcessBatch(context.Background(), docs, false)
	require.Len(t, results, 5, "结果数应与输入数一致")

	for i := 0; i < 4; i++ {
		assert.NoError(t, results[i].Err, "合法文档不应失败")
		require.NotNil(t, results[i].Record)
		assert.Equal(t, docs[i].Filename, results[i].Filename, "结果顺序应与输入一致")
	}
	assert.Error(t, results[4].Err, "失败文档应携带错误")
	assert.Nil(t, results[4].Record)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count, "只有成功的记录入库")
}

func TestMergeRecordsFieldPolicy(t *testing.T) {
	rule := &types.CandidateRecord{
		Identity:        "fixed-id",
		Name:            constants.NameNotFound,
		Email:           types.StrPtr("rule@example.com"),
		Phone:           types.StrPtr("not-a-phone"),
		ExperienceYears: "3 years",
		PrimarySkills:   []string{"Python"},
	}
	model := &types.CandidateRecord{
		Name:            "Priya Sharma",
		Email:           types.StrPtr("model@example.com"),
		Phone:           types.StrPtr("+91 98765 43210"),
		ExperienceYears: "999 years",
		PrimarySkills:   []string{"Go"},
		AdditionalFields: &types.AdditionalFields{
			Location: types.StrPtr("Bangalore"),
		},
	}

	merged := MergeRecords(rule, model)

	assert.Equal(t, "fixed-id", merged.Identity, "ID应始终取规则记录")
	assert.Equal(t, "Priya Sharma", merged.Name, "规则姓名为哨兵时模型姓名胜出")
	assert.Equal(t, "rule@example.com", *merged.Email, "合法的规则邮箱应胜出")
	assert.Equal(t, "+91 98765 43210", *merged.Phone, "非法的规则电话应让位于模型值")
	assert.Equal(t, "3 years", merged.ExperienceYears, "越界的模型经验年限应被拒绝")
	assert.Equal(t, []string{"Go", "Python"}, merged.PrimarySkills, "技能合并模型在前")
	require.NotNil(t, merged.AdditionalFields)
	assert.Equal(t, "Bangalore", *merged.AdditionalFields.Location, "规则侧缺失的扩展字段由模型补齐")
}

func TestMergeRecordsNilModel(t *testing.T) {
	rule := &types.CandidateRecord{Identity: "id", Name: "A"}
	assert.Same(t, rule, MergeRecords(rule, nil), "模型记录缺席时规则记录原样胜出")
}
