package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"

	"resume-extract-go/internal/constants"
	"resume-extract-go/internal/extractor"
	"resume-extract-go/internal/tracing"
	"resume-extract-go/internal/types"
)

// LLMCandidateExtractor 模型辅助的候选人信息抽取器。
// 将截断后的原始文本连同结构化输出提示一起提交给生成模型，
// 从响应中提取JSON并规范化为与规则路径相同的记录形状。
type LLMCandidateExtractor struct {
	// 首选模型
	llmModel model.ToolCallingChatModel

	// 首选模型失败后重试一次的备用模型
	fallbackModel model.ToolCallingChatModel

	// 提示词模板
	promptTemplate string

	// 少样本示例
	fewShotExamples string

	// 提交前的文本截断长度
	truncateChars int

	// 可重试错误的最大重试次数
	maxRetries int

	// 首次重试的等待时间
	retryWait time.Duration

	// 单次调用超时
	callTimeout time.Duration

	logger *log.Logger
}

// llmCandidatePayload 模型按schema返回的JSON结构
type llmCandidatePayload struct {
	Name            *string               `json:"name"`
	Email           *string               `json:"email"`
	Phone           *string               `json:"phone"`
	ExperienceYears *string               `json:"experienceYears"`
	LinkedinURL     *string               `json:"linkedinUrl"`
	PrimarySkills   []string              `json:"primarySkills"`
	SecondarySkills []string              `json:"secondarySkills"`
	Additional      *llmAdditionalPayload `json:"additionalFields"`
}

type llmAdditionalPayload struct {
	Education      *string  `json:"education"`
	Location       *string  `json:"location"`
	CurrentRole    *string  `json:"currentRole"`
	Summary        *string  `json:"summary"`
	Certifications []string `json:"certifications"`
	Languages      []string `json:"languages"`
	Projects       *string  `json:"projects"`
	Companies      *string  `json:"companies"`
}

// LLMExtractorOption 抽取器的配置选项
type LLMExtractorOption func(*LLMCandidateExtractor)

// WithFallbackModel 设置备用模型，首选模型不可用时重试一次
func WithFallbackModel(m model.ToolCallingChatModel) LLMExtractorOption {
	return func(e *LLMCandidateExtractor) {
		e.fallbackModel = m
	}
}

// WithTruncateChars 设置提交前的文本截断长度
func WithTruncateChars(n int) LLMExtractorOption {
	return func(e *LLMCandidateExtractor) {
		if n > 0 {
			e.truncateChars = n
		}
	}
}

// WithExtractorLogger 设置自定义日志记录器
func WithExtractorLogger(logger *log.Logger) LLMExtractorOption {
	return func(e *LLMCandidateExtractor) {
		e.logger = logger
	}
}

// WithCallTimeout 设置单次模型调用的超时
func WithCallTimeout(d time.Duration) LLMExtractorOption {
	return func(e *LLMCandidateExtractor) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// WithRetryPolicy 设置可重试错误的最大重试次数和首次重试等待时间
func WithRetryPolicy(maxRetries int, retryWait time.Duration) LLMExtractorOption {
	return func(e *LLMCandidateExtractor) {
		if maxRetries >= 0 {
			e.maxRetries = maxRetries
		}
		if retryWait > 0 {
			e.retryWait = retryWait
		}
	}
}

// WithCustomFewShotExamples 覆盖默认的少样本示例
func WithCustomFewShotExamples(examples string) LLMExtractorOption {
	return func(e *LLMCandidateExtractor) {
		e.fewShotExamples = examples
	}
}

// NewLLMCandidateExtractor 创建模型辅助抽取器
func NewLLMCandidateExtractor(llmModel model.ToolCallingChatModel, options ...LLMExtractorOption) *LLMCandidateExtractor {
	e := &LLMCandidateExtractor{
		llmModel:      llmModel,
		truncateChars: constants.ModelInputMaxChars,
		maxRetries:    2,
		retryWait:     2 * time.Second,
		callTimeout:   60 * time.Second,
		logger:        log.New(io.Discard, "", 0),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.fewShotExamples == "" {
		e.generateFewShotExamples()
	}
	if e.promptTemplate == "" {
		e.generatePromptTemplate()
	}
	return e
}

func (e *LLMCandidateExtractor) generatePromptTemplate() {
	baseTemplate := `You are a resume parsing expert. Extract structured candidate information from the resume text you are given.

Rules:
- Output exactly one JSON object, no explanations and no Markdown fences.
- Missing information must be null (strings) or [] (arrays). Never invent values.
- "name": the candidate's personal name, title-cased.
- "email": lowercase email address.
- "phone": keep only digits, "+", "-", "(", ")" and spaces.
- "experienceYears": a string like "5 years". A date range such as "2015 - 2022" means 7 years of work, NOT "2015 years". If nothing supports a value, use null.
- "linkedinUrl": full "https://linkedin.com/in/<handle>" URL. The bare word "linkedin" without a URL or handle is NOT a profile link; use null.
- "primarySkills": programming languages, frameworks, databases, cloud platforms actually mentioned as the candidate's skills.
- "secondarySkills": tooling, devops and collaboration skills.
- "additionalFields" is only required when the request asks for it.

JSON schema:
{
  "name": "string|null",
  "email": "string|null",
  "phone": "string|null",
  "experienceYears": "string|null",
  "linkedinUrl": "string|null",
  "primarySkills": ["string"],
  "secondarySkills": ["string"],
  "additionalFields": {
    "education": "string|null",
    "location": "string|null",
    "currentRole": "string|null",
    "summary": "string|null",
    "certifications": ["string"],
    "languages": ["string"],
    "projects": "string|null",
    "companies": "string|null"
  }
}`

	if e.fewShotExamples != "" {
		e.promptTemplate = fmt.Sprintf("%s\n\n%s", baseTemplate, e.fewShotExamples)
	} else {
		e.promptTemplate = baseTemplate
	}
}

func (e *LLMCandidateExtractor) generateFewShotExamples() {
	e.fewShotExamples = `Examples:

Input resume text:
"""
JOHN MICHAEL SMITH
Software Engineer
john.smith@example.com
+1 415 555 0100
5 years of experience
Skills: Python, React, AWS
"""
Output:
{"name": "John Michael Smith", "email": "john.smith@example.com", "phone": "+1 415 555 0100", "experienceYears": "5 years", "linkedinUrl": null, "primarySkills": ["Python", "React", "AWS"], "secondarySkills": [], "additionalFields": null}

Input resume text (common mistakes to avoid):
"""
PRIYA SHARMA
priya@example.com
Worked at Initech 2015 - 2022
Active on linkedin
"""
Output:
{"name": "Priya Sharma", "email": "priya@example.com", "phone": null, "experienceYears": "7 years", "linkedinUrl": null, "primarySkills": [], "secondarySkills": [], "additionalFields": null}
Note: "2015 - 2022" is 7 years, never "2015 years". The word "linkedin" alone is not a profile URL.`
}

// ExtractCandidate 调用模型抽取候选人信息。
// 网络错误、超时和无法解析的响应都作为错误返回，
// 由管线层决定是否回退到规则记录。
func (e *LLMCandidateExtractor) ExtractCandidate(ctx context.Context, text string, extractAdditionalFields bool) (*types.CandidateRecord, error) {
	truncated := truncateForModel(text, e.truncateChars)

	userPrompt := truncated
	if extractAdditionalFields {
		userPrompt = "Extract additionalFields as well.\n\n" + truncated
	}

	response, err := e.callLLM(ctx, e.llmModel, e.promptTemplate, userPrompt)
	if err != nil && e.fallbackModel != nil {
		e.logger.Printf("[LLMCandidateExtractor] 首选模型失败，改用备用模型重试一次: %v", err)
		response, err = e.callLLM(ctx, e.fallbackModel, e.promptTemplate, userPrompt)
	}
	if err != nil {
		return nil, fmt.Errorf("LLM调用失败: %w", err)
	}

	record, err := e.parseResponse(response, extractAdditionalFields)
	if err != nil {
		return nil, fmt.Errorf("解析LLM响应失败: %w", err)
	}
	return record, nil
}

// callLLM 向单个模型提交提示词，可重试错误按退避重试
func (e *LLMCandidateExtractor) callLLM(ctx context.Context, m model.ToolCallingChatModel, systemContent, userContent string) (string, error) {
	messages := []*einoschema.Message{
		{Role: "system", Content: systemContent},
		{Role: "user", Content: userContent},
	}

	retryDelay := e.retryWait
	var response *einoschema.Message
	var err error

	for retry := 0; retry <= e.maxRetries; retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("上下文已取消: %w", ctx.Err())
			case <-time.After(retryDelay):
				retryDelay *= 2
				e.logger.Printf("[LLMCandidateExtractor] 重试LLM调用 (第%d次)", retry)
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		response, err = m.Generate(callCtx, messages)
		cancel()

		if err == nil {
			break
		}
		if !isRetryableError(err) || retry >= e.maxRetries {
			return "", fmt.Errorf("LLM Generate failed: %w", err)
		}
	}

	return response.Content, nil
}

// isRetryableError 判断错误是否应该重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429")
}

// parseResponse 提取JSON并规范化为记录形状。
// 响应中没有可解析的JSON对象是本抽取器的硬失败。
func (e *LLMCandidateExtractor) parseResponse(response string, extractAdditionalFields bool) (*types.CandidateRecord, error) {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		e.logger.Printf("[LLMCandidateExtractor] 无法从响应中提取JSON。原始响应: %s", tracing.SafeModelResponse(response))
		return nil, fmt.Errorf("无法从LLM响应中提取有效的JSON")
	}

	var payload llmCandidatePayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("解析JSON失败: %w", err)
	}

	record := &types.CandidateRecord{
		Name:            constants.NameNotFound,
		ExperienceYears: constants.ExperienceNotSpecified,
		PrimarySkills:   extractor.DedupCapSkills(payload.PrimarySkills, constants.MaxPrimarySkills),
		SecondarySkills: extractor.DedupCapSkills(payload.SecondarySkills, constants.MaxSecondarySkills),
	}

	if payload.Name != nil && strings.TrimSpace(*payload.Name) != "" {
		record.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Email != nil && strings.TrimSpace(*payload.Email) != "" {
		record.Email = types.StrPtr(strings.ToLower(strings.TrimSpace(*payload.Email)))
	}
	if payload.Phone != nil && strings.TrimSpace(*payload.Phone) != "" {
		record.Phone = types.StrPtr(strings.TrimSpace(*payload.Phone))
	}
	if payload.ExperienceYears != nil && strings.TrimSpace(*payload.ExperienceYears) != "" {
		record.ExperienceYears = strings.TrimSpace(*payload.ExperienceYears)
	}
	if payload.LinkedinURL != nil && strings.TrimSpace(*payload.LinkedinURL) != "" {
		record.LinkedinURL = types.StrPtr(strings.TrimSpace(*payload.LinkedinURL))
	}

	if extractAdditionalFields {
		additional := &types.AdditionalFields{}
		if payload.Additional != nil {
			additional.Education = payload.Additional.Education
			additional.Location = payload.Additional.Location
			additional.CurrentRole = payload.Additional.CurrentRole
			additional.Summary = payload.Additional.Summary
			additional.Certifications = payload.Additional.Certifications
			additional.Languages = payload.Additional.Languages
			additional.Projects = payload.Additional.Projects
			additional.Companies = payload.Additional.Companies
		}
		record.AdditionalFields = additional
	}

	return record, nil
}

// truncateForModel 按字符预算截断提交给模型的文本。
// 截断点落在多字节字符中间时回退到前一个完整字符边界，保证输出是合法UTF-8。
func truncateForModel(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// extractJSON 从自由文本中提取第一个JSON对象：
// 优先匹配```json代码块，回退到按花括号层级扫描
func extractJSON(text string) string {
	re := regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	matches := re.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	level := 0
	for i := start; i < len(text); i++ {
		if text[i] == '{' {
			level++
		} else if text[i] == '}' {
			level--
			if level == 0 {
				return strings.TrimSpace(text[start : i+1])
			}
		}
	}
	return ""
}
