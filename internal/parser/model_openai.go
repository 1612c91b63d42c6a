package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	defaultChatCompletionURL = "https://api.openai.com/v1/chat/completions"
	defaultChatModelName     = "gpt-4o-mini"
)

// OpenAICompatChatModel 通过OpenAI兼容的chat completions接口实现
// model.ToolCallingChatModel，用于对接任意兼容端点。
// 温度固定接近0以保证抽取结果可复现。
type OpenAICompatChatModel struct {
	apiKey      string
	modelName   string
	apiURL      string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	boundTools  []*schema.ToolInfo
}

// NewOpenAICompatChatModel 创建一个OpenAI兼容的聊天模型客户端
func NewOpenAICompatChatModel(apiKey, modelName, apiURL string, temperature float64, maxTokens int) (*OpenAICompatChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API密钥不能为空")
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultChatModelName
	}
	if strings.TrimSpace(apiURL) == "" {
		apiURL = defaultChatCompletionURL
	}

	return &OpenAICompatChatModel{
		apiKey:      apiKey,
		modelName:   modelName,
		apiURL:      apiURL,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  &http.Client{},
	}, nil
}

type chatCompletionRequest struct {
	Model       string            `json:"model"`
	Messages    []*schema.Message `json:"messages"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
}

type chatCompletionChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []chatCompletionChoice `json:"choices"`
}

// Generate 实现 model.ChatModel 接口
func (c *OpenAICompatChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	reqPayload := chatCompletionRequest{
		Model:       c.modelName,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return nil, fmt.Errorf("反序列化API响应失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("API返回空choices: %s", string(bodyBytes))
	}

	choice := resp.Choices[0]
	content := ""
	if choice.Message.Content != nil {
		content = *choice.Message.Content
	}

	result := &schema.Message{
		Role:    schema.RoleType(choice.Message.Role),
		Content: content,
	}
	if result.Role == "" {
		result.Role = schema.RoleType("assistant")
	}
	return result, nil
}

// Stream 实现 model.ChatModel 接口。抽取场景只需要一次性响应，
// 流式调用未实现。
func (c *OpenAICompatChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("OpenAICompatChatModel 的 Stream 方法未实现")
}

// BindTools 实现 model.ChatModel 接口。抽取提示不依赖工具调用，
// 这里仅记录绑定的工具。
func (c *OpenAICompatChatModel) BindTools(tools []*schema.ToolInfo) error {
	c.boundTools = tools
	return nil
}

// WithTools 实现 model.ToolCallingChatModel 接口
func (c *OpenAICompatChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if err := c.BindTools(tools); err != nil {
		return nil, err
	}
	return c, nil
}

var _ model.ChatModel = (*OpenAICompatChatModel)(nil)
var _ model.ToolCallingChatModel = (*OpenAICompatChatModel)(nil)
