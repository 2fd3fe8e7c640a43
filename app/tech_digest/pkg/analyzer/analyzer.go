package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/config"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/logger"
	dm "github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

// ErrTransport 调用模型失败（网络错误或非 200 响应）
var ErrTransport = errors.New("llm transport error")

const (
	DefaultTemperature   float32 = 0.7
	DefaultMaxTokens             = 1000
	DefaultMaxPromptBody         = 4000
)

// Client 文章分析客户端，每篇文章一次同步调用，不重试
type Client struct {
	chatModel   model.BaseChatModel
	limiter     *rate.Limiter
	temperature float32
	maxTokens   int
	maxBody     int
}

// Option Client 配置项
type Option func(*Client)

// WithLimiter 调用前等待限流令牌
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithSampling 设置采样参数
func WithSampling(temperature float32, maxTokens int) Option {
	return func(c *Client) {
		if temperature > 0 {
			c.temperature = temperature
		}
		if maxTokens > 0 {
			c.maxTokens = maxTokens
		}
	}
}

// WithMaxPromptBody 设置提示词中正文的最大字符数
func WithMaxPromptBody(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// New 基于任意 ChatModel 创建分析客户端
func New(cm model.BaseChatModel, opts ...Option) *Client {
	c := &Client{
		chatModel:   cm,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		maxBody:     DefaultMaxPromptBody,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig 连接 OpenAI 兼容的本地 chat-completion 服务（如 LM Studio）
func NewFromConfig(ctx context.Context, cfg config.LLMConfig, opts ...Option) (*Client, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	opts = append([]Option{
		WithSampling(cfg.Temperature, cfg.MaxTokens),
		WithMaxPromptBody(cfg.MaxPromptBodyLength),
	}, opts...)
	return New(chatModel, opts...), nil
}

// Analyze 分析一篇文章。只有调用失败才返回错误，回复格式问题退化为默认值
func (c *Client) Analyze(ctx context.Context, article dm.Article) (*dm.Analysis, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("limiter wait error: %w", err)
		}
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: BuildPrompt(article, c.maxBody)},
	}

	resp, err := c.chatModel.Generate(ctx, messages,
		model.WithTemperature(c.temperature),
		model.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrTransport)
	}

	logger.Log.Debugf("模型回复 [%s]: %s", article.URL, resp.Content)
	analysis := ParseResponse(resp.Content)
	return &analysis, nil
}
