package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent 请求使用的固定 User-Agent
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	// DefaultTimeout 单次请求超时
	DefaultTimeout = 10 * time.Second

	maxBodySize = 10 << 20
)

// FetchError 列表页抓取失败（网络错误、超时或非 2xx 状态码）
type FetchError struct {
	URL        string
	StatusCode int // 网络错误时为 0
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Option Client 配置项
type Option func(*Client)

// WithUserAgent 设置 User-Agent
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout 设置超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithLimiter 设置请求限流器
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// Client 页面抓取客户端，不做重试
type Client struct {
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewClient 创建抓取客户端
func NewClient(opts ...Option) *Client {
	c := &Client{
		userAgent: DefaultUserAgent,
		client:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch 发起一次 GET 请求并返回页面原始内容
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &FetchError{URL: url, Err: fmt.Errorf("limiter wait error: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("create request failed: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBodySize))
		return "", &FetchError{URL: url, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("read body failed: %w", err)}
	}
	return string(body), nil
}
