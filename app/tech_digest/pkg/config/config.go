package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 环境变量覆盖项，优先级高于配置文件
const (
	EnvListingURL = "TECH_DIGEST_LISTING_URL"
	EnvLLMBaseURL = "TECH_DIGEST_LLM_BASE_URL"
	EnvLLMAPIKey  = "TECH_DIGEST_LLM_API_KEY"
	EnvLLMModel   = "TECH_DIGEST_LLM_MODEL"
	EnvDBDSN      = "TECH_DIGEST_DB_DSN"
)

// Config 项目配置结构体
type Config struct {
	Listing     ListingConfig     `yaml:"listing"`
	Fetch       FetchConfig       `yaml:"fetch"`
	LLM         LLMConfig         `yaml:"llm"`
	DB          DBConfig          `yaml:"db"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// ListingConfig 列表页及抽取规则配置
type ListingConfig struct {
	URL              string      `yaml:"url"`
	Format           string      `yaml:"format"` // html 或 feed
	MaxArticles      int         `yaml:"max_articles"`
	MaxSnippetLength int         `yaml:"max_snippet_length"`
	Rules            RulesConfig `yaml:"rules"`
}

// RulesConfig CSS 选择器规则，每一项按顺序回退
type RulesConfig struct {
	Container string   `yaml:"container"`
	Title     []string `yaml:"title"`
	Link      []string `yaml:"link"`
	Snippet   []string `yaml:"snippet"`
	Body      []string `yaml:"body"`
}

// FetchConfig HTTP 抓取配置
type FetchConfig struct {
	UserAgent string `yaml:"user_agent"`
	Timeout   int    `yaml:"timeout"` // 秒
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL             string  `yaml:"base_url"`
	APIKey              string  `yaml:"api_key"`
	Model               string  `yaml:"model"`
	Temperature         float32 `yaml:"temperature"`
	MaxTokens           int     `yaml:"max_tokens"`
	Timeout             int     `yaml:"timeout"` // 秒
	MaxPromptBodyLength int     `yaml:"max_prompt_body_length"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Driver string `yaml:"driver"` // sqlite3 或 postgres
	DSN    string `yaml:"dsn"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 限流配置，RPM 为 0 表示不限流
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// Default 返回内置默认配置
func Default() *Config {
	return &Config{
		Listing: ListingConfig{
			URL:              "https://techcrunch.com/",
			Format:           "html",
			MaxArticles:      10,
			MaxSnippetLength: 200,
			Rules: RulesConfig{
				Container: "div.loop-card",
				Title:     []string{"h3.loop-card__title a", "h2 a, h3 a, h2, h3"},
				Link:      []string{"h3.loop-card__title a", "a[href]"},
				Snippet:   []string{"a.loop-card__cat", "p, div.excerpt, div.post-block__content"},
				Body:      []string{"article p, div.article-content p, div.entry-content p"},
			},
		},
		Fetch: FetchConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			Timeout:   10,
		},
		LLM: LLMConfig{
			BaseURL:             "http://localhost:1234/v1",
			APIKey:              "lm-studio",
			Model:               "local-model",
			Temperature:         0.7,
			MaxTokens:           1000,
			Timeout:             60,
			MaxPromptBodyLength: 4000,
		},
		DB: DBConfig{
			Driver: "sqlite3",
			DSN:    "tech_news.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig 从指定路径加载配置，未出现的字段保留默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load 加载配置；配置文件不存在时使用默认配置。返回值 fromFile 表示是否读到了文件
func Load(path string) (cfg *Config, fromFile bool, err error) {
	// .env 不存在不是错误
	_ = godotenv.Load()

	cfg, err = LoadConfig(path)
	if err == nil {
		return cfg, true, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, err
	}

	cfg = Default()
	cfg.ApplyEnv()
	return cfg, false, cfg.Validate()
}

// ApplyEnv 使用环境变量覆盖配置
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvListingURL); v != "" {
		c.Listing.URL = v
	}
	if v := os.Getenv(EnvLLMBaseURL); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(EnvLLMModel); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		c.DB.DSN = v
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Listing.URL == "" {
		return fmt.Errorf("配置错误: 未设置 listing.url")
	}
	switch strings.ToLower(c.Listing.Format) {
	case "", "html", "feed":
	default:
		return fmt.Errorf("配置错误: 未知的 listing.format %q", c.Listing.Format)
	}
	if c.Listing.MaxArticles <= 0 {
		return fmt.Errorf("配置错误: listing.max_articles 必须大于 0")
	}
	switch c.DB.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("配置错误: 不支持的数据库驱动 %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("配置错误: 未设置 db.dsn")
	}
	return nil
}
