package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/tech_digest/app/display/internal/conf"
	"github.com/iWorld-y/tech_digest/app/display/internal/data"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/config"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/engine"
	tdLogger "github.com/iWorld-y/tech_digest/app/tech_digest/pkg/logger"
)

// NewDigestConfig 将 internal/conf.Digest 转换为 pkg/config.Config，未填写的字段保留默认值
func NewDigestConfig(c *conf.Digest) (*config.Config, error) {
	cfg := config.Default()
	if c != nil {
		applyDigest(cfg, c)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDigest(cfg *config.Config, c *conf.Digest) {

	if l := c.Listing; l != nil {
		if l.Url != "" {
			cfg.Listing.URL = l.Url
		}
		if l.Format != "" {
			cfg.Listing.Format = l.Format
		}
		if l.MaxArticles > 0 {
			cfg.Listing.MaxArticles = int(l.MaxArticles)
		}
		if l.MaxSnippetLength > 0 {
			cfg.Listing.MaxSnippetLength = int(l.MaxSnippetLength)
		}
		if r := l.Rules; r != nil {
			if r.Container != "" {
				cfg.Listing.Rules.Container = r.Container
			}
			if len(r.Title) > 0 {
				cfg.Listing.Rules.Title = r.Title
			}
			if len(r.Link) > 0 {
				cfg.Listing.Rules.Link = r.Link
			}
			if len(r.Snippet) > 0 {
				cfg.Listing.Rules.Snippet = r.Snippet
			}
			if len(r.Body) > 0 {
				cfg.Listing.Rules.Body = r.Body
			}
		}
	}
	if f := c.Fetch; f != nil {
		if f.UserAgent != "" {
			cfg.Fetch.UserAgent = f.UserAgent
		}
		if f.Timeout > 0 {
			cfg.Fetch.Timeout = int(f.Timeout)
		}
	}
	if m := c.Llm; m != nil {
		if m.BaseUrl != "" {
			cfg.LLM.BaseURL = m.BaseUrl
		}
		if m.ApiKey != "" {
			cfg.LLM.APIKey = m.ApiKey
		}
		if m.Model != "" {
			cfg.LLM.Model = m.Model
		}
		if m.Timeout > 0 {
			cfg.LLM.Timeout = int(m.Timeout)
		}
		if m.Temperature > 0 {
			cfg.LLM.Temperature = m.Temperature
		}
		if m.MaxTokens > 0 {
			cfg.LLM.MaxTokens = int(m.MaxTokens)
		}
		if m.MaxPromptBodyLength > 0 {
			cfg.LLM.MaxPromptBodyLength = int(m.MaxPromptBodyLength)
		}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}
}

// NewDigestRunner 初始化 tech_digest 引擎，包装为同一时刻只运行一次的 Runner
func NewDigestRunner(c *conf.Digest, d *data.Data, logger log.Logger) (*engine.Runner, func(), error) {
	helper := log.NewHelper(logger)
	cfg, err := NewDigestConfig(c)
	if err != nil {
		helper.Errorf("Invalid digest config: %v", err)
		return nil, nil, err
	}

	// 初始化日志
	if err := tdLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init tech_digest logger: %v", err)
		_ = tdLogger.InitLogger("info", "") // 降级处理
	}

	// 初始化核心引擎
	eng, err := engine.NewFromConfig(context.Background(), cfg, d.Store())
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	runner := engine.NewRunner(eng)
	cleanup := func() {
		helper.Info("Waiting for running import to finish")
		runner.Wait()
	}
	return runner, cleanup, nil
}
