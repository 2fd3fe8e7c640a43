package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/analyzer"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/config"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/extractor"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/fetcher"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/logger"
	dm "github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

// ListingFetcher 抓取列表页
type ListingFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// BodyFetcher 抓取文章正文，失败时返回占位文本而不是错误
type BodyFetcher interface {
	FetchBody(ctx context.Context, url string) string
}

// Store 流水线用到的存储操作
type Store interface {
	Exists(ctx context.Context, url string) (bool, error)
	Insert(ctx context.Context, article dm.Article) error
	UpdateAnalysis(ctx context.Context, url string, analysis dm.Analysis) error
}

// Analyzer 文章分析
type Analyzer interface {
	Analyze(ctx context.Context, article dm.Article) (*dm.Analysis, error)
}

// Components 引擎依赖的各个组件。Analyzer 为空时所有文章只入库不分析
type Components struct {
	Fetcher   ListingFetcher
	Extractor extractor.Extractor
	Bodies    BodyFetcher
	Store     Store
	Analyzer  Analyzer
}

// Engine 核心处理引擎：抓取列表 → 抽取 → 逐篇 {去重 → 抓正文 → 入库 → 分析 → 回写}
type Engine struct {
	listingURL string
	c          Components
	now        func() time.Time
}

// New 创建引擎实例
func New(listingURL string, c Components) *Engine {
	return &Engine{listingURL: listingURL, c: c, now: time.Now}
}

// NewFromConfig 按配置组装抓取、抽取与分析组件，存储由调用方提供
func NewFromConfig(ctx context.Context, cfg *config.Config, store Store) (*Engine, error) {
	limiter := newLimiter(cfg.Concurrency)
	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limiter.Limit(), limiter.Burst())

	client := fetcher.NewClient(
		fetcher.WithUserAgent(cfg.Fetch.UserAgent),
		fetcher.WithTimeout(time.Duration(cfg.Fetch.Timeout)*time.Second),
		fetcher.WithLimiter(limiter),
	)

	llm, err := analyzer.NewFromConfig(ctx, cfg.LLM, analyzer.WithLimiter(limiter))
	if err != nil {
		return nil, err
	}

	return New(cfg.Listing.URL, Components{
		Fetcher:   client,
		Extractor: extractor.New(cfg.Listing),
		Bodies:    fetcher.NewBodyFetcher(client, cfg.Listing.Rules.Body),
		Store:     store,
		Analyzer:  llm,
	}), nil
}

// newLimiter RPM 为 0 时不限流
func newLimiter(c config.ConcurrencyConfig) *rate.Limiter {
	if c.RPM <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := c.QPS
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(c.RPM)/60.0), burst)
}

// RunOptions 运行选项
type RunOptions struct {
	SkipAnalysis     bool
	ProgressCallback func(stage string, progress int)
}

func (o RunOptions) progress(stage string, p int) {
	if o.ProgressCallback != nil {
		o.ProgressCallback(stage, p)
	}
}

// Run 执行一次抓取任务。只有列表页抓取失败会中止运行，单篇文章的失败记录在报告里
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: e.now(),
	}
	log := logger.Log.WithField("run_id", report.RunID)
	log.Infof("开始抓取 %s", e.listingURL)
	opts.progress("fetching listing", 0)

	markup, err := e.c.Fetcher.Fetch(ctx, e.listingURL)
	if err != nil {
		report.FinishedAt = e.now()
		log.Errorf("列表页抓取失败: %v", err)
		return report, fmt.Errorf("fetch listing: %w", err)
	}

	articles := e.c.Extractor.Extract(markup)
	report.Candidates = len(articles)
	log.Infof("抽取到 %d 篇候选文章", len(articles))
	opts.progress(fmt.Sprintf("found %d articles", len(articles)), 10)

	for i, article := range articles {
		item := e.processItem(ctx, log, article, opts.SkipAnalysis)
		report.Items = append(report.Items, item)

		progress := 10 + int(float64(i+1)/float64(len(articles))*85) // 10% -> 95%
		opts.progress(fmt.Sprintf("processed %d/%d: %s", i+1, len(articles), article.Title), progress)
	}

	report.FinishedAt = e.now()
	log.Infof("抓取完成: %s", report.Summary())
	opts.progress("completed", 100)
	return report, nil
}

func (e *Engine) processItem(ctx context.Context, log *logrus.Entry, article dm.Article, skipAnalysis bool) ItemResult {
	item := ItemResult{URL: article.URL, Title: article.Title}
	if article.URL == "" {
		log.Warnf("跳过无链接文章: %s", article.Title)
		item.State = SkippedNoURL
		return item
	}
	log = log.WithField("url", article.URL)

	exists, err := e.c.Store.Exists(ctx, article.URL)
	if err != nil {
		// 查询失败按不存在处理，入库时按 url 覆盖
		log.Warnf("查询文章是否存在失败: %v", err)
	}
	if exists {
		log.Debug("文章已存在，跳过")
		item.State = SkippedExisting
		return item
	}

	article.BodyText = e.c.Bodies.FetchBody(ctx, article.URL)

	if err := e.c.Store.Insert(ctx, article); err != nil {
		log.Errorf("保存文章失败: %v", err)
		item.State = InsertFailed
		item.Err = err
		return item
	}
	item.State = SavedUnanalyzed

	if skipAnalysis || e.c.Analyzer == nil {
		return item
	}

	analysis, err := e.c.Analyzer.Analyze(ctx, article)
	if err != nil {
		log.Errorf("分析文章失败: %v", err)
		item.Err = err
		return item
	}
	if err := e.c.Store.UpdateAnalysis(ctx, article.URL, *analysis); err != nil {
		log.Errorf("保存分析结果失败: %v", err)
		item.Err = err
		return item
	}

	log.Infof("已分析 [%d/10] %s", analysis.RelevanceScore, article.Title)
	item.State = SavedAnalyzed
	item.Relevance = analysis.RelevanceScore
	return item
}
