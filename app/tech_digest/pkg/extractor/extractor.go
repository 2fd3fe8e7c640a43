package extractor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/config"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/logger"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

const (
	DefaultMaxArticles   = 10
	DefaultMaxSnippetLen = 200

	noTitle   = "No title"
	noSnippet = "No description available"
)

// Extractor 从列表页内容中抽取候选文章。实现不返回错误，解析失败时返回空结果
type Extractor interface {
	Extract(markup string) []model.Article
}

// Rules HTML 抽取规则。Title/Link/Snippet 均为按顺序尝试的选择器列表：先精确，再通用
type Rules struct {
	Container string
	Title     []string
	Link      []string
	Snippet   []string
}

// DefaultRules TechCrunch loop-card 结构
func DefaultRules() Rules {
	return Rules{
		Container: "div.loop-card",
		Title:     []string{"h3.loop-card__title a", "h2 a, h3 a, h2, h3"},
		Link:      []string{"h3.loop-card__title a", "a[href]"},
		Snippet:   []string{"a.loop-card__cat", "p, div.excerpt, div.post-block__content"},
	}
}

// RulesFromConfig 由配置生成规则，空字段使用默认值
func RulesFromConfig(c config.RulesConfig) Rules {
	r := DefaultRules()
	if c.Container != "" {
		r.Container = c.Container
	}
	if len(c.Title) > 0 {
		r.Title = c.Title
	}
	if len(c.Link) > 0 {
		r.Link = c.Link
	}
	if len(c.Snippet) > 0 {
		r.Snippet = c.Snippet
	}
	return r
}

// HTMLExtractor 基于 CSS 选择器的抽取器
type HTMLExtractor struct {
	rules      Rules
	baseURL    *url.URL
	max        int
	maxSnippet int
}

// NewHTMLExtractor 创建 HTML 抽取器，baseURL 用于把相对链接转为绝对链接
func NewHTMLExtractor(rules Rules, baseURL string, maxArticles, maxSnippet int) *HTMLExtractor {
	if maxArticles <= 0 {
		maxArticles = DefaultMaxArticles
	}
	if maxSnippet <= 0 {
		maxSnippet = DefaultMaxSnippetLen
	}
	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		base = nil
	}
	return &HTMLExtractor{rules: rules, baseURL: base, max: maxArticles, maxSnippet: maxSnippet}
}

// New 根据配置创建对应格式的抽取器
func New(cfg config.ListingConfig) Extractor {
	if strings.EqualFold(cfg.Format, "feed") {
		return NewFeedExtractor(cfg.MaxArticles, cfg.MaxSnippetLength)
	}
	return NewHTMLExtractor(RulesFromConfig(cfg.Rules), cfg.URL, cfg.MaxArticles, cfg.MaxSnippetLength)
}

// Extract 按文档顺序返回最多 max 篇候选文章
func (e *HTMLExtractor) Extract(markup string) (articles []model.Article) {
	defer func() {
		// 单个候选之外的异常也不向上抛出，返回已解析的部分
		if r := recover(); r != nil {
			logger.Log.Warnf("列表页选择器执行失败: %v", r)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		logger.Log.Warnf("列表页解析失败: %v", err)
		return nil
	}

	doc.Find(e.rules.Container).EachWithBreak(func(i int, card *goquery.Selection) bool {
		article, err := e.extractOne(card)
		if err != nil {
			logger.Log.Debugf("跳过第 %d 个候选: %v", i+1, err)
			return true
		}
		articles = append(articles, article)
		return len(articles) < e.max
	})
	return articles
}

func (e *HTMLExtractor) extractOne(card *goquery.Selection) (article model.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract candidate: %v", r)
		}
	}()

	title := noTitle
	if s := firstMatch(card, e.rules.Title); s != nil {
		title = normalizeSpace(s.Text())
	}

	var link string
	if s := firstMatch(card, e.rules.Link); s != nil {
		if href, ok := s.Attr("href"); ok {
			link = e.absURL(href)
		}
	}

	snippet := firstNonEmpty(card, e.rules.Snippet)
	if snippet == "" {
		snippet = noSnippet
	}

	return model.Article{
		Title:   title,
		Snippet: TruncateSnippet(snippet, e.maxSnippet),
		URL:     link,
	}, nil
}

func (e *HTMLExtractor) absURL(href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if e.baseURL == nil {
		if ref.IsAbs() {
			return ref.String()
		}
		return ""
	}
	return e.baseURL.ResolveReference(ref).String()
}

// firstMatch 依次尝试选择器，返回第一个命中的元素
func firstMatch(s *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if m := s.Find(sel).First(); m.Length() > 0 {
			return m
		}
	}
	return nil
}

// firstNonEmpty 依次尝试选择器，返回第一个文本非空的元素文本
func firstNonEmpty(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := normalizeSpace(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// TruncateSnippet 超过 max 个字符时截断并追加 "..."
func TruncateSnippet(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
