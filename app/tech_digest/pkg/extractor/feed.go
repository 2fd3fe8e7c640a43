package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/logger"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

// FeedExtractor 从 RSS/Atom 列表中抽取候选文章
type FeedExtractor struct {
	parser     *gofeed.Parser
	max        int
	maxSnippet int
}

// NewFeedExtractor 创建 Feed 抽取器
func NewFeedExtractor(maxArticles, maxSnippet int) *FeedExtractor {
	if maxArticles <= 0 {
		maxArticles = DefaultMaxArticles
	}
	if maxSnippet <= 0 {
		maxSnippet = DefaultMaxSnippetLen
	}
	return &FeedExtractor{parser: gofeed.NewParser(), max: maxArticles, maxSnippet: maxSnippet}
}

// Extract 实现 Extractor
func (e *FeedExtractor) Extract(markup string) []model.Article {
	feed, err := e.parser.ParseString(markup)
	if err != nil {
		logger.Log.Warnf("解析 Feed 失败: %v", err)
		return nil
	}

	var articles []model.Article
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title := normalizeSpace(item.Title)
		if title == "" {
			title = noTitle
		}
		snippet := htmlToText(item.Description)
		if snippet == "" {
			snippet = noSnippet
		}
		articles = append(articles, model.Article{
			Title:   title,
			Snippet: TruncateSnippet(snippet, e.maxSnippet),
			URL:     strings.TrimSpace(item.Link),
		})
		if len(articles) >= e.max {
			break
		}
	}
	return articles
}

// htmlToText Feed 描述里常带 HTML 标签，取其纯文本
func htmlToText(s string) string {
	if !strings.Contains(s, "<") {
		return normalizeSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return normalizeSpace(s)
	}
	return normalizeSpace(doc.Text())
}
