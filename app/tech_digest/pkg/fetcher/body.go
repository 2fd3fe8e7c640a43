package fetcher

import (
	"context"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/logger"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

// DefaultBodySelectors 正文段落选择器
var DefaultBodySelectors = []string{"article p, div.article-content p, div.entry-content p"}

// BodyFetcher 抓取文章详情页并拼接正文段落
type BodyFetcher struct {
	client    *Client
	selectors []string
}

// NewBodyFetcher 创建正文抓取器，selectors 为空时使用默认选择器
func NewBodyFetcher(client *Client, selectors []string) *BodyFetcher {
	if len(selectors) == 0 {
		selectors = DefaultBodySelectors
	}
	return &BodyFetcher{client: client, selectors: selectors}
}

// FetchBody 返回文章正文；失败时返回占位文本而不是错误
func (f *BodyFetcher) FetchBody(ctx context.Context, articleURL string) string {
	html, err := f.client.Fetch(ctx, articleURL)
	if err != nil {
		logger.Log.Warnf("正文抓取失败 [%s]: %v", articleURL, err)
		return model.BodyFetchFailed
	}

	if text := f.extractParagraphs(html); text != "" {
		return text
	}

	// 选择器没有命中时，回退到 readability 提取主体内容
	if text := extractReadable(html, articleURL); text != "" {
		logger.Log.Debugf("正文选择器未命中，使用 readability 结果 [%s]", articleURL)
		return text
	}
	return model.BodyUnavailable
}

func (f *BodyFetcher) extractParagraphs(html string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Warnf("正文选择器执行失败: %v", r)
			text = ""
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, sel := range f.selectors {
		var blocks []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); t != "" {
				blocks = append(blocks, t)
			}
		})
		if len(blocks) > 0 {
			return strings.Join(blocks, "\n\n")
		}
	}
	return ""
}

func extractReadable(html, articleURL string) string {
	pageURL, err := nurl.Parse(articleURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
