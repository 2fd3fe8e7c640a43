package model

import "time"

// 正文抓取失败时写入 BodyText 的占位文本
const (
	BodyUnavailable = "Article text not available"
	BodyFetchFailed = "Failed to fetch article text"
)

// Article 从列表页抽取出的文章，抓取正文后补充 BodyText
type Article struct {
	Title    string
	Snippet  string
	URL      string
	BodyText string
}

// HasBody 正文是否为真实抓取到的内容（而非占位文本）
func (a Article) HasBody() bool {
	switch a.BodyText {
	case "", BodyUnavailable, BodyFetchFailed:
		return false
	}
	return true
}

// Analysis LLM 分析结果
type Analysis struct {
	Summary        string   `json:"summary"`
	Topics         []string `json:"topics"`
	KeyPoints      []string `json:"key_points"`
	RelevanceScore int      `json:"relevance_score"` // 1-10
}

// StoredRecord 数据库中的一行文章记录，Analysis 为 nil 表示尚未分析
type StoredRecord struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Snippet    string     `json:"snippet"`
	BodyText   string     `json:"article_text,omitempty"`
	Analysis   *Analysis  `json:"analysis,omitempty"`
	ScrapedAt  time.Time  `json:"scraped_date"`
	AnalyzedAt *time.Time `json:"analyzed_date,omitempty"`
}

// Analyzed 是否已完成分析
func (r StoredRecord) Analyzed() bool {
	return r.Analysis != nil
}
