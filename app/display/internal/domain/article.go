package domain

import "time"

// Article 已分析文章
type Article struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Summary        string    `json:"summary"`
	Topics         []string  `json:"topics"`
	KeyPoints      []string  `json:"key_points"`
	RelevanceScore int       `json:"relevance_score"`
	Tier           string    `json:"tier"`
	TierColor      string    `json:"tier_color"`
	ScrapedAt      time.Time `json:"scraped_at"`
}

// ArticleQuery 列表查询条件
type ArticleQuery struct {
	Date string
	Sort string
}

// Stats 列表统计
type Stats struct {
	Total            int     `json:"total"`
	AverageRelevance float64 `json:"average_relevance"`
}

// ArticleList 文章列表及统计
type ArticleList struct {
	Date     string     `json:"date"`
	Sort     string     `json:"sort"`
	Articles []*Article `json:"articles"`
	Stats    Stats      `json:"stats"`
}
