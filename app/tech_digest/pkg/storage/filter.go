package storage

import (
	"fmt"
	"strings"
	"time"
)

// DateFilter 按抓取日期过滤
type DateFilter string

const (
	Today      DateFilter = "today"
	Last7Days  DateFilter = "last7days"
	Last30Days DateFilter = "last30days"
	AllTime    DateFilter = "alltime"
)

// DateFilters 界面上的循环顺序
var DateFilters = []DateFilter{Today, Last7Days, Last30Days, AllTime}

// SortOrder 排序方式
type SortOrder string

const (
	RelevanceDesc SortOrder = "relevance"
	DateDesc      SortOrder = "newest"
	DateAsc       SortOrder = "oldest"
)

// SortOrders 界面上的循环顺序
var SortOrders = []SortOrder{RelevanceDesc, DateDesc, DateAsc}

// ParseDateFilter 解析日期过滤条件，兼容 "Last 7 Days"、"last_7_days" 等写法。空字符串视为今天
func ParseDateFilter(s string) (DateFilter, error) {
	switch DateFilter(compact(s)) {
	case Today, "":
		return Today, nil
	case Last7Days:
		return Last7Days, nil
	case Last30Days:
		return Last30Days, nil
	case AllTime, "all":
		return AllTime, nil
	}
	return "", fmt.Errorf("unknown date filter: %q", s)
}

// ParseSortOrder 解析排序方式，兼容 "Date (Newest)" 等写法
func ParseSortOrder(s string) (SortOrder, error) {
	switch compact(s) {
	case "", "relevance", "relevancedesc":
		return RelevanceDesc, nil
	case "newest", "datenewest", "datedesc":
		return DateDesc, nil
	case "oldest", "dateoldest", "dateasc":
		return DateAsc, nil
	}
	return "", fmt.Errorf("unknown sort order: %q", s)
}

// Label 展示用名称
func (f DateFilter) Label() string {
	switch f {
	case Today:
		return "Today"
	case Last7Days:
		return "Last 7 Days"
	case Last30Days:
		return "Last 30 Days"
	}
	return "All Time"
}

// Label 展示用名称
func (o SortOrder) Label() string {
	switch o {
	case DateDesc:
		return "Date (Newest)"
	case DateAsc:
		return "Date (Oldest)"
	}
	return "Relevance"
}

// bounds 返回 [from, to) 的抓取时间范围，零值表示不限制。以本地日历日为准
func (f DateFilter) bounds(now time.Time) (from, to time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	switch f {
	case Today:
		return start, start.AddDate(0, 0, 1)
	case Last7Days:
		return start.AddDate(0, 0, -7), time.Time{}
	case Last30Days:
		return start.AddDate(0, 0, -30), time.Time{}
	}
	return time.Time{}, time.Time{}
}

func (o SortOrder) orderBy() string {
	switch o {
	case DateDesc:
		return "scraped_date DESC, id DESC"
	case DateAsc:
		return "scraped_date ASC, id ASC"
	}
	// 未分析的记录排在最后
	return "COALESCE(relevance_score, 0) DESC, id DESC"
}

func compact(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '(', ')':
			return -1
		}
		return r
	}, s)
}
