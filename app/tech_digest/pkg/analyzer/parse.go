package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	dm "github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

const (
	DefaultRelevance = 5
	minRelevance     = 1
	maxRelevance     = 10
)

var digits = regexp.MustCompile(`\d+`)

// ParseResponse 解析模型回复。格式不符时各字段取默认值，不返回错误
//
// RELEVANCE 缺失或无法解析时均为 5；解析出的分数限制在 [1,10]。
func ParseResponse(text string) dm.Analysis {
	result := dm.Analysis{
		Topics:         []string{},
		KeyPoints:      []string{},
		RelevanceScore: DefaultRelevance,
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SUMMARY:"):
			result.Summary = strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
		case strings.HasPrefix(line, "TOPICS:"):
			result.Topics = splitTopics(strings.TrimPrefix(line, "TOPICS:"))
		case strings.HasPrefix(line, "-"):
			result.KeyPoints = appendPoint(result.KeyPoints, strings.TrimPrefix(line, "-"))
		case strings.HasPrefix(line, "•"):
			result.KeyPoints = appendPoint(result.KeyPoints, strings.TrimPrefix(line, "•"))
		case strings.HasPrefix(line, "RELEVANCE:"):
			result.RelevanceScore = parseRelevance(strings.TrimPrefix(line, "RELEVANCE:"))
		}
	}
	return result
}

func splitTopics(s string) []string {
	topics := lo.Map(strings.Split(s, ","), func(t string, _ int) string {
		return strings.TrimSpace(t)
	})
	return lo.Compact(topics)
}

func appendPoint(points []string, p string) []string {
	// 存储时以 "|" 分隔，要点内部的竖线替换掉
	p = strings.TrimSpace(strings.ReplaceAll(p, "|", "/"))
	if p == "" {
		return points
	}
	return append(points, p)
}

func parseRelevance(s string) int {
	m := digits.FindString(s)
	if m == "" {
		return DefaultRelevance
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		// 超长数字溢出
		return maxRelevance
	}
	return min(max(n, minRelevance), maxRelevance)
}
