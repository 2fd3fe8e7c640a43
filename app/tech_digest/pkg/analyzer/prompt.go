package analyzer

import (
	"strings"

	dm "github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

const systemPrompt = "You are a tech news analyst. Provide clear, concise analysis of technology articles. " +
	"Focus on accuracy and relevance. Follow the exact format requested."

// BuildPrompt 组装分析提示词：有正文时使用截断后的正文，否则使用摘要
func BuildPrompt(article dm.Article, maxBody int) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following tech news article and provide:\n")
	sb.WriteString("1. A concise 2-3 sentence summary\n")
	sb.WriteString("2. Main topics/technologies mentioned (comma-separated)\n")
	sb.WriteString("3. Key takeaways (3-5 bullet points)\n")
	sb.WriteString("4. Relevance score (1-10, where 10 is highly significant tech news)\n\n")
	sb.WriteString("Article Title: " + article.Title + "\n\n")

	if article.HasBody() {
		sb.WriteString("Article Text:\n" + truncate(article.BodyText, maxBody))
	} else {
		sb.WriteString("Article Snippet: " + article.Snippet)
	}

	sb.WriteString("\n\nProvide your analysis in this exact format:\n")
	sb.WriteString("SUMMARY: [your summary]\n")
	sb.WriteString("TOPICS: [topic1, topic2, topic3]\n")
	sb.WriteString("KEY_POINTS:\n- [point 1]\n- [point 2]\n- [point 3]\n")
	sb.WriteString("RELEVANCE: [score]")
	return sb.String()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
