package digest

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"

	dm "github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

const boxWidth = 62

// Tier 相关度分档
type Tier struct {
	Name  string
	Color string // 十六进制颜色，终端与网页共用
}

var (
	TierHigh   = Tier{Name: "high", Color: "#22C55E"}
	TierGood   = Tier{Name: "good", Color: "#EAB308"}
	TierMedium = Tier{Name: "medium", Color: "#F97316"}
	TierLow    = Tier{Name: "low", Color: "#EF4444"}
)

// TierOf 按分数归档：8 分以上 high，6-7 good，4-5 medium，其余 low
func TierOf(score int) Tier {
	switch {
	case score >= 8:
		return TierHigh
	case score >= 6:
		return TierGood
	case score >= 4:
		return TierMedium
	default:
		return TierLow
	}
}

// Stats 汇总统计
type Stats struct {
	Total            int     `json:"total"`
	Analyzed         int     `json:"analyzed"`
	AverageRelevance float64 `json:"average_relevance"`
}

// ComputeStats 统计记录数与已分析记录的平均相关度
func ComputeStats(records []dm.StoredRecord) Stats {
	analyzed := lo.Filter(records, func(r dm.StoredRecord, _ int) bool {
		return r.Analyzed()
	})
	st := Stats{Total: len(records), Analyzed: len(analyzed)}
	if len(analyzed) > 0 {
		sum := lo.SumBy(analyzed, func(r dm.StoredRecord) int {
			return r.Analysis.RelevanceScore
		})
		st.AverageRelevance = float64(sum) / float64(len(analyzed))
	}
	return st
}

// String 统计行
func (s Stats) String() string {
	return fmt.Sprintf("Total Articles: %d  |  Average Relevance: %.1f/10", s.Total, s.AverageRelevance)
}

// Render 输出某一天的摘要。records 应为已分析记录并按相关度降序排列
func Render(w io.Writer, day time.Time, records []dm.StoredRecord) error {
	records = lo.Filter(records, func(r dm.StoredRecord, _ int) bool {
		return r.Analyzed()
	})

	var sb strings.Builder
	box(&sb, "TECH NEWS DIGEST - "+day.Format(time.DateOnly))

	if len(records) == 0 {
		sb.WriteString("No articles have been analyzed yet for today.\n")
		sb.WriteString("Run the scraper first to fetch and analyze articles.\n\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	rule := strings.Repeat("━", boxWidth)
	var current *Tier
	for i, r := range records {
		a := r.Analysis
		tier := TierOf(a.RelevanceScore)
		if current == nil || *current != tier {
			current = &tier
			fmt.Fprintf(&sb, "== %s relevance ==\n\n", strings.ToUpper(tier.Name))
		}

		sb.WriteString(rule + "\n")
		fmt.Fprintf(&sb, "Article %d │ Relevance: %d/10\n", i+1, a.RelevanceScore)
		sb.WriteString(rule + "\n")
		fmt.Fprintf(&sb, "\n%s\n", r.Title)
		fmt.Fprintf(&sb, "\nSummary:\n   %s\n", a.Summary)
		if len(a.Topics) > 0 {
			fmt.Fprintf(&sb, "\nTopics: %s\n", strings.Join(a.Topics, ", "))
		}
		if len(a.KeyPoints) > 0 {
			sb.WriteString("\nKey Points:\n")
			for _, p := range a.KeyPoints {
				fmt.Fprintf(&sb, "   • %s\n", p)
			}
		}
		fmt.Fprintf(&sb, "\n%s\n\n", r.URL)
	}

	st := ComputeStats(records)
	box(&sb, "SUMMARY")
	fmt.Fprintf(&sb, "Total articles analyzed: %d\n", st.Analyzed)
	fmt.Fprintf(&sb, "Average relevance score: %.1f/10\n\n", st.AverageRelevance)

	_, err := io.WriteString(w, sb.String())
	return err
}

// box 输出居中标题框，按显示宽度计算填充
func box(sb *strings.Builder, title string) {
	title = runewidth.Truncate(title, boxWidth-2, "…")
	pad := boxWidth - runewidth.StringWidth(title)
	left := pad / 2
	sb.WriteString("╔" + strings.Repeat("═", boxWidth) + "╗\n")
	sb.WriteString("║" + strings.Repeat(" ", left) + title + strings.Repeat(" ", pad-left) + "║\n")
	sb.WriteString("╚" + strings.Repeat("═", boxWidth) + "╝\n\n")
}
