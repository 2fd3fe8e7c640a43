package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/digest"
)

const (
	helpText   = "f: date filter | s: sort | i: import | r: reload | j/k: move | q: quit"
	emptyText  = "No articles found. Press 'i' to fetch articles."
	listHeight = 12
)

func scoreText(score int) string {
	return fmt.Sprintf("Score: %d/10", score)
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Tech News Daily Digest"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Date: %s  |  Sort: %s\n", m.Filter.Label(), m.Sort.Label())
	if len(m.Records) == 0 {
		b.WriteString(InfoStyle.Render("No articles"))
	} else {
		b.WriteString(InfoStyle.Render(m.Stats.String()))
	}
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(ErrorStyle.Render("Error: " + m.Err.Error()))
		b.WriteString("\n\n")
	}

	if len(m.Records) == 0 {
		b.WriteString(InfoStyle.Render(emptyText))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.renderList())
		b.WriteString("\n")
		b.WriteString(m.renderDetail())
		b.WriteString("\n")
	}

	if m.Importing {
		b.WriteString(StatusStyle.Render(fmt.Sprintf("Importing... %d%%", m.Progress)))
		b.WriteString("\n")
	}
	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("Recent Activity:"))
		b.WriteString("\n")
		for _, l := range m.Logs {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("   [%s] %s", l.Timestamp.Format("15:04:05"), l.Message)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(InfoStyle.Render(helpText))
	return b.String()
}

// renderList 选中行附近的一屏记录
func (m Model) renderList() string {
	start := 0
	if m.Cursor >= listHeight {
		start = m.Cursor - listHeight + 1
	}
	end := min(start+listHeight, len(m.Records))

	titleWidth := max(m.width-24, 20)
	var b strings.Builder
	for i := start; i < end; i++ {
		r := m.Records[i]
		score := 0
		if r.Analysis != nil {
			score = r.Analysis.RelevanceScore
		}
		title := runewidth.Truncate(r.Title, titleWidth, "...")
		line := fmt.Sprintf("%2d. %s  %s", i+1, badge(score, digest.TierOf(score).Color), title)
		if i == m.Cursor {
			line = SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// renderDetail 选中记录的摘要、主题与要点
func (m Model) renderDetail() string {
	r, ok := m.Selected()
	if !ok || r.Analysis == nil {
		return ""
	}
	a := r.Analysis
	width := max(m.width-6, 40)

	var b strings.Builder
	b.WriteString(wrap(a.Summary, width))
	b.WriteString("\n")
	if len(a.Topics) > 0 {
		b.WriteString("\nTopics: " + strings.Join(a.Topics, ", ") + "\n")
	}
	if len(a.KeyPoints) > 0 {
		b.WriteString("\nKey Points:\n")
		for _, p := range a.KeyPoints {
			b.WriteString(wrap("• "+p, width) + "\n")
		}
	}
	fmt.Fprintf(&b, "\n%s\nScraped: %s", r.URL, r.ScrapedAt.Format("2006-01-02 15:04"))
	return BoxStyle.Render(b.String())
}

// wrap 按显示宽度折行
func wrap(s string, width int) string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(s) {
		if line != "" && runewidth.StringWidth(line)+1+runewidth.StringWidth(word) > width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
