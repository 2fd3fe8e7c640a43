package digest

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	dm "github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

func record(title string, score int) dm.StoredRecord {
	return dm.StoredRecord{
		Title: title,
		URL:   "https://x.test/" + title,
		Analysis: &dm.Analysis{
			Summary:        "About " + title,
			Topics:         []string{"AI"},
			KeyPoints:      []string{"point"},
			RelevanceScore: score,
		},
	}
}

func TestTierOf(t *testing.T) {
	tests := map[int]Tier{10: TierHigh, 8: TierHigh, 7: TierGood, 6: TierGood, 5: TierMedium, 4: TierMedium, 3: TierLow, 1: TierLow}
	for score, want := range tests {
		if got := TierOf(score); got != want {
			t.Errorf("TierOf(%d) = %s, want %s", score, got.Name, want.Name)
		}
	}
}

func TestComputeStats(t *testing.T) {
	recs := []dm.StoredRecord{record("a", 9), record("b", 6), {Title: "pending"}}
	st := ComputeStats(recs)
	if st.Total != 3 || st.Analyzed != 2 || math.Abs(st.AverageRelevance-7.5) > 1e-9 {
		t.Errorf("ComputeStats() = %+v", st)
	}
	if got := st.String(); got != "Total Articles: 3  |  Average Relevance: 7.5/10" {
		t.Errorf("String() = %q", got)
	}
	if st := ComputeStats(nil); st.AverageRelevance != 0 {
		t.Errorf("empty stats = %+v", st)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.Local)
	if err := Render(&buf, day, []dm.StoredRecord{record("chips", 9), record("funding", 8), record("patch", 5)}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"TECH NEWS DIGEST - 2026-10-16",
		"== HIGH relevance ==",
		"== MEDIUM relevance ==",
		"Article 3 │ Relevance: 5/10",
		"   • point",
		"Total articles analyzed: 3",
		"Average relevance score: 7.3/10",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(out, "== HIGH relevance ==") != 1 {
		t.Errorf("tier header repeated:\n%s", out)
	}
	if strings.Index(out, "chips") > strings.Index(out, "patch") {
		t.Errorf("records not kept in relevance order")
	}

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "║") && runewidth.StringWidth(line) != boxWidth+2 {
			t.Errorf("box line width = %d: %q", runewidth.StringWidth(line), line)
		}
	}
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, time.Now(), []dm.StoredRecord{{Title: "unanalyzed"}}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No articles have been analyzed yet for today.") {
		t.Errorf("output = %q", buf.String())
	}
}
