package engine

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// ItemState 单篇文章在一次运行中的最终状态
type ItemState string

const (
	SkippedExisting ItemState = "skipped-existing"
	SkippedNoURL    ItemState = "skipped-no-url"
	InsertFailed    ItemState = "insert-failed"
	SavedUnanalyzed ItemState = "saved-unanalyzed"
	SavedAnalyzed   ItemState = "saved-analyzed"
)

// ItemResult 单篇文章的处理结果
type ItemResult struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	State     ItemState `json:"state"`
	Relevance int       `json:"relevance,omitempty"`
	Err       error     `json:"-"`
}

// RunReport 一次运行的汇总
type RunReport struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Candidates int          `json:"candidates"`
	Items      []ItemResult `json:"items"`
}

// Count 统计处于某个状态的文章数
func (r *RunReport) Count(state ItemState) int {
	return lo.CountBy(r.Items, func(it ItemResult) bool {
		return it.State == state
	})
}

// Summary 单行汇总，用于日志与命令行输出
func (r *RunReport) Summary() string {
	return fmt.Sprintf("%d candidates: %d analyzed, %d saved without analysis, %d already stored, %d without link, %d failed (%s)",
		r.Candidates,
		r.Count(SavedAnalyzed),
		r.Count(SavedUnanalyzed),
		r.Count(SkippedExisting),
		r.Count(SkippedNoURL),
		r.Count(InsertFailed),
		r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
	)
}
