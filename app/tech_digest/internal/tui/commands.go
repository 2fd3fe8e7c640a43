package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/engine"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/storage"
)

const pollInterval = 500 * time.Millisecond

// loadRecords 查询已分析的记录
func loadRecords(q Querier, f storage.DateFilter, s storage.SortOrder) tea.Cmd {
	return func() tea.Msg {
		recs, err := q.Query(context.Background(), f, s, storage.AnalyzedOnly())
		return RecordsLoadedMsg{Records: recs, Err: err}
	}
}

// startImport 提交一次后台导入
func startImport(imp Importer) tea.Cmd {
	return func() tea.Msg {
		return ImportStartedMsg{Err: imp.Start(context.Background(), engine.RunOptions{})}
	}
}

// tickCmd 轮询定时器
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
