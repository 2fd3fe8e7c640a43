package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/digest"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/engine"
	dm "github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/storage"
)

const maxLogs = 8

// Querier 文章查询
type Querier interface {
	Query(ctx context.Context, filter storage.DateFilter, order storage.SortOrder, opts ...storage.QueryOption) ([]dm.StoredRecord, error)
}

// Importer 后台导入，同一时刻只允许一次
type Importer interface {
	Start(ctx context.Context, opts engine.RunOptions) error
	Status() engine.Status
}

// LogEntry 活动日志
type LogEntry struct {
	Timestamp time.Time
	Message   string
}

// Model 终端查看器状态
type Model struct {
	store    Querier
	importer Importer

	Filter  storage.DateFilter
	Sort    storage.SortOrder
	Records []dm.StoredRecord
	Stats   digest.Stats
	Cursor  int

	Importing bool
	Progress  int
	lastStage string
	Logs      []LogEntry
	Err       error

	width int
}

// NewModel 默认显示今天、按相关度排序
func NewModel(store Querier, importer Importer) Model {
	return Model{
		store:    store,
		importer: importer,
		Filter:   storage.Today,
		Sort:     storage.RelevanceDesc,
		width:    100,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return loadRecords(m.store, m.Filter, m.Sort)
}

// AddLog 追加一条活动日志，只保留最近几条
func (m Model) AddLog(msg string) Model {
	m.Logs = append(m.Logs, LogEntry{Timestamp: time.Now(), Message: msg})
	if len(m.Logs) > maxLogs {
		m.Logs = m.Logs[len(m.Logs)-maxLogs:]
	}
	return m
}

// Selected 当前选中的记录
func (m Model) Selected() (dm.StoredRecord, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Records) {
		return dm.StoredRecord{}, false
	}
	return m.Records[m.Cursor], true
}

func nextFilter(f storage.DateFilter) storage.DateFilter {
	all := storage.DateFilters
	for i, v := range all {
		if v == f {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func nextSort(s storage.SortOrder) storage.SortOrder {
	all := storage.SortOrders
	for i, v := range all {
		if v == s {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}
