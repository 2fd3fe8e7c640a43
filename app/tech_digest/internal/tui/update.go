package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/digest"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/engine"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case RecordsLoadedMsg:
		return m.handleRecordsLoaded(msg)
	case ImportStartedMsg:
		return m.handleImportStarted(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m Model) reload() tea.Cmd {
	return loadRecords(m.store, m.Filter, m.Sort)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "f":
		m.Filter = nextFilter(m.Filter)
		return m, m.reload()
	case "s":
		m.Sort = nextSort(m.Sort)
		return m, m.reload()
	case "r":
		return m, m.reload()
	case "i":
		if m.Importing {
			m = m.AddLog("Import already in progress")
			return m, nil
		}
		return m, startImport(m.importer)
	case "j", "down":
		if m.Cursor < len(m.Records)-1 {
			m.Cursor++
		}
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
	}
	return m, nil
}

func (m Model) handleRecordsLoaded(msg RecordsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Err = fmt.Errorf("failed to load articles: %w", msg.Err)
		return m, nil
	}
	m.Err = nil
	m.Records = msg.Records
	m.Stats = digest.ComputeStats(msg.Records)
	if m.Cursor >= len(m.Records) {
		m.Cursor = max(len(m.Records)-1, 0)
	}
	return m, nil
}

func (m Model) handleImportStarted(msg ImportStartedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.Err, engine.ErrRunInProgress) {
		// 其他入口（例如定时任务）已经在导入，跟随它的进度
		m = m.AddLog("Import already in progress")
	} else if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	} else {
		m = m.AddLog("Starting article import...")
	}
	m.Importing = true
	m.Progress = 0
	m.lastStage = ""
	return m, tickCmd()
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.Importing {
		return m, nil
	}
	st := m.importer.Status()
	m.Progress = st.Progress
	if st.Stage != "" && st.Stage != m.lastStage {
		m.lastStage = st.Stage
		m = m.AddLog(st.Stage)
	}
	if st.Running {
		return m, tickCmd()
	}

	m.Importing = false
	switch {
	case st.LastError != "":
		m = m.AddLog("ERROR: " + st.LastError)
	case st.LastReport != nil:
		m = m.AddLog("Import complete! " + st.LastReport.Summary())
	}
	return m, m.reload()
}
