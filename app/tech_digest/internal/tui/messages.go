package tui

import (
	"time"

	dm "github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

// RecordsLoadedMsg 查询完成
type RecordsLoadedMsg struct {
	Records []dm.StoredRecord
	Err     error
}

// ImportStartedMsg 导入已提交
type ImportStartedMsg struct {
	Err error
}

// TickMsg 导入进行中时定时轮询状态
type TickMsg struct {
	Time time.Time
}
