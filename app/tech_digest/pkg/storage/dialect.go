package storage

import (
	"fmt"
	"strings"
)

// dialect 不同数据库之间只有建表语句和 DSN 处理不同，其余 SQL 通用（占位符由 sqlx.Rebind 转换）
type dialect struct {
	driver      string
	createTable string
}

const columnsDDL = `
	title TEXT NOT NULL,
	url TEXT UNIQUE NOT NULL,
	snippet TEXT,
	article_text TEXT,
	summary TEXT,
	topics TEXT,
	key_points TEXT,
	relevance_score INTEGER,
	scraped_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	analyzed_date TIMESTAMP
)`

var dialects = map[string]dialect{
	"sqlite3": {
		driver:      "sqlite3",
		createTable: "CREATE TABLE IF NOT EXISTS articles (\n\tid INTEGER PRIMARY KEY AUTOINCREMENT," + columnsDDL,
	},
	"postgres": {
		driver:      "postgres",
		createTable: "CREATE TABLE IF NOT EXISTS articles (\n\tid SERIAL PRIMARY KEY," + columnsDDL,
	},
}

const createIndex = `CREATE INDEX IF NOT EXISTS idx_articles_scraped_date ON articles (scraped_date)`

func lookupDialect(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return d, nil
}

// dsn sqlite 默认加上 busy timeout，避免界面读取与后台导入同时访问时报 database is locked
func (d dialect) dsn(raw string) string {
	if d.driver != "sqlite3" || strings.Contains(raw, "_busy_timeout") {
		return raw
	}
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + "_busy_timeout=5000"
}
