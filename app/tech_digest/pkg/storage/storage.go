package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/lo"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/config"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

// ErrNotFound 按 url 找不到文章
var ErrNotFound = errors.New("article not found")

const (
	topicSep    = ", "
	keyPointSep = " | "
)

// Storage 文章表存储。每个操作单独获取一个连接，操作之间不共享事务
type Storage struct {
	db      *sqlx.DB
	dialect dialect
	now     func() time.Time
}

// Option Storage 配置项
type Option func(*Storage)

// WithClock 替换时间来源，抓取时间与日期过滤都基于它
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

type dbArticle struct {
	ID             int64          `db:"id"`
	Title          string         `db:"title"`
	URL            string         `db:"url"`
	Snippet        sql.NullString `db:"snippet"`
	ArticleText    sql.NullString `db:"article_text"`
	Summary        sql.NullString `db:"summary"`
	Topics         sql.NullString `db:"topics"`
	KeyPoints      sql.NullString `db:"key_points"`
	RelevanceScore sql.NullInt64  `db:"relevance_score"`
	ScrapedDate    sql.NullTime   `db:"scraped_date"`
	AnalyzedDate   sql.NullTime   `db:"analyzed_date"`
}

// NewStorage 打开数据库并初始化表结构
func NewStorage(cfg config.DBConfig, opts ...Option) (*Storage, error) {
	d, err := lookupDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(d.driver, d.dsn(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	s := &Storage{db: db, dialect: d, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// InitSchema 建表（已存在则跳过）
func (s *Storage) InitSchema(ctx context.Context) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, stmt := range []string{s.dialect.createTable, createIndex} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Exists 判断 url 是否已入库
func (s *Storage) Exists(ctx context.Context, url string) (bool, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	var n int
	if err := conn.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM articles WHERE url = ?`), url); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Insert 按 url 插入或覆盖文章。覆盖时分析字段一并清空，保证分析字段要么全空要么全有
func (s *Storage) Insert(ctx context.Context, article model.Article) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO articles (title, url, snippet, article_text, scraped_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			title = excluded.title,
			snippet = excluded.snippet,
			article_text = excluded.article_text,
			scraped_date = excluded.scraped_date,
			summary = NULL,
			topics = NULL,
			key_points = NULL,
			relevance_score = NULL,
			analyzed_date = NULL`),
		sanitize(article.Title),
		article.URL,
		sanitize(article.Snippet),
		sanitize(article.BodyText),
		s.timestamp(),
	)
	return err
}

// UpdateAnalysis 写入分析结果；url 不存在时返回 ErrNotFound，表不做任何改动
func (s *Storage) UpdateAnalysis(ctx context.Context, url string, analysis model.Analysis) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, s.db.Rebind(`
		UPDATE articles
		SET summary = ?, topics = ?, key_points = ?, relevance_score = ?, analyzed_date = ?
		WHERE url = ?`),
		sanitize(analysis.Summary),
		sanitize(strings.Join(analysis.Topics, topicSep)),
		sanitize(strings.Join(analysis.KeyPoints, keyPointSep)),
		analysis.RelevanceScore,
		s.timestamp(),
		url,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update analysis %s: %w", url, ErrNotFound)
	}
	return nil
}

type queryOptions struct {
	analyzedOnly bool
	limit        int
}

// QueryOption 查询选项
type QueryOption func(*queryOptions)

// AnalyzedOnly 只返回已分析的记录
func AnalyzedOnly() QueryOption {
	return func(o *queryOptions) {
		o.analyzedOnly = true
	}
}

// Limit 限制返回条数
func Limit(n int) QueryOption {
	return func(o *queryOptions) {
		o.limit = n
	}
}

// Query 按日期过滤并排序返回记录
func (s *Storage) Query(ctx context.Context, filter DateFilter, order SortOrder, opts ...QueryOption) ([]model.StoredRecord, error) {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT id, title, url, snippet, article_text, summary, topics, key_points,
		relevance_score, scraped_date, analyzed_date
		FROM articles WHERE 1 = 1`)
	if o.analyzedOnly {
		sb.WriteString(" AND summary IS NOT NULL")
	}
	from, to := filter.bounds(s.now())
	if !from.IsZero() {
		sb.WriteString(" AND scraped_date >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		sb.WriteString(" AND scraped_date < ?")
		args = append(args, to.UTC())
	}
	sb.WriteString(" ORDER BY " + order.orderBy())
	if o.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", o.limit)
	}

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var rows []dbArticle
	if err := conn.SelectContext(ctx, &rows, s.db.Rebind(sb.String()), args...); err != nil {
		return nil, err
	}

	return lo.Map(rows, func(r dbArticle, _ int) model.StoredRecord {
		return r.toRecord()
	}), nil
}

// DeleteAll 清空文章表
func (s *Storage) DeleteAll(ctx context.Context) (int64, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, `DELETE FROM articles`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// timestamp 统一以 UTC 秒精度写入，保证 sqlite 中按字符串比较时顺序正确
func (s *Storage) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (r dbArticle) toRecord() model.StoredRecord {
	rec := model.StoredRecord{
		ID:       r.ID,
		Title:    r.Title,
		URL:      r.URL,
		Snippet:  r.Snippet.String,
		BodyText: r.ArticleText.String,
	}
	if r.ScrapedDate.Valid {
		rec.ScrapedAt = r.ScrapedDate.Time.Local()
	}
	if r.Summary.Valid {
		rec.Analysis = &model.Analysis{
			Summary:        r.Summary.String,
			Topics:         splitList(r.Topics.String, ","),
			KeyPoints:      splitList(r.KeyPoints.String, "|"),
			RelevanceScore: int(r.RelevanceScore.Int64),
		}
	}
	if r.AnalyzedDate.Valid {
		t := r.AnalyzedDate.Time.Local()
		rec.AnalyzedAt = &t
	}
	return rec
}

func splitList(s, sep string) []string {
	parts := lo.Map(strings.Split(s, sep), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}

// sanitize 移除无效的 UTF-8 字符与 NULL 字节，PostgreSQL 文本字段不支持 NULL 字节
func sanitize(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r == utf8.RuneError {
				continue
			}
			v = append(v, r)
		}
		s = string(v)
	}
	return strings.ReplaceAll(s, "\x00", "")
}
