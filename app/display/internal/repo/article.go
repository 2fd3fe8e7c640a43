package repo

import (
	"context"

	"github.com/iWorld-y/tech_digest/app/display/internal/domain"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/storage"
)

// ArticleRepo 文章仓库接口
type ArticleRepo interface {
	// ListAnalyzed 按日期过滤与排序返回已分析文章
	ListAnalyzed(ctx context.Context, filter storage.DateFilter, order storage.SortOrder) ([]*domain.Article, error)
}
