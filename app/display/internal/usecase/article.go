package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"

	"github.com/iWorld-y/tech_digest/app/display/internal/domain"
	"github.com/iWorld-y/tech_digest/app/display/internal/repo"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/storage"
)

// ArticleUseCase 文章查询业务逻辑
type ArticleUseCase struct {
	repo repo.ArticleRepo
	log  *log.Helper
}

// NewArticleUseCase 创建文章业务逻辑实例
func NewArticleUseCase(repo repo.ArticleRepo, logger log.Logger) *ArticleUseCase {
	return &ArticleUseCase{repo: repo, log: log.NewHelper(logger)}
}

// List 按条件列出已分析文章，并计算数量与平均相关度
func (uc *ArticleUseCase) List(ctx context.Context, q domain.ArticleQuery) (*domain.ArticleList, error) {
	filter, err := storage.ParseDateFilter(q.Date)
	if err != nil {
		return nil, errors.BadRequest("INVALID_DATE_FILTER", err.Error())
	}
	order, err := storage.ParseSortOrder(q.Sort)
	if err != nil {
		return nil, errors.BadRequest("INVALID_SORT_ORDER", err.Error())
	}

	articles, err := uc.repo.ListAnalyzed(ctx, filter, order)
	if err != nil {
		return nil, errors.InternalServer("QUERY_FAILED", "failed to load articles").WithCause(err)
	}

	list := &domain.ArticleList{
		Date:     string(filter),
		Sort:     string(order),
		Articles: articles,
		Stats:    domain.Stats{Total: len(articles)},
	}
	if len(articles) > 0 {
		sum := lo.SumBy(articles, func(a *domain.Article) int { return a.RelevanceScore })
		list.Stats.AverageRelevance = float64(sum) / float64(len(articles))
	}
	return list, nil
}
