package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"

	"github.com/iWorld-y/tech_digest/app/display/internal/domain"
	"github.com/iWorld-y/tech_digest/app/display/internal/repo"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/digest"
	dm "github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/storage"
)

type articleRepo struct {
	data *Data
	log  *log.Helper
}

func NewArticleRepo(data *Data, logger log.Logger) repo.ArticleRepo {
	return &articleRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *articleRepo) ListAnalyzed(ctx context.Context, filter storage.DateFilter, order storage.SortOrder) ([]*domain.Article, error) {
	records, err := r.data.store.Query(ctx, filter, order, storage.AnalyzedOnly())
	if err != nil {
		r.log.WithContext(ctx).Errorf("query articles failed: %v", err)
		return nil, err
	}
	return lo.Map(records, func(rec dm.StoredRecord, _ int) *domain.Article {
		return toDomain(rec)
	}), nil
}

func toDomain(rec dm.StoredRecord) *domain.Article {
	a := &domain.Article{
		ID:        rec.ID,
		Title:     rec.Title,
		URL:       rec.URL,
		Topics:    []string{},
		KeyPoints: []string{},
		ScrapedAt: rec.ScrapedAt,
	}
	if rec.Analysis != nil {
		a.Summary = rec.Analysis.Summary
		a.Topics = rec.Analysis.Topics
		a.KeyPoints = rec.Analysis.KeyPoints
		a.RelevanceScore = rec.Analysis.RelevanceScore
	}
	tier := digest.TierOf(a.RelevanceScore)
	a.Tier, a.TierColor = tier.Name, tier.Color
	return a
}
