package service

import (
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/tech_digest/app/display/internal/domain"
	"github.com/iWorld-y/tech_digest/app/display/internal/usecase"
)

type DisplayService struct {
	ucArticle *usecase.ArticleUseCase
	ucImport  *usecase.ImportUseCase
	log       *log.Helper
}

func NewDisplayService(ucArticle *usecase.ArticleUseCase, ucImport *usecase.ImportUseCase, logger log.Logger) *DisplayService {
	return &DisplayService{
		ucArticle: ucArticle,
		ucImport:  ucImport,
		log:       log.NewHelper(logger),
	}
}

// RegisterDisplayHTTPServer 注册 /api 路由
func RegisterDisplayHTTPServer(srv *http.Server, s *DisplayService) {
	r := srv.Route("/")
	r.GET("/api/articles", s.ListArticles)
	r.POST("/api/import", s.StartImport)
	r.GET("/api/import/status", s.ImportStatus)
}

// ListArticles GET /api/articles?date=&sort=
func (s *DisplayService) ListArticles(ctx http.Context) error {
	q := ctx.Query()
	list, err := s.ucArticle.List(ctx, domain.ArticleQuery{
		Date: q.Get("date"),
		Sort: q.Get("sort"),
	})
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, list)
}

// StartImport POST /api/import
func (s *DisplayService) StartImport(ctx http.Context) error {
	if err := s.ucImport.Start(ctx); err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusAccepted, map[string]string{"status": "started"})
}

// ImportStatus GET /api/import/status
func (s *DisplayService) ImportStatus(ctx http.Context) error {
	return ctx.Result(nethttp.StatusOK, s.ucImport.Status(ctx))
}
