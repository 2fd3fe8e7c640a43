package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/tech_digest/app/display/internal/data"
	"github.com/iWorld-y/tech_digest/app/display/internal/service"
	"github.com/iWorld-y/tech_digest/app/display/internal/usecase"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/engine"
)

// ProviderSet 是展示服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewScheduler,
	NewDigestRunner,
	wire.Bind(new(usecase.Importer), new(*engine.Runner)),

	// Data providers
	data.NewData,
	data.NewArticleRepo,

	// UseCase providers
	usecase.NewArticleUseCase,
	usecase.NewImportUseCase,

	// Service providers
	service.NewDisplayService,
)
