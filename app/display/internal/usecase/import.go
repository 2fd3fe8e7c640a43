package usecase

import (
	"context"
	stderrors "errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/engine"
)

// Importer 后台导入
type Importer interface {
	Start(ctx context.Context, opts engine.RunOptions) error
	Status() engine.Status
}

// ImportUseCase 导入业务逻辑，网页与定时任务共用同一个 Importer
type ImportUseCase struct {
	importer Importer
	log      *log.Helper
}

// NewImportUseCase 创建导入业务逻辑实例
func NewImportUseCase(importer Importer, logger log.Logger) *ImportUseCase {
	return &ImportUseCase{importer: importer, log: log.NewHelper(logger)}
}

// Start 触发一次导入；已有导入时返回 409
func (uc *ImportUseCase) Start(ctx context.Context) error {
	err := uc.importer.Start(ctx, engine.RunOptions{})
	if stderrors.Is(err, engine.ErrRunInProgress) {
		return errors.Conflict("IMPORT_IN_PROGRESS", err.Error())
	}
	if err != nil {
		return errors.InternalServer("IMPORT_FAILED", err.Error())
	}
	uc.log.WithContext(ctx).Info("import started")
	return nil
}

// Status 当前导入状态
func (uc *ImportUseCase) Status(ctx context.Context) engine.Status {
	return uc.importer.Status()
}
