package server

import (
	"context"
	"errors"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"

	"github.com/iWorld-y/tech_digest/app/display/internal/conf"
	"github.com/iWorld-y/tech_digest/app/display/internal/usecase"
	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/engine"
)

// Scheduler 定时触发导入，实现 transport.Server 以便随 kratos.App 启停
type Scheduler struct {
	spec     string
	cron     *cron.Cron
	importer usecase.Importer
	log      *log.Helper
}

// NewScheduler schedule 为空时 Start/Stop 均为空操作
func NewScheduler(c *conf.Digest, importer usecase.Importer, logger log.Logger) (*Scheduler, error) {
	s := &Scheduler{importer: importer, log: log.NewHelper(logger)}
	if c == nil || c.Schedule == "" {
		return s, nil
	}

	s.spec = c.Schedule
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.trigger); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) trigger() {
	err := s.importer.Start(context.Background(), engine.RunOptions{})
	switch {
	case errors.Is(err, engine.ErrRunInProgress):
		s.log.Warn("scheduled import skipped: a run is already in progress")
	case err != nil:
		s.log.Errorf("scheduled import failed to start: %v", err)
	default:
		s.log.Info("scheduled import started")
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	s.log.Infof("[cron] import schedule: %s", s.spec)
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	return nil
}
