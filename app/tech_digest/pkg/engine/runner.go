package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/logger"
)

// ErrRunInProgress 已有一次运行未结束
var ErrRunInProgress = errors.New("a run is already in progress")

// Pipeline 可被 Runner 调度的一次运行
type Pipeline interface {
	Run(ctx context.Context, opts RunOptions) (*RunReport, error)
}

// Status 运行状态快照
type Status struct {
	Running    bool       `json:"running"`
	Stage      string     `json:"stage"`
	Progress   int        `json:"progress"`
	StartedAt  time.Time  `json:"started_at,omitempty"`
	LastReport *RunReport `json:"last_report,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

// Runner 在后台 goroutine 中执行流水线，同一时刻最多一次运行
type Runner struct {
	pipeline Pipeline
	running  atomic.Bool
	wg       sync.WaitGroup

	mu     sync.RWMutex
	status Status
}

// NewRunner 创建 Runner
func NewRunner(p Pipeline) *Runner {
	return &Runner{pipeline: p}
}

// Start 启动一次后台运行。已有运行时返回 ErrRunInProgress
//
// 运行不随 ctx 取消，只继承其中的值。
func (r *Runner) Start(ctx context.Context, opts RunOptions) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}

	r.mu.Lock()
	r.status.Running = true
	r.status.Stage = "starting"
	r.status.Progress = 0
	r.status.StartedAt = time.Now()
	r.status.LastError = ""
	r.mu.Unlock()

	callback := opts.ProgressCallback
	opts.ProgressCallback = func(stage string, progress int) {
		r.mu.Lock()
		r.status.Stage = stage
		r.status.Progress = progress
		r.mu.Unlock()
		if callback != nil {
			callback(stage, progress)
		}
	}

	runCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.running.Store(false)

		report, err := r.run(runCtx, opts)

		r.mu.Lock()
		r.status.Running = false
		if report != nil {
			r.status.LastReport = report
		}
		if err != nil {
			r.status.Stage = "failed"
			r.status.LastError = err.Error()
			logger.Log.Errorf("后台运行失败: %v", err)
		}
		r.mu.Unlock()
	}()
	return nil
}

// run 执行流水线，panic 转为错误记录到状态中
func (r *Runner) run(ctx context.Context, opts RunOptions) (report *RunReport, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pipeline panic: %v", p)
		}
	}()
	return r.pipeline.Run(ctx, opts)
}

// Running 是否有运行未结束
func (r *Runner) Running() bool {
	return r.running.Load()
}

// Status 返回当前状态快照
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Wait 等待当前运行结束
func (r *Runner) Wait() {
	r.wg.Wait()
}
