package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type blockingPipeline struct {
	release chan struct{}
	started chan struct{}
	err     error
}

func (p *blockingPipeline) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	opts.ProgressCallback("fetching listing", 0)
	close(p.started)
	<-p.release
	if p.err != nil {
		return &RunReport{RunID: "r1"}, p.err
	}
	opts.ProgressCallback("completed", 100)
	return &RunReport{RunID: "r1", Candidates: 1, Items: []ItemResult{{URL: "u", State: SavedAnalyzed}}}, nil
}

func TestRunner_SingleRunGuard(t *testing.T) {
	p := &blockingPipeline{release: make(chan struct{}), started: make(chan struct{})}
	r := NewRunner(p)

	var seen []int
	if err := r.Start(context.Background(), RunOptions{
		ProgressCallback: func(_ string, progress int) { seen = append(seen, progress) },
	}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	<-p.started

	if err := r.Start(context.Background(), RunOptions{}); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("second Start() error = %v, want ErrRunInProgress", err)
	}
	if st := r.Status(); !st.Running || st.Stage != "fetching listing" {
		t.Errorf("Status() = %+v, want running at fetching listing", st)
	}

	close(p.release)
	r.Wait()

	st := r.Status()
	if st.Running || r.Running() {
		t.Errorf("still running after Wait()")
	}
	if st.Progress != 100 || st.LastReport == nil || st.LastReport.RunID != "r1" {
		t.Errorf("Status() = %+v", st)
	}
	if len(seen) != 2 || seen[1] != 100 {
		t.Errorf("caller callback saw %v", seen)
	}
}

func TestRunner_RecordsFailureAndAllowsRestart(t *testing.T) {
	p := &blockingPipeline{release: make(chan struct{}), started: make(chan struct{}), err: errors.New("listing down")}
	r := NewRunner(p)
	close(p.release)

	if err := r.Start(context.Background(), RunOptions{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	r.Wait()
	if st := r.Status(); st.LastError != "listing down" || st.Stage != "failed" {
		t.Errorf("Status() = %+v, want failure recorded", st)
	}

	p.started = make(chan struct{})
	p.err = nil
	if err := r.Start(context.Background(), RunOptions{}); err != nil {
		t.Fatalf("restart Start() error = %v", err)
	}
	r.Wait()
	if st := r.Status(); st.LastError != "" || st.LastReport.Candidates != 1 {
		t.Errorf("Status() = %+v, want clean second run", st)
	}
}

func TestRunner_DetachesFromCallerContext(t *testing.T) {
	p := &blockingPipeline{release: make(chan struct{}), started: make(chan struct{})}
	r := NewRunner(p)

	ctx, cancel := context.WithCancel(context.Background())
	if err := r.Start(ctx, RunOptions{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	<-p.started
	cancel()
	close(p.release)
	r.Wait()
	if st := r.Status(); st.LastError != "" {
		t.Errorf("run failed after caller cancel: %s", st.LastError)
	}
}

type panickingPipeline struct{}

func (panickingPipeline) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	opts.ProgressCallback("fetching listing", 0)
	panic("selector exploded")
}

func TestRunner_RecoversPanic(t *testing.T) {
	r := NewRunner(panickingPipeline{})
	if err := r.Start(context.Background(), RunOptions{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	r.Wait()

	st := r.Status()
	if st.Running || r.Running() {
		t.Errorf("still running after panic")
	}
	if st.Stage != "failed" || !strings.Contains(st.LastError, "selector exploded") {
		t.Errorf("Status() = %+v, want panic recorded as failure", st)
	}
	if err := r.Start(context.Background(), RunOptions{}); err != nil {
		t.Errorf("Start() after panic error = %v", err)
	}
	r.Wait()
}
