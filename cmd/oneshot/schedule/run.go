package schedule

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-phorce/oneshot/cmd/oneshot/cli"
	"github.com/go-phorce/oneshot/ctl"
	"github.com/go-phorce/oneshot/tasks"
	"github.com/juju/errors"
)

// RunFlags specifies flags for the run command
type RunFlags struct {
	// Timeout specifies the max time to wait for the tasks, 0 to wait until all are done
	Timeout *time.Duration
}

// Report is printed by the run command
type Report struct {
	Completed int          `json:"completed"`
	Failed    int          `json:"failed"`
	Pending   int          `json:"pending"`
	Tasks     []TaskResult `json:"tasks"`
}

// TaskResult describes the outcome of a task
type TaskResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Timing string `json:"timing"`
	State  string `json:"state"`
	Error  string `json:"error,omitempty"`
}

// Run schedules the configured tasks, waits for completion and prints the report
func Run(c ctl.Control, p interface{}) error {
	flags := p.(*RunFlags)
	cfg := c.(*cli.Cli).Config()

	m := tasks.NewManager(tasks.WithResolution(cfg.Resolution()))

	configured, err := cfg.EffectiveTasks()
	if err != nil {
		return errors.Trace(err)
	}

	var list []*tasks.Task
	for _, t := range configured {
		spec, err := newSpec(&t, c.Writer())
		if err != nil {
			return errors.Annotatef(err, "task %q", t.Name)
		}
		task, err := m.NewTask(spec)
		if err != nil {
			return errors.Annotatef(err, "task %q", t.Name)
		}
		list = append(list, task)
	}

	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	sub := m.On(tasks.EventCompleted, func(*tasks.Task) {
		if m.Size() == 0 {
			finish()
		}
	})
	defer sub.Unsubscribe()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *flags.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *flags.Timeout)
		defer cancel()
	}

	logger.Infof("status=running, tasks=%d, resolution=%s", len(list), cfg.Resolution())
	m.RunAll()
	if m.Size() == 0 {
		finish()
	}

	var waitErr error
	select {
	case <-done:
	case <-ctx.Done():
		pending := m.Size()
		m.Clear()
		logger.Warningf("status=interrupted, pending=%d, reason=[%v]", pending, ctx.Err())
		waitErr = errors.Timeoutf("%d pending tasks", pending)
	}

	report := newReport(list)
	if err := ctl.WriteJSON(c.Writer(), report); err != nil {
		return errors.Trace(err)
	}
	if waitErr != nil {
		return waitErr
	}
	if report.Failed > 0 {
		return errors.Errorf("%d tasks failed", report.Failed)
	}
	return nil
}

func newReport(list []*tasks.Task) *Report {
	r := &Report{
		Tasks: make([]TaskResult, 0, len(list)),
	}
	for _, t := range list {
		res := TaskResult{
			ID:     t.ID(),
			Name:   t.Name(),
			Timing: t.Timing().String(),
			State:  t.State().String(),
		}
		if t.IsDone() {
			r.Completed++
			if err := t.Err(); err != nil {
				r.Failed++
				res.Error = err.Error()
			}
		} else {
			r.Pending++
		}
		r.Tasks = append(r.Tasks, res)
	}
	return r
}
