package schedule

import (
	"github.com/go-phorce/oneshot/cmd/oneshot/cli"
	"github.com/go-phorce/oneshot/ctl"
	"github.com/go-phorce/oneshot/tasks"
	"github.com/juju/errors"
)

// TaskInfo describes a configured task
type TaskInfo struct {
	Name   string `json:"name,omitempty"`
	Action string `json:"action"`
	Timing string `json:"timing"`
}

// Validate validates the configuration and prints the tasks
func Validate(c ctl.Control, _ interface{}) error {
	cfg := c.(*cli.Cli).Config()

	configured, err := cfg.EffectiveTasks()
	if err != nil {
		return errors.Trace(err)
	}

	list := []TaskInfo{}
	for _, t := range configured {
		spec, err := newSpec(&t, c.Writer())
		if err != nil {
			return errors.Annotatef(err, "task %q", t.Name)
		}
		info := TaskInfo{
			Name:   t.Name,
			Action: t.Action,
		}
		if spec.After != 0 {
			info.Timing = tasks.After(spec.After).String()
		} else {
			info.Timing = tasks.At(spec.At).String()
		}
		list = append(list, info)
	}

	return ctl.WriteJSON(c.Writer(), list)
}
