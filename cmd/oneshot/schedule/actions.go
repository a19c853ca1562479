// Package schedule provides the commands to run and validate the configured tasks
package schedule

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/go-phorce/oneshot/config"
	"github.com/go-phorce/oneshot/tasks"
	"github.com/juju/errors"
)

var logger = capnslog.NewPackageLogger("github.com/go-phorce/oneshot", "schedule")

// command is the payload of exec action
type command struct {
	Name string
	Args []string
}

// newSpec returns the task spec for the configured task
func newSpec(t *config.Task, out io.Writer) (tasks.Spec, error) {
	at, after, err := t.Timing()
	if err != nil {
		return tasks.Spec{}, errors.Trace(err)
	}

	spec := tasks.Spec{
		Name:  t.Name,
		At:    at,
		After: after,
	}

	switch strings.ToLower(t.Action) {
	case config.ActionPrint:
		spec.Func = func(message string) {
			fmt.Fprintln(out, message)
		}
		spec.Args = t.Message
	case config.ActionExec:
		spec.Func = func(cmd command) error {
			return execute(cmd, out)
		}
		spec.Args = command{Name: t.Command, Args: t.Args}
	default:
		return tasks.Spec{}, errors.NotSupportedf("action %q", t.Action)
	}
	return spec, nil
}

// execute runs the command and writes its combined output to out
func execute(cmd command, out io.Writer) error {
	logger.Debugf("status=exec, command=%q, args=%q", cmd.Name, cmd.Args)

	output, err := exec.Command(cmd.Name, cmd.Args...).CombinedOutput()
	if len(output) > 0 {
		out.Write(output)
	}
	if err != nil {
		return errors.Annotatef(err, "command %q", cmd.Name)
	}
	return nil
}
