package pkg

import (
	"io"

	"github.com/go-phorce/oneshot/cmd/oneshot/cli"
	"github.com/go-phorce/oneshot/cmd/oneshot/schedule"
	"github.com/go-phorce/oneshot/ctl"
)

// ParseAndRun will parse parameters and execute the command
func ParseAndRun(cmdname string, args []string, out io.Writer) ctl.ReturnCode {
	app := ctl.NewApplication(cmdname, "command-line utility for running one-shot scheduled tasks")
	app.UsageWriter(out)

	cli := cli.New(&ctl.ControlDefinition{
		App:    app,
		Output: out,
	})
	defer cli.Close()

	// run [--timeout]
	runFlags := new(schedule.RunFlags)
	cmdRun := app.Command("run", "Run the configured tasks and wait for completion").
		PreAction(cli.EnsureConfig).
		PreAction(cli.EnsureLogs).
		PreAction(cli.EnsureMetrics).
		Action(cli.RegisterAction(schedule.Run, runFlags))
	runFlags.Timeout = cmdRun.Flag("timeout", "max time to wait for the tasks, 0 to wait until all are done").
		Default("0s").
		Duration()

	// validate
	app.Command("validate", "Validate the configuration and show the tasks").
		PreAction(cli.EnsureConfig).
		Action(cli.RegisterAction(schedule.Validate, nil))

	cli.Parse(args)
	return cli.ReturnCode()
}
