// Package ctl provides common code for building a command line control app
package ctl

import (
	"fmt"
	"io"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/juju/errors"
)

var logger = capnslog.NewPackageLogger("github.com/go-phorce/oneshot", "ctl")

// ReturnCode is the type that your command returns, these map to standard process return codes
type ReturnCode int

const (
	// RCOkay denotes success
	RCOkay ReturnCode = 0
	// RCFailed denotes a failure in the requested command
	RCFailed ReturnCode = 1
	// RCUsage denotes that the parameters supplied to the tool were somehow incorrect
	RCUsage ReturnCode = 64
)

// ControlAction is a wrapper over kingpin action
type ControlAction func(c Control, flags interface{}) error

// Control is an interface for CLI
type Control interface {
	App() Application
	Writer() io.Writer
	ErrWriter() io.Writer

	Printf(format string, args ...interface{})
	Fail(msg string, err error) error
	Parse(args []string) string
	ReturnCode() ReturnCode
}

// ControlDefinition contains the default settings for control application
type ControlDefinition struct {
	App Application
	// Output is the destination for all output from the command, typically set to os.Stdout
	Output io.Writer
	// ErrOutput is the destination for errors.
	// If not set, errors will be written to os.Stderr
	ErrOutput io.Writer
}

// Ctl contains the definition and result from the parsed and initialized data
type Ctl struct {
	params *ControlDefinition
	rc     ReturnCode
}

// NewControl creates new Control
func NewControl(d *ControlDefinition) *Ctl {
	if d.App == nil {
		logger.Panic("App variable is not provided in ControlDefinition")
	}
	return &Ctl{
		params: d,
	}
}

// RegisterAction create new Control action
func (ctl *Ctl) RegisterAction(f ControlAction, params interface{}) Action {
	return func() error {
		err := f(ctl, params)
		if err != nil {
			return ctl.Fail("action failed", err)
		}
		return nil
	}
}

// App returns current control App
func (ctl *Ctl) App() Application {
	return ctl.params.App
}

// Writer returns a writer for control output
func (ctl *Ctl) Writer() io.Writer {
	if ctl.params.Output != nil {
		return ctl.params.Output
	}
	return os.Stdout
}

// ErrWriter returns a writer for control errors
func (ctl *Ctl) ErrWriter() io.Writer {
	if ctl.params.ErrOutput != nil {
		return ctl.params.ErrOutput
	}
	return os.Stderr
}

// Printf writes formatted output to the control writer
func (ctl *Ctl) Printf(format string, args ...interface{}) {
	fmt.Fprintf(ctl.Writer(), format, args...)
}

// ReturnCode returns execution code
func (ctl *Ctl) ReturnCode() ReturnCode {
	return ctl.rc
}

// Fail the execution and return error
func (ctl *Ctl) Fail(msg string, err error) error {
	ctl.rc = RCFailed
	logger.Errorf("api=Ctl, message=%q, err=[%s]", msg, errors.ErrorStack(err))
	return err
}

// Reset is used mostly in tests to reset the control to initial state
func (ctl *Ctl) Reset(out io.Writer, errout io.Writer) {
	ctl.params.Output = out
	ctl.params.ErrOutput = errout
	ctl.rc = RCOkay
}

// Parse will parse all the supplied args and
// will perform any pre-actions and actions defined on the command
func (ctl *Ctl) Parse(args []string) string {
	cmd, err := ctl.params.App.Parse(args[1:])
	if err != nil {
		if ctl.rc != RCFailed {
			ctl.rc = RCUsage
		}
		fmt.Fprintf(ctl.ErrWriter(), "ERROR: %s\n", err.Error())
		return ""
	}
	return cmd
}
