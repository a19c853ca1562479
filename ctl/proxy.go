package ctl

import (
	"io"

	kp "gopkg.in/alecthomas/kingpin.v2"
)

// Action is a CTL action
type Action func() error

// CmdClause wraps kingpin's command to accept CTL actions
type CmdClause kp.CmdClause

// FlagClause wraps kingpin's flag, the value parsers are promoted from kingpin
type FlagClause kp.FlagClause

// Application is the subset of kingpin's application used by the commands
type Application interface {
	Parse(args []string) (command string, err error)
	Command(name, help string) *CmdClause
	Flag(name, help string) *FlagClause
	Terminate(terminate func(int)) Application
	UsageWriter(w io.Writer) Application
}

type proxyapp struct {
	*kp.Application
}

// NewApplication returns kingpin application
func NewApplication(name, help string) Application {
	return &proxyapp{kp.New(name, help)}
}

// Terminate sets the termination handler, nil disables os.Exit on usage errors
func (a *proxyapp) Terminate(terminate func(int)) Application {
	a.Application.Terminate(terminate)
	return a
}

// UsageWriter sets the destination of the usage and help
func (a *proxyapp) UsageWriter(w io.Writer) Application {
	a.Application.UsageWriter(w)
	return a
}

func (a *proxyapp) Command(name, help string) *CmdClause {
	return (*CmdClause)(a.Application.Command(name, help))
}

func (a *proxyapp) Flag(name, help string) *FlagClause {
	return (*FlagClause)(a.Application.Flag(name, help))
}

// Command adds a sub-command
func (c *CmdClause) Command(name, help string) *CmdClause {
	return (*CmdClause)((*kp.CmdClause)(c).Command(name, help))
}

// Flag adds a flag of the command
func (c *CmdClause) Flag(name, help string) *FlagClause {
	return (*FlagClause)((*kp.CmdClause)(c).Flag(name, help))
}

// Action sets the action of the command
func (c *CmdClause) Action(action Action) *CmdClause {
	return (*CmdClause)((*kp.CmdClause)(c).Action(wrap(action)))
}

// PreAction adds an action to run before the flags are validated
func (c *CmdClause) PreAction(action Action) *CmdClause {
	return (*CmdClause)((*kp.CmdClause)(c).PreAction(wrap(action)))
}

func wrap(action Action) kp.Action {
	return func(*kp.ParseContext) error {
		return action()
	}
}

// Default sets the value used when the flag is not provided
func (f *FlagClause) Default(values ...string) *FlagClause {
	return (*FlagClause)((*kp.FlagClause)(f).Default(values...))
}

// Envar sets the environment variable used when the flag is not provided
func (f *FlagClause) Envar(name string) *FlagClause {
	return (*FlagClause)((*kp.FlagClause)(f).Envar(name))
}

// Required marks the flag as mandatory
func (f *FlagClause) Required() *FlagClause {
	return (*FlagClause)((*kp.FlagClause)(f).Required())
}

// Short sets the single letter name of the flag
func (f *FlagClause) Short(name rune) *FlagClause {
	return (*FlagClause)((*kp.FlagClause)(f).Short(name))
}
