// Package config provides the configuration of the oneshot command
package config

import (
	"strings"
	"time"

	"github.com/coreos/pkg/capnslog"
	"github.com/go-phorce/oneshot/fileutil"
	"github.com/go-phorce/oneshot/metrics"
	"github.com/go-phorce/oneshot/tasks"
	"github.com/jinzhu/copier"
	"github.com/juju/errors"
	"gopkg.in/yaml.v2"
)

var logger = capnslog.NewPackageLogger("github.com/go-phorce/oneshot", "config")

// Supported task actions
const (
	// ActionPrint prints the message to the command output
	ActionPrint = "print"
	// ActionExec executes the command
	ActionExec = "exec"
)

// Configuration of the oneshot command
type Configuration struct {
	// Scheduler specifies the scheduler settings
	Scheduler Scheduler `json:"scheduler" yaml:"scheduler"`

	// Logs specifies the logging settings
	Logs Logs `json:"logs" yaml:"logs"`

	// Metrics specifies the metrics settings
	Metrics metrics.Config `json:"metrics" yaml:"metrics"`

	// Defaults specifies the values for the tasks,
	// where they are not provided
	Defaults Task `json:"defaults" yaml:"defaults"`

	// Tasks specifies the list of tasks to schedule
	Tasks []Task `json:"tasks" yaml:"tasks"`

	// dir is the folder of the loaded configuration
	dir string
}

// Scheduler specifies the scheduler settings
type Scheduler struct {
	// Resolution is the time unit of the scheduler, 1s by default
	Resolution time.Duration `json:"resolution,omitempty" yaml:"resolution,omitempty"`
}

// Logs specifies the logging settings
type Logs struct {
	// Directory specifies the folder for the log files,
	// relative to the configuration file.
	// If not set, the logs are written to stderr.
	Directory string `json:"directory,omitempty" yaml:"directory,omitempty"`
	// MaxAgeDays specifies the maximum number of days to retain old log files
	MaxAgeDays int `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
	// MaxSizeMb specifies the maximum size in megabytes of the log file before it gets rotated
	MaxSizeMb int `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	// Levels specifies the log levels per package
	Levels []LogLevel `json:"levels,omitempty" yaml:"levels,omitempty"`
}

// LogLevel specifies a log level for a package
type LogLevel struct {
	// Repo is the repository name, github.com/go-phorce/oneshot by default
	Repo string `json:"repo,omitempty" yaml:"repo,omitempty"`
	// Package is the package name, or * for all packages of the repo
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
	// Level is one of CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG, TRACE
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// Task specifies a scheduled action
type Task struct {
	// Name of the task
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// After specifies the delay after the start to execute the task
	After time.Duration `json:"after,omitempty" yaml:"after,omitempty"`
	// At specifies the time to execute the task, in tasks.DateFormat
	At string `json:"at,omitempty" yaml:"at,omitempty"`
	// AtDate specifies the time to execute the task by parts:
	// year, month, day, hour, minute, second.
	// The parts not provided are taken from the current time.
	AtDate map[string]int `json:"at_date,omitempty" yaml:"at_date,omitempty"`
	// Action is print or exec
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
	// Message to print
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	// Command to execute
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	// Args for the command
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// Load returns the configuration loaded from location,
// which can be file://, env:// or a plain file path
func Load(location string) (*Configuration, error) {
	src, err := fileutil.LoadSource(location)
	if err != nil {
		return nil, errors.Annotatef(err, "unable to read configuration %q", location)
	}

	cfg, err := Parse(src.Content)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to load configuration %q", location)
	}
	cfg.dir = src.Dir

	logger.Infof("status=loaded, location=%q, tasks=%d", location, len(cfg.Tasks))
	return cfg, nil
}

// Parse returns the configuration from YAML or JSON content
func Parse(content []byte) (*Configuration, error) {
	cfg := new(Configuration)
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, errors.Annotate(err, "failed to unmarshal configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}

// Validate returns error if the configuration is not valid
func (c *Configuration) Validate() error {
	if c.Scheduler.Resolution < 0 {
		return errors.NotValidf("negative scheduler resolution %s", c.Scheduler.Resolution)
	}
	if c.Logs.MaxAgeDays < 0 || c.Logs.MaxSizeMb < 0 {
		return errors.NotValidf("negative logs limits")
	}
	for _, l := range c.Logs.Levels {
		if _, err := capnslog.ParseLevel(strings.ToUpper(l.Level)); err != nil {
			return errors.NotValidf("log level %q", l.Level)
		}
	}
	if err := c.Metrics.Validate(); err != nil {
		return errors.Trace(err)
	}

	list, err := c.EffectiveTasks()
	if err != nil {
		return errors.Trace(err)
	}

	names := map[string]bool{}
	for i, t := range list {
		if t.Name != "" {
			if names[t.Name] {
				return errors.AlreadyExistsf("task name %q", t.Name)
			}
			names[t.Name] = true
		}
		if err := t.Validate(c.Resolution()); err != nil {
			return errors.Annotatef(err, "task[%d]", i)
		}
	}
	return nil
}

// Resolution returns the scheduler resolution
func (c *Configuration) Resolution() time.Duration {
	if c.Scheduler.Resolution > 0 {
		return c.Scheduler.Resolution
	}
	return tasks.DefaultResolution
}

// Dir returns the folder of the loaded configuration
func (c *Configuration) Dir() string {
	return c.dir
}

// LogsDirectory returns the resolved logs folder,
// or empty string if the logs are not written to files
func (c *Configuration) LogsDirectory() (string, error) {
	dir, err := fileutil.ResolveDirectory(c.Logs.Directory, c.dir, true)
	if err != nil {
		return "", errors.Annotate(err, "unable to resolve logs directory")
	}
	return dir, nil
}

// EffectiveTasks returns the list of tasks with the defaults applied
func (c *Configuration) EffectiveTasks() ([]Task, error) {
	list := make([]Task, len(c.Tasks))
	for i := range c.Tasks {
		merged, err := c.Defaults.Merge(&c.Tasks[i])
		if err != nil {
			return nil, errors.Annotatef(err, "task[%d]", i)
		}
		list[i] = merged
	}
	return list, nil
}

// Merge returns the copy of defaults overridden by the non-empty values of t.
// The timing of defaults is used only if t has no timing.
func (d *Task) Merge(t *Task) (Task, error) {
	var merged Task
	if err := copier.Copy(&merged, d); err != nil {
		return Task{}, errors.Annotate(err, "unable to copy defaults")
	}
	if err := copier.CopyWithOption(&merged, t, copier.Option{IgnoreEmpty: true}); err != nil {
		return Task{}, errors.Annotate(err, "unable to merge task")
	}
	if t.hasTiming() {
		merged.After = t.After
		merged.At = t.At
		merged.AtDate = t.AtDate
	}
	return merged, nil
}

func (t *Task) hasTiming() bool {
	return t.After != 0 || t.At != "" || len(t.AtDate) > 0
}

// Validate returns error if the task is not valid
func (t *Task) Validate(resolution time.Duration) error {
	switch strings.ToLower(t.Action) {
	case ActionPrint:
	case ActionExec:
		if t.Command == "" {
			return errors.NotValidf("exec action without command")
		}
	case "":
		return errors.NotValidf("missing action")
	default:
		return errors.NotSupportedf("action %q", t.Action)
	}

	at, after, err := t.Timing()
	if err != nil {
		return errors.Trace(err)
	}
	if after != 0 {
		if err = tasks.After(after).Validate(resolution); err != nil {
			return errors.Trace(err)
		}
	} else if at.IsZero() {
		return errors.NotValidf("missing timing")
	}
	return nil
}

// Timing returns the absolute time or the delay of the task
func (t *Task) Timing() (time.Time, time.Duration, error) {
	count := 0
	if t.After != 0 {
		count++
	}
	if t.At != "" {
		count++
	}
	if len(t.AtDate) > 0 {
		count++
	}
	if count > 1 {
		return time.Time{}, 0, errors.NotValidf("multiple timing methods")
	}

	switch {
	case t.At != "":
		at, err := tasks.ParseDate(t.At)
		if err != nil {
			return time.Time{}, 0, errors.Trace(err)
		}
		return at, 0, nil
	case len(t.AtDate) > 0:
		at, err := tasks.BuildDate(t.AtDate)
		if err != nil {
			return time.Time{}, 0, errors.Trace(err)
		}
		return at, 0, nil
	}
	return time.Time{}, t.After, nil
}
