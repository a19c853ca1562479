// Package cli provides common code for building a command line control for the scheduler
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coreos/pkg/capnslog"
	"github.com/go-phorce/oneshot/config"
	"github.com/go-phorce/oneshot/ctl"
	"github.com/go-phorce/oneshot/logrotate"
	"github.com/go-phorce/oneshot/metrics"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var logger = capnslog.NewPackageLogger("github.com/go-phorce/oneshot", "cli")

// RepoName is the repository of the package loggers
const RepoName = "github.com/go-phorce/oneshot"

// Cli is a project specific wrapper to the ctl.Ctl struct
type Cli struct {
	*ctl.Ctl

	flags struct {
		// cfg specifies the configuration location
		cfg *string
		// logLevel specifies the log levels: pkg=LEVEL,...
		logLevel *string
	}

	config   *config.Configuration
	registry *prometheus.Registry
	server   *http.Server
	logs     io.Closer
	out      *syncWriter
}

// New creates an instance of CLI
func New(d *ctl.ControlDefinition) *Cli {
	cli := &Cli{
		Ctl: ctl.NewControl(d),
	}
	cli.out = &syncWriter{w: cli.Ctl.Writer}

	cli.flags.cfg = d.App.Flag("cfg", "schedule configuration: file path, file:// or env://").
		Short('c').
		Envar("ONESHOT_CONFIG").
		Required().
		String()
	cli.flags.logLevel = d.App.Flag("log-level", "log levels, e.g. tasks=DEBUG,*=INFO").String()

	return cli
}

// RegisterAction create new Control action
func (cli *Cli) RegisterAction(f func(c ctl.Control, flags interface{}) error, params interface{}) ctl.Action {
	return func() error {
		err := f(cli, params)
		if err != nil {
			return cli.Fail("action failed", err)
		}
		return nil
	}
}

// Config returns the loaded configuration
func (cli *Cli) Config() *config.Configuration {
	if cli == nil || cli.config == nil {
		panic("use EnsureConfig() in App settings")
	}
	return cli.config
}

// Registry returns the prometheus registry of the metrics
func (cli *Cli) Registry() *prometheus.Registry {
	return cli.registry
}

// Writer returns a writer for control output,
// safe to use by concurrent tasks
func (cli *Cli) Writer() io.Writer {
	return cli.out
}

// Printf writes formatted output to the control writer
func (cli *Cli) Printf(format string, args ...interface{}) {
	fmt.Fprintf(cli.Writer(), format, args...)
}

// EnsureConfig is pre-action to load the configuration
func (cli *Cli) EnsureConfig() error {
	if cli.config != nil {
		return nil
	}
	// pre-actions run before the required flags are checked
	if *cli.flags.cfg == "" {
		return errors.New("required flag --cfg not provided")
	}

	cfg, err := config.Load(*cli.flags.cfg)
	if err != nil {
		return cli.Fail("unable to load configuration", err)
	}
	cli.config = cfg
	return nil
}

// EnsureLogs is pre-action to configure the logs
func (cli *Cli) EnsureLogs() error {
	if err := cli.configureLogs(cli.Config()); err != nil {
		return cli.Fail("unable to configure logs", err)
	}
	return nil
}

func (cli *Cli) configureLogs(cfg *config.Configuration) error {
	dir, err := cfg.LogsDirectory()
	if err != nil {
		return errors.Trace(err)
	}
	if dir != "" && cli.logs == nil {
		cli.logs, err = logrotate.Initialize(dir, "oneshot", cfg.Logs.MaxAgeDays, cfg.Logs.MaxSizeMb, nil)
		if err != nil {
			return errors.Annotate(err, "unable to initialize logs")
		}
	}

	for _, l := range cfg.Logs.Levels {
		if err = setLogLevel(l); err != nil {
			return errors.Trace(err)
		}
	}

	if *cli.flags.logLevel != "" {
		rl, err := capnslog.GetRepoLogger(RepoName)
		if err != nil {
			return errors.Trace(err)
		}
		levels, err := rl.ParseLogLevelConfig(*cli.flags.logLevel)
		if err != nil {
			return errors.NewNotValid(err, "log level "+*cli.flags.logLevel)
		}
		rl.SetLogLevel(levels)
	}

	logger.Infof("status=configured, logs=%q, levels=%d", dir, len(cfg.Logs.Levels))
	return nil
}

func setLogLevel(l config.LogLevel) error {
	repo := l.Repo
	if repo == "" {
		repo = RepoName
	}
	rl, err := capnslog.GetRepoLogger(repo)
	if err != nil {
		return errors.Annotatef(err, "repo %q", repo)
	}
	level, err := capnslog.ParseLevel(strings.ToUpper(l.Level))
	if err != nil {
		return errors.NewNotValid(err, "log level "+l.Level)
	}
	if l.Package == "" || l.Package == "*" {
		rl.SetRepoLogLevel(level)
	} else {
		rl.SetLogLevel(map[string]capnslog.LogLevel{l.Package: level})
	}
	return nil
}

// EnsureMetrics is pre-action to start the metrics
func (cli *Cli) EnsureMetrics() error {
	cfg := cli.Config()
	if cfg.Metrics.Provider == "" || cli.registry != nil {
		return nil
	}

	cli.registry = prometheus.NewRegistry()
	_, _, err := metrics.Start(&cfg.Metrics, cli.registry)
	if err != nil {
		return cli.Fail("unable to start metrics", err)
	}

	if strings.EqualFold(cfg.Metrics.Provider, metrics.ProviderPrometheus) && cfg.Metrics.Address != "" {
		cli.server = &http.Server{
			Addr:    cfg.Metrics.Address,
			Handler: metrics.NewHandler(cli.registry),
		}
		go func(server *http.Server) {
			logger.Infof("status=serving_metrics, address=%q", server.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf("reason=serve_metrics, address=%q, err=[%v]", server.Addr, err)
			}
		}(cli.server)
	}
	return nil
}

// Close stops the metrics endpoint and flushes the logs
func (cli *Cli) Close() {
	if cli.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cli.server.Shutdown(ctx)
		cli.server = nil
	}
	if cli.registry != nil {
		metrics.SetProvider(nil)
	}
	if cli.logs != nil {
		cli.logs.Close()
		cli.logs = nil
	}
}

// syncWriter serializes writes to the current control output
type syncWriter struct {
	lock sync.Mutex
	w    func() io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.w().Write(p)
}
