package metrics

import (
	"strings"
	"time"

	gometrics "github.com/armon/go-metrics"
	"github.com/armon/go-metrics/datadog"
	gmprometheus "github.com/armon/go-metrics/prometheus"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Supported metrics providers
const (
	ProviderInmem      = "inmem"
	ProviderPrometheus = "prometheus"
	ProviderStatsd     = "statsd"
	ProviderDatadog    = "datadog"
)

// Config provides configuration of metrics
type Config struct {
	// Provider specifies the sink: inmem|prometheus|statsd|datadog,
	// metrics are disabled if empty
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	// Address specifies the statsd/datadog agent address,
	// or the listen address of the prometheus endpoint
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	// ServiceName is prefixed to all the metric keys
	ServiceName string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
	// EnableRuntimeMetrics enables profiling of runtime metrics (GC, Goroutines, Memory)
	EnableRuntimeMetrics bool `json:"runtime_metrics,omitempty" yaml:"runtime_metrics,omitempty"`
	// Interval specifies the aggregation interval of inmem provider
	Interval time.Duration `json:"interval,omitempty" yaml:"interval,omitempty"`
}

// Validate returns error if the configuration is not valid
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "", ProviderInmem, ProviderPrometheus:
	case ProviderStatsd, ProviderDatadog:
		if c.Address == "" {
			return errors.NotValidf("%s metrics without address", c.Provider)
		}
	default:
		return errors.NotSupportedf("metrics provider %q", c.Provider)
	}
	return nil
}

// NewSink returns a sink for the configured provider.
// The prometheus sink is registered with registerer,
// or with prometheus.DefaultRegisterer if nil.
func NewSink(cfg *Config, registerer prometheus.Registerer) (gometrics.MetricSink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderPrometheus:
		opts := gmprometheus.DefaultPrometheusOpts
		opts.Registerer = registerer
		sink, err := gmprometheus.NewPrometheusSinkFrom(opts)
		if err != nil {
			return nil, errors.Annotate(err, "failed to create prometheus sink")
		}
		return sink, nil
	case ProviderStatsd:
		sink, err := gometrics.NewStatsdSink(cfg.Address)
		if err != nil {
			return nil, errors.Annotate(err, "failed to create statsd sink")
		}
		return sink, nil
	case ProviderDatadog:
		sink, err := datadog.NewDogStatsdSink(cfg.Address, "")
		if err != nil {
			return nil, errors.Annotate(err, "failed to create datadog sink")
		}
		return sink, nil
	case ProviderInmem:
		interval := cfg.Interval
		if interval <= 0 {
			interval = 10 * time.Second
		}
		return gometrics.NewInmemSink(interval, 6*interval), nil
	}
	return &gometrics.BlackholeSink{}, nil
}

// Start creates metrics for the configured sink,
// and sets it as the current provider
func Start(cfg *Config, registerer prometheus.Registerer) (*gometrics.Metrics, gometrics.MetricSink, error) {
	sink, err := NewSink(cfg, registerer)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "oneshot"
	}
	conf := gometrics.DefaultConfig(serviceName)
	conf.EnableHostname = false
	conf.EnableRuntimeMetrics = cfg.EnableRuntimeMetrics

	m, err := gometrics.New(conf, sink)
	if err != nil {
		return nil, nil, errors.Annotate(err, "failed to create metrics")
	}
	SetProvider(m)

	logger.Infof("status=started, provider=%q, service=%q", cfg.Provider, serviceName)
	return m, sink, nil
}
