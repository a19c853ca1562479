// Package metrics provides a pluggable metrics provider,
// backed by armon/go-metrics
package metrics

import (
	"sync/atomic"
	"time"

	gometrics "github.com/armon/go-metrics"
	"github.com/coreos/pkg/capnslog"
)

var logger = capnslog.NewPackageLogger("github.com/go-phorce/oneshot", "metrics")

// Provider basics
type Provider interface {
	SetGauge(key []string, val float32)
	IncrCounter(key []string, val float32)
	AddSample(key []string, val float32)
	MeasureSince(key []string, start time.Time)
}

// holder keeps the concrete type stored in atomic.Value the same
type holder struct {
	Provider
}

var prov atomic.Value

func init() {
	prov.Store(holder{new(nilmetrics)})
}

// SetProvider for metrics, nil resets to the provider that drops all metrics
func SetProvider(p Provider) {
	if p == nil {
		p = new(nilmetrics)
	}
	prov.Store(holder{p})
}

// CurrentProvider returns the current provider
func CurrentProvider() Provider {
	return prov.Load().(holder).Provider
}

//
// Standard go-metrics
//
type stdmetrics struct{}

// NewStandardProvider returns provider of the global armon/go-metrics instance
func NewStandardProvider() Provider {
	return new(stdmetrics)
}

// SetGauge wraps SetGauge from armon/go-metrics
func (*stdmetrics) SetGauge(key []string, val float32) {
	gometrics.SetGauge(key, val)
}

// IncrCounter wraps IncrCounter from armon/go-metrics
func (*stdmetrics) IncrCounter(key []string, val float32) {
	gometrics.IncrCounter(key, val)
}

// AddSample wraps AddSample from armon/go-metrics
func (*stdmetrics) AddSample(key []string, val float32) {
	gometrics.AddSample(key, val)
}

// MeasureSince wraps MeasureSince from armon/go-metrics
func (*stdmetrics) MeasureSince(key []string, start time.Time) {
	gometrics.MeasureSince(key, start)
}

//
// nil metrics
//
type nilmetrics struct{}

func (*nilmetrics) SetGauge(key []string, val float32)         {}
func (*nilmetrics) IncrCounter(key []string, val float32)      {}
func (*nilmetrics) AddSample(key []string, val float32)        {}
func (*nilmetrics) MeasureSince(key []string, start time.Time) {}

//
// Current provider
//

// SetGauge should retain the last value it is set to
func SetGauge(key []string, val float32) {
	CurrentProvider().SetGauge(key, val)
}

// IncrCounter should accumulate values
func IncrCounter(key []string, val float32) {
	CurrentProvider().IncrCounter(key, val)
}

// AddSample is for timing information, where quantiles are used
func AddSample(key []string, val float32) {
	CurrentProvider().AddSample(key, val)
}

// MeasureSince is for timing information
func MeasureSince(key []string, start time.Time) {
	CurrentProvider().MeasureSince(key, start)
}
