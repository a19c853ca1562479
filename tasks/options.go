package tasks

import "time"

// Option configures a task
type Option func(*options)

type options struct {
	resolution time.Duration
	notifier   Notifier
}

func newOptions(opts []Option) options {
	o := options{
		resolution: DefaultResolution,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithResolution sets the time unit of the task,
// ignored if d is not positive
func WithResolution(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.resolution = d
		}
	}
}

// WithNotifier binds the task to the owner to be notified on completion
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}
