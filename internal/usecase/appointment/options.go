package appointment

import (
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
)

type options struct {
	listener domain.ChangeListener
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	now      func() time.Time
}

type Option func(*options)

// WithListener registers the observer of committed writes.
func WithListener(l domain.ChangeListener) Option {
	return func(o *options) { o.listener = l }
}

func WithMetrics(m *metrics.BookingMetrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func newOptions(opts []Option) options {
	o := options{
		listener: domain.Listeners(nil),
		logger:   logging.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.listener == nil {
		o.listener = domain.Listeners(nil)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	return o
}
