package hfsm

import "github.com/sirupsen/logrus"

// Option configures a StateMachine.
type Option func(*options)

type options struct {
	logger logrus.FieldLogger
}

func defaultOptions() options {
	return options{
		logger: logrus.StandardLogger(),
	}
}

// WithLogger makes the machine log its firing decisions to logger. Everything
// is logged at debug level; errors are returned, not logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
