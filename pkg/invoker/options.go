package invoker

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option configures an Invoker.
type Option func(*Invoker)

// WithDefaultConfig supplies the default configuration up front, so the
// native default is never fetched.
func WithDefaultConfig(defaults map[string]any) Option {
	return func(inv *Invoker) {
		if defaults == nil {
			return
		}
		inv.defaults = cloneMap(defaults)
		inv.defaultsLoaded = true
	}
}

// WithLogger routes debug output to logger.
func WithLogger(logger *log.Logger) Option {
	return func(inv *Invoker) {
		if logger != nil {
			inv.logger = logger
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
