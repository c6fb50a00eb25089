package orchestrator

import (
	"github.com/mcncl/contentjson/internal/renderer"
)

// Diagnostics receives operator-facing log records. *slog.Logger satisfies
// it.
type Diagnostics interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// PropertyFilter reports whether a property may appear in rendered output.
type PropertyFilter func(name string) bool

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRegistry sets the renderer registry. Defaults to
// renderer.NewDefaultRegistry().
func WithRegistry(registry *renderer.Registry) Option {
	return func(o *Orchestrator) {
		if registry != nil {
			o.registry = registry
		}
	}
}

// WithDiagnostics sets the log sink. Defaults to a sink that drops
// everything.
func WithDiagnostics(d Diagnostics) Option {
	return func(o *Orchestrator) {
		if d != nil {
			o.diag = d
		}
	}
}

// WithPropertyFilter restricts which properties the full document exposes.
func WithPropertyFilter(filter PropertyFilter) Option {
	return func(o *Orchestrator) {
		o.allowProperty = filter
	}
}

// WithBaseURL sets the base URL handed to renderers for absolute links.
func WithBaseURL(baseURL string) Option {
	return func(o *Orchestrator) {
		o.baseURL = baseURL
	}
}

type discard struct{}

func (discard) Debug(string, ...any) {}
func (discard) Info(string, ...any) {}
func (discard) Error(string, ...any) {}
