package renderer

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mcncl/contentjson/internal/content"
	"github.com/mcncl/contentjson/internal/errors"
)

// Registry maps strategy identifiers to factories. It is filled at startup
// and only read afterwards.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// NewDefaultRegistry returns a registry holding the built-in strategies.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(NameDefault, func() Renderer { return NewDefaultRenderer() })
	r.MustRegister(NameKeyCase, func() Renderer { return NewKeyCaseRenderer() })
	r.MustRegister(NameSanitize, func() Renderer { return NewSanitizeRenderer() })
	r.MustRegister(NameMarkdown, func() Renderer { return NewMarkdownRenderer() })
	return r
}

// Register adds a factory under name. Duplicate names return an error.
func (r *Registry) Register(name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("renderer: name is required")
	}
	if factory == nil {
		return fmt.Errorf("renderer: factory for %q is required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("renderer: %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Lookup retrieves the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, errors.NewConfigError(fmt.Sprintf("renderer %q is not registered", name), errors.ErrUnknownRenderer)
	}
	return factory, nil
}

// Has reports whether a factory is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// List returns a sorted list of registered names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the renderer for one request. Without a declared strategy the
// built-in default renderer is used and no parameters are applied. Otherwise
// the strategy is looked up, each parameter is added in order and
// InitConfiguration runs once. Initialize always runs last, exactly once.
func (r *Registry) Create(settings content.RenderSettings, ctx RequestContext) (Renderer, error) {
	var renderer Renderer
	if !settings.HasRenderer() {
		renderer = NewDefaultRenderer()
	} else {
		factory, err := r.Lookup(settings.Renderer)
		if err != nil {
			return nil, err
		}
		renderer = factory()
		if renderer == nil {
			return nil, errors.NewConfigError(fmt.Sprintf("renderer %q factory returned nil", settings.Renderer), nil)
		}
		for _, param := range settings.Parameters {
			if err := renderer.AddConfigurationParameter(param.Key, param.Value); err != nil {
				return nil, errors.NewConfigError(
					fmt.Sprintf("renderer %q rejected parameter %q", settings.Renderer, param.Key), err)
			}
		}
		if err := renderer.InitConfiguration(); err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("renderer %q configuration failed", settings.Renderer), err)
		}
	}

	if err := renderer.Initialize(ctx); err != nil {
		return nil, errors.NewRenderError("failed to initialize renderer", err)
	}
	return renderer, nil
}
