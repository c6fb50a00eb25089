// Package renderer turns one locale of a structured content document into a
// JSON value. Strategies are selected per content type through a Registry.
package renderer

import (
	"github.com/mcncl/contentjson/internal/content"
	"github.com/mcncl/contentjson/internal/models"
	"golang.org/x/text/language"
)

// Built-in strategy identifiers.
const (
	NameDefault  = "default"
	NameKeyCase  = "keycase"
	NameSanitize = "sanitize"
	NameMarkdown = "markdown"
)

// RequestContext is the read-only request data a renderer may use, for
// example to build absolute links.
type RequestContext struct {
	BaseURL      string
	ResourcePath string
	Parameters   map[string]string
}

// Renderer converts content into JSON. An instance serves exactly one
// request: parameters are added, InitConfiguration runs once, Initialize runs
// once, then Render may be called for one or more locales.
type Renderer interface {
	AddConfigurationParameter(key, value string) error
	InitConfiguration() error
	Initialize(ctx RequestContext) error
	Render(c content.Content, locale language.Tag) (models.JSONValue, error)
}

// Factory creates a fresh, unconfigured renderer.
type Factory func() Renderer

// RenderAllLocales renders every locale of c into one object keyed by locale
// tag, in the content's locale order.
func RenderAllLocales(c content.Content, r Renderer) (*models.JSONObject, error) {
	out := models.NewObject()
	for _, loc := range c.Locales() {
		value, err := r.Render(c, loc)
		if err != nil {
			return nil, err
		}
		out.Set(loc.String(), value)
	}
	return out, nil
}
