// Package orchestrator coordinates a single render request: it validates the
// request parameters, negotiates the locale, runs the content type's renderer,
// applies an optional path query and maps every outcome to a Result.
package orchestrator

import (
	"fmt"

	"github.com/mcncl/contentjson/internal/content"
	"github.com/mcncl/contentjson/internal/errors"
	"github.com/mcncl/contentjson/internal/locale"
	"github.com/mcncl/contentjson/internal/lookup"
	"github.com/mcncl/contentjson/internal/models"
	"github.com/mcncl/contentjson/internal/renderer"
)

// Request parameter names.
const (
	ParamLocale = "locale"
	ParamPath   = "path"
)

// Fixed result messages.
const (
	MessagePathRequiresLocale = "path parameter requires locale parameter"
	MessageLocaleNotFound     = "Locale not found"
	MessagePathNotFound       = lookup.MessagePathNotFound
)

// Request is one render request. Metadata is optional; when nil and Content
// also implements content.Metadata, Content is used.
type Request struct {
	Resource   string
	Content    content.Content
	Metadata   content.Metadata
	Parameters map[string]string
}

// Orchestrator holds only read-only state and may serve concurrent requests.
type Orchestrator struct {
	registry      *renderer.Registry
	diag          Diagnostics
	allowProperty PropertyFilter
	baseURL       string
}

// New creates an Orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: renderer.NewDefaultRegistry(),
		diag:     discard{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Render handles one request. It never panics; a panicking renderer yields
// an internal error result.
func (o *Orchestrator) Render(req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = o.fail(req, errors.NewRenderError(fmt.Sprintf("renderer panicked: %v", r), nil))
		}
	}()

	localeParam, hasLocale := req.Parameters[ParamLocale]
	pathParam, hasPath := req.Parameters[ParamPath]
	if hasPath && !hasLocale {
		return o.fail(req, errors.NewUsageError(MessagePathRequiresLocale, nil))
	}
	if req.Content == nil {
		return o.fail(req, errors.NewInputError("request has no content", nil))
	}

	r, err := o.createRenderer(req)
	if err != nil {
		return o.fail(req, err)
	}

	if !hasLocale {
		doc, err := o.renderDocument(req, r)
		if err != nil {
			return o.fail(req, err)
		}
		return success(doc)
	}

	selected, ok := locale.Negotiate(localeParam, req.Content)
	if !ok {
		return o.fail(req, errors.NewNotFoundError(MessageLocaleNotFound, errors.ErrLocaleNotFound))
	}
	o.diag.Debug("locale negotiated", "resource", req.Resource, "requested", localeParam, "selected", selected.String())

	value, err := r.Render(req.Content, selected)
	if err != nil {
		return o.fail(req, err)
	}
	if hasPath {
		value, err = lookup.Resolve(value, pathParam)
		if err != nil {
			return o.fail(req, err)
		}
	}
	return success(value)
}

func (o *Orchestrator) createRenderer(req Request) (renderer.Renderer, error) {
	def, err := req.Content.Definition()
	if err != nil {
		return nil, errors.NewConfigError("failed to read content definition", err)
	}
	return o.registry.Create(def.Settings, renderer.RequestContext{
		BaseURL:      o.baseURL,
		ResourcePath: req.Resource,
		Parameters:   req.Parameters,
	})
}

// renderDocument builds the full multi-locale document. Enrichment runs in a
// fixed order and later writes win on key collisions.
func (o *Orchestrator) renderDocument(req Request, r renderer.Renderer) (*models.JSONObject, error) {
	doc, err := renderer.RenderAllLocales(req.Content, r)
	if err != nil {
		return nil, err
	}

	md := req.Metadata
	if md == nil {
		md, _ = req.Content.(content.Metadata)
	}
	data := resourceData{md: md, allow: o.allowProperty}

	if err := data.addProperties(doc); err != nil {
		return nil, errors.NewInputError("failed to read properties", err)
	}
	attrs, err := data.attributes()
	if err != nil {
		return nil, errors.NewInputError("failed to read attributes", err)
	}
	doc.Set("attributes", attrs)

	locales := models.JSONArray{}
	for _, tag := range locale.Strings(req.Content.Locales()) {
		locales = append(locales, tag)
	}
	doc.Set("locales", locales)

	doc.Merge(data.trailer())
	return doc, nil
}

// fail maps err to a result and logs it at the level its kind calls for.
func (o *Orchestrator) fail(req Request, err error) Result {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeUsage:
		msg := errors.MessageOf(err)
		o.diag.Info("render request rejected", "resource", req.Resource, "reason", msg)
		return failure(StatusBadRequest, msg)
	case errors.ErrorTypeNotFound:
		msg := errors.MessageOf(err)
		o.diag.Info("render target not found", "resource", req.Resource, "reason", msg)
		return failure(StatusNotFound, msg)
	default:
		o.diag.Error("render failed", "resource", req.Resource, "error", err)
		return failure(StatusInternalError, err.Error())
	}
}
