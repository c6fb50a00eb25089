package renderer

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"

	"github.com/mcncl/contentjson/internal/content"
	"github.com/mcncl/contentjson/internal/errors"
	"github.com/mcncl/contentjson/internal/models"
)

// tree walks a locale's element tree and builds the JSON value. Strategies
// embed it and customise output through the key and html hooks.
type tree struct {
	ctx         RequestContext
	initialized bool

	key  func(name string) string
	html func(value string) (string, error)
}

// Initialize stores the request context. It must be called exactly once.
func (t *tree) Initialize(ctx RequestContext) error {
	if t.initialized {
		return fmt.Errorf("renderer already initialized")
	}
	t.ctx = ctx
	t.initialized = true
	return nil
}

// Render converts the elements of locale into a JSON object.
func (t *tree) Render(c content.Content, locale language.Tag) (models.JSONValue, error) {
	if !t.initialized {
		return nil, errors.NewRenderError("renderer used before Initialize", nil)
	}
	elements, err := c.Elements(locale)
	if err != nil {
		return nil, errors.NewRenderError(fmt.Sprintf("failed to read elements for locale %s", locale), err)
	}
	return t.renderElements(elements)
}

func (t *tree) renderElements(elements []content.Element) (*models.JSONObject, error) {
	// Group by name, keeping first-occurrence order.
	var order []string
	groups := make(map[string][]content.Element)
	for _, el := range elements {
		if _, seen := groups[el.Name]; !seen {
			order = append(order, el.Name)
		}
		groups[el.Name] = append(groups[el.Name], el)
	}

	obj := models.NewObject()
	for _, name := range order {
		group := groups[name]
		var value models.JSONValue
		if len(group) > 1 || group[0].Multiple {
			arr := make(models.JSONArray, 0, len(group))
			for _, el := range group {
				v, err := t.renderElement(el)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			value = arr
		} else {
			v, err := t.renderElement(group[0])
			if err != nil {
				return nil, err
			}
			value = v
		}
		obj.Set(t.keyFor(name), value)
	}
	return obj, nil
}

func (t *tree) renderElement(el content.Element) (models.JSONValue, error) {
	if el.IsNested() {
		return t.renderElements(el.Children)
	}

	switch el.Type {
	case content.TypeBoolean:
		b, err := strconv.ParseBool(el.Value)
		if err != nil {
			return nil, errors.NewRenderError(fmt.Sprintf("element %q: invalid boolean %q", el.Name, el.Value), err)
		}
		return b, nil
	case content.TypeNumber:
		n, err := number(el.Value)
		if err != nil {
			return nil, errors.NewRenderError(fmt.Sprintf("element %q: invalid number %q", el.Name, el.Value), err)
		}
		return n, nil
	case content.TypeLink:
		return t.link(el.Value), nil
	case content.TypeHTML:
		if t.html == nil {
			return el.Value, nil
		}
		out, err := t.html(el.Value)
		if err != nil {
			return nil, errors.NewRenderError(fmt.Sprintf("element %q: failed to convert html", el.Name), err)
		}
		return out, nil
	default:
		return el.Value, nil
	}
}

func (t *tree) keyFor(name string) string {
	if t.key == nil {
		return name
	}
	return t.key(name)
}

// link resolves relative targets against the request base URL. Values that
// do not parse are returned unchanged.
func (t *tree) link(value string) string {
	if t.ctx.BaseURL == "" {
		return value
	}
	base, err := url.Parse(t.ctx.BaseURL)
	if err != nil {
		return value
	}
	ref, err := url.Parse(value)
	if err != nil || ref.IsAbs() {
		return value
	}
	return base.ResolveReference(ref).String()
}

// number normalises a YAML numeric scalar into a JSON number literal.
func number(raw string) (json.Number, error) {
	if i, err := strconv.ParseInt(raw, 0, 64); err == nil {
		return json.Number(strconv.FormatInt(i, 10)), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%q is not a finite number", raw)
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// DefaultRenderer maps the element tree to JSON without any rewriting. It
// accepts no configuration parameters.
type DefaultRenderer struct {
	tree
}

// NewDefaultRenderer creates a DefaultRenderer.
func NewDefaultRenderer() *DefaultRenderer {
	return &DefaultRenderer{}
}

// AddConfigurationParameter rejects every parameter.
func (r *DefaultRenderer) AddConfigurationParameter(key, value string) error {
	return unknownParameter(NameDefault, key)
}

// InitConfiguration is a no-op.
func (r *DefaultRenderer) InitConfiguration() error { return nil }

func unknownParameter(renderer, key string) error {
	return fmt.Errorf("%s: %w %q", renderer, errors.ErrUnknownParameter, key)
}
