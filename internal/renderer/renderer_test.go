package renderer

import (
	stderrors "errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mcncl/contentjson/internal/content"
	"github.com/mcncl/contentjson/internal/errors"
	"github.com/mcncl/contentjson/internal/models"
)

const pageYAML = `
type: page
locales:
  en:
    Title: Hello
    PublishedAt: 2024
    Visible: true
    Ratio: 1.50
    Body: !html "<p>Hi <b>there</b><script>alert(1)</script></p>"
    More: !link /news/b.html
    External: !link https://other.example/x
    Tags:
      - one
    Teaser:
      - Headline: a
      - Headline: b
    Author:
      Name: Ada
  de:
    Title: Hallo
`

func loadPage(t *testing.T) *content.Document {
	t.Helper()
	doc, err := content.DecodeDocument([]byte(pageYAML), "/page")
	require.NoError(t, err)
	return doc
}

func mustObject(t *testing.T, v models.JSONValue) *models.JSONObject {
	t.Helper()
	obj, ok := v.(*models.JSONObject)
	require.True(t, ok, "expected object, got %T", v)
	return obj
}

func field(t *testing.T, obj *models.JSONObject, key string) models.JSONValue {
	t.Helper()
	v, ok := obj.Get(key)
	require.True(t, ok, "missing key %q in %v", key, obj.Keys())
	return v
}

func TestDefaultRenderer(t *testing.T) {
	r, err := NewDefaultRegistry().Create(content.RenderSettings{}, RequestContext{BaseURL: "https://example.com/"})
	require.NoError(t, err)

	v, err := r.Render(loadPage(t), language.English)
	require.NoError(t, err)
	obj := mustObject(t, v)

	assert.Equal(t, []string{"Title", "PublishedAt", "Visible", "Ratio", "Body", "More", "External", "Tags", "Teaser", "Author"}, obj.Keys())
	assert.Equal(t, "Hello", field(t, obj, "Title"))
	assert.Equal(t, json.Number("2024"), field(t, obj, "PublishedAt"))
	assert.Equal(t, true, field(t, obj, "Visible"))
	assert.Equal(t, json.Number("1.5"), field(t, obj, "Ratio"))
	assert.Equal(t, "<p>Hi <b>there</b><script>alert(1)</script></p>", field(t, obj, "Body"))
	assert.Equal(t, "https://example.com/news/b.html", field(t, obj, "More"))
	assert.Equal(t, "https://other.example/x", field(t, obj, "External"))
	assert.Equal(t, models.JSONArray{"one"}, field(t, obj, "Tags"))

	teaser, ok := field(t, obj, "Teaser").(models.JSONArray)
	require.True(t, ok)
	require.Len(t, teaser, 2)
	assert.Equal(t, "b", field(t, mustObject(t, teaser[1]), "Headline"))

	author := mustObject(t, field(t, obj, "Author"))
	assert.Equal(t, "Ada", field(t, author, "Name"))
}

func TestDefaultRenderer_RepeatedElementsBecomeArrays(t *testing.T) {
	doc := &stubContent{elements: []content.Element{
		{Name: "a", Type: content.TypeString, Value: "1"},
		{Name: "b", Type: content.TypeString, Value: "x"},
		{Name: "a", Type: content.TypeString, Value: "2"},
	}}
	r := NewDefaultRenderer()
	require.NoError(t, r.Initialize(RequestContext{}))

	v, err := r.Render(doc, language.English)
	require.NoError(t, err)
	obj := mustObject(t, v)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	assert.Equal(t, models.JSONArray{"1", "2"}, field(t, obj, "a"))
}

func TestDefaultRenderer_Errors(t *testing.T) {
	r := NewDefaultRenderer()
	_, err := r.Render(loadPage(t), language.English)
	require.Error(t, err, "render before Initialize")

	require.NoError(t, r.Initialize(RequestContext{}))
	require.Error(t, r.Initialize(RequestContext{}), "second Initialize")

	_, err = r.Render(loadPage(t), language.French)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeRender, errors.TypeOf(err))

	bad := &stubContent{elements: []content.Element{{Name: "n", Type: content.TypeNumber, Value: "NaN"}}}
	_, err = r.Render(bad, language.English)
	require.Error(t, err)

	bad = &stubContent{elements: []content.Element{{Name: "b", Type: content.TypeBoolean, Value: "maybe"}}}
	_, err = r.Render(bad, language.English)
	require.Error(t, err)
}

func TestDefaultRenderer_LinkWithoutBaseURL(t *testing.T) {
	r := NewDefaultRenderer()
	require.NoError(t, r.Initialize(RequestContext{}))

	v, err := r.Render(loadPage(t), language.English)
	require.NoError(t, err)
	assert.Equal(t, "/news/b.html", field(t, mustObject(t, v), "More"))
}

func TestRenderAllLocales(t *testing.T) {
	r, err := NewDefaultRegistry().Create(content.RenderSettings{}, RequestContext{})
	require.NoError(t, err)

	all, err := RenderAllLocales(loadPage(t), r)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "de"}, all.Keys())
	de := mustObject(t, field(t, all, "de"))
	assert.Equal(t, "Hallo", field(t, de, "Title"))
}

func TestKeyCaseRenderer(t *testing.T) {
	tests := []struct {
		style string
		want  []string
	}{
		{CaseSnake, []string{"title", "published_at"}},
		{CaseLowerCamel, []string{"title", "publishedAt"}},
		{CaseKebab, []string{"title", "published-at"}},
		{CaseScreamingSnake, []string{"TITLE", "PUBLISHED_AT"}},
		{CaseCamel, []string{"Title", "PublishedAt"}},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			settings := content.RenderSettings{
				Renderer:   NameKeyCase,
				Parameters: content.Parameters{{Key: "case", Value: tt.style}},
			}
			r, err := NewDefaultRegistry().Create(settings, RequestContext{})
			require.NoError(t, err)

			v, err := r.Render(loadPage(t), language.English)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mustObject(t, v).Keys()[:2])
		})
	}
}

func TestKeyCaseRenderer_NestedKeys(t *testing.T) {
	settings := content.RenderSettings{
		Renderer:   NameKeyCase,
		Parameters: content.Parameters{{Key: "case", Value: CaseSnake}},
	}
	r, err := NewDefaultRegistry().Create(settings, RequestContext{})
	require.NoError(t, err)

	v, err := r.Render(loadPage(t), language.English)
	require.NoError(t, err)
	author := mustObject(t, field(t, mustObject(t, v), "author"))
	assert.Equal(t, "Ada", field(t, author, "name"))
}

func TestKeyCaseRenderer_Configuration(t *testing.T) {
	registry := NewDefaultRegistry()

	_, err := registry.Create(content.RenderSettings{Renderer: NameKeyCase}, RequestContext{})
	require.Error(t, err, "case is required")
	assert.Equal(t, errors.ErrorTypeConfig, errors.TypeOf(err))

	_, err = registry.Create(content.RenderSettings{
		Renderer:   NameKeyCase,
		Parameters: content.Parameters{{Key: "case", Value: "title"}},
	}, RequestContext{})
	require.Error(t, err)

	_, err = registry.Create(content.RenderSettings{
		Renderer:   NameKeyCase,
		Parameters: content.Parameters{{Key: "style", Value: CaseSnake}},
	}, RequestContext{})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownParameter))
}

func TestSanitizeRenderer(t *testing.T) {
	registry := NewDefaultRegistry()

	r, err := registry.Create(content.RenderSettings{Renderer: NameSanitize}, RequestContext{})
	require.NoError(t, err)
	v, err := r.Render(loadPage(t), language.English)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi <b>there</b></p>", field(t, mustObject(t, v), "Body"))

	r, err = registry.Create(content.RenderSettings{
		Renderer:   NameSanitize,
		Parameters: content.Parameters{{Key: "policy", Value: PolicyStrict}},
	}, RequestContext{})
	require.NoError(t, err)
	v, err = r.Render(loadPage(t), language.English)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", field(t, mustObject(t, v), "Body"))

	_, err = registry.Create(content.RenderSettings{
		Renderer:   NameSanitize,
		Parameters: content.Parameters{{Key: "policy", Value: "none"}},
	}, RequestContext{})
	require.Error(t, err)
}

func TestMarkdownRenderer(t *testing.T) {
	doc := &stubContent{elements: []content.Element{
		{Name: "Body", Type: content.TypeHTML, Value: `<p>Hi <b>there</b> <a href="/about">about</a></p>`},
	}}

	r, err := NewDefaultRegistry().Create(content.RenderSettings{Renderer: NameMarkdown}, RequestContext{BaseURL: "https://example.com"})
	require.NoError(t, err)

	v, err := r.Render(doc, language.English)
	require.NoError(t, err)
	body, ok := field(t, mustObject(t, v), "Body").(string)
	require.True(t, ok)
	assert.Contains(t, body, "**there**")
	assert.Contains(t, body, "(https://example.com/about)")
}

func TestMarkdownRenderer_Configuration(t *testing.T) {
	registry := NewDefaultRegistry()

	_, err := registry.Create(content.RenderSettings{
		Renderer:   NameMarkdown,
		Parameters: content.Parameters{{Key: "tables", Value: "false"}},
	}, RequestContext{})
	require.NoError(t, err)

	_, err = registry.Create(content.RenderSettings{
		Renderer:   NameMarkdown,
		Parameters: content.Parameters{{Key: "tables", Value: "sometimes"}},
	}, RequestContext{})
	require.Error(t, err)
}

// stubContent serves a fixed element list for any locale.
type stubContent struct {
	elements []content.Element
}

func (s *stubContent) Locales() []language.Tag { return []language.Tag{language.English} }
func (s *stubContent) HasLocale(language.Tag) bool { return true }
func (s *stubContent) Definition() (content.Definition, error) { return content.Definition{}, nil }
func (s *stubContent) Elements(language.Tag) ([]content.Element, error) {
	return s.elements, nil
}
