package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// MarkdownRenderer renders like DefaultRenderer but converts html values to
// Markdown. Relative links inside the html resolve against the request base
// URL.
type MarkdownRenderer struct {
	tree
	tables bool
	conv   *converter.Converter
}

// NewMarkdownRenderer creates a MarkdownRenderer with table support enabled.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{tables: true}
}

// AddConfigurationParameter accepts "tables".
func (r *MarkdownRenderer) AddConfigurationParameter(key, value string) error {
	if key != "tables" {
		return unknownParameter(NameMarkdown, key)
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: invalid value %q for \"tables\": %w", NameMarkdown, value, err)
	}
	r.tables = enabled
	return nil
}

// InitConfiguration builds the converter.
func (r *MarkdownRenderer) InitConfiguration() error {
	plugins := []converter.Plugin{
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	}
	if r.tables {
		plugins = append(plugins, table.NewTablePlugin())
	}
	r.conv = converter.NewConverter(converter.WithPlugins(plugins...))
	r.html = r.convert
	return nil
}

func (r *MarkdownRenderer) convert(value string) (string, error) {
	var opts []converter.ConvertOptionFunc
	if r.ctx.BaseURL != "" {
		opts = append(opts, converter.WithDomain(r.ctx.BaseURL))
	}
	md, err := r.conv.ConvertString(value, opts...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
