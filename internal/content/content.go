// Package content defines the read-only contracts the renderer consumes from
// the surrounding content system, plus a file backed implementation of them.
package content

import (
	"time"

	"golang.org/x/text/language"
)

// Element types understood by the built-in renderers.
const (
	TypeString  = "string"
	TypeHTML    = "html"
	TypeLink    = "link"
	TypeBoolean = "boolean"
	TypeNumber  = "number"
	TypeNested  = "nested"
)

// Element is one node of a locale's content tree.
type Element struct {
	Name  string
	Type  string
	Value string
	// Multiple marks an element declared as repeatable. Repeatable elements
	// always render as arrays, even with a single occurrence.
	Multiple bool
	Children []Element
}

// IsNested reports whether the element holds child elements rather than a
// scalar value.
func (e Element) IsNested() bool {
	return e.Type == TypeNested || len(e.Children) > 0
}

// Definition describes the content type of a piece of content.
type Definition struct {
	TypeName string
	Settings RenderSettings
}

// Content is a multi-locale structured document.
type Content interface {
	// Locales returns the available locales in the content's natural order.
	Locales() []language.Tag
	HasLocale(locale language.Tag) bool
	Definition() (Definition, error)
	// Elements returns the top-level elements for locale.
	Elements(locale language.Tag) ([]Element, error)
}

// Property is a single resource property.
type Property struct {
	Name  string
	Value string
}

// Attributes carries resource-level metadata.
type Attributes struct {
	Type         string
	Size         int64
	Created      time.Time
	LastModified time.Time
	// Extra holds additional attributes in declaration order.
	Extra []Property
}

// Metadata exposes resource-level data used to enrich full documents.
type Metadata interface {
	RootPath() string
	Link() string
	Attributes() (Attributes, error)
	Properties() ([]Property, error)
}
