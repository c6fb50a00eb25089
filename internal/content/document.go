package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Custom YAML tags that mark scalar element types.
const (
	tagHTML = "!html"
	tagLink = "!link"
)

// Document is a resource loaded from a YAML or JSON file. It implements both
// Content and Metadata.
type Document struct {
	typeName   string
	settings   RenderSettings
	rootPath   string
	link       string
	attributes Attributes
	properties []Property
	locales    []language.Tag
	trees      map[string][]Element
}

var _ Content = (*Document)(nil)
var _ Metadata = (*Document)(nil)

// DecodeDocument parses raw YAML (or JSON) into a Document. resourcePath is
// used as the root path when the document does not declare one.
func DecodeDocument(raw []byte, resourcePath string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	body := resolve(root.Content[0])
	if body.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: document must be a mapping", body.Line)
	}

	doc := &Document{
		rootPath: resourcePath,
		trees:    make(map[string][]Element),
	}
	for i := 0; i+1 < len(body.Content); i += 2 {
		key := body.Content[i].Value
		value := resolve(body.Content[i+1])
		var err error
		switch key {
		case "type":
			doc.typeName, err = scalar(key, value)
			doc.attributes.Type = doc.typeName
		case "path":
			doc.rootPath, err = scalar(key, value)
		case "link":
			doc.link, err = scalar(key, value)
		case "size":
			err = doc.decodeSize(value)
		case "created":
			doc.attributes.Created, err = timestamp(key, value)
		case "lastModified":
			doc.attributes.LastModified, err = timestamp(key, value)
		case "properties":
			doc.properties, err = pairs(key, value)
		case "attributes":
			doc.attributes.Extra, err = pairs(key, value)
		case "locales":
			err = doc.decodeLocales(value)
		default:
			err = fmt.Errorf("line %d: unknown document key %q", body.Content[i].Line, key)
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (d *Document) decodeSize(node *yaml.Node) error {
	raw, err := scalar("size", node)
	if err != nil {
		return err
	}
	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("line %d: size must be an integer", node.Line)
	}
	d.attributes.Size = size
	return nil
}

func (d *Document) decodeLocales(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: locales must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		tag, err := language.Parse(strings.ReplaceAll(keyNode.Value, "_", "-"))
		if err != nil {
			return fmt.Errorf("line %d: invalid locale %q: %w", keyNode.Line, keyNode.Value, err)
		}
		if _, exists := d.trees[tag.String()]; exists {
			return fmt.Errorf("line %d: duplicate locale %q", keyNode.Line, keyNode.Value)
		}
		tree := resolve(node.Content[i+1])
		var elements []Element
		switch {
		case tree.Kind == yaml.MappingNode:
			elements, err = decodeElements(tree)
			if err != nil {
				return fmt.Errorf("locale %s: %w", tag, err)
			}
		case tree.Kind == yaml.ScalarNode && tree.Tag == "!!null":
		default:
			return fmt.Errorf("line %d: locale %q must be a mapping", tree.Line, keyNode.Value)
		}
		d.locales = append(d.locales, tag)
		d.trees[tag.String()] = elements
	}
	return nil
}

func decodeElements(node *yaml.Node) ([]Element, error) {
	elements := make([]Element, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		value := resolve(node.Content[i+1])
		if value.Kind == yaml.SequenceNode {
			for _, item := range value.Content {
				el, ok, err := decodeElement(name, resolve(item))
				if err != nil {
					return nil, err
				}
				if ok {
					el.Multiple = true
					elements = append(elements, el)
				}
			}
			continue
		}
		el, ok, err := decodeElement(name, value)
		if err != nil {
			return nil, err
		}
		if ok {
			elements = append(elements, el)
		}
	}
	return elements, nil
}

// decodeElement returns ok=false for null values, which carry no element.
func decodeElement(name string, node *yaml.Node) (Element, bool, error) {
	switch node.Kind {
	case yaml.MappingNode:
		children, err := decodeElements(node)
		if err != nil {
			return Element{}, false, err
		}
		return Element{Name: name, Type: TypeNested, Children: children}, true, nil
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			return Element{}, false, nil
		case "!!bool":
			return Element{Name: name, Type: TypeBoolean, Value: node.Value}, true, nil
		case "!!int", "!!float":
			return Element{Name: name, Type: TypeNumber, Value: node.Value}, true, nil
		case tagHTML:
			return Element{Name: name, Type: TypeHTML, Value: node.Value}, true, nil
		case tagLink:
			return Element{Name: name, Type: TypeLink, Value: node.Value}, true, nil
		default:
			return Element{Name: name, Type: TypeString, Value: node.Value}, true, nil
		}
	default:
		return Element{}, false, fmt.Errorf("line %d: element %q: nested sequences are not supported", node.Line, name)
	}
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func scalar(key string, node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: %s must be a scalar", node.Line, key)
	}
	return node.Value, nil
}

func pairs(key string, node *yaml.Node) ([]Property, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %s must be a mapping", node.Line, key)
	}
	out := make([]Property, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		value, err := scalar(key+"."+node.Content[i].Value, resolve(node.Content[i+1]))
		if err != nil {
			return nil, err
		}
		out = append(out, Property{Name: node.Content[i].Value, Value: value})
	}
	return out, nil
}

func timestamp(key string, node *yaml.Node) (time.Time, error) {
	raw, err := scalar(key, node)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("line %d: %s must be an RFC 3339 timestamp", node.Line, key)
}

// Locales implements Content.
func (d *Document) Locales() []language.Tag {
	out := make([]language.Tag, len(d.locales))
	copy(out, d.locales)
	return out
}

// HasLocale implements Content.
func (d *Document) HasLocale(locale language.Tag) bool {
	_, ok := d.trees[locale.String()]
	return ok
}

// Definition implements Content.
func (d *Document) Definition() (Definition, error) {
	return Definition{TypeName: d.typeName, Settings: d.settings}, nil
}

// Elements implements Content.
func (d *Document) Elements(locale language.Tag) ([]Element, error) {
	elements, ok := d.trees[locale.String()]
	if !ok {
		return nil, fmt.Errorf("content has no locale %s", locale)
	}
	return elements, nil
}

// RootPath implements Metadata.
func (d *Document) RootPath() string { return d.rootPath }

// Link implements Metadata.
func (d *Document) Link() string { return d.link }

// Attributes implements Metadata.
func (d *Document) Attributes() (Attributes, error) { return d.attributes, nil }

// Properties implements Metadata.
func (d *Document) Properties() ([]Property, error) {
	out := make([]Property, len(d.properties))
	copy(out, d.properties)
	return out, nil
}

// WithSettings returns a copy of d using settings as its render settings.
func (d *Document) WithSettings(settings RenderSettings) *Document {
	clone := *d
	clone.settings = settings
	return &clone
}
