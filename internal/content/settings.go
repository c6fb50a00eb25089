package content

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parameter is one renderer configuration entry.
type Parameter struct {
	Key   string
	Value string
}

// Parameters is an ordered list of renderer configuration entries. Decoded
// from a YAML mapping it keeps the mapping's order.
type Parameters []Parameter

// Get returns the value of the first parameter named key.
func (p Parameters) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// UnmarshalYAML decodes a mapping node into ordered parameters.
func (p *Parameters) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*p = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: renderer parameters must be a mapping", value.Line)
	}
	out := make(Parameters, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		if valNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: parameter %q must be a scalar", valNode.Line, keyNode.Value)
		}
		out = append(out, Parameter{Key: keyNode.Value, Value: valNode.Value})
	}
	*p = out
	return nil
}

// RenderSettings selects and configures the rendering strategy of a content
// type. An empty Renderer selects the built-in default strategy.
type RenderSettings struct {
	Renderer   string     `yaml:"renderer"`
	Parameters Parameters `yaml:"parameters"`
}

// HasRenderer reports whether a strategy identifier is declared.
func (s RenderSettings) HasRenderer() bool {
	return s.Renderer != ""
}
