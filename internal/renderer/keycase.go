package renderer

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// Supported values of the keycase "case" parameter.
const (
	CaseCamel          = "camel"
	CaseLowerCamel     = "lowerCamel"
	CaseSnake          = "snake"
	CaseKebab          = "kebab"
	CaseScreamingSnake = "screamingSnake"
)

var keyCases = map[string]func(string) string{
	CaseCamel:          strcase.ToCamel,
	CaseLowerCamel:     strcase.ToLowerCamel,
	CaseSnake:          strcase.ToSnake,
	CaseKebab:          strcase.ToKebab,
	CaseScreamingSnake: strcase.ToScreamingSnake,
}

// KeyCaseRenderer renders like DefaultRenderer but rewrites every object key
// into the configured case. Keys that collide after rewriting keep the last
// value.
type KeyCaseRenderer struct {
	tree
	style string
}

// NewKeyCaseRenderer creates an unconfigured KeyCaseRenderer.
func NewKeyCaseRenderer() *KeyCaseRenderer {
	return &KeyCaseRenderer{}
}

// AddConfigurationParameter accepts "case".
func (r *KeyCaseRenderer) AddConfigurationParameter(key, value string) error {
	if key != "case" {
		return unknownParameter(NameKeyCase, key)
	}
	r.style = value
	return nil
}

// InitConfiguration validates the case style.
func (r *KeyCaseRenderer) InitConfiguration() error {
	if r.style == "" {
		return fmt.Errorf("%s: parameter \"case\" is required", NameKeyCase)
	}
	convert, ok := keyCases[r.style]
	if !ok {
		return fmt.Errorf("%s: unsupported case %q", NameKeyCase, r.style)
	}
	r.key = convert
	return nil
}
