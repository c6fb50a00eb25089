package renderer

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"
)

// Supported values of the sanitize "policy" parameter.
const (
	PolicyStrict = "strict"
	PolicyUGC    = "ugc"
)

// SanitizeRenderer renders like DefaultRenderer but cleans html values with
// a bluemonday policy. The strict policy strips all markup.
type SanitizeRenderer struct {
	tree
	policyName string
	policy     *bluemonday.Policy
}

// NewSanitizeRenderer creates a SanitizeRenderer using the ugc policy.
func NewSanitizeRenderer() *SanitizeRenderer {
	return &SanitizeRenderer{policyName: PolicyUGC}
}

// AddConfigurationParameter accepts "policy".
func (r *SanitizeRenderer) AddConfigurationParameter(key, value string) error {
	if key != "policy" {
		return unknownParameter(NameSanitize, key)
	}
	r.policyName = value
	return nil
}

// InitConfiguration builds the bluemonday policy.
func (r *SanitizeRenderer) InitConfiguration() error {
	switch r.policyName {
	case PolicyStrict:
		r.policy = bluemonday.StrictPolicy()
	case PolicyUGC:
		r.policy = bluemonday.UGCPolicy()
	default:
		return fmt.Errorf("%s: unsupported policy %q", NameSanitize, r.policyName)
	}
	r.html = func(value string) (string, error) {
		return r.policy.Sanitize(value), nil
	}
	return nil
}
