// Package locale negotiates a requested locale against the locales a piece of
// content actually provides.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// LocaleSet is the subset of content.Content the negotiator needs.
type LocaleSet interface {
	Locales() []language.Tag
	HasLocale(locale language.Tag) bool
}

// Parse reads a locale tag in BCP 47 form ("en-US") or in the underscore
// form ("en_US").
func Parse(raw string) (language.Tag, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return language.Und, fmt.Errorf("locale is empty")
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", raw, err)
	}
	return tag, nil
}

// Negotiate picks the available locale that best matches requested. An exact
// match wins. Otherwise only a locale of the same base language qualifies,
// preferring the bare language tag ("zh" for "zh-TW"); another language is
// never substituted. The chosen tag must also pass set.HasLocale.
func Negotiate(requested string, set LocaleSet) (language.Tag, bool) {
	tag, err := Parse(requested)
	if err != nil {
		return language.Und, false
	}

	selected, ok := bestMatch(tag, set.Locales())
	if !ok || !set.HasLocale(selected) {
		return language.Und, false
	}
	return selected, true
}

func bestMatch(tag language.Tag, available []language.Tag) (language.Tag, bool) {
	want := tag.String()
	for _, candidate := range available {
		if candidate.String() == want {
			return candidate, true
		}
	}

	// Undetermined tags only report an inferred base.
	base, confidence := tag.Base()
	if confidence != language.Exact {
		return language.Und, false
	}
	var fallback language.Tag
	found := false
	for _, candidate := range available {
		candidateBase, c := candidate.Base()
		if c != language.Exact || candidateBase != base {
			continue
		}
		if candidate.String() == base.String() {
			return candidate, true
		}
		if !found {
			fallback, found = candidate, true
		}
	}
	return fallback, found
}

// Strings renders tags in order.
func Strings(tags []language.Tag) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = tag.String()
	}
	return out
}
