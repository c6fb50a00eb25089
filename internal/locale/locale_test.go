package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// fakeSet lets a test make HasLocale disagree with Locales.
type fakeSet struct {
	locales []language.Tag
	denied  map[string]bool
}

func newFakeSet(tags ...string) *fakeSet {
	s := &fakeSet{denied: make(map[string]bool)}
	for _, tag := range tags {
		s.locales = append(s.locales, language.MustParse(tag))
	}
	return s
}

func (s *fakeSet) Locales() []language.Tag { return s.locales }

func (s *fakeSet) HasLocale(tag language.Tag) bool {
	if s.denied[tag.String()] {
		return false
	}
	for _, l := range s.locales {
		if l.String() == tag.String() {
			return true
		}
	}
	return false
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "en", want: "en"},
		{raw: "en-US", want: "en-US"},
		{raw: "en_US", want: "en-US"},
		{raw: " de ", want: "de"},
		{raw: "", wantErr: true},
		{raw: "not a tag", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNegotiate_ExactMatch(t *testing.T) {
	got, ok := Negotiate("de", newFakeSet("en", "de"))
	require.True(t, ok)
	assert.Equal(t, "de", got.String())
}

func TestNegotiate_LanguageFallback(t *testing.T) {
	got, ok := Negotiate("en-US", newFakeSet("en", "de"))
	require.True(t, ok)
	assert.Equal(t, "en", got.String())

	got, ok = Negotiate("en_US", newFakeSet("de", "en"))
	require.True(t, ok)
	assert.Equal(t, "en", got.String())
}

func TestNegotiate_SameLanguageOnly(t *testing.T) {
	tests := []struct {
		requested string
		available []string
		want      string
		ok        bool
	}{
		{"zh-TW", []string{"zh", "en"}, "zh", true},
		{"sr-Latn", []string{"sr", "en"}, "sr", true},
		{"az-Cyrl", []string{"az", "en"}, "az", true},
		{"pt-BR", []string{"pt-PT", "pt"}, "pt", true},
		{"pt-BR", []string{"en", "pt-PT"}, "pt-PT", true},
		{"hr", []string{"sr", "bs"}, "", false},
		{"gsw", []string{"de", "en"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			got, ok := Negotiate(tt.requested, newFakeSet(tt.available...))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestNegotiate_NoMatch(t *testing.T) {
	_, ok := Negotiate("de", newFakeSet("en", "fr"))
	assert.False(t, ok)

	_, ok = Negotiate("xx", newFakeSet("en", "de"))
	assert.False(t, ok)

	_, ok = Negotiate("en", newFakeSet())
	assert.False(t, ok)

	_, ok = Negotiate("", newFakeSet("en"))
	assert.False(t, ok)
}

func TestNegotiate_HasLocaleRecheck(t *testing.T) {
	set := newFakeSet("en", "de")
	set.denied["en"] = true

	_, ok := Negotiate("en-US", set)
	assert.False(t, ok)

	_, ok = Negotiate("en", set)
	assert.False(t, ok)
}

func TestStrings(t *testing.T) {
	tags := []language.Tag{language.MustParse("fr"), language.MustParse("en-GB"), language.German}
	assert.Equal(t, []string{"fr", "en-GB", "de"}, Strings(tags))
	assert.Empty(t, Strings(nil))
}
