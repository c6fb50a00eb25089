package lookup

import (
	stderrors "errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/contentjson/internal/errors"
	"github.com/mcncl/contentjson/internal/models"
)

func sampleDoc() models.JSONValue {
	return models.MustFromNative(map[string]any{
		"a": []any{map[string]any{"b": "x"}},
		"items": []any{
			"first",
			map[string]any{"title": "second", "0": "zero-key"},
		},
		"count": 3,
		"7":     "numeric key",
	})
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		path string
		want []Token
	}{
		{"", []Token{}},
		{"///[]", []Token{}},
		{"a/0/b", []Token{{Raw: "a"}, {Raw: "0", Numeric: true}, {Raw: "b"}}},
		{"items[1]/title", []Token{{Raw: "items"}, {Raw: "1", Numeric: true}, {Raw: "title"}}},
		{"/a// /b/", []Token{{Raw: "a"}, {Raw: "b"}}},
		{"-1", []Token{{Raw: "-1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.path))
		})
	}
}

func TestResolve_EmptyAndDelimiterOnlyPathsReturnRoot(t *testing.T) {
	roots := []models.JSONValue{
		sampleDoc(),
		models.JSONArray{"x"},
		"scalar",
		json.Number("1"),
		nil,
	}
	for _, root := range roots {
		for _, path := range []string{"", "/", "[]", "/[/]/", "  "} {
			got, err := Resolve(root, path)
			require.NoError(t, err)
			assert.True(t, models.Equal(root, got), "path %q", path)
		}
	}
}

func TestResolve_MixedPath(t *testing.T) {
	got, err := Resolve(sampleDoc(), "a/0/b")
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	got, err = Resolve(sampleDoc(), "a[0][b]")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestResolve_ArrayIndex(t *testing.T) {
	arr := models.JSONArray{"zero", "one", "two"}
	for i, want := range arr {
		got, err := Resolve(arr, []string{"0", "1", "2"}[i])
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestResolve_NumericKeyOnObject(t *testing.T) {
	got, err := Resolve(sampleDoc(), "7")
	require.NoError(t, err)
	assert.Equal(t, "numeric key", got)

	got, err = Resolve(sampleDoc(), "items/1/0")
	require.NoError(t, err)
	assert.Equal(t, "zero-key", got)
}

func TestResolve_NotFound(t *testing.T) {
	paths := []string{
		"missing",
		"missing/field",
		"a/1",                    // index out of bounds
		"a/99999999999999999999", // index overflow
		"a/b",                    // key on an array
		"count/x",                // descend into a scalar
		"items/0/title",          // descend into a string element
		"a/-1",                   // negative index is a key, arrays have none
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			got, err := Resolve(sampleDoc(), path)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, errors.ErrorTypeNotFound, errors.TypeOf(err))
			assert.Equal(t, MessagePathNotFound, errors.MessageOf(err))
			assert.True(t, stderrors.Is(err, errors.ErrPathNotFound))
		})
	}
}

func TestResolve_ObjectKeyAndAbsentKey(t *testing.T) {
	obj := models.MustFromNative(map[string]any{"k": map[string]any{"inner": true}})

	got, err := Resolve(obj, "k")
	require.NoError(t, err)
	assert.True(t, models.Equal(models.MustFromNative(map[string]any{"inner": true}), got))

	_, err = Resolve(obj, "absent")
	require.Error(t, err)
}

func TestResolve_NullLeaf(t *testing.T) {
	obj := models.MustFromNative(map[string]any{"n": nil})
	got, err := Resolve(obj, "n")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = Resolve(obj, "n/deeper")
	require.Error(t, err)
}
