// Package lookup resolves slash/bracket path expressions such as "a/0/b" or
// "items[2]/title" against a rendered JSON document.
package lookup

import (
	"strconv"
	"strings"

	"github.com/mcncl/contentjson/internal/errors"
	"github.com/mcncl/contentjson/internal/models"
)

// MessagePathNotFound is the message carried by every resolution failure.
const MessagePathNotFound = "Path not found"

// Token is one non-empty segment of a path expression.
type Token struct {
	Raw string
	// Numeric is set when Raw consists only of ASCII digits. Such tokens
	// index arrays but still act as keys when the current value is an object.
	Numeric bool
}

// Tokenize splits path on '/', '[' and ']' and drops empty or
// whitespace-only segments.
func Tokenize(path string) []Token {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '[' || r == ']'
	})
	tokens := make([]Token, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		tokens = append(tokens, Token{Raw: part, Numeric: isDigits(part)})
	}
	return tokens
}

// Resolve walks root along path. An empty path, or one made only of
// delimiters, yields root itself. Any step that cannot be taken returns a
// not-found AppError wrapping errors.ErrPathNotFound.
func Resolve(root models.JSONValue, path string) (models.JSONValue, error) {
	current := root
	for _, token := range Tokenize(path) {
		next, ok := step(current, token)
		if !ok {
			return nil, errors.NewNotFoundError(MessagePathNotFound, errors.ErrPathNotFound)
		}
		current = next
	}
	return current, nil
}

func step(current models.JSONValue, token Token) (models.JSONValue, bool) {
	if arr, isArray := current.(models.JSONArray); isArray && token.Numeric {
		idx, err := strconv.Atoi(token.Raw)
		if err != nil || idx < 0 || idx >= len(arr) {
			return nil, false
		}
		return arr[idx], true
	}
	if obj, isObject := current.(*models.JSONObject); isObject {
		return obj.Get(token.Raw)
	}
	return nil, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
