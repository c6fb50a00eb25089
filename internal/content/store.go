package content

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mcncl/contentjson/internal/errors"
)

// Extensions tried, in order, when a resource path has none of its own.
var documentExtensions = []string{".yaml", ".yml", ".json"}

// Store opens documents below a content directory. Render settings are
// attached by content type name.
type Store struct {
	dir   string
	types map[string]RenderSettings
}

// NewStore creates a store rooted at dir. types maps content type names to
// their render settings; types missing from it use the default strategy.
func NewStore(dir string, types map[string]RenderSettings) *Store {
	if types == nil {
		types = make(map[string]RenderSettings)
	}
	return &Store{dir: dir, types: types}
}

// Dir returns the content directory.
func (s *Store) Dir() string { return s.dir }

// Open loads the document addressed by resource, a slash separated path
// relative to the content directory. Paths cannot escape the directory.
func (s *Store) Open(resource string) (*Document, error) {
	clean := path.Clean("/" + strings.TrimSpace(resource))
	if clean == "/" {
		return nil, errors.NewNotFoundError("Resource not found", errors.ErrResourceNotFound)
	}

	file, err := s.locate(clean)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to read resource '%s'", clean), err)
	}

	doc, err := DecodeDocument(raw, clean)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("invalid resource '%s'", clean), err)
	}
	if doc.attributes.Size == 0 {
		doc.attributes.Size = int64(len(raw))
	}
	doc.settings = s.types[doc.typeName]
	return doc, nil
}

func (s *Store) locate(clean string) (string, error) {
	base := filepath.Join(s.dir, filepath.FromSlash(clean))
	candidates := []string{}
	if ext := filepath.Ext(base); contains(documentExtensions, ext) {
		candidates = append(candidates, base)
	}
	for _, ext := range documentExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.NewNotFoundError("Resource not found", errors.ErrResourceNotFound)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
