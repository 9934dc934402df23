// Package layout loads the page and index templates from disk.
package layout

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ReCoderDojoEniwa/HomePage/internal/braw"
)

var (
	ErrMissingMarker   = errors.New("template has no content marker " + braw.ContentMarker)
	ErrDuplicateMarker = errors.New("template has more than one content marker")
)

// Template is a validated template text holding exactly one content marker.
type Template struct {
	name string
	text string
}

// New validates text as a template. name is used in error messages only.
func New(name, text string) (*Template, error) {
	switch strings.Count(text, braw.ContentMarker) {
	case 0:
		return nil, fmt.Errorf("%s: %w", name, ErrMissingMarker)
	case 1:
		return &Template{name: name, text: text}, nil
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrDuplicateMarker)
	}
}

// Load reads and validates the template at path.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return New(path, string(data))
}

func (t *Template) Name() string { return t.name }

func (t *Template) Text() string { return t.text }

// Fill places content at the content marker.
func (t *Template) Fill(content string) string {
	return braw.FillTemplate(t.text, content)
}
