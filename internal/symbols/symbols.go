// Package symbols holds the fixed table of math templates the editor's
// symbol picker inserts, and the insert-at-cursor operation on note content.
package symbols

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Placeholder is the editor command for a fillable box inside a template.
const Placeholder = `\placeholder{}`

// box marks a placeholder position in catalog.yaml.
const box = "□"

//go:embed catalog.yaml
var catalogYAML []byte

// Key is one insertable template.
type Key struct {
	Label    string `yaml:"label" json:"label"`
	Template string `yaml:"template" json:"template"`
	Tooltip  string `yaml:"tooltip" json:"tooltip"`
}

// Category is a named tab of keys.
type Category struct {
	Name string `yaml:"name" json:"name"`
	Keys []Key  `yaml:"keys" json:"keys"`
}

type catalog struct {
	Categories []Category `yaml:"categories"`
}

var (
	loadOnce   sync.Once
	categories []Category
)

// Categories returns the template table in display order.
// The returned slice is shared; callers must not modify it.
func Categories() []Category {
	loadOnce.Do(func() {
		cats, err := parse(catalogYAML)
		if err != nil {
			// The catalog is compiled in; a parse failure is a build defect.
			panic(err)
		}
		categories = cats
	})
	return categories
}

func parse(data []byte) ([]Category, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse symbol catalog: %w", err)
	}
	for i := range c.Categories {
		for j := range c.Categories[i].Keys {
			k := &c.Categories[i].Keys[j]
			k.Template = strings.ReplaceAll(k.Template, box, Placeholder)
		}
	}
	return c.Categories, nil
}

// Lookup finds a key by its label, searching every category.
func Lookup(label string) (Key, bool) {
	for _, cat := range Categories() {
		for _, k := range cat.Keys {
			if k.Label == label {
				return k, true
			}
		}
	}
	return Key{}, false
}

// InsertAt inserts template into content at a cursor offset counted in
// runes. Offsets past either end are clamped.
func InsertAt(content string, offset int, template string) string {
	if offset <= 0 {
		return template + content
	}

	n := 0
	for i := range content {
		if n == offset {
			return content[:i] + template + content[i:]
		}
		n++
	}
	return content + template
}
