// Package messages holds the user-facing string catalog. Texts live in an
// embedded YAML file so wording changes never touch handler code.
package messages

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog resolves message keys to formatted user-facing strings.
type Catalog struct {
	texts map[string]string
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	texts := make(map[string]string)
	if err := yaml.Unmarshal(catalogYAML, &texts); err != nil {
		return nil, fmt.Errorf("failed to parse message catalog: %w", err)
	}
	return &Catalog{texts: texts}, nil
}

// Get formats the message for key with args. A missing key renders as the
// key itself so a typo is visible instead of silent.
func (c *Catalog) Get(key string, args ...any) string {
	text, ok := c.texts[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}

// Has reports whether the catalog defines key.
func (c *Catalog) Has(key string) bool {
	_, ok := c.texts[key]
	return ok
}
