// Package i18n holds the dashboard translation table.
package i18n

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when neither the user nor the device picked one.
const DefaultLanguage = "en"

//go:embed translations.yaml
var embedded []byte

// Catalog maps language codes to key/text tables.
type Catalog struct {
	tables map[string]map[string]string
}

// Parse reads a YAML document of the form {lang: {key: text}}.
func Parse(data []byte) (*Catalog, error) {
	tables := make(map[string]map[string]string)
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no languages in translations")
	}
	return &Catalog{tables: tables}, nil
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(embedded)
	if err != nil {
		panic(err)
	}
	return c
}

// Translate returns the text for key in lang. Unknown languages and keys
// translate to the key itself.
func (c *Catalog) Translate(lang, key string) string {
	if text, ok := c.tables[lang][key]; ok {
		return text
	}
	return key
}

// Has reports whether lang has a table.
func (c *Catalog) Has(lang string) bool {
	_, ok := c.tables[lang]
	return ok
}

// Languages returns the available language codes, sorted.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.tables))
	for lang := range c.tables {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Table returns a copy of the table for lang, or nil if it is unknown.
func (c *Catalog) Table(lang string) map[string]string {
	src, ok := c.tables[lang]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
