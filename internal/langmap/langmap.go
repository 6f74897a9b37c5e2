// Package langmap resolves emoji short-codes to translation target languages.
package langmap

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"emojitranslator/internal/domain"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const flagPrefix = "flag-"

// wordPattern matches the country token that follows the flag- prefix.
var wordPattern = regexp.MustCompile(`^\w+`)

// Map is an immutable short-code to language lookup table. It is built once
// at startup and safe for concurrent reads.
type Map struct {
	codes map[string]domain.LanguageCode
}

// New builds a Map from short-code/language pairs. Keys are lowercased and
// every language code must parse as a BCP 47 tag.
func New(entries map[string]string) (*Map, error) {
	codes := make(map[string]domain.LanguageCode, len(entries))
	var errs []string
	for key, code := range entries {
		k := strings.ToLower(strings.Trim(strings.TrimSpace(key), ":"))
		if k == "" {
			errs = append(errs, "empty short-code")
			continue
		}
		code = strings.TrimSpace(code)
		if _, err := language.Parse(code); err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid language code %q", k, code))
			continue
		}
		codes[k] = domain.LanguageCode(code)
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return nil, fmt.Errorf("language map:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return &Map{codes: codes}, nil
}

// Default returns the built-in country-flag table.
func Default() *Map {
	m, err := New(defaultEntries)
	if err != nil {
		panic(err)
	}
	return m
}

// With returns a new Map holding m's entries plus overrides. m is unchanged.
func (m *Map) With(overrides map[string]string) (*Map, error) {
	merged := make(map[string]string, len(m.codes)+len(overrides))
	for k, v := range m.codes {
		merged[k] = string(v)
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return New(merged)
}

// Lookup returns the language mapped to a short-code.
func (m *Map) Lookup(key string) (domain.LanguageCode, bool) {
	code, ok := m.codes[strings.ToLower(key)]
	return code, ok
}

// Resolve maps a reaction short-code to a target language.
//
// "flag-<country>" looks up the word characters after the prefix;
// any other code is looked up as-is. Flags whose country is missing from
// the map do not fall back to the bare-code rule.
func (m *Map) Resolve(reaction string) (domain.LanguageCode, bool) {
	code := strings.Trim(reaction, ":")
	if rest, ok := strings.CutPrefix(code, flagPrefix); ok {
		country := wordPattern.FindString(rest)
		if country == "" {
			return "", false
		}
		return m.Lookup(country)
	}
	return m.Lookup(code)
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.codes) }

// Keys returns the short-codes in sorted order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.codes))
	for k := range m.codes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadFile reads short-code/language pairs from a YAML mapping, e.g.
//
//	jp: ja
//	japan: ja
func LoadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read language file %s: %w", path, err)
	}
	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse language file %s: %w", path, err)
	}
	return entries, nil
}

// Build returns the default table extended by the optional YAML file and
// inline overrides, applied in that order.
func Build(file string, overrides map[string]string) (*Map, error) {
	m := Default()
	if file != "" {
		entries, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		if m, err = m.With(entries); err != nil {
			return nil, err
		}
	}
	if len(overrides) > 0 {
		var err error
		if m, err = m.With(overrides); err != nil {
			return nil, err
		}
	}
	return m, nil
}
