// Package translator provides domain.Translator implementations backed by
// Google Cloud Translation and LibreTranslate.
package translator

import (
	"errors"
	"fmt"
	"strings"

	"emojitranslator/internal/domain"

	"golang.org/x/text/language"
)

var (
	// ErrEmptyText is returned when there is nothing to translate.
	ErrEmptyText = errors.New("translator: empty text")
	// ErrUnsupportedLanguage is returned for target codes that do not parse as BCP 47 tags.
	ErrUnsupportedLanguage = errors.New("translator: unsupported language")
)

// parseTarget validates a target language code.
func parseTarget(target domain.LanguageCode) (language.Tag, error) {
	code := strings.TrimSpace(string(target))
	if code == "" {
		return language.Und, fmt.Errorf("%w: empty code", ErrUnsupportedLanguage)
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return tag, nil
}
