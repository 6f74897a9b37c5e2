package domain

import "context"

// LanguageCode is an ISO 639-1 code (optionally region-qualified, e.g. "zh-TW")
// understood by the translation provider.
type LanguageCode string

func (c LanguageCode) String() string { return string(c) }

// Translator is the interface all translation providers must implement.
type Translator interface {
	Translate(ctx context.Context, text string, target LanguageCode) (string, error)
	Name() string
	Healthy(ctx context.Context) error
}
