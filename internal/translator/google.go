package translator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"emojitranslator/internal/domain"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// googleAPI is the subset of *translate.Client used by Google.
type googleAPI interface {
	Translate(ctx context.Context, inputs []string, target language.Tag, opts *translate.Options) ([]translate.Translation, error)
	SupportedLanguages(ctx context.Context, target language.Tag) ([]translate.Language, error)
	Close() error
}

// Google translates through the Cloud Translation v2 API.
type Google struct {
	api     googleAPI
	timeout time.Duration
	logger  *slog.Logger
}

// GoogleConfig configures the Cloud Translation client.
type GoogleConfig struct {
	ProjectID       string
	CredentialsFile string
	Timeout         time.Duration
	Logger          *slog.Logger
}

// NewGoogle creates a Cloud Translation client. Without a credentials file the
// client falls back to Application Default Credentials.
func NewGoogle(ctx context.Context, cfg GoogleConfig) (*Google, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}
	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google translate client: %w", err)
	}
	return newGoogle(client, cfg), nil
}

func newGoogle(api googleAPI, cfg GoogleConfig) *Google {
	return &Google{api: api, timeout: cfg.Timeout, logger: cfg.Logger}
}

func (g *Google) Name() string { return "google" }

// Translate requests plain-text output so entities come back unescaped.
func (g *Google) Translate(ctx context.Context, text string, target domain.LanguageCode) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}
	tag, err := parseTarget(target)
	if err != nil {
		return "", err
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.api.Translate(ctx, []string{text}, tag, &translate.Options{Format: translate.Text})
	if err != nil {
		return "", fmt.Errorf("google translate: %w", err)
	}
	if len(resp) == 0 {
		return "", fmt.Errorf("google translate: empty response")
	}
	g.logger.Debug("google translation done", "target", tag.String(), "source", resp[0].Source.String())
	return resp[0].Text, nil
}

// Healthy lists supported languages as a cheap authenticated call.
func (g *Google) Healthy(ctx context.Context) error {
	langs, err := g.api.SupportedLanguages(ctx, language.English)
	if err != nil {
		return fmt.Errorf("google translate not reachable: %w", err)
	}
	if len(langs) == 0 {
		return fmt.Errorf("google translate returned no languages")
	}
	return nil
}

// Close releases the underlying client.
func (g *Google) Close() error { return g.api.Close() }
