package translator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"emojitranslator/internal/config"
	"emojitranslator/internal/domain"
)

// Constructor creates a translator from the translate config section.
type Constructor func(ctx context.Context, tc config.TranslateConfig, logger *slog.Logger) (domain.Translator, error)

var (
	constructorsMu sync.RWMutex
	constructors   = map[string]Constructor{
		"google": func(ctx context.Context, tc config.TranslateConfig, logger *slog.Logger) (domain.Translator, error) {
			return NewGoogle(ctx, GoogleConfig{
				ProjectID:       tc.ProjectID,
				CredentialsFile: tc.CredentialsFile,
				Timeout:         timeout(tc),
				Logger:          logger,
			})
		},
		"libretranslate": func(ctx context.Context, tc config.TranslateConfig, logger *slog.Logger) (domain.Translator, error) {
			return NewLibreTranslate(LibreTranslateConfig{
				APIKey:  tc.APIKey,
				APIBase: tc.APIBase,
				Timeout: timeout(tc),
				Logger:  logger,
			}), nil
		},
	}
)

// Register adds (or replaces) a translator constructor by name.
func Register(name string, ctor Constructor) {
	constructorsMu.Lock()
	defer constructorsMu.Unlock()
	constructors[name] = ctor
}

// New builds the translator named by tc.Provider.
func New(ctx context.Context, tc config.TranslateConfig, logger *slog.Logger) (domain.Translator, error) {
	constructorsMu.RLock()
	ctor, ok := constructors[tc.Provider]
	constructorsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown translate provider: %s", tc.Provider)
	}
	t, err := ctor(ctx, tc, logger)
	if err != nil {
		return nil, fmt.Errorf("translate provider %s: %w", tc.Provider, err)
	}
	logger.Debug("translator ready", "provider", t.Name())
	return t, nil
}

func timeout(tc config.TranslateConfig) time.Duration {
	return time.Duration(tc.TimeoutSeconds) * time.Second
}
