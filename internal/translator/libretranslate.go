package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"emojitranslator/internal/domain"

	"golang.org/x/text/language"
)

// LibreTranslate implements domain.Translator for a LibreTranslate server.
type LibreTranslate struct {
	apiKey  string
	apiBase string
	client  *http.Client
	logger  *slog.Logger
}

type LibreTranslateConfig struct {
	APIKey  string
	APIBase string
	Timeout time.Duration
	Logger  *slog.Logger
}

// libreTimeout covers CPU-only servers, where a long message can take tens
// of seconds to translate.
const libreTimeout = 60 * time.Second

func NewLibreTranslate(cfg LibreTranslateConfig) *LibreTranslate {
	if cfg.APIBase == "" {
		cfg.APIBase = "http://localhost:5000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = libreTimeout
	}
	return &LibreTranslate{
		apiKey:  cfg.APIKey,
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		client:  newLibreClient(cfg.Timeout),
		logger:  cfg.Logger,
	}
}

// newLibreClient talks to a single, usually nearby, host: every idle
// connection is kept for it and dialing fails fast, while the response may
// take as long as the translation does.
func newLibreClient(timeout time.Duration) *http.Client {
	const conns = 8
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        conns,
			MaxIdleConnsPerHost: conns,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}

func (l *LibreTranslate) Name() string { return "libretranslate" }

type ltLanguage struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (l *LibreTranslate) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.apiBase+"/languages", nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("libretranslate not reachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("libretranslate returned %d", resp.StatusCode)
	}
	var langs []ltLanguage
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		return fmt.Errorf("libretranslate languages: %w", err)
	}
	if len(langs) == 0 {
		return fmt.Errorf("libretranslate has no languages installed")
	}
	return nil
}

type ltRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type ltResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func (l *LibreTranslate) Translate(ctx context.Context, text string, target domain.LanguageCode) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}
	tag, err := parseTarget(target)
	if err != nil {
		return "", err
	}

	jsonBody, err := json.Marshal(ltRequest{
		Q:      text,
		Source: "auto",
		Target: libreCode(tag),
		Format: "text",
		APIKey: l.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.apiBase+"/translate", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("libretranslate request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var result ltResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(respBody, &result) == nil && result.Error != "" {
			return "", fmt.Errorf("libretranslate %d: %s", resp.StatusCode, result.Error)
		}
		return "", fmt.Errorf("libretranslate %d: %s", resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return result.TranslatedText, nil
}

// libreCode maps a BCP 47 tag to LibreTranslate's codes, which use bare
// languages plus "zt" for traditional Chinese.
func libreCode(tag language.Tag) string {
	base, _ := tag.Base()
	if base.String() == "zh" {
		if script, _ := tag.Script(); script.String() == "Hant" {
			return "zt"
		}
	}
	return base.String()
}
