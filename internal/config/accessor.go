package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// tree renders cfg as nested maps keyed by the JSON field names, which are
// the names operators use on the command line.
func tree(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetByPath retrieves a config value by dot path (e.g. "slack.eventsPath").
func GetByPath(cfg *Config, path string) (any, error) {
	m, err := tree(cfg)
	if err != nil {
		return nil, err
	}
	var node any = m
	for _, key := range strings.Split(path, ".") {
		section, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: %q is not a section", path, key)
		}
		if node, ok = section[key]; !ok {
			return nil, fmt.Errorf("key not found: %s", path)
		}
	}
	return node, nil
}

// SetByPath assigns value at a dot path. String values are coerced to bool
// or int when they parse as one. Map sections such as languages.overrides
// accept new keys; struct sections only accept their known fields.
func SetByPath(cfg *Config, path string, value any) error {
	parts := strings.Split(path, ".")
	if path == "" || len(parts) < 2 {
		return fmt.Errorf("path must be section.key, got %q", path)
	}
	m, err := tree(cfg)
	if err != nil {
		return err
	}
	if _, ok := m[parts[0]]; !ok {
		return fmt.Errorf("unknown config section: %s", parts[0])
	}

	section := m
	for _, key := range parts[:len(parts)-1] {
		switch child := section[key].(type) {
		case map[string]any:
			section = child
		case nil:
			fresh := map[string]any{}
			section[key] = fresh
			section = fresh
		default:
			return fmt.Errorf("%s: %q is a value, not a section", path, key)
		}
	}
	leaf := parts[len(parts)-1]
	section[leaf] = coerce(value)
	updated, err := decodeTree(m)
	if raw, isString := value.(string); err != nil && isString {
		// "12345" for a string field such as translate.apiKey.
		section[leaf] = raw
		updated, err = decodeTree(m)
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	// Unknown struct fields are dropped by Unmarshal; reading back catches them.
	if _, err := GetByPath(updated, path); err != nil {
		return fmt.Errorf("unknown config key: %s", path)
	}
	*cfg = *updated
	return nil
}

func decodeTree(m map[string]any) (*Config, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func coerce(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

// Sanitize returns a copy of cfg with tokens and secrets masked.
func Sanitize(cfg *Config) *Config {
	c := *cfg
	c.Slack.SigningSecret = maskString(c.Slack.SigningSecret)
	c.Slack.BotToken = maskString(c.Slack.BotToken)
	c.Slack.AppToken = maskString(c.Slack.AppToken)
	c.Translate.APIKey = maskString(c.Translate.APIKey)
	return &c
}

// maskString keeps four characters at each end so token kinds (xoxb-, xapp-)
// stay recognizable.
func maskString(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return "***"
	default:
		return s[:4] + "****" + s[len(s)-4:]
	}
}

// ListPaths returns every leaf path with its current value.
func ListPaths(cfg *Config) map[string]any {
	m, err := tree(cfg)
	if err != nil {
		return nil
	}
	out := make(map[string]any)
	var walk func(prefix string, node map[string]any)
	walk = func(prefix string, node map[string]any) {
		for k, v := range node {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			if child, ok := v.(map[string]any); ok {
				walk(p, child)
				continue
			}
			out[p] = v
		}
	}
	walk("", m)
	return out
}
