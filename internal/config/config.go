package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Model is the provider model used for both analysis flows.
	Model string `json:"model"`

	// BaseURL is the OpenAI-compatible API root (no trailing slash).
	BaseURL string `json:"base_url"`

	// RequestTimeoutSecs bounds each provider call. The provider is external
	// and can hang; a timeout surfaces as a transient failure.
	RequestTimeoutSecs int `json:"request_timeout_secs"`

	// HistoryLimit caps the number of retained history records.
	HistoryLimit int `json:"history_limit"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:              "gpt-4o-mini",
		BaseURL:            "https://api.openai.com/v1",
		RequestTimeoutSecs: 60,
		HistoryLimit:       100,
	}
}

// Timeout returns the provider request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// Load loads configuration from baseDir/config.json, merged over defaults.
// Returns default config if the file doesn't exist. The baseDir parameter
// allows tests to use t.TempDir() instead of ~/.lifequest.
func Load(baseDir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs. Overlay values take precedence
// for scalars; the tool list is merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Model = overlay.Model
	if result.Model == "" {
		result.Model = base.Model
	}

	result.BaseURL = strings.TrimRight(overlay.BaseURL, "/")
	if result.BaseURL == "" {
		result.BaseURL = strings.TrimRight(base.BaseURL, "/")
	}

	result.RequestTimeoutSecs = overlay.RequestTimeoutSecs
	if result.RequestTimeoutSecs == 0 {
		result.RequestTimeoutSecs = base.RequestTimeoutSecs
	}

	result.HistoryLimit = overlay.HistoryLimit
	if result.HistoryLimit == 0 {
		result.HistoryLimit = base.HistoryLimit
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// placeholders are known non-values that ship in example env files. A key
// matching one of these is treated as not configured.
var placeholders = map[string]bool{
	"your_openai_api_key_here": true,
	"your-api-key":             true,
	"sk-xxxx":                  true,
	"changeme":                 true,
}

// ResolveAPIKey returns the provider credential from the environment,
// loading baseDir/.env first (best-effort, the file is optional). Returns
// an empty string when the key is absent or a known placeholder.
func ResolveAPIKey(baseDir string) string {
	_ = godotenv.Load(filepath.Join(baseDir, ".env"))

	key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if key == "" || placeholders[strings.ToLower(key)] {
		return ""
	}
	return key
}

// mergeStringSlice combines two slices, trims whitespace, and removes
// duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
