package vision

import (
	"log/slog"
	"time"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "gpt-4o"
	defaultTimeout   = 120 * time.Second
	defaultMaxTokens = 4096

	// One request every two seconds keeps a sequential batch under the
	// hosted provider's rate limit even with no delay between items.
	defaultRateEvery = 2 * time.Second
)

// Config configures the model client.
type Config struct {
	// APIKey authenticates against the model endpoint. Required.
	APIKey string `json:"-" yaml:"-"`

	// BaseURL is the OpenAI-compatible endpoint root. Default:
	// https://api.openai.com/v1.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the multimodal model name. Default: gpt-4o.
	Model string `json:"model" yaml:"model"`

	// DiscoverModel is the text model for industry discovery. Defaults
	// to Model.
	DiscoverModel string `json:"discover_model" yaml:"discover_model"`

	// Timeout bounds one request. Default: 120s.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxTokens caps the reply length. Default: 4096.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.DiscoverModel == "" {
		c.DiscoverModel = c.Model
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
