package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration, populated from environment
// variables. Provider selection is by name; each provider section carries
// its own credentials and model defaults.
type Config struct {
	Debug bool `env:"ASISTENTE_DEBUG"`

	// Text provider: gemini, openai or claude. Fallback is optional and
	// tried when the primary fails.
	Provider         string `env:"ASISTENTE_PROVIDER" envDefault:"gemini"`
	FallbackProvider string `env:"ASISTENTE_FALLBACK_PROVIDER"`

	// Image provider: gemini or openai (claude cannot generate images).
	ImageProvider string `env:"ASISTENTE_IMAGE_PROVIDER" envDefault:"gemini"`

	Gemini    GeminiConfig    `envPrefix:"GEMINI_"`
	OpenAI    OpenAIConfig    `envPrefix:"OPENAI_"`
	Anthropic AnthropicConfig `envPrefix:"ANTHROPIC_"`

	Telegram TelegramConfig `envPrefix:"TELEGRAM_"`

	// Listen address for the websocket gateway in serve mode.
	Listen string `env:"ASISTENTE_LISTEN" envDefault:":8217"`

	// Directory of documents ingested into every new session's knowledge
	// base at startup (text, PDF, images). Optional.
	KnowledgeDir string `env:"ASISTENTE_KNOWLEDGE_DIR"`

	// Bot roster file. Empty means the embedded default roster.
	BotsFile string `env:"ASISTENTE_BOTS_FILE"`
	// Active bot profile id within the roster.
	BotID string `env:"ASISTENTE_BOT" envDefault:"clara"`

	// Workspace directory for usage metrics. Chat history and knowledge
	// are session-scoped and never written here.
	Workspace string `env:"ASISTENTE_WORKSPACE"`
}

type GeminiConfig struct {
	APIKey     string `env:"API_KEY"`
	Model      string `env:"MODEL" envDefault:"gemini-2.5-flash"`
	ImageModel string `env:"IMAGE_MODEL" envDefault:"gemini-2.0-flash-preview-image-generation"`
}

type OpenAIConfig struct {
	APIKey     string `env:"API_KEY"`
	APIBase    string `env:"API_BASE"`
	Model      string `env:"MODEL" envDefault:"gpt-4o-mini"`
	ImageModel string `env:"IMAGE_MODEL" envDefault:"dall-e-3"`
}

type AnthropicConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"claude-sonnet-4-5-20250929"`
}

type TelegramConfig struct {
	Enabled bool   `env:"ENABLED"`
	Token   string `env:"TOKEN"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case "gemini", "openai", "claude":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	switch c.ImageProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown image provider %q (claude cannot generate images)", c.ImageProvider)
	}
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required when TELEGRAM_ENABLED is set")
	}
	return nil
}

// WorkspacePath resolves the workspace directory, defaulting to
// ~/.asistente when unset.
func (c *Config) WorkspacePath() string {
	if c.Workspace != "" {
		return c.Workspace
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".asistente"
	}
	return filepath.Join(home, ".asistente")
}
