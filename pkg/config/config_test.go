package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected defaults to load, got %v", err)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("Expected default provider gemini, got %q", cfg.Provider)
	}
	if cfg.ImageProvider != "gemini" {
		t.Errorf("Expected default image provider gemini, got %q", cfg.ImageProvider)
	}
	if cfg.Listen != ":8217" {
		t.Errorf("Expected default listen address :8217, got %q", cfg.Listen)
	}
	if cfg.BotID != "clara" {
		t.Errorf("Expected default bot clara, got %q", cfg.BotID)
	}
	if cfg.Gemini.Model == "" {
		t.Error("Gemini model default must be set")
	}
}

func TestLoad_ProviderOverride(t *testing.T) {
	t.Setenv("ASISTENTE_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("Expected provider openai, got %q", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("Expected prefixed key to reach the OpenAI section, got %q", cfg.OpenAI.APIKey)
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("ASISTENTE_PROVIDER", "mistral")
	if _, err := Load(); err == nil {
		t.Error("Expected an error for an unknown provider")
	}
}

func TestLoad_ClaudeCannotGenerateImages(t *testing.T) {
	t.Setenv("ASISTENTE_IMAGE_PROVIDER", "claude")
	if _, err := Load(); err == nil {
		t.Error("Expected an error: claude is not an image provider")
	}
}

func TestLoad_TelegramRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_ENABLED", "true")
	t.Setenv("TELEGRAM_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Error("Expected an error when telegram is enabled without a token")
	}
}

func TestWorkspacePath_Override(t *testing.T) {
	cfg := &Config{Workspace: "/tmp/espacio"}
	if got := cfg.WorkspacePath(); got != "/tmp/espacio" {
		t.Errorf("Expected explicit workspace, got %q", got)
	}
}

func TestWorkspacePath_Default(t *testing.T) {
	cfg := &Config{}
	if got := cfg.WorkspacePath(); got == "" {
		t.Error("Default workspace path must not be empty")
	}
}
