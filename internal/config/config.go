// Package config loads process configuration from defaults, an optional
// .env file, and SCREENER_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Chat    ChatConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
	// APIToken guards the transcripts endpoints. Empty disables them.
	APIToken string
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string // empty means the provider default
	Model       string
	MaxTokens   int
	Temperature float64
}

type ChatConfig struct {
	HistoryWindow    int
	MaxMessageLength int
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4600,
		},
		LLM: LLMConfig{
			Model:       "gpt-4-turbo-preview",
			MaxTokens:   250,
			Temperature: 0.7,
		},
		Chat: ChatConfig{
			HistoryWindow:    6,
			MaxMessageLength: 500,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".screener"
	}
	return filepath.Join(home, ".screener")
}

// Load reads configuration. Precedence, lowest to highest: built-in
// defaults, a .env file in the working directory, process environment
// variables. A missing OpenAI API key is fatal: the process must refuse to
// accept any turns without its completion credential.
func Load() (Config, error) {
	// Best-effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := defaults()
	applyEnvOverrides(&cfg)

	if cfg.LLM.APIKey == "" {
		return Config{}, fmt.Errorf("missing required config: OpenAI API key. " +
			"Set it via the OPENAI_API_KEY environment variable or a .env file")
	}

	return cfg, nil
}
