package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the assistant service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	History   HistoryConfig   `mapstructure:"history"`
	Reference ReferenceConfig `mapstructure:"reference"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig contains generation provider settings
type LLMConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	FallbackModels []string      `mapstructure:"fallback_models"`
	Temperature    float64       `mapstructure:"temperature"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// Models returns the fallback chain: primary model first, then the
// configured fallbacks, deduplicated in order.
func (c LLMConfig) Models() []string {
	seen := make(map[string]struct{}, 1+len(c.FallbackModels))
	var out []string
	for _, m := range append([]string{c.Model}, c.FallbackModels...) {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

func (c LLMConfig) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm.temperature out of range")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}
	return nil
}

// SearchConfig contains web search settings
type SearchConfig struct {
	Provider   string        `mapstructure:"provider"`
	APIKey     string        `mapstructure:"api_key"`
	MaxResults int           `mapstructure:"max_results"`
	Depth      string        `mapstructure:"depth"`
	Country    string        `mapstructure:"country"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

func (c SearchConfig) Validate() error {
	switch c.Provider {
	case "tavily", "serper":
	default:
		return fmt.Errorf("search.provider must be tavily or serper, got %q", c.Provider)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive")
	}
	return nil
}

// HistoryConfig bounds the per-session conversation log
type HistoryConfig struct {
	MaxPairs int `mapstructure:"max_pairs"`
}

// Normalize applies defaults for unset history values.
func (c HistoryConfig) Normalize() HistoryConfig {
	if c.MaxPairs <= 0 {
		c.MaxPairs = 2
	}
	return c
}

// ReferenceConfig maps topic categories to corpus files
type ReferenceConfig struct {
	DataDir  string            `mapstructure:"data_dir"`
	Files    map[string]string `mapstructure:"files"`
	MaxChars int               `mapstructure:"max_chars"`
}

// Normalize applies defaults for unset reference values.
func (c ReferenceConfig) Normalize() ReferenceConfig {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if len(c.Files) == 0 {
		c.Files = map[string]string{
			"tax":   "tax_code.txt",
			"admin": "koap_rf.txt",
			"trade": "ved_laws.txt",
		}
	}
	if c.MaxChars <= 0 {
		c.MaxChars = 50000
	}
	return c
}

// TelemetryConfig contains metrics settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":9080")
	viper.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("llm.model", "google/gemini-2.5-flash-lite-preview-09-2025")
	viper.SetDefault("llm.temperature", 0.3)
	viper.SetDefault("llm.max_tokens", 2000)
	viper.SetDefault("llm.timeout", "90s")
	viper.SetDefault("search.provider", "tavily")
	viper.SetDefault("search.max_results", 3)
	viper.SetDefault("search.depth", "basic")
	viper.SetDefault("search.country", "russia")
	viper.SetDefault("search.timeout", "20s")
	viper.SetDefault("history.max_pairs", 2)
	viper.SetDefault("reference.data_dir", "data")
	viper.SetDefault("reference.max_chars", 50000)
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("PRAVOBOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Env-only operation is fine; a broken file is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	config.History = config.History.Normalize()
	config.Reference = config.Reference.Normalize()

	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.Search.Validate(); err != nil {
		panic(err)
	}
	return &config
}
