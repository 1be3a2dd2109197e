package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Local      LocalConfig      `mapstructure:"local"`
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Generation GenerationConfig `mapstructure:"generation"`
	Prompts    PromptsConfig    `mapstructure:"prompts"`
	Whisper    WhisperConfig    `mapstructure:"whisper"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

// LocalConfig 本地微调模型推理服务
type LocalConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AnthropicConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Version string        `mapstructure:"version"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type OpenRouterConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type GenerationConfig struct {
	AllowedLanguages []string `mapstructure:"allowed_languages"`
	HistorySize      int      `mapstructure:"history_size"`
	ContextWindow    int      `mapstructure:"context_window"`
	MaxAttempts      int      `mapstructure:"max_attempts"`
	MaxTokens        int      `mapstructure:"max_tokens"`
	Temperature      float32  `mapstructure:"temperature"`
}

type PromptsConfig struct {
	Dir string `mapstructure:"dir"`
}

type WhisperConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CODECOMPARE")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// 配置文件优先，密钥缺省时回退到环境变量
	if cfg.Anthropic.APIKey == "" {
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.OpenRouter.APIKey == "" {
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if len(cfg.Generation.AllowedLanguages) == 0 {
		cfg.Generation.AllowedLanguages = []string{"html", "css", "javascript", "manim"}
	}
	if cfg.Generation.HistorySize == 0 {
		cfg.Generation.HistorySize = 10
	}
	if cfg.Generation.ContextWindow == 0 {
		cfg.Generation.ContextWindow = cfg.Generation.HistorySize - 1
	}
	if cfg.Generation.MaxAttempts == 0 {
		cfg.Generation.MaxAttempts = 3
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = 3600
	}
	if cfg.Generation.Temperature == 0 {
		cfg.Generation.Temperature = 0.8
	}
	if cfg.Local.BaseURL == "" {
		cfg.Local.BaseURL = "http://localhost:8001"
	}
	if cfg.Local.Timeout == 0 {
		cfg.Local.Timeout = 120 * time.Second
	}
	if cfg.Anthropic.BaseURL == "" {
		cfg.Anthropic.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Anthropic.Version == "" {
		cfg.Anthropic.Version = "2023-06-01"
	}
	if cfg.Anthropic.Timeout == 0 {
		cfg.Anthropic.Timeout = 60 * time.Second
	}
	if cfg.OpenRouter.BaseURL == "" {
		cfg.OpenRouter.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.OpenRouter.Timeout == 0 {
		cfg.OpenRouter.Timeout = 60 * time.Second
	}
	if cfg.Whisper.Timeout == 0 {
		cfg.Whisper.Timeout = 120 * time.Second
	}
}
