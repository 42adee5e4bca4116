package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Persona PersonaConfig
	Store   StoreConfig
	CORS    CORSConfig
	Log     LogConfig
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// LLMConfig holds the chat-completion provider configuration
type LLMConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	// Timeout bounds a single completion call.
	Timeout time.Duration `mapstructure:"timeout"`
	// HistoryLimit caps how many stored turns are replayed into the
	// prompt; 0 replays everything.
	HistoryLimit int `mapstructure:"history_limit"`
}

// PersonaConfig points at the documents the persona is built from
type PersonaConfig struct {
	Name        string `mapstructure:"name"`
	SummaryPath string `mapstructure:"summary_path"`
	ProfilePath string `mapstructure:"profile_path"`
}

// StoreConfig holds the conversation database configuration
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// CORSConfig lists the origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads the configuration from config.yaml (or the file named by
// CONFIG_PATH) with environment variable overrides. LLM_API_KEY always
// wins for the provider secret so it never has to live in the file.
func Load() (*Config, error) {
	v := viper.New()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("llm.base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.timeout", time.Minute)
	v.SetDefault("llm.history_limit", 0)
	v.SetDefault("persona.summary_path", "me/summary.txt")
	v.SetDefault("persona.profile_path", "me/linkedin.pdf")
	v.SetDefault("store.path", "chatbot.db")
	v.SetDefault("log.level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if key := os.Getenv("LLM_API_KEY"); key != "" {
		config.LLM.APIKey = key
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return errors.New("llm.api_key is required (set LLM_API_KEY)")
	}
	if c.Persona.Name == "" {
		return errors.New("persona.name is required")
	}
	if c.Persona.SummaryPath == "" || c.Persona.ProfilePath == "" {
		return errors.New("persona.summary_path and persona.profile_path are required")
	}
	return nil
}
