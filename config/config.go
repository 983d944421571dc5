package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Reddit struct {
		ClientId     string `yaml:"clientId"`
		ClientSecret string `yaml:"clientSecret"`
		Username     string `yaml:"username"`
		Password     string `yaml:"password"`
		UserAgent    string `yaml:"userAgent"`
	} `yaml:"reddit"`

	LLM struct {
		Provider string `yaml:"provider"` // "openai" or "gemini"

		Openai struct {
			ApiKey      string  `yaml:"apiKey"`
			Model       string  `yaml:"model"`
			Temperature float64 `yaml:"temperature"`
			MaxTokens   int     `yaml:"maxTokens"`
		} `yaml:"openai"`

		Gemini struct {
			ApiKey string `yaml:"apiKey"`
			Model  string `yaml:"model"`
		} `yaml:"gemini"`
	} `yaml:"llm"`
}

// LoadConfig reads the configuration file and applies environment overrides
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	return &cfg, nil
}

// applyEnvOverrides lets secrets come from the environment instead of the file
func (c *Config) applyEnvOverrides() {
	overrideFromEnv(&c.Reddit.ClientId, "REDDIT_CLIENT_ID")
	overrideFromEnv(&c.Reddit.ClientSecret, "REDDIT_CLIENT_SECRET")
	overrideFromEnv(&c.Reddit.Username, "REDDIT_USERNAME")
	overrideFromEnv(&c.Reddit.Password, "REDDIT_PASSWORD")
	overrideFromEnv(&c.LLM.Openai.ApiKey, "OPENAI_API_KEY")
	overrideFromEnv(&c.LLM.Gemini.ApiKey, "GEMINI_API_KEY")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Reddit.UserAgent == "" {
		c.Reddit.UserAgent = "go:contrahub:v1.0"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Openai.Model == "" {
		c.LLM.Openai.Model = "gpt-4o-2024-08-06"
	}
	if c.LLM.Gemini.Model == "" {
		c.LLM.Gemini.Model = "gemini-2.5-flash"
	}
}

func overrideFromEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
