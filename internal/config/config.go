package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"videoanalyzer/internal/category"
)

// Configuration provides type-safe access to application settings
type Configuration struct {
	viper *viper.Viper
}

func newViperWithDefaults() *viper.Viper {
	v := viper.New()

	v.SetDefault("ollama.endpoint", "http://localhost:11434")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("whisper.server_url", "http://localhost:9000")
	v.SetDefault("whisper.timeout_minutes", 60)

	v.SetDefault("analysis.chunk_minutes", 5)
	v.SetDefault("analysis.section_timeout_minutes", 20)
	v.SetDefault("analysis.quote_timeout_minutes", 20)
	v.SetDefault("analysis.summary_timeout_seconds", 60)
	v.SetDefault("analysis.tag_timeout_seconds", 120)
	v.SetDefault("analysis.title_timeout_seconds", 30)
	v.SetDefault("analysis.probe_timeout_seconds", 300)

	return v
}

// NewConfiguration creates a new Configuration instance with default settings
func NewConfiguration() *Configuration {
	return &Configuration{viper: newViperWithDefaults()}
}

// NewConfigurationFromFile creates a Configuration instance from a config file
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := newViperWithDefaults()
	v.SetConfigFile(configFile)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	return &Configuration{viper: v}, nil
}

// NewConfigurationFromEnv creates a Configuration instance that reads from
// environment variables
func NewConfigurationFromEnv() *Configuration {
	v := newViperWithDefaults()

	v.SetEnvPrefix("VIDEOANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map specific environment variables
	v.BindEnv("ollama.endpoint", "OLLAMA_ENDPOINT")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("whisper.server_url", "WHISPER_SERVER_URL")

	return &Configuration{viper: v}
}

// GetOllamaEndpoint returns the configured local inference daemon endpoint
func (c *Configuration) GetOllamaEndpoint() string {
	return c.viper.GetString("ollama.endpoint")
}

// GetOpenAIAPIKey returns the OpenAI API key, empty when unset
func (c *Configuration) GetOpenAIAPIKey() string {
	return c.viper.GetString("openai.api_key")
}

// GetAnthropicAPIKey returns the Anthropic API key, empty when unset
func (c *Configuration) GetAnthropicAPIKey() string {
	return c.viper.GetString("anthropic.api_key")
}

// GetWhisperServerURL returns the speech-to-text server URL
func (c *Configuration) GetWhisperServerURL() string {
	return c.viper.GetString("whisper.server_url")
}

// GetWhisperTimeout returns the transcription request budget
func (c *Configuration) GetWhisperTimeout() time.Duration {
	return time.Duration(c.viper.GetInt("whisper.timeout_minutes")) * time.Minute
}

// GetChunkMinutes returns the chunk window duration in minutes
func (c *Configuration) GetChunkMinutes() int {
	return c.viper.GetInt("analysis.chunk_minutes")
}

// GetSectionTimeout returns the section-identification request budget
func (c *Configuration) GetSectionTimeout() time.Duration {
	return time.Duration(c.viper.GetInt("analysis.section_timeout_minutes")) * time.Minute
}

// GetQuoteTimeout returns the quote-extraction request budget
func (c *Configuration) GetQuoteTimeout() time.Duration {
	return time.Duration(c.viper.GetInt("analysis.quote_timeout_minutes")) * time.Minute
}

// GetSummaryTimeout returns the overview generation budget
func (c *Configuration) GetSummaryTimeout() time.Duration {
	return time.Duration(c.viper.GetInt("analysis.summary_timeout_seconds")) * time.Second
}

// GetTagTimeout returns the tag extraction budget
func (c *Configuration) GetTagTimeout() time.Duration {
	return time.Duration(c.viper.GetInt("analysis.tag_timeout_seconds")) * time.Second
}

// GetTitleTimeout returns the title suggestion budget
func (c *Configuration) GetTitleTimeout() time.Duration {
	return time.Duration(c.viper.GetInt("analysis.title_timeout_seconds")) * time.Second
}

// GetProbeTimeout returns the model availability probe budget
func (c *Configuration) GetProbeTimeout() time.Duration {
	return time.Duration(c.viper.GetInt("analysis.probe_timeout_seconds")) * time.Second
}

// GetCategories returns the category set configured in the config file, if
// any. The command payload's categories take precedence over these.
func (c *Configuration) GetCategories() ([]category.Category, error) {
	if !c.viper.IsSet("analysis.categories") {
		return nil, nil
	}

	var categories []category.Category
	if err := c.viper.UnmarshalKey("analysis.categories", &categories); err != nil {
		return nil, fmt.Errorf("failed to parse configured categories: %w", err)
	}
	return categories, nil
}
