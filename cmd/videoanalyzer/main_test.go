package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"videoanalyzer/internal/config"
	"videoanalyzer/internal/protocol"

	"go.uber.org/zap"
)

func TestRegistryOptions(t *testing.T) {
	t.Run("should use configured credentials by default", func(t *testing.T) {
		// Arrange
		t.Setenv("OPENAI_API_KEY", "sk-configured")
		cfg := config.NewConfigurationFromEnv()
		cmd := &protocol.Command{Command: protocol.CommandAnalyze, Provider: "openai"}

		// Act
		opts := registryOptions(cmd, cfg, "http://localhost:11434")

		// Assert
		assert.Equal(t, "sk-configured", opts.OpenAIAPIKey)
		assert.Equal(t, "http://localhost:11434", opts.OllamaEndpoint)
	})

	t.Run("should let the command api key override the selected cloud provider", func(t *testing.T) {
		// Arrange
		t.Setenv("OPENAI_API_KEY", "sk-configured")
		cfg := config.NewConfigurationFromEnv()
		cmd := &protocol.Command{Command: protocol.CommandAnalyze, Provider: "openai", APIKey: "sk-override"}

		// Act
		opts := registryOptions(cmd, cfg, "")

		// Assert
		assert.Equal(t, "sk-override", opts.OpenAIAPIKey)
	})

	t.Run("should apply the command api key to anthropic when selected", func(t *testing.T) {
		// Arrange
		cfg := config.NewConfiguration()
		cmd := &protocol.Command{Command: protocol.CommandAnalyze, Provider: "anthropic", APIKey: "sk-ant-override"}

		// Act
		opts := registryOptions(cmd, cfg, "")

		// Assert
		assert.Equal(t, "sk-ant-override", opts.AnthropicAPIKey)
		assert.Equal(t, "", opts.OpenAIAPIKey)
	})
}

func TestDispatch(t *testing.T) {
	t.Run("should reject an unknown command", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		reporter := protocol.NewReporter(&buf, nil)
		cmd := &protocol.Command{Command: "explode"}

		// Act
		err := dispatch(context.Background(), cmd, config.NewConfiguration(), reporter, zap.NewNop())

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown command")
	})

	t.Run("should require a provider for analyze", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		reporter := protocol.NewReporter(&buf, nil)
		cmd := &protocol.Command{Command: protocol.CommandAnalyze, Model: "llama3", OutputFile: "/tmp/out.txt"}

		// Act
		err := dispatch(context.Background(), cmd, config.NewConfiguration(), reporter, zap.NewNop())

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "requires a provider")
	})

	t.Run("should require a model for check_model", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		reporter := protocol.NewReporter(&buf, nil)
		cmd := &protocol.Command{Command: protocol.CommandCheckModel}

		// Act
		err := dispatch(context.Background(), cmd, config.NewConfiguration(), reporter, zap.NewNop())

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "requires a model")
	})
}
