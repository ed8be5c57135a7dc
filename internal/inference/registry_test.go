package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("should always resolve the local provider", func(t *testing.T) {
		// Arrange
		registry := NewRegistry(RegistryOptions{})

		// Act & Assert
		assert.Equal(t, []Provider{ProviderOllama}, registry.Available())
		assert.True(t, registry.Has(ProviderOllama))
		assert.False(t, registry.Has(ProviderOpenAI))
		assert.False(t, registry.Has(ProviderAnthropic))
	})

	t.Run("should resolve cloud providers only when their key is present", func(t *testing.T) {
		// Arrange
		registry := NewRegistry(RegistryOptions{
			OpenAIAPIKey:    "sk-test",
			AnthropicAPIKey: "sk-ant-test",
		})

		// Act
		available := registry.Available()

		// Assert
		assert.Equal(t, []Provider{ProviderAnthropic, ProviderOllama, ProviderOpenAI}, available)
	})

	t.Run("should return a gateway bound to a resolved provider", func(t *testing.T) {
		// Arrange
		registry := NewRegistry(RegistryOptions{})

		// Act
		gateway, err := registry.Gateway(ProviderOllama)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, ProviderOllama, gateway.Provider())
	})

	t.Run("should reject an unconfigured cloud provider", func(t *testing.T) {
		// Arrange
		registry := NewRegistry(RegistryOptions{})

		// Act
		gateway, err := registry.Gateway(ProviderOpenAI)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, gateway)
		assert.Contains(t, err.Error(), "not configured")
	})

	t.Run("should reject an unknown provider name", func(t *testing.T) {
		// Arrange
		registry := NewRegistry(RegistryOptions{})

		// Act
		gateway, err := registry.Gateway(Provider("mystery"))

		// Assert
		assert.Error(t, err)
		assert.Nil(t, gateway)
		assert.Contains(t, err.Error(), "unknown inference provider")
	})
}
