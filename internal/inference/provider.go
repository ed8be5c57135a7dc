package inference

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Provider identifies one of the interchangeable inference backends
type Provider string

const (
	// ProviderOllama is the local inference daemon
	ProviderOllama Provider = "ollama"
	// ProviderOpenAI is the OpenAI chat completions API
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic messages API
	ProviderAnthropic Provider = "anthropic"
)

// RegistryOptions carries the credentials and endpoints the registry
// resolves providers from
type RegistryOptions struct {
	OllamaEndpoint    string
	OpenAIAPIKey      string
	OpenAIEndpoint    string
	AnthropicAPIKey   string
	AnthropicEndpoint string
}

// Registry resolves the available providers once at startup into a
// capability set. The local daemon is always constructible; cloud providers
// require their credential. Selecting an unavailable provider is a
// configuration error, never retried.
type Registry struct {
	transports map[Provider]transport
	logger     *zap.Logger
}

// NewRegistry creates a Registry from the given options
func NewRegistry(opts RegistryOptions) *Registry {
	return NewRegistryWithLogger(opts, nil)
}

// NewRegistryWithLogger creates a Registry from the given options and logger
func NewRegistryWithLogger(opts RegistryOptions, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	transports := map[Provider]transport{
		ProviderOllama: newOllamaTransport(opts.OllamaEndpoint, logger),
	}
	if opts.OpenAIAPIKey != "" {
		transports[ProviderOpenAI] = newOpenAITransport(opts.OpenAIAPIKey, opts.OpenAIEndpoint, logger)
	}
	if opts.AnthropicAPIKey != "" {
		transports[ProviderAnthropic] = newAnthropicTransport(opts.AnthropicAPIKey, opts.AnthropicEndpoint, logger)
	}

	registry := &Registry{transports: transports, logger: logger}

	logger.Info("inference providers resolved",
		zap.Strings("available", providerNames(registry.Available())))

	return registry
}

// Available returns the resolved provider capability set
func (r *Registry) Available() []Provider {
	providers := make([]Provider, 0, len(r.transports))
	for p := range r.transports {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}

// Has reports whether the provider was resolved at startup
func (r *Registry) Has(provider Provider) bool {
	_, ok := r.transports[provider]
	return ok
}

// Gateway returns a Gateway bound to the given provider, or a configuration
// error when the provider is unknown or missing its credential
func (r *Registry) Gateway(provider Provider) (*Gateway, error) {
	switch provider {
	case ProviderOllama, ProviderOpenAI, ProviderAnthropic:
	default:
		return nil, fmt.Errorf("unknown inference provider: %q", provider)
	}

	t, ok := r.transports[provider]
	if !ok {
		return nil, fmt.Errorf("inference provider %q is not configured (missing API key)", provider)
	}

	return &Gateway{provider: provider, transport: t, logger: r.logger}, nil
}

func providerNames(providers []Provider) []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, string(p))
	}
	return names
}
