package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// serverProbeTimeout bounds the reachability check against the daemon
	serverProbeTimeout = 5 * time.Second
	// DefaultModelProbeTimeout bounds the minimal generation request; large
	// local models can take minutes to load
	DefaultModelProbeTimeout = 5 * time.Minute
)

// Probe performs the two-step availability check against the local ollama
// daemon: confirm the server is reachable and the model is installed, then
// issue a minimal real generation request so "server down" and "model fails
// to load" stay distinguishable in the logs. It reports a boolean and never
// returns an error.
type Probe struct {
	endpoint     string
	modelTimeout time.Duration
	client       *http.Client
	logger       *zap.Logger
}

// NewProbe creates a Probe against the given ollama endpoint
func NewProbe(endpoint string) *Probe {
	return NewProbeWithLogger(endpoint, DefaultModelProbeTimeout, nil)
}

// NewProbeWithLogger creates a Probe with the given generation budget and logger
func NewProbeWithLogger(endpoint string, modelTimeout time.Duration, logger *zap.Logger) *Probe {
	if endpoint == "" {
		endpoint = DefaultOllamaEndpoint
	}
	if modelTimeout <= 0 {
		modelTimeout = DefaultModelProbeTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Probe{
		endpoint:     strings.TrimRight(endpoint, "/"),
		modelTimeout: modelTimeout,
		client:       &http.Client{},
		logger:       logger,
	}
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// CheckModel reports whether the model is installed and able to respond.
// The two steps keep "server down" and "model fails to load" apart in the
// logs for diagnostic purposes.
func (p *Probe) CheckModel(ctx context.Context, model string) bool {
	p.logger.Info("checking model availability",
		zap.String("endpoint", p.endpoint),
		zap.String("model", model))

	names, ok := p.listModels(ctx)
	if !ok {
		return false
	}

	listed := false
	for _, name := range names {
		if name == model || name == model+":latest" {
			listed = true
			break
		}
	}
	if !listed {
		p.logger.Error("model not found in ollama model list",
			zap.String("model", model),
			zap.Strings("available_models", names))
		return false
	}

	p.logger.Info("model found in ollama model list", zap.String("model", model))
	return p.modelResponds(ctx, model)
}

// ServerReachable reports whether the daemon answers at all
func (p *Probe) ServerReachable(ctx context.Context) bool {
	_, ok := p.listModels(ctx)
	return ok
}

// listModels fetches the installed model names from the daemon
func (p *Probe) listModels(ctx context.Context) ([]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, serverProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/api/tags", nil)
	if err != nil {
		p.logger.Error("failed to build tags request", zap.Error(err))
		return nil, false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("cannot connect to ollama server",
			zap.String("endpoint", p.endpoint),
			zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Error("ollama server returned unexpected status",
			zap.Int("status", resp.StatusCode))
		return nil, false
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		p.logger.Error("failed to decode ollama tags response", zap.Error(err))
		return nil, false
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, true
}

// modelResponds issues a minimal generation request so a model that exists
// but fails to load is caught before the long analysis begins
func (p *Probe) modelResponds(ctx context.Context, model string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.modelTimeout)
	defer cancel()

	payload := ollamaGenerateRequest{
		Model:  model,
		Prompt: "Ready.",
		Stream: false,
		Options: map[string]interface{}{
			"num_predict": 5,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal probe request", zap.Error(err))
		return false
	}

	started := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		p.logger.Error("failed to build probe request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("model failed to respond within probe budget",
			zap.String("model", model),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Error("model probe returned unexpected status",
			zap.String("model", model),
			zap.Int("status", resp.StatusCode))
		return false
	}

	p.logger.Info("model is available and responding",
		zap.String("model", model),
		zap.Duration("elapsed", time.Since(started)))
	return true
}
