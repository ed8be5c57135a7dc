package inference

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Request is one generation request through the gateway
type Request struct {
	Model   string
	Prompt  string
	Timeout time.Duration
}

// transport is one concrete provider implementation
type transport interface {
	generate(ctx context.Context, req Request) (string, error)
}

// Gateway is the uniform call contract over the interchangeable providers.
// It applies the bounded per-call timeout and performs no retries; retry
// policy lives in the pipeline controller. Transport failures and non-2xx
// statuses come back as an error with empty text, so callers apply the same
// retry logic regardless of provider.
type Gateway struct {
	provider  Provider
	transport transport
	logger    *zap.Logger
}

// Provider returns the provider this gateway dispatches to
func (g *Gateway) Provider() Provider {
	return g.provider
}

// Generate issues one blocking generation request. The call either returns
// text or fails within the request timeout; it never blocks indefinitely.
func (g *Gateway) Generate(ctx context.Context, req Request) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	started := time.Now()
	text, err := g.transport.generate(ctx, req)
	if err != nil {
		g.logger.Warn("inference request failed",
			zap.String("provider", string(g.provider)),
			zap.String("model", req.Model),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		return "", err
	}

	g.logger.Debug("inference request completed",
		zap.String("provider", string(g.provider)),
		zap.String("model", req.Model),
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("response_length", len(text)))

	return text, nil
}
