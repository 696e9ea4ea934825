package imagegen

import (
	"context"
	"fmt"

	"adgen_backend/logging"
)

// Service mode values reported on health endpoints.
const (
	// ModeReady indicates a remote provider is configured and will be
	// attempted first for every generation.
	ModeReady = "ready"
	// ModeMock indicates no remote provider is available; every request
	// is served by the local renderer.
	ModeMock = "mock_mode"
)

// Service orchestrates image generation with automatic fallback.
//
// Every call first attempts the remote provider (when one is configured)
// and falls back to the local mock renderer on any upstream failure, so
// callers always receive a valid image or a hard error. A nil provider
// puts the service in permanent mock mode.
//
// Thread safety: Service is immutable after construction and safe for
// concurrent use.
type Service struct {
	provider Provider
	renderer *MockRenderer
	model    string
	logger   *logging.Logger
}

// NewService creates a generation service.
//
// provider may be nil, in which case the service runs in mock mode and
// never touches the network. model is recorded for health reporting only.
func NewService(provider Provider, model string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		provider: provider,
		renderer: NewMockRenderer(),
		model:    model,
		logger:   logger,
	}
}

// Generate produces an image for the given prompt and returns it as a
// base64-encoded PNG.
//
// label is the text drawn on the fallback image; it is usually the raw
// user prompt rather than the enhanced one, so the placeholder reflects
// what the user typed. An empty label falls back to a generic caption.
//
// Remote failures are absorbed: the error is logged and the mock renderer
// takes over. Only a mock rendering failure surfaces as an error, since at
// that point there is nothing left to serve.
func (s *Service) Generate(ctx context.Context, prompt, label string) (string, error) {
	if s.provider != nil {
		raw, err := s.provider.Generate(ctx, prompt)
		if err == nil {
			return EncodeImageBase64(raw), nil
		}
		s.logger.Warnw("Remote image generation failed, using mock fallback",
			"error", err.Error(),
			"model", s.model,
		)
	}

	raw, err := s.renderer.Render(label)
	if err != nil {
		return "", fmt.Errorf("imagegen: mock rendering failed: %w", err)
	}
	return EncodeImageBase64(raw), nil
}

// Mode reports the current service mode for health endpoints.
func (s *Service) Mode() string {
	if s.provider == nil {
		return ModeMock
	}
	return ModeReady
}

// Model returns the configured image model name.
func (s *Service) Model() string {
	return s.model
}
