package imagegen

import (
	"context"
	"fmt"

	"adgen_backend/core"

	"github.com/sashabaranov/go-openai"
)

// Provider is the interface for remote image generation backends.
//
// Generate takes a fully composed prompt and returns raw PNG bytes. The
// service layer treats any error as a degraded upstream and falls back to
// the mock renderer; providers should not retry internally.
type Provider interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// OpenAIProvider implements Provider against the OpenAI image API.
//
// It requests the image content inline (b64_json response format) so a
// single call yields the bytes directly, with no temporary URL to download.
//
// Thread safety: OpenAIProvider is safe for concurrent use; the underlying
// client handles connection pooling.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider from the process configuration.
//
// Returns an error if the API key is empty - callers decide mock mode
// before constructing a provider, so an empty key here is a wiring bug.
func NewOpenAIProvider(cfg *core.Config) (*OpenAIProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("imagegen: OpenAI API key is required for remote generation")
	}

	endpoint := cfg.ImageLLMURL
	if endpoint == "" {
		endpoint = core.DefaultImageLLMURL
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	clientConfig.BaseURL = endpoint
	clientConfig.HTTPClient = core.GetHTTPClient(cfg, cfg.AITimeout)

	model := cfg.OpenAIImageModel
	if model == "" {
		model = core.DefaultImageModel
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Generate creates an image from the given prompt.
//
// Exactly one remote invocation is attempted; there is no retry policy.
// The response is validated and normalized to PNG bytes.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if prompt == "" {
		return nil, fmt.Errorf("imagegen: prompt cannot be empty")
	}

	req := openai.ImageRequest{
		Prompt:         prompt,
		Model:          p.model,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		N:              1,
	}

	// Style parameter is only supported by DALL-E 3
	if p.model == "dall-e-3" {
		req.Style = openai.CreateImageStyleVivid
	}

	response, err := p.client.CreateImage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("imagegen: remote image generation failed: %w", err)
	}

	if len(response.Data) == 0 {
		return nil, fmt.Errorf("imagegen: provider returned empty data array")
	}
	if response.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("imagegen: provider returned empty image payload")
	}

	raw, err := DecodeImageBase64(response.Data[0].B64JSON)
	if err != nil {
		return nil, err
	}

	normalized, err := NormalizePNG(raw)
	if err != nil {
		return nil, fmt.Errorf("imagegen: provider returned undecodable image: %w", err)
	}

	return normalized, nil
}

// Model returns the configured image model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Ensure OpenAIProvider implements Provider at compile time.
var _ Provider = (*OpenAIProvider)(nil)
