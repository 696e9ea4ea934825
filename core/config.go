package core

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"
)

// Config holds all configuration values for both services.
//
// The struct is populated once by LoadConfig at startup and treated as
// read-only afterwards. Every layer that needs configuration receives it
// by injection; nothing reads environment variables after startup.
type Config struct {
	// AI provider configuration (all optional - absence means mock mode)
	OpenAIAPIKey     string // API key for the image model provider
	ImageLLMURL      string // API endpoint for image generation
	OpenAIImageModel string // Image model identifier

	// HTTP server configuration
	Host      string // Bind address for both services
	ImagePort int    // Port for the generic image service
	AdPort    int    // Port for the ad creative service

	// Storage configuration - each service owns an independent database
	ImageDBPath string // SQLite file backing the image service
	AdDBPath    string // SQLite file backing the ad service

	// Request handling
	AITimeout            time.Duration // Timeout for a single remote model call
	DefaultImageSize     string        // Size recorded when the request omits one
	HistoryLimit         int           // Default page size for image history
	AllowSelfSignedCerts bool          // Skip TLS verification for the provider endpoint

	// Logging
	LogFile string // Path to the rotating log file
	DevMode bool   // Human-readable console logging when true
}

// Default configuration values.
const (
	DefaultImageLLMURL  = "https://api.openai.com/v1"
	DefaultImageModel   = "dall-e-3"
	DefaultImagePort    = 8001
	DefaultAdPort       = 8002
	DefaultHistoryLimit = 50
	DefaultSizeSpec     = "512x512"
)

// LoadConfig reads configuration from environment variables and applies
// defaults. Call godotenv.Load before this so .env values are visible.
//
// An empty OPENAI_API_KEY is not an error: the AI service then runs in
// mock mode for the lifetime of the process.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		OpenAIAPIKey:     GetEnvOrDefault("OPENAI_API_KEY", ""),
		ImageLLMURL:      GetEnvOrDefault("IMAGE_LLM_URL", DefaultImageLLMURL),
		OpenAIImageModel: GetEnvOrDefault("OPENAI_IMAGE_MODEL", DefaultImageModel),

		Host:      GetEnvOrDefault("HOST", "0.0.0.0"),
		ImagePort: ParseIntEnv("IMAGE_SERVICE_PORT", DefaultImagePort),
		AdPort:    ParseIntEnv("AD_SERVICE_PORT", DefaultAdPort),

		ImageDBPath: GetEnvOrDefault("IMAGE_DB_PATH", "data/images.db"),
		AdDBPath:    GetEnvOrDefault("AD_DB_PATH", "data/ads.db"),

		AITimeout:            ParseDurationEnv("AI_TIMEOUT_SECONDS", 120),
		DefaultImageSize:     GetEnvOrDefault("DEFAULT_IMAGE_SIZE", DefaultSizeSpec),
		HistoryLimit:         ParseIntEnv("HISTORY_LIMIT", DefaultHistoryLimit),
		AllowSelfSignedCerts: ParseBoolEnv("ALLOW_SELF_SIGNED_CERTS", false),

		LogFile: GetEnvOrDefault("LOG_FILE", "app.log"),
		DevMode: ParseBoolEnv("DEV_MODE", false),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks invariants that would make the process unusable.
func (c *Config) validate() error {
	if c.ImagePort < 1 || c.ImagePort > 65535 {
		return ErrInvalidPort("IMAGE_SERVICE_PORT", c.ImagePort)
	}
	if c.AdPort < 1 || c.AdPort > 65535 {
		return ErrInvalidPort("AD_SERVICE_PORT", c.AdPort)
	}
	if c.ImagePort == c.AdPort {
		return &ConfigError{
			Code:    ErrCodeInvalidPort,
			Message: fmt.Sprintf("IMAGE_SERVICE_PORT and AD_SERVICE_PORT are both %d", c.ImagePort),
			Action:  "Configure distinct ports for the two services",
		}
	}
	if c.ImageDBPath == "" || c.AdDBPath == "" {
		return ErrMissingConfig("IMAGE_DB_PATH / AD_DB_PATH")
	}
	if c.HistoryLimit < 1 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	return nil
}

// MockMode reports whether the process will run without a remote model.
func (c *Config) MockMode() bool {
	return c.OpenAIAPIKey == ""
}

// GetHTTPClient returns an HTTP client configured with TLS settings based on
// AllowSelfSignedCerts. All requests to the remote model provider go through
// a client built here so the TLS policy is applied consistently.
func GetHTTPClient(cfg *Config, timeout time.Duration) *http.Client {
	client := &http.Client{
		Timeout: timeout,
	}

	if cfg.AllowSelfSignedCerts {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return client
}
