package core

import (
	"errors"
	"testing"
	"time"
)

// clearConfigEnv blanks every variable LoadConfig reads so tests see a
// clean environment regardless of the host shell.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "IMAGE_LLM_URL", "OPENAI_IMAGE_MODEL",
		"HOST", "IMAGE_SERVICE_PORT", "AD_SERVICE_PORT",
		"IMAGE_DB_PATH", "AD_DB_PATH",
		"AI_TIMEOUT_SECONDS", "DEFAULT_IMAGE_SIZE", "HISTORY_LIMIT",
		"ALLOW_SELF_SIGNED_CERTS", "LOG_FILE", "DEV_MODE",
	} {
		t.Setenv(key, "")
	}
}

// TestLoadConfig_Defaults tests that an empty environment yields the
// documented defaults and mock mode.
func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ImagePort != DefaultImagePort {
		t.Errorf("ImagePort = %d, want %d", cfg.ImagePort, DefaultImagePort)
	}
	if cfg.AdPort != DefaultAdPort {
		t.Errorf("AdPort = %d, want %d", cfg.AdPort, DefaultAdPort)
	}
	if cfg.ImageLLMURL != DefaultImageLLMURL {
		t.Errorf("ImageLLMURL = %q, want %q", cfg.ImageLLMURL, DefaultImageLLMURL)
	}
	if cfg.OpenAIImageModel != DefaultImageModel {
		t.Errorf("OpenAIImageModel = %q, want %q", cfg.OpenAIImageModel, DefaultImageModel)
	}
	if cfg.DefaultImageSize != DefaultSizeSpec {
		t.Errorf("DefaultImageSize = %q, want %q", cfg.DefaultImageSize, DefaultSizeSpec)
	}
	if cfg.AITimeout != 120*time.Second {
		t.Errorf("AITimeout = %v, want 120s", cfg.AITimeout)
	}
	if !cfg.MockMode() {
		t.Error("MockMode() = false without an API key, want true")
	}
}

// TestLoadConfig_Overrides tests that environment variables take effect.
func TestLoadConfig_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test-key-for-config-loading")
	t.Setenv("IMAGE_SERVICE_PORT", "9100")
	t.Setenv("AD_SERVICE_PORT", "9200")
	t.Setenv("IMAGE_DB_PATH", "/tmp/test-images.db")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ImagePort != 9100 || cfg.AdPort != 9200 {
		t.Errorf("ports = %d/%d, want 9100/9200", cfg.ImagePort, cfg.AdPort)
	}
	if cfg.ImageDBPath != "/tmp/test-images.db" {
		t.Errorf("ImageDBPath = %q", cfg.ImageDBPath)
	}
	if cfg.MockMode() {
		t.Error("MockMode() = true with an API key, want false")
	}
}

// TestLoadConfig_InvalidPorts tests port validation failures.
func TestLoadConfig_InvalidPorts(t *testing.T) {
	tests := []struct {
		name      string
		imagePort string
		adPort    string
	}{
		{"image port out of range", "99999", "8002"},
		{"ad port out of range", "8001", "0"},
		{"ports collide", "8005", "8005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv("IMAGE_SERVICE_PORT", tt.imagePort)
			t.Setenv("AD_SERVICE_PORT", tt.adPort)

			_, err := LoadConfig()
			if err == nil {
				t.Fatal("LoadConfig() error = nil, want validation error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("LoadConfig() error type = %T, want *ConfigError", err)
			}
		})
	}
}

// TestGetHTTPClient tests TLS policy selection.
func TestGetHTTPClient(t *testing.T) {
	strict := GetHTTPClient(&Config{}, 10*time.Second)
	if strict.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", strict.Timeout)
	}
	if strict.Transport != nil {
		t.Error("strict client has custom transport, want default")
	}

	lax := GetHTTPClient(&Config{AllowSelfSignedCerts: true}, 10*time.Second)
	if lax.Transport == nil {
		t.Error("self-signed client has no custom transport")
	}
}
