package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "uploads", cfg.UploadsDir)
	assert.Equal(t, 60, cfg.RequestTimeoutSeconds)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.Provider = "groq"
	cfg.GroqAPIKey = "gsk-test"
	cfg.Model = "llama-3.3-70b-versatile"
	cfg.RequestTimeoutSeconds = 30
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFrom_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("GROQ_API_KEY", "gsk-env")
	t.Setenv("UPLOADS_DIR", "/tmp/resumes")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "groq", cfg.Provider)
	assert.Equal(t, "gsk-env", cfg.GroqAPIKey)
	assert.Equal(t, "/tmp/resumes", cfg.UploadsDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"gemini ok", func(c *Config) { c.GeminiAPIKey = "key" }, ""},
		{"gemini missing key", func(c *Config) {}, "gemini_api_key is required"},
		{"groq missing key", func(c *Config) { c.Provider = "groq" }, "groq_api_key is required"},
		{"vertex missing project", func(c *Config) { c.Provider = "vertex" }, "google_cloud_project is required"},
		{"vertex ok", func(c *Config) {
			c.Provider = "vertex"
			c.GoogleCloudProject = "proj"
		}, ""},
		{"unknown provider", func(c *Config) { c.Provider = "openai" }, "unknown provider"},
		{"bad timeout", func(c *Config) {
			c.GeminiAPIKey = "key"
			c.RequestTimeoutSeconds = 0
		}, "request_timeout_seconds must be positive"},
		{"missing credentials file", func(c *Config) {
			c.GeminiAPIKey = "key"
			c.GmailCredentialsPath = "/does/not/exist.json"
		}, "gmail credentials file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout())

	cfg.RequestTimeoutSeconds = 15
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())

	cfg.RequestTimeoutSeconds = -1
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout())
}
