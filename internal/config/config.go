package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds application configuration.
type Config struct {
	Provider              string `json:"provider"` // gemini, groq, or vertex
	GeminiAPIKey          string `json:"gemini_api_key"`
	GroqAPIKey            string `json:"groq_api_key"`
	Model                 string `json:"model"`
	GoogleCloudProject    string `json:"google_cloud_project"`
	GoogleCloudLocation   string `json:"google_cloud_location"`
	GoogleCredentialsPath string `json:"google_credentials_path"`
	GmailCredentialsPath  string `json:"gmail_credentials_path"`
	UploadsDir            string `json:"uploads_dir"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	JSONLogs              bool   `json:"json_logs"`
	Debug                 bool   `json:"debug"`
}

// DefaultConfig returns a new config with default values.
func DefaultConfig() *Config {
	return &Config{
		Provider:              "gemini",
		GoogleCloudLocation:   "us-central1",
		UploadsDir:            "uploads",
		RequestTimeoutSeconds: 60,
	}
}

// GetConfigPath returns the path to the configuration file.
// On Windows: %APPDATA%/ScreeningAgent/config.json
// On Unix: ~/.config/ScreeningAgent/config.json
func GetConfigPath() (string, error) {
	var configDir string

	if os.Getenv("APPDATA") != "" {
		// Windows
		configDir = filepath.Join(os.Getenv("APPDATA"), "ScreeningAgent")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "ScreeningAgent")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load loads configuration from the default config path, then applies
// environment overrides on top.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadFrom loads configuration from a specific path. A missing file yields
// the defaults rather than an error.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// applyEnvOverrides lets environment variables win over file values so the
// agent can run with no config file at all.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		c.GroqAPIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		c.GoogleCloudProject = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_LOCATION"); v != "" {
		c.GoogleCloudLocation = v
	}
	if v := os.Getenv("UPLOADS_DIR"); v != "" {
		c.UploadsDir = v
	}
}

// Save saves the configuration to the default config path.
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveTo(configPath)
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case "gemini", "":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("gemini_api_key is required for the gemini provider")
		}
	case "groq":
		if c.GroqAPIKey == "" {
			return fmt.Errorf("groq_api_key is required for the groq provider")
		}
	case "vertex":
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("google_cloud_project is required for the vertex provider")
		}
		if c.GoogleCloudLocation == "" {
			return fmt.Errorf("google_cloud_location is required for the vertex provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}

	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}

	if c.GoogleCredentialsPath != "" {
		if _, err := os.Stat(c.GoogleCredentialsPath); err != nil {
			return fmt.Errorf("google credentials file not found: %w", err)
		}
	}

	if c.GmailCredentialsPath != "" {
		if _, err := os.Stat(c.GmailCredentialsPath); err != nil {
			return fmt.Errorf("gmail credentials file not found: %w", err)
		}
	}

	return nil
}

// RequestTimeout returns the configured per-call timeout for external
// model and extraction calls.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ApplyToEnv applies configuration values to environment variables consumed
// by the Google SDKs.
func (c *Config) ApplyToEnv() {
	if c.GoogleCloudProject != "" {
		os.Setenv("GOOGLE_CLOUD_PROJECT", c.GoogleCloudProject)
	}
	if c.GoogleCloudLocation != "" {
		os.Setenv("GOOGLE_CLOUD_LOCATION", c.GoogleCloudLocation)
	}
	if c.GoogleCredentialsPath != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", c.GoogleCredentialsPath)
	}
}
