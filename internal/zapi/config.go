package zapi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AuthMode selects how requests are authenticated.
type AuthMode string

const (
	// AuthJWT signs every request with a query-string-hash JWT built from
	// Zephyr access and secret keys.
	AuthJWT AuthMode = "jwt"
	// AuthToken sends a static Zephyr Scale API token as a bearer token.
	AuthToken AuthMode = "token"
)

const (
	DefaultJWTBaseURL   = "https://prod-api.zephyr4jiracloud.com/v2"
	DefaultTokenBaseURL = "https://api.zephyrscale.smartbear.com/v2"

	// MaxPageSize is the largest maxResults value the API accepts.
	MaxPageSize = 100
)

// Config holds everything needed to talk to the Zephyr API.
type Config struct {
	AuthMode       AuthMode `yaml:"auth_mode"`
	BaseURL        string   `yaml:"base_url"`
	AccountID      string   `yaml:"account_id"`
	AccessKey      string   `yaml:"access_key"`
	SecretKey      string   `yaml:"secret_key"`
	APIToken       string   `yaml:"api_token"`
	TimeoutMs      int      `yaml:"timeout_ms"`
	MaxRetries     int      `yaml:"max_retries"`
	RetryBackoffMs int      `yaml:"retry_backoff_ms"`
	JWTTTLSec      int      `yaml:"jwt_ttl_sec"`
	PageSize       int      `yaml:"page_size"`
	ReadOnly       bool     `yaml:"read_only"`
	LogCalls       bool     `yaml:"log_calls"`
	DBPath         string   `yaml:"db_path"`
}

// DefaultConfig returns a Config with sensible defaults and no credentials.
func DefaultConfig() Config {
	return Config{
		TimeoutMs:      15000,
		MaxRetries:     2,
		RetryBackoffMs: 250,
		JWTTTLSec:      3600,
		PageSize:       50,
	}
}

// LoadConfig builds the configuration from defaults, then the optional YAML
// profile (ZSCALE_CONFIG or ~/.zscale/config.yaml), then environment
// variables. Credentials are not checked here; call Validate before making
// API calls.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path, explicit := configFilePath()
	if path != "" {
		if err := loadConfigFile(&cfg, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		}
	}

	applyEnv(&cfg)
	cfg.resolve()
	return cfg, nil
}

func configFilePath() (string, bool) {
	if v := os.Getenv("ZSCALE_CONFIG"); v != "" {
		return v, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".zscale", "config.yaml"), false
}

func loadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ZSCALE_AUTH_MODE"); v != "" {
		cfg.AuthMode = AuthMode(strings.ToLower(v))
	}
	if v := os.Getenv("ZAPI_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ZAPI_ACCOUNT_ID"); v != "" {
		cfg.AccountID = v
	} else if v := os.Getenv("JIRA_USERNAME"); v != "" {
		cfg.AccountID = v
	}
	if v := os.Getenv("ZAPI_ACCESS_KEY"); v != "" {
		cfg.AccessKey = v
	}
	if v := os.Getenv("ZAPI_SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}
	if v := os.Getenv("ZEPHYR_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("ZSCALE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("ZSCALE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("ZSCALE_RETRY_BACKOFF_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RetryBackoffMs = n
		}
	}
	if v := os.Getenv("ZSCALE_JWT_TTL_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.JWTTTLSec = n
		}
	}
	if v := os.Getenv("ZSCALE_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxPageSize {
			cfg.PageSize = n
		}
	}
	if v := os.Getenv("READ_ONLY_MODE"); v != "" {
		cfg.ReadOnly = isTruthy(v)
	}
	if v := os.Getenv("ZSCALE_LOG_CALLS"); v != "" {
		cfg.LogCalls = isTruthy(v)
	}
	if v := os.Getenv("ZSCALE_DB"); v != "" {
		cfg.DBPath = v
	}
}

// isTruthy accepts the strconv booleans plus "yes"/"y"/"on".
func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "on":
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// resolve fills in values derived from other settings.
func (c *Config) resolve() {
	if c.AuthMode == "" {
		if c.AccessKey != "" || c.APIToken == "" {
			c.AuthMode = AuthJWT
		} else {
			c.AuthMode = AuthToken
		}
	}
	if c.BaseURL == "" {
		if c.AuthMode == AuthToken {
			c.BaseURL = DefaultTokenBaseURL
		} else {
			c.BaseURL = DefaultJWTBaseURL
		}
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.PageSize <= 0 || c.PageSize > MaxPageSize {
		c.PageSize = DefaultConfig().PageSize
	}
}

// Validate reports missing credentials for the selected auth mode.
func (c Config) Validate() error {
	switch c.AuthMode {
	case AuthJWT:
		var missing []string
		if c.AccountID == "" {
			missing = append(missing, "ZAPI_ACCOUNT_ID (or JIRA_USERNAME)")
		}
		if c.AccessKey == "" {
			missing = append(missing, "ZAPI_ACCESS_KEY")
		}
		if c.SecretKey == "" {
			missing = append(missing, "ZAPI_SECRET_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s required for jwt auth", ErrMissingCredentials, strings.Join(missing, ", "))
		}
	case AuthToken:
		if c.APIToken == "" {
			return fmt.Errorf("%w: ZEPHYR_API_TOKEN required for token auth", ErrMissingCredentials)
		}
	default:
		return fmt.Errorf("unknown auth mode %q (want %q or %q)", c.AuthMode, AuthJWT, AuthToken)
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base URL %q must start with http:// or https://", c.BaseURL)
	}
	return nil
}
