package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the server and CLI commands.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Fetch  FetchConfig  `yaml:"fetch"`
	LLM    LLMConfig    `yaml:"llm"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	BasePath       string        `yaml:"base_path"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
}

// StoreConfig selects the SummaryStore backend. Path is used by sqlite,
// URI/Database/Collection by mongo.
type StoreConfig struct {
	Driver     string `yaml:"driver"`
	Path       string `yaml:"path"`
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// FetchConfig controls page fetching and text extraction.
type FetchConfig struct {
	Mode         string        `yaml:"mode"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	UserAgent    string        `yaml:"user_agent"`
	CacheDir     string        `yaml:"cache_dir"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

type LLMConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	MaxTokens int    `yaml:"max_tokens"`
	BaseURL   string `yaml:"base_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	FetchModeBody        = "body"
	FetchModeReadability = "readability"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the variable's value. Unset variables
// are left as written.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyEnv fills fields still unset after YAML decoding from well-known
// environment variables.
func applyEnv(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case ProviderAnthropic:
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case ProviderGemini, "":
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if cfg.Store.URI == "" {
		cfg.Store.URI = os.Getenv("MONGO_URI")
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = os.Getenv("SUMMARIZER_DB")
	}
	if cfg.Server.Addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Server.Addr = ":" + port
		}
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Server.ShutdownGrace == 0 {
		cfg.Server.ShutdownGrace = 5 * time.Second
	}
	cfg.Server.BasePath = strings.TrimSuffix(cfg.Server.BasePath, "/")

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreSQLite
	}
	if cfg.Store.Driver == StoreMongo {
		if cfg.Store.Database == "" {
			cfg.Store.Database = "summarizer"
		}
		if cfg.Store.Collection == "" {
			cfg.Store.Collection = "summaries"
		}
	}

	if cfg.Fetch.Mode == "" {
		cfg.Fetch.Mode = FetchModeBody
	}
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 30 * time.Second
	}
	if cfg.Fetch.MaxBodyBytes == 0 {
		cfg.Fetch.MaxBodyBytes = 10 << 20
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "web-summarizer/1.0"
	}
	if cfg.Fetch.CacheDir != "" && cfg.Fetch.CacheTTL == 0 {
		cfg.Fetch.CacheTTL = time.Hour
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderGemini
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case ProviderGemini:
			cfg.LLM.Model = "gemini-2.5-flash"
		case ProviderAnthropic:
			cfg.LLM.Model = "claude-haiku-4-5"
		}
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1024
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

func validate(cfg *Config) error {
	switch cfg.Store.Driver {
	case StoreSQLite, StoreMemory:
	case StoreMongo:
		if cfg.Store.URI == "" {
			return fmt.Errorf("config: store.uri is required for the mongo driver (set MONGO_URI)")
		}
	default:
		return fmt.Errorf("config: unsupported store driver %q (supported: sqlite, mongo, memory)", cfg.Store.Driver)
	}
	switch cfg.Fetch.Mode {
	case FetchModeBody, FetchModeReadability:
	default:
		return fmt.Errorf("config: unsupported fetch mode %q (supported: body, readability)", cfg.Fetch.Mode)
	}
	if cfg.Fetch.Timeout < 0 {
		return fmt.Errorf("config: fetch.timeout must not be negative")
	}
	if cfg.Fetch.MaxBodyBytes < 0 {
		return fmt.Errorf("config: fetch.max_body_bytes must not be negative")
	}
	switch cfg.LLM.Provider {
	case ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("config: unsupported llm provider %q (supported: gemini, anthropic)", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens < 0 {
		return fmt.Errorf("config: llm.max_tokens must not be negative")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("config: unsupported log format %q (supported: json, text)", cfg.Log.Format)
	}
	return nil
}

// LoadConfig reads the YAML file at path, expands ${VAR} references, fills
// unset fields from the environment, applies defaults and validates. A
// missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	applyEnv(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate re-checks cfg after callers override fields (for example from
// command-line flags).
func (c *Config) Validate() error {
	return validate(c)
}
