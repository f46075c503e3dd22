package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "MONGO_URI", "SUMMARIZER_DB", "PORT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Addr != ":5000" {
		t.Errorf("Server.Addr = %q, want :5000", cfg.Server.Addr)
	}
	if cfg.Server.BasePath != "" {
		t.Errorf("Server.BasePath = %q, want empty", cfg.Server.BasePath)
	}
	if cfg.Store.Driver != StoreSQLite {
		t.Errorf("Store.Driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.Fetch.Mode != FetchModeBody || cfg.Fetch.Timeout != 30*time.Second || cfg.Fetch.MaxBodyBytes != 10<<20 {
		t.Errorf("Fetch = %+v", cfg.Fetch)
	}
	if cfg.LLM.Provider != ProviderGemini || cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_MONGO_HOST", "db.internal")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	path := writeConfig(t, `
server:
  addr: ":8080"
  base_path: "/api/"
  shutdown_grace: 10s
store:
  driver: mongo
  uri: "mongodb://${TEST_MONGO_HOST}:27017"
fetch:
  mode: readability
  cache_dir: /tmp/cache
llm:
  provider: anthropic
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" || cfg.Server.BasePath != "/api" || cfg.Server.ShutdownGrace != 10*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Store.URI != "mongodb://db.internal:27017" {
		t.Errorf("Store.URI = %q", cfg.Store.URI)
	}
	if cfg.Store.Database != "summarizer" || cfg.Store.Collection != "summaries" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Fetch.CacheTTL != time.Hour {
		t.Errorf("Fetch.CacheTTL = %v, want 1h", cfg.Fetch.CacheTTL)
	}
	if cfg.LLM.APIKey != "sk-test" || cfg.LLM.Model != "claude-haiku-4-5" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
}

func TestLoadConfig_PortEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "bad yaml", body: "server: [", want: "failed to parse"},
		{name: "bad driver", body: "store:\n  driver: redis\n", want: "unsupported store driver"},
		{name: "mongo without uri", body: "store:\n  driver: mongo\n", want: "store.uri is required"},
		{name: "bad mode", body: "fetch:\n  mode: pdf\n", want: "unsupported fetch mode"},
		{name: "bad provider", body: "llm:\n  provider: openai\n", want: "unsupported llm provider"},
		{name: "bad level", body: "log:\n  level: loud\n", want: "unsupported log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("LoadConfig() expected error")
			}
			if !strings.HasPrefix(err.Error(), "config:") || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %q, want config: ... %s", err, tt.want)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("LoadEnvFile(missing) error = %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SUMMARIZER_TEST_VAR=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SUMMARIZER_TEST_VAR", "")
	os.Unsetenv("SUMMARIZER_TEST_VAR")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("SUMMARIZER_TEST_VAR"); got != "from-file" {
		t.Errorf("SUMMARIZER_TEST_VAR = %q, want from-file", got)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SUMMARIZER_SET", "value")
	os.Unsetenv("SUMMARIZER_UNSET")

	if got := expandEnvVars("a ${SUMMARIZER_SET} b"); got != "a value b" {
		t.Errorf("expandEnvVars() = %q", got)
	}
	if got := expandEnvVars("${SUMMARIZER_UNSET}"); got != "${SUMMARIZER_UNSET}" {
		t.Errorf("expandEnvVars() = %q, want placeholder kept", got)
	}
}
