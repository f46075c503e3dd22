// Package common holds the setup shared by every CLI action: configuration,
// logging and the store and service graph.
package common

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dtnitsch/web-summarizer/models"
	"github.com/urfave/cli/v2"
)

// LoadConfig reads the env file and config file named by the global flags
// and applies flag overrides.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	if err := models.LoadEnvFile(c.String("env-file")); err != nil {
		return nil, err
	}

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.Bool("verbose") {
		cfg.Log.Level = "debug"
	}
	if c.Bool("quiet") {
		cfg.Log.Level = "error"
	}
	if c.IsSet("store") {
		cfg.Store.Driver = c.String("store")
	}
	if c.IsSet("db") {
		cfg.Store.Path = c.String("db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewLogger builds the process logger. Output goes to w, stderr when nil.
func NewLogger(cfg models.LogConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
