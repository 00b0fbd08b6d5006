package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/addrnorm/pkg/address"
	"github.com/hazyhaar/addrnorm/pkg/api"
	"github.com/hazyhaar/addrnorm/pkg/pipeline"
	"github.com/hazyhaar/addrnorm/pkg/tagger"
)

var version = "dev"

type config struct {
	Addr    string          `yaml:"addr"`
	Tables  string          `yaml:"tables"`  // optional YAML overrides
	Journal string          `yaml:"journal"` // SQLite path, empty disables
	Workers int             `yaml:"workers"`
	MCP     bool            `yaml:"mcp"` // mount /mcp on the HTTP server
	Log     logConfig       `yaml:"log"`
	TLS     tlsConfig       `yaml:"tls"`
	Options address.Options `yaml:"normalize"`
	API     api.Config      `yaml:"api"`
}

type logConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

type tlsConfig struct {
	Enabled  bool     `yaml:"enabled"`
	HTTP3    bool     `yaml:"http3"`
	CertFile string   `yaml:"cert_file"`
	KeyFile  string   `yaml:"key_file"`
	DNSNames []string `yaml:"dns_names"`
}

func defaultConfig() config {
	return config{
		Addr:    ":8420",
		MCP:     true,
		Log:     logConfig{Level: "info", Format: "text"},
		Options: address.DefaultOptions(),
		API:     api.Config{Version: version, BatchLimit: api.DefaultBatchLimit, Origins: []string{"*"}},
	}
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string, logger *slog.Logger) config {
	cfg := defaultConfig()
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the process logger from the log section.
func newLogger(w io.Writer, lc logConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// buildPipeline loads the tables and wires tagger and normalizer.
func buildPipeline(cfg config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	tables := address.DefaultTables()
	if cfg.Tables != "" {
		var err error
		if tables, err = address.LoadTables(cfg.Tables); err != nil {
			return nil, err
		}
		logger.Info("table overrides loaded", "path", cfg.Tables)
	}
	norm, err := address.New(tables, cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("build normalizer: %w", err)
	}
	opts := norm.Options()
	logger.Debug("normalizer ready",
		"city_single_word", opts.CitySingleWord,
		"state_single_word", opts.StateSingleWord,
		"fold_accents", opts.FoldAccents,
	)
	return pipeline.New(norm, tagger.NewRules(tables),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithLogger(logger),
	), nil
}
