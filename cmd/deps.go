// Package cmd implements the granola subcommands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/asenkovskiy/skill-granola/client"
	"github.com/asenkovskiy/skill-granola/config"
	"github.com/asenkovskiy/skill-granola/credentials"
	"github.com/asenkovskiy/skill-granola/meeting"
	"github.com/asenkovskiy/skill-granola/pkg/logging"
)

// Shared command flags.
var (
	storageFlag string
	outputFlag  string
	quietFlag   bool
	debugFlag   bool
)

// DocumentFetcher is the remote API surface the sync and get commands need.
type DocumentFetcher interface {
	FetchDocuments(ctx context.Context, limit int) ([]meeting.Document, error)
	FetchTranscript(ctx context.Context, documentID string) client.TranscriptResult
}

// Deps holds command dependencies, replaceable in tests.
type Deps struct {
	LoadConfig   func(storageOverride string) *config.Config
	ResolveToken func(authFile string) (credentials.Token, error)
	NewFetcher   func(baseURL, token string, log logging.Logger) DocumentFetcher
}

// DefaultDeps returns the production wiring.
func DefaultDeps() *Deps {
	return &Deps{
		LoadConfig:   config.Load,
		ResolveToken: credentials.Resolve,
		NewFetcher: func(baseURL, token string, log logging.Logger) DocumentFetcher {
			return client.New(baseURL, token, log)
		},
	}
}

// addCommonFlags registers the flags every query command shares.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&storageFlag, "storage", "", "Storage root for meeting folders")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output format: text, json, yaml")
	cmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// loadConfig assembles the effective configuration from the shared flags.
func loadConfig(deps *Deps) (*config.Config, error) {
	cfg := deps.LoadConfig(storageFlag)
	if outputFlag != "" {
		cfg.OutputFormat = config.OutputFormat(outputFlag)
	}
	cfg.Quiet = quietFlag
	cfg.Debug = debugFlag
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the command logger. Progress goes to stderr so stdout
// stays clean for command results.
func newLogger(cfg *config.Config) logging.Logger {
	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	if cfg.Quiet {
		level = logging.LevelError
	}
	return logging.NewLogger(&logging.Config{
		Level:      level,
		JSONFormat: !term.IsTerminal(int(os.Stderr.Fd())),
	})
}

// stdoutIsTerminal reports whether stdout is an interactive terminal.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// output renders v in the configured format; text rendering is supplied by
// the caller.
func output(format config.OutputFormat, v interface{}, text func() error) error {
	switch format {
	case config.OutputJSON:
		return outputJSON(v)
	case config.OutputYAML:
		return outputYAML(v)
	default:
		return text()
	}
}

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputYAML writes v to stdout as YAML.
func outputYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	return enc.Encode(v)
}
