// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

// seatview is a terminal console for browsing a Sideseat telemetry
// server: organizations, projects, live sessions, and usage stats.
//
// Configuration comes from a YAML file named by SEATVIEW_CONFIG or
// --config. The API key is stored encrypted at rest (age scrypt) and
// unlocked with a passphrase at startup; SEATVIEW_API_KEY bypasses
// the credential file for scripted use.
//
// Background logging (cache refresh failures, request errors) is
// routed through a slog handler that shows warnings in the status bar
// instead of writing to stderr, which would corrupt the alt-screen
// display. An optional file logger captures all records as JSON for
// post-mortem debugging.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/sideseat/seatview/lib/api"
	"github.com/sideseat/seatview/lib/config"
	"github.com/sideseat/seatview/lib/credential"
	"github.com/sideseat/seatview/lib/query"
	"github.com/sideseat/seatview/lib/timerange"
	"github.com/sideseat/seatview/lib/version"
	"github.com/sideseat/seatview/seatview"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var serverURL string
	var projectID string
	var rangeLabel string
	var logOutput string
	var saveKey bool

	flagSet := pflag.NewFlagSet("seatview", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to seatview.yaml (default: $SEATVIEW_CONFIG)")
	flagSet.StringVar(&serverURL, "server", "", "Sideseat server URL (overrides config)")
	flagSet.StringVar(&projectID, "project", "", "open this project's sessions directly")
	flagSet.StringVar(&rangeLabel, "range", "", "initial stats time range: 5m, 30m, 1h, 6h, 24h, 7d")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (in addition to the status bar)")
	flagSet.BoolVar(&saveKey, "save-key", false, "prompt for an API key, encrypt it to the credential file, and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println("seatview " + version.Info())
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if projectID != "" {
		cfg.UI.Project = projectID
	}
	if rangeLabel != "" {
		cfg.UI.DefaultRange = rangeLabel
	}

	if saveKey {
		return saveCredential(cfg.Server.CredentialFile)
	}

	apiKey, err := resolveAPIKey(cfg.Server.CredentialFile)
	if err != nil {
		return err
	}

	initialRange, err := timerange.Parse(cfg.UI.DefaultRange)
	if err != nil {
		return fmt.Errorf("ui.default_range: %w", err)
	}

	return runConsole(cfg, apiKey, initialRange, logOutput)
}

// loadConfig reads the config file from --config or SEATVIEW_CONFIG.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// resolveAPIKey returns the Sideseat API key: the SEATVIEW_API_KEY
// environment variable when set, otherwise the encrypted credential
// file unlocked with a passphrase prompt.
func resolveAPIKey(credentialFile string) (string, error) {
	if apiKey := os.Getenv("SEATVIEW_API_KEY"); apiKey != "" {
		return apiKey, nil
	}

	if !credential.Exists(credentialFile) {
		return "", fmt.Errorf("no credential file at %s; "+
			"run 'seatview --save-key' to store an API key, "+
			"or set SEATVIEW_API_KEY", credentialFile)
	}

	passphrase, err := credential.PromptSecret("Passphrase: ")
	if err != nil {
		return "", err
	}
	apiKey, err := credential.Load(credentialFile, passphrase)
	if err != nil {
		return "", fmt.Errorf("unlock credential file %s: %w", credentialFile, err)
	}
	return apiKey, nil
}

// saveCredential prompts for an API key and passphrase and writes the
// encrypted credential file.
func saveCredential(credentialFile string) error {
	apiKey, err := credential.PromptSecret("API key: ")
	if err != nil {
		return err
	}
	passphrase, err := credential.PromptSecret("Passphrase: ")
	if err != nil {
		return err
	}
	confirm, err := credential.PromptSecret("Confirm passphrase: ")
	if err != nil {
		return err
	}
	if string(passphrase) != string(confirm) {
		return fmt.Errorf("passphrases do not match")
	}
	if err := credential.Save(credentialFile, string(apiKey), passphrase); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Credential saved to %s\n", credentialFile)
	return nil
}

// runConsole wires the cache, API client, and TUI together and runs
// the program until exit.
func runConsole(cfg *config.Config, apiKey string, initialRange timerange.Range, logOutput string) error {
	tuiHandler := seatview.NewLogHandler(slog.LevelWarn)

	var handler slog.Handler = tuiHandler
	if cfg.Log.File != "" && logOutput == "" {
		logOutput = cfg.Log.File
	}
	if logOutput != "" {
		fileHandler, fileCloser, err := openFileLogHandler(logOutput, parseLevel(cfg.Log.Level))
		if err != nil {
			return fmt.Errorf("cannot open log file %s: %w", logOutput, err)
		}
		defer fileCloser()
		handler = fanoutHandler{tuiHandler, fileHandler}
	}
	logger := slog.New(handler)

	client, err := api.New(cfg.Server.URL, apiKey)
	if err != nil {
		return err
	}

	cache := query.New(query.Options{Logger: logger})
	defer cache.Close()

	source := seatview.NewCacheSource(cache, client)
	model := seatview.NewModel(source)
	model.SetRange(initialRange)
	if cfg.UI.Project != "" {
		model.SetProject(cfg.UI.Project)
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	tuiHandler.SetProgram(program)

	// Refresh failures surface in the status bar, not a crash: the
	// last good data stays on screen.
	cache.SetReporter(func(message string, err error) {
		logger.Warn(message, "error", err)
	})

	_, err = program.Run()
	return err
}

// parseLevel maps a config log level string to a slog.Level. The
// config validator has already rejected unknown values.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openFileLogHandler creates a slog.JSONHandler writing to the given
// path. The file is created or truncated.
func openFileLogHandler(path string, level slog.Level) (slog.Handler, func(), error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return handler, func() { file.Close() }, nil
}

// fanoutHandler sends each record to multiple underlying handlers. A
// record is enabled if any sub-handler is enabled for its level.
type fanoutHandler []slog.Handler

func (handlers fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (handlers fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers fanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Sideseat console: interactive terminal UI for browsing telemetry.

Point SEATVIEW_CONFIG (or --config) at a seatview.yaml naming the
server URL. The API key is read from an encrypted credential file
(create it with --save-key) or from SEATVIEW_API_KEY.

Screens: 1 organizations, 2 projects, 3 sessions, 4 stats. Enter
drills in, backspace goes up, / filters, ctrl+r refetches.

Usage:
  seatview [flags]

Examples:
  # Browse with the config's defaults
  seatview

  # Jump straight to a project's sessions
  seatview --project proj_01hxyz

  # Stats over the last 24 hours, with a debug log
  seatview --range 24h --log-output /tmp/seatview.log

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
