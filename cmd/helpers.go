package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/ai-assistant/internal/assistant"
	"github.com/ziadkadry99/ai-assistant/internal/backend"
	"github.com/ziadkadry99/ai-assistant/internal/config"
	"github.com/ziadkadry99/ai-assistant/internal/history"
	"github.com/ziadkadry99/ai-assistant/internal/source"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `aiassist init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return config.NewLogger(level)
}

func newBackendClient(cfg *config.Config, logger *zap.Logger) *backend.Client {
	return backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Timeout()),
		backend.WithLogger(logger),
	)
}

// openHistory opens the exchange journal when it is enabled. A nil store
// with a nil error means history is off.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return store, nil
}

// newController wires a controller to the configured backend and, if
// non-nil, the history journal.
func newController(cfg *config.Config, logger *zap.Logger, store *history.Store, mode source.Mode) *assistant.Controller {
	opts := []assistant.Option{
		assistant.WithLogger(logger),
		assistant.WithMode(mode),
	}
	if store != nil {
		opts = append(opts, assistant.WithRecorder(store))
	}
	return assistant.New(newBackendClient(cfg, logger), opts...)
}

// setReference points the controller's active mode at ref: a URL for web
// and youtube, a file path for transcript.
func setReference(ctrl *assistant.Controller, mode source.Mode, ref string) error {
	switch mode {
	case source.ModeTranscript:
		t, err := source.OpenTranscript(ref)
		if err != nil {
			return err
		}
		if !source.AcceptsTranscript(t.Name) {
			fmt.Fprintf(os.Stderr, "Warning: %s is not one of %s; sending it anyway\n", t.Name, source.TranscriptAccept)
		}
		ctrl.SetTranscript(t)
	case source.ModeYouTube:
		ctrl.SetYouTubeURL(ref)
	default:
		ctrl.SetURL(ref)
	}
	return ctrl.SetMode(mode)
}

// inferMode guesses the mode for a bare reference: an existing file is a
// transcript, a recognizable video link is YouTube, anything else a web page.
func inferMode(ref string) source.Mode {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return source.ModeTranscript
	}
	if strings.Contains(ref, "youtu") && source.YouTubeVideoID(ref) != "" {
		return source.ModeYouTube
	}
	return source.ModeWeb
}

// failureText is what a command shows for a failed backend call: the
// backend's own detail when it sent one.
func failureText(err error) string {
	if detail := backend.DetailOf(err); detail != "" {
		return detail
	}
	if errors.Is(err, assistant.ErrNoSource) {
		return "no source selected"
	}
	return err.Error()
}
