package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/handiism/beatmap-downloader/internal/app"
	"github.com/handiism/beatmap-downloader/internal/config"
	"github.com/handiism/beatmap-downloader/internal/download"
	"github.com/handiism/beatmap-downloader/internal/logger"
)

// errCancelled is returned when a signal cancelled the command.
var errCancelled = errors.New("download cancelled")

type rootOptions struct {
	configPath string
	envFile    string
	output     string
	overwrite  bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "beatmap-dl",
		Short: "Download Beat Saber custom levels from BeatSaver",
		Long: `beatmap-dl installs custom levels into the game's CustomLevels folder.

Levels can be requested by key, by version hash, by direct archive URL or
in bulk from a .bplist playlist. For interactive mode, use beatmap-tui.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Env file with BEATMAP_* overrides")
	flags.StringVarP(&opts.output, "output", "o", "", "CustomLevels directory (overrides config)")
	flags.BoolVar(&opts.overwrite, "overwrite", false, "Overwrite files in existing level directories")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose output")

	cmd.AddCommand(
		newKeyCmd(opts),
		newHashCmd(opts),
		newURLCmd(opts),
		newPlaylistCmd(opts),
	)
	return cmd
}

// loadSettings resolves settings from the config file, the environment and
// the command line, in that order.
func (o *rootOptions) loadSettings() (*config.Settings, error) {
	settings := config.DefaultSettings()
	if o.configPath != "" {
		var err error
		settings, err = config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
	}

	if err := settings.ApplyEnv(o.envFile); err != nil {
		return nil, err
	}

	if o.output != "" {
		settings.ContentPath = o.output
	}
	if o.overwrite {
		settings.OverwriteExisting = true
	}
	if o.verbose {
		settings.LogLevel = string(logger.DebugLevel)
	}
	return settings, nil
}

// run builds the App and calls fn with a context derived from parent that is
// also cancelled on SIGINT or SIGTERM.
func (o *rootOptions) run(parent context.Context, fn func(ctx context.Context, a *app.App) error) error {
	settings, err := o.loadSettings()
	if err != nil {
		return err
	}

	log, err := logger.New(settings.ToLoggerConfig(true))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(settings, log, o.printEvent)
	if err != nil {
		return err
	}
	a.WatchContent(ctx)

	log.Debug("Content root ready",
		zap.String("root", settings.ContentPath),
		zap.Int("levels", a.Index.Len()))

	err = fn(ctx, a)
	if ctx.Err() != nil {
		log.Debug("Interrupted", zap.Error(err))
		return errCancelled
	}
	return err
}

func (o *rootOptions) printEvent(event download.ProgressEvent) {
	if event.Level == download.LevelVerbose && !o.verbose {
		return
	}

	prefix := ""
	switch event.Level {
	case download.LevelError:
		prefix = "✗ "
	case download.LevelWarning:
		prefix = "! "
	case download.LevelSuccess:
		prefix = "✓ "
	case download.LevelInfo:
		prefix = "› "
	default:
		prefix = "  "
	}

	fmt.Println(prefix + event.Message)
}
