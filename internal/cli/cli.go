// Package cli provides the command-line interface for unite-bookmark-sync.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/unite-bookmark-sync/internal/logging"
	"github.com/klauern/unite-bookmark-sync/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// appName is the binary name.
const appName = "unite-bookmark-sync"

// Run executes the CLI application with the given context and arguments.
// Without a subcommand it syncs every configured project.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    appName,
		Usage:   "Copy unite bookmark files to a shared repository with project-relative paths",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Read configuration from `FILE` instead of ~/.unite_bookmark_sync.yml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			ui.ConfigureColors(cmd.Bool("no-color"), os.Stdout)
			return logging.NewContext(ctx, configureLogging(cmd)), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSync(ctx, cmd, false)
		},
		Commands: []*cli.Command{
			syncCommand(),
			configCommand(),
			versionCommand(),
		},
	}
	return app.Run(ctx, args)
}

// configureLogging builds the logger selected by --verbose and --debug and
// installs it as the default.
func configureLogging(cmd *cli.Command) *slog.Logger {
	opts := logging.DefaultOptions()

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logger.Debug("logging configured", slog.String("level", opts.Level.String()))

	return logger
}
