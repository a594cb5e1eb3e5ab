package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/unite-bookmark-sync/internal/config"
	"github.com/klauern/unite-bookmark-sync/internal/logging"
	"github.com/klauern/unite-bookmark-sync/internal/progress"
	"github.com/klauern/unite-bookmark-sync/internal/sync"
	"github.com/klauern/unite-bookmark-sync/internal/ui"
	"github.com/klauern/unite-bookmark-sync/internal/validation"
)

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Sync bookmark files of every configured project",
		UsageText: appName + " sync [options]",
		Description: `Copy <local_bookmark_repository>/<name> to <shared_bookmark_repository>/<name>
   for every project, removing the project directory from each bookmarked path.

   Running ` + appName + ` without a command does the same.

   Examples:
     ` + appName + `
     ` + appName + ` sync --dry-run
     ` + appName + ` --config ./bookmarks.yml sync`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Read local bookmarks and report without writing shared files",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Abort before writing when the configuration has validation errors",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSync(ctx, cmd, cmd.Bool("dry-run"))
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Display the resolved configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "yaml",
				Usage:   "Output format: yaml or toml",
			},
			&cli.BoolFlag{
				Name:  "validate",
				Usage: "Check repositories and projects after printing the configuration",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			model, path, err := loadModel(cmd)
			if errors.Is(err, config.ErrNoProjects) {
				fmt.Println(err)
				return nil
			}
			if err != nil {
				return reportConfigError(err)
			}

			fmt.Printf("Configuration file: %s\n\n", path)
			if err := model.Encode(os.Stdout, cmd.String("format")); err != nil {
				return err
			}
			if !cmd.Bool("validate") {
				return nil
			}

			result := validation.ValidateModel(model, validation.DefaultOptions())
			fmt.Println()
			printValidation(result)
			return result.Err()
		},
	}
}

// runSync loads the configuration and runs the engine over every project.
// Only configuration failures and failed projects produce an error; a
// configuration without projects prints a notice and succeeds. Configuration
// failures are printed to stdout before they are returned.
func runSync(ctx context.Context, cmd *cli.Command, dryRun bool) error {
	model, _, err := loadModel(cmd)
	if errors.Is(err, config.ErrNoProjects) {
		fmt.Println(err)
		return nil
	}
	if err != nil {
		return reportConfigError(err)
	}
	if len(model.Projects) == 0 {
		fmt.Println(config.ErrNoProjects)
		return nil
	}

	check := validation.ValidateModel(model, syncValidationOptions(cmd.Bool("strict"), dryRun))
	for _, w := range check.Warnings {
		logging.Warn(w, logging.Operation("validate"))
	}
	for _, e := range check.Errors {
		logging.Warn("configuration problem", logging.Operation("validate"), logging.Err(e))
	}
	if cmd.Bool("strict") && !check.Valid() {
		return fmt.Errorf("configuration is invalid: %w", check.Err())
	}

	tracker := progress.NewTracker(len(model.Projects), os.Stderr)

	opts := sync.DefaultOptions()
	opts.DryRun = dryRun
	opts.Progress = func(pr sync.ProjectResult) {
		tracker.Step(pr.Project.Name)
	}

	result := sync.New(opts).Run(ctx, model)
	tracker.Done()

	printResult(result)

	if failed := len(result.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d projects failed", failed, len(result.Projects))
	}
	return nil
}

// syncValidationOptions keeps a plain sync from touching the shared
// repository before the engine runs: the write check creates a file there,
// so it only runs for a strict, non-dry sync.
func syncValidationOptions(strict, dryRun bool) validation.Options {
	opts := validation.DefaultOptions()
	opts.RequireWritePermission = strict && !dryRun
	return opts
}

// loadModel reads the file named by --config, or the default location, and
// builds the model. It also returns the path that was read.
func loadModel(cmd *cli.Command) (*config.Model, string, error) {
	path := cmd.String("config")
	if path == "" {
		var err error
		if path, err = config.FilePath(); err != nil {
			return nil, "", err
		}
	}

	doc, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}

	model, err := config.Build(doc)
	return model, path, err
}

func printResult(result *sync.Result) {
	for _, pr := range result.Projects {
		label := ui.Title(pr.State.String())
		switch pr.State {
		case sync.StateDone:
			fmt.Println(ui.Status(ui.KindSuccess, fmt.Sprintf("%s  %s (%d bookmarks)", ui.Bold(pr.Project.Name), label, pr.Records)))
		case sync.StatePlanned:
			fmt.Println(ui.Status(ui.KindPending, fmt.Sprintf("%s  %s (%d bookmarks)", ui.Bold(pr.Project.Name), label, pr.Records)))
		case sync.StateSkipped:
			fmt.Println(ui.Status(ui.KindSkipped, fmt.Sprintf("%s  %s %s", pr.Project.Name, label, ui.Dim("no "+pr.LocalPath))))
		case sync.StateFailed:
			fmt.Println(ui.Status(ui.KindError, fmt.Sprintf("%s  %s: %v", ui.Bold(pr.Project.Name), label, pr.Err)))
		default:
			fmt.Println(ui.Status(ui.KindSkipped, fmt.Sprintf("%s  %s", pr.Project.Name, label)))
		}
		if n := len(pr.Malformed); n > 0 {
			fmt.Println("  " + ui.Status(ui.KindWarning, fmt.Sprintf("%d malformed line(s) skipped", n)))
		}
	}
	fmt.Println()
	fmt.Print(result.Summary())
}

func printValidation(result *validation.Result) {
	kind := ui.KindSuccess
	switch {
	case !result.Valid():
		kind = ui.KindError
	case len(result.Warnings) > 0:
		kind = ui.KindWarning
	}
	fmt.Println(ui.Status(kind, result.Summary()))

	for _, err := range result.Errors {
		fmt.Printf("  %s %v\n", ui.Label(ui.KindError, "error:"), err)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  %s %s\n", ui.Label(ui.KindWarning, "warning:"), w)
	}
}
