package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/starford/shelfmark/internal"
	pkgconfig "github.com/starford/shelfmark/pkg/config"
	"github.com/urfave/cli/v3"
)

// newApp loads configuration and wires the application.
func newApp(cmd *cli.Command) (*internal.App, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return internal.New(internal.WithConfig(cfg))
}

func runUpdate(ctx context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	// Trailing args form the commit message override, matching the
	// original shell usage: shelfmark Finished reading Dune
	override := strings.Join(cmd.Args().Slice(), " ")
	return app.RunUpdate(ctx, override)
}

func runLog(_ context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	out, err := app.RenderLog(int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runStats(_ context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	out, err := app.RenderStats()
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	return app.Watch(ctx)
}

func runDebug(_ context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	return app.Debug(os.Stdout)
}

func main() {
	cmd := &cli.Command{
		Name:      "shelfmark",
		Usage:     "Detect, classify, journal, and commit changes to your book list",
		ArgsUsage: "[commit message]",
		Action:    runUpdate,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "shelfmark.yaml",
				Value:       "shelfmark.yaml",
				Sources:     cli.EnvVars("SHELFMARK_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "log",
				Usage:  "Show the most recent journal entries",
				Action: runLog,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Number of entries to show",
						Value:   10,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show current shelf totals and journal aggregates",
				Action: runStats,
			},
			{
				Name:   "watch",
				Usage:  "Watch the book list and commit changes as they settle",
				Action: runWatch,
			},
			{
				Name:   "debug",
				Usage:  "Dump repository status, storage presence, and the pending diff",
				Action: runDebug,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
