package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/workspaced/internal/config"
	"github.com/standardbeagle/workspaced/internal/debug"
	"github.com/standardbeagle/workspaced/internal/discovery"
	"github.com/standardbeagle/workspaced/internal/logging"
	"github.com/standardbeagle/workspaced/internal/scan"
	"github.com/standardbeagle/workspaced/internal/version"
	"github.com/standardbeagle/workspaced/internal/workspace"
	"github.com/standardbeagle/workspaced/pkg/pathutil"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot determine working directory: %w", err)
		}
		root = cwd
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config for %s: %w", root, err)
	}

	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if c.IsSet("debounce-ms") {
		cfg.Index.WatchDebounceMs = c.Int("debounce-ms")
	}
	if c.IsSet("no-watch") {
		cfg.Index.WatchMode = !c.Bool("no-watch")
	}

	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:                   "workspaced",
		Usage:                  "Workspace file tracking and change propagation for code-intelligence backends",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Workspace root directory (defaults to current directory)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/testdata/**')",
			},
			&cli.IntFlag{
				Name:  "debounce-ms",
				Usage: "Debounce time for filesystem events (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "Disable filesystem watching",
			},
			&cli.StringFlag{
				Name:  "log-dir",
				Usage: "Write rotated logs to this directory instead of stderr",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug output to a temp log file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Track the workspace and propagate changes until interrupted",
				Action: runDaemon,
			},
			{
				Name:   "discover",
				Usage:  "Walk the workspace once and print what would be tracked",
				Action: runDiscover,
			},
		},
		DefaultCommand: "run",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "workspaced: %v\n", err)
		os.Exit(1)
	}
}

func runDaemon(c *cli.Context) error {
	closeLogs := logging.Setup(c.String("log-dir"))
	defer closeLogs()

	if c.Bool("debug") {
		if logPath, err := debug.InitDebugLogFile(); err == nil {
			defer debug.CloseDebugLog()
			fmt.Fprintf(os.Stderr, "debug log: %s\n", logPath)
		}
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	// Indexer processes attach over their own transport; standalone runs
	// track state with both disabled.
	appCtx := workspace.NewAppContext(cfg, nil, nil)
	tracker, err := workspace.NewTracker(appCtx)
	if err != nil {
		return fmt.Errorf("failed to create tracker: %w", err)
	}
	defer tracker.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx.State.AddFolder(cfg.Project.Root)
	tracker.StartWatcher()
	tracker.OnWorkspaceInit(ctx)

	<-ctx.Done()
	return nil
}

func runDiscover(c *cli.Context) error {
	closeLogs := logging.Setup(c.String("log-dir"))
	defer closeLogs()

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	walker := discovery.NewWalker(cfg, scan.NewValidator(cfg))
	docs := walker.Discover(c.Context, []string{cfg.Project.Root})
	for _, d := range docs {
		fmt.Println(pathutil.ToRelative(d.URI.Path(), cfg.Project.Root))
	}
	fmt.Fprintf(os.Stderr, "%d files\n", len(docs))
	return nil
}
