package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	apppkg "github.com/kk-code-lab/some/internal/app"
	"github.com/kk-code-lab/some/internal/buffer"
	"github.com/kk-code-lab/some/internal/clipboard"
	"github.com/kk-code-lab/some/internal/config"
	"github.com/kk-code-lab/some/internal/logging"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, c)
}

// options collects the command line.
type options struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	Follow    bool
	StartLine int
	Pattern   string
	DiffPath  string

	config.Flags
}

func defaultConfigPath() string {
	path, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	return path
}

var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// startPager is replaced in tests so the command can run without a
// terminal.
var startPager = func(ctx context.Context, opts apppkg.Options) error {
	app, err := apppkg.NewApplication(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
	}()
	app.Run()
	return nil
}

func main() {
	// Set UTF-8 as fallback encoding so non-ASCII text displays on
	// terminals with an unknown locale.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	os.Exit(run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr io.Writer) int {
	opts := &options{}
	cmd := newCommand(opts, stdin, stdout, stderr)

	err := cmd.Run(ctx, args)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, "Usage: some [OPTIONS] [FILE]...")
		fmt.Fprintln(stderr, "Try 'some --help' for more information.")
	default:
		fmt.Fprintf(stderr, "some: %v\n", err)
	}
	return 1
}

func newCommand(opts *options, stdin *os.File, stdout, stderr io.Writer) *cli.Command {
	var logCloser func()

	return &cli.Command{
		Name:      "some",
		Usage:     "view files in the terminal",
		UsageText: "some [OPTIONS] [FILE]...",
		Description: `Pages through one or more files, or stdin when no file is given, with
syntax highlighting, regex search, filtering and a follow mode for
growing logs.`,
		Version:   build(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "line-numbers",
				Aliases:     []string{"n"},
				Usage:       "show line numbers",
				Destination: &opts.LineNumbers,
			},
			&cli.BoolFlag{
				Name:        "follow",
				Aliases:     []string{"f"},
				Usage:       "follow appended data, like tail -f",
				Destination: &opts.Follow,
			},
			&cli.IntFlag{
				Name:        "start-line",
				Aliases:     []string{"N"},
				Usage:       "start at line `LINE`",
				Destination: &opts.StartLine,
			},
			&cli.StringFlag{
				Name:        "pattern",
				Aliases:     []string{"p"},
				Usage:       "search for `REGEX` on open",
				Destination: &opts.Pattern,
			},
			&cli.BoolFlag{
				Name:        "wrap",
				Aliases:     []string{"w"},
				Usage:       "wrap long lines",
				Destination: &opts.Wrap,
			},
			&cli.StringFlag{
				Name:        "theme",
				Aliases:     []string{"t"},
				Usage:       "syntax highlighting theme",
				Destination: &opts.Theme,
			},
			&cli.BoolFlag{
				Name:        "no-syntax",
				Usage:       "disable syntax highlighting",
				Destination: &opts.NoSyntax,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "no line numbers and no syntax highlighting",
				Destination: &opts.Plain,
			},
			&cli.IntFlag{
				Name:        "tab-width",
				Usage:       "columns per tab stop",
				Destination: &opts.TabWidth,
			},
			&cli.StringFlag{
				Name:        "diff",
				Usage:       "show a unified diff of FILE against `FILE2`",
				Destination: &opts.DiffPath,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SOME_CONFIG"),
				Value:       defaultConfigPath(),
				Destination: &opts.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error)",
				Sources:     cli.EnvVars("SOME_LOG_LEVEL"),
				Value:       "info",
				Destination: &opts.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "write logs to this file (disabled when empty)",
				Sources:     cli.EnvVars("SOME_LOG_FILE"),
				Destination: &opts.LogFile,
			},
		},
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return err
		},
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			logger, closer, err := logging.New(opts.LogLevel, opts.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer
			return ctx, nil
		},
		After: func(context.Context, *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runPager(ctx, opts, c.Args().Slice(), stdin, stderr)
		},
	}
}

func runPager(ctx context.Context, opts *options, files []string, stdin *os.File, stderr io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.MergeFlags(opts.Flags)

	bufs, err := openBuffers(files, source{
		diffPath: opts.DiffPath,
		stdin:    stdin,
		stdinTTY: isTerminal(stdin),
		load:     buffer.LoadOptions{MmapThreshold: cfg.General.MmapThreshold},
	}, stderr)
	if err != nil {
		return err
	}

	l := logging.Component("app")
	l.Info().Int("buffers", len(bufs)).Str("config", opts.ConfigPath).Msg("starting")

	return startPager(ctx, apppkg.Options{
		Buffers:   bufs,
		Settings:  cfg,
		StartLine: opts.StartLine,
		Pattern:   opts.Pattern,
		Follow:    opts.Follow,
		Clipboard: clipboard.New(),
		Logger:    l,
	})
}
