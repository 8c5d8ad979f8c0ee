package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/okian/watchrank/internal/adapters/render"
	"github.com/okian/watchrank/internal/adapters/source"
	"github.com/okian/watchrank/internal/app"
	"github.com/okian/watchrank/internal/config"
	"github.com/okian/watchrank/pkg/logger"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usage = `usage: watchrank [source_path] [top_n]

Draws a horizontal bar chart of the most-watched titles in a CSV watch log.

  source_path  CSV file with a "title" column, or "-" for stdin (default data.csv)
  top_n        number of titles to draw, at least 1 (default 50)

Display options come from WATCHRANK_* environment variables or a YAML file
named by WATCHRANK_CONFIG.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't configured yet
		fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return exitFailure
	}

	if err := logger.Init(logger.WithWriter(stderr), logger.WithJSON(cfg.LogJSON)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Named("cli")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	path, topN, help, err := parseArgs(args, cfg)
	if help {
		fmt.Fprint(stdout, usage)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n\n%s", err, usage)
		return exitUsage
	}

	svc := app.New(
		app.WithLogger(logger.Named("app")),
		app.WithOutput(stdout),
		app.WithColumn(cfg.Column),
		app.WithDelimiter(cfg.Comma()),
		app.WithComment(cfg.CommentRune()),
		app.WithLabels(cfg.ChartTitle, cfg.XLabel, cfg.YLabel),
		app.WithChartOptions(render.Options{Width: cfg.Width, NoColor: cfg.NoColor}),
		app.WithMetricsTextfile(cfg.MetricsTextfile),
	)

	src := &source.FileSource{Path: path, Stdin: stdin}
	if _, err := svc.Run(ctx, src, topN); err != nil {
		fmt.Fprintln(stderr, app.Describe(err))
		return exitFailure
	}
	return exitOK
}

// parseArgs reads the optional positional source_path and top_n,
// falling back to cfg.
func parseArgs(args []string, cfg *config.Config) (path string, topN int, help bool, err error) {
	path, topN = cfg.Source, cfg.TopN

	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		return "", 0, true, nil
	}

	switch len(args) {
	case 0:
	case 2:
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil || n < 1 {
			return "", 0, false, fmt.Errorf("top_n must be a positive integer, got %q", args[1])
		}
		topN = n
		fallthrough
	case 1:
		if args[0] == "" {
			return "", 0, false, fmt.Errorf("source_path must not be empty")
		}
		path = args[0]
	default:
		return "", 0, false, fmt.Errorf("expected at most 2 arguments, got %d", len(args))
	}
	return path, topN, false, nil
}
