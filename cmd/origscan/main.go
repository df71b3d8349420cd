package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"originality/internal/config"
	"originality/internal/db"
	"originality/internal/detect"
	"originality/internal/logging"
	"originality/internal/report"
	"originality/internal/watch"
	"originality/internal/workspace"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitNoContent = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "scan":
		return runScan(ctx, args[1:], stdout, stderr)
	case "watch":
		return runWatch(ctx, args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  origscan scan [-config path] [-sequential] [-no-save] [-top n] <file>")
	fmt.Fprintln(w, "  origscan watch [-config path] [-quiet d] [-no-save] <dir>")
}

type options struct {
	configPath string
	sequential bool
	noSave     bool
	top        int
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "path to a .toml, .yaml or .json config file")
	fs.BoolVar(&o.noSave, "no-save", false, "do not write the report to the workspace or database")
	fs.IntVar(&o.top, "top", 5, "number of matches to print")
}

// session holds what one scan or watch invocation shares.
type session struct {
	cfg      *config.Config
	opts     options
	detector *detect.Detector
	logger   *slog.Logger
	closer   io.Closer
}

func open(ctx context.Context, opts options) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.sequential {
		cfg.Scan.Concurrent = false
	}
	logger, closer, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	slog.SetDefault(logger)
	d, err := detect.FromConfig(ctx, cfg, logger)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("build detector: %w", err)
	}
	return &session{cfg: cfg, opts: opts, detector: d, logger: logger, closer: closer}, nil
}

func (s *session) Close() {
	if err := s.detector.Close(); err != nil {
		s.logger.Warn("close detector", "error", err)
	}
	_ = s.closer.Close()
}

func runScan(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts.register(fs)
	fs.BoolVar(&opts.sequential, "sequential", false, "run the source scanners one after another")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "scan needs exactly one file")
		return exitUsage
	}

	s, err := open(ctx, opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	defer s.Close()

	if err := s.scan(ctx, fs.Arg(0), stdout); err != nil {
		fmt.Fprintln(stderr, err)
		if errors.Is(err, detect.ErrNoContent) {
			return exitNoContent
		}
		return exitFailure
	}
	return exitOK
}

func runWatch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	var quiet time.Duration
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts.register(fs)
	fs.DurationVar(&quiet, "quiet", watch.DefaultQuiet, "how long a file must stay unchanged before it is scanned")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "watch needs exactly one directory")
		return exitUsage
	}

	s, err := open(ctx, opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	defer s.Close()

	w, err := watch.New(fs.Arg(0), quiet, s.logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	fmt.Fprintf(stdout, "Watching %s for new documents (Ctrl-C to stop)\n", fs.Arg(0))
	if err := w.Run(ctx, func(ctx context.Context, path string) error {
		return s.scan(ctx, path, stdout)
	}); err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	return exitOK
}

func (s *session) scan(ctx context.Context, path string, stdout io.Writer) error {
	r, err := s.detector.Run(ctx, path)
	if err != nil {
		return err
	}
	if err := report.WriteSummary(stdout, r, s.opts.top); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if s.opts.noSave {
		return nil
	}
	if err := s.save(path, r, stdout); err != nil {
		s.logger.Error("persist report failed", "file", path, "error", err)
		return err
	}
	return nil
}

func (s *session) save(path string, r *report.Report, stdout io.Writer) error {
	root, err := workspace.EnsureAt(s.cfg.Storage.WorkspaceDir)
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}
	settings, err := workspace.LoadSettings(root)
	if err != nil {
		return err
	}

	var source []byte
	if settings.KeepSource {
		if source, err = os.ReadFile(path); err != nil {
			return fmt.Errorf("read source: %w", err)
		}
	}
	project, err := workspace.CreateProject(root, path, source)
	if err != nil {
		return err
	}
	if err := workspace.SaveReport(project.ReportPath, r); err != nil {
		return err
	}

	dbPath := s.cfg.Storage.SQLitePath
	if dbPath == "" {
		dbPath = settings.DatabasePath(root)
	}
	if err := db.PersistReport(dbPath, r); err != nil {
		return err
	}
	shared, err := db.SharedFingerprints(dbPath, r.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Saved:       %s\n", project.ReportPath)
	if len(shared) > 0 {
		fmt.Fprintf(stdout, "Overlaps:    shares text fingerprints with %d earlier report(s)\n", len(shared))
	}
	return nil
}
