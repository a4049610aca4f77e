// Package cli provides the kripke-del command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/spf13/cobra"

	"github.com/rfielding/kripke-del/internal/config"
	"github.com/rfielding/kripke-del/internal/logging"
	"github.com/rfielding/kripke-del/internal/telemetry"
	"github.com/rfielding/kripke-del/kripke"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	// ErrChecksFailed is returned by run when a check step does not hold.
	ErrChecksFailed = errors.New("checks failed")
	// ErrNoDatabase is returned by history when no database is configured.
	ErrNoDatabase = errors.New("no database configured (set KRIPKE_DB or --db)")
)

// globalOptions are the persistent flags; they override the environment.
type globalOptions struct {
	logLevel      string
	logFormat     string
	traceExporter string
	dbPath        string
	maxWorlds     int
}

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer

	opts      globalOptions
	cfg       config.Config
	logger    *bolt.Logger
	telemetry *telemetry.Provider
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logging.Discard(),
	}

	app.root = &cobra.Command{
		Use:   "kripke-del",
		Short: "Dynamic epistemic logic on Kripke structures",
		Long: `kripke-del evaluates what agents know in a Kripke structure and how that
knowledge changes under public announcements and product updates.

Scenarios are YAML or JSON files declaring worlds, per-agent accessibility
relations and a list of steps (announce, update, check).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd.Context())
		},
	}

	flags := app.root.PersistentFlags()
	flags.StringVar(&app.opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (overrides KRIPKE_LOG_LEVEL)")
	flags.StringVar(&app.opts.logFormat, "log-format", "", "Log format: console or json (overrides KRIPKE_LOG_FORMAT)")
	flags.StringVar(&app.opts.traceExporter, "trace", "", "Trace exporter: none or stdout (overrides KRIPKE_TRACE_EXPORTER)")
	flags.StringVar(&app.opts.dbPath, "db", "", "SQLite history database (overrides KRIPKE_DB)")
	flags.IntVar(&app.opts.maxWorlds, "max-worlds", -1, "Largest structure an announcement may search, 0 for no limit (overrides KRIPKE_MAX_SOLVE_WORLDS)")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newRunCmd(),
		app.newSolveCmd(),
		app.newCheckCmd(),
		app.newRenderCmd(),
		app.newWerewolvesCmd(),
		app.newModelsCmd(),
		app.newHistoryCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := a.root.ExecuteContext(ctx)
	if a.telemetry != nil {
		if serr := a.telemetry.Shutdown(context.Background()); serr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown telemetry: %w", serr))
		}
		a.telemetry = nil
	}
	return err
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// setup merges environment and flags, then builds the logger and tracer.
func (a *App) setup(ctx context.Context) error {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	if a.opts.logLevel != "" {
		cfg.LogLevel = a.opts.logLevel
	}
	if a.opts.logFormat != "" {
		cfg.LogFormat = a.opts.logFormat
	}
	if a.opts.traceExporter != "" {
		cfg.TraceExporter = a.opts.traceExporter
	}
	if a.opts.dbPath != "" {
		cfg.DBPath = a.opts.dbPath
	}
	if a.opts.maxWorlds >= 0 {
		cfg.MaxSolveWorlds = a.opts.maxWorlds
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if f, ok := a.stderr.(*os.File); ok {
		logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: f})
		a.logger = logging.Get()
	} else {
		a.logger = logging.NewJSON(a.stderr, cfg.LogLevel)
	}

	provider, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    "kripke-del",
		ServiceVersion: Version,
		Exporter:       cfg.TraceExporter,
		Output:         a.stderr,
	})
	if err != nil {
		return err
	}
	a.telemetry = provider
	return nil
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(a.stdout, "kripke-del version %s\n", Version)
			_, _ = fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			_, _ = fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}

// renderStructure writes ks in one of the output formats.
func (a *App) renderStructure(ks *kripke.Structure, format, name string, selfLoops bool) error {
	opts := []kripke.DiagramOption{kripke.WithGraphName(graphID(name))}
	if selfLoops {
		opts = append(opts, kripke.WithSelfLoops())
	}
	switch format {
	case "", "text":
		_, err := fmt.Fprintln(a.stdout, ks.String())
		return err
	case "dot":
		return ks.WriteDOT(a.stdout, opts...)
	case "mermaid":
		return ks.WriteMermaid(a.stdout, opts...)
	case "json":
		data, err := ks.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.stdout, string(data))
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, dot, mermaid or json)", format)
	}
}

// graphID turns a scenario name into a bare DOT identifier.
func graphID(name string) string {
	id := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, name)
	if id == "" || unicode.IsDigit(rune(id[0])) {
		id = "G" + id
	}
	return id
}
