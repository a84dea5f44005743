package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"google.golang.org/genai"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/classify"
	"github.com/pagesift/pagesift/extract"
	"github.com/pagesift/pagesift/gemini"
	psgoquery "github.com/pagesift/pagesift/goquery"
	"github.com/pagesift/pagesift/htmltomarkdown"
	pshttp "github.com/pagesift/pagesift/http"
	"github.com/pagesift/pagesift/metrics"
	"github.com/pagesift/pagesift/pool"
	"github.com/pagesift/pagesift/readability"
	"github.com/pagesift/pagesift/rod"
	pslog "github.com/pagesift/pagesift/slog"
	"github.com/pagesift/pagesift/sqlite"
	"github.com/pagesift/pagesift/strategy"
	"github.com/pagesift/pagesift/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the result cache.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if cerr := m.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if m.DB != nil {
		if cerr := m.DB.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagesift"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagesift --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel()}))

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PAGESIFT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Cache = sqlite.NewResultCache(m.DB)
	if err := deps.Cache.Warm(ctx); err != nil {
		return fmt.Errorf("failed to warm cache: %w", err)
	}

	if cmd == "extract" {
		if err := m.wireExtraction(ctx, cli, deps, logger, stderr); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireExtraction builds the orchestrator and its collaborators for the
// extract command.
func (m *Main) wireExtraction(ctx context.Context, cli *CLI, deps *Dependencies, logger *slog.Logger, stderr io.Writer) error {
	fetcher := pshttp.NewFetcher(
		pshttp.WithUserAgent("pagesift/1.0"),
		pshttp.WithLimiter(pshttp.NewDomainLimiter(2.0)),
	)
	m.closers = append(m.closers, fetcher)

	executor := pool.NewExecutor(pool.Registry{
		pagesift.TaskKindParseMarkup: trafilatura.Handler(trafilatura.NewParser()),
	})
	if err := executor.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize executor: %w", err)
	}
	deps.Executor = pslog.NewLoggingExecutor(executor, logger)

	var surface pagesift.Surface
	if cli.Extract.Render {
		bm, err := rod.NewBrowserManager()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		s := rod.NewSurface(bm)
		m.closers = append(m.closers, s)
		surface = s
		deps.Surface = s
	}

	adapters := []pagesift.Adapter{
		extract.NewWebviewAdapter(surface),
		psgoquery.NewDOMAdapter(surface),
		extract.NewPrivilegedAdapter(pshttp.NewChannel(fetcher)),
		readability.NewAdapter(fetcher),
	}
	for i, a := range adapters {
		adapters[i] = pslog.NewLoggingAdapter(a, logger)
	}

	var enhancer pagesift.Enhancer = psgoquery.NewEnhancer(htmltomarkdown.NewConverter())
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		enhancer = gemini.NewSummarizer(client, enhancer)
	}

	deps.Orchestrator = &strategy.Orchestrator{
		Adapters:   adapters,
		Fallback:   extract.NewFallbackAdapter(fetcher),
		Tracker:    metrics.NewTracker(),
		Enhancer:   enhancer,
		Classifier: classify.NewClassifier(),
		Fetcher:    fetcher,
		Executor:   deps.Executor,
		Cache:      deps.Cache,
		Logger:     logger,
	}
	return nil
}

func logLevel() slog.Level {
	if os.Getenv("PAGESIFT_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func defaultDBPath() string {
	if path := os.Getenv("PAGESIFT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagesift.db"
	}
	dir := filepath.Join(home, ".pagesift")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "pagesift.db")
}
