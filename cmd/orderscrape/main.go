package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/orderscrape"
	"github.com/fwojciec/orderscrape/excelize"
	ofs "github.com/fwojciec/orderscrape/fs"
	"github.com/fwojciec/orderscrape/goquery"
	"github.com/fwojciec/orderscrape/resty"
	"github.com/fwojciec/orderscrape/scrape"
	oslog "github.com/fwojciec/orderscrape/slog"
	"github.com/fwojciec/orderscrape/sqlite"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	// Run has already reported the error on stderr.
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// EnvFile is loaded into the environment before flags are parsed.
	// Variables already set in the environment win. Empty disables loading.
	EnvFile string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{EnvFile: ".env"}
}

// Run executes the CLI with the given arguments. Every returned error has
// already been printed to stderr exactly once.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if m.EnvFile != "" {
		if err := godotenv.Load(m.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("failed to load %s: %w", m.EnvFile, err)
			reportError(stderr, err)
			return err
		}
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("orderscrape"),
		kong.Description("Sign in to the orders portal and export the Orders table to CSV, XLSX, JSON and SQLite"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		reportError(stderr, err)
		return err
	}

	deps, err := m.wire(ctx, cli, stdout, stderr)
	if err != nil {
		reportError(stderr, err)
		return err
	}

	return cli.Run(deps)
}

// reportError prints err as a single "error: ..." line. Application errors
// print their message, anything else prints in full.
func reportError(w io.Writer, err error) {
	msg := err.Error()
	if orderscrape.ErrorCode(err) != orderscrape.EINTERNAL {
		msg = orderscrape.ErrorMessage(err)
	}
	fmt.Fprintf(w, "error: %s\n", msg)
}

// wire builds the scrape pipeline described by the parsed flags.
func (m *Main) wire(ctx context.Context, cli *CLI, stdout, stderr io.Writer) (*Dependencies, error) {
	schema := cli.Schema()
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	targets := cli.Outputs().Targets()
	if len(targets) == 0 {
		return nil, orderscrape.Errorf(orderscrape.EINVALID, "at least one output path required")
	}

	var gateway orderscrape.Gateway
	if cli.HTML != "" {
		gateway = ofs.NewDocumentSource(cli.HTML)
	} else {
		cfg := cli.Config()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		g, err := resty.NewGateway(cfg, goquery.NewLoginDetector(), resty.WithTimeout(cfg.Timeout))
		if err != nil {
			return nil, fmt.Errorf("failed to create gateway: %w", err)
		}
		gateway = g
	}

	writers := map[orderscrape.Format]orderscrape.TableWriter{
		orderscrape.FormatCSV:    &ofs.CSVWriter{},
		orderscrape.FormatXLSX:   excelize.NewWriter(),
		orderscrape.FormatJSON:   ofs.NewJSONWriter(),
		orderscrape.FormatSQLite: sqlite.NewWriter(),
	}
	var selector orderscrape.Selector = goquery.NewSelector()
	var normalizer orderscrape.Normalizer = schema

	if cli.Debug {
		logger := slog.New(tint.NewHandler(stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})).With("run", uuid.NewString())

		gateway = oslog.NewLoggingGateway(gateway, logger)
		selector = oslog.NewLoggingSelector(selector, logger)
		normalizer = oslog.NewLoggingNormalizer(normalizer, logger)
		for format, w := range writers {
			writers[format] = oslog.NewLoggingTableWriter(w, format, logger)
		}
	}

	return &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Targets: targets,
		Schema:  schema,
		Scraper: &scrape.Scraper{
			Gateway:    gateway,
			Selector:   selector,
			Normalizer: normalizer,
			Exporter: &orderscrape.Exporter{
				Writers:     writers,
				SortColumns: schema.SortColumns,
			},
		},
	}, nil
}
