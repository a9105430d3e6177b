package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/orderscrape"
	"github.com/fwojciec/orderscrape/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Targets []orderscrape.Target
	Schema  *orderscrape.Schema
	Scraper *scrape.Scraper
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	BaseURL   string        `name:"base-url" default:"https://www.ybsnow.com/" env:"YBSNOW_BASE_URL" help:"Base site URL"`
	LoginURL  string        `name:"login-url" env:"YBSNOW_LOGIN_URL" help:"Login URL (default: <base-url>/index.php)"`
	OrdersURL string        `name:"orders-url" env:"YBSNOW_ORDERS_URL" help:"Authenticated Orders page URL"`
	Email     string        `env:"YBSNOW_EMAIL" help:"Login email"`
	Password  string        `env:"YBSNOW_PASSWORD" help:"Login password"`
	Timeout   Seconds       `short:"t" default:"30" env:"YBSNOW_TIMEOUT" help:"HTTP timeout per request, in seconds or as a duration such as 1m30s"`

	OutCSV  string `name:"out-csv" default:"orders.csv" help:"Path to save CSV (empty to skip)"`
	OutXLSX string `name:"out-xlsx" default:"orders.xlsx" help:"Path to save Excel (empty to skip)"`
	OutJSON string `name:"out-json" default:"orders.json" help:"Path to save JSON (empty to skip)"`
	DBFile  string `name:"db-file" default:"orders.db" help:"Path to SQLite database file (empty to skip)"`

	Required []string `default:"order_id,date,total" help:"Columns the Orders table must have"`
	Optional []string `default:"customer,po,workstation,status,due" help:"Columns added empty when missing"`
	SortBy   []string `name:"sort-by" default:"order_id,date" help:"Columns defining output row order"`

	HTML    string `name:"html" help:"Parse a saved Orders page instead of signing in"`
	Preview int    `short:"p" help:"Print the first N rows of the parsed table"`
	Debug   bool   `help:"Log each step to stderr"`
}

// Seconds is a duration flag that also takes a bare number of seconds.
type Seconds time.Duration

// UnmarshalText parses "30" as thirty seconds and "1m30s" as a duration.
func (s *Seconds) UnmarshalText(text []byte) error {
	v := strings.TrimSpace(string(text))
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		*s = Seconds(time.Duration(n * float64(time.Second)))
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: want seconds or a duration such as 30s", v)
	}
	*s = Seconds(d)
	return nil
}

// Config returns the portal configuration given by the flags.
func (c *CLI) Config() orderscrape.Config {
	return orderscrape.Config{
		BaseURL:   c.BaseURL,
		LoginURL:  c.LoginURL,
		OrdersURL: c.OrdersURL,
		Email:     c.Email,
		Password:  c.Password,
		Timeout:   time.Duration(c.Timeout),
		Outputs:   c.Outputs(),
	}
}

// Outputs returns the output paths given by the flags.
func (c *CLI) Outputs() orderscrape.Outputs {
	return orderscrape.Outputs{CSV: c.OutCSV, XLSX: c.OutXLSX, JSON: c.OutJSON, DB: c.DBFile}
}

// Schema returns the column schema given by the flags.
func (c *CLI) Schema() *orderscrape.Schema {
	return &orderscrape.Schema{
		Required:    c.Required,
		Optional:    c.Optional,
		SortColumns: c.SortBy,
	}
}

// Run executes the scrape and reports progress on stdout.
func (c *CLI) Run(deps *Dependencies) error {
	offline := c.HTML != ""
	progress := func(event scrape.ProgressEvent) {
		switch event.Type {
		case scrape.ProgressLogin:
			if !offline {
				fmt.Fprintln(deps.Stdout, "[*] Logging in...")
			}
		case scrape.ProgressFetch:
			if offline {
				fmt.Fprintf(deps.Stdout, "[*] Reading saved Orders page %s...\n", c.HTML)
			} else {
				fmt.Fprintln(deps.Stdout, "[*] Fetching Orders page...")
			}
		case scrape.ProgressParse:
			fmt.Fprintln(deps.Stdout, "[*] Parsing Orders table...")
		case scrape.ProgressParsed:
			fmt.Fprintf(deps.Stdout, "[*] Parsed %d rows and %d columns.\n", event.Rows, event.Columns)
		case scrape.ProgressSaved:
			fmt.Fprintf(deps.Stdout, "  %-5s: %s\n", formatLabel(event.Artifact.Format), event.Artifact.Path)
		case scrape.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "error: %v\n", event.Artifact.Err)
		}
	}

	result, err := deps.Scraper.Run(deps.Ctx, deps.Targets, progress)
	if result != nil && result.Table != nil && c.Preview > 0 {
		fmt.Fprintln(deps.Stdout)
		WritePreview(deps.Stdout, deps.Schema.Canonical(result.Table), c.Preview)
	}
	if err != nil {
		// Failed exports were already reported per artifact.
		if result == nil || result.Export == nil {
			reportError(deps.Stderr, err)
		}
		return err
	}
	return nil
}

func formatLabel(f orderscrape.Format) string {
	switch f {
	case orderscrape.FormatCSV:
		return "CSV"
	case orderscrape.FormatXLSX:
		return "XLSX"
	case orderscrape.FormatJSON:
		return "JSON"
	case orderscrape.FormatSQLite:
		return "DB"
	}
	return string(f)
}
