package orderscrape

import (
	"net/url"
	"strings"
	"time"
)

// Configuration defaults.
const (
	DefaultBaseURL = "https://www.ybsnow.com/"
	DefaultTimeout = 30 * time.Second

	// LoginPath is appended to the base URL when no login URL is given.
	LoginPath = "index.php"
)

// Config holds the resolved settings for one scrape.
type Config struct {
	BaseURL   string
	LoginURL  string
	OrdersURL string
	Email     string
	Password  string
	Timeout   time.Duration
	Outputs   Outputs
}

// Outputs holds the artifact paths. Empty paths are skipped.
type Outputs struct {
	CSV  string
	XLSX string
	JSON string
	DB   string
}

// Targets returns the configured output targets in a fixed order.
func (o Outputs) Targets() []Target {
	var targets []Target
	add := func(f Format, path string) {
		if path != "" {
			targets = append(targets, Target{Format: f, Path: path})
		}
	}
	add(FormatCSV, o.CSV)
	add(FormatXLSX, o.XLSX)
	add(FormatJSON, o.JSON)
	add(FormatSQLite, o.DB)
	return targets
}

// LoginURLFor derives the login URL from a base URL.
func LoginURLFor(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + LoginPath
}

// Validate returns an error if the config contains invalid fields.
// An empty LoginURL is filled in from BaseURL and a zero Timeout is
// replaced with DefaultTimeout.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.LoginURL == "" {
		c.LoginURL = LoginURLFor(c.BaseURL)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	for _, f := range []struct{ name, raw string }{
		{"base URL", c.BaseURL},
		{"login URL", c.LoginURL},
		{"orders URL", c.OrdersURL},
	} {
		name, raw := f.name, f.raw
		if raw == "" {
			return Errorf(EINVALID, "%s required", name)
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Errorf(EINVALID, "invalid %s %q", name, raw)
		}
	}

	if c.Email == "" || c.Password == "" {
		return Errorf(EINVALID, "email and password required")
	}
	if len(c.Outputs.Targets()) == 0 {
		return Errorf(EINVALID, "at least one output path required")
	}
	return nil
}
