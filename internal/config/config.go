package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds one page load, HTTP or browser.
	DefaultTimeout = 30 * time.Second

	// DefaultSettleTimeout bounds the wait for deferred widget writes after
	// a pass returned. Calendar panels take up to a second to appear, so a
	// few seconds leaves room for several widgets.
	DefaultSettleTimeout = 5 * time.Second

	// DefaultBatchSize is the number of pages filled concurrently.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "jpfill"

	// DefaultUserAgent identifies jpfill in HTTP requests.
	DefaultUserAgent = "jpfill/1.0 (+https://github.com/nao1215/jpfill)"

	// DefaultMaxBodySize limits the size of a fetched page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultListenAddress is the address of the API server.
	DefaultListenAddress = ":8080"
)

// Config holds the command line options of jpfill. Settings that change how
// a single page is filled live in Settings and may be overridden per site.
type Config struct {
	// Inputs are the pages to fill: file paths, or http(s) URLs.
	Inputs []string

	// OutputDir receives one filled HTML file per input. When empty the
	// filled HTML of a single input is written to stdout.
	OutputDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Timeout bounds one page load.
	Timeout time.Duration

	// SettleTimeout bounds the wait for deferred widget writes.
	SettleTimeout time.Duration

	// BatchSize is the number of pages filled concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .jpfill in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// File holds the settings loaded from the configuration file.
	File *File

	// JSONReport selects the JSON report. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport selects the Markdown report. Mutually exclusive with
	// JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stderr.
	ReportFile string

	// Seed makes synthetic data reproducible. Zero picks a random seed.
	Seed uint64

	// DBDir is the directory of the SQLite history database.
	// Defaults to the XDG data directory (~/.local/share/jpfill on Linux).
	DBDir string

	// SaveToDB records every pass in the history database.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum page size in bytes.
	MaxBodySize int64

	// Browser loads pages through headless Chrome so that scripted forms
	// are rendered before filling, and writes the values back to the page.
	Browser bool

	// ChromeURL is the DevTools websocket URL of a running Chrome. When
	// empty a local Chrome is started.
	ChromeURL string

	// ListenAddress is the address the API server binds to.
	ListenAddress string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:       DefaultTimeout,
		SettleTimeout: DefaultSettleTimeout,
		BatchSize:     DefaultBatchSize,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		ListenAddress: DefaultListenAddress,
	}
}

// XDGDataDir returns the XDG data directory for jpfill.
// On Linux: ~/.local/share/jpfill
// On macOS: ~/Library/Application Support/jpfill
// On Windows: %LOCALAPPDATA%\jpfill
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for jpfill.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for jpfill. Browser mode keeps
// its Chrome profile here.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid for the fill and clear
// commands. It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}
	return c.validateCommon()
}

// ValidateServe checks the options used by the API server, which takes its
// pages from requests instead of Inputs.
func (c *Config) ValidateServe() error {
	if c.ListenAddress == "" {
		return ErrNoListenAddress
	}
	return c.validateCommon()
}

func (c *Config) validateCommon() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SettleTimeout < 0 {
		return ErrInvalidSettleTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.ChromeURL != "" && !c.Browser {
		return ErrChromeURLWithoutBrowser
	}
	return nil
}
