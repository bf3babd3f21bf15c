package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/dom"
)

var (
	// ErrUnexpectedStatus is returned for HTTP responses outside 2xx.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrNotHTML is returned when a response declares a non-HTML content type.
	ErrNotHTML = errors.New("response is not HTML")

	// ErrUnsupportedScheme is returned for URLs that are neither http(s) nor file.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrBodyTooLarge is returned when the input exceeds the size limit.
	ErrBodyTooLarge = errors.New("input exceeds the maximum body size")
)

// Page is a loaded document.
type Page struct {
	// Source is the input as given by the caller.
	Source string

	// URL is the final location after redirects. For files it is the
	// file:// URL of the absolute path.
	URL string

	// Doc is the parsed live document.
	Doc *dom.Document

	StatusCode  int
	ContentType string
	Title       string
}

// Loader fetches pages over HTTP or from disk.
type Loader struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.client = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(l *Loader) {
		l.userAgent = ua
	}
}

// WithMaxBodySize limits how many bytes are read from a response or file.
func WithMaxBodySize(size int64) Option {
	return func(l *Loader) {
		if size > 0 {
			l.maxBodySize = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader with the configured defaults.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:      &http.Client{Timeout: config.DefaultTimeout},
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsURL reports whether input names an http(s) resource.
func IsURL(input string) bool {
	u, err := url.Parse(input)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load reads input and parses it.
func (l *Loader) Load(ctx context.Context, input string) (*Page, error) {
	if IsURL(input) {
		return l.fetch(ctx, input)
	}
	path := input
	if u, err := url.Parse(input); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		if u.Scheme != "file" {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
		}
		path = u.Path
	}
	return l.readFile(path, input)
}

func (l *Loader) fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.7,en;q=0.3")

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, pageURL, resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, contentType)
	}

	body, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, err
	}

	doc, err := dom.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	l.logger.Debug("fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start),
	)

	return &Page{
		Source:      pageURL,
		URL:         resp.Request.URL.String(),
		Doc:         doc,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Title:       Title(doc),
	}, nil
}

func (l *Loader) readFile(path, source string) (*Page, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	body, err := l.readLimited(f)
	if err != nil {
		return nil, err
	}
	doc, err := dom.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Page{
		Source:      source,
		URL:         (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(),
		Doc:         doc,
		ContentType: "text/html",
		Title:       Title(doc),
	}, nil
}

// readLimited reads at most maxBodySize bytes and fails if more remain.
func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, l.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > l.maxBodySize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, l.maxBodySize)
	}
	return body, nil
}

// isHTML accepts an empty content type and any HTML or XHTML media type.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// Title returns the trimmed text of the first title element.
func Title(doc *dom.Document) string {
	var title string
	doc.Do(func() {
		if els := doc.ByTag("title"); len(els) > 0 {
			title = strings.TrimSpace(els[0].Text())
		}
	})
	return title
}
