package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/fetch"
	"github.com/nao1215/jpfill/internal/model"
)

// Emulation defaults.
const (
	DefaultLocale     = "ja-JP"
	DefaultTimezoneID = "Asia/Tokyo"
)

var (
	// ErrClosed is returned by a Session after Close.
	ErrClosed = errors.New("browser session is closed")

	// ErrNoTab is returned by Apply for a URL that was never loaded.
	ErrNoTab = errors.New("no tab for URL")

	// ErrTimeout is returned when a browser operation exceeds the timeout.
	ErrTimeout = errors.New("browser operation timed out")
)

// Config configures a Session.
type Config struct {
	// RemoteURL is the DevTools websocket URL of a running Chrome. When
	// empty, a headless Chrome is started.
	RemoteURL string

	// Timeout bounds a page load or an apply.
	Timeout time.Duration

	// UserAgent overrides the browser user agent.
	UserAgent string

	// ProfileDir is the user data directory of a started Chrome.
	ProfileDir string

	// NoSandbox runs Chrome without sandbox (required for Docker/root).
	NoSandbox bool

	// Locale and TimezoneID are emulated in every tab so that pages render
	// their Japanese variants. They default to ja-JP and Asia/Tokyo.
	Locale     string
	TimezoneID string

	Logger *slog.Logger
}

// Session owns one browser and one tab per loaded URL.
type Session struct {
	cfg    Config
	logger *slog.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	startOnce sync.Once
	startErr  error

	mu     sync.Mutex
	tabs   map[string]*tab
	closed bool
}

type tab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSession prepares a browser. Chrome itself starts lazily with the first
// Load.
func NewSession(cfg Config) *Session {
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.TimezoneID == "" {
		cfg.TimezoneID = DefaultTimezoneID
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if cfg.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), allocatorOptions(cfg)...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		}),
	)

	return &Session{
		cfg:           cfg,
		logger:        logger,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		tabs:          make(map[string]*tab),
	}
}

func allocatorOptions(cfg Config) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("lang", "ja-JP"),
		chromedp.WindowSize(1280, 900),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.ProfileDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.ProfileDir))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return opts
}

// Load navigates a tab to pageURL, waits for the body and parses the
// rendered markup. Loading the same URL again replaces its tab.
func (s *Session) Load(ctx context.Context, pageURL string) (*fetch.Page, error) {
	t, err := s.openTab(pageURL)
	if err != nil {
		return nil, err
	}

	var markup, location, title string
	start := time.Now()
	err = s.run(ctx, t, "load",
		emulation.SetLocaleOverride().WithLocale(s.cfg.Locale),
		emulation.SetTimezoneOverride(s.cfg.TimezoneID),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
		chromedp.Location(&location),
		chromedp.Title(&title),
	)
	if err != nil {
		return nil, err
	}

	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("rendered page in browser",
		"url", location,
		"bytes", len(markup),
		"elapsed", time.Since(start),
	)

	return &fetch.Page{
		Source:      pageURL,
		URL:         location,
		Doc:         doc,
		ContentType: "text/html",
		Title:       title,
	}, nil
}

// Apply writes the counted native outcomes of a pass into the tab of
// pageURL and returns how many controls were found and written. Widget
// outcomes are left out: their values only exist in the parsed document.
func (s *Session) Apply(ctx context.Context, pageURL string, data model.FillReportData) (int, error) {
	s.mu.Lock()
	t, ok := s.tabs[pageURL]
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoTab, pageURL)
	}

	applied := 0
	for _, o := range data.Outcomes {
		script, ok := applyScript(o)
		if !ok {
			continue
		}
		var found bool
		if err := s.run(ctx, t, "apply", chromedp.Evaluate(script, &found)); err != nil {
			return applied, err
		}
		if !found {
			s.logger.Warn("control not found in browser", "selector", o.Selector)
			continue
		}
		applied++
	}
	return applied, nil
}

// HTML returns the current markup of the tab of pageURL.
func (s *Session) HTML(ctx context.Context, pageURL string) (string, error) {
	s.mu.Lock()
	t, ok := s.tabs[pageURL]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoTab, pageURL)
	}
	var markup string
	if err := s.run(ctx, t, "html", chromedp.OuterHTML("html", &markup, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return markup, nil
}

// Close shuts every tab and the browser down.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for url, t := range s.tabs {
		t.cancel()
		delete(s.tabs, url)
	}
	s.mu.Unlock()

	s.browserCancel()
	s.allocCancel()
}

// start launches or connects to the browser. Tabs created before the
// browser runs would each allocate their own.
func (s *Session) start() error {
	s.startOnce.Do(func() {
		if err := chromedp.Run(s.browserCtx); err != nil {
			s.startErr = fmt.Errorf("failed to start browser: %w", err)
		}
	})
	return s.startErr
}

func (s *Session) openTab(pageURL string) (*tab, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	if err := s.start(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if old, ok := s.tabs[pageURL]; ok {
		old.cancel()
	}

	tabCtx, cancel := chromedp.NewContext(s.browserCtx)
	t := &tab{ctx: tabCtx, cancel: cancel}
	s.tabs[pageURL] = t
	return t, nil
}

// run executes actions in t, bounded by the session timeout and by ctx.
func (s *Session) run(ctx context.Context, t *tab, op string, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(t.ctx, s.cfg.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s after %v", ErrTimeout, op, s.cfg.Timeout)
		}
		return fmt.Errorf("browser %s failed: %w", op, err)
	}
	return nil
}
