package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const formPage = `<html><head><title> Contact </title></head><body>
<form><input id="email" type="email"></form>
</body></html>`

func quietLoader(opts ...Option) *Loader {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewLoader(opts...)
}

func TestLoadURL(t *testing.T) {
	t.Parallel()

	t.Run("parses an HTML response", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, formPage)
		}))
		defer srv.Close()

		page, err := quietLoader(WithUserAgent("jpfill-test")).Load(context.Background(), srv.URL+"/contact")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotUA != "jpfill-test" {
			t.Errorf("expected custom user agent, got %q", gotUA)
		}
		if page.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", page.StatusCode)
		}
		if page.Title != "Contact" {
			t.Errorf("expected title Contact, got %q", page.Title)
		}
		if page.URL != srv.URL+"/contact" {
			t.Errorf("expected final URL, got %q", page.URL)
		}
		var found bool
		page.Doc.Do(func() { found = page.Doc.ByID("email") != nil })
		if !found {
			t.Error("expected the email input in the parsed document")
		}
	})

	t.Run("rejects error statuses", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := quietLoader().Load(context.Background(), srv.URL)
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("expected ErrUnexpectedStatus, got %v", err)
		}
	})

	t.Run("rejects non-HTML responses", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{}`)
		}))
		defer srv.Close()

		_, err := quietLoader().Load(context.Background(), srv.URL)
		if !errors.Is(err, ErrNotHTML) {
			t.Errorf("expected ErrNotHTML, got %v", err)
		}
	})

	t.Run("enforces the body limit", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, strings.Repeat("a", 2048))
		}))
		defer srv.Close()

		_, err := quietLoader(WithMaxBodySize(1024)).Load(context.Background(), srv.URL)
		if !errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("expected ErrBodyTooLarge, got %v", err)
		}
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, formPage)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := quietLoader().Load(ctx, srv.URL); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "form.html")
	if err := os.WriteFile(path, []byte(formPage), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	t.Run("plain path", func(t *testing.T) {
		t.Parallel()

		page, err := quietLoader().Load(context.Background(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Source != path {
			t.Errorf("expected source %q, got %q", path, page.Source)
		}
		if !strings.HasPrefix(page.URL, "file://") {
			t.Errorf("expected file URL, got %q", page.URL)
		}
		if page.Title != "Contact" {
			t.Errorf("expected title Contact, got %q", page.Title)
		}
	})

	t.Run("file URL", func(t *testing.T) {
		t.Parallel()

		page, err := quietLoader().Load(context.Background(), "file://"+filepath.ToSlash(path))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Title != "Contact" {
			t.Errorf("expected title Contact, got %q", page.Title)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := quietLoader().Load(context.Background(), filepath.Join(dir, "missing.html"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		t.Parallel()

		_, err := quietLoader().Load(context.Background(), "ftp://example.com/form.html")
		if !errors.Is(err, ErrUnsupportedScheme) {
			t.Errorf("expected ErrUnsupportedScheme, got %v", err)
		}
	})
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected bool
	}{
		{"https://example.com/form", true},
		{"http://localhost:8080", true},
		{"form.html", false},
		{"file:///tmp/form.html", false},
		{"https://", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := IsURL(tc.input); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}
