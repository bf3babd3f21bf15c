package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/database"
	"github.com/nao1215/jpfill/internal/report"
)

const contactForm = `<html><body><form>
<label for="sei">姓</label><input id="sei">
<label for="mei">名</label><input id="mei">
<input name="email_address">
<input type="password" name="pw" value="keep">
</form></body></html>`

// writeForm writes markup to name inside dir and returns the path.
func writeForm(t *testing.T, dir, name, markup string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(markup), 0600); err != nil {
		t.Fatalf("failed to write form: %v", err)
	}
	return path
}

// executeCmd runs the root command with args and returns stdout and stderr.
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewFillCmd(t *testing.T) {
	t.Parallel()

	cmd := NewFillCmd()

	if cmd.Use != "fill [file|url...]" {
		t.Errorf("expected use 'fill [file|url...]', got %q", cmd.Use)
	}

	testCases := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"output", "o", ""},
		{"json", "j", "false"},
		{"markdown", "m", "false"},
		{"report-file", "r", ""},
		{"seed", "s", "0"},
		{"settle-timeout", "S", config.DefaultSettleTimeout.String()},
		{"config", "c", ""},
		{"timeout", "t", config.DefaultTimeout.String()},
		{"user-agent", "u", config.DefaultUserAgent},
		{"batch", "b", "4"},
		{"browser", "B", "false"},
		{"chrome-url", "", ""},
		{"no-save", "", "false"},
		{"db-dir", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tc.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tc.name)
			}
			if flag.Shorthand != tc.shorthand {
				t.Errorf("expected shorthand %q, got %q", tc.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tc.defValue {
				t.Errorf("expected default %q, got %q", tc.defValue, flag.DefValue)
			}
		})
	}
}

func TestBuildFillConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cmd := NewFillCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg, err := buildFillConfig(cmd, []string{"form.html"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.SaveToDB {
			t.Error("expected passes to be saved by default")
		}
		if cfg.DBDir != config.XDGDataDir() {
			t.Errorf("expected XDG data dir, got %q", cfg.DBDir)
		}
		if cfg.File == nil {
			t.Error("expected an empty configuration file")
		}
		if len(cfg.Inputs) != 1 || cfg.Inputs[0] != "form.html" {
			t.Errorf("expected inputs [form.html], got %v", cfg.Inputs)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()
		dbDir := t.TempDir()
		cmd := NewFillCmd()
		err := cmd.ParseFlags([]string{"--no-save", "--db-dir", dbDir, "--seed", "9", "-b", "2", "--json"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg, err := buildFillConfig(cmd, []string{"a.html"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SaveToDB {
			t.Error("expected --no-save to disable saving")
		}
		if cfg.DBDir != dbDir {
			t.Errorf("expected db dir %q, got %q", dbDir, cfg.DBDir)
		}
		if cfg.Seed != 9 || cfg.BatchSize != 2 || !cfg.JSONReport {
			t.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("explicit config file must exist", func(t *testing.T) {
		t.Parallel()
		cmd := NewFillCmd()
		missing := filepath.Join(t.TempDir(), "missing.yaml")
		if err := cmd.ParseFlags([]string{"-c", missing}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := buildFillConfig(cmd, []string{"a.html"})
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}

func TestLoadSettingsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jpfill.yaml")
	content := "defaults:\n  phoneStyle: landline\nsites:\n  example.jp:\n    defaultGender: female\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	file, err := loadSettingsFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := file.SettingsForURL("https://example.jp/signup")
	if got.PhoneStyle != "landline" || got.DefaultGender != "female" {
		t.Errorf("expected merged site settings, got %+v", got)
	}
}

func TestRunFillCmd(t *testing.T) {
	t.Parallel()

	t.Run("single input goes to stdout", func(t *testing.T) {
		t.Parallel()
		form := writeForm(t, t.TempDir(), "contact.html", contactForm)

		stdout, stderr, err := executeCmd(t, "fill", form, "--no-save", "--seed", "7")
		if err != nil {
			t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
		}
		if !strings.Contains(stdout, "<form>") {
			t.Errorf("expected the filled page on stdout, got %q", stdout)
		}
		if !strings.Contains(stdout, "@") {
			t.Errorf("expected an email address in the page, got %q", stdout)
		}
		if !strings.Contains(stdout, `value="keep"`) {
			t.Errorf("expected the password to be left alone, got %q", stdout)
		}
		if !strings.Contains(stderr, report.Notice(3)) {
			t.Errorf("expected the report with %q on stderr, got %q", report.Notice(3), stderr)
		}
	})

	t.Run("same seed fills the same values", func(t *testing.T) {
		t.Parallel()
		form := writeForm(t, t.TempDir(), "contact.html", contactForm)

		first, _, err := executeCmd(t, "fill", form, "--no-save", "--seed", "11")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, _, err := executeCmd(t, "fill", form, "--no-save", "--seed", "11")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first != second {
			t.Errorf("expected identical pages, got\n%s\nand\n%s", first, second)
		}
	})

	t.Run("batch writes pages, reports and history", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		a := writeForm(t, dir, "a.html", contactForm)
		b := writeForm(t, dir, "b.html", contactForm)
		outDir := filepath.Join(dir, "out")
		dbDir := filepath.Join(dir, "db")
		reportFile := filepath.Join(dir, "reports", "fill.json")

		_, stderr, err := executeCmd(t, "fill", a, b,
			"-o", outDir, "--db-dir", dbDir, "--json", "-r", reportFile)
		if err != nil {
			t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
		}

		for _, name := range []string{"a.filled.html", "b.filled.html"} {
			if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
				t.Errorf("expected %s to be written: %v", name, err)
			}
		}

		f, err := os.Open(reportFile)
		if err != nil {
			t.Fatalf("failed to open report: %v", err)
		}
		defer f.Close()
		dec := json.NewDecoder(f)
		reports := 0
		for {
			var r report.JSONReport
			if err := dec.Decode(&r); errors.Is(err, io.EOF) {
				break
			} else if err != nil {
				t.Fatalf("failed to decode report: %v", err)
			}
			reports++
			if r.Summary.Filled != 3 {
				t.Errorf("expected 3 filled fields, got %d", r.Summary.Filled)
			}
		}
		if reports != 2 {
			t.Errorf("expected 2 reports, got %d", reports)
		}
		if strings.Count(stderr, report.Notice(3)) != 2 {
			t.Errorf("expected a notice per page on stderr, got %q", stderr)
		}

		db, err := database.Open(dbDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		sources, err := db.ListSources(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sources) != 2 {
			t.Errorf("expected 2 recorded pages, got %v", sources)
		}
	})

	t.Run("missing input fails", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "missing.html")

		_, stderr, err := executeCmd(t, "fill", missing, "--no-save")
		if err == nil || !strings.Contains(err.Error(), "1 of 1 inputs failed") {
			t.Errorf("expected failure count error, got %v", err)
		}
		if !strings.Contains(stderr, "Fill error for") {
			t.Errorf("expected the error on stderr, got %q", stderr)
		}
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		t.Parallel()
		testCases := []struct {
			name     string
			args     []string
			expected error
		}{
			{"no inputs", []string{"fill", "--no-save"}, config.ErrNoInput},
			{"json and markdown", []string{"fill", "a.html", "--json", "--markdown", "--no-save"}, config.ErrConflictingReportFormats},
			{"chrome url without browser", []string{"fill", "a.html", "--chrome-url", "ws://127.0.0.1:9222", "--no-save"}, config.ErrChromeURLWithoutBrowser},
			{"zero batch", []string{"fill", "a.html", "-b", "0", "--no-save"}, config.ErrInvalidBatchSize},
			{"several inputs without output", []string{"fill", "a.html", "b.html", "--no-save"}, errOutputDirRequired},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				_, _, err := executeCmd(t, tc.args...)
				if !errors.Is(err, tc.expected) {
					t.Errorf("expected %v, got %v", tc.expected, err)
				}
			})
		}
	})
}

func TestBrowserInputs(t *testing.T) {
	t.Parallel()

	abs, err := filepath.Abs("form.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := browserInputs([]string{"https://example.jp/signup", "file:///tmp/a.html", "form.html"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != "https://example.jp/signup" {
		t.Errorf("expected URL to be kept, got %q", got[0])
	}
	if got[1] != "file:///tmp/a.html" {
		t.Errorf("expected file URL to be kept, got %q", got[1])
	}
	if !strings.HasPrefix(got[2], "file://") || !strings.HasSuffix(got[2], filepath.ToSlash(abs)) {
		t.Errorf("expected file URL for %s, got %q", abs, got[2])
	}
}

func TestOpenReportOutput(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses fallback", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		out, closeFn, err := openReportOutput("", &buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer closeFn()
		if out != &buf {
			t.Error("expected the fallback writer")
		}
	})

	t.Run("creates file owner-readable", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("skipping permission test on Windows")
		}
		path := filepath.Join(t.TempDir(), "nested", "report.txt")
		_, closeFn, err := openReportOutput(path, io.Discard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		closeFn()

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("failed to stat report: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected permissions 0600, got %o", perm)
		}
	})
}

func TestNewReportWriter(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"json", config.Config{JSONReport: true}, "*report.FullJSONWriter"},
		{"markdown", config.Config{MarkdownReport: true}, "*report.MarkdownWriter"},
		{"simple", config.Config{}, "*report.SimpleWriter"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := newReportWriter(&tc.cfg, io.Discard)
			var got string
			switch w.(type) {
			case *report.FullJSONWriter:
				got = "*report.FullJSONWriter"
			case *report.MarkdownWriter:
				got = "*report.MarkdownWriter"
			case *report.SimpleWriter:
				got = "*report.SimpleWriter"
			}
			if got != tc.want {
				t.Errorf("expected %s, got %T", tc.want, w)
			}
		})
	}
}
