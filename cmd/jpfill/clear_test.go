package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const filledForm = `<html><body><form>
<input id="name" value="山田 太郎">
<input type="checkbox" name="agree" checked>
<textarea name="note">こんにちは</textarea>
<input type="password" name="pw" value="keep">
</form></body></html>`

func TestNewClearCmd(t *testing.T) {
	t.Parallel()

	cmd := NewClearCmd()
	if cmd.Use != "clear [file|url...]" {
		t.Errorf("expected use 'clear [file|url...]', got %q", cmd.Use)
	}
	for _, name := range []string{"output", "config", "timeout", "user-agent", "max-body-size", "batch"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
}

func TestRunClearCmd(t *testing.T) {
	t.Parallel()

	t.Run("resets values on stdout", func(t *testing.T) {
		t.Parallel()
		form := writeForm(t, t.TempDir(), "filled.html", filledForm)

		stdout, stderr, err := executeCmd(t, "clear", form)
		if err != nil {
			t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
		}
		if strings.Contains(stdout, "山田") || strings.Contains(stdout, "こんにちは") {
			t.Errorf("expected values to be cleared, got %q", stdout)
		}
		if strings.Contains(stdout, "checked") {
			t.Errorf("expected checkbox to be unchecked, got %q", stdout)
		}
		if !strings.Contains(stdout, `value="keep"`) {
			t.Errorf("expected the password to be left alone, got %q", stdout)
		}
		if !strings.Contains(stderr, "Cleared 3 fields") {
			t.Errorf("expected clear count on stderr, got %q", stderr)
		}
	})

	t.Run("writes into output directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		a := writeForm(t, dir, "a.html", filledForm)
		b := writeForm(t, dir, "b.html", filledForm)
		outDir := filepath.Join(dir, "out")

		stdout, _, err := executeCmd(t, "clear", a, b, "-o", outDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}
		for _, name := range []string{"a.filled.html", "b.filled.html"} {
			if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
				t.Errorf("expected %s to be written: %v", name, err)
			}
		}
	})

	t.Run("missing input fails", func(t *testing.T) {
		t.Parallel()
		_, stderr, err := executeCmd(t, "clear", filepath.Join(t.TempDir(), "missing.html"))
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(stderr, "Clear error for") {
			t.Errorf("expected the error on stderr, got %q", stderr)
		}
	})
}
