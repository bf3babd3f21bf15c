package browser

import (
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/jpfill/internal/model"
)

func TestApplyScript(t *testing.T) {
	t.Parallel()

	t.Run("native text is written by value", func(t *testing.T) {
		t.Parallel()

		script, ok := applyScript(model.FieldOutcome{
			Selector: "#sei", Family: model.FamilyNativeText, Value: `佐藤"`, Status: model.StatusFilled,
		})
		if !ok {
			t.Fatal("expected a script")
		}
		if !strings.HasSuffix(script, `("#sei", "佐藤\"", "value")`) {
			t.Errorf("unexpected arguments in %s", script)
		}
	})

	t.Run("radio and checkbox kinds", func(t *testing.T) {
		t.Parallel()

		radio, _ := applyScript(model.FieldOutcome{
			Selector: `input[name="gender"]`, Family: model.FamilyNativeRadio, Value: "female", Status: model.StatusFilled,
		})
		if !strings.Contains(radio, `"radio")`) {
			t.Errorf("expected radio kind in %s", radio)
		}
		checkbox, _ := applyScript(model.FieldOutcome{
			Selector: "#agree", Family: model.FamilyNativeCheckbox, Value: "true", Status: model.StatusFilled,
		})
		if !strings.Contains(checkbox, `"checkbox")`) {
			t.Errorf("expected checkbox kind in %s", checkbox)
		}
	})

	t.Run("skips widgets and uncounted outcomes", func(t *testing.T) {
		t.Parallel()

		skipped := []model.FieldOutcome{
			{Selector: "#pref", Family: model.FamilySingleSelect, Value: "東京都", Status: model.StatusDeferred},
			{Selector: "#age", Family: model.FamilyNumeric, Value: "30", Status: model.StatusFilled},
			{Selector: "#pw", Family: model.FamilyNativeText, Status: model.StatusIgnored},
			{Selector: "#x", Family: model.FamilyNativeText, Status: model.StatusFailed},
		}
		for _, o := range skipped {
			if _, ok := applyScript(o); ok {
				t.Errorf("expected no script for %+v", o)
			}
		}
	})
}

func TestQuerySelector(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		selector string
		expected string
	}{
		{"#email", "#email"},
		{`input[name="tel"]`, `input[name="tel"]`},
		{"form:nth-of-type(1) > input:nth-of-type(2)", "body > form:nth-of-type(1) > input:nth-of-type(2)"},
	}
	for _, tc := range testCases {
		t.Run(tc.selector, func(t *testing.T) {
			t.Parallel()
			if got := querySelector(tc.selector); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestSessionClosed(t *testing.T) {
	t.Parallel()

	s := NewSession(Config{})
	s.Close()
	s.Close()

	if _, err := s.Apply(t.Context(), "https://example.com", model.FillReportData{}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestNewSessionDefaults(t *testing.T) {
	t.Parallel()

	s := NewSession(Config{})
	defer s.Close()

	if s.cfg.Locale != DefaultLocale {
		t.Errorf("expected locale %q, got %q", DefaultLocale, s.cfg.Locale)
	}
	if s.cfg.TimezoneID != DefaultTimezoneID {
		t.Errorf("expected timezone %q, got %q", DefaultTimezoneID, s.cfg.TimezoneID)
	}
	if s.cfg.Timeout <= 0 {
		t.Errorf("expected positive timeout, got %v", s.cfg.Timeout)
	}

	custom := NewSession(Config{Locale: "en-US", TimezoneID: "UTC"})
	defer custom.Close()
	if custom.cfg.Locale != "en-US" || custom.cfg.TimezoneID != "UTC" {
		t.Errorf("expected overrides to be kept, got %q %q", custom.cfg.Locale, custom.cfg.TimezoneID)
	}
}

func TestSessionLoadAfterClose(t *testing.T) {
	t.Parallel()

	s := NewSession(Config{})
	s.Close()

	if _, err := s.Load(t.Context(), "https://example.com"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
