package lexicon

import (
	"strings"
	"testing"
)

func TestPrefectures(t *testing.T) {
	t.Parallel()

	if len(Prefectures) != 47 {
		t.Errorf("expected 47 prefectures, got %d", len(Prefectures))
	}

	seen := make(map[string]bool, len(Prefectures))
	for _, p := range Prefectures {
		if seen[p] {
			t.Errorf("duplicate prefecture %q", p)
		}
		seen[p] = true
	}
}

func TestCitiesOf(t *testing.T) {
	t.Parallel()

	t.Run("prefecture with a table", func(t *testing.T) {
		t.Parallel()
		got := CitiesOf("東京都")
		if len(got) == 0 || got[0] != "千代田区" {
			t.Errorf("expected Tokyo wards, got %v", got)
		}
	})

	t.Run("prefecture without a table falls back to placeholder", func(t *testing.T) {
		t.Parallel()
		got := CitiesOf("沖縄県")
		if len(got) != 1 || got[0] != PlaceholderCity {
			t.Errorf("expected [%s], got %v", PlaceholderCity, got)
		}
	})

	t.Run("every table key is a known prefecture", func(t *testing.T) {
		t.Parallel()
		known := make(map[string]bool)
		for _, p := range Prefectures {
			known[p] = true
		}
		for p := range cities {
			if !known[p] {
				t.Errorf("city table for unknown prefecture %q", p)
			}
		}
	})
}

func TestNameEntriesAreComplete(t *testing.T) {
	t.Parallel()

	tables := map[string][]NameEntry{
		"surnames": Surnames,
		"male":     MaleGivenNames,
		"female":   FemaleGivenNames,
	}
	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if len(table) == 0 {
				t.Fatal("table is empty")
			}
			for _, e := range table {
				if e.Kanji == "" || e.Hiragana == "" || e.Katakana == "" || e.Romaji == "" {
					t.Errorf("incomplete entry %+v", e)
				}
				if strings.ContainsAny(e.Romaji, " .@") {
					t.Errorf("romaji %q cannot be used in an email local part", e.Romaji)
				}
			}
		})
	}
}
