package filler

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/lexicon"
	"github.com/nao1215/jpfill/internal/model"
	"github.com/nao1215/jpfill/internal/synth"
)

var fixedNow = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

func newFiller(opts ...Option) *Filler {
	base := []Option{
		WithSource(synth.NewSource(42)),
		WithClock(func() time.Time { return fixedNow }),
	}
	return New(append(base, opts...)...)
}

func mustParse(t *testing.T, body string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString("<html><body>" + body + "</body></html>")
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	return doc
}

func settle(t *testing.T, f *Filler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.Settle(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func outcomeFor(t *testing.T, report *model.FillReport, selector string) model.FieldOutcome {
	t.Helper()
	for _, o := range report.Snapshot() {
		if o.Selector == selector {
			return o
		}
	}
	t.Fatalf("no outcome for %s", selector)
	return model.FieldOutcome{}
}

const nativeForm = `
<form>
  <label for="sei">姓</label><input id="sei">
  <label for="mei">名</label><input id="mei">
  <input name="email_address">
  <input type="password" name="pw" value="keep">
  <input type="hidden" name="memo" value="orig">
  <input type="file" name="resume">
  <input name="nickname" readonly>
  <select name="prefecture">
    <option value="">選択してください</option>
    <option value="13">東京都</option>
    <option value="27">大阪府</option>
  </select>
  <input type="submit" value="送信">
</form>`

func TestFillAllNativeControls(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, nativeForm)
	f := newFiller()

	report, err := f.FillAll(context.Background(), doc, "https://example.com/signup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Filled != 4 {
		t.Errorf("expected 4 filled, got %d", report.Filled)
	}
	if report.PassID == "" {
		t.Error("expected a pass id")
	}
	if report.PageContext != model.PageDefault {
		t.Errorf("expected default page context, got %v", report.PageContext)
	}

	var selectors []string
	for _, o := range report.Snapshot() {
		selectors = append(selectors, o.Selector)
	}
	want := []string{"#sei", "#mei", `input[name="email_address"]`, `input[name="pw"]`, `select[name="prefecture"]`}
	if diff := cmp.Diff(want, selectors); diff != "" {
		t.Errorf("outcome selectors mismatch (-want +got):\n%s", diff)
	}

	if o := outcomeFor(t, report, `input[name="pw"]`); o.Status != model.StatusIgnored || o.Value != "" {
		t.Errorf("expected ignored password without value, got %+v", o)
	}
	if o := outcomeFor(t, report, `input[name="email_address"]`); !strings.Contains(o.Value, "@") {
		t.Errorf("expected an email address, got %q", o.Value)
	}
	if o := outcomeFor(t, report, "#sei"); o.FieldType != model.FieldSurnameKanji {
		t.Errorf("expected surname_kanji, got %v", o.FieldType)
	}

	doc.Do(func() {
		if got := doc.ByID("sei").Value(); got == "" {
			t.Error("expected surname to be filled")
		}
		pw := doc.Query(func(e *dom.Element) bool { return e.Name() == "pw" })
		if pw.Value() != "keep" {
			t.Errorf("expected password untouched, got %q", pw.Value())
		}
		hidden := doc.Query(func(e *dom.Element) bool { return e.Name() == "memo" })
		if hidden.Value() != "orig" {
			t.Errorf("expected hidden input untouched, got %q", hidden.Value())
		}
		sel := doc.Query(func(e *dom.Element) bool { return e.Tag() == "select" })
		if sel.SelectedIndex() == 0 {
			t.Error("expected a non-placeholder option to be selected")
		}
		email := doc.Query(func(e *dom.Element) bool { return e.Name() == "email_address" })
		if diff := cmp.Diff([]string{"input", "change", "blur"}, doc.EventsOn(email)); diff != "" {
			t.Errorf("event sequence mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestFillAllHiddenFieldsWhenNotSkipped(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<input type="hidden" name="memo">`)
	f := newFiller(WithSettings(config.Settings{SkipHiddenFields: new(bool)}))

	report, err := f.FillAll(context.Background(), doc, "form.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Filled != 1 {
		t.Fatalf("expected hidden input to be filled, got %d", report.Filled)
	}
	if got := outcomeFor(t, report, `input[name="memo"]`).Value; got != lexicon.GenericText {
		t.Errorf("expected generic text, got %q", got)
	}
}

func TestFillAllLeavesNumberAndURLInputsUntouched(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<input type="number" name="qty"><input type="url" name="x2"><input name="email_address">`)
	f := newFiller()

	report, err := f.FillAll(context.Background(), doc, "form.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Filled != 1 {
		t.Errorf("expected only the email to be filled, got %d", report.Filled)
	}
	for _, tc := range []struct {
		selector string
		ft       model.FieldType
	}{
		{`input[name="qty"]`, model.FieldNumber},
		{`input[name="x2"]`, model.FieldURL},
	} {
		o := outcomeFor(t, report, tc.selector)
		if o.Status != model.StatusUnresolved || o.FieldType != tc.ft || o.Value != "" {
			t.Errorf("expected unresolved %v without value for %s, got %+v", tc.ft, tc.selector, o)
		}
		if v := doc.QueryAll(func(e *dom.Element) bool { return e.Selector() == tc.selector })[0].Value(); v != "" {
			t.Errorf("expected %s to stay empty, got %q", tc.selector, v)
		}
	}
}

func TestFillAllReadonlyFieldsWhenNotSkipped(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<input name="nickname" readonly><input name="code" disabled>`)
	f := newFiller(WithSettings(config.Settings{SkipReadonlyFields: new(bool)}))

	report, err := f.FillAll(context.Background(), doc, "form.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Filled != 2 {
		t.Errorf("expected readonly and disabled inputs to be filled, got %d", report.Filled)
	}
}

func TestFillAllJobPosting(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `
<label for="desc">業務内容</label><textarea id="desc"></textarea>
<label for="title">求人タイトル</label><input id="title">`)
	f := newFiller()

	report, err := f.FillAll(context.Background(), doc, "https://example.com/job-postings/create?draft=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.PageContext != model.PageJobPosting {
		t.Fatalf("expected job-posting context, got %v", report.PageContext)
	}
	if got := outcomeFor(t, report, "#desc").Value; !slices.Contains(lexicon.JobDescriptions, got) {
		t.Errorf("expected a job description template, got %q", got)
	}
	if got := outcomeFor(t, report, "#title").Value; !slices.Contains(lexicon.JobTitles, got) {
		t.Errorf("expected a job title, got %q", got)
	}
}

const widgetForm = `
<div class="el-form-item">
  <label class="el-form-item__label">都道府県</label>
  <div class="el-select" id="pref">
    <div class="el-select__wrapper">
      <span class="el-select__placeholder is-transparent">選択してください</span>
      <input class="el-select__input" readonly>
    </div>
  </div>
</div>
<div class="el-select-dropdown" id="pref-dropdown" style="display: none">
  <ul>
    <li class="el-select-dropdown__item">北海道</li>
    <li class="el-select-dropdown__item">東京都</li>
  </ul>
</div>
<div class="el-form-item">
  <label class="el-form-item__label">年齢</label>
  <div class="el-input-number" id="age"><input class="el-input__inner"></div>
</div>
<div class="el-form-item">
  <label class="el-form-item__label">開始日</label>
  <div class="el-date-editor" id="start"><input class="el-input__inner"></div>
</div>`

// installSelect makes the select fixture open and pick like a component.
func installSelect(doc *dom.Document) {
	trigger := doc.Query(func(e *dom.Element) bool { return e.HasClass("el-select__wrapper") })
	placeholder := doc.Query(func(e *dom.Element) bool { return e.HasClass("el-select__placeholder") })
	panel := doc.ByID("pref-dropdown")

	trigger.AddEventListener(dom.EventClick, func(*dom.Event) { panel.SetVisible(true) })
	for _, item := range doc.ByClass("el-select-dropdown__item") {
		item.AddEventListener(dom.EventClick, func(*dom.Event) {
			placeholder.SetText(item.Text())
			placeholder.RemoveClass("is-transparent")
			panel.SetVisible(false)
		})
	}
}

func TestFillAllWidgets(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, widgetForm)
	doc.Do(func() { installSelect(doc) })
	f := newFiller()

	report, err := f.FillAll(context.Background(), doc, "form.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Filled != 3 {
		t.Errorf("expected 3 filled widgets, got %d", report.Filled)
	}
	if o := outcomeFor(t, report, "#pref"); o.Status != model.StatusDeferred || o.Family != model.FamilySingleSelect {
		t.Errorf("expected deferred single select, got %+v", o)
	}

	settle(t, f)

	if report.Pending() != 0 {
		t.Errorf("expected nothing pending, got %d", report.Pending())
	}
	if o := outcomeFor(t, report, "#pref"); o.Status != model.StatusFilled || (o.Value != "北海道" && o.Value != "東京都") {
		t.Errorf("expected settled prefecture, got %+v", o)
	}

	age := outcomeFor(t, report, "#age")
	n, err := strconv.Atoi(age.Value)
	if err != nil || n < 20 || n > 65 {
		t.Errorf("expected age in [20,65], got %q", age.Value)
	}
	if o := outcomeFor(t, report, "#start"); o.Value != "2026-10-23" {
		t.Errorf("expected start date one week ahead, got %+v", o)
	}

	doc.Do(func() {
		if doc.ByClass("el-select__input")[0].Value() != "" {
			t.Error("expected the select's inner input not to be written natively")
		}
	})
}

func TestFillAllReentrancyGuard(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, nativeForm)
	f := newFiller()
	ctx := context.Background()

	firstDone := make(chan error, 1)
	doc.Do(func() {
		go func() {
			_, err := f.FillAll(ctx, doc, "form.html")
			firstDone <- err
		}()

		deadline := time.Now().Add(2 * time.Second)
		for !f.InProgress(doc) {
			if time.Now().After(deadline) {
				t.Error("first pass never started")
				return
			}
			time.Sleep(time.Millisecond)
		}

		if _, err := f.FillAll(ctx, doc, "form.html"); !errors.Is(err, ErrPassInProgress) {
			t.Errorf("expected ErrPassInProgress, got %v", err)
		}
	})

	if err := <-firstDone; err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	if f.InProgress(doc) {
		t.Error("expected the guard to be released")
	}
	if _, err := f.FillAll(ctx, doc, "form.html"); err != nil {
		t.Errorf("expected a later pass to run, got %v", err)
	}
}

func TestNewPassCancelsStaleContinuations(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, widgetForm)
	doc.Do(func() { installSelect(doc) })
	f := newFiller()
	ctx := context.Background()

	first, err := f.FillAll(ctx, doc, "form.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.FillAll(ctx, doc, "form.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	settle(t, f)

	if o := outcomeFor(t, first, "#pref"); o.Settled {
		t.Errorf("expected the first pass continuation to be dropped, got %+v", o)
	}
	if o := outcomeFor(t, second, "#pref"); !o.Settled || o.Status != model.StatusFilled {
		t.Errorf("expected the second pass to settle, got %+v", o)
	}

	doc.Do(func() {
		gestures := 0
		for _, item := range doc.ByClass("el-select-dropdown__item") {
			for _, ev := range doc.EventsOn(item) {
				if ev == dom.EventClick {
					gestures++
				}
			}
		}
		if gestures != 1 {
			t.Errorf("expected exactly one option click, got %d", gestures)
		}
	})
}

func TestFillAllRecoversFromPanickingControl(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<input id="boom" name="company"><input id="ok" name="email">`)
	doc.Do(func() {
		doc.ByID("boom").AddEventListener(dom.EventInput, func(*dom.Event) { panic("listener exploded") })
	})
	f := newFiller()

	report, err := f.FillAll(context.Background(), doc, "form.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o := outcomeFor(t, report, "#boom"); o.Status != model.StatusFailed {
		t.Errorf("expected failed outcome, got %+v", o)
	}
	if o := outcomeFor(t, report, "#ok"); o.Status != model.StatusFilled {
		t.Errorf("expected the next control to be filled, got %+v", o)
	}
	if report.Filled != 1 {
		t.Errorf("expected 1 filled, got %d", report.Filled)
	}
}

func TestClearAll(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, nativeForm+`<input type="checkbox" name="agree" checked>`)
	f := newFiller()

	if _, err := f.FillAll(context.Background(), doc, "form.html"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settle(t, f)

	// sei, mei, email_address, nickname, prefecture, agree
	if got := f.ClearAll(doc); got != 6 {
		t.Errorf("expected 6 cleared controls, got %d", got)
	}

	doc.Do(func() {
		if doc.ByID("sei").Value() != "" {
			t.Error("expected surname to be cleared")
		}
		sel := doc.Query(func(e *dom.Element) bool { return e.Tag() == "select" })
		if sel.SelectedIndex() != 0 {
			t.Errorf("expected first option, got %d", sel.SelectedIndex())
		}
		agree := doc.Query(func(e *dom.Element) bool { return e.Name() == "agree" })
		if agree.Checked() {
			t.Error("expected checkbox to be unchecked")
		}
		pw := doc.Query(func(e *dom.Element) bool { return e.Name() == "pw" })
		if pw.Value() != "keep" {
			t.Errorf("expected password untouched, got %q", pw.Value())
		}
	})
}

func TestRelease(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, widgetForm)
	f := newFiller()

	report, err := f.FillAll(context.Background(), doc, "form.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.Release(doc)
	settle(t, f)

	if report.Pending() != 1 {
		t.Errorf("expected the select to stay pending after release, got %d", report.Pending())
	}
}
