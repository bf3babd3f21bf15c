package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/model"
)

const contactForm = `<html><body><form>
<label for="sei">姓</label><input id="sei">
<label for="mei">名</label><input id="mei">
<input type="password" name="pw" value="keep">
</form></body></html>`

func newTestServer(opts ...Option) *Server {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithSeed(42),
		WithSettleTimeout(time.Second),
		WithVersion("test"),
	}
	return New(append(base, opts...)...)
}

// do sends body to path and decodes the envelope's data into out.
func do(t *testing.T, s *Server, method, path, body string, out any) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var env struct {
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
		Success bool            `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("invalid data %s: %v", env.Data, err)
		}
	}
	return rec, Envelope{Error: env.Error, Success: env.Success}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	var health HealthResponse
	rec, env := do(t, newTestServer(), http.MethodGet, "/health", "", &health)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 success, got %d %+v", rec.Code, env)
	}
	if health.Status != "healthy" || health.Version != "test" {
		t.Errorf("unexpected health %+v", health)
	}
	if rec.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}

func TestFill(t *testing.T) {
	t.Parallel()

	t.Run("fills and returns markup and report", func(t *testing.T) {
		t.Parallel()

		var resp FillResponse
		rec, env := do(t, newTestServer(), http.MethodPost, "/api/v1/fill",
			mustJSON(t, FillRequest{HTML: contactForm}), &resp)
		if rec.Code != http.StatusOK || !env.Success {
			t.Fatalf("expected 200 success, got %d %+v", rec.Code, env)
		}
		if resp.Count != 2 {
			t.Errorf("expected 2 filled, got %d", resp.Count)
		}
		if resp.Notice != "2 件のフィールドを入力しました" {
			t.Errorf("unexpected notice %q", resp.Notice)
		}
		if resp.Report.PassID == "" || len(resp.Report.Outcomes) != 3 {
			t.Errorf("unexpected report %+v", resp.Report)
		}
		if !strings.Contains(resp.HTML, `value="keep"`) {
			t.Error("expected the password to keep its value")
		}
		if resp.Report.FinishedAt.IsZero() {
			t.Error("expected a finish time")
		}
	})

	t.Run("url decides the page context", func(t *testing.T) {
		t.Parallel()

		var resp FillResponse
		body := mustJSON(t, FillRequest{
			HTML: `<html><body><textarea name="description"></textarea></body></html>`,
			URL:  "https://ats.example/job-postings/create",
		})
		if rec, _ := do(t, newTestServer(), http.MethodPost, "/api/v1/fill", body, &resp); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if resp.Report.PageContext != model.PageJobPosting {
			t.Errorf("expected job posting context, got %v", resp.Report.PageContext)
		}
	})

	t.Run("accepts camel case settings keys", func(t *testing.T) {
		t.Parallel()

		form := `<html><body><label for="n">氏名</label><input id="n"><input type="hidden" name="memo"></body></html>`
		post := func(settings string) FillResponse {
			t.Helper()
			var resp FillResponse
			body := `{"html":` + mustJSON(t, form) + `,"settings":` + settings + `}`
			rec, env := do(t, newTestServer(), http.MethodPost, "/api/v1/fill", body, &resp)
			if rec.Code != http.StatusOK || !env.Success {
				t.Fatalf("expected 200 success, got %d %+v", rec.Code, env)
			}
			return resp
		}

		givenFirst := post(`{"skipHiddenFields":false,"skipReadonlyFields":true,"defaultGender":"female","nameFormat":"given-first"}`)
		surnameFirst := post(`{"nameFormat":"surname-first","defaultGender":"female"}`)

		if len(givenFirst.Report.Outcomes) != 2 {
			t.Errorf("expected the hidden input to be filled, got %+v", givenFirst.Report.Outcomes)
		}
		a := nameValue(t, givenFirst)
		b := nameValue(t, surnameFirst)
		first, second, ok := strings.Cut(b, " ")
		if !ok {
			t.Fatalf("expected a space separated name, got %q", b)
		}
		if a != second+" "+first {
			t.Errorf("expected %q reversed, got %q", b, a)
		}
	})

	t.Run("request settings override site settings", func(t *testing.T) {
		t.Parallel()

		skip := true
		noSkip := false
		file := &config.File{Sites: map[string]config.Settings{
			"ats.example": {SkipHiddenFields: &noSkip},
		}}
		form := `<html><body><input type="hidden" name="memo"></body></html>`

		var viaSite FillResponse
		do(t, newTestServer(WithConfigFile(file)), http.MethodPost, "/api/v1/fill",
			mustJSON(t, FillRequest{HTML: form, URL: "https://ats.example/contact"}), &viaSite)
		if len(viaSite.Report.Outcomes) != 1 {
			t.Errorf("expected the site entry to include hidden inputs, got %+v", viaSite.Report.Outcomes)
		}

		var viaRequest FillResponse
		do(t, newTestServer(WithConfigFile(file)), http.MethodPost, "/api/v1/fill",
			mustJSON(t, FillRequest{HTML: form, URL: "https://ats.example/contact", Settings: &config.Settings{SkipHiddenFields: &skip}}), &viaRequest)
		if len(viaRequest.Report.Outcomes) != 0 {
			t.Errorf("expected the request to skip hidden inputs, got %+v", viaRequest.Report.Outcomes)
		}
	})

	t.Run("validation errors", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name   string
			body   string
			status int
		}{
			{"missing html", `{"url":"https://example.com"}`, http.StatusUnprocessableEntity},
			{"invalid url", `{"html":"<p></p>","url":"not a url"}`, http.StatusUnprocessableEntity},
			{"invalid setting", `{"html":"<p></p>","settings":{"defaultGender":"other"}}`, http.StatusUnprocessableEntity},
			{"unknown field", `{"html":"<p></p>","colour":"red"}`, http.StatusBadRequest},
			{"malformed json", `{"html":`, http.StatusBadRequest},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				rec, env := do(t, newTestServer(), http.MethodPost, "/api/v1/fill", tc.body, nil)
				if rec.Code != tc.status {
					t.Errorf("expected %d, got %d (%s)", tc.status, rec.Code, env.Error)
				}
				if env.Success || env.Error == "" {
					t.Errorf("expected an error envelope, got %+v", env)
				}
			})
		}
	})

	t.Run("body limit", func(t *testing.T) {
		t.Parallel()

		body := mustJSON(t, FillRequest{HTML: strings.Repeat("a", 4096)})
		rec, _ := do(t, newTestServer(WithMaxBodySize(1024)), http.MethodPost, "/api/v1/fill", body, nil)
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("expected 413, got %d", rec.Code)
		}
	})

	t.Run("content type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/fill", strings.NewReader("html=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		newTestServer().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnsupportedMediaType {
			t.Errorf("expected 415, got %d", rec.Code)
		}
	})
}

func TestClear(t *testing.T) {
	t.Parallel()

	var resp ClearResponse
	body := mustJSON(t, ClearRequest{HTML: `<html><body><input id="a" value="x"><input type="password" value="keep"></body></html>`})
	rec, env := do(t, newTestServer(), http.MethodPost, "/api/v1/clear", body, &resp)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 success, got %d %+v", rec.Code, env)
	}
	if resp.Count != 1 {
		t.Errorf("expected 1 cleared control, got %d", resp.Count)
	}
	if !strings.Contains(resp.HTML, `value="keep"`) {
		t.Error("expected the password to be left alone")
	}
	if strings.Contains(resp.HTML, `value="x"`) {
		t.Error("expected the text input to be cleared")
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fill", nil)
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

// nameValue returns the value written into the #n control.
func nameValue(t *testing.T, resp FillResponse) string {
	t.Helper()
	for _, o := range resp.Report.Outcomes {
		if o.Selector == "#n" {
			return o.Value
		}
	}
	t.Fatalf("no outcome for #n in %+v", resp.Report.Outcomes)
	return ""
}
