package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/filler"
	"github.com/nao1215/jpfill/internal/model"
	"github.com/nao1215/jpfill/internal/report"
	"github.com/nao1215/jpfill/internal/synth"
	"github.com/nao1215/jpfill/internal/validation"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// FillRequest is the body of POST /api/v1/fill.
type FillRequest struct {
	// HTML is the markup of the page to fill.
	HTML string `json:"html" validate:"required"`

	// URL is where the page lives. It decides the page context and the
	// per-site settings.
	URL string `json:"url,omitempty" validate:"omitempty,url"`

	// Settings override the server's settings for this request.
	Settings *config.Settings `json:"settings,omitempty"`
}

// FillResponse is the data of a successful fill.
type FillResponse struct {
	Count    int                  `json:"count"`
	Notice   string               `json:"notice"`
	HTML     string               `json:"html"`
	Report   model.FillReportData `json:"report"`
	TimedOut bool                 `json:"timed_out"`
}

// ClearRequest is the body of POST /api/v1/clear.
type ClearRequest struct {
	HTML string `json:"html" validate:"required"`
}

// ClearResponse is the data of a successful clear.
type ClearResponse struct {
	Count int    `json:"count"`
	HTML  string `json:"html"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Version: s.version}, s.logger)
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var req FillRequest
	if !s.decode(w, r, &req) {
		return
	}

	settings := s.file.SettingsForURL(req.URL)
	if req.Settings != nil {
		settings = settings.Merge(*req.Settings)
	}

	doc, err := dom.ParseString(req.HTML)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid html: "+err.Error(), s.logger)
		return
	}

	f := filler.New(
		filler.WithSettings(settings),
		filler.WithSource(synth.NewSource(s.seed)),
		filler.WithLogger(s.logger),
	)
	defer f.Release(doc)

	pageURL := req.URL
	if pageURL == "" {
		pageURL = "about:blank"
	}
	rep, err := f.FillAll(r.Context(), doc, pageURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), s.logger)
		return
	}

	if err := s.settle(r.Context(), f); err != nil {
		if r.Context().Err() != nil {
			return
		}
		rep.SetTimedOut()
	}
	rep.Finish()

	markup, err := doc.HTML()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render document", s.logger)
		return
	}

	data := rep.Data()
	writeJSON(w, http.StatusOK, FillResponse{
		Count:    data.Filled,
		Notice:   report.Notice(data.Filled),
		HTML:     markup,
		Report:   data,
		TimedOut: data.TimedOut,
	}, s.logger)
}

func (s *Server) settle(ctx context.Context, f *filler.Filler) error {
	if s.settleTimeout <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.settleTimeout)
	defer cancel()
	return f.Settle(ctx)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var req ClearRequest
	if !s.decode(w, r, &req) {
		return
	}

	doc, err := dom.ParseString(req.HTML)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid html: "+err.Error(), s.logger)
		return
	}

	f := filler.New(filler.WithLogger(s.logger))
	count := f.ClearAll(doc)

	markup, err := doc.HTML()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render document", s.logger)
		return
	}
	writeJSON(w, http.StatusOK, ClearResponse{Count: count, HTML: markup}, s.logger)
}

// decode reads and validates a JSON body. It writes the error response
// and returns false when the body is unusable.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, "content type must be application/json", s.logger)
		return false
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), s.logger)
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error(), s.logger)
		return false
	}

	if err := s.validate.Validate(dst); err != nil {
		if errors.Is(err, validation.ErrValidation) {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), s.logger)
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error(), s.logger)
		return false
	}
	return true
}
