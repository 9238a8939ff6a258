package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"

	"github.com/dabasajay/linkspage/internal/domain"
	"github.com/dabasajay/linkspage/internal/links"
	"github.com/dabasajay/linkspage/internal/middleware"
	"github.com/dabasajay/linkspage/internal/page"
	"github.com/dabasajay/linkspage/internal/rewriter"
	"github.com/dabasajay/linkspage/internal/static"
)

// LinksPath is the route of the JSON links API.
const LinksPath = "/links"

// TemplateFetcher retrieves the page template.
type TemplateFetcher interface {
	Template(ctx context.Context) (*http.Response, error)
}

// Config holds the dependencies of a Handler.
type Config struct {
	Fetcher TemplateFetcher
	Store   *links.Store
	// Rewriter defaults to page.NewRewriter(Store).
	Rewriter *rewriter.Rewriter
	// Minify runs HTML responses through an HTML minifier. The minifier
	// reads the whole document before writing, so streaming is lost.
	Minify bool
	Logger *slog.Logger
}

// Handler serves the links page and the links API.
type Handler struct {
	fetcher  TemplateFetcher
	store    *links.Store
	rewriter *rewriter.Rewriter
	minifier *minify.M
	logger   *slog.Logger
}

// New creates a new Handler instance with all dependencies.
func New(cfg Config) *Handler {
	store := cfg.Store
	if store == nil {
		store = links.Default()
	}

	rw := cfg.Rewriter
	if rw == nil {
		rw = page.NewRewriter(store)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		fetcher:  cfg.Fetcher,
		store:    store,
		rewriter: rw,
		logger:   logger,
	}

	if cfg.Minify {
		h.minifier = minify.New()
		h.minifier.AddFunc(htmlMediaType, html.Minify)
	}

	return h
}

// Routes returns the HTTP handler for the whole service. /links answers with
// JSON; every other path and method gets the rewritten template.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(h.logger))
	r.Use(chimw.Recoverer)
	r.Use(h.recoverer)

	r.HandleFunc(LinksPath, h.handleLinks)
	r.HandleFunc("/*", h.handlePage)
	r.NotFound(h.handlePage)
	r.MethodNotAllowed(h.handlePage)

	return r
}

// recoverer turns a panic raised before anything was written into the error
// page. Later panics, and http.ErrAbortHandler, are re-raised for
// chimw.Recoverer.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler || ww.Status() != 0 {
				panic(p)
			}
			h.respondError(w, r, fmt.Errorf("panic: %v", p))
		}()

		next.ServeHTTP(ww, r)
	})
}

// LinksJSON returns the body served at /links: the generic links as a JSON
// array, in configured order.
func (h *Handler) LinksJSON() ([]byte, error) {
	records := h.store.Links()
	if records == nil {
		records = []domain.LinkRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSerialization, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// handleLinks serves the JSON links API.
func (h *Handler) handleLinks(w http.ResponseWriter, r *http.Request) {
	body, err := h.LinksJSON()
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// respondError logs err and writes the fixed error page.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	middleware.LoggerFromContext(r.Context()).Error("request failed, serving error page",
		"error", err,
		"kind", domain.ErrorKind(err),
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", static.ErrorContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.ErrorHTML))
}
