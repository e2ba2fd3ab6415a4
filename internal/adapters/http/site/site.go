// Package site serves the interactive prediction form and its result page.
package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sarthakkaushal65/predictscore/internal/adapters/http/api"
	service "github.com/sarthakkaushal65/predictscore/internal/app"
	"github.com/sarthakkaushal65/predictscore/internal/domain/encoding"
	"github.com/sarthakkaushal65/predictscore/internal/domain/prediction"
	"github.com/sarthakkaushal65/predictscore/pkg/logger"
)

const defaultMaxBodyBytes = 64 << 10

// Dependencies are the service calls the form page makes.
type Dependencies interface {
	api.Predictor
	api.FormProvider
}

// Handler renders the form on GET and the prediction on POST.
type Handler struct {
	deps         Dependencies
	maxBodyBytes int64
	logger       logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithMaxBodyBytes caps the size of form posts.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// WithLogger sets the logger used for render failures.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates the form page handler.
func NewHandler(deps Dependencies, opts ...Option) *Handler {
	h := &Handler{deps: deps, maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Named("site")
	}
	return h
}

// Register attaches the form page and its static assets to mux.
func Register(_ context.Context, mux *http.ServeMux, h *Handler) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("/", api.MetricsMiddleware(h.HandleRoot, "site"))
}

// HandleRoot handles GET and POST on /.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	form, err := h.deps.Form()
	if err != nil {
		h.render(w, r, http.StatusServiceUnavailable, page{Title: "Student Exam Score Predictor", Error: userMessage(err)})
		return
	}
	h.render(w, r, http.StatusOK, newPage(form, nil))
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	form, err := h.deps.Form()
	if err != nil {
		h.render(w, r, http.StatusServiceUnavailable, page{Title: "Student Exam Score Predictor", Error: userMessage(err)})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		p := newPage(form, nil)
		p.Error = "The submitted form could not be read."
		h.render(w, r, http.StatusBadRequest, p)
		return
	}

	raw := make(encoding.Inputs, len(r.PostForm))
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			raw[k] = vs[0]
		}
	}

	p := newPage(form, raw)
	res, err := h.deps.Predict(r.Context(), raw)
	if err != nil {
		p.Error = userMessage(err)
		h.render(w, r, api.StatusFor(service.ErrorKind(err)), p)
		return
	}
	p.Result = newResultView(form, res)
	h.render(w, r, http.StatusOK, p)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, p); err != nil {
		h.logger.Error(r.Context(), "render form page", logger.Error(err))
	}
}

// userMessage turns a prediction failure into the text shown on the page.
func userMessage(err error) string {
	var ce *encoding.CategoryError
	var se *encoding.SlotError
	switch {
	case errors.As(err, &ce):
		return fmt.Sprintf("%q is not a valid choice for %s.", ce.Label, ce.Slot)
	case errors.As(err, &se) && errors.Is(err, encoding.ErrOutOfRange):
		return fmt.Sprintf("%s is out of range: %s.", se.Slot, se.Reason)
	case errors.As(err, &se):
		return fmt.Sprintf("%s: %s.", se.Slot, se.Reason)
	case errors.Is(err, prediction.ErrModelUnavailable):
		return "The prediction model is not available right now."
	case errors.Is(err, prediction.ErrInferenceFailure):
		return "The model could not produce a prediction for these inputs."
	case errors.Is(err, encoding.ErrSchemaMismatch):
		return "The form does not match the model's expected inputs."
	default:
		return "Something went wrong while predicting."
	}
}
