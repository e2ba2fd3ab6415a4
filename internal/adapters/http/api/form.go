package api

import (
	"net/http"

	"github.com/sarthakkaushal65/predictscore/internal/domain/schema"
)

// FormProvider describes the input surface.
type FormProvider interface {
	Form() (schema.Form, error)
}

// FormHandler handles form description requests.
type FormHandler struct {
	deps FormProvider
}

// NewFormHandler creates a new form handler.
func NewFormHandler(deps FormProvider) *FormHandler {
	return &FormHandler{deps: deps}
}

// HandleGetForm handles GET /api/v1/form requests.
func (h *FormHandler) HandleGetForm(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_form"
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	form, err := h.deps.Form()
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, form)
}
