package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/sarthakkaushal65/predictscore/internal/app"
	"github.com/sarthakkaushal65/predictscore/internal/domain/encoding"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Slot    string `json:"slot,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	resp := errorResponse{Code: code, Message: http.StatusText(status)}
	if err != nil {
		resp.Message = err.Error()
		resp.Slot = slotOf(err)
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps a prediction failure to its status code.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := service.ErrorKind(err)
	writeError(w, StatusFor(kind), kind, err)
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(kind string) int {
	switch kind {
	case service.KindUnknownCategory, service.KindInvalidValue, service.KindOutOfRange:
		return http.StatusBadRequest
	case service.KindSchemaMismatch:
		return http.StatusUnprocessableEntity
	case service.KindModelUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func slotOf(err error) string {
	var ce *encoding.CategoryError
	if errors.As(err, &ce) {
		return ce.Slot
	}
	var se *encoding.SlotError
	if errors.As(err, &se) {
		return se.Slot
	}
	return ""
}
