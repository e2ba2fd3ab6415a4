package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sarthakkaushal65/predictscore/internal/domain/encoding"
	"github.com/sarthakkaushal65/predictscore/internal/domain/prediction"
)

// Predictor is the part of the service the predict endpoint needs.
type Predictor interface {
	Predict(ctx context.Context, raw encoding.Inputs) (prediction.Result, error)
}

// predictRequest mirrors the OpenAPI schema for POST /api/v1/predict.
type predictRequest struct {
	Inputs encoding.Inputs `json:"inputs"`
}

type feature struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type predictResponse struct {
	ID        string    `json:"id"`
	Score     float64   `json:"score"`
	Formatted string    `json:"formatted"`
	Schema    string    `json:"schema"`
	Model     string    `json:"model"`
	Features  []feature `json:"features"`
}

func newPredictResponse(res prediction.Result) predictResponse {
	feats := make([]feature, res.Vector.Len())
	for i, c := range res.Vector.Columns {
		feats[i] = feature{Name: c, Value: res.Vector.Values[i]}
	}
	return predictResponse{
		ID:        res.ID.String(),
		Score:     res.Score,
		Formatted: res.Formatted(),
		Schema:    res.Schema,
		Model:     res.Model,
		Features:  feats,
	}
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps         Predictor
	maxBodyBytes int64
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Predictor, maxBodyBytes int64) *PredictHandler {
	return &PredictHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandlePostPredict handles POST /api/v1/predict requests.
func (h *PredictHandler) HandlePostPredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_predict"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}

	req, err := h.decode(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Predict(r.Context(), req.Inputs)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newPredictResponse(res))
}

func (h *PredictHandler) decode(w http.ResponseWriter, r *http.Request) (predictRequest, error) {
	var req predictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, fmt.Errorf("body exceeds %d bytes", tooLarge.Limit)
		}
		return req, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return req, errors.New("body must contain a single JSON object")
	}
	if req.Inputs == nil {
		return req, errors.New("missing inputs")
	}
	return req, nil
}
