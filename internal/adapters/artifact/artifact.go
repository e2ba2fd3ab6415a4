// Package artifact loads serialized regression models from disk and exposes
// them as prediction.Regressor values.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sarthakkaushal65/predictscore/internal/domain/prediction"
	"github.com/sarthakkaushal65/predictscore/internal/domain/types"
)

// Model kinds understood by Load.
const (
	KindLinear = "linear"
	KindTree   = "tree"
)

// SchemaRef names the schema an artifact was trained against.
type SchemaRef struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// document is the on-disk JSON layout.
type document struct {
	Name         string              `json:"name"`
	Kind         string              `json:"kind"`
	Schema       SchemaRef           `json:"schema"`
	FeatureNames []string            `json:"feature_names"`
	Intercept    float64             `json:"intercept"`
	Coefficients []float64           `json:"coefficients"`
	Nodes        []Node              `json:"nodes"`
	Categories   map[string][]string `json:"categories"`
}

// scorer evaluates a single validated row.
type scorer interface {
	score(row []float64) float64
}

// Artifact is a loaded, immutable regressor.
type Artifact struct {
	name       string
	kind       string
	schema     SchemaRef
	features   []string
	categories map[string][]string
	model      scorer
}

// Load reads and decodes the artifact at path. The file is closed before Load
// returns. Every failure wraps prediction.ErrModelUnavailable.
func Load(_ context.Context, path string, opts ...Option) (*Artifact, error) {
	o := loadOptions{maxBytes: defaultMaxBytes}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, unavailable(path, err)
	}
	defer func() { _ = f.Close() }()

	a, err := Decode(io.LimitReader(f, o.maxBytes))
	if err != nil {
		return nil, unavailable(path, err)
	}
	return a, nil
}

// Decode parses an artifact document from r.
func Decode(r io.Reader) (*Artifact, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return build(doc)
}

func build(doc document) (*Artifact, error) {
	if len(doc.FeatureNames) == 0 {
		return nil, fmt.Errorf("%w: no feature names", ErrMalformed)
	}
	seen := make(map[string]struct{}, len(doc.FeatureNames))
	for _, n := range doc.FeatureNames {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: duplicate feature %q", ErrMalformed, n)
		}
		seen[n] = struct{}{}
	}

	var (
		m   scorer
		err error
	)
	switch doc.Kind {
	case KindLinear:
		m, err = newLinear(doc.Intercept, doc.Coefficients, len(doc.FeatureNames))
	case KindTree:
		m, err = newTree(doc.Nodes, len(doc.FeatureNames))
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedKind, doc.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &Artifact{
		name:       doc.Name,
		kind:       doc.Kind,
		schema:     doc.Schema,
		features:   append([]string(nil), doc.FeatureNames...),
		categories: doc.Categories,
		model:      m,
	}, nil
}

// Name returns the artifact name.
func (a *Artifact) Name() string { return a.name }

// Kind returns the model kind.
func (a *Artifact) Kind() string { return a.kind }

// SchemaRef returns the schema the artifact declares it was trained with.
func (a *Artifact) SchemaRef() SchemaRef { return a.schema }

// FeatureNames returns the training column order.
func (a *Artifact) FeatureNames() []string {
	return append([]string(nil), a.features...)
}

// Predict scores every row. Columns must match the training columns exactly,
// in name and order.
func (a *Artifact) Predict(ctx context.Context, rows types.Frame) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows.Columns) != len(a.features) {
		return nil, fmt.Errorf("%w: expected %d columns, got %d", ErrColumnMismatch, len(a.features), len(rows.Columns))
	}
	for i, c := range rows.Columns {
		if c != a.features[i] {
			return nil, fmt.Errorf("%w: column %d is %q, expected %q", ErrColumnMismatch, i, c, a.features[i])
		}
	}
	out := make([]float64, len(rows.Rows))
	for i, row := range rows.Rows {
		if len(row) != len(a.features) {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrColumnMismatch, i, len(row), len(a.features))
		}
		out[i] = a.model.score(row)
	}
	return out, nil
}

func unavailable(path string, err error) error {
	if errors.Is(err, prediction.ErrModelUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", prediction.ErrModelUnavailable, path, err)
}
