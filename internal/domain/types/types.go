// Package types contains common types used across the application
package types

// FeatureVector is one row of encoded values in schema order.
type FeatureVector struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// Len returns the number of features in the vector.
func (v FeatureVector) Len() int {
	return len(v.Values)
}

// Get returns the value stored under the given column name.
func (v FeatureVector) Get(column string) (float64, bool) {
	for i, c := range v.Columns {
		if c == column && i < len(v.Values) {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Map returns the vector keyed by column name.
func (v FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.Columns))
	for i, c := range v.Columns {
		if i < len(v.Values) {
			out[c] = v.Values[i]
		}
	}
	return out
}

// Frame wraps the vector as a single-row table with named columns.
// Columns and values are copied so the model cannot alter the vector.
func (v FeatureVector) Frame() Frame {
	cols := make([]string, len(v.Columns))
	copy(cols, v.Columns)
	row := make([]float64, len(v.Values))
	copy(row, v.Values)
	return Frame{Columns: cols, Rows: [][]float64{row}}
}

// Frame is a table-like model input with named columns.
type Frame struct {
	Columns []string
	Rows    [][]float64
}

// Width returns the number of columns.
func (f Frame) Width() int {
	return len(f.Columns)
}
