package model

import (
	"fmt"
	"hash/fnv"
	"math"
)

// Record is a single entity (e.g. a country) with its raw numeric indicators.
// Records are immutable once loaded.
type Record struct {
	Name   string             `json:"name"`
	Values map[string]float64 `json:"values"`
}

// FeatureMatrix is an ordered collection of standardized feature vectors,
// one per record. The set and order of the columns is identical for all rows.
// The matrix is owned by the pipeline invoker and passed read-only to the clusterers.
type FeatureMatrix struct {
	Names   []string    `json:"names"`
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// NewFeatureMatrix creates a feature matrix and verifies its shape.
func NewFeatureMatrix(names []string, columns []string, rows [][]float64) (*FeatureMatrix, error) {
	m := &FeatureMatrix{
		Names:   names,
		Columns: columns,
		Rows:    rows,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Len returns the number of records.
func (m *FeatureMatrix) Len() int {
	return len(m.Rows)
}

// Dim returns the number of feature dimensions.
func (m *FeatureMatrix) Dim() int {
	return len(m.Columns)
}

// Column returns the index of the given indicator.
func (m *FeatureMatrix) Column(name string) (int, bool) {
	for i, c := range m.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Validate checks the matrix shape before any algorithm runs.
func (m *FeatureMatrix) Validate() error {
	if len(m.Rows) == 0 {
		return DataShapeError{Reason: "no records"}
	}
	if len(m.Names) != len(m.Rows) {
		return DataShapeError{Reason: fmt.Sprintf("%d names for %d rows", len(m.Names), len(m.Rows))}
	}
	dim := len(m.Columns)
	if dim == 0 {
		return DataShapeError{Reason: "no feature columns"}
	}
	for i, row := range m.Rows {
		if len(row) != dim {
			return DataShapeError{Reason: fmt.Sprintf("row %d has %d values, expected %d", i, len(row), dim)}
		}
	}
	return nil
}

// Fingerprint returns a stable hash of the matrix contents.
// It is used as part of the model cache key.
func (m *FeatureMatrix) Fingerprint() int64 {
	h := fnv.New64a()
	for _, name := range m.Names {
		_, _ = h.Write([]byte(name))
	}
	for _, c := range m.Columns {
		_, _ = h.Write([]byte(c))
	}
	var b [8]byte
	for _, row := range m.Rows {
		for _, v := range row {
			u := math.Float64bits(v)
			for i := 0; i < 8; i++ {
				b[i] = byte(u >> (8 * i))
			}
			_, _ = h.Write(b[:])
		}
	}
	return int64(h.Sum64())
}
