// Package eval validates cluster assignments: principal-component projection
// for visual sanity checks, per-cluster statistical profiles and
// cross-method agreement scoring.
package eval

import (
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/helpintl/aid-cluster/internal/model"
)

// Projection holds the reduced coordinates of the records together with the
// explained variance ratio per component, ordered descending.
// It feeds visualisation only and is never fed back into clustering.
type Projection struct {
	Coordinates       [][]float64 `json:"coordinates"`
	ExplainedVariance []float64   `json:"explained_variance"`
}

// Project reduces the feature matrix onto its first dims principal
// components (eigendecomposition of the covariance of the standardized
// features, components by descending explained variance).
func Project(m *model.FeatureMatrix, dims int) (*Projection, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if dims < 1 || dims > m.Dim() {
		return nil, model.ConfigurationError{
			Param:  "dims",
			Value:  dims,
			Reason: "must be between 1 and the feature dimensionality",
		}
	}

	n, d := m.Len(), m.Dim()
	data := mat.NewDense(n, d, nil)
	for i, row := range m.Rows {
		data.SetRow(i, row)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, model.DataShapeError{Reason: "principal component decomposition failed"}
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)
	vars := pc.VarsTo(nil)

	// center the data so that the projection is mean-free per component
	means := make([]float64, d)
	for j := 0; j < d; j++ {
		means[j] = stat.Mean(mat.Col(nil, j, data), nil)
	}
	centered := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			centered.Set(i, j, data.At(i, j)-means[j])
		}
	}

	var projected mat.Dense
	projected.Mul(centered, vectors.Slice(0, d, 0, dims))

	total := 0.0
	for _, v := range vars {
		total += v
	}
	ratios := make([]float64, dims)
	for i := 0; i < dims; i++ {
		if total > 0 {
			ratios[i] = vars[i] / total
		}
	}

	coordinates := make([][]float64, n)
	for i := 0; i < n; i++ {
		coordinates[i] = mat.Row(nil, i, &projected)
	}

	log.Debug().
		Int("dims", dims).
		Floats64("explained_variance", ratios).
		Msg("projected feature matrix")

	return &Projection{
		Coordinates:       coordinates,
		ExplainedVariance: ratios,
	}, nil
}
