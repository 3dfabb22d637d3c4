// Package feature derives the standardized feature matrix from raw records.
// It is the collaborator that fulfils the "already standardized" contract
// the clustering core trusts.
package feature

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/helpintl/aid-cluster/internal/buffer"
	"github.com/helpintl/aid-cluster/internal/model"
)

// Engineered indicator names.
const (
	ExportsImportsRatio = "exports_imports_ratio"
	HighChildMortality  = "high_child_mort"
)

// Standardize scales the selected indicators to zero mean and unit variance
// over the full record set and returns the resulting feature matrix.
// The set and order of columns is identical for every row.
func Standardize(records []model.Record, columns []string) (*model.FeatureMatrix, error) {
	if len(records) == 0 {
		return nil, model.DataShapeError{Reason: "no records"}
	}
	if len(columns) == 0 {
		return nil, model.DataShapeError{Reason: "no feature columns"}
	}

	sc := buffer.NewStatsCollector(len(columns))
	for _, r := range records {
		row := make([]float64, len(columns))
		for j, c := range columns {
			v, ok := r.Values[c]
			if !ok {
				return nil, model.DataShapeError{Reason: fmt.Sprintf("record '%s' misses indicator '%s'", r.Name, c)}
			}
			row[j] = v
		}
		sc.Push(row...)
	}

	stats := sc.Stats()
	for j, c := range columns {
		if stats[j].StDev() == 0 {
			return nil, model.DataShapeError{Reason: fmt.Sprintf("indicator '%s' is constant", c)}
		}
	}

	names := make([]string, len(records))
	rows := make([][]float64, len(records))
	for i, r := range records {
		names[i] = r.Name
		row := make([]float64, len(columns))
		for j, c := range columns {
			row[j] = (r.Values[c] - stats[j].Avg()) / stats[j].StDev()
		}
		rows[i] = row
	}

	log.Debug().
		Int("records", len(records)).
		Int("columns", len(columns)).
		Msg("standardized feature matrix")

	return model.NewFeatureMatrix(names, append([]string(nil), columns...), rows)
}

// Engineer returns a copy of the records enriched with the derived
// indicators: the exports to imports ratio and the above-median
// child-mortality flag. The input records are left untouched.
func Engineer(records []model.Record) ([]model.Record, error) {
	if len(records) == 0 {
		return nil, model.DataShapeError{Reason: "no records"}
	}

	mortality := make([]float64, 0, len(records))
	for _, r := range records {
		v, ok := r.Values["child_mort"]
		if !ok {
			return nil, model.DataShapeError{Reason: fmt.Sprintf("record '%s' misses indicator 'child_mort'", r.Name)}
		}
		mortality = append(mortality, v)
	}
	median := median(mortality)

	enriched := make([]model.Record, len(records))
	for i, r := range records {
		values := make(map[string]float64, len(r.Values)+2)
		for k, v := range r.Values {
			values[k] = v
		}

		imports, ok := values["imports"]
		if !ok || imports == 0 {
			return nil, model.DataShapeError{Reason: fmt.Sprintf("record '%s' has no usable 'imports' indicator", r.Name)}
		}
		exports, ok := values["exports"]
		if !ok {
			return nil, model.DataShapeError{Reason: fmt.Sprintf("record '%s' misses indicator 'exports'", r.Name)}
		}
		values[ExportsImportsRatio] = exports / imports

		flag := 0.0
		if values["child_mort"] > median {
			flag = 1.0
		}
		values[HighChildMortality] = flag

		enriched[i] = model.Record{Name: r.Name, Values: values}
	}
	return enriched, nil
}

func median(vv []float64) float64 {
	sorted := append([]float64(nil), vv...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
