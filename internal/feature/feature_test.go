package feature

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpintl/aid-cluster/internal/buffer"
	"github.com/helpintl/aid-cluster/internal/model"
)

func records() []model.Record {
	return []model.Record{
		{Name: "a", Values: map[string]float64{"child_mort": 90, "imports": 40, "exports": 20, "income": 1500}},
		{Name: "b", Values: map[string]float64{"child_mort": 60, "imports": 50, "exports": 45, "income": 4000}},
		{Name: "c", Values: map[string]float64{"child_mort": 10, "imports": 30, "exports": 60, "income": 40000}},
		{Name: "d", Values: map[string]float64{"child_mort": 4, "imports": 25, "exports": 50, "income": 55000}},
	}
}

func TestStandardize_ZeroMeanUnitVariance(t *testing.T) {
	m, err := Standardize(records(), []string{"child_mort", "income"})
	require.NoError(t, err)

	require.Equal(t, 4, m.Len())
	require.Equal(t, 2, m.Dim())

	sc := buffer.NewStatsCollector(m.Dim())
	for _, row := range m.Rows {
		sc.Push(row...)
	}
	for _, stats := range sc.Stats() {
		assert.InDelta(t, 0, stats.Avg(), 1e-12)
		assert.InDelta(t, 1, stats.StDev(), 1e-12)
	}
}

func TestStandardize_PreservesOrderAndColumns(t *testing.T) {
	m, err := Standardize(records(), []string{"income", "child_mort"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d"}, m.Names)
	assert.Equal(t, []string{"income", "child_mort"}, m.Columns)
	// highest raw mortality stays highest after scaling
	idx, ok := m.Column("child_mort")
	require.True(t, ok)
	assert.Greater(t, m.Rows[0][idx], m.Rows[3][idx])
}

func TestStandardize_Errors(t *testing.T) {
	var shapeErr model.DataShapeError

	_, err := Standardize(nil, []string{"child_mort"})
	assert.True(t, errors.As(err, &shapeErr))

	_, err = Standardize(records(), nil)
	assert.True(t, errors.As(err, &shapeErr))

	_, err = Standardize(records(), []string{"gdpp"})
	assert.True(t, errors.As(err, &shapeErr))

	constant := []model.Record{
		{Name: "a", Values: map[string]float64{"x": 1}},
		{Name: "b", Values: map[string]float64{"x": 1}},
	}
	_, err = Standardize(constant, []string{"x"})
	assert.True(t, errors.As(err, &shapeErr))
}

func TestEngineer_DerivedIndicators(t *testing.T) {
	enriched, err := Engineer(records())
	require.NoError(t, err)
	require.Equal(t, 4, len(enriched))

	// median child_mort of {90, 60, 10, 4} is 35
	assert.Equal(t, 1.0, enriched[0].Values[HighChildMortality])
	assert.Equal(t, 1.0, enriched[1].Values[HighChildMortality])
	assert.Equal(t, 0.0, enriched[2].Values[HighChildMortality])
	assert.Equal(t, 0.0, enriched[3].Values[HighChildMortality])

	assert.InDelta(t, 0.5, enriched[0].Values[ExportsImportsRatio], 1e-12)
	assert.InDelta(t, 2.0, enriched[2].Values[ExportsImportsRatio], 1e-12)
}

func TestEngineer_DoesNotMutateInput(t *testing.T) {
	in := records()
	_, err := Engineer(in)
	require.NoError(t, err)

	_, ok := in[0].Values[ExportsImportsRatio]
	assert.False(t, ok)
	_, ok = in[0].Values[HighChildMortality]
	assert.False(t, ok)
}

func TestEngineer_Errors(t *testing.T) {
	var shapeErr model.DataShapeError

	_, err := Engineer(nil)
	assert.True(t, errors.As(err, &shapeErr))

	missing := []model.Record{{Name: "a", Values: map[string]float64{"imports": 1}}}
	_, err = Engineer(missing)
	assert.True(t, errors.As(err, &shapeErr))

	zeroImports := []model.Record{
		{Name: "a", Values: map[string]float64{"child_mort": 10, "imports": 0, "exports": 5}},
	}
	_, err = Engineer(zeroImports)
	assert.True(t, errors.As(err, &shapeErr))
}
