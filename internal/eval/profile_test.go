package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpintl/aid-cluster/internal/model"
)

func TestProfiles_GroupMeans(t *testing.T) {
	m, err := model.NewFeatureMatrix(
		[]string{"a1", "a2", "b1", "b2", "b3"},
		[]string{"x", "y"},
		[][]float64{
			{1, 10},
			{3, 20},
			{5, 0},
			{7, 2},
			{9, 4},
		},
	)
	require.NoError(t, err)

	a := model.ClusterAssignment{
		Names:  m.Names,
		Labels: []int{0, 0, 1, 1, 1},
	}

	profiles, err := Profiles(a, m)
	require.NoError(t, err)
	require.Equal(t, 2, len(profiles))

	first := profiles[0]
	assert.Equal(t, 2, first.Size)
	assert.InDelta(t, 2, first.Mean["x"], 1e-12)
	assert.InDelta(t, 15, first.Mean["y"], 1e-12)
	assert.InDelta(t, 1, first.StdDev["x"], 1e-12)

	second := profiles[1]
	assert.Equal(t, 3, second.Size)
	assert.InDelta(t, 7, second.Mean["x"], 1e-12)
	assert.InDelta(t, 2, second.Mean["y"], 1e-12)
}

func TestProfiles_ExcludesNoise(t *testing.T) {
	m, err := model.NewFeatureMatrix(
		[]string{"a1", "a2", "out"},
		[]string{"x"},
		[][]float64{{1}, {3}, {100}},
	)
	require.NoError(t, err)

	a := model.ClusterAssignment{
		Names:  m.Names,
		Labels: []int{0, 0, model.Noise},
	}

	profiles, err := Profiles(a, m)
	require.NoError(t, err)
	require.Equal(t, 1, len(profiles))
	assert.Equal(t, 2, profiles[0].Size)
	assert.InDelta(t, 2, profiles[0].Mean["x"], 1e-12)
}

func TestProfiles_ShapeMismatch(t *testing.T) {
	m, err := model.NewFeatureMatrix(
		[]string{"a1", "a2"},
		[]string{"x"},
		[][]float64{{1}, {2}},
	)
	require.NoError(t, err)

	a := model.ClusterAssignment{Names: []string{"a1"}, Labels: []int{0}}

	var shapeErr model.DataShapeError
	_, err = Profiles(a, m)
	assert.True(t, errors.As(err, &shapeErr))
}
