package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpintl/aid-cluster/internal/model"
)

func assignment(labels ...int) model.ClusterAssignment {
	names := make([]string, len(labels))
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	return model.ClusterAssignment{Names: names, Labels: labels}
}

func TestAgreement_Identical(t *testing.T) {
	a := assignment(0, 0, 1, 1, 2, 2)

	score, err := Agreement(a, a)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestAgreement_PermutedLabels(t *testing.T) {
	a := assignment(0, 0, 1, 1, 2, 2)
	b := assignment(2, 2, 0, 0, 1, 1)

	score, err := Agreement(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestAgreement_PartialOverlap(t *testing.T) {
	a := assignment(0, 0, 0, 1, 1, 1)
	b := assignment(0, 0, 1, 1, 1, 1)

	score, err := Agreement(a, b)
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 1.0)
}

func TestAgreement_Independent(t *testing.T) {
	a := assignment(0, 0, 1, 1)
	b := assignment(0, 1, 0, 1)

	score, err := Agreement(a, b)
	require.NoError(t, err)
	assert.Less(t, score, 0.5)
}

func TestAgreement_DegeneratePartitions(t *testing.T) {
	// everything in one cluster on both sides
	one := assignment(0, 0, 0, 0)
	score, err := Agreement(one, one)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	// all singletons on both sides
	singles := assignment(0, 1, 2, 3)
	score, err = Agreement(singles, singles)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestAgreement_ShapeErrors(t *testing.T) {
	var shapeErr model.DataShapeError

	_, err := Agreement(assignment(0, 1), assignment(0, 1, 2))
	assert.True(t, errors.As(err, &shapeErr))

	_, err = Agreement(model.ClusterAssignment{}, model.ClusterAssignment{})
	assert.True(t, errors.As(err, &shapeErr))
}
