package concurrent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallel(t *testing.T) {
	n := 1000
	out := make([]int, n)
	Parallel(n, 8, func(i int) {
		out[i] = i * i
	})
	for i := 0; i < n; i++ {
		assert.Equal(t, i*i, out[i])
	}
}

func TestParallel_Degenerate(t *testing.T) {
	// no work
	Parallel(0, 4, func(i int) {
		t.Fatal("should not be called")
	})

	// more workers than work
	out := make([]int, 3)
	Parallel(3, 100, func(i int) {
		out[i] = 1
	})
	assert.Equal(t, []int{1, 1, 1}, out)

	// fall back to the cpu count
	out = make([]int, 10)
	Parallel(10, 0, func(i int) {
		out[i] = 1
	})
	for _, v := range out {
		assert.Equal(t, 1, v)
	}
}
