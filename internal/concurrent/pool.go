package concurrent

import (
	"runtime"
	"sync"
)

// Parallel runs the worker over the index range [0,n) using the given number
// of goroutines. Indices are dealt out in contiguous chunks so that callers
// writing to pre-allocated slots keep a deterministic layout.
// A non-positive worker count falls back to the number of CPUs.
func Parallel(n, workers int, work func(i int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers

	wg := new(sync.WaitGroup)
	for w := 0; w < workers; w++ {
		from := w * chunk
		to := from + chunk
		if to > n {
			to = n
		}
		if from >= to {
			break
		}
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for i := from; i < to; i++ {
				work(i)
			}
		}(from, to)
	}
	wg.Wait()
}
