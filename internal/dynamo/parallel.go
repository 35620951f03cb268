package dynamo

import (
	"context"
	"runtime"
	"sync"
)

// RunEnsemble runs n independent headless runs in parallel. build is called
// once per run, from that run's goroutine, and must not share state between
// runs. The first error in run order is returned.
func RunEnsemble(ctx context.Context, n, frames int, build func(run int) (*Runner, error)) ([]*Result, error) {
	results := make([]*Result, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			r, err := build(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			defer r.Core().Close()

			results[idx], errs[idx] = r.Run(ctx, frames)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// ParallelFor executes fn over [0, n) in contiguous chunks of at least
// minChunk items.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	numWorkers := runtime.GOMAXPROCS(0)
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
