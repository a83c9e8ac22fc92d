package rawpipe

import (
	"runtime"
	"sync"
)

// DefaultWorker is a goroutine-per-core reference Worker, in the same
// style as the teacher's PreprocessData/BicubicUpscale row partitioning:
// divide [0, n) into runtime.NumCPU() contiguous slices and run each on
// its own goroutine. It exists so rawpipe is independently usable without
// an embedder supplying its own thread pool; x3f.ProcessBayerFrame falls
// back to it when given a nil worker (see x3f/pipeline.go).
type DefaultWorker struct{}

// Run partitions [0, n) into disjoint ranges and invokes fn on each,
// waiting for every goroutine to finish before returning.
func (DefaultWorker) Run(n int, fn func(y0, y1 int)) {
	if n <= 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	rowsPerWorker := n / workers
	var wg sync.WaitGroup

	for id := 0; id < workers; id++ {
		start := id * rowsPerWorker
		end := start + rowsPerWorker
		if id == workers-1 {
			end = n
		}

		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(start, end)
	}

	wg.Wait()
}

// SingleThreaded runs fn(0, n) directly on the calling goroutine. Useful
// for tests that need deterministic single-pass execution, and for hosts
// that want to own their own thread pool entirely (startWorker(...,
// multi_threaded=false) in §6's terms).
type SingleThreaded struct{}

func (SingleThreaded) Run(n int, fn func(y0, y1 int)) {
	if n > 0 {
		fn(0, n)
	}
}
