package raster

import (
	"runtime"

	"github.com/gammazero/workerpool"
)

// minParallelRows is the height under which rows are processed serially.
const minParallelRows = 64

// ParallelRows calls fn for every row index in [0, height). Rows are split
// into contiguous chunks run on a worker pool; fn must only write to its own row.
func ParallelRows(height int, fn func(y int)) {
	if height < minParallelRows {
		for y := 0; y < height; y++ {
			fn(y)
		}
		return
	}

	workers := runtime.NumCPU()
	chunk := height / (workers * 4)
	if chunk < 1 {
		chunk = 1
	}

	wp := workerpool.New(workers)
	for start := 0; start < height; start += chunk {
		end := start + chunk
		if end > height {
			end = height
		}
		s, e := start, end
		wp.Submit(func() {
			for y := s; y < e; y++ {
				fn(y)
			}
		})
	}
	wp.StopWait()
}
