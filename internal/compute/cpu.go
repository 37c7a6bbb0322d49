package compute

import (
	"runtime"
	"sync"

	"github.com/san-kum/wavesim/internal/grid"
)

// minRowsPerWorker keeps small grids on one goroutine.
const minRowsPerWorker = 16

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func NewSerialBackend() *CPUBackend {
	return &CPUBackend{workers: 1}
}

func (c *CPUBackend) Name() string {
	if c.workers <= 1 {
		return "serial"
	}
	return "cpu"
}

func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Laplacian(dst, src *grid.Plane, k grid.Kernel) error {
	if err := grid.CheckShape(src.Shape(), dst); err != nil {
		return err
	}
	c.parallelRows(src.Height, func(y0, y1 int) {
		grid.ConvolveRows(dst, src, k, y0, y1)
	})
	return nil
}

func (c *CPUBackend) Leapfrog(s Step) error {
	if err := s.check(); err != nil {
		return err
	}
	w := s.Field.Width
	c.parallelRows(s.Field.Height, func(y0, y1 int) {
		leapfrogRange(s, y0*w, y1*w)
	})
	return nil
}

// parallelRows splits [0, rows) into contiguous chunks, runs fn on each and
// waits for all of them.
func (c *CPUBackend) parallelRows(rows int, fn func(y0, y1 int)) {
	workers := c.workers
	if rows/minRowsPerWorker < workers {
		workers = rows / minRowsPerWorker
	}
	if workers <= 1 {
		fn(0, rows)
		return
	}

	chunkSize := (rows + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < rows; start += chunkSize {
		end := start + chunkSize
		if end > rows {
			end = rows
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
