package systems

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/cellular/rules"
)

// parallelThreshold is the minimum cell count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64 * 64

// evolveJob is the read-only input shared by every chunk of one step.
type evolveJob struct {
	src, dst []uint8
	w, h     int
	snap     *rules.Snapshot
}

// workChunk is a range of rows for a worker to process.
type workChunk struct {
	y0, y1 int
	job    *evolveJob
}

// Evolver runs evolution steps across a persistent pool of goroutines.
// Step returns only after every chunk has been written, so the caller may
// flip buffers immediately afterwards.
type Evolver struct {
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewEvolver creates an evolver with the given worker count; zero or less
// means GOMAXPROCS.
func NewEvolver(workers int) *Evolver {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Evolver{numWorkers: workers}
}

// Workers returns the pool size.
func (e *Evolver) Workers() int { return e.numWorkers }

// startWorkers launches persistent worker goroutines.
func (e *Evolver) startWorkers() {
	if e.running {
		return
	}

	e.workChan = make(chan workChunk, e.numWorkers)
	e.doneChan = make(chan struct{}, e.numWorkers)
	e.stopChan = make(chan struct{})
	e.running = true

	for i := 0; i < e.numWorkers; i++ {
		e.wg.Add(1)
		go e.worker()
	}
}

// worker processes chunks until stopped.
func (e *Evolver) worker() {
	defer e.wg.Done()

	for {
		select {
		case <-e.stopChan:
			return
		case chunk, ok := <-e.workChan:
			if !ok {
				return
			}
			j := chunk.job
			EvolveRows(j.src, j.dst, j.w, j.h, j.snap, chunk.y0, chunk.y1)
			e.doneChan <- struct{}{}
		}
	}
}

// Step writes the generation following src into dst.
func (e *Evolver) Step(src, dst []uint8, w, h int, snap *rules.Snapshot) {
	if w*h < parallelThreshold || e.numWorkers == 1 {
		Evolve(src, dst, w, h, snap)
		return
	}

	if !e.running {
		e.startWorkers()
	}

	job := &evolveJob{src: src, dst: dst, w: w, h: h, snap: snap}
	chunkSize := (h + e.numWorkers - 1) / e.numWorkers

	// Dispatch chunks to workers
	dispatched := 0
	for i := 0; i < e.numWorkers; i++ {
		y0 := i * chunkSize
		y1 := min(y0+chunkSize, h)
		if y0 >= y1 {
			continue
		}
		e.workChan <- workChunk{y0: y0, y1: y1, job: job}
		dispatched++
	}

	// Barrier: every write of this step is visible once all chunks report.
	for i := 0; i < dispatched; i++ {
		<-e.doneChan
	}
}

// StepGrid evolves g by one generation and flips it.
func (e *Evolver) StepGrid(g *Grid, snap *rules.Snapshot) {
	e.Step(g.Current(), g.Next(), g.W, g.H, snap)
	g.Flip()
}

// Close signals all workers to exit and waits for them.
func (e *Evolver) Close() {
	if !e.running {
		return
	}

	close(e.stopChan)
	e.wg.Wait()
	close(e.workChan)
	close(e.doneChan)
	e.running = false
}
