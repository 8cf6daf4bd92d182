package sim

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum element count to use the worker pool.
// Below this, single-threaded is faster due to dispatch overhead.
const parallelThreshold = 256

// workChunk is a half-open index range for one worker to process.
type workChunk struct {
	start, end int
}

// workerPool runs per-element phases over persistent goroutines. Each
// forEach call is a full barrier: it returns only after every chunk has been
// processed, so a phase's writes are visible before the next phase reads.
type workerPool struct {
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool

	// fn is the current phase kernel. Set before dispatching chunks; the
	// channel send orders the write ahead of every worker read.
	fn func(start, end int)
}

func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &workerPool{numWorkers: numWorkers}
}

// start launches the persistent worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// forEach applies fn over [0, n) split into per-worker chunks and waits for
// completion. Small n runs inline on the calling goroutine.
func (p *workerPool) forEach(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n < parallelThreshold || p.numWorkers < 2 || !p.running {
		fn(0, n)
		return
	}

	p.fn = fn
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
