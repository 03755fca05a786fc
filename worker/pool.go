package worker

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/sehmus-akcakale/SnapLearn/vision"
)

// AnalyzeFunc runs one remote vision call on a saved capture file.
type AnalyzeFunc func(ctx context.Context, imagePath string) (vision.Analysis, error)

// ResultCallback is invoked on analysis completion (from a worker goroutine).
// The event loop passes a closure that posts back into the loop safely.
type ResultCallback func(capture int, a vision.Analysis, err error)

// Pool runs analysis jobs off the event loop thread. The queue holds a single
// job (strict back-pressure): only one capture is in flight at a time, and an
// AI capture arriving while busy is dropped rather than queued.
type Pool struct {
	jobs    chan job
	wg      sync.WaitGroup
	analyze AnalyzeFunc
}

type job struct {
	ctx     context.Context
	capture int
	path    string
	cb      ResultCallback
}

// New creates a worker pool. Size defaults to 1 when size<=0.
func New(size int, analyze AnalyzeFunc) *Pool {
	if size <= 0 {
		size = 1
	}
	if analyze == nil {
		analyze = analyzeFile
	}
	p := &Pool{jobs: make(chan job, 1), analyze: analyze}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				log.Printf("Worker: analyzing capture %d (%s)", j.capture, j.path)
				a, err := p.analyze(j.ctx, j.path)
				log.Printf("Worker: capture %d analysis done, err=%v", j.capture, err)
				j.cb(j.capture, a, err)
			}
		}()
	}
}

// Submit enqueues an analysis job if the single-slot queue is free.
// Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, capture int, imagePath string, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, capture: capture, path: imagePath, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work. This is the shutdown
// join point: an analysis in flight when the user quits still completes
// before the PDF export runs.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// analyzeFile is the default job body: read the capture and query the model.
func analyzeFile(ctx context.Context, imagePath string) (vision.Analysis, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return vision.Analysis{}, err
	}
	return vision.Analyze(ctx, data)
}
