// Package eventloop is the single-threaded coordinator between the hotkey
// listener, the worker pool, and the session deck. The deck is only ever
// touched from the loop goroutine, so no further locking is needed.
package eventloop

import (
	"context"
	"log"
	"time"

	"github.com/sehmus-akcakale/SnapLearn/session"
	"github.com/sehmus-akcakale/SnapLearn/vision"
	"github.com/sehmus-akcakale/SnapLearn/worker"
)

// Trigger identifies one hotkey event kind.
type Trigger int

const (
	TriggerDirect Trigger = iota
	TriggerAI
	TriggerQuit
)

// Notifier receives status text for the tray tooltip. May be nil.
type Notifier interface {
	UpdateTooltip(text string)
}

type result struct {
	capture  int
	analysis vision.Analysis
	err      error
}

// Loop owns the capture pipeline for one session.
type Loop struct {
	opts           session.Options
	pool           *worker.Pool
	events         chan Trigger
	quit           chan struct{}
	results        chan result
	busy           bool
	cancelJob      context.CancelFunc
	notifier       Notifier
	defaultTooltip string
	copySummary    func(text string) error
}

// New creates an event loop. A single-worker pool enforces one analysis in
// flight at a time.
func New(opts session.Options) *Loop {
	return &Loop{
		opts:           opts,
		pool:           worker.New(1, worker.AnalyzeFunc(opts.Analyze)),
		events:         make(chan Trigger, 4),
		quit:           make(chan struct{}, 1),
		results:        make(chan result, 1),
		defaultTooltip: "SnapLearn",
	}
}

// SetNotifier attaches a tray tooltip target.
func (l *Loop) SetNotifier(n Notifier, defaultTooltip string) {
	l.notifier = n
	if defaultTooltip != "" {
		l.defaultTooltip = defaultTooltip
	}
}

// SetCopySummary attaches a clipboard hook invoked with each successful
// analysis summary.
func (l *Loop) SetCopySummary(fn func(text string) error) { l.copySummary = fn }

// Trigger posts a hotkey event into the loop. Capture triggers are dropped
// when the loop is flooded; quit is never dropped.
func (l *Loop) Trigger(t Trigger) {
	if t == TriggerQuit {
		select {
		case l.quit <- struct{}{}:
		default:
		}
		return
	}
	select {
	case l.events <- t:
	default:
		log.Printf("Event queue full, dropping trigger %d", t)
	}
}

// Run processes triggers and analysis results until the quit hotkey fires or
// ctx is cancelled. An in-flight analysis is waited for before returning, so
// its notes slide is not lost at shutdown.
func (l *Loop) Run(ctx context.Context) error {
	defer l.pool.Close()
	for {
		select {
		case <-ctx.Done():
			l.drain()
			return ctx.Err()
		case <-l.quit:
			log.Printf("Quit requested")
			l.drain()
			return nil
		case t := <-l.events:
			switch t {
			case TriggerDirect:
				l.handleDirect()
			case TriggerAI:
				l.handleAI(ctx)
			}
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

func (l *Loop) handleDirect() {
	if l.busy {
		log.Printf("Previous capture still in progress, ignoring direct capture")
		return
	}
	n, err := session.Direct(l.opts)
	if err != nil {
		log.Printf("Direct capture failed: %v", err)
		return
	}
	log.Printf("Direct capture %d added", n)
}

func (l *Loop) handleAI(ctx context.Context) {
	if l.busy {
		log.Printf("Previous capture still in progress, ignoring AI capture")
		return
	}
	n, path, err := session.Begin(l.opts)
	if err != nil {
		log.Printf("AI capture failed: %v", err)
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, l.deadline())
	submitted := l.pool.Submit(jobCtx, n, path, func(capture int, a vision.Analysis, err error) {
		l.results <- result{capture: capture, analysis: a, err: err}
	})
	if !submitted {
		cancel()
		log.Printf("Analysis queue full, capture %d keeps only its image slide", n)
		return
	}
	l.cancelJob = cancel
	l.setBusy(true)
	log.Printf("Capture %d submitted for analysis", n)
}

func (l *Loop) handleResult(res result) {
	l.setBusy(false)
	if l.cancelJob != nil {
		l.cancelJob()
		l.cancelJob = nil
	}
	if res.err != nil {
		log.Printf("Analysis for capture %d failed, image slide kept: %v", res.capture, res.err)
		return
	}
	if err := session.AttachNotes(l.opts, res.capture, res.analysis); err != nil {
		log.Printf("Failed to attach notes for capture %d: %v", res.capture, err)
		return
	}
	log.Printf("Notes slide for capture %d added (summary %d chars)", res.capture, len(res.analysis.Summary))
	if l.copySummary != nil {
		if err := l.copySummary(res.analysis.Summary); err != nil {
			log.Printf("Failed to copy summary to clipboard: %v", err)
		}
	}
}

// drain waits for an in-flight analysis so its result is flushed before the
// PDF export. Bounded by the job deadline plus slack.
func (l *Loop) drain() {
	if !l.busy {
		return
	}
	log.Printf("Waiting for in-flight analysis before shutdown...")
	select {
	case res := <-l.results:
		l.handleResult(res)
	case <-time.After(l.deadline() + 5*time.Second):
		log.Printf("Timed out waiting for in-flight analysis")
	}
}

func (l *Loop) setBusy(b bool) {
	l.busy = b
	if l.notifier == nil {
		return
	}
	if b {
		l.notifier.UpdateTooltip("SnapLearn: analyzing capture...")
	} else {
		l.notifier.UpdateTooltip(l.defaultTooltip)
	}
}

func (l *Loop) deadline() time.Duration {
	if l.opts.Deadline > 0 {
		return l.opts.Deadline
	}
	return 45 * time.Second
}
