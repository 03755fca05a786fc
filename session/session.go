// Package session expresses the capture-to-slide flows over small function
// and interface types, so the pipeline's guarantees (one image slide per
// capture, notes slide only on a successful analysis) can be exercised with
// fakes.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sehmus-akcakale/SnapLearn/vision"
)

// CaptureFunc takes one screenshot and returns the saved file path.
type CaptureFunc func() (string, error)

// AnalyzeFunc runs one remote vision call on a saved capture file.
type AnalyzeFunc func(ctx context.Context, imagePath string) (vision.Analysis, error)

// SlideSink is where finished captures land. *deck.Deck satisfies it.
type SlideSink interface {
	AddImageSlide(imagePath string) (int, error)
	AddNotesSlide(capture int, summary string, q vision.Question) error
}

type Options struct {
	Capture  CaptureFunc
	Analyze  AnalyzeFunc
	Sink     SlideSink
	Deadline time.Duration
}

func (o Options) validate() error {
	if o.Capture == nil {
		return errors.New("Capture is required")
	}
	if o.Sink == nil {
		return errors.New("Sink is required")
	}
	return nil
}

// Direct runs the direct-capture flow: screenshot, one image slide, done.
// It returns the capture number.
func Direct(opts Options) (int, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}
	path, err := opts.Capture()
	if err != nil {
		return 0, fmt.Errorf("capture failed: %w", err)
	}
	n, err := opts.Sink.AddImageSlide(path)
	if err != nil {
		return 0, fmt.Errorf("failed to add image slide: %w", err)
	}
	return n, nil
}

// Begin runs the shared first half of the AI-capture flow: screenshot plus
// the immediate image slide. It returns the capture number and the saved
// image path for the analysis stage.
func Begin(opts Options) (int, string, error) {
	if err := opts.validate(); err != nil {
		return 0, "", err
	}
	path, err := opts.Capture()
	if err != nil {
		return 0, "", fmt.Errorf("capture failed: %w", err)
	}
	n, err := opts.Sink.AddImageSlide(path)
	if err != nil {
		return 0, "", fmt.Errorf("failed to add image slide: %w", err)
	}
	return n, path, nil
}

// AttachNotes appends the notes slide for a completed analysis.
func AttachNotes(opts Options, capture int, a vision.Analysis) error {
	if opts.Sink == nil {
		return errors.New("Sink is required")
	}
	if err := opts.Sink.AddNotesSlide(capture, a.Summary, a.Question); err != nil {
		return fmt.Errorf("failed to add notes slide: %w", err)
	}
	return nil
}

// WithAnalysis runs the whole AI-capture flow synchronously: screenshot,
// image slide, remote analysis under the deadline, notes slide. On analysis
// failure the image slide stands alone and the error is returned; the caller
// logs it and the session continues.
func WithAnalysis(ctx context.Context, opts Options) (int, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}
	if opts.Analyze == nil {
		return 0, errors.New("Analyze is required")
	}

	n, path, err := Begin(opts)
	if err != nil {
		return 0, err
	}

	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = 45 * time.Second
	}
	jobCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	a, err := opts.Analyze(jobCtx, path)
	if err != nil {
		return n, fmt.Errorf("analysis failed: %w", err)
	}
	if err := AttachNotes(opts, n, a); err != nil {
		return n, err
	}
	return n, nil
}
