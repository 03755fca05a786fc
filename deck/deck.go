// Package deck maintains the session presentation document: an append-only
// list of slides written to disk after every change, with a PDF export at
// shutdown. The document is PresentationML (pptx) produced directly, so no
// PowerPoint installation is needed.
package deck

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sehmus-akcakale/SnapLearn/vision"
)

type slideKind int

const (
	kindTitle slideKind = iota
	kindImage
	kindNotes
)

type slide struct {
	kind      slideKind
	title     string
	subtitle  string
	imagePath string
	summary   string
	question  vision.Question
}

// Deck is one session's presentation. Slides accumulate monotonically and the
// file is rewritten after every append, so a crash loses at most the
// in-flight capture. A Deck is owned by the event loop goroutine and is not
// safe for concurrent use.
type Deck struct {
	path      string
	startedAt time.Time
	slides    []slide
	captures  int
}

// New creates the output directory and a fresh presentation named by the
// session start timestamp, seeded with a title slide.
func New(outputDir string, startedAt time.Time) (*Deck, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %v", err)
	}
	d := &Deck{
		path:      filepath.Join(outputDir, "presentation_"+startedAt.Format("2006-01-02_15-04-05")+".pptx"),
		startedAt: startedAt,
	}
	d.slides = append(d.slides, slide{
		kind:     kindTitle,
		title:    "SnapLearn Session",
		subtitle: "Auto-generated - " + startedAt.Format("January 2, 2006"),
	})
	if err := d.save(); err != nil {
		return nil, err
	}
	log.Printf("New presentation created: %s", d.path)
	return d, nil
}

// Path returns the presentation file path.
func (d *Deck) Path() string { return d.path }

// SlideCount returns the total number of slides, including the title slide.
func (d *Deck) SlideCount() int { return len(d.slides) }

// CaptureCount returns the number of image slides added so far.
func (d *Deck) CaptureCount() int { return d.captures }

// AddImageSlide appends one full-width screenshot slide and saves the file.
// It returns the capture number, which a later notes slide can reference.
func (d *Deck) AddImageSlide(imagePath string) (int, error) {
	d.captures++
	n := d.captures
	d.slides = append(d.slides, slide{
		kind:      kindImage,
		title:     fmt.Sprintf("Capture %d", n),
		imagePath: imagePath,
	})
	if err := d.save(); err != nil {
		// Roll back so a retried capture does not skip a number
		d.slides = d.slides[:len(d.slides)-1]
		d.captures--
		return 0, err
	}
	log.Printf("Image slide for capture %d added (%d slides total)", n, len(d.slides))
	return n, nil
}

// AddNotesSlide appends the summary/question slide for a previously added
// capture and saves the file.
func (d *Deck) AddNotesSlide(capture int, summary string, q vision.Question) error {
	d.slides = append(d.slides, slide{
		kind:     kindNotes,
		title:    fmt.Sprintf("Capture %d - Notes", capture),
		summary:  summary,
		question: q,
	})
	if err := d.save(); err != nil {
		d.slides = d.slides[:len(d.slides)-1]
		return err
	}
	log.Printf("Notes slide for capture %d added (%d slides total)", capture, len(d.slides))
	return nil
}

// save writes the whole document to a temp file, then renames it over the
// session file so readers never see a half-written zip.
func (d *Deck) save() error {
	tmp := d.path + ".tmp"
	if err := writePPTX(tmp, d.slides); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write presentation: %v", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace presentation: %v", err)
	}
	return nil
}
