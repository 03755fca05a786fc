package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"
)

// Store persists full-screen captures as PNG files under a session-scoped
// directory. One Store exists per session; files are numbered so the order
// of captures survives in the directory listing.
type Store struct {
	dir string
	seq int
}

// NewStore creates the session capture directory under baseDir, named by the
// session start timestamp.
func NewStore(baseDir string, startedAt time.Time) (*Store, error) {
	dir := filepath.Join(baseDir, startedAt.Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create screenshots directory: %v", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the session capture directory.
func (s *Store) Dir() string { return s.dir }

// Capture grabs the primary display and writes it as a PNG file.
// It returns the saved file path.
func (s *Store) Capture() (string, error) {
	img, err := Capture()
	if err != nil {
		return "", err
	}
	path, err := s.save(img)
	if err != nil {
		return "", err
	}
	b := img.Bounds()
	log.Printf("Captured %dx%d -> %s", b.Dx(), b.Dy(), path)
	return path, nil
}

func (s *Store) save(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	s.seq++
	name := captureFilename(s.seq, time.Now())
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write capture file: %v", err)
	}
	return path, nil
}

func captureFilename(seq int, t time.Time) string {
	return fmt.Sprintf("capture_%03d_%s.png", seq, t.Format("2006-01-02_15-04-05"))
}

// Capture captures the entire primary display.
func Capture() (*image.RGBA, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, fmt.Errorf("no active displays found")
	}
	return screenshot.CaptureDisplay(0)
}

// EncodePNG converts a captured image to PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %v", err)
	}
	return buf.Bytes(), nil
}

// GetDisplayBounds returns the bounds of the primary display.
func GetDisplayBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	return screenshot.GetDisplayBounds(0), nil
}
