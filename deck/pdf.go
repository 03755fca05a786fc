package deck

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ExportPDF rasterizes every slide and assembles one PDF page per slide next
// to the native file. It returns the PDF path.
func (d *Deck) ExportPDF() (string, error) {
	pdfPath := strings.TrimSuffix(d.path, filepath.Ext(d.path)) + ".pdf"

	pagesDir, err := os.MkdirTemp("", "snaplearn-pages-")
	if err != nil {
		return "", fmt.Errorf("failed to create page directory: %v", err)
	}
	defer os.RemoveAll(pagesDir)

	var pages []string
	for i, s := range d.slides {
		p := filepath.Join(pagesDir, fmt.Sprintf("page_%03d.png", i+1))
		if err := renderSlide(s, p); err != nil {
			return "", fmt.Errorf("failed to render slide %d: %v", i+1, err)
		}
		pages = append(pages, p)
	}

	// One full-bleed 16:9 page per slide
	imp, err := api.Import(fmt.Sprintf("dim:%d %d, pos:c", pageW/2, pageH/2), types.POINTS)
	if err != nil {
		log.Printf("Falling back to default PDF import settings: %v", err)
		imp = nil
	}
	if err := api.ImportImagesFile(pages, pdfPath, imp, nil); err != nil {
		return "", fmt.Errorf("PDF export failed: %v", err)
	}

	log.Printf("PDF exported: %s (%d pages)", pdfPath, len(pages))
	return pdfPath, nil
}
