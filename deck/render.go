package deck

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Raster geometry for PDF pages: 16:9, same aspect as the slides.
const (
	pageW = 1600
	pageH = 900

	marginX    = 80
	lineHeight = 22
	// basicfont.Face7x13 advance
	glyphW = 7
)

var (
	pageBg    = color.RGBA{255, 255, 255, 255}
	rgbTitle  = color.RGBA{0x1F, 0x49, 0x7D, 255}
	rgbHead   = color.RGBA{0x2E, 0x74, 0xB5, 255}
	rgbQuest  = color.RGBA{0xC0, 0x50, 0x4D, 255}
	rgbBody   = color.RGBA{0x33, 0x33, 0x33, 255}
	rgbSubtle = color.RGBA{0x66, 0x66, 0x66, 255}
)

// renderSlide rasterizes one slide to a PNG file for the PDF export.
func renderSlide(s slide, path string) error {
	dst := image.NewRGBA(image.Rect(0, 0, pageW, pageH))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(pageBg), image.Point{}, xdraw.Src)

	switch s.kind {
	case kindTitle:
		drawCentered(dst, s.title, pageH/2-20, rgbHead)
		drawCentered(dst, s.subtitle, pageH/2+20, rgbSubtle)
	case kindImage:
		drawText(dst, s.title, marginX, 60, rgbTitle)
		if err := drawCapture(dst, s.imagePath); err != nil {
			return err
		}
	case kindNotes:
		drawText(dst, s.title, marginX, 60, rgbTitle)
		y := 120
		y = drawWrapped(dst, "Summary", y, rgbHead)
		y = drawWrapped(dst, truncateSummary(s.summary), y, rgbBody)
		y += lineHeight
		y = drawWrapped(dst, "Multiple Choice Question", y, rgbQuest)
		y = drawWrapped(dst, s.question.Prompt, y, rgbBody)
		for i, opt := range s.question.Options {
			y = drawWrapped(dst, fmt.Sprintf("%c) %s", 'A'+i, opt), y, rgbBody)
		}
		if s.question.Correct >= 0 {
			y += lineHeight
			drawWrapped(dst, fmt.Sprintf("Correct Answer: %c", 'A'+s.question.Correct), y, rgbBody)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, dst)
}

// drawCapture scales the screenshot into the content area, preserving aspect.
func drawCapture(dst *image.RGBA, imagePath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open capture %s: %v", imagePath, err)
	}
	defer f.Close()
	src, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode capture %s: %v", imagePath, err)
	}

	box := image.Rect(marginX, 100, pageW-marginX, pageH-40)
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return fmt.Errorf("capture %s has empty bounds", imagePath)
	}

	// Fit inside the box
	scale := float64(box.Dx()) / float64(sb.Dx())
	if s := float64(box.Dy()) / float64(sb.Dy()); s < scale {
		scale = s
	}
	w := int(float64(sb.Dx()) * scale)
	h := int(float64(sb.Dy()) * scale)
	x0 := box.Min.X + (box.Dx()-w)/2
	y0 := box.Min.Y + (box.Dy()-h)/2

	xdraw.ApproxBiLinear.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), src, sb, xdraw.Over, nil)
	return nil
}

func drawText(dst *image.RGBA, text string, x, y int, col color.RGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func drawCentered(dst *image.RGBA, text string, y int, col color.RGBA) {
	x := (pageW - len(text)*glyphW) / 2
	if x < marginX {
		x = marginX
	}
	drawText(dst, text, x, y, col)
}

// drawWrapped draws text wrapped to the content width and returns the next
// baseline y.
func drawWrapped(dst *image.RGBA, text string, y int, col color.RGBA) int {
	maxChars := (pageW - 2*marginX) / glyphW
	for _, line := range wrap(text, maxChars) {
		drawText(dst, line, marginX, y, col)
		y += lineHeight
	}
	return y
}

func wrap(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var lines []string
	line := ""
	for _, word := range splitWords(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= maxChars:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
		// Hard-wrap pathological words
		for len(line) > maxChars {
			lines = append(lines, line[:maxChars])
			line = line[maxChars:]
		}
	}
	if line != "" || len(lines) == 0 {
		lines = append(lines, line)
	}
	return lines
}

func splitWords(text string) []string {
	var words []string
	word := ""
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if word != "" {
				words = append(words, word)
				word = ""
			}
			continue
		}
		word += string(r)
	}
	if word != "" {
		words = append(words, word)
	}
	return words
}
