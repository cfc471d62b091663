// Package testpdf builds small PDF and image fixtures for tests.
package testpdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"codeberg.org/go-pdf/fpdf"
)

// Page describes one fixture page. Width and Height default to A6 in points.
type Page struct {
	Width  float64
	Height float64
	Lines  []string
}

// Text is a shorthand for an A6 page holding the given lines.
func Text(lines ...string) Page {
	return Page{Lines: lines}
}

// Blank is an A6 page without any text layer.
func Blank() Page {
	return Page{}
}

// Build renders pages into a PDF using Helvetica, one line every 14pt.
func Build(t testing.TB, pages ...Page) []byte {
	t.Helper()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	pdf.SetModificationDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	pdf.SetAutoPageBreak(false, 0)

	for _, p := range pages {
		w, h := p.Width, p.Height
		if w == 0 || h == 0 {
			w, h = 298, 420
		}
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		pdf.SetFont("Helvetica", "", 10)
		for i, line := range p.Lines {
			pdf.Text(20, 40+float64(i)*14, line)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("failed to build fixture PDF: %v", err)
	}
	return buf.Bytes()
}

// PNG returns an opaque w x h PNG filled with a single colour.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill := color.NRGBA{R: 230, G: 180, B: 20, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode fixture PNG: %v", err)
	}
	return buf.Bytes()
}
