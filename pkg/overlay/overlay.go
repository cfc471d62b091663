// Package overlay computes and draws the stamp placed on each emitted label
// page: the marker image in the top-right corner and the order identifier in
// the top-left corner.
//
// Placement is computed from the target page size alone, so an Overlay is a
// plain value that can be inspected in tests before it is drawn.
package overlay

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// Font contains the settings used for the identifier text.
type Font struct {
	Name  string  // Core font name (e.g., "Helvetica")
	Style string  // Font style ("", "B", "I", "BI")
	Size  float64 // Size in points
}

// Geometry holds the overlay layout constants. Lengths are in points.
type Geometry struct {
	Scale           float64 // Marker pixels to points
	Margin          float64 // Distance of the marker from the top and right edges
	VerticalOffset  float64 // Added to the marker's bottom-origin y; negative moves it down
	TextX           float64 // Left edge of the identifier text
	TextRise        float64 // Baseline height above the marker's bottom edge
	Font            Font
	DuplicateMarker string // Joins identifier and box count when count > 1
}

// DefaultGeometry returns the stock layout.
func DefaultGeometry() Geometry {
	return Geometry{
		Scale:           0.07,
		Margin:          20,
		VerticalOffset:  -10,
		TextX:           15,
		TextRise:        78,
		Font:            Font{Name: "Helvetica", Size: 11},
		DuplicateMarker: "ACV",
	}
}

// withDefaults fills fields that have no meaningful zero value.
func (g Geometry) withDefaults() Geometry {
	def := DefaultGeometry()
	if g.Scale <= 0 {
		g.Scale = def.Scale
	}
	if g.Font.Name == "" {
		g.Font.Name = def.Font.Name
	}
	if g.Font.Size <= 0 {
		g.Font.Size = def.Font.Size
	}
	if g.DuplicateMarker == "" {
		g.DuplicateMarker = def.DuplicateMarker
	}
	return g
}

// Label returns the text drawn for id: "<id> ACV <count>" when the order
// ships in several boxes, the bare id otherwise, "" without an id.
func (g Geometry) Label(id string, count int) string {
	if id == "" {
		return ""
	}
	if count > 1 {
		return fmt.Sprintf("%s %s %d", id, g.withDefaults().DuplicateMarker, count)
	}
	return id
}

// Rect is a box in top-left page coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Overlay is the placement of the stamp on one page.
type Overlay struct {
	PageWidth  float64
	PageHeight float64

	Image  *Rect // nil when there is no marker
	marker *Marker

	Text  string
	TextX float64
	TextY float64 // Baseline, top-left coordinates
	Font  Font
}

// Compose computes the overlay for a width x height page. A nil marker gives
// a text-only overlay; an empty id gives an image-only one.
func Compose(width, height float64, marker *Marker, id string, count int, geom Geometry) Overlay {
	g := geom.withDefaults()

	ov := Overlay{
		PageWidth:  width,
		PageHeight: height,
		Text:       g.Label(id, count),
		TextX:      g.TextX,
		Font:       g.Font,
		marker:     marker,
	}

	var ih float64
	if marker != nil {
		iw := float64(marker.Width) * g.Scale
		ih = float64(marker.Height) * g.Scale
		// Bottom-origin y is H - ih - margin + offset; flipped, the top edge
		// only depends on margin and offset.
		ov.Image = &Rect{
			X: width - iw - g.Margin,
			Y: g.Margin - g.VerticalOffset,
			W: iw,
			H: ih,
		}
	}

	baseline := ih + g.Margin - g.TextRise
	if baseline < g.Font.Size {
		baseline = g.Font.Size
	}
	if baseline > height {
		baseline = height
	}
	ov.TextY = baseline

	return ov
}

// Apply draws the overlay onto the current page of pdf. Failures are left in
// the document's error state, like every other fpdf call.
func (ov Overlay) Apply(pdf *fpdf.Fpdf) {
	if ov.Image != nil && ov.marker != nil {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(markerImageName, opts, bytes.NewReader(ov.marker.png))
		pdf.ImageOptions(markerImageName, ov.Image.X, ov.Image.Y, ov.Image.W, ov.Image.H, false, opts, 0, "")
	}

	if ov.Text == "" {
		return
	}

	// Core fonts are Latin-1 encoded
	latin1, err := charmap.ISO8859_1.NewEncoder().String(ov.Text)
	if err != nil {
		latin1 = ov.Text
	}

	pdf.SetFont(ov.Font.Name, ov.Font.Style, ov.Font.Size)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(ov.TextX, ov.TextY, latin1)
}
