package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/gardar/labelsort/internal/testpdf"
	"github.com/gardar/labelsort/pkg/pdftext"
)

func TestLabel(t *testing.T) {
	g := DefaultGeometry()

	assert.Equal(t, "PO-123456", g.Label("PO-123456", 1))
	assert.Equal(t, "PO-123456", g.Label("PO-123456", 0))
	assert.Equal(t, "PO-123456 ACV 3", g.Label("PO-123456", 3))
	assert.Equal(t, "", g.Label("", 3))

	g.DuplicateMarker = "x"
	assert.Equal(t, "PO-1 x 2", g.Label("PO-1", 2))
}

func TestComposePlacement(t *testing.T) {
	m := &Marker{Width: 1000, Height: 500}

	ov := Compose(288, 432, m, "PO-1234567", 2, DefaultGeometry())

	require.NotNil(t, ov.Image)
	assert.InDelta(t, 70, ov.Image.W, 1e-9)
	assert.InDelta(t, 35, ov.Image.H, 1e-9)
	assert.InDelta(t, 288-70-20, ov.Image.X, 1e-9)
	// Margin 20 with the -10 offset pushes the top edge to 30
	assert.InDelta(t, 30, ov.Image.Y, 1e-9)

	assert.Equal(t, "PO-1234567 ACV 2", ov.Text)
	assert.InDelta(t, 15, ov.TextX, 1e-9)
	// Baseline would sit at 35+20-78 = -23, above the page edge
	assert.InDelta(t, 11, ov.TextY, 1e-9)
}

func TestComposeTallMarkerKeepsRise(t *testing.T) {
	m := &Marker{Width: 1000, Height: 2000}

	ov := Compose(595, 842, m, "PO-1", 1, DefaultGeometry())

	// 140 + 20 - 78
	assert.InDelta(t, 82, ov.TextY, 1e-9)
	assert.Equal(t, "PO-1", ov.Text)
}

func TestComposeVerticalOffset(t *testing.T) {
	g := DefaultGeometry()
	g.VerticalOffset = 5

	ov := Compose(288, 432, &Marker{Width: 100, Height: 100}, "PO-1", 1, g)

	assert.InDelta(t, 15, ov.Image.Y, 1e-9)
}

func TestComposeWithoutMarker(t *testing.T) {
	ov := Compose(288, 432, nil, "PO-1", 1, DefaultGeometry())

	assert.Nil(t, ov.Image)
	assert.Equal(t, "PO-1", ov.Text)
	assert.InDelta(t, 11, ov.TextY, 1e-9)
}

func TestComposeZeroGeometryUsesDefaults(t *testing.T) {
	ov := Compose(288, 432, &Marker{Width: 100, Height: 100}, "PO-1", 2, Geometry{})

	assert.InDelta(t, 7, ov.Image.W, 1e-9)
	assert.Equal(t, "Helvetica", ov.Font.Name)
	assert.Equal(t, "PO-1 ACV 2", ov.Text)
}

func TestLoadMarkerFormats(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 12, 8), color.Palette{color.Black, color.White})

	var gifData bytes.Buffer
	require.NoError(t, gif.Encode(&gifData, img, nil))
	var bmpData bytes.Buffer
	require.NoError(t, bmp.Encode(&bmpData, img))

	tests := []struct {
		name   string
		data   []byte
		format string
		w, h   int
	}{
		{"png", testpdf.PNG(t, 40, 20), "png", 40, 20},
		{"gif", gifData.Bytes(), "gif", 12, 8},
		{"bmp", bmpData.Bytes(), "bmp", 12, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := LoadMarker(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.format, m.Format)
			assert.Equal(t, tt.w, m.Width)
			assert.Equal(t, tt.h, m.Height)
			assert.True(t, bytes.HasPrefix(m.PNG(), []byte("\x89PNG")))
		})
	}
}

func TestLoadMarkerRejectsGarbage(t *testing.T) {
	_, err := LoadMarker([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrMarkerDecode)

	_, err = LoadMarker(nil)
	assert.ErrorIs(t, err, ErrMarkerDecode)
}

func TestApplyDrawsText(t *testing.T) {
	m, err := LoadMarker(testpdf.PNG(t, 200, 200))
	require.NoError(t, err)

	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: 288, Ht: 432})
	Compose(288, 432, m, "PO-7654321", 2, DefaultGeometry()).Apply(pdf)
	// A second page reuses the registered image
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: 288, Ht: 432})
	Compose(288, 432, m, "PO-1111111", 1, DefaultGeometry()).Apply(pdf)

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))

	doc, err := pdftext.Parse(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 2, doc.PageCount())

	text, ok := doc.Text(0)
	require.True(t, ok)
	assert.True(t, strings.Contains(text, "PO-7654321"), "got %q", text)
	assert.Contains(t, text, "ACV")
	text, _ = doc.Text(1)
	assert.Contains(t, text, "PO-1111111")
}
