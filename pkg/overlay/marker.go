package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	// Decoders registered for image.Decode
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrMarkerDecode is returned when the marker bytes are not a raster image.
var ErrMarkerDecode = errors.New("marker image could not be decoded")

// markerImageName is the name the marker is registered under in the output PDF.
const markerImageName = "labelsort-marker"

// Marker is a decoded marker image, re-encoded as PNG so the PDF writer only
// ever sees one image format.
type Marker struct {
	Format string // Source format as reported by the decoder
	Width  int    // Native width in pixels
	Height int    // Native height in pixels
	png    []byte
}

// LoadMarker decodes a PNG, JPEG, GIF, BMP, TIFF or WebP image.
func LoadMarker(data []byte) (*Marker, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMarkerDecode)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarkerDecode, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrMarkerDecode)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: re-encoding as PNG: %w", ErrMarkerDecode, err)
	}

	return &Marker{
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		png:    buf.Bytes(),
	}, nil
}

// PNG returns the re-encoded image bytes.
func (m *Marker) PNG() []byte {
	if m == nil {
		return nil
	}
	return m.png
}
