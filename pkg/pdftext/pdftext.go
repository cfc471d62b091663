// Package pdftext loads a PDF into memory as a list of pages with their
// MediaBox dimensions and embedded text layer.
//
// Text is read with the tabula reader first; when tabula cannot handle a page
// (or the whole file) the ledongthuc/pdf reader is tried instead. Extraction
// problems on a single page never fail the load: the page simply carries an
// empty text and Extracted=false. Only an unreadable container is fatal.
//
// No OCR is performed. Pages without a text layer come back empty.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// ErrCorruptDocument is returned when no extractor can open the PDF container.
var ErrCorruptDocument = errors.New("corrupt PDF document")

// US Letter in points, used when a page has no readable MediaBox.
const (
	fallbackWidth  = 612.0
	fallbackHeight = 792.0
)

// Page is one page of a loaded document. Pages are immutable once loaded.
type Page struct {
	Number    int     // 1-based page number in the source document
	Width     float64 // MediaBox width in points
	Height    float64 // MediaBox height in points
	Text      string  // Extracted text layer, empty when unavailable
	Extracted bool    // False when the text layer could not be read
}

// Document is an in-memory PDF: its raw bytes plus extracted pages.
type Document struct {
	Data     []byte   // Raw PDF bytes, kept for page import when rendering
	Pages    []Page   // Pages in document order
	Warnings []string // One entry per page-level extraction problem
}

// FromPages builds a Document from already-known pages. Page numbers are
// assigned from the slice position when left at zero.
func FromPages(pages ...Page) *Document {
	doc := &Document{Pages: make([]Page, len(pages))}
	for i, p := range pages {
		if p.Number == 0 {
			p.Number = i + 1
		}
		doc.Pages[i] = p
	}
	return doc
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}

// Page returns the page at 0-based index i.
func (d *Document) Page(i int) (Page, bool) {
	if d == nil || i < 0 || i >= len(d.Pages) {
		return Page{}, false
	}
	return d.Pages[i], true
}

// Text returns the text layer of the page at 0-based index i and whether it
// was read successfully. It never fails: out of range or unreadable pages
// give an empty string.
func (d *Document) Text(i int) (string, bool) {
	p, ok := d.Page(i)
	if !ok {
		return "", false
	}
	return p.Text, p.Extracted
}

// Load reads and parses the PDF at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse extracts pages from raw PDF bytes.
func Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty PDF data: %w", ErrCorruptDocument)
	}

	var (
		sources []extractor
		errs    []error
	)

	primary, err := openTabula(data)
	if err != nil {
		errs = append(errs, fmt.Errorf("tabula: %w", err))
	} else {
		defer primary.close()
		sources = append(sources, primary)
	}

	fallback, err := openLedongthuc(data)
	if err != nil {
		errs = append(errs, fmt.Errorf("ledongthuc: %w", err))
	} else {
		defer fallback.close()
		sources = append(sources, fallback)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, errors.Join(errs...))
	}

	count := sources[0].pageCount()
	doc := &Document{
		Data:  data,
		Pages: make([]Page, 0, count),
	}

	for i := 0; i < count; i++ {
		page := Page{Number: i + 1}

		w, h, sizeErr := firstSize(sources, i)
		if sizeErr != nil {
			w, h = fallbackWidth, fallbackHeight
			doc.Warnings = append(doc.Warnings,
				fmt.Sprintf("page %d: no usable MediaBox, assuming %gx%g: %v", i+1, w, h, sizeErr))
		}
		page.Width, page.Height = w, h

		text, textErr := firstText(sources, i)
		if textErr != nil {
			doc.Warnings = append(doc.Warnings,
				fmt.Sprintf("page %d: text layer unreadable: %v", i+1, textErr))
		} else {
			page.Text = text
			page.Extracted = true
		}

		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

// ParsePair parses the guide and source documents concurrently. The two
// parses share nothing; the first fatal error is returned.
func ParsePair(ctx context.Context, guideData, sourceData []byte) (guide, source *Document, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := Parse(guideData)
		if err != nil {
			return fmt.Errorf("guide document: %w", err)
		}
		guide = doc
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := Parse(sourceData)
		if err != nil {
			return fmt.Errorf("source document: %w", err)
		}
		source = doc
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return guide, source, nil
}

func firstText(sources []extractor, i int) (string, error) {
	var errs []error
	for _, src := range sources {
		var text string
		err := guard(func() error {
			var err error
			text, err = src.pageText(i)
			return err
		})
		if err == nil {
			return text, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", src.name(), err))
	}
	return "", errors.Join(errs...)
}

func firstSize(sources []extractor, i int) (float64, float64, error) {
	var errs []error
	for _, src := range sources {
		var w, h float64
		err := guard(func() error {
			var err error
			w, h, err = src.pageSize(i)
			return err
		})
		if err == nil && w > 0 && h > 0 {
			return w, h, nil
		}
		if err == nil {
			err = fmt.Errorf("degenerate box %gx%g", w, h)
		}
		errs = append(errs, fmt.Errorf("%s: %w", src.name(), err))
	}
	return 0, 0, errors.Join(errs...)
}

// guard turns a panic inside a third-party reader into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered: %v", r)
		}
	}()
	return fn()
}
