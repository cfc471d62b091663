package pdftext

import (
	"bytes"
	"fmt"
	"os"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/reader"
)

// extractor is one way of reading page boxes and text from a PDF.
// Page indexes are 0-based.
type extractor interface {
	name() string
	pageCount() int
	pageSize(i int) (w, h float64, err error)
	pageText(i int) (string, error)
	close() error
}

// tabulaExtractor reads through tabula. The tabula reader works on files, so
// the bytes are spooled to a temporary file for the lifetime of the reader.
type tabulaExtractor struct {
	r     *reader.Reader
	path  string
	count int
}

func openTabula(data []byte) (ext *tabulaExtractor, err error) {
	tmp, err := os.CreateTemp("", "labelsort-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	path := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to spool PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to spool PDF: %w", err)
	}

	ext = &tabulaExtractor{path: path}
	err = guard(func() error {
		r, err := reader.Open(path)
		if err != nil {
			return err
		}
		ext.r = r
		count, err := r.PageCount()
		if err != nil {
			return fmt.Errorf("page count: %w", err)
		}
		ext.count = count
		return nil
	})
	if err != nil {
		ext.close()
		return nil, err
	}
	return ext, nil
}

func (e *tabulaExtractor) name() string { return "tabula" }

func (e *tabulaExtractor) pageCount() int { return e.count }

func (e *tabulaExtractor) pageSize(i int) (float64, float64, error) {
	page, err := e.r.GetPage(i)
	if err != nil {
		return 0, 0, err
	}
	w, err := page.Width()
	if err != nil {
		return 0, 0, err
	}
	h, err := page.Height()
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func (e *tabulaExtractor) pageText(i int) (string, error) {
	// FromReader does not take ownership, the reader stays open
	text, _, err := tabula.FromReader(e.r).Pages(i + 1).Text()
	return text, err
}

func (e *tabulaExtractor) close() error {
	var err error
	if e.r != nil {
		err = e.r.Close()
		e.r = nil
	}
	if e.path != "" {
		os.Remove(e.path)
		e.path = ""
	}
	return err
}

// ledongthucExtractor reads through github.com/ledongthuc/pdf, which works on
// an io.ReaderAt and needs no spool file.
type ledongthucExtractor struct {
	r *ledongthuc.Reader
}

func openLedongthuc(data []byte) (ext *ledongthucExtractor, err error) {
	err = guard(func() error {
		r, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return err
		}
		if r.NumPage() == 0 {
			return fmt.Errorf("no pages")
		}
		ext = &ledongthucExtractor{r: r}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ext, nil
}

func (e *ledongthucExtractor) name() string { return "ledongthuc" }

func (e *ledongthucExtractor) pageCount() int { return e.r.NumPage() }

func (e *ledongthucExtractor) pageSize(i int) (float64, float64, error) {
	page := e.r.Page(i + 1)
	if page.V.IsNull() {
		return 0, 0, fmt.Errorf("page %d not found", i+1)
	}

	// MediaBox is inheritable, walk up the page tree
	box := page.V.Key("MediaBox")
	for node := page.V; box.IsNull(); {
		node = node.Key("Parent")
		if node.IsNull() {
			return 0, 0, fmt.Errorf("page %d has no MediaBox", i+1)
		}
		box = node.Key("MediaBox")
	}
	if box.Len() != 4 {
		return 0, 0, fmt.Errorf("page %d MediaBox has %d entries", i+1, box.Len())
	}

	llx, lly := box.Index(0).Float64(), box.Index(1).Float64()
	urx, ury := box.Index(2).Float64(), box.Index(3).Float64()
	return urx - llx, ury - lly, nil
}

func (e *ledongthucExtractor) pageText(i int) (string, error) {
	page := e.r.Page(i + 1)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d not found", i+1)
	}
	return page.GetPlainText(nil)
}

func (e *ledongthucExtractor) close() error {
	e.r = nil
	return nil
}
