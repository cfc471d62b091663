package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/gardar/labelsort/pkg/overlay"
	"github.com/gardar/labelsort/pkg/pdftext"
)

// ErrEmptyPlan is returned by Render when there is no page to write.
var ErrEmptyPlan = errors.New("nothing to write: the plan has no pages")

// documentDate is stamped as creation and modification date of every output.
var documentDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Render imports the planned source pages in order, stamps the label pages
// and serializes the result. marker may be nil for text-only overlays.
func Render(plan Plan, source *pdftext.Document, marker *overlay.Marker, geom overlay.Geometry) ([]byte, error) {
	if len(plan.Pages) == 0 {
		return nil, ErrEmptyPlan
	}
	if source == nil || len(source.Data) == 0 {
		return nil, fmt.Errorf("source PDF data is empty")
	}
	if err := plan.Validate(source.PageCount()); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(source.Data))

	for i, pg := range plan.Pages {
		src, _ := source.Page(pg.Source - 1)

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: src.Width, Ht: src.Height})
		if err := importPage(pdf, importer, &rs, pg.Source, src.Width, src.Height); err != nil {
			return nil, fmt.Errorf("output page %d: %w", i+1, err)
		}

		if pg.Kind.Stamped() {
			overlay.Compose(src.Width, src.Height, marker, pg.ID.String(), pg.Count, geom).Apply(pdf)
		}

		if pdf.Err() {
			return nil, fmt.Errorf("output page %d (source page %d): %w", i+1, pg.Source, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// importPage merges source page pageno onto the current page. The importer
// panics on malformed input, so that is turned into an error.
func importPage(pdf *fpdf.Fpdf, importer *gofpdi.Importer, rs *io.ReadSeeker, pageno int, w, h float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("importing source page %d: %v", pageno, r)
		}
	}()

	tpl := importer.ImportPageFromStream(pdf, rs, pageno, "/MediaBox")
	importer.UseImportedTemplate(pdf, tpl, 0, 0, w, h)
	return nil
}
