package guide

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/labelsort/pkg/ident"
	"github.com/gardar/labelsort/pkg/pdftext"
	"github.com/gardar/labelsort/pkg/progress"
)

func textPage(text string) pdftext.Page {
	return pdftext.Page{Width: 595, Height: 842, Text: text, Extracted: true}
}

func TestScanPreservesFirstSeenOrder(t *testing.T) {
	doc := pdftext.FromPages(
		textPage("A 111111-1\nB 222222-2"),
		textPage("again 111111-1\nC 333333-3"),
	)

	var rec progress.Recorder
	res := NewScanner(&rec).Scan(doc)

	want := []ident.ID{"PO-111111-1", "PO-222222-2", "PO-333333-3"}
	if diff := cmp.Diff(want, res.Order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[ident.ID]int{
		"PO-111111-1": 2,
		"PO-222222-2": 1,
		"PO-333333-3": 1,
	}, res.Counts)
	assert.Equal(t, 4, res.Total())
	assert.Equal(t, 1, rec.Count(progress.Info))
}

func TestScanRejectsShortMatches(t *testing.T) {
	doc := pdftext.FromPages(textPage("qty 12-34 ref 123456789 date 24-01"))

	var rec progress.Recorder
	res := NewScanner(&rec).Scan(doc)

	assert.Equal(t, []ident.ID{"PO-123456789"}, res.Order)
	assert.Equal(t, []string{"12-34", "24-01"}, res.Rejected)
	assert.Equal(t, 2, rec.Count(progress.Warning))
}

func TestScanKeepsExistingPrefix(t *testing.T) {
	doc := pdftext.FromPages(textPage("PO-211-6543210987 and 211-6543210987"))

	res := NewScanner(nil).Scan(doc)

	// The permissive pattern only captures the digits, both map to one order
	assert.Equal(t, []ident.ID{"PO-211-6543210987"}, res.Order)
	assert.Equal(t, 2, res.Count("PO-211-6543210987"))
}

func TestScanWithoutPrefix(t *testing.T) {
	doc := pdftext.FromPages(textPage("211-6543210987"))

	s := NewScanner(nil)
	s.Canon = ident.Canonicalizer{}
	res := s.Scan(doc)

	assert.Equal(t, []ident.ID{"211-6543210987"}, res.Order)
}

func TestScanEmptyGuide(t *testing.T) {
	doc := pdftext.FromPages(textPage("no references here"), pdftext.Page{})

	var rec progress.Recorder
	res := NewScanner(&rec).Scan(doc)

	assert.Empty(t, res.Order)
	assert.Empty(t, res.Counts)
	assert.Empty(t, res.Entries())
	// The page without a text layer is reported
	assert.Equal(t, 1, rec.Count(progress.Warning))
}

func TestEntries(t *testing.T) {
	doc := pdftext.FromPages(textPage("999999-1 888888-2 999999-1 999999-1"))

	entries := NewScanner(nil).Scan(doc).Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{ID: "PO-999999-1", Position: 0, Count: 3}, entries[0])
	assert.Equal(t, Entry{ID: "PO-888888-2", Position: 1, Count: 1}, entries[1])
}

func TestScanCustomMatcher(t *testing.T) {
	doc := pdftext.FromPages(textPage("ORD-AB12CD ORD-XY99ZZ"))

	s := NewScanner(nil)
	s.Matcher = ident.MustMatcher(`ORD-[A-Z0-9]+`, 5)
	s.Canon = ident.Canonicalizer{}
	res := s.Scan(doc)

	assert.Equal(t, []ident.ID{"ORD-AB12CD", "ORD-XY99ZZ"}, res.Order)
}
