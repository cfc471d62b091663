// Package guide reads the guide document: the ordered list of orders that
// must be shipped.
//
// Every digit-heavy run in the guide is a candidate order identifier. The
// first time an identifier is seen fixes its position in the dispatch order;
// later sightings only raise its count. A count above one means the order
// ships in several boxes.
package guide

import (
	"github.com/gardar/labelsort/pkg/ident"
	"github.com/gardar/labelsort/pkg/pdftext"
	"github.com/gardar/labelsort/pkg/progress"
)

// Entry is one unique guide identifier.
type Entry struct {
	ID       ident.ID
	Position int // 0-based first-seen position
	Count    int // Number of occurrences across the whole guide
}

// Result holds the scanned guide.
type Result struct {
	Order    []ident.ID       // Unique identifiers in first-seen order
	Counts   map[ident.ID]int // Occurrences per identifier
	Rejected []string         // Raw matches that failed the length threshold
}

// Count returns how often id occurs in the guide, 0 when absent.
func (r Result) Count(id ident.ID) int {
	return r.Counts[id]
}

// Entries returns the guide entries in dispatch order.
func (r Result) Entries() []Entry {
	entries := make([]Entry, len(r.Order))
	for i, id := range r.Order {
		entries[i] = Entry{ID: id, Position: i, Count: r.Counts[id]}
	}
	return entries
}

// Total returns the number of identifier occurrences, duplicates included.
func (r Result) Total() int {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	return total
}

// Scanner extracts identifiers from guide pages.
type Scanner struct {
	Matcher *ident.Matcher
	Canon   ident.Canonicalizer
	Sink    progress.Sink
}

// NewScanner returns a scanner using the default guide pattern and prefix.
func NewScanner(sink progress.Sink) *Scanner {
	return &Scanner{
		Matcher: ident.GuideMatcher(),
		Canon:   ident.DefaultCanonicalizer,
		Sink:    sink,
	}
}

// Scan reads every page of doc in order. It never fails: unreadable pages
// contribute no identifiers, and a guide without any match yields an empty
// result.
func (s *Scanner) Scan(doc *pdftext.Document) Result {
	matcher := s.Matcher
	if matcher == nil {
		matcher = ident.GuideMatcher()
	}

	res := Result{Counts: make(map[ident.ID]int)}

	for i := 0; i < doc.PageCount(); i++ {
		text, ok := doc.Text(i)
		if !ok {
			progress.Logf(s.Sink, progress.Warning, "Guide page %d: text layer unreadable, skipped", i+1)
			continue
		}

		for _, c := range matcher.FindAll(text) {
			if !c.OK {
				res.Rejected = append(res.Rejected, c.Raw)
				progress.Logf(s.Sink, progress.Warning, "Guide page %d: ignoring short reference %q", i+1, c.Raw)
				continue
			}

			id := s.Canon.Canonical(c.Normalized)
			if id.Empty() {
				continue
			}
			if res.Counts[id] == 0 {
				res.Order = append(res.Order, id)
			}
			res.Counts[id]++
		}
	}

	progress.Logf(s.Sink, progress.Info, "Unique orders in guide: %d (%d references)", len(res.Order), res.Total())
	return res
}
