// Package assemble joins the guide with the label index into the page plan
// of the output document, and renders that plan into a PDF.
//
// The plan is built in three passes:
//
// - Pass A walks the guide in order and emits every matched label group,
// stamped with the guide's box count. Guide identifiers without labels are
// recorded as missing.
// - Pass B emits the remaining label groups in source order with a count of
// one, followed by unidentified labels kept as extras.
// - Pass C appends the untouched remainder pages when enabled.
//
// Building a plan never fails; missing identifiers are reported, not fatal.
package assemble

import (
	"fmt"

	"github.com/gardar/labelsort/pkg/guide"
	"github.com/gardar/labelsort/pkg/ident"
	"github.com/gardar/labelsort/pkg/labels"
	"github.com/gardar/labelsort/pkg/progress"
)

// Kind tells why a page is in the output.
type Kind string

const (
	KindMatch      Kind = "match"      // Label whose identifier is in the guide
	KindExtra      Kind = "extra"      // Label whose identifier is not in the guide
	KindUnassigned Kind = "unassigned" // Label without a readable identifier
	KindRemainder  Kind = "remainder"  // Any other source page
)

// Stamped reports whether pages of this kind get an overlay.
func (k Kind) Stamped() bool {
	return k == KindMatch || k == KindExtra || k == KindUnassigned
}

// Options configures plan building.
type Options struct {
	IncludeRemainder bool // Append non-label pages after the extras
}

// PlannedPage is one output page.
type PlannedPage struct {
	Source int // 1-based page number in the source document
	Kind   Kind
	ID     ident.ID // Empty for unassigned and remainder pages
	Count  int      // Box count drawn on the overlay
}

// MissingEntry is a guide identifier without any label.
type MissingEntry struct {
	ID    ident.ID
	Count int // Guide count
}

// Report summarises the outcome of a run.
type Report struct {
	Matched      []ident.ID     // Guide identifiers with labels, in guide order
	Missing      []MissingEntry // Guide identifiers without labels, in guide order
	Extras       []ident.ID     // Label identifiers not in the guide, in source order
	Unidentified []int          // Label pages whose identifier could not be read
	PagesWritten int
}

// Success reports whether every guide identifier was found.
func (r Report) Success() bool {
	return len(r.Missing) == 0
}

// MissingBoxes sums the guide counts of the missing identifiers.
func (r Report) MissingBoxes() int {
	n := 0
	for _, m := range r.Missing {
		n += m.Count
	}
	return n
}

// Plan is the ordered page list of the output document.
type Plan struct {
	Pages  []PlannedPage
	Report Report
}

// Build joins the guide and the label index. Progress is logged per
// identifier as a match, missing or extra entry.
func Build(g guide.Result, l *labels.Result, opts Options, sink progress.Sink) Plan {
	if l == nil {
		l = &labels.Result{}
	}

	var plan Plan
	processed := make(map[ident.ID]bool, len(g.Order))

	// Pass A: guide order
	for _, id := range g.Order {
		count := g.Count(id)
		group, ok := l.Lookup(id)
		if !ok {
			plan.Report.Missing = append(plan.Report.Missing, MissingEntry{ID: id, Count: count})
			progress.Logf(sink, progress.Missing, "%s (guide count %d)", id, count)
			continue
		}

		processed[id] = true
		plan.Report.Matched = append(plan.Report.Matched, id)
		for _, p := range group.Pages {
			plan.Pages = append(plan.Pages, PlannedPage{Source: p, Kind: KindMatch, ID: id, Count: count})
		}
		progress.Logf(sink, progress.Match, "%s (%s, count %d)", id, pages(len(group.Pages)), count)
	}

	// Pass B: extras in indexing order
	for _, group := range l.Groups {
		if processed[group.ID] {
			continue
		}
		plan.Report.Extras = append(plan.Report.Extras, group.ID)
		for _, p := range group.Pages {
			plan.Pages = append(plan.Pages, PlannedPage{Source: p, Kind: KindExtra, ID: group.ID, Count: 1})
		}
		progress.Logf(sink, progress.Extra, "%s (%s)", group.ID, pages(len(group.Pages)))
	}
	for _, p := range l.Unassigned {
		plan.Pages = append(plan.Pages, PlannedPage{Source: p, Kind: KindUnassigned, Count: 1})
		progress.Logf(sink, progress.Extra, "Page %d: label without identifier appended", p)
	}
	plan.Report.Unidentified = append([]int(nil), l.Unidentified...)

	// Pass C: remainder
	if opts.IncludeRemainder && len(l.Remainder) > 0 {
		for _, p := range l.Remainder {
			plan.Pages = append(plan.Pages, PlannedPage{Source: p, Kind: KindRemainder})
		}
		progress.Logf(sink, progress.Info, "Appending %s without a label", pages(len(l.Remainder)))
	}

	plan.Report.PagesWritten = len(plan.Pages)
	return plan
}

// Validate checks that every planned page exists in a source document of
// pageCount pages and that no source page is emitted twice.
func (p Plan) Validate(pageCount int) error {
	seen := make(map[int]bool, len(p.Pages))
	for i, pg := range p.Pages {
		if pg.Source < 1 || pg.Source > pageCount {
			return fmt.Errorf("output page %d: source page %d out of range 1-%d", i+1, pg.Source, pageCount)
		}
		if seen[pg.Source] {
			return fmt.Errorf("output page %d: source page %d planned twice", i+1, pg.Source)
		}
		seen[pg.Source] = true
	}
	return nil
}

func pages(n int) string {
	if n == 1 {
		return "1 page"
	}
	return fmt.Sprintf("%d pages", n)
}
