// Package labels indexes the shipping-label pages of a bulk export.
//
// The source document mixes label pages with other pages, typically a
// metadata page right after each label. A page is a label when its text
// contains one of the configured carrier markers. The order identifier is
// read from the label itself, or from the page right after it when the label
// does not print one. A page read that way is metadata only: it is consumed
// and never emitted.
package labels

import (
	"fmt"
	"strings"

	"github.com/gardar/labelsort/pkg/ident"
	"github.com/gardar/labelsort/pkg/pdftext"
	"github.com/gardar/labelsort/pkg/progress"
)

// DefaultMarkers are the carrier tokens that identify a label page.
var DefaultMarkers = []string{"TEMU", "Evri", "Fulfilment"}

// Policy decides what happens to a label whose identifier cannot be read.
type Policy string

const (
	// DropUnidentified leaves the page out of the output.
	DropUnidentified Policy = "drop"
	// KeepAsExtra emits the page after the identified extras, marker only.
	KeepAsExtra Policy = "extra"
	// KeepAsRemainder treats the page like any non-label page.
	KeepAsRemainder Policy = "remainder"
)

// ParsePolicy validates a policy name. An empty name selects the default.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DropUnidentified, nil
	case DropUnidentified, KeepAsExtra, KeepAsRemainder:
		return p, nil
	default:
		return "", fmt.Errorf("unknown unidentified label policy %q (want drop, extra or remainder)", s)
	}
}

// Options configures the indexer.
type Options struct {
	Markers        []string            // Case-sensitive label markers
	Matcher        *ident.Matcher      // Strict identifier matcher
	Canon          ident.Canonicalizer // Canonical form, must match the guide's
	Unidentified   Policy              // Handling of unreadable labels
	LookaheadFirst bool                // Read the next page before the label itself
}

// DefaultOptions returns the stock label settings.
func DefaultOptions() Options {
	return Options{
		Markers:      append([]string(nil), DefaultMarkers...),
		Matcher:      ident.LabelMatcher(),
		Canon:        ident.DefaultCanonicalizer,
		Unidentified: DropUnidentified,
	}
}

// Group is every label page filed under one identifier.
type Group struct {
	ID    ident.ID
	Pages []int // 1-based source page numbers in source order
}

// Result is the label index of a source document.
type Result struct {
	Groups       []Group // In order of first appearance
	Remainder    []int   // Non-label pages (and unreadable labels under KeepAsRemainder)
	Unassigned   []int   // Unreadable labels under KeepAsExtra
	Unidentified []int   // Every unreadable label page, whatever the policy
	Consumed     []int   // Metadata pages used for an identifier

	index map[ident.ID]int
}

// Lookup returns the group for id.
func (r *Result) Lookup(id ident.ID) (Group, bool) {
	if r == nil || r.index == nil {
		return Group{}, false
	}
	i, ok := r.index[id]
	if !ok {
		return Group{}, false
	}
	return r.Groups[i], true
}

// LabelPages counts the pages filed under an identifier.
func (r *Result) LabelPages() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Pages)
	}
	return n
}

func (r *Result) add(id ident.ID, page int) {
	if r.index == nil {
		r.index = make(map[ident.ID]int)
	}
	i, ok := r.index[id]
	if !ok {
		r.index[id] = len(r.Groups)
		r.Groups = append(r.Groups, Group{ID: id, Pages: []int{page}})
		return
	}
	r.Groups[i].Pages = append(r.Groups[i].Pages, page)
}

// Indexer walks a source document one label at a time.
type Indexer struct {
	opts Options
	sink progress.Sink
}

// NewIndexer returns an indexer. Zero-valued options fall back to defaults.
func NewIndexer(opts Options, sink progress.Sink) *Indexer {
	def := DefaultOptions()
	if len(opts.Markers) == 0 {
		opts.Markers = def.Markers
	}
	if opts.Matcher == nil {
		opts.Matcher = def.Matcher
	}
	if opts.Unidentified == "" {
		opts.Unidentified = def.Unidentified
	}
	return &Indexer{opts: opts, sink: sink}
}

// IsLabel reports whether text contains one of the label markers.
func (x *Indexer) IsLabel(text string) bool {
	for _, m := range x.opts.Markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Index files every label page of doc under its identifier.
func (x *Indexer) Index(doc *pdftext.Document) *Result {
	res := &Result{index: make(map[ident.ID]int)}

	for i := 0; i < doc.PageCount(); {
		step := x.Classify(doc, i)
		page := i + 1

		switch step.Outcome {
		case NoLabel:
			res.Remainder = append(res.Remainder, page)

		case FoundLocal:
			res.add(step.ID, page)

		case FoundLookahead:
			res.add(step.ID, page)
			res.Consumed = append(res.Consumed, page+1)

		case Unresolved:
			res.Unidentified = append(res.Unidentified, page)
			progress.Logf(x.sink, progress.Warning, "Page %d: label detected but identifier unreadable", page)
			switch x.opts.Unidentified {
			case KeepAsExtra:
				res.Unassigned = append(res.Unassigned, page)
			case KeepAsRemainder:
				res.Remainder = append(res.Remainder, page)
			}
		}

		i += step.Advance
	}

	progress.Logf(x.sink, progress.Info, "Identified labels: %d (%d pages, %d unreadable)",
		len(res.Groups), res.LabelPages(), len(res.Unidentified))
	return res
}
