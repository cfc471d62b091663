package labels

import (
	"github.com/gardar/labelsort/pkg/ident"
	"github.com/gardar/labelsort/pkg/pdftext"
)

// Outcome is the classification of one cursor position.
type Outcome int

const (
	NoLabel        Outcome = iota // Not a label page
	FoundLocal                    // Label with its identifier on the page itself
	FoundLookahead                // Label whose identifier is on the next page
	Unresolved                    // Label without a readable identifier
)

func (o Outcome) String() string {
	switch o {
	case NoLabel:
		return "no-label"
	case FoundLocal:
		return "found-local"
	case FoundLookahead:
		return "found-lookahead"
	case Unresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Step is the result of classifying the page under the cursor. Advance is
// how far the cursor moves: 2 when the next page was consumed, else 1.
type Step struct {
	Outcome Outcome
	Raw     string   // Identifier text as matched
	ID      ident.ID // Canonical identifier
	Advance int
}

// Classify examines the page at 0-based index i. Unreadable text counts as
// empty text.
func (x *Indexer) Classify(doc *pdftext.Document, i int) Step {
	text, _ := doc.Text(i)
	if !x.IsLabel(text) {
		return Step{Outcome: NoLabel, Advance: 1}
	}

	hasNext := i+1 < doc.PageCount()

	if x.opts.LookaheadFirst && hasNext {
		if step, ok := x.fromNext(doc, i); ok {
			return step
		}
		if step, ok := x.fromPage(text); ok {
			return step
		}
		return Step{Outcome: Unresolved, Advance: 1}
	}

	if step, ok := x.fromPage(text); ok {
		return step
	}
	if hasNext {
		if step, ok := x.fromNext(doc, i); ok {
			return step
		}
	}
	return Step{Outcome: Unresolved, Advance: 1}
}

func (x *Indexer) fromPage(text string) (Step, bool) {
	raw, id, ok := x.find(text)
	if !ok {
		return Step{}, false
	}
	return Step{Outcome: FoundLocal, Raw: raw, ID: id, Advance: 1}, true
}

func (x *Indexer) fromNext(doc *pdftext.Document, i int) (Step, bool) {
	next, _ := doc.Text(i + 1)
	raw, id, ok := x.find(next)
	if !ok {
		return Step{}, false
	}
	return Step{Outcome: FoundLookahead, Raw: raw, ID: id, Advance: 2}, true
}

func (x *Indexer) find(text string) (string, ident.ID, bool) {
	c, ok := x.opts.Matcher.FindFirst(text)
	if !ok {
		return "", "", false
	}
	id := x.opts.Canon.Canonical(c.Normalized)
	if id.Empty() {
		return "", "", false
	}
	return c.Raw, id, true
}
