// Package ident turns raw text matches into comparable order identifiers.
//
// Identifiers are found in two places: the guide document listing the orders
// to ship and the label pages of a bulk export. Both sides go through the same
// canonicalization so that a plain string comparison decides whether a label
// belongs to a guide entry.
//
// Key Features:
//
// - Normalize: uppercase and strip everything outside [A-Z0-9-]
// - Canonicalizer: Normalize plus a fixed order prefix (e.g. "PO-")
// - Matcher: one configurable regexp matcher used for both guide and labels
package ident

import (
	"strings"
)

// ID is a canonical order identifier. Two IDs refer to the same order iff
// they are byte-equal.
type ID string

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// Empty reports whether the identifier carries no value.
func (id ID) Empty() bool {
	return id == ""
}

// Normalize uppercases raw and drops every character outside [A-Z0-9-].
// An empty result means "no identifier".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Canonicalizer maps raw matches to IDs, injecting an order prefix.
//
// A value that already starts with Marker has the marker and any hyphens
// right after it removed before Prefix is applied, so "PO211", "PO-211" and
// "211" all become "PO-211". An empty Prefix disables injection.
type Canonicalizer struct {
	Prefix string // Prefix applied to every identifier, e.g. "PO-"
	Marker string // Leading token that signals the prefix is already there, e.g. "PO"
}

// DefaultCanonicalizer uses the "PO-" order prefix.
var DefaultCanonicalizer = Canonicalizer{
	Prefix: "PO-",
	Marker: "PO",
}

// Canonical returns the canonical ID for raw, or "" when nothing remains
// after normalization.
func (c Canonicalizer) Canonical(raw string) ID {
	return c.fromNormalized(Normalize(raw))
}

func (c Canonicalizer) fromNormalized(norm string) ID {
	if norm == "" {
		return ""
	}
	prefix := Normalize(c.Prefix)
	if prefix == "" {
		return ID(norm)
	}

	marker := Normalize(c.Marker)
	if marker == "" {
		marker = strings.TrimRight(prefix, "-")
	}

	body := norm
	if marker != "" && strings.HasPrefix(body, marker) {
		body = strings.TrimLeft(body[len(marker):], "-")
	}
	if body == "" {
		// The match was only the marker itself
		return ""
	}
	return ID(prefix + body)
}
