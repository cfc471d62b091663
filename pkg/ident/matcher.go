package ident

import (
	"fmt"
	"regexp"
)

// Default patterns. The guide pattern is permissive and catches every
// digit-heavy run; the label pattern only accepts the "PO" form or the long
// hyphenated order number printed on labels.
const (
	DefaultGuidePattern = `\d+[\d-]+\d+`
	DefaultLabelPattern = `(?i)PO[\s-]*\d+[\d-]*|\d{4}-\d{10,}`
	DefaultMinLength    = 5
)

// Candidate is a single pattern match.
type Candidate struct {
	Raw        string // Text exactly as matched
	Normalized string // Normalize(Raw)
	OK         bool   // Normalized is longer than the matcher's MinLength
}

// Matcher finds identifier candidates in page text.
type Matcher struct {
	pattern   *regexp.Regexp
	minLength int
}

// NewMatcher compiles pattern. A candidate is accepted when its normalized
// form is strictly longer than minLength.
func NewMatcher(pattern string, minLength int) (*Matcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty identifier pattern")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid identifier pattern %q: %w", pattern, err)
	}
	if minLength < 0 {
		return nil, fmt.Errorf("min length must not be negative, got %d", minLength)
	}
	return &Matcher{pattern: re, minLength: minLength}, nil
}

// MustMatcher is like NewMatcher but panics on error. Intended for the
// package defaults and tests.
func MustMatcher(pattern string, minLength int) *Matcher {
	m, err := NewMatcher(pattern, minLength)
	if err != nil {
		panic(err)
	}
	return m
}

// GuideMatcher returns the default permissive matcher.
func GuideMatcher() *Matcher {
	return MustMatcher(DefaultGuidePattern, DefaultMinLength)
}

// LabelMatcher returns the default strict matcher.
func LabelMatcher() *Matcher {
	return MustMatcher(DefaultLabelPattern, DefaultMinLength)
}

// Pattern returns the source of the compiled pattern.
func (m *Matcher) Pattern() string {
	return m.pattern.String()
}

// MinLength returns the length a normalized candidate must exceed.
func (m *Matcher) MinLength() int {
	return m.minLength
}

// FindAll returns every match in text order, accepted or not.
func (m *Matcher) FindAll(text string) []Candidate {
	if text == "" {
		return nil
	}
	raw := m.pattern.FindAllString(text, -1)
	out := make([]Candidate, 0, len(raw))
	for _, r := range raw {
		out = append(out, m.candidate(r))
	}
	return out
}

// FindFirst returns the first accepted candidate in text.
func (m *Matcher) FindFirst(text string) (Candidate, bool) {
	for _, c := range m.FindAll(text) {
		if c.OK {
			return c, true
		}
	}
	return Candidate{}, false
}

func (m *Matcher) candidate(raw string) Candidate {
	norm := Normalize(raw)
	return Candidate{
		Raw:        raw,
		Normalized: norm,
		OK:         len(norm) > m.minLength,
	}
}
