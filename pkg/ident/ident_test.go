package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"digits", "211-6543210", "211-6543210"},
		{"lowercase", "po-211x", "PO-211X"},
		{"strips punctuation", " PO: 211/65 ", "PO21165"},
		{"only disallowed", " .:/#", ""},
		{"non ascii", "Ω211é-9", "211-9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "po 211-1", "a.b.c", "--", "ÄÖü 12", "PO-211-0001\n"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestCanonical(t *testing.T) {
	c := DefaultCanonicalizer
	tests := []struct {
		in   string
		want ID
	}{
		{"211-6543210", "PO-211-6543210"},
		{"PO-211-6543210", "PO-211-6543210"},
		{"po 211-6543210", "PO-211-6543210"},
		{"PO211-6543210", "PO-211-6543210"},
		{"PO--211", "PO-211"},
		{"PO", ""},
		{"", ""},
		{"***", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Canonical(tt.in), "input %q", tt.in)
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	c := DefaultCanonicalizer
	for _, in := range []string{"211-1", "PO-9", "po 77", "x"} {
		once := c.Canonical(in)
		assert.Equal(t, once, c.Canonical(once.String()), "input %q", in)
	}
}

func TestCanonicalWithoutPrefix(t *testing.T) {
	c := Canonicalizer{}
	assert.Equal(t, ID("211-6543210"), c.Canonical("211-6543210"))
	assert.Equal(t, ID("PO211"), c.Canonical("po 211"))
}

func TestCanonicalDerivesMarkerFromPrefix(t *testing.T) {
	c := Canonicalizer{Prefix: "SO-"}
	assert.Equal(t, ID("SO-123"), c.Canonical("so123"))
	assert.Equal(t, ID("SO-123"), c.Canonical("123"))
}

func TestMatcherFindAll(t *testing.T) {
	m := GuideMatcher()
	got := m.FindAll("Order 211-6543210987 qty 2\nref 12-3 and 4000-1234567890")
	require.Len(t, got, 3)

	assert.Equal(t, "211-6543210987", got[0].Raw)
	assert.True(t, got[0].OK)

	assert.Equal(t, "12-3", got[1].Raw)
	assert.False(t, got[1].OK, "short runs are rejected")

	assert.Equal(t, "4000-1234567890", got[2].Raw)
	assert.True(t, got[2].OK)
}

func TestMatcherFindFirstSkipsRejected(t *testing.T) {
	m := LabelMatcher()
	c, ok := m.FindFirst("TEMU-Fulfilment PO 12 then PO-211-65432109")
	require.True(t, ok)
	assert.Equal(t, "PO-211-65432109", c.Raw)

	_, ok = m.FindFirst("Evri parcel without a reference")
	assert.False(t, ok)
}

func TestMatcherLongFormat(t *testing.T) {
	m := LabelMatcher()
	c, ok := m.FindFirst("Tracking 4000-12345678901")
	require.True(t, ok)
	assert.Equal(t, "4000-12345678901", c.Normalized)
}

func TestNewMatcherErrors(t *testing.T) {
	_, err := NewMatcher("", 5)
	assert.Error(t, err)

	_, err = NewMatcher("([", 5)
	assert.Error(t, err)

	_, err = NewMatcher(`\d+`, -1)
	assert.Error(t, err)
}
