package rdf

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"testing"
)

const testBase = "http://example.com/"

// lines renders quads as N-Quads lines in emission order.
func lines(t *testing.T, quads []Quad) []string {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteQuads(NewNQuadsSink(&buf), quads); err != nil {
		t.Fatalf("rendering quads: %v", err)
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func sortedLines(t *testing.T, quads []Quad) []string {
	t.Helper()
	out := lines(t, quads)
	sort.Strings(out)
	return out
}

func parseHTMLString(t *testing.T, input string, opts ...Option) []Quad {
	t.Helper()
	c := NewCollector()
	if err := ParseHTML(context.Background(), strings.NewReader(input), NewRDFaParser(c, testBase, opts...)); err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	return c.Quads()
}

func parseXMLString(t *testing.T, input string, opts ...Option) []Quad {
	t.Helper()
	c := NewCollector()
	if err := ParseXML(context.Background(), strings.NewReader(input), NewRDFaParser(c, testBase, opts...)); err != nil {
		t.Fatalf("ParseXML: %v", err)
	}
	return c.Quads()
}

func parseJSONLDString(t *testing.T, input string, opts ...Option) []Quad {
	t.Helper()
	c := NewCollector()
	if err := ParseJSON(context.Background(), strings.NewReader(input), NewJSONLDParser(c, testBase, opts...)); err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	return c.Quads()
}

// withPredicate returns the quads whose predicate is iri.
func withPredicate(quads []Quad, iri string) []Quad {
	var out []Quad
	for _, q := range quads {
		if q.P.Value == iri {
			out = append(out, q)
		}
	}
	return out
}

func containsLine(all []string, want string) bool {
	for _, line := range all {
		if line == want {
			return true
		}
	}
	return false
}

// assertIsomorphic compares quads with an N-Quads document up to blank node
// relabeling.
func assertIsomorphic(t *testing.T, got []Quad, want string) {
	t.Helper()
	c := NewCollector()
	if err := NewNQuadsParser(c).Parse(context.Background(), strings.NewReader(want)); err != nil {
		t.Fatalf("parsing expected statements: %v", err)
	}
	gotText, err := Canonicalize(got)
	if err != nil {
		t.Fatalf("canonicalizing result: %v", err)
	}
	wantText, err := Canonicalize(c.Quads())
	if err != nil {
		t.Fatalf("canonicalizing expected statements: %v", err)
	}
	if gotText != wantText {
		t.Fatalf("statements differ\ngot:\n%s\nwant:\n%s", gotText, wantText)
	}
}
