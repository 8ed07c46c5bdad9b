package rdf

import (
	"strings"
	"testing"
)

func TestCanonicalizeIgnoresBlankNodeLabels(t *testing.T) {
	a := []Quad{
		{S: BlankNode{ID: "x"}, P: IRI{Value: "http://example.com/p"}, O: Literal{Lexical: "v"}},
		{S: IRI{Value: "http://example.com/s"}, P: IRI{Value: "http://example.com/q"}, O: BlankNode{ID: "x"}},
	}
	b := []Quad{
		{S: IRI{Value: "http://example.com/s"}, P: IRI{Value: "http://example.com/q"}, O: BlankNode{ID: "other"}},
		{S: BlankNode{ID: "other"}, P: IRI{Value: "http://example.com/p"}, O: Literal{Lexical: "v"}},
		{S: BlankNode{ID: "other"}, P: IRI{Value: "http://example.com/p"}, O: Literal{Lexical: "v"}},
	}
	ca, err := Canonicalize(a)
	if err != nil {
		t.Fatal(err)
	}
	cb, err := Canonicalize(b)
	if err != nil {
		t.Fatal(err)
	}
	if ca != cb {
		t.Fatalf("isomorphic datasets differ:\n%s\n%s", ca, cb)
	}
	if !strings.Contains(ca, "_:c14n0") {
		t.Fatalf("expected canonical blank node labels, got:\n%s", ca)
	}
	if n := strings.Count(ca, "\n"); n != 2 {
		t.Fatalf("expected 2 statements, got %d:\n%s", n, ca)
	}
}

func TestCanonicalizeDistinguishesGraphs(t *testing.T) {
	q := Quad{S: IRI{Value: "http://example.com/s"}, P: IRI{Value: "http://example.com/p"}, O: Literal{Lexical: "v"}}
	named := q
	named.G = IRI{Value: "http://example.com/g"}
	plain, err := Canonicalize([]Quad{q})
	if err != nil {
		t.Fatal(err)
	}
	inGraph, err := Canonicalize([]Quad{named})
	if err != nil {
		t.Fatal(err)
	}
	if plain == inGraph {
		t.Fatal("graph name lost during canonicalization")
	}
	if !strings.HasSuffix(strings.TrimSpace(inGraph), "<http://example.com/g> .") {
		t.Fatalf("unexpected output %s", inGraph)
	}
}

func TestWriteQuadsRejectsIncompleteQuad(t *testing.T) {
	if err := WriteQuads(NewCollector(), []Quad{{P: IRI{Value: "http://example.com/p"}}}); err == nil {
		t.Fatal("expected an error for a quad without subject and object")
	}
}
