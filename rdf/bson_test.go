package rdf

import (
	"bytes"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func sampleQuads() []Quad {
	return []Quad{
		{S: IRI{Value: "http://example.com/s"}, P: IRI{Value: "http://example.com/p"}, O: IRI{Value: "http://example.com/o"}},
		{S: BlankNode{ID: "n0"}, P: IRI{Value: "http://example.com/p"}, O: Literal{Lexical: "hallo", Lang: "de"}},
		{S: IRI{Value: "http://example.com/s"}, P: IRI{Value: "http://example.com/p"}, O: Literal{Lexical: "1", Datatype: IRI{Value: XSDInteger}}, G: IRI{Value: "http://example.com/g"}},
	}
}

func TestBSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQuads(NewBSONSink(&buf), sampleQuads()); err != nil {
		t.Fatal(err)
	}
	if format, ok := DetectFormat(buf.Bytes()); !ok || format != FormatBSON {
		t.Fatalf("DetectFormat = %q, %v", format, ok)
	}

	c := NewCollector()
	if err := ReadBSON(&buf, c); err != nil {
		t.Fatal(err)
	}
	got := c.Quads()
	want := sampleQuads()
	if len(got) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("statement %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBSONDocumentLayout(t *testing.T) {
	var buf bytes.Buffer
	sink := NewBSONSink(&buf)
	_ = sink.StartStream()
	sink.AddPlainLiteral("http://example.com/s", "http://example.com/p", "v", "en")
	if err := sink.EndStream(); err != nil {
		t.Fatal(err)
	}
	var doc bson.M
	if err := bson.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc["s"] != "http://example.com/s" || doc["k"] != BSONObjectPlain || doc["lang"] != "en" {
		t.Fatalf("unexpected document %v", doc)
	}
	if _, ok := doc["g"]; ok {
		t.Fatalf("default graph must be omitted: %v", doc)
	}
}

func TestReadBSONErrors(t *testing.T) {
	unknown, err := bson.Marshal(BSONStatement{Subject: "http://example.com/s", Predicate: "http://example.com/p", Object: "x", Kind: "other"})
	if err != nil {
		t.Fatal(err)
	}
	var valid bytes.Buffer
	if err := WriteQuads(NewBSONSink(&valid), sampleQuads()[:1]); err != nil {
		t.Fatal(err)
	}

	tests := map[string][]byte{
		"unknown kind": append(valid.Bytes(), unknown...),
		"truncated":    append(valid.Bytes(), unknown[:len(unknown)-3]...),
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewCollector()
			err := ReadBSON(bytes.NewReader(input), c)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if parseErr.Format != "bson" || parseErr.Line != 2 {
				t.Fatalf("unexpected error %+v", parseErr)
			}
			if c.Len() != 1 {
				t.Fatalf("expected the first statement to be delivered, got %d", c.Len())
			}
		})
	}
}
