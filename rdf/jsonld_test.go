package rdf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/piprate/json-gold/ld"
)

func TestJSONLDBasicNode(t *testing.T) {
	quads := parseJSONLDString(t, `{"@context":{"name":"http://schema.org/name"},"@id":"http://example.com/ada","name":"Ada"}`)
	want := []string{`<http://example.com/ada> <http://schema.org/name> "Ada" .`}
	if got := lines(t, quads); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestJSONLDKeyOrderDoesNotMatter(t *testing.T) {
	tests := map[string]string{
		"id last":      `{"name":"Ada","@context":{"name":"http://schema.org/name"},"@id":"ada"}`,
		"context last": `{"@id":"ada","name":"Ada","@context":{"name":"http://schema.org/name"}}`,
		"id first":     `{"@id":"ada","@context":{"name":"http://schema.org/name"},"name":"Ada"}`,
	}
	want := `<http://example.com/ada> <http://schema.org/name> "Ada" .`
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			got := lines(t, parseJSONLDString(t, input))
			if len(got) != 1 || got[0] != want {
				t.Fatalf("got %v, want %s", got, want)
			}
		})
	}
}

func TestJSONLDGraphBeforeID(t *testing.T) {
	quads := parseJSONLDString(t, `{
		"@context": {"ex": "http://example.com/ns#"},
		"@graph": [{"@id": "ex:a", "ex:p": "v"}],
		"@id": "http://example.com/g"
	}`)
	want := []string{`<http://example.com/ns#a> <http://example.com/ns#p> "v" <http://example.com/g> .`}
	if got := lines(t, quads); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestJSONLDBlankGraphNameIsDefaultGraph(t *testing.T) {
	quads := parseJSONLDString(t, `{"@graph":[{"@id":"http://example.com/a","http://example.com/p":"v"}]}`)
	if len(quads) != 1 || !quads[0].InDefaultGraph() {
		t.Fatalf("expected one statement in the default graph, got %v", lines(t, quads))
	}
}

func TestJSONLDBlankNodeGraphs(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"graph object value": {
			input: `{"@id":"http://example.com/s","http://example.com/p":{"@graph":{"@id":"http://example.com/a","http://example.com/q":"v"}}}`,
			want: `<http://example.com/s> <http://example.com/p> _:g .
<http://example.com/a> <http://example.com/q> "v" _:g .
`,
		},
		"top-level object with properties": {
			input: `{"http://example.com/label":"x","@graph":[{"@id":"http://example.com/a","http://example.com/q":"v"}]}`,
			want: `_:g <http://example.com/label> "x" .
<http://example.com/a> <http://example.com/q> "v" _:g .
`,
		},
		"labelled top-level graph": {
			input: `{"@id":"_:named","@graph":[{"@id":"http://example.com/a","http://example.com/q":"v"}]}`,
			want: `<http://example.com/a> <http://example.com/q> "v" _:g .
`,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assertIsomorphic(t, parseJSONLDString(t, tt.input), tt.want)
		})
	}
}

func TestJSONLDOpaqueIRIs(t *testing.T) {
	quads := parseJSONLDString(t, `{
		"@id": "http://example.com/s",
		"tag:example.org,2020:p": "v",
		"mailto:ada@example.com": {"@id": "urn:isbn:0451450523"}
	}`)
	want := []string{
		`<http://example.com/s> <mailto:ada@example.com> <urn:isbn:0451450523> .`,
		`<http://example.com/s> <tag:example.org,2020:p> "v" .`,
	}
	if got := sortedLines(t, quads); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestJSONLDUnresolvableTerms(t *testing.T) {
	tests := map[string]struct {
		input string
		want  []string
	}{
		"invalid subject drops its own statements only": {
			input: `{
				"@id": "nope:",
				"http://example.com/p": "x",
				"http://example.com/child": {"@id": "http://example.com/c", "http://example.com/q": "y"}
			}`,
			want: []string{`<http://example.com/c> <http://example.com/q> "y" .`},
		},
		"undefined property": {
			input: `{"@id": "http://example.com/s", "undefined": "x", "http://example.com/p": "v"}`,
			want:  []string{`<http://example.com/s> <http://example.com/p> "v" .`},
		},
		"undefined datatype": {
			input: `{"@id": "http://example.com/s", "http://example.com/p": [{"@value": "1", "@type": "nope"}, "v"]}`,
			want:  []string{`<http://example.com/s> <http://example.com/p> "v" .`},
		},
		"null context hides outer terms": {
			input: `{
				"@context": {"@vocab": "http://example.com/v#", "name": "http://schema.org/name"},
				"@id": "http://example.com/s",
				"name": "outer",
				"http://example.com/child": {
					"@context": null,
					"@id": "http://example.com/c",
					"name": "hidden",
					"label": "hidden",
					"http://example.com/p": "kept"
				}
			}`,
			want: []string{
				`<http://example.com/c> <http://example.com/p> "kept" .`,
				`<http://example.com/s> <http://example.com/child> <http://example.com/c> .`,
				`<http://example.com/s> <http://schema.org/name> "outer" .`,
			},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := sortedLines(t, parseJSONLDString(t, tt.input))
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJSONLDSetObject(t *testing.T) {
	tests := map[string]string{
		"set object": `{
			"@id": "http://example.com/s",
			"http://example.com/p": {"@set": ["a", {"@id": "http://example.com/o"}]}
		}`,
		"plain array": `{
			"@id": "http://example.com/s",
			"http://example.com/p": ["a", {"@id": "http://example.com/o"}]
		}`,
		"set in array": `{
			"@id": "http://example.com/s",
			"http://example.com/p": [{"@set": "a"}, {"@set": {"@id": "http://example.com/o"}}]
		}`,
	}
	want := []string{
		`<http://example.com/s> <http://example.com/p> "a" .`,
		`<http://example.com/s> <http://example.com/p> <http://example.com/o> .`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			got := sortedLines(t, parseJSONLDString(t, input))
			if strings.Join(got, "\n") != strings.Join(want, "\n") {
				t.Fatalf("got %v, want %v", got, want)
			}
		})
	}
}

func TestJSONLDListObject(t *testing.T) {
	quads := parseJSONLDString(t, `{
		"@context": {"ex": "http://example.com/ns#"},
		"@id": "http://example.com/s",
		"ex:list": {"@list": ["a", "b"]}
	}`)
	assertIsomorphic(t, quads, `
<http://example.com/s> <http://example.com/ns#list> _:l1 .
_:l1 <`+RDFFirst+`> "a" .
_:l1 <`+RDFRest+`> _:l2 .
_:l2 <`+RDFFirst+`> "b" .
_:l2 <`+RDFRest+`> <`+RDFNil+`> .
`)
}

func TestJSONLDListContainer(t *testing.T) {
	quads := parseJSONLDString(t, `{
		"@context": {
			"items": {"@id": "http://example.com/ns#items", "@container": "@list"},
			"none": {"@id": "http://example.com/ns#none", "@container": "@list"}
		},
		"@id": "http://example.com/s",
		"items": ["x", "y"],
		"none": []
	}`)
	assertIsomorphic(t, quads, `
<http://example.com/s> <http://example.com/ns#items> _:l1 .
_:l1 <`+RDFFirst+`> "x" .
_:l1 <`+RDFRest+`> _:l2 .
_:l2 <`+RDFFirst+`> "y" .
_:l2 <`+RDFRest+`> <`+RDFNil+`> .
<http://example.com/s> <http://example.com/ns#none> <`+RDFNil+`> .
`)
}

func TestJSONLDReverse(t *testing.T) {
	quads := parseJSONLDString(t, `{
		"@context": {"ex": "http://example.com/ns#"},
		"@id": "http://example.com/child",
		"@reverse": {
			"ex:parentOf": {"@id": "http://example.com/parent"},
			"ex:knows": "http://example.com/bob"
		}
	}`)
	want := []string{
		`<http://example.com/bob> <http://example.com/ns#knows> <http://example.com/child> .`,
		`<http://example.com/parent> <http://example.com/ns#parentOf> <http://example.com/child> .`,
	}
	if got := sortedLines(t, quads); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestJSONLDTypeCoercion(t *testing.T) {
	quads := parseJSONLDString(t, `{
		"@context": {
			"age": {"@id": "http://example.com/ns#age", "@type": "http://www.w3.org/2001/XMLSchema#integer"},
			"home": {"@id": "http://example.com/ns#home", "@type": "@id"}
		},
		"@id": "http://example.com/ada",
		"age": "42",
		"home": "/h"
	}`)
	want := []string{
		`<http://example.com/ada> <http://example.com/ns#age> "42"^^<` + XSDInteger + `> .`,
		`<http://example.com/ada> <http://example.com/ns#home> <http://example.com/h> .`,
	}
	if got := sortedLines(t, quads); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestJSONLDNativeValues(t *testing.T) {
	quads := parseJSONLDString(t, `{
		"@id": "http://example.com/s",
		"http://example.com/n": 5,
		"http://example.com/i": 5.0,
		"http://example.com/d": 1.5,
		"http://example.com/b": true
	}`)
	objects := map[string]Term{}
	for _, q := range quads {
		objects[q.P.Value] = q.O
	}
	tests := []struct {
		predicate string
		want      Literal
	}{
		{"http://example.com/n", Literal{Lexical: "5", Datatype: IRI{Value: XSDInteger}}},
		{"http://example.com/i", Literal{Lexical: "5", Datatype: IRI{Value: XSDInteger}}},
		{"http://example.com/d", Literal{Lexical: "1.5E0", Datatype: IRI{Value: XSDDouble}}},
		{"http://example.com/b", Literal{Lexical: "true", Datatype: IRI{Value: XSDBoolean}}},
	}
	for _, tt := range tests {
		if got := objects[tt.predicate]; got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.predicate, got, tt.want)
		}
	}
}

func TestJSONNumber(t *testing.T) {
	tests := []struct {
		lexical  string
		want     string
		datatype string
	}{
		{"-7", "-7", XSDInteger},
		{"5.0", "5", XSDInteger},
		{"1e3", "1000", XSDInteger},
		{"-0.0", "0", XSDInteger},
		{"1.5", "1.5E0", XSDDouble},
		{"0.00025", "2.5E-4", XSDDouble},
		{"-12.75", "-1.275E1", XSDDouble},
		{"1e21", "1.0E21", XSDDouble},
	}
	for _, tt := range tests {
		lex, datatype := jsonNumber(tt.lexical)
		if lex != tt.want || datatype != tt.datatype {
			t.Errorf("jsonNumber(%q) = %q, %q; want %q, %q", tt.lexical, lex, datatype, tt.want, tt.datatype)
		}
	}
}

func TestJSONLDLanguage(t *testing.T) {
	quads := parseJSONLDString(t, `{
		"@context": {"@language": "EN", "ex": "http://example.com/ns#"},
		"@id": "http://example.com/s",
		"ex:p": "hi",
		"ex:q": {"@value": "hallo", "@language": "de"}
	}`)
	want := []string{
		`<http://example.com/s> <http://example.com/ns#p> "hi"@en .`,
		`<http://example.com/s> <http://example.com/ns#q> "hallo"@de .`,
	}
	if got := sortedLines(t, quads); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestJSONLDNestedNodes(t *testing.T) {
	quads := parseJSONLDString(t, `{
		"@context": {"@vocab": "http://schema.org/"},
		"@id": "http://example.com/ada",
		"@type": "Person",
		"knows": {"@type": "Person", "name": "Charles"}
	}`)
	assertIsomorphic(t, quads, `
<http://example.com/ada> <`+RDFType+`> <http://schema.org/Person> .
<http://example.com/ada> <http://schema.org/knows> _:b .
_:b <`+RDFType+`> <http://schema.org/Person> .
_:b <http://schema.org/name> "Charles" .
`)
}

type fakeLoader struct {
	requested []string
	contexts  map[string]interface{}
}

func (l *fakeLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	l.requested = append(l.requested, u)
	doc, ok := l.contexts[u]
	if !ok {
		return nil, errors.New("not found")
	}
	return &ld.RemoteDocument{DocumentURL: u, Document: doc}, nil
}

func TestJSONLDRemoteContext(t *testing.T) {
	loader := &fakeLoader{contexts: map[string]interface{}{
		"http://example.com/ctx.jsonld": map[string]interface{}{
			"@context": map[string]interface{}{"name": "http://schema.org/name"},
		},
	}}
	quads := parseJSONLDString(t, `{"@context":"ctx.jsonld","@id":"http://example.com/ada","name":"Ada"}`,
		OptDocumentLoader(loader))
	want := `<http://example.com/ada> <http://schema.org/name> "Ada" .`
	if got := lines(t, quads); len(got) != 1 || got[0] != want {
		t.Fatalf("got %v, want %s", got, want)
	}
	if len(loader.requested) != 1 || loader.requested[0] != "http://example.com/ctx.jsonld" {
		t.Fatalf("unexpected context requests %v", loader.requested)
	}
}

func TestJSONLDMissingRemoteContextKeepsGoing(t *testing.T) {
	loader := &fakeLoader{}
	quads := parseJSONLDString(t, `{"@context":"http://example.com/missing","@id":"http://example.com/s","http://example.com/p":"v"}`,
		OptDocumentLoader(loader))
	if len(quads) != 1 {
		t.Fatalf("expected the absolute property to survive, got %v", lines(t, quads))
	}
}

func TestJSONLDMalformedInput(t *testing.T) {
	for _, input := range []string{`{"@id": "x",`, `{"a": }`, `{} {}`, ``} {
		c := NewCollector()
		err := ParseJSON(context.Background(), strings.NewReader(input), NewJSONLDParser(c, testBase))
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("%q: expected *ParseError, got %v", input, err)
			continue
		}
		if parseErr.Format != "jsonld" {
			t.Errorf("%q: unexpected format %q", input, parseErr.Format)
		}
		if c.Len() != 0 {
			t.Errorf("%q: expected no statements, got %d", input, c.Len())
		}
	}
}

func TestJSONLDOutputGraphDisabled(t *testing.T) {
	quads := parseJSONLDString(t, `{"@id":"http://example.com/s","http://example.com/p":"v"}`, OptOutputGraph(false))
	if len(quads) != 0 {
		t.Fatalf("expected no statements, got %v", lines(t, quads))
	}
}
