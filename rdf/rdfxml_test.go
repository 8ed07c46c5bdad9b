package rdf

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const rdfxmlHeader = `<rdf:RDF xmlns:rdf="` + RDFNS + `" xmlns:ex="http://example.com/ns#"`

func parseRDFXMLString(t *testing.T, input string) []Quad {
	t.Helper()
	c := NewCollector()
	if err := ParseXML(context.Background(), strings.NewReader(input), NewRDFXMLParser(c, "http://example.com/doc")); err != nil {
		t.Fatalf("ParseXML: %v", err)
	}
	return c.Quads()
}

func TestRDFXMLNodesAndProperties(t *testing.T) {
	quads := parseRDFXMLString(t, rdfxmlHeader+` xml:base="http://example.com/doc">
  <ex:Person rdf:about="#ada" ex:name="Ada">
    <ex:knows>
      <rdf:Description rdf:nodeID="c"><ex:name xml:lang="en">Charles</ex:name></rdf:Description>
    </ex:knows>
    <ex:age rdf:datatype="http://www.w3.org/2001/XMLSchema#integer">36</ex:age>
    <ex:home rdf:resource="/home"/>
    <ex:friend rdf:nodeID="c"/>
  </ex:Person>
</rdf:RDF>`)
	assertIsomorphic(t, quads, `
<http://example.com/doc#ada> <`+RDFType+`> <http://example.com/ns#Person> .
<http://example.com/doc#ada> <http://example.com/ns#name> "Ada" .
<http://example.com/doc#ada> <http://example.com/ns#knows> _:c .
_:c <http://example.com/ns#name> "Charles"@en .
<http://example.com/doc#ada> <http://example.com/ns#age> "36"^^<`+XSDInteger+`> .
<http://example.com/doc#ada> <http://example.com/ns#home> <http://example.com/home> .
<http://example.com/doc#ada> <http://example.com/ns#friend> _:c .
`)
}

func TestRDFXMLParseTypes(t *testing.T) {
	quads := parseRDFXMLString(t, rdfxmlHeader+`>
  <rdf:Description rdf:about="http://example.com/s">
    <ex:list rdf:parseType="Collection">
      <rdf:Description rdf:about="http://example.com/a"/>
      <rdf:Description rdf:about="http://example.com/b"/>
    </ex:list>
    <ex:empty rdf:parseType="Collection"></ex:empty>
    <ex:res rdf:parseType="Resource"><ex:v>x</ex:v></ex:res>
  </rdf:Description>
  <rdf:Seq rdf:about="http://example.com/seq"><rdf:li>one</rdf:li><rdf:li>two</rdf:li></rdf:Seq>
</rdf:RDF>`)
	assertIsomorphic(t, quads, `
<http://example.com/s> <http://example.com/ns#list> _:l1 .
_:l1 <`+RDFFirst+`> <http://example.com/a> .
_:l1 <`+RDFRest+`> _:l2 .
_:l2 <`+RDFFirst+`> <http://example.com/b> .
_:l2 <`+RDFRest+`> <`+RDFNil+`> .
<http://example.com/s> <http://example.com/ns#empty> <`+RDFNil+`> .
<http://example.com/s> <http://example.com/ns#res> _:r .
_:r <http://example.com/ns#v> "x" .
<http://example.com/seq> <`+RDFType+`> <`+RDFNS+`Seq> .
<http://example.com/seq> <`+RDFNS+`_1> "one" .
<http://example.com/seq> <`+RDFNS+`_2> "two" .
`)
}

func TestRDFXMLLiteral(t *testing.T) {
	quads := parseRDFXMLString(t, rdfxmlHeader+`>
  <rdf:Description rdf:about="http://example.com/s">
    <ex:xml rdf:parseType="Literal"><b xmlns="http://www.w3.org/1999/xhtml">bold &amp; brave</b> text</ex:xml>
  </rdf:Description>
</rdf:RDF>`)
	if len(quads) != 1 {
		t.Fatalf("expected 1 statement, got %v", lines(t, quads))
	}
	want := Literal{
		Lexical:  `<b xmlns="` + XHTMLNS + `" xmlns:ex="http://example.com/ns#" xmlns:rdf="` + RDFNS + `">bold &amp; brave</b> text`,
		Datatype: IRI{Value: RDFXMLLiteral},
	}
	if quads[0].O != want {
		t.Fatalf("got %v\nwant %v", quads[0].O, want)
	}
}

func TestRDFXMLReification(t *testing.T) {
	quads := parseRDFXMLString(t, rdfxmlHeader+`>
  <rdf:Description rdf:about="http://example.com/s"><ex:p rdf:ID="stmt">v</ex:p></rdf:Description>
</rdf:RDF>`)
	want := []string{
		`<http://example.com/doc#stmt> <` + RDFObject + `> "v" .`,
		`<http://example.com/doc#stmt> <` + RDFPredicate + `> <http://example.com/ns#p> .`,
		`<http://example.com/doc#stmt> <` + RDFSubject + `> <http://example.com/s> .`,
		`<http://example.com/doc#stmt> <` + RDFType + `> <` + RDFStatement + `> .`,
		`<http://example.com/s> <http://example.com/ns#p> "v" .`,
	}
	if got := sortedLines(t, quads); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got:\n%s", strings.Join(got, "\n"))
	}
}

func TestRDFXMLSchemaViolations(t *testing.T) {
	tests := map[string]string{
		"ambiguous subject": `<rdf:Description rdf:about="http://example.com/a" rdf:nodeID="b"/>`,
		"duplicate id":      `<rdf:Description rdf:ID="a"/><rdf:Description rdf:ID="a"/>`,
		"forbidden node":    `<rdf:li/>`,
		"bad node id":       `<rdf:Description rdf:nodeID="1x"/>`,
		"resource and node": `<rdf:Description><ex:p rdf:resource="http://example.com/" rdf:nodeID="x"/></rdf:Description>`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			err := ParseXML(context.Background(), strings.NewReader(rdfxmlHeader+`>`+body+`</rdf:RDF>`),
				NewRDFXMLParser(NewCollector(), "http://example.com/doc"))
			if !errors.Is(err, ErrSchemaViolation) {
				t.Fatalf("expected a schema violation, got %v", err)
			}
			if Code(err) != ErrCodeSchemaViolation {
				t.Fatalf("unexpected code %q", Code(err))
			}
		})
	}
}
