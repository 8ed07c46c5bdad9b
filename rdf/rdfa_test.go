package rdf

import (
	"context"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
)

func TestRDFaVocabTypeofProperty(t *testing.T) {
	quads := parseHTMLString(t, `<div vocab="http://schema.org/" typeof="Person"><span property="name">Ada</span></div>`)
	if len(quads) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(quads), lines(t, quads))
	}
	typ, name := quads[0], quads[1]
	if typ.P.Value != RDFType || typ.O != (IRI{Value: "http://schema.org/Person"}) {
		t.Fatalf("unexpected type statement: %v", typ)
	}
	if name.P.Value != "http://schema.org/name" || name.O != (Literal{Lexical: "Ada"}) {
		t.Fatalf("unexpected name statement: %v", name)
	}
	if _, ok := typ.S.(BlankNode); !ok {
		t.Fatalf("expected a blank node subject, got %v", typ.S)
	}
	if typ.S != name.S {
		t.Fatalf("subjects differ: %v and %v", typ.S, name.S)
	}
}

func TestRDFaMalformedCURIEDropsOnlyItsStatement(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<div about="http://example.com/s" prefix="ex: http://example.com/ns#">`)
	for i := 0; i < 9; i++ {
		b.WriteString(`<span rel="ex:p" resource="http://example.com/o` + string(rune('0'+i)) + `"></span>`)
	}
	b.WriteString(`<span rel="ex:p" resource="bad:curie"></span></div>`)

	rec := &DiagnosticRecorder{}
	quads := parseHTMLString(t, b.String(), OptDiagnostics(rec))
	if len(quads) != 9 {
		t.Fatalf("expected 9 statements, got %d: %v", len(quads), lines(t, quads))
	}
	for _, q := range quads {
		if q.S != (IRI{Value: "http://example.com/s"}) || q.P.Value != "http://example.com/ns#p" {
			t.Errorf("unexpected statement %v", q)
		}
	}
	if len(rec.Diagnostics) == 0 || rec.Diagnostics[0].Class != RDFaUnresolvedCURIE {
		t.Fatalf("expected an unresolved CURIE diagnostic, got %+v", rec.Diagnostics)
	}
}

func TestRDFaPrefixScoping(t *testing.T) {
	quads := parseHTMLString(t, `<div about="http://example.com/s" prefix="ex: http://one.example/">`+
		`<p prefix="ex: http://two.example/" property="ex:a">x</p>`+
		`<p property="ex:b">y</p></div>`)
	got := lines(t, quads)
	want := []string{
		`<http://example.com/s> <http://two.example/a> "x" .`,
		`<http://example.com/s> <http://one.example/b> "y" .`,
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected statements:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func attrs(pairs ...string) Attributes {
	var out Attributes
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Attribute{Local: pairs[i], QName: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func TestRDFaIncompleteTripleCompletedAtChildEnd(t *testing.T) {
	c := NewCollector()
	p := NewRDFaParser(c, testBase)
	steps := []struct {
		name string
		run  func() error
		want int
	}{
		{"start document", p.StartDocument, 0},
		{"start parent", func() error {
			return p.StartElement("", "div", "div", attrs("about", "http://example.com/p", "rel", "http://example.com/foo"))
		}, 0},
		{"start child", func() error {
			return p.StartElement("", "span", "span", attrs("about", "http://c.example/"))
		}, 0},
		{"end child", func() error { return p.EndElement("", "span", "span") }, 1},
		{"end parent", func() error { return p.EndElement("", "div", "div") }, 1},
		{"end document", p.EndDocument, 1},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if c.Len() != step.want {
			t.Fatalf("%s: expected %d statements, got %d", step.name, step.want, c.Len())
		}
	}
	want := Quad{S: IRI{Value: "http://example.com/p"}, P: IRI{Value: "http://example.com/foo"}, O: IRI{Value: "http://c.example/"}}
	if got := c.Quads()[0]; got != want {
		t.Fatalf("unexpected statement %v", got)
	}
}

func TestRDFaInlistBuildsOneList(t *testing.T) {
	quads := parseHTMLString(t, `<div about="http://example.com/s">`+
		`<a rel="http://example.com/p" inlist="" href="http://example.com/a"></a>`+
		`<a rel="http://example.com/p" inlist="" href="http://example.com/b"></a>`+
		`<a rel="http://example.com/p" inlist="" href="http://example.com/c"></a></div>`)

	heads := withPredicate(quads, "http://example.com/p")
	if len(heads) != 1 {
		t.Fatalf("expected one list head, got %d: %v", len(heads), lines(t, quads))
	}
	first := map[Term]Term{}
	rest := map[Term]Term{}
	for _, q := range withPredicate(quads, RDFFirst) {
		first[q.S] = q.O
	}
	for _, q := range withPredicate(quads, RDFRest) {
		rest[q.S] = q.O
	}
	var items []string
	node := heads[0].O
	for node != (IRI{Value: RDFNil}) {
		item, ok := first[node]
		if !ok {
			t.Fatalf("list node %v has no rdf:first", node)
		}
		items = append(items, item.String())
		node = rest[node]
		if len(items) > 3 {
			t.Fatalf("list does not terminate")
		}
	}
	if strings.Join(items, " ") != "http://example.com/a http://example.com/b http://example.com/c" {
		t.Fatalf("unexpected list members %v", items)
	}
	if len(quads) != 7 {
		t.Fatalf("expected 7 statements, got %d", len(quads))
	}
}

func TestRDFaEmptyInlistIsNil(t *testing.T) {
	quads := parseHTMLString(t, `<div about="http://example.com/s"><span rel="http://example.com/p" inlist=""></span></div>`)
	want := `<http://example.com/s> <http://example.com/p> <` + RDFNil + `> .`
	if got := lines(t, quads); len(got) != 1 || got[0] != want {
		t.Fatalf("unexpected statements %v", got)
	}
}

func TestRDFaProcessorGraph(t *testing.T) {
	rec := &DiagnosticRecorder{}
	quads := parseHTMLString(t, `<div about="http://example.com/s"><span property="bad:name" content="x"></span></div>`,
		OptProcessorGraph(true), OptDiagnostics(rec))
	if len(quads) != 2 {
		t.Fatalf("expected only processor graph statements, got %v", lines(t, quads))
	}
	if quads[0].P.Value != RDFType || quads[0].O != (IRI{Value: RDFaUnresolvedCURIE}) {
		t.Fatalf("unexpected class statement %v", quads[0])
	}
	msg, ok := quads[1].O.(Literal)
	if !ok || quads[1].P.Value != RDFaContext || msg.Lang != "en" {
		t.Fatalf("unexpected context statement %v", quads[1])
	}
	if !strings.Contains(msg.Lexical, "bad:name") || !strings.Contains(msg.Lexical, " at 1:") {
		t.Fatalf("unexpected message %q", msg.Lexical)
	}
	if len(rec.Diagnostics) != 1 || rec.Diagnostics[0].Level != "warning" {
		t.Fatalf("unexpected diagnostics %+v", rec.Diagnostics)
	}
}

func TestRDFaOutputGraphDisabled(t *testing.T) {
	quads := parseHTMLString(t, `<div vocab="http://schema.org/" typeof="Person"><span property="name">Ada</span></div>`,
		OptOutputGraph(false))
	if len(quads) != 0 {
		t.Fatalf("expected no statements, got %v", lines(t, quads))
	}
}

func TestRDFaXMLLiteral(t *testing.T) {
	quads := parseXMLString(t, `<html xmlns="http://www.w3.org/1999/xhtml"><body>`+
		`<p about="http://example.com/s" property="http://example.com/p" datatype="rdf:XMLLiteral">Hello <b>World</b></p>`+
		`</body></html>`)
	if len(quads) != 1 {
		t.Fatalf("expected 1 statement, got %v", lines(t, quads))
	}
	lit, ok := quads[0].O.(Literal)
	if !ok || lit.Datatype.Value != RDFXMLLiteral {
		t.Fatalf("expected an XML literal, got %v", quads[0].O)
	}
	doc, err := xmlquery.Parse(strings.NewReader("<root>" + lit.Lexical + "</root>"))
	if err != nil {
		t.Fatalf("literal is not well-formed XML: %v (%q)", err, lit.Lexical)
	}
	b := xmlquery.FindOne(doc, "//*[local-name()='b']")
	if b == nil || b.InnerText() != "World" {
		t.Fatalf("unexpected literal %q", lit.Lexical)
	}
	if b.NamespaceURI != XHTMLNS {
		t.Fatalf("expected the XHTML namespace on nested markup, got %q", b.NamespaceURI)
	}
}

func TestRDFaHTML5Datetime(t *testing.T) {
	tests := []struct {
		value    string
		datatype string
	}{
		{"2012-03-18", XSDDate},
		{"2012-03-18T09:30:00Z", XSDDateTime},
		{"09:30:00", XSDTime},
		{"2012", XSDGYear},
		{"2012-03", XSDGYearMonth},
		{"P1Y2M3DT4H5M6S", XSDDuration},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			quads := parseHTMLString(t, `<!DOCTYPE html><html><body><p about="http://example.com/s">`+
				`<time property="http://example.com/d" datetime="`+tt.value+`">whenever</time></p></body></html>`)
			if len(quads) != 1 {
				t.Fatalf("expected 1 statement, got %v", lines(t, quads))
			}
			want := Literal{Lexical: tt.value, Datatype: IRI{Value: tt.datatype}}
			if quads[0].O != want {
				t.Fatalf("got %v, want %v", quads[0].O, want)
			}
		})
	}
}

func TestRDFaRole(t *testing.T) {
	quads := parseHTMLString(t, `<div id="nav" role="navigation"></div>`)
	want := Quad{S: IRI{Value: testBase + "#nav"}, P: IRI{Value: XHVRole}, O: IRI{Value: XHTMLVocab + "navigation"}}
	if len(quads) != 1 || quads[0] != want {
		t.Fatalf("unexpected statements %v", lines(t, quads))
	}
}

func TestRDFaSVGMetadata(t *testing.T) {
	quads := parseXMLString(t, `<svg xmlns="http://www.w3.org/2000/svg"><metadata>`+
		`<rdf:RDF xmlns:rdf="`+RDFNS+`" xmlns:dc="http://purl.org/dc/elements/1.1/">`+
		`<rdf:Description rdf:about="http://example.com/logo"><dc:title>Logo</dc:title></rdf:Description>`+
		`</rdf:RDF></metadata><rect property="http://example.com/color" content="red"/></svg>`)
	got := lines(t, quads)
	want := `<http://example.com/logo> <http://purl.org/dc/elements/1.1/title> "Logo" .`
	if !containsLine(got, want) {
		t.Fatalf("missing embedded RDF/XML statement in %v", got)
	}
	if !containsLine(got, `<http://example.com/> <http://example.com/color> "red" .`) {
		t.Fatalf("RDFa processing did not resume after <metadata>: %v", got)
	}
}

func TestRDFa10IgnoresVocab(t *testing.T) {
	quads := parseHTMLString(t, `<div about="http://example.com/s" vocab="http://schema.org/"><span property="name">Ada</span></div>`,
		OptRDFaVersion(RDFa10))
	if len(quads) != 0 {
		t.Fatalf("expected bare terms to be ignored in RDFa 1.0, got %v", lines(t, quads))
	}
}

func TestRDFaTokenizerErrorClosesStream(t *testing.T) {
	sink := &streamRecorder{}
	err := ParseXML(context.Background(), strings.NewReader(`<div about="http://example.com/s"><span property="http://example.com/p">x</span>`),
		NewRDFaParser(sink, testBase))
	if err == nil {
		t.Fatal("expected an error for an unterminated document")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if sink.starts != 1 || sink.ends != 1 {
		t.Fatalf("expected the stream to be closed once, got start=%d end=%d", sink.starts, sink.ends)
	}
}

type streamRecorder struct {
	Collector
	starts, ends int
}

func (s *streamRecorder) StartStream() error {
	s.starts++
	return nil
}

func (s *streamRecorder) EndStream() error {
	s.ends++
	return nil
}
