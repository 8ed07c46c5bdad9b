package rdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// eventLog records handler events as short strings.
type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...interface{}) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) SetDocumentLocator(Locator) {}
func (l *eventLog) StartDocument() error       { l.add("start-document"); return nil }
func (l *eventLog) EndDocument() error         { l.add("end-document"); return nil }

func (l *eventLog) StartDTD(name, publicID, systemID string) error {
	l.add("dtd:%s", name)
	return nil
}

func (l *eventLog) StartPrefixMapping(prefix, uri string) error {
	l.add("prefix:%s=%s", prefix, uri)
	return nil
}

func (l *eventLog) StartElement(space, local, qName string, attrs Attributes) error {
	var b strings.Builder
	fmt.Fprintf(&b, "start:{%s}%s", space, qName)
	for _, attr := range attrs {
		fmt.Fprintf(&b, " {%s}%s=%s", attr.Space, attr.QName, attr.Value)
	}
	l.add("%s", b.String())
	return nil
}

func (l *eventLog) EndElement(space, local, qName string) error {
	l.add("end:%s", qName)
	return nil
}

func (l *eventLog) Characters(text string) error {
	if strings.TrimSpace(text) != "" {
		l.add("text:%s", text)
	}
	return nil
}

func (l *eventLog) Comment(text string) error { return nil }

func TestParseHTMLImpliesStructure(t *testing.T) {
	log := &eventLog{}
	if err := ParseHTML(context.Background(), strings.NewReader(`<p>one<p>two<br>`), log); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"start-document",
		"start:{" + XHTMLNS + "}html",
		"start:{" + XHTMLNS + "}body",
		"start:{" + XHTMLNS + "}p",
		"text:one",
		"end:p",
		"start:{" + XHTMLNS + "}p",
		"text:two",
		"start:{" + XHTMLNS + "}br",
		"end:br",
		"end:p",
		"end:body",
		"end:html",
		"end-document",
	}
	if got := strings.Join(log.events, "\n"); got != strings.Join(want, "\n") {
		t.Fatalf("unexpected events:\n%s", got)
	}
}

func TestParseHTMLHeadElements(t *testing.T) {
	log := &eventLog{}
	input := `<!DOCTYPE html><title>T</title><div xmlns:ex="http://example.com/" xml:lang="en">x</div>`
	if err := ParseHTML(context.Background(), strings.NewReader(input), log); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"start-document",
		"dtd:html",
		"start:{" + XHTMLNS + "}html",
		"start:{" + XHTMLNS + "}head",
		"start:{" + XHTMLNS + "}title",
		"text:T",
		"end:title",
		"end:head",
		"start:{" + XHTMLNS + "}body",
		"prefix:ex=http://example.com/",
		"start:{" + XHTMLNS + "}div {" + XMLNS + "}xml:lang=en",
		"text:x",
		"end:div",
		"end:body",
		"end:html",
		"end-document",
	}
	if got := strings.Join(log.events, "\n"); got != strings.Join(want, "\n") {
		t.Fatalf("unexpected events:\n%s", got)
	}
}

func TestParseXMLNamespaces(t *testing.T) {
	log := &eventLog{}
	input := `<?xml version="1.0"?><a:root xmlns:a="http://a.example/"><a:child a:attr="v" plain="p">t</a:child></a:root>`
	if err := ParseXML(context.Background(), strings.NewReader(input), log); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"start-document",
		"prefix:a=http://a.example/",
		"start:{http://a.example/}a:root",
		"start:{http://a.example/}a:child {http://a.example/}a:attr=v {}plain=p",
		"text:t",
		"end:a:child",
		"end:a:root",
		"end-document",
	}
	if got := strings.Join(log.events, "\n"); got != strings.Join(want, "\n") {
		t.Fatalf("unexpected events:\n%s", got)
	}
}

func TestParseXMLErrors(t *testing.T) {
	tests := map[string]string{
		"mismatched end":      `<a><b></a>`,
		"undeclared prefix":   `<x:a/>`,
		"unclosed element":    `<a><b/>`,
		"malformed attribute": `<a b=c/>`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			err := ParseXML(context.Background(), strings.NewReader(input), &eventLog{})
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if parseErr.Format != "xml" || parseErr.Line != 1 {
				t.Fatalf("unexpected error position %+v", parseErr)
			}
		})
	}
}

func TestParseXMLCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ParseXML(ctx, strings.NewReader(`<a/>`), &eventLog{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if Code(err) != ErrCodeContextCanceled {
		t.Fatalf("unexpected code %q", Code(err))
	}
}

func TestParseDoctype(t *testing.T) {
	name, publicID, systemID := parseDoctype(`DOCTYPE html PUBLIC "-//W3C//DTD XHTML+RDFa 1.0//EN" "http://www.w3.org/MarkUp/DTD/xhtml-rdfa-1.dtd"`)
	if name != "html" || publicID != "-//W3C//DTD XHTML+RDFa 1.0//EN" || systemID != "http://www.w3.org/MarkUp/DTD/xhtml-rdfa-1.dtd" {
		t.Fatalf("got %q %q %q", name, publicID, systemID)
	}
	name, publicID, systemID = parseDoctype(`svg SYSTEM 'svg.dtd' [ <!ENTITY x "y"> ]`)
	if name != "svg" || publicID != "" || systemID != "svg.dtd" {
		t.Fatalf("got %q %q %q", name, publicID, systemID)
	}
}

func TestSerializeOpenTag(t *testing.T) {
	attrs := Attributes{{QName: "class", Value: `a"b`}, {QName: "xmlns:ex", Value: "http://example.com/"}}
	mappings := map[string]string{"ex": "http://example.com/", "": XHTMLVocab}
	got := serializeOpenTag(XHTMLNS, "span", mappings, attrs, false)
	want := `<span xmlns="` + XHTMLNS + `" xmlns:ex="http://example.com/" class="a&quot;b">`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	if got := serializeOpenTag(XHTMLNS, "span", mappings, nil, true); got != `<span xmlns="`+XHTMLNS+`">` {
		t.Fatalf("compact tag: %s", got)
	}
}
