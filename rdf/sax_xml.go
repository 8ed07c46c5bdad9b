package rdf

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

type xmlLocator struct {
	dec *xml.Decoder
}

func (l xmlLocator) Position() (int, int) {
	return l.dec.InputPos()
}

type xmlOpenElement struct {
	space, local, qName string
	bindings            map[string]string // prefix -> namespace declared on this element
}

// ParseXML reads an XML document (XHTML, SVG, RDF/XML or any other dialect)
// and drives handler with its events. Prefix mappings declared on an element
// are reported before the element itself. Character references and the HTML
// named entities are expanded; the encoding declaration is honoured.
func ParseXML(ctx context.Context, r io.Reader, handler ContentHandler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dec := xml.NewDecoder(&contextReader{ctx: ctx, r: r})
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel
	loc := xmlLocator{dec: dec}
	handler.SetDocumentLocator(loc)

	if err := handler.StartDocument(); err != nil {
		return abortDocument(handler, sourceError("xml", loc, err))
	}
	s := &xmlSource{handler: handler, scopes: []map[string]string{{"xml": XMLNS}}}
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			if len(s.open) > 0 {
				err = fmt.Errorf("unexpected EOF: element <%s> not closed", s.open[len(s.open)-1].qName)
				return abortDocument(handler, sourceError("xml", loc, err))
			}
			break
		}
		if err != nil {
			return abortDocument(handler, sourceError("xml", loc, err))
		}
		if err := s.dispatch(tok); err != nil {
			return abortDocument(handler, sourceError("xml", loc, err))
		}
	}
	if err := handler.EndDocument(); err != nil {
		return sourceError("xml", loc, err)
	}
	return nil
}

type xmlSource struct {
	handler ContentHandler
	open    []xmlOpenElement
	scopes  []map[string]string
	rooted  bool
}

func (s *xmlSource) lookup(prefix string) (string, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if ns, ok := s.scopes[i][prefix]; ok {
			return ns, true
		}
	}
	return "", false
}

func (s *xmlSource) dispatch(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		return s.startElement(t)
	case xml.EndElement:
		return s.endElement(t)
	case xml.CharData:
		if len(s.open) == 0 {
			return nil
		}
		return s.handler.Characters(string(t))
	case xml.Comment:
		if len(s.open) == 0 {
			return nil
		}
		return s.handler.Comment(string(t))
	case xml.Directive:
		text := strings.TrimSpace(string(t))
		if strings.HasPrefix(text, "DOCTYPE") && !s.rooted {
			name, publicID, systemID := parseDoctype(text)
			return s.handler.StartDTD(name, publicID, systemID)
		}
	}
	return nil
}

func (s *xmlSource) startElement(t xml.StartElement) error {
	s.rooted = true
	bindings := make(map[string]string)
	for _, attr := range t.Attr {
		switch {
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			bindings[""] = attr.Value
		case attr.Name.Space == "xmlns":
			bindings[attr.Name.Local] = attr.Value
		}
	}
	s.scopes = append(s.scopes, bindings)
	for prefix, uri := range bindings {
		if err := s.handler.StartPrefixMapping(prefix, uri); err != nil {
			return err
		}
	}

	space, ok := s.lookup(t.Name.Space)
	if !ok && t.Name.Space != "" {
		return fmt.Errorf("undeclared namespace prefix %q", t.Name.Space)
	}
	qName := qualifiedName(t.Name)
	attrs := make(Attributes, 0, len(t.Attr))
	for _, attr := range t.Attr {
		if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
			continue
		}
		attrSpace := ""
		if attr.Name.Space != "" {
			attrSpace, ok = s.lookup(attr.Name.Space)
			if !ok {
				return fmt.Errorf("undeclared namespace prefix %q", attr.Name.Space)
			}
		}
		attrs = append(attrs, Attribute{
			Space: attrSpace,
			Local: attr.Name.Local,
			QName: qualifiedName(attr.Name),
			Value: attr.Value,
		})
	}
	s.open = append(s.open, xmlOpenElement{space: space, local: t.Name.Local, qName: qName, bindings: bindings})
	return s.handler.StartElement(space, t.Name.Local, qName, attrs)
}

func (s *xmlSource) endElement(t xml.EndElement) error {
	qName := qualifiedName(t.Name)
	if len(s.open) == 0 {
		return fmt.Errorf("unexpected end element </%s>", qName)
	}
	top := s.open[len(s.open)-1]
	if top.qName != qName {
		return fmt.Errorf("element <%s> closed by </%s>", top.qName, qName)
	}
	s.open = s.open[:len(s.open)-1]
	s.scopes = s.scopes[:len(s.scopes)-1]
	return s.handler.EndElement(top.space, top.local, top.qName)
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
