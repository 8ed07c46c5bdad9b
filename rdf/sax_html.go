package rdf

import (
	"context"
	"io"
	"strings"

	"golang.org/x/net/html"
	a "golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Void elements never have content or an end tag.
var voidElements = map[a.Atom]bool{
	a.Area: true, a.Base: true, a.Br: true, a.Col: true, a.Embed: true,
	a.Hr: true, a.Img: true, a.Input: true, a.Keygen: true, a.Link: true,
	a.Meta: true, a.Param: true, a.Source: true, a.Track: true, a.Wbr: true,
}

// Elements allowed in an implied <head>.
var headElements = map[a.Atom]bool{
	a.Base: true, a.Link: true, a.Meta: true, a.Script: true, a.Style: true,
	a.Title: true, a.Noscript: true, a.Template: true,
}

// Start tags that close an open <p>.
var closesParagraph = map[a.Atom]bool{
	a.Address: true, a.Article: true, a.Aside: true, a.Blockquote: true,
	a.Details: true, a.Div: true, a.Dl: true, a.Fieldset: true,
	a.Figcaption: true, a.Figure: true, a.Footer: true, a.Form: true,
	a.H1: true, a.H2: true, a.H3: true, a.H4: true, a.H5: true, a.H6: true,
	a.Header: true, a.Hr: true, a.Main: true, a.Nav: true, a.Ol: true,
	a.P: true, a.Pre: true, a.Section: true, a.Table: true, a.Ul: true,
}

// impliedEnd lists, per start tag, the open elements it implicitly closes
// and the elements that stop the search.
var impliedEnd = map[a.Atom]struct{ closes, stops []a.Atom }{
	a.Li:       {closes: []a.Atom{a.Li}, stops: []a.Atom{a.Ul, a.Ol}},
	a.Dt:       {closes: []a.Atom{a.Dt, a.Dd}, stops: []a.Atom{a.Dl}},
	a.Dd:       {closes: []a.Atom{a.Dt, a.Dd}, stops: []a.Atom{a.Dl}},
	a.Tr:       {closes: []a.Atom{a.Tr, a.Td, a.Th}, stops: []a.Atom{a.Table, a.Tbody, a.Thead, a.Tfoot}},
	a.Td:       {closes: []a.Atom{a.Td, a.Th}, stops: []a.Atom{a.Tr, a.Table}},
	a.Th:       {closes: []a.Atom{a.Td, a.Th}, stops: []a.Atom{a.Tr, a.Table}},
	a.Option:   {closes: []a.Atom{a.Option}, stops: []a.Atom{a.Select, a.Datalist, a.Optgroup}},
	a.Optgroup: {closes: []a.Atom{a.Option, a.Optgroup}, stops: []a.Atom{a.Select}},
}

type htmlOpenElement struct {
	name string
	atom a.Atom
}

type htmlSource struct {
	handler ContentHandler
	z       *html.Tokenizer
	open    []htmlOpenElement
	line    int
	column  int
	next    struct{ line, column int }
}

func (s *htmlSource) Position() (int, int) {
	return s.line, s.column
}

// advance moves the locator past the raw bytes of the current token.
func (s *htmlSource) advance(raw []byte) {
	s.line, s.column = s.next.line, s.next.column
	for _, ch := range raw {
		if ch == '\n' {
			s.next.line++
			s.next.column = 1
		} else {
			s.next.column++
		}
	}
}

// ParseHTML tokenizes an HTML document and drives handler with XML-style
// events. The element structure is repaired the way a lenient HTML reader
// would: html, head and body are implied when missing, void elements are
// closed immediately, common optional end tags are inferred and stray end
// tags are ignored. Elements are reported in the XHTML namespace and xmlns:*
// attributes become prefix mappings.
func ParseHTML(ctx context.Context, r io.Reader, handler ContentHandler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	decoded, err := charset.NewReader(&contextReader{ctx: ctx, r: r}, "text/html")
	if err != nil {
		return &ParseError{Format: "html", Err: err}
	}
	s := &htmlSource{handler: handler, z: html.NewTokenizer(decoded), line: 1, column: 1}
	s.next.line, s.next.column = 1, 1
	handler.SetDocumentLocator(s)

	if err := handler.StartDocument(); err != nil {
		return abortDocument(handler, sourceError("html", s, err))
	}
	if err := s.run(); err != nil {
		return abortDocument(handler, sourceError("html", s, err))
	}
	if err := handler.EndDocument(); err != nil {
		return sourceError("html", s, err)
	}
	return nil
}

func (s *htmlSource) run() error {
	for {
		tt := s.z.Next()
		s.advance(s.z.Raw())
		switch tt {
		case html.ErrorToken:
			if err := s.z.Err(); err != io.EOF {
				return err
			}
			return s.popTo(0)
		case html.DoctypeToken:
			if len(s.open) == 0 {
				name, publicID, systemID := parseDoctype(s.z.Token().Data)
				if err := s.handler.StartDTD(name, publicID, systemID); err != nil {
					return err
				}
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := s.z.Token()
			if err := s.startTag(tok, tt == html.SelfClosingTagToken); err != nil {
				return err
			}
		case html.EndTagToken:
			if err := s.endTag(s.z.Token()); err != nil {
				return err
			}
		case html.TextToken:
			text := s.z.Token().Data
			if len(s.open) == 0 {
				if strings.TrimSpace(text) == "" {
					continue
				}
				if err := s.implyStructure(a.Div); err != nil {
					return err
				}
			}
			if err := s.handler.Characters(text); err != nil {
				return err
			}
		case html.CommentToken:
			if len(s.open) > 0 {
				if err := s.handler.Comment(s.z.Token().Data); err != nil {
					return err
				}
			}
		}
	}
}

// implyStructure opens the html, head and body elements that tag requires.
func (s *htmlSource) implyStructure(tag a.Atom) error {
	if tag == a.Html {
		return nil
	}
	if len(s.open) == 0 {
		if err := s.push(a.Html.String(), nil); err != nil {
			return err
		}
	}
	if len(s.open) == 1 && s.open[0].atom == a.Html && tag != a.Head && tag != a.Body {
		if headElements[tag] {
			return s.push(a.Head.String(), nil)
		}
		return s.push(a.Body.String(), nil)
	}
	if len(s.open) == 2 && s.open[1].atom == a.Head && !headElements[tag] {
		if err := s.popTo(1); err != nil {
			return err
		}
		if tag != a.Body {
			return s.push(a.Body.String(), nil)
		}
	}
	return nil
}

func (s *htmlSource) startTag(tok html.Token, selfClosing bool) error {
	tag := tok.DataAtom
	if err := s.implyStructure(tag); err != nil {
		return err
	}
	if tag == a.Html && len(s.open) > 0 {
		return nil
	}
	if closesParagraph[tag] {
		if i := s.indexOf([]a.Atom{a.P}, []a.Atom{a.Div, a.Section, a.Article, a.Body}); i >= 0 {
			if err := s.popTo(i); err != nil {
				return err
			}
		}
	}
	if rule, ok := impliedEnd[tag]; ok {
		if i := s.indexOf(rule.closes, rule.stops); i >= 0 {
			if err := s.popTo(i); err != nil {
				return err
			}
		}
	}
	if err := s.push(tok.Data, tok.Attr); err != nil {
		return err
	}
	if selfClosing || voidElements[tag] {
		return s.popTo(len(s.open) - 1)
	}
	return nil
}

func (s *htmlSource) endTag(tok html.Token) error {
	switch tok.DataAtom {
	case a.Html, a.Body:
		return nil
	}
	for i := len(s.open) - 1; i >= 0; i-- {
		if s.open[i].name == tok.Data {
			return s.popTo(i)
		}
	}
	return nil
}

// indexOf finds the innermost open element in closes, giving up at any
// element in stops.
func (s *htmlSource) indexOf(closes, stops []a.Atom) int {
	for i := len(s.open) - 1; i >= 0; i-- {
		tag := s.open[i].atom
		for _, c := range closes {
			if tag == c {
				return i
			}
		}
		for _, stop := range stops {
			if tag == stop {
				return -1
			}
		}
	}
	return -1
}

func (s *htmlSource) push(name string, attrs []html.Attribute) error {
	converted := make(Attributes, 0, len(attrs))
	for _, attr := range attrs {
		key := attr.Key
		if attr.Namespace != "" {
			key = attr.Namespace + ":" + key
		}
		switch {
		case key == "xmlns":
			continue
		case strings.HasPrefix(key, "xmlns:"):
			if err := s.handler.StartPrefixMapping(key[len("xmlns:"):], attr.Val); err != nil {
				return err
			}
			continue
		}
		space, local := "", key
		if strings.HasPrefix(key, "xml:") {
			space, local = XMLNS, key[len("xml:"):]
		}
		converted = append(converted, Attribute{Space: space, Local: local, QName: key, Value: attr.Val})
	}
	s.open = append(s.open, htmlOpenElement{name: name, atom: a.Lookup([]byte(name))})
	return s.handler.StartElement(XHTMLNS, name, name, converted)
}

// popTo closes open elements down to and including index i.
func (s *htmlSource) popTo(i int) error {
	for len(s.open) > i {
		top := s.open[len(s.open)-1]
		s.open = s.open[:len(s.open)-1]
		if err := s.handler.EndElement(XHTMLNS, top.name, top.name); err != nil {
			return err
		}
	}
	return nil
}
