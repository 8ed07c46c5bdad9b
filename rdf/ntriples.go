package rdf

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxLineBytes bounds a single N-Triples / N-Quads line.
const DefaultMaxLineBytes = 1 << 20

// NTriplesParser reads N-Triples or N-Quads and writes each statement to a
// sink. Blank node labels are relabelled through the document context so
// that labels from different documents never collide.
type NTriplesParser struct {
	sink  QuadSink
	doc   *DocumentContext
	quads bool

	// MaxLineBytes bounds one line; zero disables the limit.
	MaxLineBytes int
}

// NewNTriplesParser creates an N-Triples processor.
func NewNTriplesParser(sink TripleSink) *NTriplesParser {
	return &NTriplesParser{sink: AsQuadSink(sink), doc: NewDocumentContext("", RDFa11), MaxLineBytes: DefaultMaxLineBytes}
}

// NewNQuadsParser creates an N-Quads processor. Graph labels are passed to
// the sink when it is a QuadSink.
func NewNQuadsParser(sink TripleSink) *NTriplesParser {
	p := NewNTriplesParser(sink)
	p.quads = true
	return p
}

func (p *NTriplesParser) format() string {
	if p.quads {
		return "nquads"
	}
	return "ntriples"
}

// Parse processes one document. A malformed line aborts the document; the
// sink stream is closed either way.
func (p *NTriplesParser) Parse(ctx context.Context, r io.Reader) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := p.sink.StartStream(); err != nil {
		return err
	}
	err := p.parse(ctx, r)
	p.doc.Clear()
	if endErr := p.sink.EndStream(); err == nil {
		err = endErr
	}
	return err
}

func (p *NTriplesParser) parse(ctx context.Context, r io.Reader) error {
	reader := bufio.NewReader(&contextReader{ctx: ctx, r: r})
	for lineNo := 1; ; lineNo++ {
		line, err := readLineWithLimit(reader, p.MaxLineBytes)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return wrapParseError(p.format(), "", lineNo, 0, err)
		}
		if err := p.parseLine(line); err != nil {
			return err.withLine(p.format(), line, lineNo)
		}
	}
}

type ntLineError struct {
	pos int
	err error
}

func (e *ntLineError) withLine(format, line string, lineNo int) error {
	return &ParseError{Format: format, Statement: strings.TrimRight(line, "\r\n"), Line: lineNo, Column: e.pos + 1, Err: e.err}
}

func (p *NTriplesParser) parseLine(line string) *ntLineError {
	c := &ntCursor{input: line, doc: p.doc}
	c.skipWS()
	if c.done() || c.peek() == '#' {
		return nil
	}
	subject, err := c.parseNode()
	if err != nil {
		return err
	}
	predicate, err := c.parseIRI()
	if err != nil {
		return err
	}
	object, err := c.parseObject()
	if err != nil {
		return err
	}
	graph := ""
	c.skipWS()
	if p.quads && !c.done() && c.peek() != '.' {
		if graph, err = c.parseNode(); err != nil {
			return err
		}
	}
	if !c.consume('.') {
		return c.errorf("expected '.' at end of statement")
	}
	c.skipWS()
	if !c.done() && c.peek() != '#' {
		return c.errorf("unexpected content after '.'")
	}

	switch {
	case !object.literal:
		p.sink.AddNonLiteralQuad(subject, predicate, object.value, graph)
	case object.datatype != "":
		p.sink.AddTypedLiteralQuad(subject, predicate, object.value, object.datatype, graph)
	default:
		p.sink.AddPlainLiteralQuad(subject, predicate, object.value, object.lang, graph)
	}
	return nil
}

type ntObject struct {
	value    string
	literal  bool
	lang     string
	datatype string
}

type ntCursor struct {
	input string
	pos   int
	doc   *DocumentContext
}

func (c *ntCursor) done() bool { return c.pos >= len(c.input) }
func (c *ntCursor) peek() byte { return c.input[c.pos] }

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

// parseNode reads an IRI or a blank node label.
func (c *ntCursor) parseNode() (string, *ntLineError) {
	c.skipWS()
	if c.done() {
		return "", c.errorf("unexpected end of line")
	}
	if strings.HasPrefix(c.input[c.pos:], BnodePrefix) {
		return c.parseBlankNode()
	}
	return c.parseIRI()
}

func (c *ntCursor) parseObject() (ntObject, *ntLineError) {
	c.skipWS()
	if c.done() {
		return ntObject{}, c.errorf("unexpected end of line")
	}
	if c.peek() == '"' {
		return c.parseLiteral()
	}
	node, err := c.parseNode()
	return ntObject{value: node}, err
}

func (c *ntCursor) parseIRI() (string, *ntLineError) {
	if !c.consume('<') {
		return "", c.errorf("expected IRI")
	}
	start := c.pos
	end := strings.IndexByte(c.input[start:], '>')
	if end < 0 {
		return "", c.errorf("unterminated IRI")
	}
	c.pos = start + end + 1
	value, err := UnescapeString(c.input[start : start+end])
	if err != nil {
		return "", &ntLineError{pos: start, err: err}
	}
	if !IsIRI(value) {
		return "", &ntLineError{pos: start, err: malformedIRI(value)}
	}
	return value, nil
}

func (c *ntCursor) parseBlankNode() (string, *ntLineError) {
	c.pos += len(BnodePrefix)
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// a label may not end with '.'
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if start == c.pos {
		return "", c.errorf("blank node label missing")
	}
	return c.doc.BnodeFor(c.input[start:c.pos]), nil
}

func (c *ntCursor) parseLiteral() (ntObject, *ntLineError) {
	c.pos++ // opening quote
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '"' {
		if c.input[c.pos] == '\\' {
			c.pos++
		}
		c.pos++
	}
	if c.pos >= len(c.input) {
		return ntObject{}, c.errorf("unterminated literal")
	}
	lexical, err := UnescapeString(c.input[start:c.pos])
	if err != nil {
		return ntObject{}, &ntLineError{pos: start, err: err}
	}
	c.pos++ // closing quote

	obj := ntObject{value: lexical, literal: true}
	switch {
	case strings.HasPrefix(c.input[c.pos:], "@"):
		c.pos++
		langStart := c.pos
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) && c.input[c.pos] != '.' {
			c.pos++
		}
		obj.lang = strings.ToLower(c.input[langStart:c.pos])
		if !isValidLangTag(obj.lang) {
			return ntObject{}, &ntLineError{pos: langStart, err: fmt.Errorf("invalid language tag %q", obj.lang)}
		}
	case strings.HasPrefix(c.input[c.pos:], "^^"):
		c.pos += 2
		datatype, dtErr := c.parseIRI()
		if dtErr != nil {
			return ntObject{}, dtErr
		}
		obj.datatype = datatype
	}
	return obj, nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) *ntLineError {
	return &ntLineError{pos: c.pos, err: fmt.Errorf(format, args...)}
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '<', '"':
		return true
	default:
		return false
	}
}

// NTriplesSink serializes statements as N-Triples, or as N-Quads when
// created with NewNQuadsSink. Write errors are sticky and reported by
// EndStream.
type NTriplesSink struct {
	w     *bufio.Writer
	quads bool
	err   error
}

// NewNTriplesSink returns a sink writing N-Triples to w. Graph names are dropped.
func NewNTriplesSink(w io.Writer) *NTriplesSink {
	return &NTriplesSink{w: bufio.NewWriter(w)}
}

// NewNQuadsSink returns a sink writing N-Quads to w.
func NewNQuadsSink(w io.Writer) *NTriplesSink {
	return &NTriplesSink{w: bufio.NewWriter(w), quads: true}
}

func (s *NTriplesSink) StartStream() error {
	s.err = nil
	return nil
}

// EndStream flushes buffered output.
func (s *NTriplesSink) EndStream() error {
	if s.err != nil {
		return s.err
	}
	return s.w.Flush()
}

func (s *NTriplesSink) AddNonLiteral(subject, predicate, object string) {
	s.AddNonLiteralQuad(subject, predicate, object, "")
}

func (s *NTriplesSink) AddPlainLiteral(subject, predicate, content, lang string) {
	s.AddPlainLiteralQuad(subject, predicate, content, lang, "")
}

func (s *NTriplesSink) AddTypedLiteral(subject, predicate, content, datatype string) {
	s.AddTypedLiteralQuad(subject, predicate, content, datatype, "")
}

func (s *NTriplesSink) AddNonLiteralQuad(subject, predicate, object, graph string) {
	s.writeStatement(subject, predicate, renderNode(object), graph)
}

func (s *NTriplesSink) AddPlainLiteralQuad(subject, predicate, content, lang, graph string) {
	s.writeStatement(subject, predicate, renderPlainLiteral(content, lang), graph)
}

func (s *NTriplesSink) AddTypedLiteralQuad(subject, predicate, content, datatype, graph string) {
	s.writeStatement(subject, predicate, renderTypedLiteral(content, datatype), graph)
}

func (s *NTriplesSink) writeStatement(subject, predicate, object, graph string) {
	if s.err != nil {
		return
	}
	var b strings.Builder
	b.WriteString(renderNode(subject))
	b.WriteByte(' ')
	b.WriteString(renderIRI(predicate))
	b.WriteByte(' ')
	b.WriteString(object)
	if s.quads && graph != "" {
		b.WriteByte(' ')
		b.WriteString(renderNode(graph))
	}
	b.WriteString(" .\n")
	_, s.err = s.w.WriteString(b.String())
}

// renderNode renders a sink node string: a blank node label or an IRI.
func renderNode(value string) string {
	if isBnode(value) {
		return value
	}
	return renderIRI(value)
}

func renderIRI(iri string) string {
	var b strings.Builder
	b.WriteByte('<')
	for _, r := range iri {
		switch {
		case r <= 0x20, strings.ContainsRune("<>\"{}|^`\\", r):
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('>')
	return b.String()
}

func renderPlainLiteral(content, lang string) string {
	if lang == "" {
		return quoteLiteral(content)
	}
	return quoteLiteral(content) + "@" + lang
}

func renderTypedLiteral(content, datatype string) string {
	if datatype == XSDString {
		return quoteLiteral(content)
	}
	return quoteLiteral(content) + "^^" + renderIRI(datatype)
}

// quoteLiteral writes an N-Triples string with the canonical escapes.
func quoteLiteral(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('"')
	for _, r := range value {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7F {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
