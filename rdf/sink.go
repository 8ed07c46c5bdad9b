package rdf

import "sync"

// TripleSink receives statements as strings. Subjects and objects are IRIs or
// blank node identifiers carrying the "_:" prefix. Add methods do not return
// errors: a sink records its first failure and reports it from EndStream.
type TripleSink interface {
	StartStream() error
	EndStream() error
	AddNonLiteral(subject, predicate, object string)
	AddPlainLiteral(subject, predicate, content, lang string)
	AddTypedLiteral(subject, predicate, content, datatype string)
}

// QuadSink is a TripleSink that also accepts statements in named graphs.
// An empty graph denotes the default graph.
type QuadSink interface {
	TripleSink
	AddNonLiteralQuad(subject, predicate, object, graph string)
	AddPlainLiteralQuad(subject, predicate, content, lang, graph string)
	AddTypedLiteralQuad(subject, predicate, content, datatype, graph string)
}

// Handler processes quads in push mode.
type Handler func(Quad) error

// HandlerSink adapts a Handler to QuadSink, converting sink strings into terms.
type HandlerSink struct {
	handler Handler
	err     error
}

// NewHandlerSink returns a sink that calls handler for every statement.
func NewHandlerSink(handler Handler) *HandlerSink {
	return &HandlerSink{handler: handler}
}

func (s *HandlerSink) emit(q Quad) {
	if s.err != nil {
		return
	}
	s.err = s.handler(q)
}

// StartStream resets the sticky error.
func (s *HandlerSink) StartStream() error {
	s.err = nil
	return nil
}

// EndStream returns the first handler error, if any.
func (s *HandlerSink) EndStream() error { return s.err }

func (s *HandlerSink) AddNonLiteral(subject, predicate, object string) {
	s.AddNonLiteralQuad(subject, predicate, object, "")
}

func (s *HandlerSink) AddPlainLiteral(subject, predicate, content, lang string) {
	s.AddPlainLiteralQuad(subject, predicate, content, lang, "")
}

func (s *HandlerSink) AddTypedLiteral(subject, predicate, content, datatype string) {
	s.AddTypedLiteralQuad(subject, predicate, content, datatype, "")
}

func (s *HandlerSink) AddNonLiteralQuad(subject, predicate, object, graph string) {
	s.emit(Quad{S: NodeTerm(subject), P: IRI{Value: predicate}, O: NodeTerm(object), G: graphTerm(graph)})
}

func (s *HandlerSink) AddPlainLiteralQuad(subject, predicate, content, lang, graph string) {
	s.emit(Quad{S: NodeTerm(subject), P: IRI{Value: predicate}, O: Literal{Lexical: content, Lang: lang}, G: graphTerm(graph)})
}

func (s *HandlerSink) AddTypedLiteralQuad(subject, predicate, content, datatype, graph string) {
	lit := Literal{Lexical: content, Datatype: IRI{Value: datatype}}
	s.emit(Quad{S: NodeTerm(subject), P: IRI{Value: predicate}, O: lit, G: graphTerm(graph)})
}

// Collector is a QuadSink that keeps every statement in memory.
// It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	quads []Quad
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Quads returns the collected statements in emission order.
func (c *Collector) Quads() []Quad {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Quad, len(c.quads))
	copy(out, c.quads)
	return out
}

// Len returns the number of collected statements.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.quads)
}

func (c *Collector) add(q Quad) {
	c.mu.Lock()
	c.quads = append(c.quads, q)
	c.mu.Unlock()
}

func (c *Collector) StartStream() error { return nil }
func (c *Collector) EndStream() error   { return nil }

func (c *Collector) AddNonLiteral(subject, predicate, object string) {
	c.AddNonLiteralQuad(subject, predicate, object, "")
}

func (c *Collector) AddPlainLiteral(subject, predicate, content, lang string) {
	c.AddPlainLiteralQuad(subject, predicate, content, lang, "")
}

func (c *Collector) AddTypedLiteral(subject, predicate, content, datatype string) {
	c.AddTypedLiteralQuad(subject, predicate, content, datatype, "")
}

func (c *Collector) AddNonLiteralQuad(subject, predicate, object, graph string) {
	c.add(Quad{S: NodeTerm(subject), P: IRI{Value: predicate}, O: NodeTerm(object), G: graphTerm(graph)})
}

func (c *Collector) AddPlainLiteralQuad(subject, predicate, content, lang, graph string) {
	c.add(Quad{S: NodeTerm(subject), P: IRI{Value: predicate}, O: Literal{Lexical: content, Lang: lang}, G: graphTerm(graph)})
}

func (c *Collector) AddTypedLiteralQuad(subject, predicate, content, datatype, graph string) {
	c.add(Quad{S: NodeTerm(subject), P: IRI{Value: predicate}, O: Literal{Lexical: content, Datatype: IRI{Value: datatype}}, G: graphTerm(graph)})
}

// AsQuadSink lifts a TripleSink to a QuadSink. Graph names are dropped.
// Sinks that already implement QuadSink are returned unchanged.
func AsQuadSink(sink TripleSink) QuadSink {
	if qs, ok := sink.(QuadSink); ok {
		return qs
	}
	return tripleOnlySink{sink}
}

type tripleOnlySink struct {
	TripleSink
}

func (s tripleOnlySink) AddNonLiteralQuad(subject, predicate, object, _ string) {
	s.AddNonLiteral(subject, predicate, object)
}

func (s tripleOnlySink) AddPlainLiteralQuad(subject, predicate, content, lang, _ string) {
	s.AddPlainLiteral(subject, predicate, content, lang)
}

func (s tripleOnlySink) AddTypedLiteralQuad(subject, predicate, content, datatype, _ string) {
	s.AddTypedLiteral(subject, predicate, content, datatype)
}

// passThrough forwards statements to a sink without bracketing the stream.
// Nested processors (RDF/XML inside SVG, vocabulary loading) write through it.
type passThrough struct {
	TripleSink
}

func (passThrough) StartStream() error { return nil }
func (passThrough) EndStream() error   { return nil }
