package rdf

import (
	"fmt"
	"strconv"
	"strings"
)

type rdfxmlMode uint8

const (
	expectNode       rdfxmlMode = iota // children are node elements
	expectProperty                     // children are property elements
	expectCollection                   // children are members of a parseType="Collection" list
	captureXML                         // children belong to a parseType="Literal" value
)

// rdfxmlFrame is the state of one open element.
type rdfxmlFrame struct {
	mode rdfxmlMode
	lang string
	base string
	ns   map[string]string

	// subject of a node element, or of the statement of a property element
	subject string
	liIndex int

	// property elements
	property  bool
	predicate string
	datatype  string
	reify     string
	text      *strings.Builder // plain text value while no object is known
	hasObject bool
	literal   *strings.Builder // parseType="Literal"
	members   []string         // parseType="Collection"
	resource  string           // blank node of parseType="Resource"
}

// childSubject is the subject of property elements nested in f.
func (f *rdfxmlFrame) childSubject() string {
	if f.resource != "" {
		return f.resource
	}
	return f.subject
}

// Names that may not be used as node element names.
var forbiddenNodeNames = map[string]bool{
	RDFNS + "RDF": true, RDFNS + "ID": true, RDFNS + "about": true,
	RDFNS + "bagID": true, RDFNS + "parseType": true, RDFNS + "resource": true,
	RDFNS + "nodeID": true, RDFNS + "li": true, RDFNS + "aboutEach": true,
	RDFNS + "aboutEachPrefix": true, RDFNS + "datatype": true,
}

// Names that may not be used as property element or property attribute names.
var forbiddenPropertyNames = map[string]bool{
	RDFNS + "RDF": true, RDFNS + "ID": true, RDFNS + "about": true,
	RDFNS + "bagID": true, RDFNS + "parseType": true, RDFNS + "resource": true,
	RDFNS + "nodeID": true, RDFNS + "Description": true, RDFNS + "aboutEach": true,
	RDFNS + "aboutEachPrefix": true, RDFNS + "datatype": true, RDFNS + "nil": true,
}

// RDFXMLParser is a ContentHandler implementing the RDF/XML syntax grammar
// on top of a streaming XML event source.
type RDFXMLParser struct {
	sink    TripleSink
	doc     *DocumentContext
	origin  string
	locator Locator

	stack   []*rdfxmlFrame
	pending map[string]string
	ids     map[string]bool
}

// NewRDFXMLParser creates an RDF/XML processor writing to sink.
func NewRDFXMLParser(sink TripleSink, base string) *RDFXMLParser {
	return newEmbeddedRDFXMLParser(sink, NewDocumentContext(base, RDFa11))
}

// newEmbeddedRDFXMLParser shares doc with an enclosing processor so that
// blank node identifiers never collide.
func newEmbeddedRDFXMLParser(sink TripleSink, doc *DocumentContext) *RDFXMLParser {
	return &RDFXMLParser{sink: sink, doc: doc, origin: doc.Base}
}

// SetBase sets the document IRI for the next document.
func (p *RDFXMLParser) SetBase(base string) {
	p.origin = base
	p.doc.Base = base
}

func (p *RDFXMLParser) SetDocumentLocator(loc Locator) {
	p.locator = loc
}

func (p *RDFXMLParser) StartDocument() error {
	p.stack = []*rdfxmlFrame{{mode: expectNode, base: p.origin, ns: map[string]string{"xml": XMLNS}}}
	p.pending = make(map[string]string)
	p.ids = make(map[string]bool)
	return p.sink.StartStream()
}

func (p *RDFXMLParser) EndDocument() error {
	p.stack = nil
	p.doc.Clear()
	return p.sink.EndStream()
}

// FatalError drops the pending state and closes the sink stream.
func (p *RDFXMLParser) FatalError(err error) {
	rdfxmlLog.Error("document aborted", "error", err)
	p.stack = nil
	p.doc.Clear()
	if endErr := p.sink.EndStream(); endErr != nil {
		rdfxmlLog.Error("closing sink after fatal error", "error", endErr)
	}
}

func (p *RDFXMLParser) StartDTD(string, string, string) error { return nil }

func (p *RDFXMLParser) StartPrefixMapping(prefix, uri string) error {
	p.pending[prefix] = uri
	return nil
}

func (p *RDFXMLParser) top() *rdfxmlFrame {
	return p.stack[len(p.stack)-1]
}

func (p *RDFXMLParser) schemaError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchemaViolation, fmt.Sprintf(format, args...))
}

func (p *RDFXMLParser) StartElement(space, local, qName string, attrs Attributes) error {
	parent := p.top()
	ns := parent.ns
	if len(p.pending) > 0 {
		ns = make(map[string]string, len(parent.ns)+len(p.pending))
		for prefix, uri := range parent.ns {
			ns[prefix] = uri
		}
		for prefix, uri := range p.pending {
			ns[prefix] = uri
		}
		p.pending = make(map[string]string)
	}

	if parent.mode == captureXML {
		literal := parent.literal
		nested := !parent.property
		literal.WriteString(serializeOpenTag(space, qName, ns, attrs, nested))
		p.stack = append(p.stack, &rdfxmlFrame{mode: captureXML, ns: ns, literal: literal})
		return nil
	}

	frame := &rdfxmlFrame{mode: parent.mode, lang: parent.lang, base: parent.base, ns: ns}
	if lang, ok := attrs.GetNS(XMLNS, "lang"); ok {
		frame.lang = lang
	}
	if base, ok := attrs.GetNS(XMLNS, "base"); ok {
		resolved, err := ResolveIRI(parent.base, stripFragment(base))
		if err != nil || !IsAbsoluteIRI(resolved) {
			return p.schemaError("invalid base IRI %q", base)
		}
		frame.base = resolved
	}

	iri := space + local
	if iri == RDFNS+"RDF" || (space == "" && len(p.stack) == 1) {
		p.stack = append(p.stack, frame)
		return nil
	}

	var err error
	switch parent.mode {
	case expectNode, expectCollection:
		err = p.startNode(qName, iri, attrs, parent, frame)
	case expectProperty:
		err = p.startProperty(qName, iri, attrs, parent, frame)
	}
	if err != nil {
		return err
	}
	p.stack = append(p.stack, frame)
	return nil
}

func (p *RDFXMLParser) startNode(qName, iri string, attrs Attributes, parent, frame *rdfxmlFrame) error {
	if forbiddenNodeNames[iri] {
		return p.schemaError("%s is not allowed here", qName)
	}
	subject, err := p.nodeSubject(attrs, frame.base)
	if err != nil {
		return err
	}
	switch {
	case parent.mode == expectCollection:
		parent.members = append(parent.members, subject)
	case parent.property:
		parent.text = nil
		parent.hasObject = true
		p.emitNonLiteral(parent, subject)
	}
	if iri != RDFNS+"Description" {
		p.sink.AddNonLiteral(subject, RDFType, iri)
	}
	for _, attr := range attrs {
		name := attr.Space + attr.Local
		if attr.Space == XMLNS || name == RDFNS+"about" || name == RDFNS+"ID" || name == RDFNS+"nodeID" {
			continue
		}
		if err := p.propertyAttr(qName, subject, attr, frame); err != nil {
			return err
		}
	}
	frame.mode = expectProperty
	frame.subject = subject
	frame.liIndex = 1
	return nil
}

// propertyAttr emits the statement of a property attribute.
func (p *RDFXMLParser) propertyAttr(qName, subject string, attr Attribute, frame *rdfxmlFrame) error {
	name := attr.Space + attr.Local
	if attr.Space == "" {
		rdfxmlLog.Warning("ignoring unqualified attribute", "attribute", attr.QName, "element", qName)
		return nil
	}
	if name == RDFType {
		object, err := ResolveIRI(frame.base, attr.Value)
		if err != nil {
			return err
		}
		p.sink.AddNonLiteral(subject, RDFType, object)
		return nil
	}
	if forbiddenPropertyNames[name] || name == RDFNS+"li" {
		return p.schemaError("%s is not allowed here", attr.QName)
	}
	p.sink.AddPlainLiteral(subject, name, attr.Value, frame.lang)
	return nil
}

// nodeSubject determines the subject of a node element from rdf:about,
// rdf:ID or rdf:nodeID, allocating a blank node when none is given.
func (p *RDFXMLParser) nodeSubject(attrs Attributes, base string) (string, error) {
	var subject string
	count := 0
	if about, ok := attrs.GetNS(RDFNS, "about"); ok {
		iri, err := ResolveIRI(base, about)
		if err != nil {
			return "", err
		}
		subject = iri
		count++
	}
	if id, ok := attrs.GetNS(RDFNS, "ID"); ok {
		iri, err := p.resolveID(base, id)
		if err != nil {
			return "", err
		}
		subject = iri
		count++
	}
	if nodeID, ok := attrs.GetNS(RDFNS, "nodeID"); ok {
		if !isNCName(nodeID) {
			return "", p.schemaError("invalid rdf:nodeID %q", nodeID)
		}
		subject = p.doc.BnodeFor(nodeID)
		count++
	}
	switch count {
	case 0:
		return p.doc.CreateBnode(), nil
	case 1:
		return subject, nil
	default:
		return "", p.schemaError("ambiguous identifier definition")
	}
}

// resolveID turns an rdf:ID into an IRI. IDs must be unique per base.
func (p *RDFXMLParser) resolveID(base, id string) (string, error) {
	if !isNCName(id) {
		return "", p.schemaError("invalid rdf:ID %q", id)
	}
	iri := stripFragment(base) + "#" + id
	if p.ids[iri] {
		return "", p.schemaError("duplicate definition for resource ID %s", iri)
	}
	p.ids[iri] = true
	return iri, nil
}

func (p *RDFXMLParser) startProperty(qName, iri string, attrs Attributes, parent, frame *rdfxmlFrame) error {
	if forbiddenPropertyNames[iri] {
		return p.schemaError("%s is not allowed here", qName)
	}
	if !IsIRI(iri) {
		return p.schemaError("invalid property IRI %q", iri)
	}
	resource, hasResource := attrs.GetNS(RDFNS, "resource")
	nodeID, hasNodeID := attrs.GetNS(RDFNS, "nodeID")
	parseType, hasParseType := attrs.GetNS(RDFNS, "parseType")
	if hasResource && hasNodeID {
		return p.schemaError("both rdf:resource and rdf:nodeID are present")
	}
	if hasParseType && !validParseTypeAttrs(attrs) {
		return p.schemaError("rdf:parseType conflicts with other attributes")
	}

	frame.property = true
	frame.subject = parent.childSubject()
	frame.predicate = iri
	if iri == RDFNS+"li" {
		frame.predicate = RDFNS + "_" + strconv.Itoa(parent.liIndex)
		parent.liIndex++
	}
	if id, ok := attrs.GetNS(RDFNS, "ID"); ok {
		reify, err := p.resolveID(frame.base, id)
		if err != nil {
			return err
		}
		frame.reify = reify
	}
	if datatype, ok := attrs.GetNS(RDFNS, "datatype"); ok {
		resolved, err := ResolveIRI(frame.base, datatype)
		if err != nil {
			return err
		}
		frame.datatype = resolved
	}

	if hasParseType {
		switch parseType {
		case "Resource":
			node := p.doc.CreateBnode()
			frame.hasObject = true
			p.emitNonLiteral(frame, node)
			frame.resource = node
			frame.liIndex = 1
			frame.mode = expectProperty
		case "Collection":
			frame.mode = expectCollection
		default:
			frame.literal = &strings.Builder{}
			frame.mode = captureXML
		}
		return nil
	}

	var object string
	switch {
	case hasResource:
		iri, err := ResolveIRI(frame.base, resource)
		if err != nil {
			return err
		}
		object = iri
	case hasNodeID:
		if !isNCName(nodeID) {
			return p.schemaError("invalid rdf:nodeID %q", nodeID)
		}
		object = p.doc.BnodeFor(nodeID)
	}

	var propAttrs []Attribute
	for _, attr := range attrs {
		name := attr.Space + attr.Local
		if attr.Space == XMLNS || name == RDFNS+"ID" || name == RDFNS+"resource" ||
			name == RDFNS+"nodeID" || name == RDFNS+"datatype" {
			continue
		}
		propAttrs = append(propAttrs, attr)
	}
	if object == "" && len(propAttrs) > 0 {
		object = p.doc.CreateBnode()
	}
	if object != "" {
		frame.hasObject = true
		p.emitNonLiteral(frame, object)
		for _, attr := range propAttrs {
			if err := p.propertyAttr(qName, object, attr, frame); err != nil {
				return err
			}
		}
	} else {
		frame.text = &strings.Builder{}
	}
	frame.mode = expectNode
	return nil
}

// validParseTypeAttrs reports whether rdf:parseType is only combined with
// rdf:ID and xml:* attributes.
func validParseTypeAttrs(attrs Attributes) bool {
	for _, attr := range attrs {
		name := attr.Space + attr.Local
		if attr.Space == XMLNS || name == RDFNS+"parseType" || name == RDFNS+"ID" {
			continue
		}
		return false
	}
	return true
}

func (p *RDFXMLParser) EndElement(space, local, qName string) error {
	frame := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	if len(p.stack) == 0 {
		return nil
	}
	if frame.mode == captureXML && !frame.property {
		frame.literal.WriteString("</" + qName + ">")
		return nil
	}
	if !frame.property {
		return nil
	}

	subject := frame.subject
	switch {
	case frame.literal != nil:
		p.emitLiteral(subject, frame, frame.literal.String(), "", RDFXMLLiteral)
	case frame.mode == expectCollection:
		p.emitCollection(frame)
	case frame.text != nil && !frame.hasObject:
		if frame.datatype != "" {
			p.emitLiteral(subject, frame, frame.text.String(), "", frame.datatype)
		} else {
			p.emitLiteral(subject, frame, frame.text.String(), frame.lang, "")
		}
	}
	return nil
}

// emitCollection writes the rdf:first/rdf:rest chain of a parseType="Collection".
func (p *RDFXMLParser) emitCollection(frame *rdfxmlFrame) {
	if len(frame.members) == 0 {
		p.emitNonLiteral(frame, RDFNil)
		return
	}
	head := p.doc.CreateBnode()
	p.emitNonLiteral(frame, head)
	node := head
	for i, member := range frame.members {
		p.sink.AddNonLiteral(node, RDFFirst, member)
		next := RDFNil
		if i < len(frame.members)-1 {
			next = p.doc.CreateBnode()
		}
		p.sink.AddNonLiteral(node, RDFRest, next)
		node = next
	}
}

// emitNonLiteral writes (subject, predicate, object) of a property frame and
// its reification.
func (p *RDFXMLParser) emitNonLiteral(frame *rdfxmlFrame, object string) {
	subject := frame.subject
	p.sink.AddNonLiteral(subject, frame.predicate, object)
	if frame.reify != "" {
		p.reify(frame.reify, subject, frame.predicate)
		p.sink.AddNonLiteral(frame.reify, RDFObject, object)
		frame.reify = ""
	}
}

func (p *RDFXMLParser) emitLiteral(subject string, frame *rdfxmlFrame, value, lang, datatype string) {
	add := func(s, pred string) {
		if datatype != "" {
			p.sink.AddTypedLiteral(s, pred, value, datatype)
		} else {
			p.sink.AddPlainLiteral(s, pred, value, lang)
		}
	}
	add(subject, frame.predicate)
	if frame.reify != "" {
		p.reify(frame.reify, subject, frame.predicate)
		add(frame.reify, RDFObject)
		frame.reify = ""
	}
}

func (p *RDFXMLParser) reify(node, subject, predicate string) {
	p.sink.AddNonLiteral(node, RDFType, RDFStatement)
	p.sink.AddNonLiteral(node, RDFSubject, subject)
	p.sink.AddNonLiteral(node, RDFPredicate, predicate)
}

func (p *RDFXMLParser) Characters(text string) error {
	if len(p.stack) == 0 {
		return nil
	}
	frame := p.top()
	switch {
	case frame.literal != nil:
		xmlTextEscaper.WriteString(frame.literal, text)
	case frame.text != nil:
		frame.text.WriteString(text)
	}
	return nil
}

func (p *RDFXMLParser) Comment(text string) error {
	if len(p.stack) == 0 {
		return nil
	}
	if frame := p.top(); frame.literal != nil {
		frame.literal.WriteString("<!--" + text + "-->")
	}
	return nil
}

func stripFragment(iri string) string {
	if idx := strings.IndexByte(iri, '#'); idx >= 0 {
		return iri[:idx]
	}
	return iri
}
