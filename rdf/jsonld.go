package rdf

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

const maxRemoteContexts = 8

type jsonldFrameKind uint8

const (
	frameDocument jsonldFrameKind = iota
	frameNode
	frameContext // a local context object
	frameTermDef // an expanded term definition inside a local context
	frameReverse // the object of a @reverse key
	frameIgnore
)

// jsonldFrame is one open JSON object.
type jsonldFrame struct {
	kind   jsonldFrameKind
	ctx    *jsonldContext
	term   string
	key    string
	arrays int

	// synthetic frames are list objects standing in for the value of a
	// property with a @list container
	synthetic bool
	single    bool

	// set is the context of a @set object whose members were handed to the
	// enclosing property; ctx and key are the enclosing ones.
	set *jsonldContext
}

// JSONLDParser is a JSONHandler that turns a JSON-LD document into
// statements. Statements are queued per node until the node's subject, its
// local context and all enclosing contexts are known, so key order in the
// source does not matter.
//
// A JSONLDParser processes one document at a time.
type JSONLDParser struct {
	sink   QuadSink
	opts   Options
	doc    *DocumentContext
	origin string

	root        *jsonldContext
	stack       []*jsonldFrame
	remoteDepth int
}

// NewJSONLDParser creates a JSON-LD processor writing to sink. Named graphs
// are reported when sink is a QuadSink and dropped otherwise.
func NewJSONLDParser(sink TripleSink, base string, opts ...Option) *JSONLDParser {
	options := newOptions(opts)
	return &JSONLDParser{
		sink:   AsQuadSink(sink),
		opts:   options,
		doc:    NewDocumentContext(base, options.RDFaVersion),
		origin: base,
	}
}

// SetBase sets the document IRI for the next document.
func (p *JSONLDParser) SetBase(base string) {
	p.origin = base
	p.doc.Base = base
}

// Document exposes the document context of the current document.
func (p *JSONLDParser) Document() *DocumentContext {
	return p.doc
}

func (p *JSONLDParser) StartDocument() error {
	p.doc.Base = p.origin
	p.doc.Clear()
	p.root = newJSONLDDocumentContext(p.doc, p)
	p.stack = []*jsonldFrame{{kind: frameDocument, ctx: p.root}}
	p.remoteDepth = 0
	return p.sink.StartStream()
}

func (p *JSONLDParser) EndDocument() error {
	p.reset()
	return p.sink.EndStream()
}

// FatalError drops every queued statement and closes the sink stream.
func (p *JSONLDParser) FatalError(err error) {
	jsonldLog.Error("aborting document", "error", err)
	p.reset()
	if endErr := p.sink.EndStream(); endErr != nil {
		jsonldLog.Error("closing sink after fatal error", "error", endErr)
	}
}

func (p *JSONLDParser) reset() {
	p.doc.Clear()
	p.root = nil
	p.stack = nil
}

func (p *JSONLDParser) top() *jsonldFrame {
	return p.stack[len(p.stack)-1]
}

func (p *JSONLDParser) push(f *jsonldFrame) {
	p.stack = append(p.stack, f)
}

func (p *JSONLDParser) pop() *jsonldFrame {
	f := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	return f
}

func (p *JSONLDParser) OnObjectStart() error {
	f := p.top()
	switch f.kind {
	case frameContext:
		f.ctx.terms[f.key] = &termDefinition{}
		p.push(&jsonldFrame{kind: frameTermDef, ctx: f.ctx, term: f.key})
	case frameTermDef, frameIgnore:
		p.push(&jsonldFrame{kind: frameIgnore})
	case frameDocument, frameReverse:
		p.startNode(f)
	case frameNode:
		switch {
		case f.key == jsonldContextKey:
			p.push(&jsonldFrame{kind: frameContext, ctx: f.ctx})
		case f.key == jsonldReverseKey:
			p.push(&jsonldFrame{kind: frameReverse, ctx: f.ctx})
		case f.key == jsonldGraphKey, f.key == jsonldListKey:
			p.startNode(f)
		case isKeyword(f.key) || f.key == "":
			p.push(&jsonldFrame{kind: frameIgnore})
		case f.arrays == 0 && f.ctx.isListContainer(f.key):
			p.startNode(p.startList(f, true))
		default:
			p.startNode(f)
		}
	}
	return nil
}

func (p *JSONLDParser) startNode(parent *jsonldFrame) {
	child := parent.ctx.newChild()
	if parent.kind == frameNode && parent.key == jsonldGraphKey {
		child.graphOwner = parent.ctx
	}
	p.push(&jsonldFrame{kind: frameNode, ctx: child})
}

// startList opens a list object for the value of a @list container property.
func (p *JSONLDParser) startList(parent *jsonldFrame, single bool) *jsonldFrame {
	list := parent.ctx.newChild()
	list.isList = true
	list.listKey = parent.key
	f := &jsonldFrame{kind: frameNode, ctx: list, key: jsonldListKey, synthetic: true, single: single}
	if !single {
		f.arrays = 1
	}
	p.push(f)
	return f
}

func (p *JSONLDParser) OnObjectEnd() error {
	f := p.pop()
	switch f.kind {
	case frameContext:
		if p.top().arrays == 0 {
			f.ctx.updateState(contextDeclared)
		}
	case frameNode:
		if f.set != nil {
			f.set.updateState(stateSafe)
		} else {
			p.endNode(f)
		}
		if t := p.top(); t.synthetic && t.single {
			p.pop()
			p.endNode(t)
		}
	}
	return nil
}

// endNode completes a closed node, value or list object and links it to
// the enclosing object.
func (p *JSONLDParser) endNode(f *jsonldFrame) {
	c := f.ctx
	parent := p.top()
	switch {
	case c.hasValue:
		if !c.nullValue {
			p.addValue(parent, c)
		}
		c.updateState(stateSafe)
		return
	case c.isList:
		c.closeList()
	case c.objectLitDt != "":
		c.addNonLiteral(jsonldStatement{predicate: RDFType, object: c.objectLitDt, mode: objVocab})
	}

	ref := jsonldStatement{node: c, mode: objNode}
	switch {
	case parent.kind == frameReverse && !isKeyword(parent.key):
		ref.key = parent.key
		ref.reverse = true
		parent.ctx.addNonLiteral(ref)
	case parent.kind != frameNode:
	case parent.key == jsonldListKey && parent.ctx.isList:
		parent.ctx.addListMember(ref, (*jsonldContext).addNonLiteral)
	case !isKeyword(parent.key):
		ref.key = parent.key
		parent.ctx.addNonLiteral(ref)
	}
	c.updateState(idDeclared | contextDeclared)
}

// addValue adds the literal of a value object to the enclosing object.
func (p *JSONLDParser) addValue(parent *jsonldFrame, c *jsonldContext) {
	st := jsonldStatement{object: c.objectLit, lang: c.lang}
	enqueue := (*jsonldContext).addPlainLiteral
	if c.objectLitDt != "" || c.numberDt != "" {
		st.datatype = c.numberDt
		if c.objectLitDt != "" {
			st.datatype = c.objectLitDt
		}
		st.lang = ""
		enqueue = (*jsonldContext).addTypedLiteral
	}
	if parent.kind != frameNode {
		return
	}
	switch {
	case parent.key == jsonldListKey && parent.ctx.isList:
		parent.ctx.addListMember(st, enqueue)
	case !isKeyword(parent.key):
		st.key = parent.key
		enqueue(parent.ctx, st)
	}
}

func (p *JSONLDParser) OnArrayStart() error {
	f := p.top()
	if f.kind == frameNode && f.arrays == 0 && !isKeyword(f.key) && f.key != "" && f.ctx.isListContainer(f.key) {
		p.startList(f, false)
		return nil
	}
	f.arrays++
	return nil
}

func (p *JSONLDParser) OnArrayEnd() error {
	f := p.top()
	f.arrays--
	if f.arrays > 0 {
		return nil
	}
	switch {
	case f.synthetic:
		p.pop()
		p.endNode(f)
	case f.kind == frameNode && f.key == jsonldContextKey:
		f.ctx.updateState(contextDeclared)
	}
	return nil
}

func (p *JSONLDParser) OnKey(key string) error {
	f := p.top()
	f.arrays = 0
	if f.kind != frameNode {
		f.key = key
		return nil
	}
	if f.set != nil {
		f.key = ""
		return nil
	}
	if keyword := f.ctx.keyword(key); keyword != "" {
		key = keyword
	}
	f.key = key
	if key != jsonldContextKey && key != jsonldGraphKey {
		f.ctx.hasEntries = true
	}
	if key == jsonldSetKey && len(p.stack) > 1 {
		p.unwrapSet(f, p.stack[len(p.stack)-2])
		return nil
	}
	if key == jsonldListKey && len(p.stack) > 1 {
		f.ctx.isList = true
		f.ctx.listKey = p.stack[len(p.stack)-2].key
	}
	return nil
}

// unwrapSet makes the members of a @set object values of the property
// holding the object, as if they had been written as a plain array.
func (p *JSONLDParser) unwrapSet(f, holder *jsonldFrame) {
	if holder.kind != frameNode {
		return
	}
	switch {
	case holder.key == jsonldGraphKey:
	case holder.key == jsonldListKey && holder.ctx.isList:
	case isKeyword(holder.key) || holder.key == "":
		return
	}
	f.set = f.ctx
	f.ctx, f.key = holder.ctx, holder.key
}

func (p *JSONLDParser) OnString(value string) error {
	f := p.top()
	switch f.kind {
	case frameContext:
		p.defineContextEntry(f.ctx, f.key, value)
	case frameTermDef:
		defineTermEntry(f.ctx.define(f.term), f.key, value)
	case frameReverse:
		if !isKeyword(f.key) {
			f.ctx.addNonLiteral(jsonldStatement{key: f.key, object: value, mode: objDocument, reverse: true})
		}
	case frameNode:
		p.nodeString(f, value)
	}
	return nil
}

func (p *JSONLDParser) nodeString(f *jsonldFrame, value string) {
	c := f.ctx
	switch f.key {
	case jsonldContextKey:
		p.loadRemoteContext(f, value)
	case jsonldIDKey:
		c.subject = value
		c.subjectRaw = true
		c.isResolved = false
		c.updateState(idDeclared)
	case jsonldTypeKey:
		if f.arrays > 0 {
			c.addNonLiteral(jsonldStatement{predicate: RDFType, object: value, mode: objVocab})
		} else {
			c.objectLitDt = value
		}
	case jsonldValueKey:
		c.objectLit = value
		c.hasValue = true
	case jsonldLanguageKey:
		c.lang = strings.ToLower(value)
	case jsonldListKey:
		if c.isList {
			c.addListMember(jsonldStatement{key: c.listKey, object: value, coerce: true}, (*jsonldContext).addPlainLiteral)
		}
	default:
		if isKeyword(f.key) || f.key == "" {
			return
		}
		p.addScalar(f, jsonldStatement{key: f.key, object: value, coerce: true}, (*jsonldContext).addPlainLiteral)
	}
}

// addScalar adds a property value, wrapping it in a list of one when the
// property has a @list container.
func (p *JSONLDParser) addScalar(f *jsonldFrame, st jsonldStatement, enqueue func(*jsonldContext, jsonldStatement)) {
	if f.arrays == 0 && f.ctx.isListContainer(f.key) {
		list := p.startList(f, true)
		list.ctx.addListMember(st, enqueue)
		p.pop()
		p.endNode(list)
		return
	}
	enqueue(f.ctx, st)
}

func (p *JSONLDParser) defineContextEntry(c *jsonldContext, key, value string) {
	switch key {
	case jsonldVocabKey:
		c.hasVocab = true
		c.vocab = ""
		if value == "" {
			return
		}
		vocab, err := c.expandIRI(value, false, true)
		if err != nil {
			jsonldLog.Warning("ignoring @vocab", "value", value, "error", err)
			return
		}
		c.vocab = vocab
	case jsonldLanguageKey:
		c.defaultLang = strings.ToLower(value)
		c.hasLang = true
	case jsonldBaseKey:
		base, err := ResolveIRI(c.baseIRI(), value)
		if err != nil {
			jsonldLog.Warning("ignoring @base", "value", value, "error", err)
			return
		}
		c.base, c.hasBase = base, true
	default:
		if !isKeyword(key) {
			c.terms[key] = &termDefinition{iri: value}
		}
	}
}

func defineTermEntry(def *termDefinition, key, value string) {
	switch key {
	case jsonldIDKey:
		def.iri = value
	case jsonldTypeKey:
		def.typ = value
	case jsonldLanguageKey:
		def.lang = strings.ToLower(value)
		def.hasLang = true
	case jsonldContainerKey:
		def.container = value
	case jsonldReverseKey:
		def.iri = value
		def.reverse = true
	}
}

func (p *JSONLDParser) OnNumber(lexical string) error {
	lex, datatype := jsonNumber(lexical)
	p.onTyped(lex, datatype)
	return nil
}

func (p *JSONLDParser) OnBoolean(value bool) error {
	p.onTyped(strconv.FormatBool(value), XSDBoolean)
	return nil
}

func (p *JSONLDParser) onTyped(lex, datatype string) {
	f := p.top()
	if f.kind != frameNode {
		return
	}
	c := f.ctx
	switch f.key {
	case jsonldValueKey:
		c.objectLit, c.numberDt, c.hasValue = lex, datatype, true
	case jsonldListKey:
		if c.isList {
			c.addListMember(jsonldStatement{key: c.listKey, object: lex, datatype: datatype, coerce: true}, (*jsonldContext).addTypedLiteral)
		}
	default:
		if isKeyword(f.key) || f.key == "" {
			return
		}
		p.addScalar(f, jsonldStatement{key: f.key, object: lex, datatype: datatype, coerce: true}, (*jsonldContext).addTypedLiteral)
	}
}

func (p *JSONLDParser) OnNull() error {
	f := p.top()
	switch f.kind {
	case frameContext:
		switch f.key {
		case jsonldVocabKey:
			f.ctx.vocab, f.ctx.hasVocab = "", true
		case jsonldLanguageKey:
			f.ctx.defaultLang, f.ctx.hasLang = "", true
		default:
			if !isKeyword(f.key) {
				f.ctx.terms[f.key] = &termDefinition{null: true}
			}
		}
	case frameTermDef:
		def := f.ctx.define(f.term)
		switch f.key {
		case jsonldIDKey:
			def.null = true
		case jsonldLanguageKey:
			def.lang, def.hasLang = "", true
		}
	case frameNode:
		switch f.key {
		case jsonldContextKey:
			f.ctx.nullify()
			if f.arrays == 0 {
				f.ctx.updateState(contextDeclared)
			}
		case jsonldValueKey:
			f.ctx.hasValue, f.ctx.nullValue = true, true
		}
	}
	return nil
}

// loadRemoteContext fetches a context by IRI and replays it as if it were
// written inline.
func (p *JSONLDParser) loadRemoteContext(f *jsonldFrame, ref string) {
	defer func() {
		if f.arrays == 0 {
			f.ctx.updateState(contextDeclared)
		}
	}()
	if p.opts.DocumentLoader == nil {
		jsonldLog.Warning("remote context ignored, no document loader", "context", ref)
		return
	}
	if p.remoteDepth >= maxRemoteContexts {
		jsonldLog.Warning("remote context ignored, too deeply nested", "context", ref)
		return
	}
	url, err := ResolveIRI(f.ctx.baseIRI(), ref)
	if err != nil {
		jsonldLog.Warning("remote context ignored", "context", ref, "error", err)
		return
	}
	remote, err := p.opts.DocumentLoader.LoadDocument(url)
	if err != nil {
		jsonldLog.Warning("loading remote context failed", "context", url, "error", err)
		return
	}
	doc, ok := remote.Document.(map[string]interface{})
	if !ok {
		jsonldLog.Warning("remote context is not a JSON object", "context", url)
		return
	}
	local, ok := doc[jsonldContextKey]
	if !ok {
		jsonldLog.Warning("remote document has no @context", "context", url)
		return
	}
	jsonldLog.Debug("applying remote context", "context", url)
	p.remoteDepth++
	p.replay(local)
	p.remoteDepth--
}

// replay feeds a decoded JSON value back through the handler. Object keys
// are visited in lexical order.
func (p *JSONLDParser) replay(value interface{}) {
	switch v := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		_ = p.OnObjectStart()
		for _, key := range keys {
			_ = p.OnKey(key)
			p.replay(v[key])
		}
		_ = p.OnObjectEnd()
	case []interface{}:
		_ = p.OnArrayStart()
		for _, item := range v {
			p.replay(item)
		}
		_ = p.OnArrayEnd()
	case string:
		_ = p.OnString(v)
	case bool:
		_ = p.OnBoolean(v)
	case float64:
		_ = p.OnNumber(strconv.FormatFloat(v, 'f', -1, 64))
	case json.Number:
		_ = p.OnNumber(v.String())
	case nil:
		_ = p.OnNull()
	}
}

// emit writes a flushed statement, applying term coercion, reverse
// properties and vocabulary expansion.
func (p *JSONLDParser) emit(c *jsonldContext, graph, subject string, st jsonldStatement) {
	if !p.opts.EnableOutputGraph {
		return
	}
	var def *termDefinition
	if st.key != "" {
		def = c.termDefinition(st.key)
	}
	predicate := st.predicate
	if predicate == "" {
		iri, err := c.expandIRI(st.key, true, false)
		if err != nil || isBnode(iri) {
			jsonldLog.Debug("dropping statement with unresolvable property", "property", st.key)
			return
		}
		predicate = iri
	}
	reverse := st.reverse || (def != nil && def.reverse)

	switch st.kind {
	case nonLiteralStatement:
		object, err := p.resolveObject(c, st)
		if err != nil {
			jsonldLog.Debug("dropping statement with unresolvable object", "object", st.object, "error", err)
			return
		}
		p.addNonLiteral(subject, predicate, object, graph, reverse)
	case plainLiteralStatement:
		if reverse {
			return
		}
		if !st.coerce {
			p.sink.AddPlainLiteralQuad(subject, predicate, st.object, st.lang, graph)
			return
		}
		if def != nil {
			switch def.typ {
			case jsonldIDKey, jsonldVocabKey:
				object, err := c.expandIRI(st.object, def.typ == jsonldVocabKey, true)
				if err != nil {
					return
				}
				p.addNonLiteral(subject, predicate, object, graph, false)
				return
			case "":
			default:
				p.addTypedLiteral(c, subject, predicate, st.object, def.typ, graph)
				return
			}
		}
		p.sink.AddPlainLiteralQuad(subject, predicate, st.object, c.langMapping(st.key), graph)
	case typedLiteralStatement:
		if reverse {
			return
		}
		datatype := st.datatype
		if st.coerce && def != nil && def.typ != "" && !isKeyword(def.typ) {
			datatype = def.typ
		}
		p.addTypedLiteral(c, subject, predicate, st.object, datatype, graph)
	}
}

func (p *JSONLDParser) resolveObject(c *jsonldContext, st jsonldStatement) (string, error) {
	switch st.mode {
	case objNode:
		return st.node.resolveSubject()
	case objVocab:
		return c.expandIRI(st.object, true, true)
	case objDocument:
		return c.expandIRI(st.object, false, true)
	}
	return st.object, nil
}

func (p *JSONLDParser) addNonLiteral(subject, predicate, object, graph string, reverse bool) {
	if reverse {
		subject, object = object, subject
	}
	p.sink.AddNonLiteralQuad(subject, predicate, object, graph)
}

func (p *JSONLDParser) addTypedLiteral(c *jsonldContext, subject, predicate, content, datatype, graph string) {
	iri, err := c.expandIRI(datatype, true, false)
	if err != nil || isBnode(iri) {
		jsonldLog.Debug("dropping literal with unresolvable datatype", "datatype", datatype)
		return
	}
	p.sink.AddTypedLiteralQuad(subject, predicate, content, iri, graph)
}

// jsonNumber maps a JSON number to its RDF form. Numbers without a
// fractional part and below 1e21 in magnitude are xsd:integer, whatever
// their notation; the rest become canonical xsd:double.
func jsonNumber(lexical string) (string, string) {
	if !strings.ContainsAny(lexical, ".eE") {
		return lexical, XSDInteger
	}
	f, err := strconv.ParseFloat(lexical, 64)
	if err != nil {
		return lexical, XSDDouble
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		if f == 0 {
			f = 0 // drop the sign of -0
		}
		return strconv.FormatFloat(f, 'f', 0, 64), XSDInteger
	}
	return canonicalDouble(f), XSDDouble
}

func canonicalDouble(f float64) string {
	s := strconv.FormatFloat(f, 'E', -1, 64)
	idx := strings.IndexByte(s, 'E')
	mantissa, exponent := s[:idx], s[idx+1:]
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	exp, _ := strconv.Atoi(exponent)
	return mantissa + "E" + strconv.Itoa(exp)
}
