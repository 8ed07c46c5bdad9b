package rdf

import (
	"strings"
)

// JSON-LD keywords.
const (
	jsonldContextKey   = "@context"
	jsonldGraphKey     = "@graph"
	jsonldListKey      = "@list"
	jsonldSetKey       = "@set"
	jsonldIDKey        = "@id"
	jsonldTypeKey      = "@type"
	jsonldContainerKey = "@container"
	jsonldReverseKey   = "@reverse"
	jsonldLanguageKey  = "@language"
	jsonldValueKey     = "@value"
	jsonldVocabKey     = "@vocab"
	jsonldBaseKey      = "@base"
)

const maxTermDepth = 16

func isKeyword(value string) bool {
	return strings.HasPrefix(value, "@")
}

// jsonldState tracks the conditions a context must meet before its queued
// statements can be written.
type jsonldState uint8

const (
	idDeclared jsonldState = 1 << iota
	contextDeclared
	parentSafe

	stateSafe = idDeclared | contextDeclared | parentSafe
)

// termDefinition is one entry of a JSON-LD context. A definition with null
// set hides the term from enclosing contexts.
type termDefinition struct {
	iri       string
	null      bool
	typ       string
	lang      string
	hasLang   bool
	container string
	reverse   bool
}

type objectMode uint8

const (
	objResolved objectMode = iota // blank node or rdf:nil
	objNode                       // subject of a nested node object
	objVocab                      // vocabulary relative reference (@type values)
	objDocument                   // document relative reference (@id values)
)

type statementKind uint8

const (
	nonLiteralStatement statementKind = iota
	plainLiteralStatement
	typedLiteralStatement
)

// jsonldStatement is a queued statement. An empty subject stands for the
// subject of the owning context and an empty predicate for the expansion of
// key; both are resolved when the queue is flushed.
type jsonldStatement struct {
	kind      statementKind
	subject   string
	key       string
	predicate string
	object    string
	node      *jsonldContext
	mode      objectMode
	coerce    bool // value is coerced through the term definition of key
	lang      string
	datatype  string
	reverse   bool
}

// jsonldContext is the evaluation context of one JSON object. Contexts form a
// tree that mirrors the document; a context leaves its parent's children
// once its queue is flushed.
type jsonldContext struct {
	doc      *DocumentContext
	out      jsonldEmitter
	parent   *jsonldContext
	children []*jsonldContext
	state    jsonldState

	subject    string
	subjectRaw bool // subject holds an unresolved @id value
	resolved   string
	resolveErr error
	isResolved bool

	// graphOwner names the graph of this node through its subject;
	// nil is the default graph.
	graphOwner *jsonldContext
	// hasEntries is set once the object has a key other than @context
	// and @graph.
	hasEntries bool

	terms       map[string]*termDefinition
	vocab       string
	hasVocab    bool
	defaultLang string
	hasLang     bool
	base        string
	hasBase     bool
	nullified   bool

	// value objects
	objectLit   string
	hasValue    bool
	nullValue   bool
	objectLitDt string
	numberDt    string
	lang        string

	// list objects
	listKey  string
	listTail string
	isList   bool

	nonLiteralQueue   []jsonldStatement
	plainLiteralQueue []jsonldStatement
	typedLiteralQueue []jsonldStatement
}

func newJSONLDDocumentContext(doc *DocumentContext, out jsonldEmitter) *jsonldContext {
	return &jsonldContext{
		doc:     doc,
		out:     out,
		subject: doc.Base,
		state:   stateSafe,
		terms:   make(map[string]*termDefinition),
	}
}

// newChild creates the context of a nested node object. Children of a safe
// context start parent-safe.
func (c *jsonldContext) newChild() *jsonldContext {
	child := &jsonldContext{
		doc:        c.doc,
		out:        c.out,
		parent:     c,
		subject:    c.doc.CreateBnode(),
		graphOwner: c.graphOwner,
		terms:      make(map[string]*termDefinition),
	}
	if c.state == stateSafe {
		child.state = parentSafe
	}
	c.children = append(c.children, child)
	return child
}

// nullify drops local definitions and stops lookups from reaching the
// enclosing contexts.
func (c *jsonldContext) nullify() {
	c.terms = make(map[string]*termDefinition)
	c.vocab, c.hasVocab = "", false
	c.defaultLang, c.hasLang = "", false
	c.nullified = true
}

func (c *jsonldContext) define(term string) *termDefinition {
	def, ok := c.terms[term]
	if !ok {
		def = &termDefinition{}
		c.terms[term] = def
	}
	return def
}

// termDefinition returns the closest definition of term, or nil.
func (c *jsonldContext) termDefinition(term string) *termDefinition {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if def, ok := ctx.terms[term]; ok {
			if def.null {
				return nil
			}
			return def
		}
		if ctx.nullified {
			return nil
		}
	}
	return nil
}

func (c *jsonldContext) vocabMapping() (string, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.hasVocab {
			return ctx.vocab, ctx.vocab != ""
		}
		if ctx.nullified {
			break
		}
	}
	return "", false
}

func (c *jsonldContext) langMapping(term string) string {
	if def := c.termDefinition(term); def != nil && def.hasLang {
		return def.lang
	}
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.hasLang {
			return ctx.defaultLang
		}
		if ctx.nullified {
			break
		}
	}
	return ""
}

func (c *jsonldContext) baseIRI() string {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.hasBase {
			return ctx.base
		}
	}
	return c.doc.Base
}

// keyword returns the keyword key is an alias of, if any.
func (c *jsonldContext) keyword(key string) string {
	if isKeyword(key) {
		return key
	}
	if def := c.termDefinition(key); def != nil && isKeyword(def.iri) {
		return def.iri
	}
	return ""
}

func (c *jsonldContext) isListContainer(key string) bool {
	def := c.termDefinition(key)
	return def != nil && def.container == jsonldListKey
}

// expandIRI expands a term, compact IRI, blank node label or IRI reference.
// vocabRelative permits terms and @vocab, documentRelative resolution against
// the base.
func (c *jsonldContext) expandIRI(value string, vocabRelative, documentRelative bool) (string, error) {
	return c.expand(value, vocabRelative, documentRelative, 0)
}

func (c *jsonldContext) expand(value string, vocabRelative, documentRelative bool, depth int) (string, error) {
	if depth > maxTermDepth || value == "" || isKeyword(value) {
		return "", malformedIRI(value)
	}
	if vocabRelative {
		if def := c.termDefinition(value); def != nil && def.iri != "" && def.iri != value {
			return c.expand(def.iri, true, false, depth+1)
		}
	}
	if idx := strings.IndexByte(value, ':'); idx >= 0 {
		prefix, suffix := value[:idx], value[idx+1:]
		if prefix == "_" {
			return c.doc.BnodeFor(suffix), nil
		}
		if !strings.HasPrefix(suffix, "//") {
			if def := c.termDefinition(prefix); def != nil && def.iri != "" {
				ns, err := c.expand(def.iri, true, false, depth+1)
				if err == nil {
					return ns + suffix, nil
				}
			}
		}
		if IsIRI(value) || IsURN(value) {
			return value, nil
		}
	}
	if vocabRelative {
		if vocab, ok := c.vocabMapping(); ok {
			return vocab + value, nil
		}
	}
	if documentRelative {
		return ResolveIRI(c.baseIRI(), value)
	}
	return "", malformedIRI(value)
}

// resolveSubject resolves the subject once; later calls return the cached
// result.
func (c *jsonldContext) resolveSubject() (string, error) {
	if c.isResolved {
		return c.resolved, c.resolveErr
	}
	c.isResolved = true
	if !c.subjectRaw {
		c.resolved = c.subject
		return c.resolved, nil
	}
	c.resolved, c.resolveErr = c.expandIRI(c.subject, false, true)
	return c.resolved, c.resolveErr
}

func (c *jsonldContext) resolveGraph() (string, error) {
	if c.graphOwner == nil {
		return "", nil
	}
	graph, err := c.graphOwner.resolveSubject()
	if err != nil {
		return "", err
	}
	if isBnode(graph) && c.graphOwner.bareGraph() {
		return "", nil
	}
	return graph, nil
}

// bareGraph reports whether c is a top-level object holding nothing but
// @graph and @context. Its nodes belong to the default graph.
func (c *jsonldContext) bareGraph() bool {
	return !c.subjectRaw && !c.hasEntries && c.parent != nil && c.parent.parent == nil
}

func (c *jsonldContext) addNonLiteral(st jsonldStatement) {
	st.kind = nonLiteralStatement
	c.nonLiteralQueue = append(c.nonLiteralQueue, st)
	c.tryFlush()
}

func (c *jsonldContext) addPlainLiteral(st jsonldStatement) {
	st.kind = plainLiteralStatement
	c.plainLiteralQueue = append(c.plainLiteralQueue, st)
	c.tryFlush()
}

func (c *jsonldContext) addTypedLiteral(st jsonldStatement) {
	st.kind = typedLiteralStatement
	c.typedLiteralQueue = append(c.typedLiteralQueue, st)
	c.tryFlush()
}

// addListMember appends a member to the list this context heads.
func (c *jsonldContext) addListMember(st jsonldStatement, enqueue func(*jsonldContext, jsonldStatement)) {
	if c.listTail == "" {
		c.listTail = c.subject
	} else {
		next := c.doc.CreateBnode()
		c.addNonLiteral(jsonldStatement{subject: c.listTail, predicate: RDFRest, object: next})
		c.listTail = next
	}
	st.subject = c.listTail
	st.predicate = RDFFirst
	enqueue(c, st)
}

// closeList terminates the list; an empty list is rdf:nil itself.
func (c *jsonldContext) closeList() {
	if c.listTail == "" {
		c.subject = RDFNil
		return
	}
	c.addNonLiteral(jsonldStatement{subject: c.listTail, predicate: RDFRest, object: RDFNil})
}

// updateState sets state bits. A context that becomes safe makes its
// children parent-safe and flushes when it has no children left.
func (c *jsonldContext) updateState(bits jsonldState) {
	wasSafe := c.state == stateSafe
	c.state |= bits
	if c.state != stateSafe {
		return
	}
	if !wasSafe {
		for _, child := range append([]*jsonldContext(nil), c.children...) {
			child.updateState(parentSafe)
		}
	}
	c.tryFlush()
}

func (c *jsonldContext) detach() {
	if c.parent == nil {
		return
	}
	siblings := c.parent.children
	for i, child := range siblings {
		if child == c {
			c.parent.children = append(siblings[:i], siblings[i+1:]...)
			c.parent.tryFlush()
			return
		}
	}
}

// jsonldEmitter receives flushed statements.
type jsonldEmitter interface {
	emit(c *jsonldContext, graph, subject string, st jsonldStatement)
}

func (c *jsonldContext) tryFlush() {
	if c.state != stateSafe || len(c.children) > 0 || c.parent == nil {
		return
	}
	if len(c.nonLiteralQueue)+len(c.plainLiteralQueue)+len(c.typedLiteralQueue) > 0 {
		c.flush()
	}
	c.detach()
}

func (c *jsonldContext) flush() {
	nonLiteral, plain, typed := c.nonLiteralQueue, c.plainLiteralQueue, c.typedLiteralQueue
	c.nonLiteralQueue, c.plainLiteralQueue, c.typedLiteralQueue = nil, nil, nil

	subject, err := c.resolveSubject()
	if err != nil {
		jsonldLog.Debug("dropping statements of unresolvable subject", "subject", c.subject, "error", err)
		return
	}
	graph, err := c.resolveGraph()
	if err != nil {
		jsonldLog.Debug("dropping statements of unresolvable graph", "subject", subject, "error", err)
		return
	}
	for _, queue := range [][]jsonldStatement{nonLiteral, plain, typed} {
		for _, st := range queue {
			s := subject
			if st.subject != "" {
				s = st.subject
			}
			c.out.emit(c, graph, s, st)
		}
	}
}
