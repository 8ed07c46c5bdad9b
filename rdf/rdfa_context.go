package rdf

import (
	"regexp"
	"strings"
)

// termPattern matches RDFa terms resolved against the default vocabulary.
var termPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.\-/]*$`)

// Opaque schemes that are accepted as IRIs when they fail to resolve as CURIEs.
var opaqueSchemes = map[string]bool{
	"data": true, "geo": true, "mailto": true, "news": true, "sms": true,
	"tag": true, "tel": true, "urn": true,
}

// rdfList collects the members of one RDF list under construction.
type rdfList struct {
	items []rdfaObject
}

// listMapping maps predicates to lists. Contexts of one list scope share a
// single *listMapping, so appends through any of them are visible to all.
type listMapping struct {
	order []string
	lists map[string]*rdfList
}

func newListMapping() *listMapping {
	return &listMapping{lists: make(map[string]*rdfList)}
}

func (m *listMapping) get(predicate string) *rdfList {
	list, ok := m.lists[predicate]
	if !ok {
		list = &rdfList{}
		m.lists[predicate] = list
		m.order = append(m.order, predicate)
	}
	return list
}

// drain returns the lists in insertion order and empties the mapping.
func (m *listMapping) drain() ([]string, []*rdfList) {
	predicates := m.order
	lists := make([]*rdfList, len(predicates))
	for i, predicate := range predicates {
		lists[i] = m.lists[predicate]
	}
	m.order = nil
	m.lists = make(map[string]*rdfList)
	return predicates, lists
}

// incompleteTriple is a statement waiting for a descendant's subject.
// Exactly one of predicate or list is set.
type incompleteTriple struct {
	predicate string
	reverse   bool
	list      *rdfList
}

type incompleteTriples struct {
	entries []incompleteTriple
}

type literalKind uint8

const (
	noLiteral literalKind = iota
	plainLiteral
	typedLiteral
	xmlLiteral
)

// rdfaContext is the evaluation context of one element.
type rdfaContext struct {
	iriMappings map[string]string
	subject     string
	object      string
	incomplete  *incompleteTriples
	listMapping *listMapping
	lang        string

	// literal capture: litKind/litDatatype describe the pending literal,
	// capture collects the element's text while it is non-nil
	litKind        literalKind
	litDatatype    string
	capture        *strings.Builder
	properties     []string
	propertyInList bool
	parsingLiteral bool

	vocab *Vocabulary

	// completes holds the subject this element supplies to the parent's
	// incomplete triples; completion happens at the end tag.
	completes string
}

func newInitialContext(base string) *rdfaContext {
	return &rdfaContext{
		iriMappings: map[string]string{"": XHTMLVocab},
		subject:     base,
		incomplete:  &incompleteTriples{},
		listMapping: newListMapping(),
	}
}

// child creates the context of a child element. Prefix mappings are copied
// and overridden; the list mapping is shared until the child starts a new
// list scope.
func (c *rdfaContext) child(overrides map[string]string, lang string, hasLang bool) *rdfaContext {
	mappings := make(map[string]string, len(c.iriMappings)+len(overrides))
	for prefix, ns := range c.iriMappings {
		mappings[prefix] = ns
	}
	for prefix, ns := range overrides {
		mappings[prefix] = ns
	}
	child := &rdfaContext{
		iriMappings: mappings,
		incomplete:  &incompleteTriples{},
		listMapping: c.listMapping,
		lang:        c.lang,
		vocab:       c.vocab,
	}
	if hasLang {
		child.lang = lang
	}
	return child
}

func (c *rdfaContext) updateBase(oldBase, base string) {
	if c.object == oldBase {
		c.object = base
	}
	if c.subject == oldBase {
		c.subject = base
	}
}

func (c *rdfaContext) expand(iri string) []string {
	if c.vocab == nil {
		return nil
	}
	return c.vocab.Expand(iri)
}

// resolvePredOrDatatype resolves a @property, @rel, @rev, @typeof or
// @datatype token: an absolute IRI (1.1), a vocabulary term, an XHTML or
// POWDER term, or a CURIE.
func (c *rdfaContext) resolvePredOrDatatype(p *RDFaParser, value string) (string, error) {
	if value == "" {
		return "", malformedIRI(value)
	}
	if value == autodetectDatatype {
		return value, nil
	}
	v11 := p.doc.Version > RDFa10
	if v11 && IsAbsoluteIRI(value) {
		return value, nil
	}
	if c.vocab != nil && termPattern.MatchString(value) {
		if iri, ok := c.vocab.ResolveTerm(value); ok {
			return iri, nil
		}
	}
	if !strings.Contains(value, ":") {
		if iri, ok := ResolveXHTMLTerm(value); ok {
			return iri, nil
		}
		if v11 {
			if iri, ok := ResolvePowderTerm(value); ok {
				return iri, nil
			}
			p.warning(RDFaUnresolvedTerm, "unresolved term '"+value+"'")
		}
		return "", malformedCURIE("unresolved term", value)
	}
	iri, err := ResolveCURIE(value, c.iriMappings, v11)
	if err != nil {
		if v11 {
			p.warning(RDFaUnresolvedCURIE, "unresolved CURIE '"+value+"'")
		}
		return "", err
	}
	return p.doc.ResolveIRI(iri)
}

// resolveAboutOrResource resolves @about and @resource: a blank node, a
// (safe) CURIE, or an IRI reference against the base.
func (c *rdfaContext) resolveAboutOrResource(p *RDFaParser, value string) (string, error) {
	if bnode, ok := p.doc.ResolveBnode(value); ok {
		return bnode, nil
	}
	iri, curieErr := ResolveCURIE(value, c.iriMappings, p.doc.Version > RDFa10)
	if curieErr == nil {
		return p.doc.ResolveIRI(iri)
	}
	if isSafeCURIE(value) {
		return "", curieErr
	}
	if idx := strings.IndexByte(value, ':'); idx > 0 {
		if !IsAbsoluteIRI(value) && !IsURN(value) && !opaqueSchemes[strings.ToLower(value[:idx])] {
			return "", curieErr
		}
	}
	return p.doc.ResolveIRI(value)
}

// resolveRole resolves a @role token.
func (c *rdfaContext) resolveRole(p *RDFaParser, value string) (string, bool) {
	if IsAbsoluteIRI(value) {
		return value, true
	}
	if !strings.Contains(value, ":") {
		return ResolveXHTMLTerm(value)
	}
	iri, err := ResolveCURIE(value, c.iriMappings, true)
	if err != nil {
		return "", false
	}
	resolved, err := p.doc.ResolveIRI(iri)
	return resolved, err == nil
}
