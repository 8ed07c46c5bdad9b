package rdf

import (
	"fmt"
	"strings"
)

// Sources tried, in priority order, when looking for a subject or object.
type rdfaSource uint8

const (
	srcAbout rdfaSource = iota
	srcResource
	srcData
	srcHref
	srcSrc
	srcBaseIfRoot       // base IRI for the root element, or head/body with @typeof
	srcBaseIfHeadOrBody // base IRI for head and body (RDFa 1.0)
	srcBnodeIfTypeof    // fresh blank node when @typeof is present
	srcParentObject
)

var sourceAttr = map[rdfaSource]string{
	srcAbout:    "about",
	srcResource: "resource",
	srcData:     "data",
	srcHref:     "href",
	srcSrc:      "src",
}

// RDFaParser is a ContentHandler implementing the RDFa Core 1.0 and 1.1
// processing sequences. It keeps one evaluation context per open element and
// emits statements to a TripleSink as soon as they are complete.
//
// An RDFaParser processes one document at a time.
type RDFaParser struct {
	sink    TripleSink
	opts    Options
	doc     *DocumentContext
	origin  string
	locator Locator

	stack     []*rdfaContext
	overwrite map[string]string

	// XML literal capture, owned by the element at stack index xmlOwner
	xmlString *strings.Builder
	xmlPreds  []string
	xmlSubj   string
	xmlLang   string
	xmlOwner  int

	// RDF/XML embedded in SVG <metadata>
	rdfXML      *RDFXMLParser
	rdfXMLDepth int
}

// NewRDFaParser creates an RDFa processor writing to sink. base is the
// document IRI that relative references resolve against.
func NewRDFaParser(sink TripleSink, base string, opts ...Option) *RDFaParser {
	options := newOptions(opts)
	return &RDFaParser{
		sink:      sink,
		opts:      options,
		doc:       NewDocumentContext(base, options.RDFaVersion),
		origin:    base,
		overwrite: make(map[string]string),
	}
}

// SetBase sets the document IRI for the next document.
func (p *RDFaParser) SetBase(base string) {
	p.origin = base
	p.doc.Base = base
}

// Document exposes the document context of the current document.
func (p *RDFaParser) Document() *DocumentContext {
	return p.doc
}

func (p *RDFaParser) SetDocumentLocator(loc Locator) {
	p.locator = loc
}

func (p *RDFaParser) StartDocument() error {
	p.doc.Base = p.origin
	p.stack = []*rdfaContext{newInitialContext(p.doc.Base)}
	p.overwrite = make(map[string]string)
	p.xmlString = nil
	p.rdfXML = nil
	p.rdfXMLDepth = 0
	return p.sink.StartStream()
}

func (p *RDFaParser) EndDocument() error {
	p.reset()
	return p.sink.EndStream()
}

// FatalError records a tokenizer failure in the processor graph, drops all
// pending state and closes the sink stream.
func (p *RDFaParser) FatalError(err error) {
	p.reportError(RDFaError, err.Error())
	p.reset()
	if endErr := p.sink.EndStream(); endErr != nil {
		rdfaLog.Error("closing sink after fatal error", "error", endErr)
	}
}

func (p *RDFaParser) reset() {
	p.doc.Clear()
	p.stack = nil
	p.xmlString = nil
	p.rdfXML = nil
}

func (p *RDFaParser) StartDTD(name, publicID, systemID string) error {
	p.doc.ProcessDTD(name, publicID, systemID)
	return nil
}

func (p *RDFaParser) StartPrefixMapping(prefix, uri string) error {
	if p.rdfXML != nil {
		return p.rdfXML.StartPrefixMapping(prefix, uri)
	}
	if prefix == "" && strings.EqualFold(uri, XHTMLNS) {
		p.overwrite[prefix] = XHTMLVocab
		return nil
	}
	if iri, err := ResolveIRI(p.origin, uri); err == nil {
		p.overwrite[prefix] = iri
	}
	return nil
}

func (p *RDFaParser) Comment(string) error { return nil }

func (p *RDFaParser) top() *rdfaContext {
	return p.stack[len(p.stack)-1]
}

func (p *RDFaParser) StartElement(space, local, qName string, attrs Attributes) error {
	if p.rdfXML != nil {
		if p.doc.Format == DocumentSVG && local == "metadata" {
			p.rdfXMLDepth++
		}
		return p.rdfXML.StartElement(space, local, qName, attrs)
	}
	if p.doc.Format == DocumentSVG && local == "metadata" {
		p.rdfXML = newEmbeddedRDFXMLParser(rdfaEmitter{p}, p.doc)
		p.rdfXML.SetDocumentLocator(p.locator)
		p.rdfXMLDepth = 1
		return p.rdfXML.StartDocument()
	}

	if len(p.stack) < 4 {
		oldBase := p.doc.Base
		p.doc.DetectFormat(local, qName, attrs.Value("version"))
		xmlBase, hasXMLBase := attrs.Get("xml:base")
		href, hasHref := attrs.Get("href")
		if p.doc.DetectBase(qName, xmlBase, href, hasXMLBase, hasHref) {
			for _, ctx := range p.stack {
				ctx.updateBase(oldBase, p.doc.Base)
			}
		}
	}

	parent := p.top()
	if p.xmlString != nil {
		nested := len(p.stack) > p.xmlOwner+1
		p.xmlString.WriteString(serializeOpenTag(space, qName, parent.iriMappings, attrs, nested))
	}

	v11 := p.doc.Version > RDFa10
	if prefixes, ok := attrs.Get("prefix"); ok && v11 {
		fields := strings.Fields(prefixes)
		for i := 0; i+1 < len(fields); i += 2 {
			prefix := fields[i]
			if !strings.HasSuffix(prefix, ":") || len(prefix) == 1 {
				continue
			}
			_ = p.StartPrefixMapping(strings.ToLower(prefix[:len(prefix)-1]), fields[i+1])
		}
	}

	lang, hasLang := attrs.Get("xml:lang")
	if !hasLang {
		lang, hasLang = attrs.Get("lang")
	}
	current := parent.child(p.overwrite, lang, hasLang)
	p.overwrite = make(map[string]string)
	if v11 {
		if _, ok := attrs.Get("profile"); ok {
			p.info(RDFaWarning, "@profile is not supported and was ignored")
		}
		if vocab, ok := attrs.Get("vocab"); ok {
			if vocab == "" {
				current.vocab = nil
			} else {
				current.vocab = p.loadVocabulary(vocab)
			}
		}
	}

	_, hasProperty := attrs.Get("property")
	skipTerms := v11 && p.doc.IsHTML() && hasProperty
	rels, hasRels := relRevList(attrs, "rel", skipTerms)
	revs, hasRevs := relRevList(attrs, "rev", skipTerms)
	noRelRev := !hasRels && !hasRevs

	skip := p.findSubjectAndObject(qName, attrs, noRelRev, current, parent)

	if v11 && current.subject != "" && (current.subject != parent.object || parent.object != parent.subject) {
		current.listMapping = newListMapping()
	}

	p.processRels(attrs, rels, current)
	p.processRevs(revs, current)

	if current.object == "" && !noRelRev {
		current.object = p.doc.CreateBnode()
	}

	p.processPropertyAttr(qName, attrs, current, parent, noRelRev)

	if v11 {
		p.processRole(attrs, current)
	}

	if !skip && current.subject != "" {
		current.completes = current.subject
	}
	p.pushContext(current, parent, skip)
	return nil
}

// relRevList splits @rel or @rev. In HTML with @property, RDFa 1.1 ignores
// bare terms; the attribute counts as absent when nothing is left.
func relRevList(attrs Attributes, name string, skipTerms bool) ([]string, bool) {
	value, ok := attrs.Get(name)
	if !ok {
		return nil, false
	}
	tokens := strings.Fields(value)
	if !skipTerms {
		return tokens, true
	}
	kept := tokens[:0]
	for _, token := range tokens {
		if strings.Contains(token, ":") {
			kept = append(kept, token)
		}
	}
	return kept, len(kept) > 0
}

// findSubjectAndObject establishes the new subject and the current object
// and emits @typeof statements. It reports whether the element is skipped.
func (p *RDFaParser) findSubjectAndObject(qName string, attrs Attributes, noRelRev bool, current, parent *rdfaContext) bool {
	_, hasTypeof := attrs.Get("typeof")
	_, hasProperty := attrs.Get("property")
	var newSubject string

	if p.doc.Version > RDFa10 {
		switch {
		case noRelRev && hasProperty && !attrs.Has("content") && !attrs.Has("value") && !attrs.Has("datatype"):
			current.subject = p.coalesce(qName, attrs, current, parent, srcAbout, srcBaseIfRoot, srcParentObject)
			if hasTypeof {
				current.object = p.coalesce(qName, attrs, current, parent, srcResource, srcData, srcHref, srcSrc)
				if current.object == "" {
					if current.subject != "" {
						current.object = current.subject
					} else {
						current.object = p.doc.CreateBnode()
					}
				}
				newSubject = current.object
			}
		case noRelRev:
			current.subject = p.coalesce(qName, attrs, current, parent, srcAbout, srcResource, srcData, srcHref, srcSrc,
				srcBaseIfRoot, srcBnodeIfTypeof, srcParentObject)
			if hasTypeof {
				newSubject = current.subject
			}
		default:
			current.object = p.coalesce(qName, attrs, current, parent, srcResource, srcData, srcHref, srcSrc)
			current.subject = p.coalesce(qName, attrs, current, parent, srcAbout, srcBaseIfRoot, srcParentObject)
			if hasTypeof {
				if attrs.Has("about") {
					newSubject = current.subject
				} else {
					if current.object == "" {
						current.object = p.doc.CreateBnode()
					}
					newSubject = current.object
				}
			}
		}
	} else {
		if noRelRev {
			current.subject = p.coalesce(qName, attrs, current, parent, srcAbout, srcSrc, srcResource, srcHref,
				srcBaseIfHeadOrBody, srcBnodeIfTypeof, srcParentObject)
		} else {
			current.subject = p.coalesce(qName, attrs, current, parent, srcAbout, srcSrc,
				srcBaseIfHeadOrBody, srcBnodeIfTypeof, srcParentObject)
			current.object = p.coalesce(qName, attrs, current, parent, srcResource, srcHref)
		}
		if hasTypeof {
			newSubject = current.subject
		}
	}

	if newSubject != "" {
		for _, typ := range strings.Fields(attrs.Value("typeof")) {
			iri, err := current.resolvePredOrDatatype(p, typ)
			if err != nil {
				continue
			}
			p.addNonLiteral(newSubject, RDFType, iri)
		}
	}
	return noRelRev && current.subject == parent.object && !hasProperty
}

// coalesce returns the first value produced by sources. Attributes that fail
// to resolve are reported and treated as absent.
func (p *RDFaParser) coalesce(qName string, attrs Attributes, current, parent *rdfaContext, sources ...rdfaSource) string {
	_, hasTypeof := attrs.Get("typeof")
	headOrBody := qName == "head" || qName == "body"
	for _, src := range sources {
		switch src {
		case srcAbout, srcResource:
			value, ok := attrs.Get(sourceAttr[src])
			if !ok || value == "[]" {
				continue
			}
			iri, err := current.resolveAboutOrResource(p, value)
			if err != nil {
				p.warning(RDFaUnresolvedCURIE, err.Error())
				continue
			}
			return iri
		case srcData, srcHref, srcSrc:
			value, ok := attrs.Get(sourceAttr[src])
			if !ok {
				continue
			}
			iri, err := p.doc.ResolveIRI(value)
			if err != nil {
				p.warning(RDFaWarning, err.Error())
				continue
			}
			return iri
		case srcBnodeIfTypeof:
			if hasTypeof {
				return p.doc.CreateBnode()
			}
		case srcParentObject:
			return parent.object
		case srcBaseIfRoot:
			if len(p.stack) == 1 || (hasTypeof && headOrBody) {
				return p.doc.Base
			}
		case srcBaseIfHeadOrBody:
			if headOrBody {
				return p.doc.Base
			}
		}
	}
	return ""
}

func (p *RDFaParser) processRels(attrs Attributes, rels []string, current *rdfaContext) {
	inList := p.doc.Version > RDFa10 && attrs.Has("inlist")
	for _, rel := range rels {
		iri, err := current.resolvePredOrDatatype(p, rel)
		if err != nil {
			continue
		}
		switch {
		case inList && current.object != "":
			list := current.listMapping.get(iri)
			list.items = append(list.items, resourceObject(current.object))
		case inList:
			current.incomplete.entries = append(current.incomplete.entries, incompleteTriple{list: current.listMapping.get(iri)})
		case current.object != "":
			p.addNonLiteral(current.subject, iri, current.object)
		default:
			current.incomplete.entries = append(current.incomplete.entries, incompleteTriple{predicate: iri})
		}
	}
}

func (p *RDFaParser) processRevs(revs []string, current *rdfaContext) {
	for _, rev := range revs {
		iri, err := current.resolvePredOrDatatype(p, rev)
		if err != nil {
			continue
		}
		if current.object != "" {
			p.addNonLiteral(current.object, iri, current.subject)
		} else {
			current.incomplete.entries = append(current.incomplete.entries, incompleteTriple{predicate: iri, reverse: true})
		}
	}
}

func (p *RDFaParser) processPropertyAttr(qName string, attrs Attributes, current, parent *rdfaContext, noRelRev bool) {
	properties, ok := attrs.Get("property")
	if !ok {
		current.parsingLiteral = false
		return
	}
	object, hasObject := p.parseLiteralObject(qName, attrs, current, parent, noRelRev)
	inList := attrs.Has("inlist")
	for _, pred := range strings.Fields(properties) {
		p.processPropertyPredicate(pred, object, hasObject, current, inList)
	}
	current.parsingLiteral = current.litKind == xmlLiteral
	if len(current.properties) == 0 {
		current.litKind = noLiteral
		current.litDatatype = ""
		current.parsingLiteral = false
	}
}

// parseLiteralObject determines the object of @property. When the object is
// only known at the end tag, it records the literal kind in current instead.
func (p *RDFaParser) parseLiteralObject(qName string, attrs Attributes, current, parent *rdfaContext, noRelRev bool) (rdfaObject, bool) {
	content, hasContent := p.parseContent(attrs)
	datatype, hasDatatype := p.parseDatatype(qName, attrs, current)

	switch {
	case hasDatatype && datatype != "" && datatype != RDFXMLLiteral:
		if hasContent {
			return typedOrPlainObject(content, datatype, current.lang), true
		}
		current.litKind, current.litDatatype = typedLiteral, datatype
	case p.doc.Version > RDFa10:
		if hasDatatype {
			if datatype == "" {
				if hasContent {
					return plainObject(content, current.lang), true
				}
				current.litKind = plainLiteral
			} else {
				current.litKind = xmlLiteral
			}
			return rdfaObject{}, false
		}
		if hasContent {
			return plainObject(content, current.lang), true
		}
		var result string
		if !attrs.Has("content") && !attrs.Has("value") && noRelRev {
			result = p.coalesce(qName, attrs, current, parent, srcResource, srcData, srcHref, srcSrc)
		}
		if result == "" && !attrs.Has("about") && attrs.Has("typeof") {
			result = current.object
		}
		if result == "" {
			current.litKind = plainLiteral
			return rdfaObject{}, false
		}
		return resourceObject(result), true
	default:
		if hasContent {
			return plainObject(content, current.lang), true
		}
		if !hasDatatype || datatype != "" {
			current.litKind = xmlLiteral
		} else {
			current.litKind = plainLiteral
		}
	}
	return rdfaObject{}, false
}

// parseContent reads @content, overridden by HTML5 @value and @datetime.
func (p *RDFaParser) parseContent(attrs Attributes) (string, bool) {
	content, ok := attrs.Get("content")
	if p.doc.Format == DocumentHTML5 {
		if value, has := attrs.Get("value"); has {
			content, ok = value, true
		}
		if value, has := attrs.Get("datetime"); has {
			content, ok = value, true
		}
	}
	return content, ok
}

// parseDatatype resolves @datatype. HTML5 @datetime and <time> without
// @datatype yield the autodetect marker. A datatype that fails to resolve is
// reported as absent.
func (p *RDFaParser) parseDatatype(qName string, attrs Attributes, current *rdfaContext) (string, bool) {
	datatype, ok := attrs.Get("datatype")
	if p.doc.Format == DocumentHTML5 && !ok && (attrs.Has("datetime") || qName == "time") {
		datatype, ok = autodetectDatatype, true
	}
	if !ok || datatype == "" {
		return datatype, ok
	}
	iri, err := current.resolvePredOrDatatype(p, datatype)
	if err != nil {
		return "", false
	}
	return iri, true
}

func (p *RDFaParser) processPropertyPredicate(pred string, object rdfaObject, hasObject bool, current *rdfaContext, inList bool) {
	iri, err := current.resolvePredOrDatatype(p, pred)
	if err != nil {
		return
	}
	inList = inList && p.doc.Version > RDFa10
	switch {
	case hasObject && inList:
		list := current.listMapping.get(iri)
		list.items = append(list.items, object)
	case hasObject:
		p.emitObject(current.subject, iri, object)
	default:
		if len(current.properties) == 0 && inList {
			current.propertyInList = true
		}
		current.properties = append(current.properties, iri)
	}
}

func (p *RDFaParser) processRole(attrs Attributes, current *rdfaContext) {
	value, ok := attrs.Get("role")
	if !ok {
		return
	}
	var roles []string
	for _, token := range strings.Fields(value) {
		if iri, ok := current.resolveRole(p, token); ok {
			roles = append(roles, iri)
		}
	}
	if len(roles) == 0 {
		return
	}
	subject := p.doc.CreateBnode()
	if id, ok := attrs.Get("id"); ok {
		subject = p.doc.Base + "#" + id
	}
	for _, role := range roles {
		p.addNonLiteral(subject, XHVRole, role)
	}
}

// pushContext finalizes current and makes it the innermost context. Skipped
// elements and XML literal owners share the parent's subject, object and
// incomplete triples.
func (p *RDFaParser) pushContext(current, parent *rdfaContext, skip bool) {
	if current.parsingLiteral && p.xmlString == nil {
		p.xmlString = &strings.Builder{}
		p.xmlPreds = current.properties
		p.xmlSubj = current.subject
		if p.xmlSubj == "" {
			p.xmlSubj = parent.subject
		}
		p.xmlLang = current.lang
		p.xmlOwner = len(p.stack)
	}
	if current.parsingLiteral || skip {
		current.subject = parent.subject
		current.object = parent.object
		current.incomplete = parent.incomplete
		current.litKind = parent.litKind
		current.litDatatype = parent.litDatatype
		current.properties = nil
		current.propertyInList = false
	} else {
		if current.subject == "" {
			current.subject = parent.subject
		}
		if current.object == "" {
			current.object = current.subject
		}
	}
	if current.litKind != noLiteral || parent.litKind != noLiteral || parent.capture != nil {
		current.capture = &strings.Builder{}
	}
	p.stack = append(p.stack, current)
}

func (p *RDFaParser) EndElement(space, local, qName string) error {
	if p.rdfXML != nil {
		if p.doc.Format == DocumentSVG && local == "metadata" {
			p.rdfXMLDepth--
			if p.rdfXMLDepth == 0 {
				err := p.rdfXML.EndDocument()
				p.rdfXML = nil
				return err
			}
		}
		return p.rdfXML.EndElement(space, local, qName)
	}

	current := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	if p.xmlString != nil && p.xmlOwner == len(p.stack) {
		p.processXMLString()
	} else if p.xmlString != nil {
		p.xmlString.WriteString("</" + qName + ">")
	}
	if len(p.stack) == 0 {
		return nil
	}

	parent := p.top()
	if current.completes != "" {
		p.completeIncomplete(current.completes, parent)
	}
	p.processContent(current, parent)
	if parent.listMapping != current.listMapping {
		p.processListMappings(current)
	}
	return nil
}

// processXMLString emits the captured XML literal. RDFa 1.0 treats content
// without markup as a plain literal.
func (p *RDFaParser) processXMLString() {
	value := p.xmlString.String()
	p.xmlString = nil
	for _, pred := range p.xmlPreds {
		if p.doc.Version == RDFa10 && !strings.Contains(value, "<") {
			p.addPlainLiteral(p.xmlSubj, pred, value, p.xmlLang)
		} else {
			p.addTypedLiteral(p.xmlSubj, pred, value, RDFXMLLiteral)
		}
	}
}

// completeIncomplete resolves the parent's incomplete triples with the
// subject established by a child element.
func (p *RDFaParser) completeIncomplete(subject string, parent *rdfaContext) {
	for _, entry := range parent.incomplete.entries {
		switch {
		case entry.list != nil:
			entry.list.items = append(entry.list.items, resourceObject(subject))
		case entry.reverse:
			p.addNonLiteral(subject, entry.predicate, parent.subject)
		default:
			p.addNonLiteral(parent.subject, entry.predicate, subject)
		}
	}
}

// processContent emits the literal collected from the element's text, or
// hands the text to the enclosing literal.
func (p *RDFaParser) processContent(current, parent *rdfaContext) {
	if current.capture == nil {
		return
	}
	content := current.capture.String()
	if !parent.parsingLiteral && parent.capture != nil {
		parent.capture.WriteString(content)
		return
	}
	if len(current.properties) == 0 || current.litKind == noLiteral {
		return
	}
	var object rdfaObject
	if current.litKind == plainLiteral {
		object = plainObject(content, current.lang)
	} else {
		object = typedOrPlainObject(content, current.litDatatype, current.lang)
	}
	for _, pred := range current.properties {
		if current.propertyInList {
			list := current.listMapping.get(pred)
			list.items = append(list.items, object)
		} else {
			p.emitObject(current.subject, pred, object)
		}
	}
}

// processListMappings materializes the lists of a closing list scope as
// rdf:first/rdf:rest chains.
func (p *RDFaParser) processListMappings(current *rdfaContext) {
	predicates, lists := current.listMapping.drain()
	for i, pred := range predicates {
		var start, prev string
		for _, item := range lists[i].items {
			node := p.doc.CreateBnode()
			p.emitObject(node, RDFFirst, item)
			if prev == "" {
				start = node
			} else {
				p.addNonLiteral(prev, RDFRest, node)
			}
			prev = node
		}
		if start == "" {
			p.addNonLiteral(current.subject, pred, RDFNil)
			continue
		}
		p.addNonLiteral(prev, RDFRest, RDFNil)
		p.addNonLiteral(current.subject, pred, start)
	}
}

func (p *RDFaParser) Characters(text string) error {
	if p.rdfXML != nil {
		return p.rdfXML.Characters(text)
	}
	if len(p.stack) == 0 {
		return nil
	}
	if p.xmlString != nil {
		xmlTextEscaper.WriteString(p.xmlString, text)
	}
	if top := p.top(); top.capture != nil {
		top.capture.WriteString(text)
	}
	return nil
}

// loadVocabulary returns the vocabulary for @vocab. Vocabularies are only
// fetched when expansion is enabled.
func (p *RDFaParser) loadVocabulary(ref string) *Vocabulary {
	url, err := p.doc.ResolveIRI(ref)
	if err != nil {
		url = ref
	}
	if !p.opts.EnableVocabExpansion {
		return NewVocabulary(url)
	}
	if p.opts.EnableOutputGraph {
		p.sink.AddNonLiteral(p.doc.Base, RDFaUsesVocabulary, url)
	}
	vocab, err := p.opts.Vocabularies.Find(p.opts.Context, url)
	if err != nil {
		p.warning(RDFaWarning, fmt.Sprintf("vocabulary %s could not be loaded: %v", url, err))
		return NewVocabulary(url)
	}
	return vocab
}

// Diagnostics.

func (p *RDFaParser) info(class, message string) {
	p.opts.Diagnostics.Info(class, message)
	p.addProcessorGraphRecord(class, message)
}

func (p *RDFaParser) warning(class, message string) {
	p.opts.Diagnostics.Warning(class, message)
	p.addProcessorGraphRecord(class, message)
}

func (p *RDFaParser) reportError(class, message string) {
	p.opts.Diagnostics.Error(class, message)
	p.addProcessorGraphRecord(class, message)
}

func (p *RDFaParser) addProcessorGraphRecord(class, message string) {
	if p.doc.Version == RDFa10 || !p.opts.EnableProcessorGraph {
		return
	}
	node := p.doc.CreateBnode()
	if p.locator != nil {
		line, column := p.locator.Position()
		message = fmt.Sprintf("%s at %d:%d", message, line, column)
	}
	p.sink.AddNonLiteral(node, RDFType, class)
	p.sink.AddPlainLiteral(node, RDFaContext, message, "en")
}

// Output graph emission with vocabulary expansion.

func (p *RDFaParser) emitObject(subject, predicate string, object rdfaObject) {
	switch {
	case !object.literal:
		p.addNonLiteral(subject, predicate, object.value)
	case object.datatype != "":
		p.addTypedLiteral(subject, predicate, object.value, object.datatype)
	default:
		p.addPlainLiteral(subject, predicate, object.value, object.lang)
	}
}

func (p *RDFaParser) synonyms(iri string) []string {
	if !p.opts.EnableVocabExpansion || len(p.stack) == 0 {
		return nil
	}
	return p.top().expand(iri)
}

func (p *RDFaParser) addNonLiteral(subject, predicate, object string) {
	if !p.opts.EnableOutputGraph {
		return
	}
	p.addNonLiteralExpandingObject(subject, predicate, object)
	for _, synonym := range p.synonyms(predicate) {
		p.addNonLiteralExpandingObject(subject, synonym, object)
	}
}

func (p *RDFaParser) addNonLiteralExpandingObject(subject, predicate, object string) {
	p.sink.AddNonLiteral(subject, predicate, object)
	if isBnode(object) {
		return
	}
	for _, synonym := range p.synonyms(object) {
		p.sink.AddNonLiteral(subject, predicate, synonym)
	}
}

func (p *RDFaParser) addPlainLiteral(subject, predicate, content, lang string) {
	if !p.opts.EnableOutputGraph {
		return
	}
	p.sink.AddPlainLiteral(subject, predicate, content, lang)
	for _, synonym := range p.synonyms(predicate) {
		p.sink.AddPlainLiteral(subject, synonym, content, lang)
	}
}

func (p *RDFaParser) addTypedLiteral(subject, predicate, content, datatype string) {
	if !p.opts.EnableOutputGraph {
		return
	}
	p.sink.AddTypedLiteral(subject, predicate, content, datatype)
	for _, synonym := range p.synonyms(predicate) {
		p.sink.AddTypedLiteral(subject, synonym, content, datatype)
	}
}

// rdfaEmitter routes statements of an embedded processor through the RDFa
// output filters.
type rdfaEmitter struct {
	p *RDFaParser
}

func (e rdfaEmitter) StartStream() error { return nil }
func (e rdfaEmitter) EndStream() error   { return nil }

func (e rdfaEmitter) AddNonLiteral(subject, predicate, object string) {
	e.p.addNonLiteral(subject, predicate, object)
}

func (e rdfaEmitter) AddPlainLiteral(subject, predicate, content, lang string) {
	e.p.addPlainLiteral(subject, predicate, content, lang)
}

func (e rdfaEmitter) AddTypedLiteral(subject, predicate, content, datatype string) {
	e.p.addTypedLiteral(subject, predicate, content, datatype)
}
