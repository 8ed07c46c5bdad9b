package rdf

import (
	"strconv"
	"strings"
)

// RDFaVersion selects RDFa Core 1.0 or 1.1 processing rules.
type RDFaVersion int

const (
	RDFa10 RDFaVersion = 10
	RDFa11 RDFaVersion = 11
)

func (v RDFaVersion) String() string {
	if v == RDFa10 {
		return "1.0"
	}
	return "1.1"
}

// ParseRDFaVersion parses "1.0" or "1.1".
func ParseRDFaVersion(value string) (RDFaVersion, bool) {
	switch strings.TrimSpace(value) {
	case "1.0", "1", "10":
		return RDFa10, true
	case "1.1", "11":
		return RDFa11, true
	default:
		return 0, false
	}
}

// DocumentFormat is the markup dialect detected for a document.
type DocumentFormat uint8

const (
	DocumentUnknown DocumentFormat = iota
	DocumentHTML4
	DocumentHTML5
	DocumentXML
	DocumentSVG
)

const rdfa10Marker = "rdfa 1.0"

// DocumentContext holds the per-document state shared by a processor and its
// delegates: the base IRI, blank node allocation and format detection.
// A DocumentContext must not be shared between documents processed concurrently.
type DocumentContext struct {
	// Base is the effective base IRI. It may change mid-document
	// through xml:base or <base href>.
	Base string
	// Format is the detected markup dialect.
	Format DocumentFormat
	// Version is the effective RDFa version.
	Version RDFaVersion

	defaultVersion RDFaVersion
	bnodes         map[string]string
	nextBnode      int
}

// NewDocumentContext creates a document context with the given base IRI.
func NewDocumentContext(base string, version RDFaVersion) *DocumentContext {
	d := &DocumentContext{Base: base, defaultVersion: version}
	d.Clear()
	return d
}

// CreateBnode allocates a fresh blank node identifier. Identifiers are never
// reused by the same DocumentContext, even across Clear calls.
func (d *DocumentContext) CreateBnode() string {
	id := BnodePrefix + "n" + strconv.Itoa(d.nextBnode)
	d.nextBnode++
	return id
}

// BnodeFor maps a document-local blank node label to a synthesized identifier.
// The same label always yields the same identifier within one document.
func (d *DocumentContext) BnodeFor(label string) string {
	if id, ok := d.bnodes[label]; ok {
		return id
	}
	id := d.CreateBnode()
	d.bnodes[label] = id
	return id
}

// ResolveBnode recognizes "_:label" and "[_:label]" and maps the label through
// BnodeFor.
func (d *DocumentContext) ResolveBnode(value string) (string, bool) {
	switch {
	case strings.HasPrefix(value, BnodePrefix):
		return d.BnodeFor(value[len(BnodePrefix):]), true
	case strings.HasPrefix(value, "["+BnodePrefix) && strings.HasSuffix(value, "]"):
		return d.BnodeFor(value[len(BnodePrefix)+1 : len(value)-1]), true
	}
	return "", false
}

// ResolveIRI resolves ref against the current base.
func (d *DocumentContext) ResolveIRI(ref string) (string, error) {
	return ResolveIRI(d.Base, ref)
}

// DetectFormat classifies the document by its root element and picks up the
// RDFa version advertised by <html version="...">.
func (d *DocumentContext) DetectFormat(localName, qName, version string) {
	if d.Format == DocumentUnknown {
		switch {
		case localName == "svg":
			d.Format = DocumentSVG
		case strings.EqualFold(localName, "html"):
			d.Format = DocumentHTML4
		default:
			d.Format = DocumentXML
		}
	}
	if strings.EqualFold(qName, "html") && strings.Contains(strings.ToLower(version), rdfa10Marker) {
		d.Version = RDFa10
	}
}

// DetectBase updates the base from xml:base (XML dialects only) or from the
// href of a <base> element. Fragments are stripped. It reports whether the
// base changed.
func (d *DocumentContext) DetectBase(qName, xmlBase, href string, hasXMLBase, hasHref bool) bool {
	var next string
	switch {
	case d.IsXML() && hasXMLBase:
		next = xmlBase
	case strings.EqualFold(qName, "base") && hasHref:
		next = href
	default:
		return false
	}
	if idx := strings.IndexByte(next, '#'); idx >= 0 {
		next = next[:idx]
	}
	if resolved, err := ResolveIRI(d.Base, next); err == nil {
		next = resolved
	}
	if next == d.Base {
		return false
	}
	d.Base = next
	return true
}

// ProcessDTD inspects a DOCTYPE declaration. A public identifier mentioning
// "rdfa 1.0" switches the document to RDFa 1.0.
func (d *DocumentContext) ProcessDTD(name, publicID, systemID string) {
	if publicID == "" {
		if strings.EqualFold(name, "html") {
			d.Format = DocumentHTML5
		}
		return
	}
	publicID = strings.ToLower(publicID)
	if strings.Contains(publicID, "html") {
		d.Format = DocumentHTML4
	}
	if strings.Contains(publicID, rdfa10Marker) {
		d.Version = RDFa10
	}
}

// IsHTML reports whether the document is HTML4 or HTML5.
func (d *DocumentContext) IsHTML() bool {
	return d.Format == DocumentHTML4 || d.Format == DocumentHTML5
}

// IsXML reports whether the document is generic XML or SVG.
func (d *DocumentContext) IsXML() bool {
	return d.Format == DocumentXML || d.Format == DocumentSVG
}

// Clear resets format, version and blank node labels for the next document.
func (d *DocumentContext) Clear() {
	d.Version = d.defaultVersion
	d.Format = DocumentUnknown
	d.bnodes = make(map[string]string)
}
