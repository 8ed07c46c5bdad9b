package rdf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
)

// Format identifies a serialization handled by the processors or sinks.
type Format string

const (
	// FormatRDFa is HTML with RDFa markup, read with the HTML tokenizer.
	FormatRDFa Format = "rdfa"
	// FormatXHTML is any XML dialect carrying RDFa (XHTML, SVG, plain XML).
	FormatXHTML    Format = "xhtml"
	FormatRDFXML   Format = "rdfxml"
	FormatJSONLD   Format = "jsonld"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatTurtle   Format = "turtle"
	FormatBSON     Format = "bson"
)

// ParseFormat normalizes a format name or common alias.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "rdfa", "html":
		return FormatRDFa, true
	case "xhtml", "svg", "xml+rdfa":
		return FormatXHTML, true
	case "rdfxml", "rdf", "xml":
		return FormatRDFXML, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	case "ntriples", "nt":
		return FormatNTriples, true
	case "nquads", "nq":
		return FormatNQuads, true
	case "turtle", "ttl":
		return FormatTurtle, true
	case "bson":
		return FormatBSON, true
	default:
		return "", false
	}
}

// CanParse reports whether a processor reads the format.
func (f Format) CanParse() bool {
	return f != FormatTurtle && f != ""
}

// CanSerialize reports whether a sink writes the format.
func (f Format) CanSerialize() bool {
	switch f {
	case FormatNTriples, FormatNQuads, FormatTurtle, FormatBSON:
		return true
	default:
		return false
	}
}

// MediaType returns the registered media type of the format.
func (f Format) MediaType() string {
	switch f {
	case FormatRDFa:
		return "text/html"
	case FormatXHTML:
		return "application/xhtml+xml"
	case FormatRDFXML:
		return "application/rdf+xml"
	case FormatJSONLD:
		return "application/ld+json"
	case FormatNTriples:
		return "application/n-triples"
	case FormatNQuads:
		return "application/n-quads"
	case FormatTurtle:
		return "text/turtle"
	case FormatBSON:
		return "application/bson"
	default:
		return "application/octet-stream"
	}
}

// FormatForMediaType maps a Content-Type header value to a format. Generic
// XML types are not mapped; their content decides between RDFa and RDF/XML.
func FormatForMediaType(contentType string) (Format, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	switch mediaType {
	case "text/html":
		return FormatRDFa, true
	case "application/xhtml+xml", "image/svg+xml":
		return FormatXHTML, true
	case "application/rdf+xml":
		return FormatRDFXML, true
	case "application/ld+json", "application/json":
		return FormatJSONLD, true
	case "application/n-triples":
		return FormatNTriples, true
	case "application/n-quads":
		return FormatNQuads, true
	case "text/turtle":
		return FormatTurtle, true
	case "application/bson":
		return FormatBSON, true
	default:
		return "", false
	}
}

// FormatForPath infers a format from a file extension.
func FormatForPath(name string) (Format, bool) {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return FormatRDFa, true
	case ".xhtml", ".svg":
		return FormatXHTML, true
	case ".rdf", ".owl":
		return FormatRDFXML, true
	case ".jsonld", ".json":
		return FormatJSONLD, true
	case ".nt":
		return FormatNTriples, true
	case ".nq":
		return FormatNQuads, true
	case ".ttl":
		return FormatTurtle, true
	case ".bson":
		return FormatBSON, true
	default:
		return "", false
	}
}

// DetectFormat guesses the format of a document from its first bytes.
// XML documents are RDF/XML when the RDF namespace and an rdf:RDF root
// appear in the sample; other XML is treated as RDFa.
func DetectFormat(sample []byte) (Format, bool) {
	if isBSONStatement(sample) {
		return FormatBSON, true
	}
	text := strings.TrimSpace(strings.TrimPrefix(string(sample), "\ufeff"))
	if text == "" {
		return "", false
	}
	switch text[0] {
	case '{', '[':
		return FormatJSONLD, true
	case '_', '#':
		return detectStatementFormat(text)
	case '<':
	default:
		return "", false
	}

	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html"):
		if strings.Contains(lower, XHTMLNS) {
			return FormatXHTML, true
		}
		return FormatRDFa, true
	case strings.HasPrefix(lower, "<?xml") || strings.HasPrefix(lower, "<!") || strings.Contains(lower, "xmlns"):
		if strings.Contains(text, RDFNS) && strings.Contains(text, ":RDF") {
			return FormatRDFXML, true
		}
		if strings.Contains(text, "<RDF") && strings.Contains(text, `xmlns="`+RDFNS+`"`) {
			return FormatRDFXML, true
		}
		return FormatXHTML, true
	}
	if format, ok := detectStatementFormat(text); ok {
		return format, true
	}
	return FormatRDFa, true
}

// detectStatementFormat parses the first statement line as N-Quads and
// tells N-Triples from N-Quads by the presence of a graph label.
func detectStatementFormat(text string) (Format, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c := &ntCursor{input: line, doc: NewDocumentContext("", RDFa11)}
		if _, err := c.parseNode(); err != nil {
			return "", false
		}
		if _, err := c.parseIRI(); err != nil {
			return "", false
		}
		if _, err := c.parseObject(); err != nil {
			return "", false
		}
		if c.consume('.') {
			return FormatNTriples, true
		}
		if _, err := c.parseNode(); err != nil || !c.consume('.') {
			return "", false
		}
		return FormatNQuads, true
	}
	return "", false
}

// isBSONStatement recognizes the first document written by BSONSink: a
// length prefix followed by the string field "s".
func isBSONStatement(sample []byte) bool {
	if len(sample) < 7 {
		return false
	}
	size := binary.LittleEndian.Uint32(sample)
	return size >= 5 && size <= 16<<20 && bytes.HasPrefix(sample[4:], []byte{0x02, 's', 0x00})
}

// NewSerializer returns a sink writing format to w. base and prefixes only
// apply to Turtle.
func NewSerializer(format Format, w io.Writer, base string, prefixes map[string]string) (QuadSink, error) {
	switch format {
	case FormatNTriples:
		return NewNTriplesSink(w), nil
	case FormatNQuads:
		return NewNQuadsSink(w), nil
	case FormatTurtle:
		return NewTurtleSink(w, base, prefixes), nil
	case FormatBSON:
		return NewBSONSink(w), nil
	default:
		return nil, fmt.Errorf("%w: cannot serialize %q", ErrUnsupportedFormat, format)
	}
}
