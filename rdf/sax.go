package rdf

import (
	"errors"
	"sort"
	"strings"
)

// Attribute is one attribute of a start element.
type Attribute struct {
	Space string // namespace IRI, "" when unqualified
	Local string
	QName string
	Value string
}

// Attributes is the attribute list of a start element in document order.
type Attributes []Attribute

// Get returns the value of the attribute with the given qualified name.
func (a Attributes) Get(qName string) (string, bool) {
	for _, attr := range a {
		if attr.QName == qName {
			return attr.Value, true
		}
	}
	return "", false
}

// Value returns the value of the named attribute, or "" when it is absent.
func (a Attributes) Value(qName string) string {
	v, _ := a.Get(qName)
	return v
}

// Has reports whether the named attribute is present.
func (a Attributes) Has(qName string) bool {
	_, ok := a.Get(qName)
	return ok
}

// GetNS returns the value of the attribute with the given namespace and local name.
func (a Attributes) GetNS(space, local string) (string, bool) {
	for _, attr := range a {
		if attr.Space == space && attr.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

// Locator reports the position of the current event.
type Locator interface {
	Position() (line, column int)
}

// ContentHandler consumes the events of an XML-like document. Any error
// returned by a handler method aborts the document.
type ContentHandler interface {
	SetDocumentLocator(loc Locator)
	StartDocument() error
	EndDocument() error
	StartDTD(name, publicID, systemID string) error
	StartPrefixMapping(prefix, uri string) error
	StartElement(space, local, qName string, attrs Attributes) error
	EndElement(space, local, qName string) error
	Characters(text string) error
	Comment(text string) error
}

// parseDoctype splits the body of a <!DOCTYPE ...> directive into its name
// and the public and system identifiers.
func parseDoctype(directive string) (name, publicID, systemID string) {
	fields := splitDoctype(strings.TrimSpace(strings.TrimPrefix(directive, "DOCTYPE")))
	if len(fields) == 0 {
		return "", "", ""
	}
	name = fields[0]
	for i := 1; i < len(fields); i++ {
		switch strings.ToUpper(fields[i]) {
		case "PUBLIC":
			if i+1 < len(fields) {
				publicID = fields[i+1]
				i++
			}
			if i+1 < len(fields) {
				systemID = fields[i+1]
				i++
			}
		case "SYSTEM":
			if i+1 < len(fields) {
				systemID = fields[i+1]
				i++
			}
		}
	}
	return name, publicID, systemID
}

// splitDoctype splits on whitespace, keeping quoted identifiers together.
func splitDoctype(value string) []string {
	var fields []string
	for len(value) > 0 {
		value = strings.TrimLeft(value, " \t\r\n")
		if value == "" {
			break
		}
		switch value[0] {
		case '"', '\'':
			end := strings.IndexByte(value[1:], value[0])
			if end < 0 {
				fields = append(fields, value[1:])
				return fields
			}
			fields = append(fields, value[1:end+1])
			value = value[end+2:]
		case '[', '>':
			return fields
		default:
			end := strings.IndexAny(value, " \t\r\n[>")
			if end < 0 {
				fields = append(fields, value)
				return fields
			}
			fields = append(fields, value[:end])
			value = value[end:]
		}
	}
	return fields
}

var (
	xmlTextEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	xmlAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", "\"", "&quot;")
)

// serializeOpenTag renders a start tag for an XML literal. Namespace
// declarations in scope are written out so the literal is self-contained;
// when compact is set only the element's own namespace is declared.
func serializeOpenTag(space, qName string, mappings map[string]string, attrs Attributes, compact bool) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(qName)

	own := ""
	if idx := strings.IndexByte(qName, ':'); idx >= 0 {
		own = qName[:idx]
		writeXMLNS(&b, own, space)
	} else if space != "" {
		writeXMLNS(&b, "", space)
	}
	if !compact {
		prefixes := make([]string, 0, len(mappings))
		for prefix := range mappings {
			if prefix != "" && prefix != own && prefix != "xml" {
				prefixes = append(prefixes, prefix)
			}
		}
		sort.Strings(prefixes)
		for _, prefix := range prefixes {
			writeXMLNS(&b, prefix, mappings[prefix])
		}
	}
	for _, attr := range attrs {
		if attr.QName == "xmlns" || strings.HasPrefix(attr.QName, "xmlns:") {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(attr.QName)
		b.WriteString(`="`)
		xmlAttrEscaper.WriteString(&b, attr.Value)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

func writeXMLNS(b *strings.Builder, prefix, uri string) {
	if prefix == "" {
		b.WriteString(` xmlns="`)
	} else {
		b.WriteString(" xmlns:")
		b.WriteString(prefix)
		b.WriteString(`="`)
	}
	xmlAttrEscaper.WriteString(b, uri)
	b.WriteByte('"')
}

// FatalErrorHandler is implemented by handlers that must observe a fatal
// error of the event source, for example to close the sink stream.
type FatalErrorHandler interface {
	FatalError(err error)
}

// sourceError attaches the current position to an error raised while
// driving a handler. Errors already carrying a position pass through.
func sourceError(format string, loc Locator, err error) error {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return err
	}
	line, column := 0, 0
	if loc != nil {
		line, column = loc.Position()
	}
	return &ParseError{Format: format, Line: line, Column: column, Err: err}
}

// abortDocument reports err to handler when it implements FatalErrorHandler.
func abortDocument(handler any, err error) error {
	if fh, ok := handler.(FatalErrorHandler); ok {
		fh.FatalError(err)
	}
	return err
}
