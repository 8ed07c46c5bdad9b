package rdf

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strings"
)

const (
	turtleIndent       = "    "
	turtleObjectIndent = "        "
)

var turtleIntegerPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)

// TurtleSink serializes triples as Turtle. Consecutive statements about the
// same subject are grouped with ';' and repeated predicates with ','. Graph
// names are not representable and are dropped.
type TurtleSink struct {
	w        *bufio.Writer
	base     string
	prefixes map[string]string

	subject   string
	predicate string
	open      bool
	err       error
}

// NewTurtleSink returns a sink writing Turtle to w. IRIs under base are
// written relative to it and IRIs under a namespace in prefixes are written
// as prefixed names.
func NewTurtleSink(w io.Writer, base string, prefixes map[string]string) *TurtleSink {
	copied := make(map[string]string, len(prefixes))
	for prefix, ns := range prefixes {
		copied[prefix] = ns
	}
	return &TurtleSink{w: bufio.NewWriter(w), base: base, prefixes: copied}
}

// StartStream writes the @base and @prefix directives.
func (s *TurtleSink) StartStream() error {
	s.err, s.open, s.subject, s.predicate = nil, false, "", ""
	if s.base != "" {
		s.write("@base " + renderIRI(s.base) + " .\n")
	}
	keys := make([]string, 0, len(s.prefixes))
	for prefix := range s.prefixes {
		keys = append(keys, prefix)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		s.write("@prefix " + prefix + ": " + renderIRI(s.prefixes[prefix]) + " .\n")
	}
	if s.base != "" || len(keys) > 0 {
		s.write("\n")
	}
	return s.err
}

// EndStream terminates the last statement and flushes.
func (s *TurtleSink) EndStream() error {
	if s.open {
		s.write(" .\n")
		s.open = false
	}
	if s.err != nil {
		return s.err
	}
	return s.w.Flush()
}

func (s *TurtleSink) AddNonLiteral(subject, predicate, object string) {
	s.statement(subject, predicate, s.node(object))
}

func (s *TurtleSink) AddPlainLiteral(subject, predicate, content, lang string) {
	s.statement(subject, predicate, renderPlainLiteral(content, lang))
}

func (s *TurtleSink) AddTypedLiteral(subject, predicate, content, datatype string) {
	switch {
	case datatype == XSDString:
		s.statement(subject, predicate, quoteLiteral(content))
	case datatype == XSDInteger && turtleIntegerPattern.MatchString(content),
		datatype == XSDBoolean && (content == "true" || content == "false"):
		s.statement(subject, predicate, content)
	default:
		s.statement(subject, predicate, quoteLiteral(content)+"^^"+s.iri(datatype))
	}
}

func (s *TurtleSink) AddNonLiteralQuad(subject, predicate, object, _ string) {
	s.AddNonLiteral(subject, predicate, object)
}

func (s *TurtleSink) AddPlainLiteralQuad(subject, predicate, content, lang, _ string) {
	s.AddPlainLiteral(subject, predicate, content, lang)
}

func (s *TurtleSink) AddTypedLiteralQuad(subject, predicate, content, datatype, _ string) {
	s.AddTypedLiteral(subject, predicate, content, datatype)
}

func (s *TurtleSink) statement(subject, predicate, object string) {
	switch {
	case s.open && subject == s.subject && predicate == s.predicate:
		s.write(" ,\n" + turtleObjectIndent + object)
	case s.open && subject == s.subject:
		s.write(" ;\n" + turtleIndent + s.predicateName(predicate) + " " + object)
	default:
		if s.open {
			s.write(" .\n")
		}
		s.write(s.node(subject) + " " + s.predicateName(predicate) + " " + object)
	}
	s.subject, s.predicate, s.open = subject, predicate, true
}

func (s *TurtleSink) write(text string) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.WriteString(text)
}

func (s *TurtleSink) predicateName(iri string) string {
	if iri == RDFType {
		return "a"
	}
	return s.iri(iri)
}

func (s *TurtleSink) node(value string) string {
	if isBnode(value) {
		return value
	}
	return s.iri(value)
}

// iri picks the shortest of: a prefixed name, a reference relative to the
// base, the full IRI.
func (s *TurtleSink) iri(iri string) string {
	if name, ok := s.prefixedName(iri); ok {
		return name
	}
	if s.base != "" && strings.HasPrefix(iri, s.base) {
		if rest := iri[len(s.base):]; rest == "" || strings.HasPrefix(rest, "#") {
			return renderIRI(rest)
		}
	}
	return renderIRI(iri)
}

func (s *TurtleSink) prefixedName(iri string) (string, bool) {
	bestPrefix, bestNS := "", ""
	for prefix, ns := range s.prefixes {
		if len(ns) <= len(bestNS) || !strings.HasPrefix(iri, ns) {
			continue
		}
		local := iri[len(ns):]
		if local != "" && !isTurtleLocalName(local) {
			continue
		}
		bestPrefix, bestNS = prefix, ns
	}
	if bestNS == "" {
		return "", false
	}
	return bestPrefix + ":" + iri[len(bestNS):], true
}

// isTurtleLocalName accepts the NCName subset of PN_LOCAL, which never
// needs escaping. A trailing '.' is not allowed.
func isTurtleLocalName(local string) bool {
	if strings.HasSuffix(local, ".") {
		return false
	}
	if local[0] >= '0' && local[0] <= '9' {
		return isNCName("_" + local)
	}
	return isNCName(local)
}
