package rdf

import (
	"fmt"
	"strings"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// BnodePrefix marks blank node identifiers in sink calls.
const BnodePrefix = "_:"

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node identifier without the "_:" prefix.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return BnodePrefix + b.ID }

// Literal represents an RDF literal.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// Triple is an RDF triple.
type Triple struct {
	S Term
	P IRI
	O Term
}

// Quad is an RDF quad (triple + optional graph name).
type Quad struct {
	S Term
	P IRI
	O Term
	// G is the graph name, or nil for the default graph.
	G Term
}

// IsZero reports whether the quad has no subject/predicate/object.
func (q Quad) IsZero() bool {
	return q.S == nil && q.P.Value == "" && q.O == nil && q.G == nil
}

// ToTriple extracts the triple from a quad (ignores graph).
func (q Quad) ToTriple() Triple {
	return Triple{S: q.S, P: q.P, O: q.O}
}

// InDefaultGraph reports whether the quad is in the default graph (no named graph).
func (q Quad) InDefaultGraph() bool {
	return q.G == nil
}

// ToQuad converts a triple to a quad in the default graph.
func (t Triple) ToQuad() Quad {
	return Quad{S: t.S, P: t.P, O: t.O}
}

// NodeTerm converts a sink node string into a term. Strings carrying the
// blank node prefix become blank nodes, everything else is an IRI.
func NodeTerm(value string) Term {
	if strings.HasPrefix(value, BnodePrefix) {
		return BlankNode{ID: value[len(BnodePrefix):]}
	}
	return IRI{Value: value}
}

// graphTerm converts a sink graph string into a term; "" is the default graph.
func graphTerm(graph string) Term {
	if graph == "" {
		return nil
	}
	return NodeTerm(graph)
}

// nodeString is the inverse of NodeTerm.
func nodeString(term Term) string {
	switch value := term.(type) {
	case IRI:
		return value.Value
	case BlankNode:
		return value.String()
	case nil:
		return ""
	default:
		return term.String()
	}
}

// isBnode reports whether a sink node string denotes a blank node.
func isBnode(value string) bool {
	return strings.HasPrefix(value, BnodePrefix)
}
