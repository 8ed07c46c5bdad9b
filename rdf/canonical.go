package rdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/piprate/json-gold/ld"
)

// Canonicalize renders quads as canonical N-Quads (URDNA2015). Blank node
// labels are replaced by canonical ones and duplicate statements collapse,
// so two isomorphic datasets produce the same string.
func Canonicalize(quads []Quad) (string, error) {
	var buf bytes.Buffer
	sink := NewNQuadsSink(&buf)
	_ = sink.StartStream()
	for _, q := range quads {
		if err := WriteQuad(sink, q); err != nil {
			return "", err
		}
	}
	if err := sink.EndStream(); err != nil {
		return "", err
	}

	dataset, err := (&ld.NQuadRDFSerializer{}).Parse(buf.String())
	if err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}
	dedupeDataset(dataset)

	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	opts.Algorithm = ld.AlgorithmURDNA2015
	normalized, err := ld.NewJsonLdApi().Normalize(dataset, opts)
	if err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}
	value, ok := normalized.(string)
	if !ok {
		return "", fmt.Errorf("canonicalize: unexpected normalization result %T", normalized)
	}
	return value, nil
}

// WriteQuad replays one quad into a sink.
func WriteQuad(sink QuadSink, q Quad) error {
	if q.S == nil || q.O == nil || q.P.Value == "" {
		return fmt.Errorf("incomplete quad %v", q)
	}
	graph, subject := nodeString(q.G), nodeString(q.S)
	if lit, ok := q.O.(Literal); ok {
		if lit.Datatype.Value != "" {
			sink.AddTypedLiteralQuad(subject, q.P.Value, lit.Lexical, lit.Datatype.Value, graph)
		} else {
			sink.AddPlainLiteralQuad(subject, q.P.Value, lit.Lexical, lit.Lang, graph)
		}
		return nil
	}
	sink.AddNonLiteralQuad(subject, q.P.Value, nodeString(q.O), graph)
	return nil
}

// WriteQuads streams quads into sink between StartStream and EndStream.
func WriteQuads(sink TripleSink, quads []Quad) error {
	qs := AsQuadSink(sink)
	if err := qs.StartStream(); err != nil {
		return err
	}
	for _, q := range quads {
		if err := WriteQuad(qs, q); err != nil {
			_ = qs.EndStream()
			return err
		}
	}
	return qs.EndStream()
}

func dedupeDataset(dataset *ld.RDFDataset) {
	for graphName, quads := range dataset.Graphs {
		seen := make(map[string]struct{}, len(quads))
		out := quads[:0]
		for _, quad := range quads {
			if quad == nil {
				continue
			}
			key := strings.Join([]string{ldNodeKey(quad.Subject), ldNodeKey(quad.Predicate), ldNodeKey(quad.Object)}, "|")
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, quad)
		}
		dataset.Graphs[graphName] = out
	}
}

func ldNodeKey(node ld.Node) string {
	if node == nil {
		return ""
	}
	if lit, ok := node.(ld.Literal); ok {
		return strings.Join([]string{lit.Value, lit.Datatype, lit.Language}, "::")
	}
	return node.GetValue()
}
