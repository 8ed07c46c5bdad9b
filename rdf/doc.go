// Package rdf provides streaming RDFa, JSON-LD, RDF/XML and N-Triples processors
// that push statements into string-based sinks.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Author: Stephane Fellah (stephanef@geoknoesis.com)
// Geosemantic-AI expert with 30 years of experience
//
// Processing is push-based and single pass. An event source (an XML, HTML or JSON
// tokenizer) drives a processor, and the processor emits statements into a sink:
//   - Sources: ParseXML, ParseHTML and ParseJSON deliver ContentHandler / JSONHandler events.
//   - Processors: NewRDFaParser, NewRDFXMLParser, NewJSONLDParser and NewNTriplesParser.
//   - Sinks: TripleSink and QuadSink receive IRIs, blank nodes ("_:" prefixed) and literals
//     as plain strings. Serializers (N-Triples, N-Quads, Turtle, BSON) are sinks too.
//
// Processor wires the pieces together:
//
//	p := rdf.NewProcessor(rdf.OptProcessorGraph(true))
//	out := rdf.NewNTriplesSink(os.Stdout)
//	if err := p.Process(ctx, r, rdf.FormatRDFa, "http://example.com/", out); err != nil {
//	    // handle error
//	}
//
// Statements can also be collected into the term model (IRI, BlankNode, Literal, Quad):
//
//	err := rdf.Parse(ctx, r, rdf.FormatJSONLD, "http://example.com/", func(q rdf.Quad) error {
//	    // process q.S, q.P, q.O, q.G
//	    return nil
//	})
//
// Malformed IRIs and CURIEs never abort a document: the offending attribute or
// statement is dropped and, for RDFa 1.1, a record is added to the processor
// graph when it is enabled. Only tokenizer failures are fatal; they are
// returned as *ParseError after EndStream has been called on the sink.
//
// Vocabulary expansion (RDFa @vocab) loads vocabularies through a VocabularyCache,
// which is safe for concurrent use and can be shared between processors.
package rdf
