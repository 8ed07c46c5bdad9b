package rdf

import (
	"bufio"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
)

// Object kinds of a BSONStatement.
const (
	BSONObjectNode  = "node"
	BSONObjectPlain = "plain"
	BSONObjectTyped = "typed"
)

// BSONStatement is the document written for each statement by BSONSink.
type BSONStatement struct {
	Subject   string `bson:"s"`
	Predicate string `bson:"p"`
	Object    string `bson:"o"`
	Kind      string `bson:"k"`
	Lang      string `bson:"lang,omitempty"`
	Datatype  string `bson:"dt,omitempty"`
	Graph     string `bson:"g,omitempty"`
}

// Quad converts the document back into a quad.
func (st BSONStatement) Quad() (Quad, error) {
	q := Quad{S: NodeTerm(st.Subject), P: IRI{Value: st.Predicate}, G: graphTerm(st.Graph)}
	switch st.Kind {
	case BSONObjectNode:
		q.O = NodeTerm(st.Object)
	case BSONObjectPlain:
		q.O = Literal{Lexical: st.Object, Lang: st.Lang}
	case BSONObjectTyped:
		q.O = Literal{Lexical: st.Object, Datatype: IRI{Value: st.Datatype}}
	default:
		return Quad{}, fmt.Errorf("bson: unknown object kind %q", st.Kind)
	}
	return q, nil
}

// NewBSONStatement converts a quad into its document form.
func NewBSONStatement(q Quad) BSONStatement {
	st := BSONStatement{Subject: nodeString(q.S), Predicate: q.P.Value, Graph: nodeString(q.G)}
	switch o := q.O.(type) {
	case Literal:
		st.Object = o.Lexical
		if o.Datatype.Value != "" {
			st.Kind, st.Datatype = BSONObjectTyped, o.Datatype.Value
		} else {
			st.Kind, st.Lang = BSONObjectPlain, o.Lang
		}
	default:
		st.Kind, st.Object = BSONObjectNode, nodeString(o)
	}
	return st
}

// BSONSink writes one BSON document per statement, back to back, in the
// layout of a mongodump collection file.
type BSONSink struct {
	w   *bufio.Writer
	err error
}

// NewBSONSink returns a sink writing BSON documents to w.
func NewBSONSink(w io.Writer) *BSONSink {
	return &BSONSink{w: bufio.NewWriter(w)}
}

func (s *BSONSink) StartStream() error {
	s.err = nil
	return nil
}

func (s *BSONSink) EndStream() error {
	if s.err != nil {
		return s.err
	}
	return s.w.Flush()
}

func (s *BSONSink) AddNonLiteral(subject, predicate, object string) {
	s.AddNonLiteralQuad(subject, predicate, object, "")
}

func (s *BSONSink) AddPlainLiteral(subject, predicate, content, lang string) {
	s.AddPlainLiteralQuad(subject, predicate, content, lang, "")
}

func (s *BSONSink) AddTypedLiteral(subject, predicate, content, datatype string) {
	s.AddTypedLiteralQuad(subject, predicate, content, datatype, "")
}

func (s *BSONSink) AddNonLiteralQuad(subject, predicate, object, graph string) {
	s.write(BSONStatement{Subject: subject, Predicate: predicate, Object: object, Kind: BSONObjectNode, Graph: graph})
}

func (s *BSONSink) AddPlainLiteralQuad(subject, predicate, content, lang, graph string) {
	s.write(BSONStatement{Subject: subject, Predicate: predicate, Object: content, Kind: BSONObjectPlain, Lang: lang, Graph: graph})
}

func (s *BSONSink) AddTypedLiteralQuad(subject, predicate, content, datatype, graph string) {
	s.write(BSONStatement{Subject: subject, Predicate: predicate, Object: content, Kind: BSONObjectTyped, Datatype: datatype, Graph: graph})
}

func (s *BSONSink) write(st BSONStatement) {
	if s.err != nil {
		return
	}
	doc, err := bson.Marshal(st)
	if err != nil {
		s.err = err
		return
	}
	_, s.err = s.w.Write(doc)
}

// ReadBSON reads documents written by BSONSink and replays them into sink.
func ReadBSON(r io.Reader, sink TripleSink) error {
	qs := AsQuadSink(sink)
	if err := qs.StartStream(); err != nil {
		return err
	}
	err := readBSON(r, qs)
	if endErr := qs.EndStream(); err == nil {
		err = endErr
	}
	return err
}

func readBSON(r io.Reader, sink QuadSink) error {
	reader := bufio.NewReader(r)
	for n := 0; ; n++ {
		raw, err := bson.NewFromIOReader(reader)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ParseError{Format: "bson", Line: n + 1, Err: err}
		}
		var st BSONStatement
		if err := bson.Unmarshal(raw, &st); err != nil {
			return &ParseError{Format: "bson", Line: n + 1, Err: err}
		}
		q, err := st.Quad()
		if err != nil {
			return &ParseError{Format: "bson", Line: n + 1, Err: err}
		}
		if err := WriteQuad(sink, q); err != nil {
			return err
		}
	}
}
