// Package store keeps statements produced by the rdf processors in a
// badger database.
//
// Each statement is stored once under a key derived from the xxh3 hashes of
// its graph name and of its BSON encoding, so loading a document twice does
// not duplicate statements. Blank node labels are scoped to the stream that
// produced them.
package store

import (
	"context"
	"encoding/binary"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/semarglproject/semargl-sub000/rdf"
	"github.com/tliron/commonlog"
	"github.com/zeebo/xxh3"
	"go.mongodb.org/mongo-driver/bson"
)

// Key layout. Statement keys are quadTable + hash(graph) + hash(statement);
// graph keys are graphTable + hash(graph) and hold the graph name.
const (
	quadTable  byte = 'q'
	graphTable byte = 'g'

	hashSize = 16
)

var (
	streamSequenceKey = []byte("\x00seq/stream")

	log = commonlog.GetLogger("semargl.store")
)

// Store is a persistent quad store. It implements rdf.QuadSink: statements
// written between StartStream and EndStream are committed at EndStream.
// A Store accepts one stream at a time.
type Store struct {
	db      *badger.DB
	streams *badger.Sequence

	batch   *badger.WriteBatch
	scope   string
	written int
	err     error
}

// Open opens or creates a store in the directory path. An empty path opens
// an in-memory store.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening store %q", path)
	}
	streams, err := db.GetSequence(streamSequenceKey, 16)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "opening stream sequence")
	}
	log.Info("store opened", "path", path)
	return &Store{db: db, streams: streams}, nil
}

// Close releases the store. A stream that was not ended is discarded.
func (s *Store) Close() error {
	if s.batch != nil {
		s.batch.Cancel()
		s.batch = nil
	}
	if err := s.streams.Release(); err != nil {
		_ = s.db.Close()
		return errors.Wrap(err, "releasing stream sequence")
	}
	return errors.Wrap(s.db.Close(), "closing store")
}

// StartStream opens a write batch and allocates the blank node scope of
// the stream.
func (s *Store) StartStream() error {
	if s.batch != nil {
		return errors.New("store: stream already started")
	}
	n, err := s.streams.Next()
	if err != nil {
		return errors.Wrap(err, "allocating stream id")
	}
	s.batch = s.db.NewWriteBatch()
	s.scope = fmt.Sprintf("s%d_", n)
	s.written, s.err = 0, nil
	return nil
}

// EndStream commits the statements of the stream. The first write error of
// the stream, if any, is returned instead and nothing is committed.
func (s *Store) EndStream() error {
	if s.batch == nil {
		return errors.New("store: no stream started")
	}
	batch := s.batch
	s.batch = nil
	if s.err != nil {
		batch.Cancel()
		return s.err
	}
	if err := batch.Flush(); err != nil {
		return errors.Wrap(err, "committing statements")
	}
	log.Debug("stream committed", "scope", s.scope, "statements", s.written)
	return nil
}

func (s *Store) AddNonLiteral(subject, predicate, object string) {
	s.AddNonLiteralQuad(subject, predicate, object, "")
}

func (s *Store) AddPlainLiteral(subject, predicate, content, lang string) {
	s.AddPlainLiteralQuad(subject, predicate, content, lang, "")
}

func (s *Store) AddTypedLiteral(subject, predicate, content, datatype string) {
	s.AddTypedLiteralQuad(subject, predicate, content, datatype, "")
}

func (s *Store) AddNonLiteralQuad(subject, predicate, object, graph string) {
	s.put(rdf.BSONStatement{Subject: s.node(subject), Predicate: predicate, Object: s.node(object), Kind: rdf.BSONObjectNode, Graph: s.node(graph)})
}

func (s *Store) AddPlainLiteralQuad(subject, predicate, content, lang, graph string) {
	s.put(rdf.BSONStatement{Subject: s.node(subject), Predicate: predicate, Object: content, Kind: rdf.BSONObjectPlain, Lang: lang, Graph: s.node(graph)})
}

func (s *Store) AddTypedLiteralQuad(subject, predicate, content, datatype, graph string) {
	s.put(rdf.BSONStatement{Subject: s.node(subject), Predicate: predicate, Object: content, Kind: rdf.BSONObjectTyped, Datatype: datatype, Graph: s.node(graph)})
}

// node rewrites a blank node label into the scope of the current stream.
func (s *Store) node(value string) string {
	if len(value) > len(rdf.BnodePrefix) && value[:len(rdf.BnodePrefix)] == rdf.BnodePrefix {
		return rdf.BnodePrefix + s.scope + value[len(rdf.BnodePrefix):]
	}
	return value
}

func (s *Store) put(st rdf.BSONStatement) {
	if s.err != nil {
		return
	}
	if s.batch == nil {
		s.err = errors.New("store: statement outside of a stream")
		return
	}
	value, err := bson.Marshal(st)
	if err != nil {
		s.err = errors.Wrap(err, "encoding statement")
		return
	}
	graph := hash128([]byte(st.Graph))
	if err := s.batch.Set(quadKey(graph, hash128(value)), value); err != nil {
		s.err = errors.Wrap(err, "writing statement")
		return
	}
	if st.Graph != "" {
		if err := s.batch.Set(graphKey(graph), []byte(st.Graph)); err != nil {
			s.err = errors.Wrap(err, "writing graph name")
			return
		}
	}
	s.written++
}

// Len returns the number of distinct statements in the store.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte{quadTable}
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, errors.Wrap(err, "counting statements")
}

// Graphs returns the names of the named graphs holding statements.
func (s *Store) Graphs() ([]string, error) {
	var graphs []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte{graphTable}
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			name, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			graphs = append(graphs, string(name))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing graphs")
	}
	return graphs, nil
}

// Scan calls fn for every statement in the store. Iteration stops at the
// first error returned by fn or when ctx is done.
func (s *Store) Scan(ctx context.Context, fn rdf.Handler) error {
	return s.scan(ctx, []byte{quadTable}, fn)
}

// ScanGraph calls fn for every statement of one graph; "" selects the
// default graph.
func (s *Store) ScanGraph(ctx context.Context, graph string, fn rdf.Handler) error {
	h := hash128([]byte(graph))
	return s.scan(ctx, append([]byte{quadTable}, h[:]...), fn)
}

func (s *Store) scan(ctx context.Context, prefix []byte, fn rdf.Handler) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var st rdf.BSONStatement
			err := it.Item().Value(func(val []byte) error {
				return bson.Unmarshal(val, &st)
			})
			if err != nil {
				return errors.Wrapf(err, "decoding statement %x", it.Item().Key())
			}
			q, err := st.Quad()
			if err != nil {
				return errors.Wrapf(err, "decoding statement %x", it.Item().Key())
			}
			if err := fn(q); err != nil {
				return err
			}
		}
		return nil
	})
}

// Dump writes the statements of the store to sink as one stream.
func (s *Store) Dump(ctx context.Context, sink rdf.TripleSink) error {
	qs := rdf.AsQuadSink(sink)
	if err := qs.StartStream(); err != nil {
		return err
	}
	err := s.Scan(ctx, func(q rdf.Quad) error {
		return rdf.WriteQuad(qs, q)
	})
	if endErr := qs.EndStream(); err == nil {
		err = endErr
	}
	return err
}

// Clear removes every statement and graph.
func (s *Store) Clear() error {
	for _, table := range []byte{quadTable, graphTable} {
		if err := s.db.DropPrefix([]byte{table}); err != nil {
			return errors.Wrap(err, "clearing store")
		}
	}
	return nil
}

func hash128(b []byte) [hashSize]byte {
	h := xxh3.Hash128(b)
	var out [hashSize]byte
	binary.BigEndian.PutUint64(out[:8], h.Hi)
	binary.BigEndian.PutUint64(out[8:], h.Lo)
	return out
}

func quadKey(graph, statement [hashSize]byte) []byte {
	key := make([]byte, 0, 1+2*hashSize)
	key = append(key, quadTable)
	key = append(key, graph[:]...)
	return append(key, statement[:]...)
}

func graphKey(graph [hashSize]byte) []byte {
	return append([]byte{graphTable}, graph[:]...)
}

var _ rdf.QuadSink = (*Store)(nil)
