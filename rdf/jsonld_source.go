package rdf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// JSONHandler consumes the structural events of a JSON document. Numbers are
// reported with their lexical form. Any error returned by a handler method
// aborts the document.
type JSONHandler interface {
	StartDocument() error
	EndDocument() error
	OnObjectStart() error
	OnObjectEnd() error
	OnArrayStart() error
	OnArrayEnd() error
	OnKey(key string) error
	OnString(value string) error
	OnNumber(lexical string) error
	OnBoolean(value bool) error
	OnNull() error
}

// lineReader records the offsets of newlines read so far so byte offsets
// can be reported as line and column.
type lineReader struct {
	r        io.Reader
	offset   int64
	newlines []int64
}

func (l *lineReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == '\n' {
			l.newlines = append(l.newlines, l.offset+int64(i))
		}
	}
	l.offset += int64(n)
	return n, err
}

// position converts a byte offset into a 1-based line and column.
func (l *lineReader) position(offset int64) (int, int) {
	line := sort.Search(len(l.newlines), func(i int) bool { return l.newlines[i] >= offset })
	start := int64(0)
	if line > 0 {
		start = l.newlines[line-1] + 1
	}
	return line + 1, int(offset-start) + 1
}

type jsonLocator struct {
	dec   *json.Decoder
	lines *lineReader
}

func (l jsonLocator) Position() (int, int) {
	return l.lines.position(l.dec.InputOffset())
}

type jsonContainer struct {
	object    bool
	expectKey bool
}

// ParseJSON reads one JSON value from r and drives handler with its events.
// Trailing data after the value is an error.
func ParseJSON(ctx context.Context, r io.Reader, handler JSONHandler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	lines := &lineReader{r: &contextReader{ctx: ctx, r: r}}
	dec := json.NewDecoder(lines)
	dec.UseNumber()
	loc := jsonLocator{dec: dec, lines: lines}

	if err := handler.StartDocument(); err != nil {
		return abortDocument(handler, sourceError("jsonld", loc, err))
	}
	var stack []jsonContainer
	started := false
	for {
		if started && len(stack) == 0 {
			break
		}
		tok, err := dec.Token()
		if err == io.EOF && !started {
			err = errors.New("empty document")
		} else if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return abortDocument(handler, jsonError(loc, err))
		}
		started = true
		if err := dispatchJSON(handler, tok, &stack); err != nil {
			return abortDocument(handler, sourceError("jsonld", loc, err))
		}
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return abortDocument(handler, jsonError(loc, err))
	}
	if err := handler.EndDocument(); err != nil {
		return sourceError("jsonld", loc, err)
	}
	return nil
}

func dispatchJSON(handler JSONHandler, tok json.Token, stack *[]jsonContainer) error {
	var top *jsonContainer
	if n := len(*stack); n > 0 {
		top = &(*stack)[n-1]
	}
	// afterValue flips the enclosing object back to expecting a key.
	afterValue := func() {
		if n := len(*stack); n > 0 && (*stack)[n-1].object {
			(*stack)[n-1].expectKey = true
		}
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			*stack = append(*stack, jsonContainer{object: true, expectKey: true})
			return handler.OnObjectStart()
		case '[':
			*stack = append(*stack, jsonContainer{})
			return handler.OnArrayStart()
		case '}':
			*stack = (*stack)[:len(*stack)-1]
			err := handler.OnObjectEnd()
			afterValue()
			return err
		case ']':
			*stack = (*stack)[:len(*stack)-1]
			err := handler.OnArrayEnd()
			afterValue()
			return err
		}
	case string:
		if top != nil && top.object && top.expectKey {
			top.expectKey = false
			return handler.OnKey(t)
		}
		defer afterValue()
		return handler.OnString(t)
	case json.Number:
		defer afterValue()
		return handler.OnNumber(t.String())
	case bool:
		defer afterValue()
		return handler.OnBoolean(t)
	case nil:
		defer afterValue()
		return handler.OnNull()
	}
	return fmt.Errorf("unexpected JSON token %v", tok)
}

// jsonError positions decoder errors; syntax errors carry their own offset.
func jsonError(loc jsonLocator, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, column := loc.lines.position(syntaxErr.Offset)
		return &ParseError{Format: "jsonld", Line: line, Column: column, Err: err}
	}
	return sourceError("jsonld", loc, err)
}
