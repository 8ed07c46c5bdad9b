package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeInvalidIRI indicates an IRI that could not be resolved.
	ErrCodeInvalidIRI ErrorCode = "INVALID_IRI"
	// ErrCodeInvalidCURIE indicates a CURIE with a reserved or unknown prefix.
	ErrCodeInvalidCURIE ErrorCode = "INVALID_CURIE"
	// ErrCodeSchemaViolation indicates a malformed RDF/XML construct.
	ErrCodeSchemaViolation ErrorCode = "SCHEMA_VIOLATION"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrMalformedIRI indicates a value that is not an absolute IRI after resolution.
	ErrMalformedIRI = errors.New("rdf: malformed IRI")
	// ErrMalformedCURIE indicates a CURIE with the reserved "_" prefix or an unknown prefix.
	ErrMalformedCURIE = errors.New("rdf: malformed CURIE")
	// ErrSchemaViolation indicates RDF/XML markup that breaks the RDF/XML grammar.
	ErrSchemaViolation = errors.New("rdf: RDF/XML schema violation")
)

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrMalformedIRI):
		return ErrCodeInvalidIRI
	case errors.Is(err, ErrMalformedCURIE):
		return ErrCodeInvalidCURIE
	case errors.Is(err, ErrSchemaViolation):
		return ErrCodeSchemaViolation
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}
	return ErrCodeParseError
}

// malformedIRI wraps ErrMalformedIRI with the offending value.
func malformedIRI(value string) error {
	return fmt.Errorf("%w: %q", ErrMalformedIRI, value)
}

// malformedCURIE wraps ErrMalformedCURIE with a reason.
func malformedCURIE(reason, value string) error {
	return fmt.Errorf("%w: %s (%q)", ErrMalformedCURIE, reason, value)
}

// ParseError provides structured context for tokenizer-level failures.
type ParseError struct {
	Format    string // Format name (e.g., "rdfa", "jsonld")
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Column    int    // 1-based column number (0 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)

	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	}

	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())

	if excerpt := e.formatExcerpt(); excerpt != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}
	return msg.String()
}

// formatExcerpt formats a readable excerpt of the statement around the error position.
func (e *ParseError) formatExcerpt() string {
	if e.Statement == "" {
		return ""
	}

	const maxExcerptLen = 80
	const contextLen = 40

	if e.Column > 0 {
		start := e.Column - 1
		excerptStart := start - contextLen
		if excerptStart < 0 {
			excerptStart = 0
		}
		excerptEnd := start + contextLen
		if excerptEnd > len(e.Statement) {
			excerptEnd = len(e.Statement)
		}
		if excerptStart >= excerptEnd {
			return truncateExcerpt(e.Statement, maxExcerptLen)
		}

		excerpt := e.Statement[excerptStart:excerptEnd]
		if excerptStart > 0 {
			excerpt = "..." + excerpt
		}
		if excerptEnd < len(e.Statement) {
			excerpt += "..."
		}

		caretPos := start - excerptStart
		if excerptStart > 0 {
			caretPos += 3 // Account for "..."
		}
		if caretPos >= len(excerpt) {
			caretPos = len(excerpt) - 1
		}

		var result strings.Builder
		result.WriteString(excerpt)
		result.WriteString("\n  ")
		result.WriteString(strings.Repeat(" ", caretPos))
		result.WriteByte('^')
		return result.String()
	}

	return truncateExcerpt(e.Statement, maxExcerptLen)
}

func truncateExcerpt(statement string, max int) string {
	if len(statement) > max {
		return statement[:max] + "..."
	}
	return statement
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseError adds format/statement/position context to a parse error.
// Position information already carried by a nested ParseError is preserved.
func wrapParseError(format, statement string, line, column int, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if parseErr.Format == format {
			return err
		}
		if line == 0 {
			line, column = parseErr.Line, parseErr.Column
		}
	}
	return &ParseError{
		Format:    format,
		Statement: statement,
		Line:      line,
		Column:    column,
		Err:       err,
	}
}
