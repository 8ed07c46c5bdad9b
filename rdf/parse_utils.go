package rdf

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrLineTooLong is returned when an N-Triples line exceeds the line limit.
var ErrLineTooLong = errors.New("rdf: line exceeds maximum length")

// Unicode surrogate pair constants
const (
	unicodeSurrogateHighStart = 0xD800
	unicodeSurrogateHighEnd   = 0xDBFF
	unicodeSurrogateLowStart  = 0xDC00
	unicodeSurrogateLowEnd    = 0xDFFF
	unicodeSurrogateBase      = 0x10000
)

const (
	unicodeEscapeLength     = 6  // \uXXXX
	unicodeLongEscapeLength = 10 // \UXXXXXXXX
)

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// isValidLangTag checks the BCP 47 shape used by N-Triples language tags.
func isValidLangTag(tag string) bool {
	if tag == "" {
		return false
	}
	parts := strings.Split(tag, "-")
	if len(parts[0]) > 8 {
		return false
	}
	for i, part := range parts {
		if part == "" || len(part) > 8 {
			return false
		}
		for j := 0; j < len(part); j++ {
			ch := part[j]
			alpha := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
			if i == 0 && !alpha {
				return false
			}
			if !alpha && !(ch >= '0' && ch <= '9') {
				return false
			}
		}
	}
	return true
}

func isValidUnicodeCodePoint(codePoint rune) bool {
	if codePoint > 0x10FFFF {
		return false
	}
	return codePoint < unicodeSurrogateHighStart || codePoint > unicodeSurrogateLowEnd
}

// parseHexDigit converts a single hex digit byte to its integer value.
func parseHexDigit(hex byte) (int, bool) {
	switch {
	case hex >= '0' && hex <= '9':
		return int(hex - '0'), true
	case hex >= 'a' && hex <= 'f':
		return int(hex-'a') + 10, true
	case hex >= 'A' && hex <= 'F':
		return int(hex-'A') + 10, true
	default:
		return 0, false
	}
}

func decodeUChar(hexStr string) rune {
	if len(hexStr) != 4 && len(hexStr) != 8 {
		return -1
	}
	var codePoint rune
	for i := 0; i < len(hexStr); i++ {
		digit, ok := parseHexDigit(hexStr[i])
		if !ok {
			return -1
		}
		codePoint = codePoint*16 + rune(digit)
	}
	return codePoint
}

// readLineWithLimit reads one line including its terminator. A maxBytes of
// zero disables the limit.
func readLineWithLimit(reader *bufio.Reader, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		line, err := reader.ReadString('\n')
		if err == io.EOF && len(line) > 0 {
			return line, nil
		}
		return line, err
	}

	var buffer []byte
	for {
		part, err := reader.ReadSlice('\n')
		buffer = append(buffer, part...)
		if len(buffer) > maxBytes {
			discardLine(reader)
			return "", ErrLineTooLong
		}
		switch {
		case err == nil:
			return string(buffer), nil
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && len(buffer) > 0:
			return string(buffer), nil
		default:
			return "", err
		}
	}
}

func discardLine(reader *bufio.Reader) {
	for {
		_, err := reader.ReadSlice('\n')
		if err != bufio.ErrBufferFull {
			return
		}
	}
}

// contextReader fails reads once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	select {
	case <-c.ctx.Done():
		return 0, c.ctx.Err()
	default:
		return c.r.Read(p)
	}
}

// UnescapeString decodes escape sequences in RDF string literals.
// It handles simple escapes (\n, \t, etc.), Unicode escapes (\uXXXX), and Unicode long escapes (\UXXXXXXXX).
// Surrogate pairs are supported for \uXXXX sequences.
func UnescapeString(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var builder strings.Builder
	pos := 0
	for pos < len(s) {
		ch := s[pos]
		if ch != '\\' {
			builder.WriteByte(ch)
			pos++
			continue
		}
		if pos+1 >= len(s) {
			return "", fmt.Errorf("unterminated escape")
		}
		var advance int
		var err error
		switch next := s[pos+1]; next {
		case 'n', 't', 'r', 'b', 'f', '"', '\'', '\\':
			advance = unescapeSimpleEscape(&builder, next)
		case 'u':
			advance, err = unescapeUnicodeEscape(&builder, s, pos)
		case 'U':
			advance, err = unescapeUnicodeLongEscape(&builder, s, pos)
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c", next)
		}
		if err != nil {
			return "", err
		}
		pos += advance
	}
	return builder.String(), nil
}

func unescapeSimpleEscape(builder *strings.Builder, escapeChar byte) int {
	switch escapeChar {
	case 'n':
		builder.WriteByte('\n')
	case 't':
		builder.WriteByte('\t')
	case 'r':
		builder.WriteByte('\r')
	case 'b':
		builder.WriteByte('\b')
	case 'f':
		builder.WriteByte('\f')
	default:
		builder.WriteByte(escapeChar)
	}
	return 2
}

// unescapeUnicodeEscape handles \uXXXX escape sequences, including surrogate pairs.
func unescapeUnicodeEscape(builder *strings.Builder, s string, pos int) (int, error) {
	if pos+unicodeEscapeLength > len(s) {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	codePoint := decodeUChar(s[pos+2 : pos+unicodeEscapeLength])
	if codePoint < 0 {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	if codePoint >= unicodeSurrogateHighStart && codePoint <= unicodeSurrogateHighEnd {
		return unescapeSurrogatePair(builder, s, pos, codePoint)
	}
	if !isValidUnicodeCodePoint(codePoint) {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	builder.WriteRune(codePoint)
	return unicodeEscapeLength, nil
}

// unescapeSurrogatePair handles surrogate pair escape sequences \uXXXX\uYYYY.
func unescapeSurrogatePair(builder *strings.Builder, s string, pos int, high rune) (int, error) {
	if pos+2*unicodeEscapeLength > len(s) || s[pos+6] != '\\' || s[pos+7] != 'u' {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	low := decodeUChar(s[pos+8 : pos+12])
	if low < unicodeSurrogateLowStart || low > unicodeSurrogateLowEnd {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	combined := unicodeSurrogateBase + ((high - unicodeSurrogateHighStart) << 10) + (low - unicodeSurrogateLowStart)
	builder.WriteRune(combined)
	return 2 * unicodeEscapeLength, nil
}

// unescapeUnicodeLongEscape handles \UXXXXXXXX escape sequences.
func unescapeUnicodeLongEscape(builder *strings.Builder, s string, pos int) (int, error) {
	if pos+unicodeLongEscapeLength > len(s) {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	codePoint := decodeUChar(s[pos+2 : pos+unicodeLongEscapeLength])
	if codePoint < 0 || !isValidUnicodeCodePoint(codePoint) {
		return 0, fmt.Errorf("invalid escape sequence")
	}
	builder.WriteRune(codePoint)
	return unicodeLongEscapeLength, nil
}
