package rdf

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// autodetectDatatype marks HTML5 <time> and @datetime values whose datatype
// is derived from the lexical form. It cannot collide with a resolved IRI.
const autodetectDatatype = "?autodetect"

var (
	durationPattern   = regexp.MustCompile(`^-?P\d+Y\d+M\d+DT\d+H\d+M\d+(\.\d+)?S$`)
	gYearPattern      = regexp.MustCompile(`^-?\d{4,}$`)
	gYearMonthPattern = regexp.MustCompile(`^-?\d{4,}-(0[1-9]|1[0-2])$`)
	dateTimePattern   = regexp.MustCompile(`^(-?\d{4,}-\d{2}-\d{2})T(\d{2}:\d{2}:\d{2}(\.\d+)?)(Z|[+-]\d{2}:\d{2})?$`)
	timePattern       = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}(\.\d+)?)(Z|[+-]\d{2}:\d{2})?$`)
	datePattern       = regexp.MustCompile(`^(-?\d{4,}-\d{2}-\d{2})(Z|[+-]\d{2}:\d{2})?$`)
)

// rdfaObject is a resolved object: a node or a literal.
type rdfaObject struct {
	value    string
	literal  bool
	lang     string
	datatype string // "" for plain literals
}

func resourceObject(iri string) rdfaObject {
	return rdfaObject{value: iri}
}

func plainObject(content, lang string) rdfaObject {
	return rdfaObject{value: content, literal: true, lang: lang}
}

// typedObject builds a typed literal, resolving the autodetect marker.
func typedObject(content, datatype string) (rdfaObject, error) {
	if datatype == autodetectDatatype {
		detected, err := detectDateDatatype(content)
		if err != nil {
			return rdfaObject{}, err
		}
		datatype = detected
	}
	return rdfaObject{value: content, literal: true, datatype: datatype}, nil
}

// typedOrPlainObject falls back to a plain literal when the lexical form does
// not fit an autodetected datatype.
func typedOrPlainObject(content, datatype, lang string) rdfaObject {
	obj, err := typedObject(content, datatype)
	if err != nil {
		return plainObject(content, lang)
	}
	return obj
}

// detectDateDatatype picks xsd:duration, dateTime, time, gYear, gYearMonth
// or date for an HTML5 temporal value.
func detectDateDatatype(content string) (string, error) {
	switch {
	case durationPattern.MatchString(content):
		return XSDDuration, nil
	case strings.Contains(content, ":"):
		if strings.Contains(content, "T") {
			if m := dateTimePattern.FindStringSubmatch(content); m != nil && validDate(m[1]) && validClock(m[2]) {
				return XSDDateTime, nil
			}
		} else if m := timePattern.FindStringSubmatch(content); m != nil && validClock(m[1]) {
			return XSDTime, nil
		}
	case gYearPattern.MatchString(content):
		return XSDGYear, nil
	case gYearMonthPattern.MatchString(content):
		return XSDGYearMonth, nil
	default:
		if m := datePattern.FindStringSubmatch(content); m != nil && validDate(m[1]) {
			return XSDDate, nil
		}
	}
	return "", fmt.Errorf("ill-formed typed literal %q^^<%s>", content, autodetectDatatype)
}

func validDate(value string) bool {
	value = strings.TrimPrefix(value, "-")
	idx := strings.IndexByte(value, '-')
	if idx < 4 {
		return false
	}
	// Normalize the year so time.Parse accepts years outside 0000-9999.
	_, err := time.Parse("2006-01-02", "2000"+value[idx:])
	if err != nil {
		return false
	}
	if value[idx:] == "-02-29" {
		_, err = time.Parse("2006-01-02", leapProbe(value[:idx])+"-02-29")
	}
	return err == nil
}

// leapProbe maps a year onto a four digit year with the same leap status.
func leapProbe(year string) string {
	n := 0
	for _, ch := range year {
		n = (n*10 + int(ch-'0')) % 400
	}
	return fmt.Sprintf("%04d", 2000+n)
}

func validClock(value string) bool {
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		value = value[:idx]
	}
	if value == "24:00:00" {
		return true
	}
	_, err := time.Parse("15:04:05", value)
	return err == nil
}
