package rdf

import (
	"net/url"
	"regexp"
	"strings"
)

// The IRI grammar is approximated with regular expressions; full RFC 3987
// validation is out of scope.
var (
	hierarchicalIRIPattern = regexp.MustCompile(`(?s)^[a-zA-Z][a-zA-Z0-9+.-]*:` + // scheme
		`//?(([^/?#@]*)@)?` + // user
		`(\[[^@/?#]+\]|([^@/?#:]*))` + // host
		`(:([^/?#]*))?` + // port
		`([^#?]*)?` + // path
		`(\?([^#]*))?` + // query
		`(#[^#]*)?$`) // fragment
	opaqueIRIPattern = regexp.MustCompile(`(?s)^[a-zA-Z][a-zA-Z0-9+.-]*:[^#/][^#]*$`)
	urnPattern       = regexp.MustCompile(`(?s)^urn:[a-zA-Z0-9][a-zA-Z0-9-]{1,31}:.+$`)
)

// IsIRI reports whether value is an absolute IRI, hierarchical or opaque.
func IsIRI(value string) bool {
	return hierarchicalIRIPattern.MatchString(value) || opaqueIRIPattern.MatchString(value)
}

// IsAbsoluteIRI reports whether value is an absolute hierarchical IRI
// (scheme followed by an authority).
func IsAbsoluteIRI(value string) bool {
	return hierarchicalIRIPattern.MatchString(value)
}

// IsURN reports whether value is a URN.
func IsURN(value string) bool {
	return urnPattern.MatchString(value)
}

// ResolveIRI resolves ref against base. Absolute IRIs and URNs are returned
// unchanged. An empty ref or a query-only ref is appended to base (minus a
// trailing '#'). Everything else goes through RFC 3986 reference resolution,
// falling back to plain concatenation; the result must be an absolute IRI.
func ResolveIRI(base, ref string) (string, error) {
	if IsIRI(ref) || IsURN(ref) {
		return ref, nil
	}
	if ref == "" || strings.HasPrefix(ref, "?") {
		return strings.TrimSuffix(base, "#") + ref, nil
	}
	result, ok := resolveReference(base, ref)
	if !ok {
		result = base + ref
	}
	if IsIRI(result) {
		return result, nil
	}
	return "", malformedIRI(ref)
}

// resolveReference resolves a relative IRI against a base IRI according to RFC 3986.
func resolveReference(baseStr, relative string) (string, bool) {
	baseURL, err := url.Parse(baseStr)
	if err != nil || baseURL.Scheme == "" {
		return "", false
	}
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", false
	}
	if relURL.Scheme != "" {
		return relative, true
	}
	return baseURL.ResolveReference(relURL).String(), true
}
