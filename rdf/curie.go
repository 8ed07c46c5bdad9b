package rdf

import "strings"

// knownPrefixes is the RDFa 1.1 initial context.
var knownPrefixes = map[string]string{
	// W3C vocabularies
	"owl":    OWLNS,
	"rdf":    RDFNS,
	"rdfs":   RDFSNS,
	"rdfa":   RDFaNS,
	"xhv":    XHTMLVocab,
	"xsd":    XSDNS,
	"grddl":  "http://www.w3.org/2003/g/data-view#",
	"ma":     "http://www.w3.org/ns/ma-ont#",
	"rif":    "http://www.w3.org/2007/rif#",
	"skos":   "http://www.w3.org/2004/02/skos/core#",
	"skosxl": "http://www.w3.org/2008/05/skos-xl#",
	"wdr":    "http://www.w3.org/2007/05/powder#",
	"void":   "http://rdfs.org/ns/void#",
	"wdrs":   PowderVocab,
	"xml":    XMLNS,

	// widely used vocabularies
	"cc":      "http://creativecommons.org/ns#",
	"ctag":    "http://commontag.org/ns#",
	"dc":      "http://purl.org/dc/terms/",
	"dcterms": "http://purl.org/dc/terms/",
	"foaf":    "http://xmlns.com/foaf/0.1/",
	"gr":      "http://purl.org/goodrelations/v1#",
	"ical":    "http://www.w3.org/2002/12/cal/icaltzd#",
	"og":      "http://ogp.me/ns#",
	"rev":     "http://purl.org/stuff/rev#",
	"sioc":    "http://rdfs.org/sioc/ns#",
	"v":       "http://rdf.data-vocabulary.org/#",
	"vcard":   "http://www.w3.org/2006/vcard/ns#",
	"schema":  "http://schema.org/",
}

var xhtmlTerms = []string{
	// XHTML metainformation vocabulary
	"alternate", "appendix", "bookmark", "cite", "chapter", "contents",
	"copyright", "first", "glossary", "help", "icon", "index", "itsRules",
	"last", "license", "meta", "next", "p3pv1", "prev", "previous", "role",
	"section", "stylesheet", "subsection", "start", "top", "up",

	// XHTML role module
	"banner", "complementary", "contentinfo", "definition", "main",
	"navigation", "note", "search",

	// WAI-ARIA roles
	"alert", "alertdialog", "application", "article", "button", "checkbox",
	"columnheader", "combobox", "dialog", "directory", "document", "form",
	"grid", "gridcell", "group", "heading", "img", "link", "list", "listbox",
	"listitem", "log", "marquee", "math", "menu", "menubar", "menuitem",
	"menuitemcheckbox", "menuitemradio", "option", "presentation",
	"progressbar", "radio", "radiogroup", "region", "row", "rowgroup",
	"rowheader", "scrollbar", "separator", "slider", "spinbutton", "status",
	"tab", "tablist", "tabpanel", "textbox", "timer", "toolbar", "tooltip",
	"tree", "treegrid", "treeitem",
}

var powderTerms = []string{
	"text", "issuedby", "matchesregex", "notmatchesregex", "hasIRI", "tag",
	"notknownto", "describedby", "authenticate", "validfrom", "validuntil",
	"logo", "sha1sum", "certified", "certifiedby", "supportedby",
	"data_error", "proc_error", "error_code",
}

// KnownPrefixes returns a copy of the RDFa 1.1 initial context prefix table.
func KnownPrefixes() map[string]string {
	out := make(map[string]string, len(knownPrefixes))
	for prefix, ns := range knownPrefixes {
		out[prefix] = ns
	}
	return out
}

// ResolveXHTMLTerm resolves a bare XHTML vocabulary term (case-insensitive).
func ResolveXHTMLTerm(term string) (string, bool) {
	return resolveFixedTerm(term, xhtmlTerms, XHTMLVocab)
}

// ResolvePowderTerm resolves a bare POWDER vocabulary term (case-insensitive).
func ResolvePowderTerm(term string) (string, bool) {
	return resolveFixedTerm(term, powderTerms, PowderVocab)
}

func resolveFixedTerm(term string, terms []string, ns string) (string, bool) {
	for _, candidate := range terms {
		if strings.EqualFold(candidate, term) {
			return ns + candidate, true
		}
	}
	return "", false
}

// ResolveCURIE expands a CURIE, optionally wrapped in safe-CURIE brackets,
// against mappings. The known-prefix table is consulted for unmapped prefixes
// only when allowKnownPrefixes is set. The "_" prefix is reserved for blank
// nodes and always fails, as does a value without a prefix delimiter.
func ResolveCURIE(curie string, mappings map[string]string, allowKnownPrefixes bool) (string, error) {
	if isSafeCURIE(curie) {
		curie = curie[1 : len(curie)-1]
	}
	if curie == "" {
		return "", malformedCURIE("empty CURIE", curie)
	}
	idx := strings.IndexByte(curie, ':')
	if idx < 0 {
		return "", malformedCURIE("CURIE with no prefix", curie)
	}
	prefix, local := curie[:idx], curie[idx+1:]
	if prefix == "_" {
		return "", malformedCURIE("CURIE with '_' prefix", curie)
	}
	if ns, ok := mappings[prefix]; ok {
		return ns + local, nil
	}
	if allowKnownPrefixes {
		if ns, ok := mappings[strings.ToLower(prefix)]; ok {
			return ns + local, nil
		}
		if ns, ok := knownPrefixes[strings.ToLower(prefix)]; ok {
			return ns + local, nil
		}
	}
	return "", malformedCURIE("unknown prefix", curie)
}

// isSafeCURIE reports whether value is wrapped in safe-CURIE brackets.
func isSafeCURIE(value string) bool {
	return len(value) > 1 && value[0] == '[' && value[len(value)-1] == ']'
}
