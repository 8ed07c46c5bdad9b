package rdf

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"
	"github.com/pquerna/cachecontrol"
	"golang.org/x/sync/singleflight"
)

const maxVocabularySize = 8 << 20

var xpRDFRoot = xpath.MustCompile(`/*[local-name()='RDF' and namespace-uri()='` + RDFNS + `']`)

// Vocabulary is an RDFa vocabulary referenced by @vocab. A loaded vocabulary
// knows its terms and the one-hop expansions stated by its document; an
// unloaded one accepts any term forming an absolute IRI.
type Vocabulary struct {
	URL string

	expansions map[string][]string
	terms      map[string]bool
	expires    time.Time
}

// NewVocabulary returns an unloaded vocabulary for url.
func NewVocabulary(url string) *Vocabulary {
	return &Vocabulary{URL: url}
}

// Loaded reports whether terms were read from the vocabulary document.
func (v *Vocabulary) Loaded() bool {
	return v.terms != nil
}

// Expand returns the IRIs iri expands to.
func (v *Vocabulary) Expand(iri string) []string {
	return v.expansions[iri]
}

// ResolveTerm resolves a bare term against the vocabulary.
func (v *Vocabulary) ResolveTerm(term string) (string, bool) {
	iri := v.URL + term
	if v.terms == nil {
		return iri, IsAbsoluteIRI(iri)
	}
	return iri, v.terms[iri]
}

// Terms returns the known terms in lexical order.
func (v *Vocabulary) Terms() []string {
	terms := make([]string, 0, len(v.terms))
	for term := range v.terms {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Expansions returns a copy of the expansion table.
func (v *Vocabulary) Expansions() map[string][]string {
	out := make(map[string][]string, len(v.expansions))
	for iri, targets := range v.expansions {
		out[iri] = append([]string(nil), targets...)
	}
	return out
}

func (v *Vocabulary) addExpansion(from, to string) {
	for _, existing := range v.expansions[from] {
		if existing == to {
			return
		}
	}
	v.expansions[from] = append(v.expansions[from], to)
}

// vocabularySink collects terms and expansions from vocabulary statements.
type vocabularySink struct {
	v *Vocabulary
}

func (s vocabularySink) StartStream() error { return nil }
func (s vocabularySink) EndStream() error   { return nil }

func (s vocabularySink) AddNonLiteral(subject, predicate, object string) {
	if isBnode(subject) || isBnode(object) {
		return
	}
	v := s.v
	switch predicate {
	case OWLEquivalentProperty, OWLEquivalentClass:
		v.addExpansion(subject, object)
		v.addExpansion(object, subject)
		v.terms[subject] = true
		v.terms[object] = true
	case RDFSSubClassOf, RDFSSubPropertyOf:
		v.addExpansion(subject, object)
		v.terms[subject] = true
		v.terms[object] = true
	case RDFType:
		if object == RDFProperty || object == RDFSClass {
			v.terms[subject] = true
		}
	}
}

func (s vocabularySink) AddPlainLiteral(string, string, string, string) {}
func (s vocabularySink) AddTypedLiteral(string, string, string, string) {}

// VocabularyCache loads vocabularies over HTTP and keeps them until the
// expiry advertised by the response caching headers. It is safe for
// concurrent use; concurrent lookups of one URL share a single fetch.
type VocabularyCache struct {
	client *http.Client
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]*Vocabulary
	group   singleflight.Group
}

// NewVocabularyCache creates a cache fetching with http.DefaultClient.
func NewVocabularyCache() *VocabularyCache {
	return NewVocabularyCacheWithClient(http.DefaultClient)
}

// NewVocabularyCacheWithClient creates a cache fetching with client.
func NewVocabularyCacheWithClient(client *http.Client) *VocabularyCache {
	return &VocabularyCache{
		client:  client,
		now:     time.Now,
		entries: make(map[string]*Vocabulary),
	}
}

// Find returns the vocabulary for url, loading it when it is not cached or
// has expired.
func (c *VocabularyCache) Find(ctx context.Context, url string) (*Vocabulary, error) {
	c.mu.RLock()
	v, ok := c.entries[url]
	c.mu.RUnlock()
	if ok && (v.expires.IsZero() || c.now().Before(v.expires)) {
		return v, nil
	}

	res, err, _ := c.group.Do(url, func() (any, error) {
		v, err := c.load(ctx, url)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[url] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*Vocabulary), nil
}

// Put stores a vocabulary, replacing any cached entry for its URL.
func (c *VocabularyCache) Put(v *Vocabulary) {
	c.mu.Lock()
	c.entries[v.URL] = v
	c.mu.Unlock()
}

// Len returns the number of cached vocabularies.
func (c *VocabularyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *VocabularyCache) load(ctx context.Context, url string) (*Vocabulary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "vocabulary %s", url)
	}
	req.Header.Set("Accept", "application/xhtml+xml, text/html;q=0.9, application/rdf+xml;q=0.8, application/ld+json;q=0.7")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching vocabulary %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching vocabulary %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVocabularySize))
	if err != nil {
		return nil, errors.Wrapf(err, "reading vocabulary %s", url)
	}

	v := &Vocabulary{URL: url, expansions: make(map[string][]string), terms: make(map[string]bool)}
	if reasons, expires, err := cachecontrol.CachableResponse(req, resp, cachecontrol.Options{}); err == nil && len(reasons) == 0 {
		v.expires = expires
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err := parseVocabulary(ctx, body, mediaType, v); err != nil {
		vocabLog.Warning("vocabulary parsed with errors", "url", url, "error", err)
	}
	if len(v.terms) == 0 && len(v.expansions) == 0 {
		v.terms = nil
		v.expansions = nil
	}
	vocabLog.Info("vocabulary loaded", "url", url, "terms", len(v.terms), "expires", v.expires)
	return v, nil
}

// parseVocabulary reads a vocabulary document as JSON-LD, RDF/XML or RDFa.
// RDFa documents yielding nothing are retried as RDF/XML.
func parseVocabulary(ctx context.Context, body []byte, mediaType string, v *Vocabulary) error {
	sink := vocabularySink{v: v}
	switch mediaType {
	case "application/ld+json", "application/json":
		return ParseJSON(ctx, bytes.NewReader(body), NewJSONLDParser(sink, v.URL))
	case "application/rdf+xml":
		return ParseXML(ctx, bytes.NewReader(body), NewRDFXMLParser(sink, v.URL))
	}

	doc, xmlErr := xmlquery.Parse(bytes.NewReader(body))
	if xmlErr == nil && xmlquery.QuerySelector(doc, xpRDFRoot) != nil {
		return ParseXML(ctx, bytes.NewReader(body), NewRDFXMLParser(sink, v.URL))
	}

	rdfa := NewRDFaParser(sink, v.URL, OptDiagnostics(quietDiagnostics{}))
	var err error
	if xmlErr == nil && mediaType != "text/html" {
		err = ParseXML(ctx, bytes.NewReader(body), rdfa)
	} else {
		err = ParseHTML(ctx, bytes.NewReader(body), rdfa)
	}
	if len(v.terms) == 0 && len(v.expansions) == 0 && xmlErr == nil {
		return ParseXML(ctx, bytes.NewReader(body), NewRDFXMLParser(sink, v.URL))
	}
	return err
}

// quietDiagnostics discards the diagnostics of vocabulary documents.
type quietDiagnostics struct{}

func (quietDiagnostics) Info(string, string)    {}
func (quietDiagnostics) Warning(string, string) {}
func (quietDiagnostics) Error(string, string)   {}
