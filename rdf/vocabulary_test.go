package rdf

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// vocabularyServer serves a JSON-LD vocabulary at /vocab/ declaring
// name as a sub-property of label, and an RDF/XML one at /owl.
func vocabularyServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/vocab/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/ld+json")
		w.Header().Set("Cache-Control", "max-age=60")
		fmt.Fprintf(w, `{
			"@context": {"rdfs": "http://www.w3.org/2000/01/rdf-schema#"},
			"@graph": [{"@id": "%[1]s/vocab/name", "rdfs:subPropertyOf": {"@id": "%[1]s/vocab/label"}}]
		}`, srv.URL)
	})
	mux.HandleFunc("/owl", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/rdf+xml")
		fmt.Fprintf(w, `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="%s" xmlns:owl="%s">
  <rdf:Description rdf:about="http://a.example/title">
    <owl:equivalentProperty rdf:resource="http://b.example/name"/>
  </rdf:Description>
</rdf:RDF>`, RDFNS, OWLNS)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestVocabularyCacheLoadsJSONLD(t *testing.T) {
	var hits int32
	srv := vocabularyServer(t, &hits)
	cache := NewVocabularyCacheWithClient(srv.Client())

	v, err := cache.Find(context.Background(), srv.URL+"/vocab/")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Loaded() {
		t.Fatal("vocabulary not loaded")
	}
	want := []string{srv.URL + "/vocab/label", srv.URL + "/vocab/name"}
	if got := v.Terms(); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("terms = %v, want %v", got, want)
	}
	if got := v.Expand(srv.URL + "/vocab/name"); len(got) != 1 || got[0] != srv.URL+"/vocab/label" {
		t.Fatalf("expansion = %v", got)
	}
	if _, ok := v.ResolveTerm("unknown"); ok {
		t.Fatal("a loaded vocabulary only resolves its own terms")
	}
}

func TestVocabularyCacheLoadsRDFXML(t *testing.T) {
	var hits int32
	srv := vocabularyServer(t, &hits)
	v, err := NewVocabularyCacheWithClient(srv.Client()).Find(context.Background(), srv.URL+"/owl")
	if err != nil {
		t.Fatal(err)
	}
	expansions := v.Expansions()
	if got := expansions["http://a.example/title"]; len(got) != 1 || got[0] != "http://b.example/name" {
		t.Fatalf("forward expansion = %v", got)
	}
	if got := expansions["http://b.example/name"]; len(got) != 1 || got[0] != "http://a.example/title" {
		t.Fatalf("reverse expansion = %v", got)
	}
}

func TestVocabularyCacheHonoursExpiry(t *testing.T) {
	var hits int32
	srv := vocabularyServer(t, &hits)
	cache := NewVocabularyCacheWithClient(srv.Client())
	url := srv.URL + "/vocab/"

	for i := 0; i < 3; i++ {
		if _, err := cache.Find(context.Background(), url); err != nil {
			t.Fatal(err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected one fetch while fresh, got %d", n)
	}

	cache.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := cache.Find(context.Background(), url); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Fatalf("expected a refetch after expiry, got %d fetches", n)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", cache.Len())
	}
}

func TestVocabularyCacheErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	cache := NewVocabularyCacheWithClient(srv.Client())
	if _, err := cache.Find(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected an error for a missing vocabulary")
	}
	if cache.Len() != 0 {
		t.Fatal("failed loads must not be cached")
	}
}

func TestRDFaVocabularyExpansion(t *testing.T) {
	var hits int32
	srv := vocabularyServer(t, &hits)
	cache := NewVocabularyCacheWithClient(srv.Client())
	input := `<html><body><div vocab="` + srv.URL + `/vocab/" about="http://example.com/a">` +
		`<span property="name">Ada</span></div></body></html>`

	quads := parseHTMLString(t, input, OptVocabExpansion(true), OptVocabularyCache(cache))
	want := []string{
		`<http://example.com/> <` + RDFaUsesVocabulary + `> <` + srv.URL + `/vocab/> .`,
		`<http://example.com/a> <` + srv.URL + `/vocab/label> "Ada" .`,
		`<http://example.com/a> <` + srv.URL + `/vocab/name> "Ada" .`,
	}
	sort.Strings(want)
	if got := sortedLines(t, quads); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestRDFaUnreachableVocabularyWarns(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	recorder := &DiagnosticRecorder{}
	input := `<div vocab="` + srv.URL + `/gone/" about="http://example.com/a"><span property="name">Ada</span></div>`

	quads := parseHTMLString(t, input, OptVocabExpansion(true),
		OptVocabularyCache(NewVocabularyCacheWithClient(srv.Client())), OptDiagnostics(recorder))
	if !containsLine(lines(t, quads), `<http://example.com/a> <`+srv.URL+`/gone/name> "Ada" .`) {
		t.Fatalf("terms of an unreachable vocabulary still resolve, got %v", lines(t, quads))
	}
	var warned bool
	for _, d := range recorder.Diagnostics {
		warned = warned || (d.Level == "warning" && d.Class == RDFaWarning)
	}
	if !warned {
		t.Fatalf("expected a warning, got %+v", recorder.Diagnostics)
	}
}
