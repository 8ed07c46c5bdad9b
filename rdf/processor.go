package rdf

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/piprate/json-gold/ld"
)

const (
	sniffLength    = 1024
	defaultTimeout = 30 * time.Second
	acceptHeader   = "text/html;q=0.9, application/xhtml+xml, application/rdf+xml;q=0.9, " +
		"application/ld+json;q=0.9, application/n-quads;q=0.8, application/n-triples;q=0.8, image/svg+xml;q=0.7"
)

// Processor picks the event source and handler for a format and runs one
// document through them. A Processor is safe for concurrent use; each call
// builds its own handler. Vocabularies and remote JSON-LD contexts are
// cached across calls.
type Processor struct {
	opts   []Option
	client *http.Client
	vocabs *VocabularyCache
	loader ld.DocumentLoader
}

// NewProcessor returns a processor applying opts to every document.
func NewProcessor(opts ...Option) *Processor {
	return NewProcessorWithClient(&http.Client{Timeout: defaultTimeout}, opts...)
}

// NewProcessorWithClient returns a processor fetching documents,
// vocabularies and remote contexts with client.
func NewProcessorWithClient(client *http.Client, opts ...Option) *Processor {
	var explicit Options
	for _, opt := range opts {
		opt(&explicit)
	}
	p := &Processor{opts: opts, client: client, vocabs: explicit.Vocabularies, loader: explicit.DocumentLoader}
	if p.loader == nil {
		p.loader = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(client))
	}
	if p.vocabs == nil {
		p.vocabs = NewVocabularyCacheWithClient(client)
	}
	return p
}

// Vocabularies returns the vocabulary cache shared by the processor's documents.
func (p *Processor) Vocabularies() *VocabularyCache {
	return p.vocabs
}

func (p *Processor) options(ctx context.Context) []Option {
	opts := make([]Option, 0, len(p.opts)+3)
	opts = append(opts, p.opts...)
	return append(opts, OptContext(ctx), OptVocabularyCache(p.vocabs), OptDocumentLoader(p.loader))
}

// Process reads one document of the given format from r and writes its
// statements to sink. An empty format is detected from the content. base is
// the document IRI.
func (p *Processor) Process(ctx context.Context, r io.Reader, format Format, base string, sink TripleSink) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if format == "" {
		buffered := bufio.NewReaderSize(r, sniffLength)
		sample, _ := buffered.Peek(sniffLength)
		detected, ok := DetectFormat(sample)
		if !ok {
			return fmt.Errorf("%w: cannot detect the format of %s", ErrUnsupportedFormat, base)
		}
		processorLog.Debug("detected format", "base", base, "format", detected)
		format, r = detected, buffered
	}

	opts := p.options(ctx)
	switch format {
	case FormatRDFa:
		return ParseHTML(ctx, r, NewRDFaParser(sink, base, opts...))
	case FormatXHTML:
		return ParseXML(ctx, r, NewRDFaParser(sink, base, opts...))
	case FormatRDFXML:
		return ParseXML(ctx, r, NewRDFXMLParser(sink, base))
	case FormatJSONLD:
		return ParseJSON(ctx, r, NewJSONLDParser(sink, base, opts...))
	case FormatNTriples:
		return NewNTriplesParser(sink).Parse(ctx, r)
	case FormatNQuads:
		return NewNQuadsParser(sink).Parse(ctx, r)
	case FormatBSON:
		return ReadBSON(&contextReader{ctx: ctx, r: r}, sink)
	default:
		return fmt.Errorf("%w: cannot parse %q", ErrUnsupportedFormat, format)
	}
}

// ProcessURL fetches url and processes the response. The format comes from
// the Content-Type header, then the path extension, then the content. The
// final URL after redirects is the document base.
func (p *Processor) ProcessURL(ctx context.Context, url string, sink TripleSink) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	req.Header.Set("Accept", acceptHeader)
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	base := resp.Request.URL.String()
	format, ok := FormatForMediaType(resp.Header.Get("Content-Type"))
	if !ok || !format.CanParse() {
		if format, ok = FormatForPath(resp.Request.URL.Path); !ok || !format.CanParse() {
			format = ""
		}
	}
	processorLog.Info("processing document", "url", base, "format", format)
	return p.Process(ctx, resp.Body, format, base, sink)
}

// Parse processes one document with default options and calls handler for
// every statement.
func Parse(ctx context.Context, r io.Reader, format Format, base string, handler Handler) error {
	return NewProcessor().Process(ctx, r, format, base, NewHandlerSink(handler))
}
