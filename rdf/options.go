package rdf

import (
	"context"

	"github.com/piprate/json-gold/ld"
)

// Option configures a processor.
type Option func(*Options)

// Options configures RDFa, RDF/XML and JSON-LD processing.
type Options struct {
	// Context bounds network access made on behalf of a document
	// (vocabularies, remote JSON-LD contexts).
	Context context.Context

	// RDFaVersion is the default RDFa version. Documents may switch to 1.0
	// through their DOCTYPE or <html version>.
	RDFaVersion RDFaVersion
	// EnableOutputGraph controls emission of the statements found in the document.
	EnableOutputGraph bool
	// EnableProcessorGraph adds diagnostic statements to the output. Forces RDFa 1.1.
	EnableProcessorGraph bool
	// EnableVocabExpansion fans out statements over vocabulary synonyms. Forces RDFa 1.1.
	EnableVocabExpansion bool

	// Vocabularies caches vocabularies referenced by @vocab.
	// A private cache is created when nil.
	Vocabularies *VocabularyCache
	// DocumentLoader fetches remote JSON-LD contexts. Remote contexts are
	// ignored when nil.
	DocumentLoader ld.DocumentLoader
	// Diagnostics receives processor diagnostics. Defaults to logging.
	Diagnostics DiagnosticHandler
}

func defaultOptions() Options {
	return Options{
		Context:           context.Background(),
		RDFaVersion:       RDFa11,
		EnableOutputGraph: true,
		Diagnostics:       LogDiagnostics{},
	}
}

func newOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.EnableProcessorGraph || options.EnableVocabExpansion {
		options.RDFaVersion = RDFa11
	}
	if options.Context == nil {
		options.Context = context.Background()
	}
	if options.Vocabularies == nil {
		options.Vocabularies = NewVocabularyCache()
	}
	if options.Diagnostics == nil {
		options.Diagnostics = LogDiagnostics{}
	}
	return options
}

// OptContext sets the context used for network access.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptRDFaVersion sets the default RDFa version.
func OptRDFaVersion(version RDFaVersion) Option {
	return func(opts *Options) {
		opts.RDFaVersion = version
	}
}

// OptOutputGraph enables or disables the output graph.
func OptOutputGraph(enabled bool) Option {
	return func(opts *Options) {
		opts.EnableOutputGraph = enabled
	}
}

// OptProcessorGraph enables or disables the processor graph.
func OptProcessorGraph(enabled bool) Option {
	return func(opts *Options) {
		opts.EnableProcessorGraph = enabled
	}
}

// OptVocabExpansion enables or disables vocabulary expansion.
func OptVocabExpansion(enabled bool) Option {
	return func(opts *Options) {
		opts.EnableVocabExpansion = enabled
	}
}

// OptVocabularyCache shares a vocabulary cache between processors.
func OptVocabularyCache(cache *VocabularyCache) Option {
	return func(opts *Options) {
		opts.Vocabularies = cache
	}
}

// OptDocumentLoader sets the loader for remote JSON-LD contexts.
func OptDocumentLoader(loader ld.DocumentLoader) Option {
	return func(opts *Options) {
		opts.DocumentLoader = loader
	}
}

// OptDiagnostics sets the diagnostic handler.
func OptDiagnostics(handler DiagnosticHandler) Option {
	return func(opts *Options) {
		opts.Diagnostics = handler
	}
}
