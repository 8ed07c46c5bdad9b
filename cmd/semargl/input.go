package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/semarglproject/semargl-sub000/rdf"
	"github.com/spf13/cobra"
)

const stdinBase = "http://localhost/"

// processingFlags are the options shared by commands that read documents.
type processingFlags struct {
	format         string
	base           string
	rdfaVersion    string
	processorGraph bool
	vocabExpansion bool
	outputGraph    bool
}

func (f *processingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "input format (rdfa, xhtml, rdfxml, jsonld, ntriples, nquads, bson); detected when empty")
	cmd.Flags().StringVar(&f.base, "base", "", "document base IRI (defaults to the file or URL)")
	cmd.Flags().StringVar(&f.rdfaVersion, "rdfa-version", "1.1", "default RDFa version (1.0 or 1.1)")
	cmd.Flags().BoolVar(&f.processorGraph, "processor-graph", false, "emit processor graph statements")
	cmd.Flags().BoolVar(&f.vocabExpansion, "vocab-expansion", false, "expand statements over vocabulary synonyms")
	cmd.Flags().BoolVar(&f.outputGraph, "output-graph", true, "emit document statements")
}

func (f *processingFlags) options() ([]rdf.Option, error) {
	version, ok := rdf.ParseRDFaVersion(f.rdfaVersion)
	if !ok {
		return nil, fmt.Errorf("unknown RDFa version: %s (expected 1.0 or 1.1)", f.rdfaVersion)
	}
	return []rdf.Option{
		rdf.OptRDFaVersion(version),
		rdf.OptProcessorGraph(f.processorGraph),
		rdf.OptVocabExpansion(f.vocabExpansion),
		rdf.OptOutputGraph(f.outputGraph),
	}, nil
}

func (f *processingFlags) inputFormat() (rdf.Format, error) {
	if f.format == "" {
		return "", nil
	}
	format, ok := rdf.ParseFormat(f.format)
	if !ok || !format.CanParse() {
		return "", fmt.Errorf("unsupported input format: %s", f.format)
	}
	return format, nil
}

func isURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// process runs one source (a file, an http(s) URL or "-" for stdin)
// through p into sink.
func process(ctx context.Context, p *rdf.Processor, source string, flags *processingFlags, sink rdf.TripleSink) error {
	format, err := flags.inputFormat()
	if err != nil {
		return err
	}
	if isURL(source) && format == "" && flags.base == "" {
		return p.ProcessURL(ctx, source, sink)
	}

	var in *os.File
	base := flags.base
	switch {
	case source == "-":
		in = os.Stdin
		if base == "" {
			base = stdinBase
		}
	case isURL(source):
		return fmt.Errorf("--format and --base are not supported for URLs: %s", source)
	default:
		in, err = os.Open(source)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer in.Close()
		if base == "" {
			base = fileBase(source)
		}
		if format == "" {
			if byPath, ok := rdf.FormatForPath(source); ok && byPath.CanParse() {
				format = byPath
			}
		}
	}
	return p.Process(ctx, in, format, base, sink)
}

func fileBase(name string) string {
	abs, err := filepath.Abs(name)
	if err != nil {
		abs = name
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// parsePrefixes reads prefix=namespace pairs.
func parsePrefixes(values []string) (map[string]string, error) {
	prefixes := make(map[string]string, len(values))
	for _, value := range values {
		prefix, ns, ok := strings.Cut(value, "=")
		if !ok || ns == "" {
			return nil, fmt.Errorf("invalid prefix %q (expected prefix=namespace)", value)
		}
		prefixes[prefix] = ns
	}
	return prefixes, nil
}

func outputFormat(value string) (rdf.Format, error) {
	format, ok := rdf.ParseFormat(value)
	if !ok || !format.CanSerialize() {
		return "", fmt.Errorf("unsupported output format: %s (expected ntriples, nquads, turtle or bson)", value)
	}
	return format, nil
}
