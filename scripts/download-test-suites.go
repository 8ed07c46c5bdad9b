//go:build ignore

// Downloads the RDFa, JSON-LD and RDF test suites used for manual
// conformance runs of the processors:
//
//	go run scripts/download-test-suites.go ./testdata/suites
package main

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// testSuite is one archive and the directories kept from it.
type testSuite struct {
	name        string
	description string
	url         string
	subdirs     []string // paths inside the archive, relative to its top directory
}

var testSuites = []testSuite{
	{
		name:        "rdfa",
		description: "RDFa Core test suite",
		url:         "https://github.com/rdfa/rdfa.github.io/archive/refs/heads/master.zip",
		subdirs:     []string{"test-suite/test-cases"},
	},
	{
		name:        "jsonld",
		description: "JSON-LD API test suite (toRdf)",
		url:         "https://github.com/w3c/json-ld-api/archive/refs/heads/main.zip",
		subdirs:     []string{"tests/toRdf"},
	},
	{
		name:        "rdf",
		description: "RDF 1.1 test suites (RDF/XML, N-Triples, N-Quads)",
		url:         "https://github.com/w3c/rdf-tests/archive/refs/heads/main.zip",
		subdirs:     []string{"rdf/rdf11/rdf-xml", "rdf/rdf11/rdf-n-triples", "rdf/rdf11/rdf-n-quads"},
	},
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <output-directory>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nThe directory will contain rdfa/, jsonld/ and rdf/.\n")
		os.Exit(1)
	}

	outputDir := os.Args[1]
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	failed := false
	for _, suite := range testSuites {
		fmt.Printf("Downloading %s...\n", suite.description)
		n, err := downloadTestSuite(suite, outputDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error downloading %s: %v\n", suite.name, err)
			failed = true
			continue
		}
		fmt.Printf("  %d files in %s\n", n, filepath.Join(outputDir, suite.name))
	}
	if failed {
		os.Exit(1)
	}
}

func downloadTestSuite(suite testSuite, outputDir string) (int, error) {
	tmp, err := os.CreateTemp("", suite.name+"-*.zip")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	resp, err := http.Get(suite.url)
	if err != nil {
		return 0, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to save download: %w", err)
	}

	r, err := zip.NewReader(tmp, size)
	if err != nil {
		return 0, err
	}
	return extract(r, filepath.Join(outputDir, suite.name), suite.subdirs)
}

// extract copies the files under subdirs, dropping the archive's top
// directory and the subdir prefix.
func extract(r *zip.Reader, dest string, subdirs []string) (int, error) {
	n := 0
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		_, name, ok := strings.Cut(f.Name, "/")
		if !ok {
			continue
		}
		for _, subdir := range subdirs {
			rel, ok := strings.CutPrefix(name, subdir+"/")
			if !ok {
				continue
			}
			target := filepath.Join(dest, filepath.Base(subdir), filepath.FromSlash(rel))
			if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
				return n, fmt.Errorf("illegal path in archive: %s", f.Name)
			}
			if err := copyFile(f, target); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func copyFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
