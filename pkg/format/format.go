// Package format converts playlists between PLS and structured documents.
package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/macropower/pls/pkg/pls"
	"github.com/macropower/pls/pkg/yaml"
)

//go:generate go run ../../internal/schemagen -o document.json document

// Format is a playlist serialization format.
type Format string

const (
	FormatPLS  Format = "pls"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"

	schemaID = "https://raw.githubusercontent.com/macropower/pls/refs/heads/main/pkg/format/document.json"
)

var (
	ErrUnknownFormat = errors.New("unknown format")

	AllFormats = []string{
		string(FormatPLS),
		string(FormatYAML),
		string(FormatJSON),
	}

	documentSchema = yaml.NewSchemaGenerator(&Document{}, schemaID)

	documentValidator = sync.OnceValues(documentSchema.Validator)
)

// Document is the structured (YAML or JSON) representation of a playlist.
type Document struct {
	Entries []pls.Element `json:"entries" yaml:"entries" jsonschema:"title=Entries"`
}

// Schema returns the JSON schema of [Document].
func Schema() ([]byte, error) {
	return documentSchema.Generate() //nolint:wrapcheck // Return the original error.
}

// Parse returns the [Format] named by s. Common file extensions are accepted.
func Parse(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(s), "."))
	switch f {
	case "yml":
		return FormatYAML, nil
	case FormatPLS, FormatYAML, FormatJSON:
		return f, nil
	}

	return "", fmt.Errorf("%w: %q, must be one of %v", ErrUnknownFormat, s, AllFormats)
}

// FromPath guesses the [Format] from a file name, defaulting to [FormatPLS].
func FromPath(path string) Format {
	i := strings.LastIndexByte(path, '.')
	if i == -1 {
		return FormatPLS
	}

	f, err := Parse(path[i:])
	if err != nil {
		return FormatPLS
	}

	return f
}

// Encode writes elements to w in format f.
func Encode(w io.Writer, f Format, elements []pls.Element) error {
	if elements == nil {
		elements = []pls.Element{}
	}

	switch f {
	case FormatPLS:
		return pls.Write(w, elements) //nolint:wrapcheck // Return the original error.

	case FormatYAML:
		enc := yaml.NewEncoder(w)

		err := enc.Encode(Document{Entries: elements})
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)

		err := enc.Encode(Document{Entries: elements})
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Decode reads elements in format f from r. Structured documents are
// validated against the [Document] schema first, so errors point at the
// offending entry.
func Decode(r io.Reader, f Format, opts ...pls.ParseOpt) ([]pls.Element, error) {
	if f == FormatPLS {
		return pls.Parse(r, opts...) //nolint:wrapcheck // Return the original error.
	}
	if !slices.Contains(AllFormats, string(f)) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f, err)
	}

	// YAML is a superset of JSON, so one decoder serves both.
	ew := yaml.NewErrorWrapper(yaml.WithSource(data))

	var raw any

	err = yaml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	if err != nil {
		return nil, ew.Wrap(err)
	}

	v, err := documentValidator()
	if err != nil {
		return nil, fmt.Errorf("create document validator: %w", err)
	}

	err = v.Validate(raw)
	if err != nil {
		return nil, ew.Wrap(err)
	}

	doc := &Document{}

	err = yaml.NewDecoder(bytes.NewReader(data)).Decode(doc)
	if err != nil {
		return nil, ew.Wrap(err)
	}
	if doc.Entries == nil {
		doc.Entries = []pls.Element{}
	}

	return doc.Entries, nil
}
