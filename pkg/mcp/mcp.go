package mcp

import (
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/macropower/pls/pkg/pls"
)

const (
	name         = "pls"
	instructions = `MCP Server 'pls' reads and writes PLS playlists (.pls files with a [playlist] section).

When to use these tools:
- Inspecting the entries of a playlist file or playlist text
- Selecting entries with a CEL filter (variables: index, path, title, hasTitle, length)
- Producing a valid PLS document from a list of entries

Workflow:
1. Use 'parse_playlist' with either a 'path' or the raw 'content' of a playlist.
2. Use 'write_playlist' with the entries to produce PLS text. Lengths are in seconds, -1 means unknown.
`
)

var (
	ErrInvalidParams = errors.New("invalid params")
	ErrInvalidLength = errors.New("invalid length")
)

// Entry is a playlist element as exchanged with MCP clients. A nil or -1
// Length is unknown, matching an omitted Length# key.
type Entry struct {
	Title  *string `json:"title,omitempty"`
	Path   string  `json:"path"`
	Length *int64  `json:"length,omitempty"`
}

func newEntry(e pls.Element) Entry {
	length := e.Length.Int64()

	return Entry{
		Path:   e.Path,
		Title:  e.Title,
		Length: &length,
	}
}

func newEntries(elements []pls.Element) []Entry {
	entries := make([]Entry, 0, len(elements))
	for _, e := range elements {
		entries = append(entries, newEntry(e))
	}

	return entries
}

// Element converts the entry into a [pls.Element].
func (e Entry) Element() (pls.Element, error) {
	opts := []pls.ElementOpt{}
	if e.Title != nil {
		opts = append(opts, pls.WithTitle(*e.Title))
	}

	switch {
	case e.Length == nil, *e.Length == -1:
	case *e.Length < -1:
		return pls.Element{}, fmt.Errorf("%w: %d", ErrInvalidLength, *e.Length)
	default:
		opts = append(opts, pls.WithLength(pls.Seconds(uint64(*e.Length))))
	}

	return pls.NewElement(e.Path, opts...), nil
}

func newEntrySchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "A playlist entry.",
		Properties: map[string]*jsonschema.Schema{
			"path": {
				Type:        "string",
				Description: "The File# value: a local path or URL.",
			},
			"title": {
				Type:        "string",
				Description: "The Title# value. Omit when the entry has no title.",
			},
			"length": {
				Type:        "integer",
				Description: "The Length# value in seconds. Omit or use -1 when unknown.",
			},
		},
		Required: []string{"path"},
	}
}
