package format

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	DefaultStyle     = "dracula"
	DefaultFormatter = "terminal256"
)

// Lexer returns the chroma lexer name for f.
func (f Format) Lexer() string {
	if f == FormatPLS {
		return "ini"
	}

	return string(f)
}

// Highlight writes src to w with syntax highlighting for f.
// Uses [github.com/alecthomas/chroma/v2].
func Highlight(w io.Writer, src string, f Format, style string) error {
	if style == "" {
		style = DefaultStyle
	}

	err := quick.Highlight(w, src, f.Lexer(), DefaultFormatter, style)
	if err != nil {
		return fmt.Errorf("highlight %s: %w", f, err)
	}

	return nil
}
