package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/pls/pkg/log"
	"github.com/macropower/pls/pkg/pls"
)

// ParsePlaylistParams defines parameters for the parse_playlist tool.
type ParsePlaylistParams struct {
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"`
	Filter  string `json:"filter,omitempty"`
}

// ParsePlaylistResult contains the result of parsing a playlist.
type ParsePlaylistResult struct {
	TotalSeconds *uint64 `json:"totalSeconds,omitempty"`
	Error        string  `json:"error,omitempty"`
	Message      string  `json:"message"`
	Entries      []Entry `json:"entries"`
	Count        int     `json:"count"`
}

func (s *Server) handleParsePlaylist(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	args ParsePlaylistParams,
) (*mcp.CallToolResult, ParsePlaylistResult, error) {
	if (args.Path == "") == (args.Content == "") {
		return nil, ParsePlaylistResult{}, fmt.Errorf("%w: exactly one of path or content is required", ErrInvalidParams)
	}

	elements, err := s.readPlaylist(args)
	if err != nil {
		return createParsePlaylistError(err)
	}

	if args.Filter != "" {
		f, err := s.filter(args.Filter)
		if err != nil {
			return nil, ParsePlaylistResult{}, fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}

		n := len(elements)

		elements, err = f.Apply(elements)
		if err != nil {
			return createParsePlaylistError(err)
		}

		log.WithContext(ctx).DebugContext(ctx, "applied filter",
			slog.String("filter", f.Expression),
			slog.Int("kept", len(elements)),
			slog.Int("total", n),
		)
	}

	result := ParsePlaylistResult{
		Entries: newEntries(elements),
		Count:   len(elements),
	}

	secs, ok := pls.TotalSeconds(elements)
	if ok {
		result.TotalSeconds = &secs
	}

	return createParsePlaylistResult(result)
}

func (s *Server) readPlaylist(args ParsePlaylistParams) ([]pls.Element, error) {
	if args.Content != "" {
		return pls.Parse(strings.NewReader(args.Content), s.parseOpts...) //nolint:wrapcheck // Return the original error.
	}

	f, err := s.open(args.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // Read-only file.

	elements, err := pls.Parse(f, s.parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", args.Path, err)
	}

	return elements, nil
}

func (s *Server) open(path string) (*os.File, error) {
	if s.root != nil {
		f, err := s.root.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open playlist: %w", err)
		}

		return f, nil
	}

	f, err := os.Open(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("open playlist: %w", err)
	}

	return f, nil
}

func createParsePlaylistResult(result ParsePlaylistResult) (*mcp.CallToolResult, ParsePlaylistResult, error) {
	msg := fmt.Sprintf("Found %d playlist entries.", result.Count)
	result.Message = msg

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: msg,
			},
		},
		StructuredContent: result,
	}, result, nil
}

func createParsePlaylistError(err error) (*mcp.CallToolResult, ParsePlaylistResult, error) {
	result := ParsePlaylistResult{
		Error:   err.Error(),
		Message: "Failed to parse playlist.",
		Entries: []Entry{},
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("%s %s", result.Message, result.Error),
			},
		},
		StructuredContent: result,
		IsError:           true,
	}, result, nil
}
