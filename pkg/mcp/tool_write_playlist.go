package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/pls/pkg/pls"
)

// WritePlaylistParams defines parameters for the write_playlist tool.
type WritePlaylistParams struct {
	Entries []Entry `json:"entries"`
}

// WritePlaylistResult contains the written playlist.
type WritePlaylistResult struct {
	Error   string `json:"error,omitempty"`
	Content string `json:"content"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func (s *Server) handleWritePlaylist(
	_ context.Context,
	_ *mcp.CallToolRequest,
	args WritePlaylistParams,
) (*mcp.CallToolResult, WritePlaylistResult, error) {
	elements := make([]pls.Element, 0, len(args.Entries))

	for i, entry := range args.Entries {
		e, err := entry.Element()
		if err != nil {
			return nil, WritePlaylistResult{}, fmt.Errorf("%w: entry %d: %w", ErrInvalidParams, i+1, err)
		}

		elements = append(elements, e)
	}

	b, err := pls.Marshal(elements)
	if err != nil {
		result := WritePlaylistResult{
			Error:   err.Error(),
			Message: "Failed to write playlist.",
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

	result := WritePlaylistResult{
		Content: string(b),
		Count:   len(elements),
		Message: fmt.Sprintf("Wrote %d playlist entries.", len(elements)),
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: result.Content,
			},
		},
		StructuredContent: result,
	}, result, nil
}
