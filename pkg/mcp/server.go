package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/pls/pkg/expr"
	"github.com/macropower/pls/pkg/pls"
	"github.com/macropower/pls/pkg/version"
)

// FilterFunc resolves a filter name or CEL expression into an [expr.Filter].
type FilterFunc func(s string) (*expr.Filter, error)

// ServerOpt configures a [Server].
type ServerOpt func(*Server)

// WithParseOpts sets the options used when parsing playlists.
func WithParseOpts(opts ...pls.ParseOpt) ServerOpt {
	return func(s *Server) {
		s.parseOpts = opts
	}
}

// WithFilterFunc sets how the filter argument of parse_playlist is resolved.
func WithFilterFunc(fn FilterFunc) ServerOpt {
	return func(s *Server) {
		s.filter = fn
	}
}

// WithRoot confines path arguments to the given directory.
func WithRoot(root *os.Root) ServerOpt {
	return func(s *Server) {
		s.root = root
	}
}

// Server implements the MCP server for pls.
type Server struct {
	server    *mcp.Server
	tracer    trace.Tracer
	root      *os.Root
	filter    FilterFunc
	address   string
	parseOpts []pls.ParseOpt
}

// NewServer creates a new MCP server instance. An empty address serves over
// stdio.
func NewServer(address string, opts ...ServerOpt) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address: address,
		server:  mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		tracer:  otel.Tracer("mcp-server"),
		filter:  expr.Compile,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_playlist",
		Description: "Parse a PLS playlist from a file path or from raw content, optionally keeping only entries matching a CEL filter. Specify exactly one of path or content.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Path of the playlist file to read.",
				},
				"content": {
					Type:        "string",
					Description: "Raw playlist text to parse.",
				},
				"filter": {
					Type:        "string",
					Description: "A CEL expression or configured filter name, e.g. `length > 60 && !isURL(path)`.",
				},
			},
		},
	}, WithTracing(s.tracer, s.handleParsePlaylist))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "write_playlist",
		Description: "Encode a list of entries as a PLS playlist and return its text.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"entries": {
					Type:        "array",
					Description: "The playlist entries, in order.",
					Items:       newEntrySchema(),
				},
			},
			Required: []string{"entries"},
		},
	}, WithTracing(s.tracer, s.handleWritePlaylist))
}

// Server returns the underlying [mcp.Server].
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server and blocks until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.Error("shutdown MCP server", slog.Any("error", err))
		}
	}()

	err := server.ListenAndServe()

	cancel()
	<-stopped

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)

	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
