package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/pls/pkg/log"
)

// WithTracing wraps a tool handler with an OpenTelemetry span and structured
// logging. The handler's context carries a logger scoped to the tool, which
// is returned by [log.WithContext]. Failures, including error results, are
// recorded on the span.
func WithTracing[In, Out any](tracer trace.Tracer, handler mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		name := ""
		if req != nil && req.Params != nil {
			name = req.Params.Name
		}

		ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attribute.String("mcp.tool", name)))
		defer span.End()

		ctx = log.NewContext(ctx, slog.Default().With(slog.String("tool", name)))
		logger := log.WithContext(ctx)

		logger.DebugContext(ctx, "handling tool call", slog.Any("args", in))

		start := time.Now()
		result, out, err := handler(ctx, req, in)

		switch {
		case err != nil:
			logger.ErrorContext(ctx, "tool call failed", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "tool call failed")

		case result != nil && result.IsError:
			logger.WarnContext(ctx, "tool call returned an error result")
			span.SetStatus(codes.Error, "tool error result")

		default:
			logger.DebugContext(ctx, "tool call completed",
				slog.Duration("duration", time.Since(start)),
			)
		}

		return result, out, err
	}
}
