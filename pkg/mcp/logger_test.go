package mcp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/pls/pkg/log"
	"github.com/macropower/pls/pkg/mcp"
)

// Not parallel: replaces the default logger.
func TestWithTracing(t *testing.T) {
	var buf bytes.Buffer

	prev := slog.Default()
	slog.SetDefault(slog.New(log.Handler(&buf, slog.LevelInfo, log.FormatJSON)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	errBoom := errors.New("boom")

	h := mcp.WithTracing(noop.NewTracerProvider().Tracer("test"),
		func(ctx context.Context, _ *sdk.CallToolRequest, in string) (*sdk.CallToolResult, int, error) {
			log.WithContext(ctx).InfoContext(ctx, "inside", slog.String("in", in))

			return nil, len(in), errBoom
		},
	)

	_, out, err := h(t.Context(), nil, "abc")
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 3, out)

	dec := json.NewDecoder(&buf)

	var inside map[string]any
	require.NoError(t, dec.Decode(&inside))
	assert.Equal(t, "inside", inside["msg"])
	assert.Contains(t, inside, "tool")

	var failed map[string]any
	require.NoError(t, dec.Decode(&failed))
	assert.Equal(t, "tool call failed", failed["msg"])
	assert.Equal(t, "boom", failed["error"])
}
